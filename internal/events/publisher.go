package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"productposts/internal/logger"
)

type Type string

const (
	TypeImportRequested Type = "import.requested"
	TypeProductImported Type = "product.imported"
)

type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	URL       string    `json:"url"`
	PostID    string    `json:"post_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func Decode(b []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(b, &e); err != nil {
		return Event{}, fmt.Errorf("failed to parse event: %w", err)
	}
	if e.Type == "" {
		return Event{}, errors.New("failed to parse event: missing type")
	}
	return e, nil
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes import events to a single Kafka topic.
type Publisher struct {
	writer messageWriter
	logger *logger.Logger
	now    func() time.Time
}

func NewPublisher(brokers []string, topic string, logger *logger.Logger) *Publisher {
	return newPublisher(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
		WriteTimeout:           10 * time.Second,
	}, logger)
}

func newPublisher(w messageWriter, logger *logger.Logger) *Publisher {
	return &Publisher{writer: w, logger: logger, now: time.Now}
}

// RequestImports queues one import.requested event per non-blank URL and
// returns how many were queued.
func (p *Publisher) RequestImports(ctx context.Context, urls []string) (int, error) {
	var msgs []kafka.Message
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" {
			continue
		}
		msg, err := p.message(Event{Type: TypeImportRequested, URL: u})
		if err != nil {
			return 0, err
		}
		msgs = append(msgs, msg)
	}
	if len(msgs) == 0 {
		return 0, nil
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return 0, fmt.Errorf("failed to queue imports: %w", err)
	}
	p.logger.Debug("queued %d import requests", len(msgs))
	return len(msgs), nil
}

// ProductImported announces a created Product post.
func (p *Publisher) ProductImported(ctx context.Context, postID, pageURL string) error {
	msg, err := p.message(Event{Type: TypeProductImported, URL: pageURL, PostID: postID})
	if err != nil {
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", TypeProductImported, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

func (p *Publisher) message(e Event) (kafka.Message, error) {
	e.ID = uuid.New().String()
	e.Timestamp = p.now().UTC()
	value, err := json.Marshal(e)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to marshal event: %w", err)
	}
	return kafka.Message{Key: []byte(e.URL), Value: value}, nil
}
