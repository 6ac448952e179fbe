package worker

import (
	"context"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"

	"productposts/internal/config"
	"productposts/internal/events"
	"productposts/internal/logger"
	"productposts/internal/worker/processors"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

type Worker struct {
	logger    *logger.Logger
	reader    messageReader
	processor *processors.EventProcessor
}

func New(cfg *config.Config, logger *logger.Logger, processor *processors.EventProcessor) *Worker {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:        cfg.Brokers(),
		GroupID:        cfg.KafkaGroupID,
		Topic:          cfg.KafkaTopic,
		MinBytes:       1,
		MaxBytes:       10e6, // 10MB
		CommitInterval: 0,
	})

	return newWorker(reader, processor, logger)
}

func newWorker(reader messageReader, processor *processors.EventProcessor, logger *logger.Logger) *Worker {
	return &Worker{
		logger:    logger,
		reader:    reader,
		processor: processor,
	}
}

// Start consumes events until ctx is cancelled. Each message is committed
// after it was handled, whatever the outcome, so nothing is retried.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Worker started, listening for events...")

	for {
		message, err := w.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("Failed to read message: %v", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		w.handle(ctx, message)

		if err := w.reader.CommitMessages(ctx, message); err != nil {
			if errors.Is(err, context.Canceled) {
				return err
			}
			w.logger.Error("Failed to commit offset %d: %v", message.Offset, err)
		}
	}
}

func (w *Worker) handle(ctx context.Context, message kafka.Message) {
	event, err := events.Decode(message.Value)
	if err != nil {
		w.logger.Error("Skipping offset %d: %v", message.Offset, err)
		return
	}

	if err := w.processor.Process(ctx, event); err != nil {
		w.logger.Error("Failed to process event %s: %v", event.ID, err)
		return
	}
	w.logger.Debug("Event %s processed successfully", event.ID)
}

func (w *Worker) Stop() error {
	w.logger.Info("Stopping worker...")
	return w.reader.Close()
}
