// Package importer turns a submitted product URL into a Product post.
//
// The workflow moves AwaitingInput -> Validating -> Calling -> Persisting ->
// Done. Any step can fall into Error, which carries one of the fixed Status
// codes. Nothing is kept between runs; the Result is the whole outcome.
package importer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	connector "productposts/internal/connectors/diffbot"
	"productposts/internal/logger"
	"productposts/internal/models"
	"productposts/internal/repository"
	"productposts/internal/services/diffbot"
)

var ErrNoCredential = errors.New("importer: no API credential configured")

// ProductFetcher is the adapter surface the workflow calls.
type ProductFetcher interface {
	Product(ctx context.Context, pageURL string) (models.ProductRecord, error)
}

// ConnectorFactory builds a fetcher for one credential. A returned error
// means the credential was rejected at construction.
type ConnectorFactory func(token string) (ProductFetcher, error)

// DiffbotConnectors is the production ConnectorFactory.
func DiffbotConnectors(opts ...diffbot.Option) ConnectorFactory {
	return func(token string) (ProductFetcher, error) {
		dc, err := connector.New(token, opts...)
		if err != nil {
			return nil, err
		}
		return dc, nil
	}
}

type SettingReader interface {
	GetValue(ctx context.Context, key string) (string, error)
}

// Notifier is told about each product that was imported.
type Notifier interface {
	ProductImported(ctx context.Context, postID, pageURL string) error
}

type Result struct {
	State State
	// FailedAt is the state the workflow was in when it failed.
	FailedAt State
	Status   Status
	URL      string
	PostID   string
	Record   *models.ProductRecord
	// Err is the underlying cause, for logs only.
	Err error
}

func (r Result) OK() bool {
	return r.State == StateDone
}

func (r Result) Message() string {
	return Message(r.Status)
}

type Importer struct {
	settings SettingReader
	posts    repository.PostRepository
	connect  ConnectorFactory
	notifier Notifier
	validate *validator.Validate
	logger   *logger.Logger
}

type Option func(*Importer)

func WithNotifier(n Notifier) Option {
	return func(i *Importer) {
		i.notifier = n
	}
}

func New(settings SettingReader, posts repository.PostRepository, connect ConnectorFactory, logger *logger.Logger, opts ...Option) *Importer {
	i := &Importer{
		settings: settings,
		posts:    posts,
		connect:  connect,
		validate: validator.New(),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Run executes one import. It never returns an error: every failure ends in
// StateError with a Status code.
func (i *Importer) Run(ctx context.Context, rawURL string) Result {
	res := Result{State: StateAwaitingInput, URL: strings.TrimSpace(rawURL)}

	if res.URL == "" {
		return i.fail(res, StatusNoURL, nil)
	}
	if err := i.validate.Var(res.URL, "http_url"); err != nil {
		return i.fail(res, StatusBadURL, err)
	}
	res.State = StateValidating

	token, err := i.settings.GetValue(ctx, models.SettingAPIKey)
	if err != nil {
		return i.fail(res, StatusBadKey, fmt.Errorf("load credential: %w", err))
	}
	if strings.TrimSpace(token) == "" {
		return i.fail(res, StatusBadKey, ErrNoCredential)
	}
	fetcher, err := i.connect(token)
	if err != nil {
		return i.fail(res, StatusBadKey, err)
	}
	res.State = StateCalling

	record, err := fetcher.Product(ctx, res.URL)
	if err != nil {
		return i.fail(res, StatusBadKey, err)
	}
	res.Record = &record
	res.State = StatePersisting

	postID, err := i.persist(ctx, record)
	if err != nil {
		return i.fail(res, StatusCreatePostFailed, err)
	}
	res.PostID = postID
	res.State = StateDone
	res.Status = StatusCreatePostSuccessful

	i.logger.Info("imported %s as post %s", res.URL, postID)

	if i.notifier != nil {
		if err := i.notifier.ProductImported(ctx, postID, res.URL); err != nil {
			i.logger.Warn("failed to publish import of post %s: %v", postID, err)
		}
	}
	return res
}

// persist writes the post and its metadata in one transaction so a failed
// metadata write leaves no partial post behind.
func (i *Importer) persist(ctx context.Context, record models.ProductRecord) (string, error) {
	var postID string
	err := i.posts.Transaction(ctx, func(tx repository.PostRepository) error {
		post := &models.Post{
			Type:    models.PostTypeProduct,
			Status:  models.PostStatusPublish,
			Title:   record.Title,
			Content: record.Text,
		}
		if err := tx.Create(ctx, post); err != nil {
			return err
		}
		if post.ID == "" {
			return errors.New("create post: no id assigned")
		}
		for _, meta := range record.Meta() {
			if err := tx.AddMeta(ctx, post.ID, meta.Key, meta.Value); err != nil {
				return err
			}
		}
		postID = post.ID
		return nil
	})
	if err != nil {
		return "", err
	}
	return postID, nil
}

func (i *Importer) fail(res Result, status Status, err error) Result {
	res.FailedAt = res.State
	res.State = StateError
	res.Status = status
	res.Err = err
	if err != nil {
		i.logger.Error("import of %q failed at %s (%s): %v", res.URL, res.FailedAt, status, err)
	} else {
		i.logger.Info("import rejected at %s (%s)", res.FailedAt, status)
	}
	return res
}
