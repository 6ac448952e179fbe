// Package diffbot isolates the Diffbot client and its response shapes from
// the rest of the service. Callers only ever see models.ProductRecord and the
// two error kinds declared here.
package diffbot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"productposts/internal/models"
	"productposts/internal/services/diffbot"
)

var (
	ErrInvalidCredential = errors.New("diffbot connector: invalid credential")
	ErrNoResults         = errors.New("diffbot connector: no product extracted")
)

// UpstreamError wraps every failure of a product lookup.
type UpstreamError struct {
	URL string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("diffbot connector: product lookup for %s failed: %v", e.URL, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

type DiffbotConnector struct {
	client      *diffbot.Client
	transformer *diffbot.Transformer
}

func New(token string, opts ...diffbot.Option) (*DiffbotConnector, error) {
	client, err := diffbot.NewClient(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCredential, err)
	}
	return &DiffbotConnector{
		client:      client,
		transformer: diffbot.NewTransformer(),
	}, nil
}

// ValidateKey reports whether token belongs to an active Diffbot account.
// Every failure is folded into false.
func ValidateKey(ctx context.Context, token string, opts ...diffbot.Option) bool {
	dc, err := New(token, opts...)
	if err != nil {
		return false
	}
	acct, err := dc.client.Account(ctx)
	if err != nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(acct.Status), diffbot.AccountStatusActive)
}

// Product extracts the product at pageURL. Only the first extraction is used
// when Diffbot returns several candidates.
func (dc *DiffbotConnector) Product(ctx context.Context, pageURL string) (models.ProductRecord, error) {
	resp, err := dc.client.Product(ctx, pageURL)
	if err != nil {
		return models.ProductRecord{}, &UpstreamError{URL: pageURL, Err: err}
	}

	product, ok := resp.First()
	if !ok {
		return models.ProductRecord{}, &UpstreamError{URL: pageURL, Err: ErrNoResults}
	}

	return dc.transformer.TransformProduct(product, pageURL), nil
}
