package diffbot

import (
	"strconv"
	"strings"

	"productposts/internal/models"
)

// Defaults used when an extraction leaves a field out. A missing source URL
// falls back to the URL that was submitted.
const (
	DefaultTitle = "Untitled product"
	DefaultText  = ""
	DefaultPrice = "N/A"
)

type Transformer struct{}

func NewTransformer() *Transformer {
	return &Transformer{}
}

// TransformProduct converts a Diffbot extraction into a ProductRecord with
// every key populated.
func (t *Transformer) TransformProduct(p *Product, requestedURL string) models.ProductRecord {
	if p == nil {
		p = &Product{}
	}

	return models.ProductRecord{
		Title:        firstNonBlank(p.Title, DefaultTitle),
		Text:         firstNonBlank(p.Text, p.Description, DefaultText),
		RegularPrice: price(p.RegularPrice, p.RegularPriceDetails),
		OfferPrice:   price(p.OfferPrice, p.OfferPriceDetails),
		SourceURL:    firstNonBlank(p.PageURL, p.ResolvedPageURL, requestedURL),
	}
}

func price(p Price, details *PriceDetails) string {
	if s := strings.TrimSpace(string(p)); s != "" {
		return s
	}
	if details != nil {
		if s := strings.TrimSpace(details.Text); s != "" {
			return s
		}
		if details.Amount != nil {
			return strconv.FormatFloat(*details.Amount, 'f', 2, 64)
		}
	}
	return DefaultPrice
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
