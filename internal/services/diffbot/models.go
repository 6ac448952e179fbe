package diffbot

import (
	"encoding/json"
	"fmt"
)

const AccountStatusActive = "active"

// ProductResponse is the body returned by the Product API. Version 3 lists
// extractions under "objects", the legacy v2 endpoint under "products".
type ProductResponse struct {
	Request  *Request  `json:"request,omitempty"`
	Objects  []Product `json:"objects"`
	Products []Product `json:"products"`
}

// First returns the first extracted product, whichever shape the payload used.
func (r *ProductResponse) First() (*Product, bool) {
	if r == nil {
		return nil, false
	}
	if len(r.Objects) > 0 {
		return &r.Objects[0], true
	}
	if len(r.Products) > 0 {
		return &r.Products[0], true
	}
	return nil, false
}

type Request struct {
	PageURL         string `json:"pageUrl"`
	ResolvedPageURL string `json:"resolvedPageUrl"`
	API             string `json:"api"`
	Version         int    `json:"version"`
}

// Product is a single extraction. Only the fields the service maps are
// declared; everything else in the payload is ignored.
type Product struct {
	Type                string        `json:"type"`
	Title               string        `json:"title"`
	Text                string        `json:"text"`
	Description         string        `json:"description"`
	RegularPrice        Price         `json:"regularPrice"`
	OfferPrice          Price         `json:"offerPrice"`
	RegularPriceDetails *PriceDetails `json:"regularPriceDetails"`
	OfferPriceDetails   *PriceDetails `json:"offerPriceDetails"`
	PageURL             string        `json:"pageUrl"`
	ResolvedPageURL     string        `json:"resolvedPageUrl"`
	SKU                 string        `json:"sku"`
	Brand               string        `json:"brand"`
}

type PriceDetails struct {
	Amount *float64 `json:"amount"`
	Symbol string   `json:"symbol"`
	Text   string   `json:"text"`
}

// Price accepts both "$14.99" style strings and bare JSON numbers.
type Price string

func (p *Price) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*p = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*p = Price(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("price: unsupported value %s", string(b))
	}
	*p = Price(n.String())
	return nil
}

// Account is the body returned by the Account API.
type Account struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Plan      string `json:"plan"`
	Status    string `json:"status"`
	PlanCalls int    `json:"planCalls"`
}

// errorEnvelope is what Diffbot sends, often with HTTP 200, when a call fails.
type errorEnvelope struct {
	ErrorCode int    `json:"errorCode"`
	Error     string `json:"error"`
}
