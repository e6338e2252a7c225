package model

import (
	"time"
)

// Product is a single Wildberries product card extracted from its page.
type Product struct {
	ID              string          `json:"product_id"`
	Name            string          `json:"name"`
	Price           Price           `json:"price"`
	Seller          Seller          `json:"seller"`
	Rating          Rating          `json:"rating"`
	Characteristics Characteristics `json:"characteristics"`
	Images          []string        `json:"images"`

	URL     string `json:"url"`
	RawHTML string `json:"-"`
}

type Price struct {
	Current  string `json:"current"`
	Original string `json:"original,omitempty"` // empty when there is no discount
}

// HasDiscount reports whether the page shows a crossed-out price.
func (p Price) HasDiscount() bool {
	return p.Original != ""
}

type Seller struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

type Rating struct {
	Score   string `json:"score"`
	Reviews string `json:"reviews"`
}

type Characteristic struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Characteristics keeps label/value pairs in document order.
type Characteristics []Characteristic

// Set adds a pair, or replaces the value in place if the label is already known.
func (c *Characteristics) Set(label, value string) {
	for i := range *c {
		if (*c)[i].Label == label {
			(*c)[i].Value = value
			return
		}
	}
	*c = append(*c, Characteristic{Label: label, Value: value})
}

// Get returns the value stored under label.
func (c Characteristics) Get(label string) (string, bool) {
	for _, ch := range c {
		if ch.Label == label {
			return ch.Value, true
		}
	}
	return "", false
}

// FetchResult is the outcome of handling one product URL.
type FetchResult struct {
	Success   bool      `json:"success"`
	URL       string    `json:"url"`
	RawHTML   string    `json:"raw_html,omitempty"`
	Error     string    `json:"error,omitempty"`
	Product   *Product  `json:"product,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewFetchResult builds a FetchResult from a parse outcome.
func NewFetchResult(url string, product *Product, err error) FetchResult {
	res := FetchResult{
		URL:       url,
		Timestamp: time.Now(),
	}
	if err != nil {
		res.Error = err.Error()
		return res
	}
	res.Success = true
	res.Product = product
	res.RawHTML = product.RawHTML
	return res
}
