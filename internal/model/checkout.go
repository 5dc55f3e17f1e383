package model

import (
	"html/template"

	"github.com/shopspring/decimal"
)

// Package is a purchasable license length shown as a button on the pricing page.
type Package struct {
	DayCount    int
	Label       string
	Description string // Markdown
	Price       decimal.Decimal
	PriceHTML   template.HTML // Sanitized display fragment
}

// Selection is the package picked for the current modal session.
type Selection struct {
	DayCount  int
	PriceHTML template.HTML
}

// PurchaseRequest is the body posted to the payment service.
type PurchaseRequest struct {
	Email        string `json:"email"`
	Language     string `json:"language"`
	Quantity     int    `json:"quantity"`
	DayCount     int    `json:"dayCount"`
	DiscountCode string `json:"discountCode"`
	SuccessURL   string `json:"successUrl"`
	CancelURL    string `json:"cancelUrl"`
}

// PurchaseResponse is the JSON returned by the payment service.
// A successful call carries URL; a rejected one carries Error and usually Field.
type PurchaseResponse struct {
	URL   string `json:"url,omitempty"`
	Field string `json:"field,omitempty"`
	Error string `json:"error,omitempty"`
}
