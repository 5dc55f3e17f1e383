package api

// CheckoutRequest is the body of POST /api/v1/checkout.
type CheckoutRequest struct {
	Email        string `json:"email" example:"buyer@example.com"`
	Quantity     int    `json:"quantity" example:"1"`
	DayCount     int    `json:"dayCount" example:"30"`
	DiscountCode string `json:"discountCode,omitempty" example:"SPRING-10"`
	Language     string `json:"language,omitempty" example:"en"`
}

// CheckoutResponse carries the payment page the buyer should be sent to.
type CheckoutResponse struct {
	URL string `json:"url"`
}

// PackageResponse represents a purchasable package.
type PackageResponse struct {
	DayCount    int    `json:"dayCount"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price"`
	PriceHTML   string `json:"priceHtml"`
}

// ErrorResponse represents an API error.
// Field is set when the error belongs to one input.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  int    `json:"code"`
	Field string `json:"field,omitempty"`
}
