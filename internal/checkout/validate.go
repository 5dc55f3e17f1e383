package checkout

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/kozymacro/papara-checkout/internal/config"
)

// Field identifies one of the checkout form inputs.
type Field string

const (
	FieldEmail    Field = "email"
	FieldQuantity Field = "quantity"
	FieldDiscount Field = "discount"
)

// Fields lists the form inputs in validation order.
var Fields = []Field{FieldEmail, FieldQuantity, FieldDiscount}

// ParseField maps a field name from a form post or the payment service to a Field.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldEmail, FieldQuantity, FieldDiscount:
		return Field(s), true
	}
	return "", false
}

// Validation messages shown next to the inputs.
const (
	MsgEmailRequired    = "Email address is required."
	MsgEmailInvalid     = "Please enter a valid email address."
	MsgQuantityRequired = "Quantity is required."
	MsgQuantityNaN      = "Please enter a valid number."
	MsgQuantityMin      = "You must select at least 1 quantity."
	MsgQuantityMax      = "You can select a maximum of 100 quantities."
	MsgDiscountInvalid  = "Invalid characters."
)

var (
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	discountPattern = regexp.MustCompile(`^[A-Za-z0-9-]*$`)
)

// EmailError returns the message for an invalid email, or "" when it is acceptable.
func EmailError(value string) string {
	if value == "" {
		return MsgEmailRequired
	}
	if !emailPattern.MatchString(strings.ToLower(value)) {
		return MsgEmailInvalid
	}
	return ""
}

// QuantityError returns the message for an invalid quantity, or "" when it
// is an integer within [MinQuantity, MaxQuantity].
func QuantityError(value string) string {
	if value == "" {
		return MsgQuantityRequired
	}
	n, err := ParseQuantity(value)
	if err != nil {
		return MsgQuantityNaN
	}
	if n < config.MinQuantity {
		return MsgQuantityMin
	}
	if n > config.MaxQuantity {
		return MsgQuantityMax
	}
	return ""
}

// DiscountError returns the message for an invalid discount code. Empty codes are fine.
func DiscountError(value string) string {
	if value == "" {
		return ""
	}
	if !discountPattern.MatchString(value) {
		return MsgDiscountInvalid
	}
	return ""
}

// ParseQuantity parses a quantity input, ignoring surrounding whitespace.
func ParseQuantity(value string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(value))
}

// Check runs the validator for field.
func Check(field Field, value string) string {
	switch field {
	case FieldEmail:
		return EmailError(value)
	case FieldQuantity:
		return QuantityError(value)
	case FieldDiscount:
		return DiscountError(value)
	}
	return ""
}
