package config

import "time"

const (
	// DefaultPort is the default HTTP server port.
	DefaultPort = "8080"

	// DefaultPaymentURL is the Papara checkout endpoint of the payment service.
	DefaultPaymentURL = "https://pay.kozymacro.com/v1/papara"

	// DefaultSiteURL is the site the payment service sends the buyer back to.
	DefaultSiteURL = "https://kozymacro.com"

	// DefaultDatabaseURL is empty; the attempt log is disabled unless provided.
	DefaultDatabaseURL = ""

	// DefaultLanguage is used when the page carries no language attribute.
	DefaultLanguage = "tr"

	// DiscountClearDelay is how long an unchecked discount code survives
	// before it is wiped.
	DiscountClearDelay = 150 * time.Millisecond

	// MinQuantity and MaxQuantity bound the number of licenses per purchase.
	MinQuantity = 1
	MaxQuantity = 100

	// DefaultSessionTTL is how long an idle checkout session is kept.
	DefaultSessionTTL = 30 * time.Minute

	// DefaultRateLimit is the default requests per minute per IP address.
	DefaultRateLimit = 60

	// SessionCookie names the cookie carrying the checkout session id.
	SessionCookie = "papara_session"
)
