package checkout

import (
	"strings"

	"github.com/kozymacro/papara-checkout/internal/config"
)

// ResolveLanguage returns the page language, or the default when the page has none.
func ResolveLanguage(attr string) string {
	attr = strings.TrimSpace(attr)
	if attr == "" {
		return config.DefaultLanguage
	}
	return attr
}

// LocalePrefix returns the site path prefix for lang.
func LocalePrefix(lang string) string {
	if lang == "tr" {
		return "/tr"
	}
	return ""
}

// ReturnURLs builds the success and cancel URLs the payment service redirects to.
func ReturnURLs(siteURL, lang string) (success, cancel string) {
	base := strings.TrimRight(siteURL, "/") + LocalePrefix(lang)
	return base + "?payment=success", base + "?payment=fail"
}
