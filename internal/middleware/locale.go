package middleware

import (
	"github.com/dimitrije/officehub/internal/i18n"
	"github.com/m1z23r/drift/pkg/drift"
)

const LocaleKey = "locale"

// Locale picks the response language from the lang query parameter or the
// Accept-Language header.
func Locale() drift.HandlerFunc {
	return func(c *drift.Context) {
		pref := c.QueryParam("lang")
		if pref == "" {
			pref = c.GetHeader("Accept-Language")
		}
		c.Set(LocaleKey, i18n.Negotiate(pref))
		c.Next()
	}
}

func GetLocale(c *drift.Context) string {
	if v, ok := c.Get(LocaleKey); ok {
		if l, ok := v.(string); ok && l != "" {
			return l
		}
	}
	return i18n.DefaultLocale()
}
