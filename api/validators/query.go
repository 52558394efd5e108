package validators

import (
	"net/http"
	"strings"

	pkgerrors "github.com/mvidales/storefront-backend/pkg/errors"
)

// ParseQueryLocale returns the requested display locale, defaulting when the
// parameter is absent. Locales are lowercase two-letter tags.
func ParseQueryLocale(r *http.Request, fallback string) (string, error) {
	raw := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("lang")))
	if raw == "" {
		return fallback, nil
	}
	if len(raw) != 2 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "query parameter must be a two-letter locale").WithDetails(map[string]any{"field": "lang"})
	}
	return raw, nil
}
