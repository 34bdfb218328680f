package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gildedlane/storefront-web/internal/i18n"
	"github.com/gildedlane/storefront-web/internal/nav"
)

// Locale resolves the request language (hl query override first, then URL
// segment, then session preference, then Accept-Language) and stores it in
// the request context.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := strings.ToLower(r.URL.Query().Get("hl"))
			if len(lang) != 2 {
				lang = nav.LocaleSegment(r.URL.Path)
			}
			if lang == "" {
				if s := GetSession(r); s.Locale != "" {
					lang = s.Locale
				}
			}
			if lang == "" {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}
			ctx := context.WithValue(r.Context(), ctxKeyLocaleFB, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Lang returns the resolved request language, defaulting to "en".
func Lang(r *http.Request) string {
	if v, ok := r.Context().Value(ctxKeyLocaleFB).(string); ok && v != "" {
		return v
	}
	return "en"
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// append to existing Vary if any
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}
