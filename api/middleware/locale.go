package middleware

import (
	"net/http"
	"strings"

	"golang.org/x/text/language"

	"github.com/angelmondragon/storefront-catalog/pkg/enums"
	"github.com/angelmondragon/storefront-catalog/pkg/logger"
)

// LocaleQueryParam overrides Accept-Language when it names a supported locale.
const LocaleQueryParam = "locale"

var (
	supportedLocales = []enums.Locale{enums.LocaleEnglish, enums.LocaleArabic}
	localeMatcher    = language.NewMatcher([]language.Tag{language.English, language.Arabic})
)

// Locale negotiates the response language and stores it on the context.
func Locale(fallback enums.Locale, logg *logger.Logger) func(http.Handler) http.Handler {
	if !fallback.IsValid() {
		fallback = enums.DefaultLocale
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			locale := negotiateLocale(r, fallback)
			w.Header().Set("Content-Language", locale.String())

			ctx := WithLocale(r.Context(), locale)
			if logg != nil {
				ctx = logg.WithLocale(ctx, locale.String())
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func negotiateLocale(r *http.Request, fallback enums.Locale) enums.Locale {
	if raw := strings.TrimSpace(r.URL.Query().Get(LocaleQueryParam)); raw != "" {
		if locale, err := enums.ParseLocale(raw); err == nil {
			return locale
		}
	}

	header := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if header == "" {
		return fallback
	}
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, index, confidence := localeMatcher.Match(tags...)
	if confidence == language.No {
		return fallback
	}
	return supportedLocales[index]
}
