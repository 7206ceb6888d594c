package enums

import (
	"fmt"
	"strings"
)

// Locale selects which of the two parallel catalog text fields is surfaced.
type Locale string

const (
	LocaleEnglish Locale = "en"
	LocaleArabic  Locale = "ar"
)

var validLocales = []Locale{
	LocaleEnglish,
	LocaleArabic,
}

// DefaultLocale is used when a request does not carry a supported locale.
const DefaultLocale = LocaleEnglish

// String implements fmt.Stringer.
func (l Locale) String() string {
	return string(l)
}

// IsValid reports whether the value is a known Locale.
func (l Locale) IsValid() bool {
	for _, candidate := range validLocales {
		if candidate == l {
			return true
		}
	}
	return false
}

// Other returns the second supported language, used as the text fallback.
func (l Locale) Other() Locale {
	if l == LocaleArabic {
		return LocaleEnglish
	}
	return LocaleArabic
}

// Locales returns the supported locales in preference order.
func Locales() []Locale {
	return append([]Locale(nil), validLocales...)
}

// ParseLocale converts raw input into a Locale.
func ParseLocale(value string) (Locale, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	for _, candidate := range validLocales {
		if string(candidate) == normalized {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid locale %q", value)
}
