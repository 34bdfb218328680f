// Package format renders money, dates, and category labels for templates.
package format

import (
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titleCaser = cases.Title(language.English)

// Money formats an amount in minor units. USD assumes cents; JPY has no
// minor unit; anything else falls back to "CUR 1,234".
func Money(minor int64, currency string) string {
	currency = strings.ToUpper(currency)
	switch currency {
	case "USD":
		neg := minor < 0
		if neg {
			minor = -minor
		}
		head := thousandSep(minor / 100)
		tail := fmt.Sprintf("%02d", minor%100)
		if neg {
			return "-$" + head + "." + tail
		}
		return "$" + head + "." + tail
	case "JPY":
		return "¥" + thousandSep(minor)
	default:
		return currency + " " + thousandSep(minor)
	}
}

func thousandSep(n int64) string {
	s := fmt.Sprintf("%d", n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out strings.Builder
	for i, c := range s {
		if i != 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

// Date formats time in a locale-friendly short form.
func Date(t time.Time, lang string) string {
	switch strings.ToLower(lang) {
	case "ja":
		return t.Format("2006-01-02")
	default:
		return t.Format("Jan 2, 2006")
	}
}

// Title title-cases a phrase for display (e.g. "running shoes" ->
// "Running Shoes").
func Title(s string) string {
	return titleCaser.String(s)
}
