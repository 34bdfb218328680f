package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxRecommendations caps how many related products are surfaced.
const MaxRecommendations = 5

var titleCaser = cases.Title(language.English)

// NormalizeCategory reduces a "namespace:value" category tag to its
// comparable form: everything up to and including the first colon is
// stripped, the remainder lowercased.
func NormalizeCategory(raw string) string {
	if i := strings.IndexByte(raw, ':'); i >= 0 {
		raw = raw[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(raw))
}

// DisplayCategory title-cases a normalized category for display.
func DisplayCategory(norm string) string {
	return titleCaser.String(norm)
}

// SplitCategoryList splits the flat delimited category string stored on line
// items. Both '/' and ',' are accepted as delimiters.
func SplitCategoryList(flat string) []string {
	parts := strings.FieldsFunc(flat, func(r rune) bool {
		return r == '/' || r == ','
	})
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CategorySet builds the normalized target set from flat category strings
// (one per cart line item).
func CategorySet(flats []string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, flat := range flats {
		for _, raw := range SplitCategoryList(flat) {
			if norm := NormalizeCategory(raw); norm != "" {
				set[norm] = struct{}{}
			}
		}
	}
	return set
}

// ProductCategorySet builds the normalized target set from a single product.
func ProductCategorySet(p Product) map[string]struct{} {
	set := map[string]struct{}{}
	for _, raw := range p.Categories {
		if norm := NormalizeCategory(raw); norm != "" {
			set[norm] = struct{}{}
		}
	}
	return set
}

// Recommend filters candidates to products that are not excluded by key and
// share at least one normalized category with the target set, in source
// order, capped at MaxRecommendations. Exclusion is by identity only: a
// candidate sharing a category with the cart stays in unless its own key is
// already in the cart. Returns nil when nothing matches so callers can skip
// the section entirely.
func Recommend(candidates []Product, target map[string]struct{}, exclude map[string]struct{}) []Product {
	if len(target) == 0 {
		return nil
	}
	var out []Product
	for _, candidate := range candidates {
		if _, skip := exclude[candidate.Key()]; skip {
			continue
		}
		if !overlaps(candidate, target) {
			continue
		}
		out = append(out, candidate)
		if len(out) == MaxRecommendations {
			break
		}
	}
	return out
}

func overlaps(p Product, target map[string]struct{}) bool {
	for _, raw := range p.Categories {
		if _, ok := target[NormalizeCategory(raw)]; ok {
			return true
		}
	}
	return false
}
