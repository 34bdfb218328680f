// Package catalog talks to the headless-CMS product API: endpoint selection
// across schema families and environments, record decoding for both schema
// variants, image URL resolution, and the category-overlap recommendation
// filter.
package catalog

import (
	"strings"

	"github.com/tidwall/gjson"
)

// Description carries the product copy in whichever format the CMS authored.
// At most one field is expected to be populated.
type Description struct {
	HTML      string
	Markdown  string
	Plaintext string
}

// IsZero reports whether no description variant is present.
func (d Description) IsZero() bool {
	return d.HTML == "" && d.Markdown == "" && d.Plaintext == ""
}

// ImageRef is a CMS-managed image with environment-specific delivery URLs.
type ImageRef struct {
	AuthorURL  string
	PublishURL string
}

// For returns the URL for the given environment.
func (i ImageRef) For(env Environment) string {
	if env == EnvAuthor {
		return i.AuthorURL
	}
	return i.PublishURL
}

// Product is a read-only catalog record. Legacy marks which schema family it
// was decoded from, which decides how its image fields are interpreted.
type Product struct {
	ID          string
	SKU         string
	Name        string
	Price       float64
	Categories  []string
	Description Description

	// Current schema: an external image URL wins over the DAM reference.
	ExternalImage string
	DAMImage      *ImageRef

	// Legacy schema: a single image field.
	LegacyImage *ImageRef

	Legacy bool
}

// Key returns the identifier used for cart entries and exclusion checks:
// the sku when present, the id otherwise.
func (p Product) Key() string {
	if p.SKU != "" {
		return p.SKU
	}
	return p.ID
}

// CategoryString flattens the ordered category list into the delimited form
// line items carry ("ns:a/ns:b").
func (p Product) CategoryString() string {
	return strings.Join(p.Categories, "/")
}

// PriceMinor returns the price in minor currency units.
func (p Product) PriceMinor() int64 {
	return int64(p.Price*100 + 0.5)
}

func decodeProduct(item gjson.Result, legacy bool) Product {
	p := Product{
		ID:     item.Get("id").String(),
		SKU:    item.Get("sku").String(),
		Name:   item.Get("name").String(),
		Price:  item.Get("price").Float(),
		Legacy: legacy,
	}

	categories := item.Get("categories")
	if !categories.Exists() {
		categories = item.Get("category")
	}
	for _, c := range categories.Array() {
		if s := strings.TrimSpace(c.String()); s != "" {
			p.Categories = append(p.Categories, s)
		}
	}

	desc := item.Get("description")
	switch {
	case desc.IsObject():
		p.Description = Description{
			HTML:      desc.Get("html").String(),
			Markdown:  desc.Get("markdown").String(),
			Plaintext: desc.Get("plaintext").String(),
		}
	case desc.Type == gjson.String:
		p.Description = Description{Plaintext: desc.String()}
	}

	if legacy {
		p.LegacyImage = decodeImageRef(item.Get("image"))
		return p
	}

	// External image may be a bare string or wrapped as {"plaintext": "..."}.
	external := item.Get("externalImage")
	switch {
	case external.IsObject():
		p.ExternalImage = strings.TrimSpace(external.Get("plaintext").String())
	case external.Type == gjson.String:
		p.ExternalImage = strings.TrimSpace(external.String())
	}
	p.DAMImage = decodeImageRef(item.Get("image"))
	return p
}

func decodeImageRef(v gjson.Result) *ImageRef {
	if !v.IsObject() {
		return nil
	}
	ref := &ImageRef{
		AuthorURL:  v.Get("_authorUrl").String(),
		PublishURL: v.Get("_publishUrl").String(),
	}
	if ref.AuthorURL == "" && ref.PublishURL == "" {
		return nil
	}
	return ref
}
