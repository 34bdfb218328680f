package handlers

import (
	"github.com/gildedlane/storefront-web/internal/nav"
	"github.com/gildedlane/storefront-web/internal/seo"
)

// PageData is the generic view model for pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Path        string
	Nav         []nav.RenderedItem
	Breadcrumbs []nav.Crumb

	// Per-page view model payloads
	Home    any
	Cart    any
	Product any
}
