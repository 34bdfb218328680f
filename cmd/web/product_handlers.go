package main

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/gildedlane/storefront-web/internal/blockcfg"
	handlersPkg "github.com/gildedlane/storefront-web/internal/handlers"
	mw "github.com/gildedlane/storefront-web/internal/middleware"
	"github.com/gildedlane/storefront-web/internal/nav"
	"github.com/gildedlane/storefront-web/internal/seo"
)

// ProductHandler renders the product detail page. The sku comes from the URL
// path, with a query parameter override; the folder can be authored per block
// and falls back to the configured default.
func ProductHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sku := productSKU(r)
	folder := productFolder(r)

	svc := cartService(r)
	c := svc.Snapshot()
	view := buildProductView(r.Context(), lang, r.URL.Path, folder, sku, c.IDs())

	brand := i18nOrDefault(lang, "brand.name", "Gilded Lane")
	title := view.Name
	status := http.StatusOK
	if view.Err != "" {
		title = i18nOrDefault(lang, "product.title.unavailable", "Product unavailable")
		status = http.StatusNotFound
	}

	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Product:     view,
	}
	vm.SEO.Title = title + " | " + brand
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Type = "product"
	vm.SEO.Twitter.Card = "summary_large_image"
	vm.SEO.Alternates = buildAlternates(r)
	if view.Err == "" {
		imageURL := ""
		if view.Image != nil {
			vm.SEO.OG.Image = view.Image.URL
			imageURL = view.Image.URL
		}
		vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.Product(
			view.Name, string(view.Description), vm.SEO.Canonical, imageURL,
			view.SKU, cartCurrency, view.PriceMinor)))
	}

	renderPageStatus(w, r, "product", vm, status)
}

// ProductRecsFrag re-renders only the related-products section.
func ProductRecsFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sku := productSKU(r)
	folder := productFolder(r)
	c := cartService(r).Snapshot()
	view := buildProductView(r.Context(), lang, r.URL.Path, folder, sku, c.IDs())
	renderTemplate(w, r, "frag_product_recommendations", view)
}

func productSKU(r *http.Request) string {
	if sku := strings.TrimSpace(r.URL.Query().Get("sku")); sku != "" {
		return sku
	}
	return strings.TrimSpace(chi.URLParam(r, "productKey"))
}

func productFolder(r *http.Request) string {
	if raw := strings.TrimSpace(r.URL.Query().Get("folder")); raw != "" {
		if p := blockcfg.NormalizeContentPath(raw); p != "" {
			return p
		}
	}
	return defaultFolder()
}
