package main

import (
	"net/http"

	handlersPkg "github.com/gildedlane/storefront-web/internal/handlers"
	mw "github.com/gildedlane/storefront-web/internal/middleware"
	"github.com/gildedlane/storefront-web/internal/nav"
	"github.com/gildedlane/storefront-web/internal/seo"
)

// HomeHandler renders the landing page.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	brand := i18nOrDefault(lang, "brand.name", "Gilded Lane")
	title := i18nOrDefault(lang, "home.title", "Welcome")

	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Home:        handlersPkg.BuildHomeData(),
	}
	vm.SEO.Title = title + " | " + brand
	vm.SEO.Description = i18nOrDefault(lang, "home.description", "Curated goods from the Gilded Lane catalog.")
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	vm.SEO.Twitter.Card = "summary"
	vm.SEO.Alternates = buildAlternates(r)
	vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.Organization(brand, vm.SEO.Canonical, "")))

	renderPage(w, r, "home", vm)
}
