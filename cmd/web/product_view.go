package main

import (
	"context"
	"html/template"

	"golang.org/x/sync/errgroup"

	"github.com/gildedlane/storefront-web/internal/cart"
	"github.com/gildedlane/storefront-web/internal/catalog"
	"github.com/gildedlane/storefront-web/internal/format"
	"github.com/gildedlane/storefront-web/internal/richtext"
)

// ProductView is the product-detail page payload. When Err is set the page
// renders an inline error panel instead of the detail layout.
type ProductView struct {
	Lang string

	Key         string
	SKU         string
	Name        string
	Price       string
	PriceMinor  int64
	Categories  []string
	Description template.HTML
	Image       *catalog.ImageRender

	Folder          string
	Recommendations []RecommendationCard

	Err string
}

// buildProductView fetches the product and its folder concurrently and
// assembles the detail view. Catalog failures surface as the inline error
// panel, never as a failed response.
func buildProductView(ctx context.Context, lang, currentPath, folder, sku string, excludeIDs []string) ProductView {
	view := ProductView{Lang: lang, Folder: folder}
	if sku == "" {
		view.Err = i18nOrDefault(lang, "product.error.missing", "No product was selected.")
		return view
	}

	var (
		product *catalog.Product
		all     []catalog.Product
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		product = catalogClient.Product(gctx, folder, sku)
		return nil
	})
	g.Go(func() error {
		all = catalogClient.Folder(gctx, folder)
		return nil
	})
	_ = g.Wait()

	if product == nil {
		view.Err = i18nOrDefault(lang, "product.error.notfound", "We could not find that product.")
		return view
	}

	name := cart.DisplayName(product.Name)
	view.Key = product.Key()
	view.SKU = product.SKU
	view.Name = name
	view.Price = format.Money(product.PriceMinor(), cartCurrency)
	view.PriceMinor = product.PriceMinor()
	for _, raw := range product.Categories {
		view.Categories = append(view.Categories, catalog.DisplayCategory(catalog.NormalizeCategory(raw)))
	}
	view.Description = richtext.Render(product.Description)
	view.Image = catalog.RenderImage(catalogClient.ImageURL(product), name, catalog.VariantHero, true)

	exclude := map[string]struct{}{product.Key(): {}}
	for _, id := range excludeIDs {
		exclude[id] = struct{}{}
	}
	recs := catalog.Recommend(all, catalog.ProductCategorySet(*product), exclude)
	view.Recommendations = recommendationCards(currentPath, recs)

	return view
}
