package main

import (
	"context"

	"github.com/gildedlane/storefront-web/internal/blockcfg"
	"github.com/gildedlane/storefront-web/internal/cart"
	"github.com/gildedlane/storefront-web/internal/catalog"
	"github.com/gildedlane/storefront-web/internal/format"
	"github.com/gildedlane/storefront-web/internal/nav"
)

const cartCurrency = "USD"

// CartView aggregates all data needed for the cart page and fragments.
type CartView struct {
	Lang            string
	Steps           []CheckoutStep
	Rows            []CartRow
	Empty           bool
	Summary         CartSummary
	Recommendations []RecommendationCard
	CheckoutHref    string
	Notice          CartNotice
}

// CheckoutStep represents a stepper entry for the checkout flow.
type CheckoutStep struct {
	Key    string
	Label  string
	Href   string
	Active bool
}

// CartRow is one line item row of the cart table.
type CartRow struct {
	ID        string
	Name      string
	Href      string
	Image     *catalog.ImageRender
	Quantity  int
	UnitPrice string
	LineTotal string
}

// CartSummary carries the recomputed aggregates, preformatted for display.
type CartSummary struct {
	ProductCount int
	SubTotal     string
	Total        string
}

// CartNotice surfaces the outcome of the last mutation above the table.
type CartNotice struct {
	Tone string // "error" or "info"
	Text string
}

// RecommendationCard is one related-product tile.
type RecommendationCard struct {
	Key      string
	Name     string
	Href     string
	Price    string
	Image    *catalog.ImageRender
	Category string
}

// buildCartView assembles the cart page view from the session's cart state.
func buildCartView(lang, currentPath string, c cart.Cart, recs []catalog.Product) CartView {
	rows := make([]CartRow, 0, c.Len())
	for _, item := range c.Items() {
		name := cart.DisplayName(item.Name)
		rows = append(rows, CartRow{
			ID:        item.ID,
			Name:      name,
			Href:      nav.ProductPath(currentPath, item.ID),
			Image:     catalog.RenderImage(item.Image, name, catalog.VariantThumbnail, false),
			Quantity:  item.Quantity,
			UnitPrice: format.Money(item.Price, cartCurrency),
			LineTotal: format.Money(item.SubTotal, cartCurrency),
		})
	}
	return CartView{
		Lang:  lang,
		Steps: checkoutSteps(lang, "cart", currentPath),
		Rows:  rows,
		Empty: c.IsEmpty(),
		Summary: CartSummary{
			ProductCount: c.ProductCount,
			SubTotal:     format.Money(c.SubTotal, cartCurrency),
			Total:        format.Money(c.Total, cartCurrency),
		},
		Recommendations: recommendationCards(currentPath, recs),
		CheckoutHref:    nav.CheckoutPath(currentPath),
	}
}

func checkoutSteps(lang, active, currentPath string) []CheckoutStep {
	return []CheckoutStep{
		{
			Key:    "cart",
			Label:  i18nOrDefault(lang, "checkout.step.cart", "Cart"),
			Href:   "/cart",
			Active: active == "cart",
		},
		{
			Key:    "checkout",
			Label:  i18nOrDefault(lang, "checkout.step.checkout", "Checkout"),
			Href:   nav.CheckoutPath(currentPath),
			Active: active == "checkout",
		},
	}
}

// cartRecommendations fetches the default folder and filters it against the
// cart's category set. A cart with no categories yields nothing, as does any
// catalog failure.
func cartRecommendations(ctx context.Context, c cart.Cart) []catalog.Product {
	if c.IsEmpty() {
		return nil
	}
	target := catalog.CategorySet(c.CategoryStrings())
	if len(target) == 0 {
		return nil
	}
	candidates := catalogClient.Folder(ctx, defaultFolder())
	exclude := map[string]struct{}{}
	for _, id := range c.IDs() {
		exclude[id] = struct{}{}
	}
	return catalog.Recommend(candidates, target, exclude)
}

func recommendationCards(currentPath string, recs []catalog.Product) []RecommendationCard {
	if len(recs) == 0 {
		return nil
	}
	cards := make([]RecommendationCard, 0, len(recs))
	for _, p := range recs {
		name := cart.DisplayName(p.Name)
		category := ""
		if len(p.Categories) > 0 {
			category = catalog.DisplayCategory(catalog.NormalizeCategory(p.Categories[0]))
		}
		cards = append(cards, RecommendationCard{
			Key:      p.Key(),
			Name:     name,
			Href:     nav.ProductPath(currentPath, p.Key()),
			Price:    format.Money(p.PriceMinor(), cartCurrency),
			Image:    catalog.RenderImage(catalogClient.ImageURL(&p), name, catalog.VariantThumbnail, false),
			Category: category,
		})
	}
	return cards
}

// defaultFolder resolves the catalog folder the storefront block points at.
func defaultFolder() string {
	block := blockcfg.Config{"folder": appConfig.Catalog.DefaultFolder}
	if p := block.FolderPath(); p != "" {
		return p
	}
	return appConfig.Catalog.DefaultFolder
}
