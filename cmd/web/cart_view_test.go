package main

import (
	"testing"

	"go.uber.org/zap"

	"github.com/gildedlane/storefront-web/internal/cart"
	"github.com/gildedlane/storefront-web/internal/catalog"
	"github.com/gildedlane/storefront-web/internal/i18n"
)

func testCart(t *testing.T) cart.Cart {
	t.Helper()
	c := cart.New()
	c.Add(cart.LineItem{ID: "sku-1", Name: "Aurora Lamp, vintage brass", Price: 12950, Categories: "goods:lighting/goods:decor"}, 2)
	c.Add(cart.LineItem{ID: "sku-3", Name: "Field Satchel", Price: 21000, Categories: "goods:bags"}, 1)
	return c
}

func TestBuildCartViewRows(t *testing.T) {
	logger = zap.NewNop()
	var err error
	i18nBundle, err = i18n.Load("../../locales", "en", []string{"en", "ja"})
	if err != nil {
		t.Fatalf("load i18n: %v", err)
	}

	view := buildCartView("en", "/cart", testCart(t), nil)
	if view.Empty {
		t.Fatalf("expected non-empty view")
	}
	if len(view.Rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(view.Rows))
	}
	// insertion order is preserved
	if view.Rows[0].ID != "sku-1" || view.Rows[1].ID != "sku-3" {
		t.Fatalf("expected insertion order sku-1, sku-3; got %s, %s", view.Rows[0].ID, view.Rows[1].ID)
	}
	if view.Rows[0].Name != "Aurora Lamp" {
		t.Fatalf("expected trimmed display name, got %q", view.Rows[0].Name)
	}
	if view.Rows[0].LineTotal != "$259.00" {
		t.Fatalf("expected line total $259.00, got %q", view.Rows[0].LineTotal)
	}
	if view.Summary.ProductCount != 3 {
		t.Fatalf("expected 3 units, got %d", view.Summary.ProductCount)
	}
	if view.Summary.Total != "$469.00" {
		t.Fatalf("expected total $469.00, got %q", view.Summary.Total)
	}
	if view.CheckoutHref != "/checkout" {
		t.Fatalf("expected sibling checkout path, got %q", view.CheckoutHref)
	}
	if view.Recommendations != nil {
		t.Fatalf("expected no recommendation cards without candidates")
	}
}

func TestBuildCartViewEmpty(t *testing.T) {
	logger = zap.NewNop()
	view := buildCartView("en", "/cart", cart.New(), nil)
	if !view.Empty {
		t.Fatalf("expected empty view")
	}
	if len(view.Rows) != 0 {
		t.Fatalf("expected no rows, got %d", len(view.Rows))
	}
	if view.Summary.SubTotal != "$0.00" {
		t.Fatalf("expected zero subtotal, got %q", view.Summary.SubTotal)
	}
}

func TestRecommendationCardsLocalePath(t *testing.T) {
	logger = zap.NewNop()
	appConfig.Catalog.DefaultFolder = "/content/shop/goods"
	catalogClient = catalog.NewClient(catalog.Endpoints{}, catalog.EnvPublish, logger)

	recs := []catalog.Product{
		{SKU: "sku-2", Name: "Nimbus Lamp", Price: 89, Categories: []string{"goods:lighting"}},
	}
	cards := recommendationCards("/ja/cart", recs)
	if len(cards) != 1 {
		t.Fatalf("expected 1 card, got %d", len(cards))
	}
	if cards[0].Href != "/ja/products/sku-2" {
		t.Fatalf("expected locale-preserving href, got %q", cards[0].Href)
	}
	if cards[0].Category != "Lighting" {
		t.Fatalf("expected display category Lighting, got %q", cards[0].Category)
	}
	if cards[0].Price != "$89.00" {
		t.Fatalf("expected $89.00, got %q", cards[0].Price)
	}
}
