package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/gildedlane/storefront-web/internal/cart"
	handlersPkg "github.com/gildedlane/storefront-web/internal/handlers"
	mw "github.com/gildedlane/storefront-web/internal/middleware"
	"github.com/gildedlane/storefront-web/internal/nav"
)

// CartHandler renders the cart page.
func CartHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	svc := cartService(r)
	c := svc.Snapshot()
	view := buildCartView(lang, r.URL.Path, c, cartRecommendations(r.Context(), c))

	title := i18nOrDefault(lang, "cart.title", "Your cart")
	desc := i18nOrDefault(lang, "cart.description", "Review quantities and totals before checkout.")

	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Cart:        view,
	}

	brand := i18nOrDefault(lang, "brand.name", "Gilded Lane")
	vm.SEO.Title = title + " | " + brand
	vm.SEO.Description = desc
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.Robots = "noindex"
	vm.SEO.OG.URL = vm.SEO.Canonical
	vm.SEO.OG.SiteName = brand
	vm.SEO.OG.Title = vm.SEO.Title
	vm.SEO.OG.Description = vm.SEO.Description
	vm.SEO.OG.Type = "website"
	vm.SEO.Twitter.Card = "summary"
	vm.SEO.Alternates = buildAlternates(r)

	renderPage(w, r, "cart", vm)
}

// CartTableFrag renders the line items table fragment.
func CartTableFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	c := cartService(r).Snapshot()
	view := buildCartView(lang, r.URL.Path, c, nil)
	w.Header().Set("HX-Push-Url", "/cart")
	renderTemplate(w, r, "frag_cart_table", view)
}

// CartSummaryFrag renders the totals fragment.
func CartSummaryFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	c := cartService(r).Snapshot()
	view := buildCartView(lang, r.URL.Path, c, nil)
	renderTemplate(w, r, "frag_cart_summary", view)
}

// CartRecsFrag renders the related-products fragment.
func CartRecsFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	c := cartService(r).Snapshot()
	view := buildCartView(lang, r.URL.Path, c, cartRecommendations(r.Context(), c))
	renderTemplate(w, r, "frag_cart_recommendations", view)
}

// CartAddHandler adds a catalog product to the cart. The product is looked up
// fresh so the line item carries current price and category data.
func CartAddHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	sku := strings.TrimSpace(r.FormValue("sku"))
	folder := strings.TrimSpace(r.FormValue("folder"))
	if folder == "" {
		folder = defaultFolder()
	}
	quantity := 1
	if raw := strings.TrimSpace(r.FormValue("quantity")); raw != "" {
		q, err := strconv.Atoi(raw)
		if err != nil {
			respondCartError(w, r, http.StatusUnprocessableEntity, "cart.error.quantity", "Quantity must be a number.")
			return
		}
		quantity = q
	}

	p := catalogClient.Product(r.Context(), folder, sku)
	if p == nil {
		logger.Warn("add to cart for unknown product",
			zap.String("sku", sku),
			zap.String("folder", folder))
		respondCartError(w, r, http.StatusNotFound, "cart.error.product", "That product is no longer available.")
		return
	}

	svc := cartService(r)
	c := svc.Add(cart.LineItem{
		ID:         p.Key(),
		Name:       p.Name,
		Image:      catalogClient.ImageURL(p),
		Categories: p.CategoryString(),
		Price:      p.PriceMinor(),
	}, quantity)

	setCartTrigger(w, c)
	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	view := buildCartView(mw.Lang(r), "/cart", c, nil)
	renderTemplate(w, r, "frag_cart_table", view)
}

// CartQuantityHandler applies a quantity edit to one line item. Values below 1
// remove the item; non-numeric input is rejected with the row left unchanged.
func CartQuantityHandler(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	svc := cartService(r)
	c, changed, err := svc.SetQuantity(itemID, r.FormValue("quantity"))
	lang := mw.Lang(r)
	view := buildCartView(lang, "/cart", c, nil)
	if err != nil {
		if errors.Is(err, cart.ErrInvalidQuantity) {
			view.Notice = CartNotice{
				Tone: "error",
				Text: i18nOrDefault(lang, "cart.error.quantity", "Quantity must be a number."),
			}
			w.WriteHeader(http.StatusUnprocessableEntity)
			renderTemplate(w, r, "frag_cart_table", view)
			return
		}
		http.Error(w, "cart update failed", http.StatusInternalServerError)
		return
	}
	if changed {
		setCartTrigger(w, c)
	}
	renderTemplate(w, r, "frag_cart_table", view)
}

// CartRemoveHandler deletes one line item. Removing an unknown item re-renders
// the current state without touching the store.
func CartRemoveHandler(w http.ResponseWriter, r *http.Request) {
	itemID := chi.URLParam(r, "itemID")
	svc := cartService(r)
	c, changed := svc.Remove(itemID)
	if changed {
		setCartTrigger(w, c)
	}
	view := buildCartView(mw.Lang(r), "/cart", c, nil)
	renderTemplate(w, r, "frag_cart_table", view)
}

// CartDiscountHandler acknowledges a discount code submission. Codes are not
// redeemable yet; the summary re-renders with an informational notice.
func CartDiscountHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	lang := mw.Lang(r)
	code := strings.ToUpper(strings.TrimSpace(r.FormValue("code")))
	logger.Info("discount code submitted", zap.String("code", code))

	c := cartService(r).Snapshot()
	view := buildCartView(lang, "/cart", c, nil)
	view.Notice = CartNotice{
		Tone: "info",
		Text: i18nOrDefault(lang, "cart.discount.unavailable", "Discount codes cannot be applied yet."),
	}
	renderTemplate(w, r, "frag_cart_summary", view)
}

// CartCheckoutHandler moves a non-empty cart to the checkout page. An empty
// cart renders an inline notice instead of navigating.
func CartCheckoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	c := cartService(r).Snapshot()
	if c.IsEmpty() {
		view := buildCartView(lang, "/cart", c, nil)
		view.Notice = CartNotice{
			Tone: "error",
			Text: i18nOrDefault(lang, "cart.error.empty_checkout", "Add something to your cart before checking out."),
		}
		w.WriteHeader(http.StatusUnprocessableEntity)
		renderTemplate(w, r, "frag_cart_summary", view)
		return
	}
	dest := nav.CheckoutPath(refererPath(r, "/cart"))
	if mw.IsHTMX(r.Context()) {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// CheckoutHandler renders the checkout placeholder page.
func CheckoutHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	c := cartService(r).Snapshot()
	if c.IsEmpty() {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}
	view := buildCartView(lang, r.URL.Path, c, nil)
	view.Steps = checkoutSteps(lang, "checkout", r.URL.Path)

	title := i18nOrDefault(lang, "checkout.title", "Checkout")
	vm := handlersPkg.PageData{
		Title:       title,
		Lang:        lang,
		Path:        r.URL.Path,
		Nav:         nav.Build(r.URL.Path),
		Breadcrumbs: nav.Breadcrumbs(r.URL.Path),
		Analytics:   handlersPkg.LoadAnalyticsFromEnv(),
		Cart:        view,
	}
	brand := i18nOrDefault(lang, "brand.name", "Gilded Lane")
	vm.SEO.Title = title + " | " + brand
	vm.SEO.Canonical = absoluteURL(r)
	vm.SEO.Robots = "noindex"

	renderPage(w, r, "checkout", vm)
}

// setCartTrigger tells the frontend the cart changed so dependent fragments
// (summary, recommendations, header badge) can refresh themselves.
func setCartTrigger(w http.ResponseWriter, c cart.Cart) {
	payload := map[string]any{
		"cart:updated": map[string]any{
			"count":    c.ProductCount,
			"subTotal": c.SubTotal,
			"total":    c.Total,
		},
	}
	if raw, err := json.Marshal(payload); err == nil {
		w.Header().Set("HX-Trigger", string(raw))
	}
}

func respondCartError(w http.ResponseWriter, r *http.Request, status int, key, def string) {
	lang := mw.Lang(r)
	c := cartService(r).Snapshot()
	view := buildCartView(lang, "/cart", c, nil)
	view.Notice = CartNotice{Tone: "error", Text: i18nOrDefault(lang, key, def)}
	w.WriteHeader(status)
	renderTemplate(w, r, "frag_cart_table", view)
}

func refererPath(r *http.Request, fallback string) string {
	if ref := r.Header.Get("HX-Current-URL"); ref != "" {
		if p := pathOf(ref); p != "" {
			return p
		}
	}
	if ref := r.Referer(); ref != "" {
		if p := pathOf(ref); p != "" {
			return p
		}
	}
	return fallback
}

func pathOf(raw string) string {
	if i := strings.Index(raw, "://"); i >= 0 {
		raw = raw[i+3:]
		if j := strings.IndexByte(raw, '/'); j >= 0 {
			raw = raw[j:]
		} else {
			return "/"
		}
	}
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
