package cart

// Conversion between the typed cart and the JSON-like document the data layer
// stores. The document mirrors the published shape: productCount, subTotal,
// total, and a products mapping keyed by id, plus an order list so renders
// stay deterministic.

// ToDoc converts the cart into a data-layer document.
func (c *Cart) ToDoc() map[string]any {
	products := make(map[string]any, len(c.products))
	for id, item := range c.products {
		products[id] = map[string]any{
			"id":         item.ID,
			"name":       item.Name,
			"image":      item.Image,
			"categories": item.Categories,
			"quantity":   item.Quantity,
			"price":      item.Price,
			"subTotal":   item.SubTotal,
			"total":      item.Total,
		}
	}
	order := make([]any, len(c.order))
	for i, id := range c.order {
		order[i] = id
	}
	return map[string]any{
		"productCount": c.ProductCount,
		"subTotal":     c.SubTotal,
		"total":        c.Total,
		"products":     products,
		"order":        order,
	}
}

// FromDoc rebuilds a cart from a data-layer value. A nil or malformed value
// yields an empty cart; aggregates are recomputed rather than trusted.
func FromDoc(v any) Cart {
	c := New()
	doc, ok := v.(map[string]any)
	if !ok {
		return c
	}
	products, _ := doc["products"].(map[string]any)
	order, _ := doc["order"].([]any)

	seen := map[string]bool{}
	appendItem := func(id string) {
		raw, ok := products[id].(map[string]any)
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		item := LineItem{
			ID:         asString(raw["id"]),
			Name:       asString(raw["name"]),
			Image:      asString(raw["image"]),
			Categories: asString(raw["categories"]),
			Quantity:   int(asInt64(raw["quantity"])),
			Price:      asInt64(raw["price"]),
		}
		if item.ID == "" {
			item.ID = id
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		c.products[id] = item
		c.order = append(c.order, id)
	}

	for _, v := range order {
		if id, ok := v.(string); ok {
			appendItem(id)
		}
	}
	// Entries missing from the order list still belong to the cart.
	for id := range products {
		if !seen[id] {
			appendItem(id)
		}
	}
	c.Recompute()
	return c
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt64(v any) int64 {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	default:
		return 0
	}
}
