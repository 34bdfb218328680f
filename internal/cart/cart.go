// Package cart holds the cart model and its reconciliation rules. Cart-level
// aggregates are always recomputed from the current line items; nothing is
// patched incrementally.
package cart

import (
	"strings"
)

// LineItem is one product's entry in the cart. Price and totals are in minor
// currency units. Categories keeps the product's flat category string
// ("ns:a/ns:b") for recommendation targeting.
type LineItem struct {
	ID         string
	Name       string
	Image      string
	Categories string
	Quantity   int
	Price      int64
	SubTotal   int64
	Total      int64
}

// Cart is the mutable cart document. Line items are addressed by product id
// and iterated in insertion order.
type Cart struct {
	ProductCount int
	SubTotal     int64
	Total        int64

	products map[string]LineItem
	order    []string
}

// New returns an empty cart.
func New() Cart {
	return Cart{products: map[string]LineItem{}}
}

// IsEmpty reports whether the cart has no line items.
func (c *Cart) IsEmpty() bool { return len(c.order) == 0 }

// Len returns the number of line items.
func (c *Cart) Len() int { return len(c.order) }

// Get returns the line item for id.
func (c *Cart) Get(id string) (LineItem, bool) {
	item, ok := c.products[id]
	return item, ok
}

// Items returns the line items in insertion order.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.products[id])
	}
	return out
}

// Add inserts item with the given quantity, merging quantities when the id is
// already present, then recomputes aggregates.
func (c *Cart) Add(item LineItem, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if c.products == nil {
		c.products = map[string]LineItem{}
	}
	if existing, ok := c.products[item.ID]; ok {
		existing.Quantity += quantity
		c.products[item.ID] = existing
	} else {
		item.Quantity = quantity
		c.products[item.ID] = item
		c.order = append(c.order, item.ID)
	}
	c.Recompute()
}

// SetQuantity sets the line item's quantity. Quantities below 1 delete the
// entry instead of zeroing it. It reports whether the cart changed.
func (c *Cart) SetQuantity(id string, quantity int) bool {
	item, ok := c.products[id]
	if !ok {
		return false
	}
	if quantity < 1 {
		return c.Remove(id)
	}
	item.Quantity = quantity
	c.products[id] = item
	c.Recompute()
	return true
}

// Remove deletes the line item if present and reports whether it did.
func (c *Cart) Remove(id string) bool {
	if _, ok := c.products[id]; !ok {
		return false
	}
	delete(c.products, id)
	for i, existing := range c.order {
		if existing == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	c.Recompute()
	return true
}

// Recompute rebuilds every line total and the cart aggregates from scratch.
func (c *Cart) Recompute() {
	c.ProductCount = 0
	c.SubTotal = 0
	for id, item := range c.products {
		item.SubTotal = int64(item.Quantity) * item.Price
		item.Total = item.SubTotal
		c.products[id] = item
		c.ProductCount += item.Quantity
		c.SubTotal += item.SubTotal
	}
	c.Total = c.SubTotal
}

// CategoryStrings returns each line item's flat category string in insertion
// order. Splitting and normalization belong to the recommendation engine.
func (c *Cart) CategoryStrings() []string {
	out := make([]string, 0, len(c.order))
	for _, id := range c.order {
		if cats := c.products[id].Categories; cats != "" {
			out = append(out, cats)
		}
	}
	return out
}

// IDs returns the line item ids in insertion order.
func (c *Cart) IDs() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// DisplayName trims CMS metadata from a raw product name: everything from the
// first comma on is authoring detail, not display copy.
func DisplayName(raw string) string {
	if i := strings.IndexByte(raw, ','); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}
