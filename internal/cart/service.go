package cart

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/gildedlane/storefront-web/internal/datalayer"
)

// ErrInvalidQuantity is returned when a quantity edit does not parse as an
// integer. The line item is left unchanged; silently coercing bad input used
// to corrupt the quantity field.
var ErrInvalidQuantity = errors.New("cart: quantity is not a number")

// Service applies cart mutations against a data-layer store. Every mutation
// reads a fresh snapshot, recomputes aggregates, and writes the whole cart
// back with replace semantics; a deep merge would resurrect deleted entries
// from stale store state.
type Service struct {
	store *datalayer.Store
	log   *zap.Logger
}

// NewService binds a service to the given store.
func NewService(store *datalayer.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, log: logger}
}

// Snapshot returns the current cart, defaulting to empty when the store has
// none yet.
func (s *Service) Snapshot() Cart {
	return FromDoc(s.store.Get(datalayer.KeyCart))
}

// Add puts quantity units of item into the cart and returns the new state.
func (s *Service) Add(item LineItem, quantity int) Cart {
	c := s.Snapshot()
	c.Add(item, quantity)
	s.write(c)
	s.log.Debug("cart item added",
		zap.String("product_id", item.ID),
		zap.Int("quantity", quantity),
		zap.Int("product_count", c.ProductCount))
	return c
}

// SetQuantity parses raw as an integer quantity for the given line item.
// Values below 1 delegate to Remove. The returned bool reports whether the
// store was written.
func (s *Service) SetQuantity(id, raw string) (Cart, bool, error) {
	quantity, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		s.log.Warn("rejected non-numeric quantity",
			zap.String("product_id", id),
			zap.String("raw", raw))
		return s.Snapshot(), false, ErrInvalidQuantity
	}
	if quantity < 1 {
		c, changed := s.Remove(id)
		return c, changed, nil
	}
	c := s.Snapshot()
	if !c.SetQuantity(id, quantity) {
		return c, false, nil
	}
	s.write(c)
	return c, true, nil
}

// Remove deletes the line item. Removing an unknown id is a no-op: no store
// write, no change event.
func (s *Service) Remove(id string) (Cart, bool) {
	c := s.Snapshot()
	if !c.Remove(id) {
		return c, false
	}
	s.write(c)
	s.log.Debug("cart item removed", zap.String("product_id", id))
	return c, true
}

func (s *Service) write(c Cart) {
	s.store.Update(map[string]any{datalayer.KeyCart: c.ToDoc()}, false)
}
