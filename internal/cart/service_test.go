package cart

import (
	"errors"
	"testing"
	"time"

	"github.com/gildedlane/storefront-web/internal/datalayer"
)

func newTestService() (*Service, *datalayer.Store) {
	store := datalayer.New()
	return NewService(store, nil), store
}

func TestServiceWritesWithReplaceSemantics(t *testing.T) {
	svc, store := newTestService()
	svc.Add(itemA(), 1)
	svc.Add(itemB(), 1)
	svc.Remove("sku-a")

	// Read the raw document: the deleted entry must be gone from the store,
	// not just from the service's view.
	doc := store.Get(datalayer.KeyCart).(map[string]any)
	products := doc["products"].(map[string]any)
	if _, ok := products["sku-a"]; ok {
		t.Fatalf("deleted item survived in store document: %#v", products)
	}
}

func TestServiceSetQuantityZeroBehavesLikeRemove(t *testing.T) {
	for _, raw := range []string{"0", "-1"} {
		svc, _ := newTestService()
		svc.Add(itemA(), 2)
		c, changed, err := svc.SetQuantity("sku-a", raw)
		if err != nil {
			t.Fatalf("SetQuantity(%q): %v", raw, err)
		}
		if !changed {
			t.Fatalf("SetQuantity(%q) should report a write", raw)
		}
		if !c.IsEmpty() {
			t.Fatalf("SetQuantity(%q) should empty the cart, got %v", raw, c.Items())
		}
	}
}

func TestServiceRejectsNonNumericQuantity(t *testing.T) {
	svc, _ := newTestService()
	svc.Add(itemA(), 2)
	c, changed, err := svc.SetQuantity("sku-a", "two")
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got %v", err)
	}
	if changed {
		t.Fatal("invalid quantity must not write the store")
	}
	item, _ := c.Get("sku-a")
	if item.Quantity != 2 {
		t.Fatalf("line item changed by rejected input: %+v", item)
	}
}

func TestServiceRemoveUnknownIDWritesNothing(t *testing.T) {
	svc, store := newTestService()
	svc.Add(itemA(), 1)

	events := make(chan datalayer.Event, 4)
	unsubscribe := store.Subscribe(func(e datalayer.Event) { events <- e })
	defer unsubscribe()

	if _, changed := svc.Remove("sku-missing"); changed {
		t.Fatal("removing unknown id should not report a change")
	}
	select {
	case e := <-events:
		t.Fatalf("no-op removal emitted a change event: %#v", e.Changed)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestServiceSnapshotDefaultsToEmptyCart(t *testing.T) {
	svc, _ := newTestService()
	c := svc.Snapshot()
	if !c.IsEmpty() || c.ProductCount != 0 {
		t.Fatalf("expected implicit empty cart, got %+v", c)
	}
}
