package datalayer

import (
	"sync"
	"testing"
	"time"
)

func TestGetMissingKeyReturnsNil(t *testing.T) {
	s := New()
	if got := s.Get(KeyCart); got != nil {
		t.Fatalf("expected nil for missing key, got %#v", got)
	}
}

func TestUpdateReplaceDropsAbsentEntries(t *testing.T) {
	s := New()
	s.Update(map[string]any{
		KeyCart: map[string]any{
			"products": map[string]any{
				"sku-a": map[string]any{"quantity": 2},
				"sku-b": map[string]any{"quantity": 1},
			},
		},
	}, false)

	// Replace with a cart missing sku-b; the old entry must not survive.
	s.Update(map[string]any{
		KeyCart: map[string]any{
			"products": map[string]any{
				"sku-a": map[string]any{"quantity": 2},
			},
		},
	}, false)

	cart, ok := s.Get(KeyCart).(map[string]any)
	if !ok {
		t.Fatalf("expected cart map, got %#v", s.Get(KeyCart))
	}
	products := cart["products"].(map[string]any)
	if _, exists := products["sku-b"]; exists {
		t.Fatalf("replace write retained deleted line item: %#v", products)
	}
	if len(products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(products))
	}
}

func TestUpdateMergeKeepsExistingEntries(t *testing.T) {
	s := New()
	s.Update(map[string]any{
		KeyCart: map[string]any{
			"products": map[string]any{
				"sku-a": map[string]any{"quantity": 2},
			},
		},
	}, false)
	s.Update(map[string]any{
		KeyCart: map[string]any{
			"products": map[string]any{
				"sku-b": map[string]any{"quantity": 1},
			},
		},
	}, true)

	cart := s.Get(KeyCart).(map[string]any)
	products := cart["products"].(map[string]any)
	if len(products) != 2 {
		t.Fatalf("merge write should keep both products, got %#v", products)
	}
}

func TestGetReturnsSnapshotNotAlias(t *testing.T) {
	s := New()
	s.Update(map[string]any{KeyProduct: map[string]any{"sku": "sku-a"}}, false)
	snap := s.Get(KeyProduct).(map[string]any)
	snap["sku"] = "mutated"
	again := s.Get(KeyProduct).(map[string]any)
	if again["sku"] != "sku-a" {
		t.Fatalf("store state was mutated through a snapshot: %#v", again)
	}
}

func TestSubscribeDeliversOneEventPerWrite(t *testing.T) {
	s := New()
	var mu sync.Mutex
	var events []Event
	done := make(chan struct{}, 4)
	unsubscribe := s.Subscribe(func(e Event) {
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		done <- struct{}{}
	})
	defer unsubscribe()

	s.Update(map[string]any{KeyCart: map[string]any{"productCount": 1}}, false)
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(events) != 1 {
		t.Fatalf("expected exactly one event, got %d", len(events))
	}
	cart, _ := events[0].Cart().(map[string]any)
	if cart == nil || cart["productCount"] != 1 {
		t.Fatalf("event should carry the written cart, got %#v", events[0].Changed)
	}
	if events[0].Product() != nil {
		t.Fatalf("event should not carry untouched keys, got %#v", events[0].Changed)
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	s := New()
	fired := make(chan struct{}, 1)
	unsubscribe := s.Subscribe(func(Event) { fired <- struct{}{} })
	unsubscribe()
	s.Update(map[string]any{KeyCart: map[string]any{"productCount": 1}}, false)
	select {
	case <-fired:
		t.Fatal("listener fired after unsubscribe")
	case <-time.After(100 * time.Millisecond):
	}
}
