// Package datalayer implements the client-visible state store shared by the
// cart and product-detail views. It holds a small JSON-like document keyed by
// top-level names ("cart", "product") and notifies subscribers once per write.
package datalayer

import (
	"sync"
)

// Well-known top-level keys.
const (
	KeyCart    = "cart"
	KeyProduct = "product"
)

// Event is delivered to subscribers after a write. Changed contains only the
// top-level keys touched by that write, with their new values.
type Event struct {
	Changed map[string]any
}

// Cart returns the cart payload carried by the event, or nil.
func (e Event) Cart() any { return e.Changed[KeyCart] }

// Product returns the product payload carried by the event, or nil.
func (e Event) Product() any { return e.Changed[KeyProduct] }

// Store is a mutable document with change notification. Values are JSON-like:
// map[string]any, []any, strings and numbers. All methods are safe for
// concurrent use; reads hand out deep copies so a later Update cannot be
// observed through a previously returned snapshot.
type Store struct {
	mu        sync.RWMutex
	data      map[string]any
	listeners map[int]func(Event)
	nextID    int
}

// New returns an empty store.
func New() *Store {
	return &Store{
		data:      map[string]any{},
		listeners: map[int]func(Event){},
	}
}

// Get returns a deep copy of the value stored under key, or nil when absent.
func (s *Store) Get(key string) any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return nil
	}
	return deepCopy(v)
}

// Update writes every top-level key of partial into the store. With merge set,
// map values are merged recursively into the existing value; otherwise each
// named key is replaced wholesale. Replace semantics are what deletion relies
// on: a merge would resurrect entries missing from the incoming value.
// Subscribers receive one event per call, delivered asynchronously.
func (s *Store) Update(partial map[string]any, merge bool) {
	if len(partial) == 0 {
		return
	}
	s.mu.Lock()
	changed := make(map[string]any, len(partial))
	for key, value := range partial {
		if merge {
			if dst, ok := s.data[key].(map[string]any); ok {
				if src, ok := value.(map[string]any); ok {
					merged := deepMerge(dst, src)
					s.data[key] = merged
					changed[key] = deepCopy(merged)
					continue
				}
			}
		}
		cp := deepCopy(value)
		s.data[key] = cp
		changed[key] = deepCopy(cp)
	}
	fns := make([]func(Event), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	if len(fns) == 0 {
		return
	}
	go func() {
		ev := Event{Changed: changed}
		for _, fn := range fns {
			fn(ev)
		}
	}()
}

// Subscribe registers fn for future change events and returns its
// unsubscribe function. Listeners registered after a write may or may not
// see that write's event; there is no ordering guarantee across listeners.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = deepCopy(v)
	}
	for k, v := range src {
		if dm, ok := out[k].(map[string]any); ok {
			if sm, ok := v.(map[string]any); ok {
				out[k] = deepMerge(dm, sm)
				continue
			}
		}
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch tv := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(tv))
		for k, e := range tv {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(tv))
		for i, e := range tv {
			out[i] = deepCopy(e)
		}
		return out
	default:
		return v
	}
}
