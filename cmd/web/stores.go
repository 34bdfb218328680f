package main

import (
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/gildedlane/storefront-web/internal/cart"
	"github.com/gildedlane/storefront-web/internal/datalayer"
	mw "github.com/gildedlane/storefront-web/internal/middleware"
)

const storeIdleTTL = 24 * time.Hour

// storeRegistry keeps one data-layer store per session. Stores idle past the
// TTL are swept so abandoned sessions do not accumulate.
type storeRegistry struct {
	mu      sync.Mutex
	entries map[string]*storeEntry
}

type storeEntry struct {
	store    *datalayer.Store
	lastSeen time.Time
}

func newStoreRegistry() *storeRegistry {
	reg := &storeRegistry{entries: map[string]*storeEntry{}}
	go reg.sweep()
	return reg
}

// Get returns the store for the session, creating it on first use.
func (r *storeRegistry) Get(sessionID string) *datalayer.Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[sessionID]
	if !ok {
		e = &storeEntry{store: datalayer.New()}
		r.entries[sessionID] = e
		if logger != nil {
			sid := sessionID
			e.store.Subscribe(func(ev datalayer.Event) {
				if ev.Cart() != nil {
					logger.Debug("cart state changed", zap.String("session_id", sid))
				}
			})
		}
	}
	e.lastSeen = time.Now()
	return e.store
}

func (r *storeRegistry) sweep() {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for range ticker.C {
		cutoff := time.Now().Add(-storeIdleTTL)
		r.mu.Lock()
		for id, e := range r.entries {
			if e.lastSeen.Before(cutoff) {
				delete(r.entries, id)
			}
		}
		r.mu.Unlock()
	}
}

// cartService binds a cart service to the requesting session's store.
func cartService(r *http.Request) *cart.Service {
	sid := mw.GetSession(r).ID
	return cart.NewService(sessions.Get(sid), logger)
}
