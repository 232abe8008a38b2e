package cart

import "floure-storefront/models"

// Snapshot is a consistent, caller-owned view of the engine.
type Snapshot struct {
	Cart      *models.Cart
	ItemCount int
	Subtotal  models.Cents
	State     State
	Syncing   bool
	Err       error
}

// Cart returns a copy of the current cart, or nil before initialization.
func (e *Engine) Cart() *models.Cart {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cart.Clone()
}

// ItemCount is the sum of line quantities, zero without a cart.
func (e *Engine) ItemCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cart.ItemCount()
}

func (e *Engine) Subtotal() (models.Cents, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cart.Subtotal()
}

func (e *Engine) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Syncing reports whether a mutation is waiting on the server.
func (e *Engine) Syncing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.syncing
}

// Err is the last initialization or mutation failure. Each new operation
// clears it.
func (e *Engine) Err() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastErr
}

func (e *Engine) Product(id int64) (models.Product, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	p, ok := e.products[id]
	return p, ok
}

// ProductLabel names a cart line's product, falling back to a generic label
// when the product was never loaded.
func (e *Engine) ProductLabel(id int64) string {
	if p, ok := e.Product(id); ok && p.Name != "" {
		return p.Name
	}
	return models.FallbackProductLabel(id)
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	snap := Snapshot{
		Cart:      e.cart.Clone(),
		ItemCount: e.cart.ItemCount(),
		State:     e.state,
		Syncing:   e.syncing,
		Err:       e.lastErr,
	}
	subtotal, err := e.cart.Subtotal()
	if err != nil && snap.Err == nil {
		snap.Err = err
	}
	snap.Subtotal = subtotal
	return snap
}
