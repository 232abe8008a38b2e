// Package cart keeps the client's view of its remote cart consistent with
// the storefront API.
//
// The engine owns a single cart. Initialization is single-flight: however
// many callers race to load the cart, at most one remote sequence runs and
// all of them observe its outcome. Every mutation builds the complete new
// item list locally and sends it as one full-state update; the response
// replaces the local copy verbatim. Mutations are serialized, so two
// concurrent adds can never overwrite each other's lines.
package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"floure-storefront/api"
	"floure-storefront/logging"
	"floure-storefront/models"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"
)

var (
	// ErrCartUnavailable is returned when no cart could be fetched or
	// created.
	ErrCartUnavailable = errors.New("cart unavailable")
	ErrItemNotFound    = errors.New("cart item not found")
	ErrInvalidProduct  = errors.New("invalid product")
)

// Remote is the slice of the API client the engine needs.
type Remote interface {
	CreateCart(ctx context.Context, payload models.CartCreatePayload) (*models.Cart, error)
	GetCart(ctx context.Context, id int64) (*models.Cart, error)
	UpdateCart(ctx context.Context, id int64, payload models.CartUpdatePayload) (*models.Cart, error)
	GetAllProducts(ctx context.Context, filter api.ProductFilter) ([]models.Product, error)
}

// IdentityStore persists the session id and cart reference across runs.
type IdentityStore interface {
	GetOrCreateSessionID(ctx context.Context) string
	CartReference(ctx context.Context) (int64, bool)
	SetCartReference(ctx context.Context, id int64)
}

type State int

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type Engine struct {
	remote   Remote
	identity IdentityStore
	log      *zap.Logger

	flight singleflight.Group
	// mutation is held from building the new item list until the server's
	// answer is adopted.
	mutation *semaphore.Weighted

	mu       sync.RWMutex
	cart     *models.Cart
	products map[int64]models.Product
	state    State
	syncing  bool
	lastErr  error
}

func NewEngine(remote Remote, identity IdentityStore, log *zap.Logger) *Engine {
	return &Engine{
		remote:   remote,
		identity: identity,
		log:      logging.OrNop(log).Named("cart"),
		mutation: semaphore.NewWeighted(1),
		products: make(map[int64]models.Product),
	}
}

// Initialize returns the engine's cart, loading or creating it on first
// use. Concurrent callers share one in-flight initialization; a caller whose
// ctx ends stops waiting but does not cancel the shared work.
func (e *Engine) Initialize(ctx context.Context) (*models.Cart, error) {
	if cart := e.Cart(); cart != nil {
		return cart, nil
	}

	ch := e.flight.DoChan("initialize", func() (any, error) {
		return e.initialize(context.WithoutCancel(ctx))
	})
	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*models.Cart).Clone(), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (e *Engine) initialize(ctx context.Context) (*models.Cart, error) {
	e.mu.Lock()
	if e.cart != nil {
		cart := e.cart.Clone()
		e.mu.Unlock()
		return cart, nil
	}
	e.state = StateInitializing
	e.lastErr = nil
	e.mu.Unlock()

	sessionID := e.identity.GetOrCreateSessionID(ctx)
	cart, err := e.loadOrCreate(ctx, sessionID)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrCartUnavailable, err)
		e.log.Error("cart initialization failed", zap.Error(err))
		e.mu.Lock()
		e.state = StateFailed
		e.lastErr = err
		e.mu.Unlock()
		return nil, err
	}

	if len(cart.Items) > 0 {
		e.loadProducts(ctx, cart)
	}

	e.mu.Lock()
	e.cart = cart
	e.state = StateReady
	e.mu.Unlock()
	e.log.Info("cart ready", zap.Int64("cart_id", cart.ID), zap.Int("items", cart.ItemCount()))
	return cart.Clone(), nil
}

// loadOrCreate adopts the stored cart when it can still be fetched and is
// open; any other outcome falls back to creating a fresh cart.
func (e *Engine) loadOrCreate(ctx context.Context, sessionID string) (*models.Cart, error) {
	if id, ok := e.identity.CartReference(ctx); ok {
		cart, err := e.remote.GetCart(ctx, id)
		switch {
		case err != nil:
			e.log.Warn("stored cart unavailable, creating a new one", zap.Int64("cart_id", id), zap.Error(err))
		case cart == nil:
			e.log.Warn("stored cart lookup returned nothing, creating a new one", zap.Int64("cart_id", id))
		case cart.Status != "" && cart.Status != models.CartStatusOpen:
			e.log.Info("stored cart is closed, creating a new one", zap.Int64("cart_id", id), zap.String("status", string(cart.Status)))
		default:
			return cart, nil
		}
	}

	cart, err := e.remote.CreateCart(ctx, models.CartCreatePayload{
		SessionID: sessionID,
		Status:    models.CartStatusOpen,
	})
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, errors.New("create cart returned no cart")
	}
	e.identity.SetCartReference(ctx, cart.ID)
	return cart, nil
}

// loadProducts fills the lookup cache for the cart's lines. Failures only
// cost display names.
func (e *Engine) loadProducts(ctx context.Context, cart *models.Cart) {
	products, err := e.remote.GetAllProducts(ctx, api.ProductFilter{})
	if err != nil {
		e.log.Warn("product lookup failed", zap.Error(err))
		return
	}
	wanted := make(map[int64]bool, len(cart.Items))
	for _, item := range cart.Items {
		wanted[item.Product] = true
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, p := range products {
		if wanted[p.ID] {
			e.products[p.ID] = p
		}
	}
}

// AddToCart adds quantity units of product. A product already in the cart
// has its quantity increased and keeps the price it was first added at.
// Quantities below one are ignored.
func (e *Engine) AddToCart(ctx context.Context, product models.Product, quantity int) (*models.Cart, error) {
	if quantity < 1 {
		return e.Cart(), nil
	}
	if product.ID <= 0 {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidProduct)
	}
	if _, err := models.ParseCents(product.Price); err != nil {
		return nil, fmt.Errorf("%w: product %d: %w", ErrInvalidProduct, product.ID, err)
	}
	e.clearErr()

	if _, err := e.Initialize(ctx); err != nil {
		return nil, err
	}
	if err := e.lockMutation(ctx); err != nil {
		return nil, err
	}
	defer e.unlockMutation()

	current := e.Cart()
	if current == nil {
		return nil, ErrCartUnavailable
	}
	items := current.Items
	merged := false
	for i := range items {
		if items[i].Product == product.ID {
			items[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		items = append(items, models.CartItem{
			Product:           product.ID,
			Quantity:          quantity,
			UnitPriceSnapshot: product.Price,
		})
	}

	cart, err := e.sync(ctx, current.ID, items)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.products[product.ID] = product
	e.mu.Unlock()
	return cart, nil
}

// UpdateItemQuantity sets a line's quantity; zero or less removes it.
// Without a loaded cart it does nothing.
func (e *Engine) UpdateItemQuantity(ctx context.Context, itemID int64, quantity int) (*models.Cart, error) {
	if quantity <= 0 {
		return e.RemoveItem(ctx, itemID)
	}
	e.clearErr()
	if err := e.lockMutation(ctx); err != nil {
		return nil, err
	}
	defer e.unlockMutation()

	current := e.Cart()
	if current == nil {
		return nil, nil
	}
	found := false
	for i := range current.Items {
		if current.Items[i].ID == itemID {
			current.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("%w: %d", ErrItemNotFound, itemID)
	}
	return e.sync(ctx, current.ID, current.Items)
}

// RemoveItem drops a line. Unknown line ids and a missing cart are no-ops.
func (e *Engine) RemoveItem(ctx context.Context, itemID int64) (*models.Cart, error) {
	e.clearErr()
	if err := e.lockMutation(ctx); err != nil {
		return nil, err
	}
	defer e.unlockMutation()

	current := e.Cart()
	if current == nil {
		return nil, nil
	}
	items := make([]models.CartItem, 0, len(current.Items))
	for _, item := range current.Items {
		if item.ID != itemID {
			items = append(items, item)
		}
	}
	if len(items) == len(current.Items) {
		return current, nil
	}
	return e.sync(ctx, current.ID, items)
}

// ClearCart empties the cart. Without a loaded cart it does nothing.
func (e *Engine) ClearCart(ctx context.Context) (*models.Cart, error) {
	e.clearErr()
	if err := e.lockMutation(ctx); err != nil {
		return nil, err
	}
	defer e.unlockMutation()

	current := e.Cart()
	if current == nil {
		return nil, nil
	}
	return e.sync(ctx, current.ID, []models.CartItem{})
}

// sync sends the full item list and adopts the server's answer. Callers
// hold the mutation slot.
func (e *Engine) sync(ctx context.Context, cartID int64, items []models.CartItem) (*models.Cart, error) {
	if items == nil {
		items = []models.CartItem{}
	}
	e.setSyncing(true)
	defer e.setSyncing(false)

	updated, err := e.remote.UpdateCart(ctx, cartID, models.CartUpdatePayload{
		SessionID: e.identity.GetOrCreateSessionID(ctx),
		Status:    models.CartStatusOpen,
		Items:     items,
	})
	if err == nil && updated == nil {
		err = errors.New("update returned no cart")
	}
	if err != nil {
		err = fmt.Errorf("sync cart %d: %w", cartID, err)
		e.log.Warn("cart sync failed", zap.Int64("cart_id", cartID), zap.Error(err))
		e.mu.Lock()
		e.lastErr = err
		e.mu.Unlock()
		return nil, err
	}

	e.mu.Lock()
	e.cart = updated
	e.mu.Unlock()
	return updated.Clone(), nil
}

func (e *Engine) lockMutation(ctx context.Context) error {
	return e.mutation.Acquire(ctx, 1)
}

func (e *Engine) unlockMutation() {
	e.mutation.Release(1)
}

func (e *Engine) setSyncing(v bool) {
	e.mu.Lock()
	e.syncing = v
	e.mu.Unlock()
}

func (e *Engine) clearErr() {
	e.mu.Lock()
	e.lastErr = nil
	e.mu.Unlock()
}
