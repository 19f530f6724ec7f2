package cart

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/velorashop/storefront-backend/internal/pricing"
	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
	"github.com/velorashop/storefront-backend/pkg/metrics"
)

// Snapshot is a read-only copy of an owner's cart with derived totals.
// Ready reports that the initial load from storage has completed.
type Snapshot struct {
	Items      []LineItem      `json:"items"`
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Ready      bool            `json:"ready"`
}

// AddItemInput is the payload for adding a product or combo to the cart.
type AddItemInput struct {
	Kind            ItemKind        `json:"kind"`
	ProductCode     string          `json:"product_code,omitempty"`
	ComboCode       string          `json:"combo_code,omitempty"`
	Name            string          `json:"name"`
	Price           decimal.Decimal `json:"price"`
	DiscountPercent float64         `json:"discount_percent,omitempty"`
	Image           string          `json:"image,omitempty"`
	SelectedSize    string          `json:"selected_size,omitempty"`
	ComboProducts   []ComboProduct  `json:"combo_products,omitempty"`
	Quantity        int             `json:"quantity,omitempty"`
}

// Service is the only sanctioned way to read or mutate cart contents.
type Service interface {
	Get(ctx context.Context, owner string) (*Snapshot, error)
	AddItem(ctx context.Context, owner string, input AddItemInput) (*LineItem, error)
	UpdateQuantity(ctx context.Context, owner, identityKey string, quantity int) error
	RemoveItem(ctx context.Context, owner, identityKey string) error
	Clear(ctx context.Context, owner string) error
	PricingLines(ctx context.Context, owner string) ([]pricing.Line, error)
	OnItemAdded(listener ItemAddedListener)
}

// ownerState serializes all mutations for one owner. The in-memory items are
// the session's source of truth; persistence trails behind.
type ownerState struct {
	mu     sync.Mutex
	items  []LineItem
	loaded bool
}

type service struct {
	mu     sync.Mutex
	states map[string]*ownerState

	listenerMu sync.RWMutex
	listeners  []ItemAddedListener

	storage Storage
	logg    *logger.Logger
	metrics *metrics.CartMetrics
}

// ServiceParams wires the cart service dependencies.
type ServiceParams struct {
	Storage Storage
	Logger  *logger.Logger
	Metrics *metrics.CartMetrics
}

// NewService builds the cart service. Metrics are optional.
func NewService(params ServiceParams) (Service, error) {
	if params.Storage == nil {
		return nil, fmt.Errorf("cart storage required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		states:  make(map[string]*ownerState),
		storage: params.Storage,
		logg:    params.Logger,
		metrics: params.Metrics,
	}, nil
}

// OnItemAdded registers a listener invoked after each successful add.
func (s *service) OnItemAdded(listener ItemAddedListener) {
	if listener == nil {
		return
	}
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, listener)
}

// Get returns a snapshot of the owner's cart, loading it on first access.
func (s *service) Get(ctx context.Context, owner string) (*Snapshot, error) {
	state, err := s.stateFor(ctx, owner)
	if err != nil {
		return nil, err
	}
	state.mu.Lock()
	defer state.mu.Unlock()
	return snapshotLocked(state), nil
}

// AddItem validates the input, merges by identity key, persists, and emits
// the item-added event. Invalid input leaves the cart untouched.
func (s *service) AddItem(ctx context.Context, owner string, input AddItemInput) (*LineItem, error) {
	state, err := s.stateFor(ctx, owner)
	if err != nil {
		s.count("add_item", err)
		return nil, err
	}

	quantity := input.Quantity
	if quantity == 0 {
		quantity = 1
	}
	candidate := LineItem{
		Kind:            input.Kind,
		ProductCode:     input.ProductCode,
		ComboCode:       input.ComboCode,
		Name:            input.Name,
		Price:           input.Price,
		Quantity:        quantity,
		DiscountPercent: input.DiscountPercent,
		Image:           input.Image,
		SelectedSize:    input.SelectedSize,
		ComboProducts:   input.ComboProducts,
	}
	if err := candidate.Validate(); err != nil {
		s.count("add_item", err)
		return nil, err
	}

	state.mu.Lock()
	key := candidate.IdentityKey()
	idx := indexOfLocked(state.items, key)
	if idx >= 0 {
		state.items[idx].Quantity += quantity
		candidate = state.items[idx]
	} else {
		state.items = append(state.items, candidate)
	}
	s.persistLocked(ctx, owner, state)
	state.mu.Unlock()

	s.notifyItemAdded(ctx, ItemAddedEvent{Item: candidate, QuantityDelta: quantity})
	s.count("add_item", nil)
	return &candidate, nil
}

// UpdateQuantity sets the line's quantity, clamping to a floor of 1.
// Unknown keys are a no-op; removal is a separate explicit operation.
func (s *service) UpdateQuantity(ctx context.Context, owner, identityKey string, quantity int) error {
	state, err := s.stateFor(ctx, owner)
	if err != nil {
		s.count("update_quantity", err)
		return err
	}
	if quantity < 1 {
		quantity = 1
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	idx := indexOfLocked(state.items, identityKey)
	if idx < 0 {
		return nil
	}
	if state.items[idx].Quantity == quantity {
		return nil
	}
	state.items[idx].Quantity = quantity
	s.persistLocked(ctx, owner, state)
	s.count("update_quantity", nil)
	return nil
}

// RemoveItem deletes the matching line; absent keys are a no-op.
func (s *service) RemoveItem(ctx context.Context, owner, identityKey string) error {
	state, err := s.stateFor(ctx, owner)
	if err != nil {
		s.count("remove_item", err)
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	idx := indexOfLocked(state.items, identityKey)
	if idx < 0 {
		return nil
	}
	state.items = append(state.items[:idx], state.items[idx+1:]...)
	s.persistLocked(ctx, owner, state)
	s.count("remove_item", nil)
	return nil
}

// Clear empties the cart unconditionally and drops the persisted slot.
func (s *service) Clear(ctx context.Context, owner string) error {
	state, err := s.stateFor(ctx, owner)
	if err != nil {
		s.count("clear", err)
		return err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	state.items = nil
	if err := s.storage.Delete(ctx, owner); err != nil {
		s.logPersistFailure(ctx, owner, err)
	}
	s.count("clear", nil)
	return nil
}

// PricingLines projects the owner's cart into the pricing engine's input.
func (s *service) PricingLines(ctx context.Context, owner string) ([]pricing.Line, error) {
	state, err := s.stateFor(ctx, owner)
	if err != nil {
		return nil, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	lines := make([]pricing.Line, 0, len(state.items))
	for _, item := range state.items {
		lines = append(lines, item.PricingLine())
	}
	return lines, nil
}

// stateFor returns the owner's serialized state, loading persisted items on
// first access. Load failures degrade to an empty cart and are only logged.
func (s *service) stateFor(ctx context.Context, owner string) (*ownerState, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart owner is required")
	}

	s.mu.Lock()
	state, ok := s.states[owner]
	if !ok {
		state = &ownerState{}
		s.states[owner] = state
	}
	s.mu.Unlock()

	state.mu.Lock()
	defer state.mu.Unlock()
	if !state.loaded {
		items, err := s.storage.Load(ctx, owner)
		if err != nil {
			ctx = s.logg.WithCartOwner(ctx, owner)
			s.logg.Error(ctx, "cart load failed, starting empty", err)
		} else {
			state.items = items
		}
		state.loaded = true
	}
	return state, nil
}

func (s *service) persistLocked(ctx context.Context, owner string, state *ownerState) {
	if err := s.storage.Save(ctx, owner, state.items); err != nil {
		s.logPersistFailure(ctx, owner, err)
	}
}

func (s *service) logPersistFailure(ctx context.Context, owner string, err error) {
	s.metrics.IncSaveFailure()
	ctx = s.logg.WithCartOwner(ctx, owner)
	s.logg.Error(ctx, "cart persistence failed, in-memory state kept", err)
}

func (s *service) notifyItemAdded(ctx context.Context, event ItemAddedEvent) {
	s.listenerMu.RLock()
	listeners := make([]ItemAddedListener, len(s.listeners))
	copy(listeners, s.listeners)
	s.listenerMu.RUnlock()
	for _, listener := range listeners {
		listener(ctx, event)
	}
}

func (s *service) count(operation string, err error) {
	if err != nil {
		s.metrics.IncOperation(operation, "error")
		return
	}
	s.metrics.IncOperation(operation, "ok")
}

func indexOfLocked(items []LineItem, identityKey string) int {
	for i, item := range items {
		if item.IdentityKey() == identityKey {
			return i
		}
	}
	return -1
}

func snapshotLocked(state *ownerState) *Snapshot {
	items := make([]LineItem, len(state.items))
	copy(items, state.items)

	totalItems := 0
	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		totalItems += item.Quantity
		lines = append(lines, item.PricingLine())
	}
	return &Snapshot{
		Items:      items,
		TotalItems: totalItems,
		TotalPrice: pricing.Subtotal(lines),
		Ready:      state.loaded,
	}
}
