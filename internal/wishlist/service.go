package wishlist

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

// Remote is the external wishlist collection the layer mirrors. A database
// repository or an HTTP client can sit behind it; the contract is the same.
type Remote interface {
	FetchAll(ctx context.Context, userID uuid.UUID) ([]Snapshot, error)
	Add(ctx context.Context, userID uuid.UUID, snapshot Snapshot) error
	Remove(ctx context.Context, userID uuid.UUID, productCode string) error
}

// Service mirrors the remote collection with optimistic local updates.
// Both add and remove roll their optimistic change back on remote failure,
// so the local snapshot never drifts from what the remote confirmed.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Snapshot, error)
	IsInWishlist(ctx context.Context, userID uuid.UUID, productCode string) (bool, error)
	Add(ctx context.Context, userID uuid.UUID, item Snapshot) (*AddResult, error)
	Remove(ctx context.Context, userID uuid.UUID, productCode string) error
	Toggle(ctx context.Context, userID uuid.UUID, item Snapshot) (added bool, err error)
}

// userState holds one user's optimistic snapshot cache. Operations on the
// same product code serialize on a per-key lock held across the remote call,
// which rules out the double-remove race and stale-response application.
type userState struct {
	mu       sync.Mutex
	loaded   bool
	order    []string
	items    map[string]Snapshot
	keyLocks map[string]*sync.Mutex
}

type service struct {
	mu     sync.Mutex
	states map[uuid.UUID]*userState

	remote Remote
	logg   *logger.Logger
}

// ServiceParams wires the wishlist service dependencies.
type ServiceParams struct {
	Remote Remote
	Logger *logger.Logger
}

// NewService builds the wishlist synchronization service.
func NewService(params ServiceParams) (Service, error) {
	if params.Remote == nil {
		return nil, fmt.Errorf("wishlist remote required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		states: make(map[uuid.UUID]*userState),
		remote: params.Remote,
		logg:   params.Logger,
	}, nil
}

// List refreshes the local cache from the remote and returns the confirmed
// collection in insertion order.
func (s *service) List(ctx context.Context, userID uuid.UUID) ([]Snapshot, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires an authenticated session")
	}

	fetched, err := s.remote.FetchAll(ctx, userID)
	if err != nil {
		return nil, translateRemoteError(err, "fetch wishlist")
	}

	state := s.stateFor(userID)
	state.mu.Lock()
	state.items = make(map[string]Snapshot, len(fetched))
	state.order = state.order[:0]
	for _, snap := range fetched {
		state.items[snap.ProductCode] = snap
		state.order = append(state.order, snap.ProductCode)
	}
	state.loaded = true
	result := state.snapshotLocked()
	state.mu.Unlock()

	return result, nil
}

// IsInWishlist tests membership against the optimistic local state.
func (s *service) IsInWishlist(ctx context.Context, userID uuid.UUID, productCode string) (bool, error) {
	if userID == uuid.Nil {
		return false, pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires an authenticated session")
	}

	state := s.stateFor(userID)
	if err := s.ensureLoaded(ctx, userID, state); err != nil {
		return false, err
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	_, ok := state.items[productCode]
	return ok, nil
}

// Add optimistically inserts the snapshot, then confirms with the remote.
// On remote failure the insert is rolled back. Re-adding a present entry is
// an idempotent no-op reported through AlreadyPresent.
func (s *service) Add(ctx context.Context, userID uuid.UUID, item Snapshot) (*AddResult, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires an authenticated session")
	}
	if item.ProductCode == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product code is required")
	}

	state := s.stateFor(userID)
	if err := s.ensureLoaded(ctx, userID, state); err != nil {
		return nil, err
	}

	unlock := state.lockKey(item.ProductCode)
	defer unlock()

	state.mu.Lock()
	if existing, ok := state.items[item.ProductCode]; ok {
		state.mu.Unlock()
		return &AddResult{Item: existing, AlreadyPresent: true}, nil
	}
	// optimistic insert; the inverse patch is a plain delete
	state.items[item.ProductCode] = item
	state.order = append(state.order, item.ProductCode)
	state.mu.Unlock()

	if err := s.remote.Add(ctx, userID, item); err != nil {
		state.mu.Lock()
		state.removeLocked(item.ProductCode)
		state.mu.Unlock()
		return nil, translateRemoteError(err, "add wishlist item")
	}

	return &AddResult{Item: item}, nil
}

// Remove optimistically deletes the entry, then confirms with the remote.
// On failure the captured snapshot is reinserted at its original position.
// Absent entries are a no-op.
func (s *service) Remove(ctx context.Context, userID uuid.UUID, productCode string) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "wishlist requires an authenticated session")
	}
	if productCode == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product code is required")
	}

	state := s.stateFor(userID)
	if err := s.ensureLoaded(ctx, userID, state); err != nil {
		return err
	}

	unlock := state.lockKey(productCode)
	defer unlock()

	state.mu.Lock()
	prior, ok := state.items[productCode]
	if !ok {
		state.mu.Unlock()
		return nil
	}
	position := state.positionLocked(productCode)
	state.removeLocked(productCode)
	state.mu.Unlock()

	if err := s.remote.Remove(ctx, userID, productCode); err != nil {
		// inverse patch captured at mutation time: the exact prior
		// snapshot goes back where it was
		state.mu.Lock()
		state.insertAtLocked(prior, position)
		state.mu.Unlock()
		return translateRemoteError(err, "remove wishlist item")
	}

	return nil
}

// Toggle dispatches to Add or Remove based on current membership.
func (s *service) Toggle(ctx context.Context, userID uuid.UUID, item Snapshot) (bool, error) {
	present, err := s.IsInWishlist(ctx, userID, item.ProductCode)
	if err != nil {
		return false, err
	}
	if present {
		return false, s.Remove(ctx, userID, item.ProductCode)
	}
	if _, err := s.Add(ctx, userID, item); err != nil {
		return false, err
	}
	return true, nil
}

func (s *service) stateFor(userID uuid.UUID) *userState {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[userID]
	if !ok {
		state = &userState{
			items:    make(map[string]Snapshot),
			keyLocks: make(map[string]*sync.Mutex),
		}
		s.states[userID] = state
	}
	return state
}

func (s *service) ensureLoaded(ctx context.Context, userID uuid.UUID, state *userState) error {
	state.mu.Lock()
	if state.loaded {
		state.mu.Unlock()
		return nil
	}
	state.mu.Unlock()

	fetched, err := s.remote.FetchAll(ctx, userID)
	if err != nil {
		return translateRemoteError(err, "fetch wishlist")
	}

	state.mu.Lock()
	defer state.mu.Unlock()
	if state.loaded {
		return nil
	}
	for _, snap := range fetched {
		if _, ok := state.items[snap.ProductCode]; ok {
			continue
		}
		state.items[snap.ProductCode] = snap
		state.order = append(state.order, snap.ProductCode)
	}
	state.loaded = true
	return nil
}

func (u *userState) lockKey(productCode string) func() {
	u.mu.Lock()
	lock, ok := u.keyLocks[productCode]
	if !ok {
		lock = &sync.Mutex{}
		u.keyLocks[productCode] = lock
	}
	u.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (u *userState) positionLocked(productCode string) int {
	for i, code := range u.order {
		if code == productCode {
			return i
		}
	}
	return len(u.order)
}

func (u *userState) removeLocked(productCode string) {
	delete(u.items, productCode)
	for i, code := range u.order {
		if code == productCode {
			u.order = append(u.order[:i], u.order[i+1:]...)
			return
		}
	}
}

func (u *userState) insertAtLocked(snap Snapshot, position int) {
	u.items[snap.ProductCode] = snap
	if position < 0 || position > len(u.order) {
		position = len(u.order)
	}
	u.order = append(u.order, "")
	copy(u.order[position+1:], u.order[position:])
	u.order[position] = snap.ProductCode
}

func (u *userState) snapshotLocked() []Snapshot {
	out := make([]Snapshot, 0, len(u.order))
	for _, code := range u.order {
		if snap, ok := u.items[code]; ok {
			out = append(out, snap)
		}
	}
	return out
}

// translateRemoteError keeps the authentication failure mode distinct so the
// caller can prompt login instead of showing a generic sync error.
func translateRemoteError(err error, action string) error {
	if appErr := pkgerrors.As(err); appErr != nil {
		if appErr.Code() == pkgerrors.CodeUnauthorized {
			return appErr
		}
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, action+" failed")
}
