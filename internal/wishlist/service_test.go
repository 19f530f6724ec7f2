package wishlist

import (
	"context"
	"fmt"
	"io"
	"reflect"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	"github.com/velorashop/storefront-backend/pkg/logger"
)

type stubRemote struct {
	mu        sync.Mutex
	items     map[string]Snapshot
	addErr    error
	removeErr error
	fetchErr  error
	addCalls  int
}

func newStubRemote() *stubRemote {
	return &stubRemote{items: make(map[string]Snapshot)}
}

func (r *stubRemote) FetchAll(ctx context.Context, userID uuid.UUID) ([]Snapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fetchErr != nil {
		return nil, r.fetchErr
	}
	out := make([]Snapshot, 0, len(r.items))
	for _, snap := range r.items {
		out = append(out, snap)
	}
	return out, nil
}

func (r *stubRemote) Add(ctx context.Context, userID uuid.UUID, snapshot Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.addCalls++
	if r.addErr != nil {
		return r.addErr
	}
	r.items[snapshot.ProductCode] = snapshot
	return nil
}

func (r *stubRemote) Remove(ctx context.Context, userID uuid.UUID, productCode string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.removeErr != nil {
		return r.removeErr
	}
	delete(r.items, productCode)
	return nil
}

func newTestWishlist(t *testing.T, remote Remote) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "wishlist-test", Output: io.Discard})
	svc, err := NewService(ServiceParams{Remote: remote, Logger: logg})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func sampleSnapshot(code string) Snapshot {
	return Snapshot{
		ProductCode:     code,
		Name:            "Product " + code,
		Price:           decimal.RequireFromString("49.99"),
		Image:           "/images/" + code + ".jpg",
		Category:        "apparel",
		Subcategory:     "shirts",
		Stock:           12,
		Rating:          4.5,
		DiscountPercent: 10,
	}
}

func TestAddRequiresAuthentication(t *testing.T) {
	svc := newTestWishlist(t, newStubRemote())

	_, err := svc.Add(context.Background(), uuid.Nil, sampleSnapshot("PR-0001"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestAddAndMembership(t *testing.T) {
	remote := newStubRemote()
	svc := newTestWishlist(t, remote)
	ctx := context.Background()
	user := uuid.New()

	result, err := svc.Add(ctx, user, sampleSnapshot("PR-0001"))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if result.AlreadyPresent {
		t.Fatalf("first add must not report already present")
	}

	present, err := svc.IsInWishlist(ctx, user, "PR-0001")
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if !present {
		t.Fatalf("expected membership after add")
	}
	if _, ok := remote.items["PR-0001"]; !ok {
		t.Fatalf("expected remote to hold the snapshot")
	}
}

func TestAddIsIdempotent(t *testing.T) {
	remote := newStubRemote()
	svc := newTestWishlist(t, remote)
	ctx := context.Background()
	user := uuid.New()

	if _, err := svc.Add(ctx, user, sampleSnapshot("PR-0001")); err != nil {
		t.Fatalf("first add: %v", err)
	}
	second, err := svc.Add(ctx, user, sampleSnapshot("PR-0001"))
	if err != nil {
		t.Fatalf("second add must not error, got %v", err)
	}
	if !second.AlreadyPresent {
		t.Fatalf("second add must report already present")
	}
	if remote.addCalls != 1 {
		t.Fatalf("second add must be a local no-op, remote saw %d calls", remote.addCalls)
	}

	list, err := svc.List(ctx, user)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected exactly one entry, got %d", len(list))
	}
}

func TestAddRollsBackOnRemoteFailure(t *testing.T) {
	remote := newStubRemote()
	remote.addErr = fmt.Errorf("server rejected")
	svc := newTestWishlist(t, remote)
	ctx := context.Background()
	user := uuid.New()

	_, err := svc.Add(ctx, user, sampleSnapshot("PR-0001"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	present, err := svc.IsInWishlist(ctx, user, "PR-0001")
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if present {
		t.Fatalf("optimistic insert must roll back on failure")
	}
}

func TestRemoveRollsBackWithIdenticalSnapshot(t *testing.T) {
	remote := newStubRemote()
	svc := newTestWishlist(t, remote)
	ctx := context.Background()
	user := uuid.New()

	original := sampleSnapshot("PR-0001")
	if _, err := svc.Add(ctx, user, original); err != nil {
		t.Fatalf("add: %v", err)
	}

	remote.removeErr = fmt.Errorf("network unreachable")
	err := svc.Remove(ctx, user, "PR-0001")
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}

	present, err := svc.IsInWishlist(ctx, user, "PR-0001")
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if !present {
		t.Fatalf("failed remove must restore membership")
	}

	remote.removeErr = nil
	remote.fetchErr = fmt.Errorf("force local read")
	// read through the optimistic cache only
	state := svc.(*service).stateFor(user)
	state.mu.Lock()
	restored := state.items["PR-0001"]
	state.mu.Unlock()
	if !reflect.DeepEqual(restored, original) {
		t.Fatalf("restored snapshot differs: got %+v, want %+v", restored, original)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	svc := newTestWishlist(t, newStubRemote())

	if err := svc.Remove(context.Background(), uuid.New(), "PR-0404"); err != nil {
		t.Fatalf("expected no-op, got %v", err)
	}
}

func TestToggleAddsThenRemoves(t *testing.T) {
	remote := newStubRemote()
	svc := newTestWishlist(t, remote)
	ctx := context.Background()
	user := uuid.New()

	added, err := svc.Toggle(ctx, user, sampleSnapshot("PR-0001"))
	if err != nil {
		t.Fatalf("toggle add: %v", err)
	}
	if !added {
		t.Fatalf("first toggle must add")
	}

	added, err = svc.Toggle(ctx, user, sampleSnapshot("PR-0001"))
	if err != nil {
		t.Fatalf("toggle remove: %v", err)
	}
	if added {
		t.Fatalf("second toggle must remove")
	}

	present, err := svc.IsInWishlist(ctx, user, "PR-0001")
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if present {
		t.Fatalf("expected entry removed after second toggle")
	}
}

func TestListLoadsRemoteState(t *testing.T) {
	remote := newStubRemote()
	remote.items["PR-0007"] = sampleSnapshot("PR-0007")
	svc := newTestWishlist(t, remote)

	list, err := svc.List(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ProductCode != "PR-0007" {
		t.Fatalf("expected remote entry, got %+v", list)
	}
}

func TestRemoteUnauthorizedPassesThrough(t *testing.T) {
	remote := newStubRemote()
	remote.addErr = pkgerrors.New(pkgerrors.CodeUnauthorized, "session expired")
	svc := newTestWishlist(t, remote)

	_, err := svc.Add(context.Background(), uuid.New(), sampleSnapshot("PR-0001"))
	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("401-equivalent must surface as authentication required, got %v", err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	svc := newTestWishlist(t, newStubRemote())
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	if _, err := svc.Add(ctx, alice, sampleSnapshot("PR-0001")); err != nil {
		t.Fatalf("add: %v", err)
	}

	present, err := svc.IsInWishlist(ctx, bob, "PR-0001")
	if err != nil {
		t.Fatalf("membership: %v", err)
	}
	if present {
		t.Fatalf("users must not share wishlists")
	}
}
