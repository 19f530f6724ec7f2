package coupon

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
)

type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
}

type sessionKeyer interface {
	CouponSessionKey(owner string) string
}

type nilChecker func(error) bool

// Service manages the single session-scoped applied coupon per owner.
type Service interface {
	Apply(ctx context.Context, owner, rawCode string) (*Coupon, error)
	Applied(ctx context.Context, owner string) (*Coupon, error)
	Clear(ctx context.Context, owner string) error
}

type service struct {
	store sessionStore
	keyer sessionKeyer
	isNil nilChecker
	ttl   time.Duration
}

// ServiceParams wires the session storage behind the coupon service.
type ServiceParams struct {
	Store      sessionStore
	Keyer      sessionKeyer
	IsNil      nilChecker
	SessionTTL time.Duration
}

// NewService builds a coupon service backed by the provided session store.
func NewService(params ServiceParams) (Service, error) {
	if params.Store == nil {
		return nil, fmt.Errorf("session store required")
	}
	if params.Keyer == nil {
		return nil, fmt.Errorf("session keyer required")
	}
	if params.IsNil == nil {
		return nil, fmt.Errorf("nil checker required")
	}
	if params.SessionTTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &service{
		store: params.Store,
		keyer: params.Keyer,
		isNil: params.IsNil,
		ttl:   params.SessionTTL,
	}, nil
}

// Apply resolves the raw code and persists the descriptor into the owner's
// session slot. A failed lookup leaves any previously applied coupon intact.
func (s *service) Apply(ctx context.Context, owner, rawCode string) (*Coupon, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}

	resolved, err := Resolve(rawCode)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(resolved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode coupon")
	}
	if err := s.store.Set(ctx, s.keyer.CouponSessionKey(owner), string(payload), s.ttl); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "persist applied coupon")
	}
	return resolved, nil
}

// Applied returns the owner's currently applied coupon, or nil when absent.
func (s *service) Applied(ctx context.Context, owner string) (*Coupon, error) {
	if strings.TrimSpace(owner) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}

	raw, err := s.store.Get(ctx, s.keyer.CouponSessionKey(owner))
	if err != nil {
		if s.isNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load applied coupon")
	}

	var c Coupon
	if err := json.Unmarshal([]byte(raw), &c); err != nil {
		// corrupt slot degrades to no coupon
		return nil, nil
	}
	return &c, nil
}

// Clear removes the owner's applied coupon.
func (s *service) Clear(ctx context.Context, owner string) error {
	if strings.TrimSpace(owner) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "owner is required")
	}
	if err := s.store.Del(ctx, s.keyer.CouponSessionKey(owner)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "clear applied coupon")
	}
	return nil
}
