package cart

import (
	"context"
	"encoding/json"
	"fmt"

	pkgerrors "github.com/velorashop/storefront-backend/pkg/errors"
	redisclient "github.com/velorashop/storefront-backend/pkg/redis"
)

// Storage persists serialized carts per owner.
type Storage interface {
	Load(ctx context.Context, owner string) ([]LineItem, error)
	Save(ctx context.Context, owner string, items []LineItem) error
	Delete(ctx context.Context, owner string) error
}

type redisStorage struct {
	client *redisclient.Client
}

// NewRedisStorage stores each cart as a JSON array under the owner's cart key.
func NewRedisStorage(client *redisclient.Client) (Storage, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisStorage{client: client}, nil
}

// Load reads and decodes the owner's persisted cart. A missing or corrupt
// slot yields an empty cart without an error; only transport failures are
// reported.
func (r *redisStorage) Load(ctx context.Context, owner string) ([]LineItem, error) {
	raw, err := r.client.Get(ctx, r.client.CartKey(owner))
	if err != nil {
		if redisclient.IsNil(err) {
			return nil, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodePersistence, err, "load cart")
	}

	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, nil
	}
	return items, nil
}

// Save overwrites the owner's persisted cart with the provided items.
func (r *redisStorage) Save(ctx context.Context, owner string, items []LineItem) error {
	if items == nil {
		items = []LineItem{}
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode cart")
	}
	if err := r.client.Set(ctx, r.client.CartKey(owner), string(payload), 0); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "save cart")
	}
	return nil
}

// Delete drops the owner's persisted cart entirely.
func (r *redisStorage) Delete(ctx context.Context, owner string) error {
	if err := r.client.Del(ctx, r.client.CartKey(owner)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodePersistence, err, "delete cart")
	}
	return nil
}
