package cron

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	"github.com/velorashop/storefront-backend/pkg/logger"
)

const cartPruneJobName = "cart-prune"

type cartKeyspace interface {
	ScanKeys(ctx context.Context, pattern string) ([]string, error)
	IdleTime(ctx context.Context, key string) (time.Duration, error)
	Del(ctx context.Context, keys ...string) error
	CartKeyPattern() string
}

// CartPruneJobParams configures the abandoned-cart janitor.
type CartPruneJobParams struct {
	Logger  *logger.Logger
	Redis   cartKeyspace
	MaxIdle time.Duration
}

type cartPruneJob struct {
	logg    *logger.Logger
	redis   cartKeyspace
	maxIdle time.Duration
}

// NewCartPruneJob constructs the job that drops persisted carts whose slot
// has not been touched for the configured idle window.
func NewCartPruneJob(params CartPruneJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.Redis == nil {
		return nil, fmt.Errorf("redis client required")
	}
	if params.MaxIdle <= 0 {
		return nil, fmt.Errorf("max idle window must be positive")
	}
	return &cartPruneJob{
		logg:    params.Logger,
		redis:   params.Redis,
		maxIdle: params.MaxIdle,
	}, nil
}

func (j *cartPruneJob) Name() string {
	return cartPruneJobName
}

// Run walks the cart keyspace and deletes slots idle beyond the window.
// Per-key failures are collected so one bad key does not stop the sweep.
func (j *cartPruneJob) Run(ctx context.Context) error {
	keys, err := j.redis.ScanKeys(ctx, j.redis.CartKeyPattern())
	if err != nil {
		return fmt.Errorf("scan cart keys: %w", err)
	}

	var pruned int
	var errs error
	for _, key := range keys {
		idle, err := j.redis.IdleTime(ctx, key)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("idle time for %s: %w", key, err))
			continue
		}
		if idle < j.maxIdle {
			continue
		}
		if err := j.redis.Del(ctx, key); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("delete %s: %w", key, err))
			continue
		}
		pruned++
	}

	runCtx := j.logg.WithFields(ctx, map[string]any{
		"scanned": len(keys),
		"pruned":  pruned,
	})
	j.logg.Info(runCtx, "abandoned cart sweep finished")
	return errs
}
