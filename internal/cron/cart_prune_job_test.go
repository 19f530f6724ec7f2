package cron

import (
	"context"
	"errors"
	"testing"
	"time"
)

type fakeCartKeyspace struct {
	idleByKey map[string]time.Duration
	scanErr   error
	idleErr   map[string]error
	delErr    map[string]error
	deleted   []string
}

func (f *fakeCartKeyspace) ScanKeys(ctx context.Context, pattern string) ([]string, error) {
	if f.scanErr != nil {
		return nil, f.scanErr
	}
	keys := make([]string, 0, len(f.idleByKey))
	for key := range f.idleByKey {
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *fakeCartKeyspace) IdleTime(ctx context.Context, key string) (time.Duration, error) {
	if err := f.idleErr[key]; err != nil {
		return 0, err
	}
	return f.idleByKey[key], nil
}

func (f *fakeCartKeyspace) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		if err := f.delErr[key]; err != nil {
			return err
		}
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func (f *fakeCartKeyspace) CartKeyPattern() string { return "velora:cart:*" }

func newCartPruneJob(t *testing.T, keyspace *fakeCartKeyspace, maxIdle time.Duration) Job {
	t.Helper()
	job, err := NewCartPruneJob(CartPruneJobParams{
		Logger:  testLogger(),
		Redis:   keyspace,
		MaxIdle: maxIdle,
	})
	if err != nil {
		t.Fatalf("NewCartPruneJob: %v", err)
	}
	return job
}

func TestCartPruneJobDeletesOnlyIdleCarts(t *testing.T) {
	keyspace := &fakeCartKeyspace{
		idleByKey: map[string]time.Duration{
			"velora:cart:stale":  48 * time.Hour,
			"velora:cart:active": 10 * time.Minute,
		},
	}
	job := newCartPruneJob(t, keyspace, 24*time.Hour)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(keyspace.deleted) != 1 || keyspace.deleted[0] != "velora:cart:stale" {
		t.Fatalf("expected only the stale cart pruned, got %v", keyspace.deleted)
	}
}

func TestCartPruneJobCollectsPerKeyFailures(t *testing.T) {
	keyspace := &fakeCartKeyspace{
		idleByKey: map[string]time.Duration{
			"velora:cart:bad":   48 * time.Hour,
			"velora:cart:stale": 48 * time.Hour,
		},
		delErr: map[string]error{"velora:cart:bad": errors.New("boom")},
	}
	job := newCartPruneJob(t, keyspace, 24*time.Hour)

	err := job.Run(context.Background())
	if err == nil {
		t.Fatalf("expected aggregated error")
	}
	if len(keyspace.deleted) != 1 {
		t.Fatalf("sweep must continue past failures, deleted %v", keyspace.deleted)
	}
}

func TestCartPruneJobScanFailure(t *testing.T) {
	keyspace := &fakeCartKeyspace{scanErr: errors.New("redis down")}
	job := newCartPruneJob(t, keyspace, 24*time.Hour)

	if err := job.Run(context.Background()); err == nil {
		t.Fatalf("expected error when scan fails")
	}
}
