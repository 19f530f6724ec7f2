package wishlist

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	ddl := []string{
		`DROP TABLE IF EXISTS wishlist_items`,
		`CREATE TABLE wishlist_items (
			id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
			user_id TEXT NOT NULL,
			product_code TEXT NOT NULL,
			name TEXT NOT NULL,
			price NUMERIC NOT NULL,
			image TEXT,
			category TEXT,
			subcategory TEXT,
			stock INTEGER NOT NULL DEFAULT 0,
			rating REAL NOT NULL DEFAULT 0,
			discount_percent REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX wishlist_items_user_product_key ON wishlist_items (user_id, product_code)`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func TestRepositoryAddFetchRemove(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	user := uuid.New()

	if err := repo.Add(ctx, user, sampleSnapshot("PR-0001")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, user, sampleSnapshot("PR-0002")); err != nil {
		t.Fatalf("add second: %v", err)
	}

	items, err := repo.FetchAll(ctx, user)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected two entries, got %d", len(items))
	}

	byCode := map[string]Snapshot{}
	for _, item := range items {
		byCode[item.ProductCode] = item
	}
	got, ok := byCode["PR-0001"]
	if !ok {
		t.Fatalf("missing PR-0001 in %+v", items)
	}
	want := sampleSnapshot("PR-0001")
	if got.Name != want.Name || !got.Price.Equal(want.Price) || got.Stock != want.Stock || got.Rating != want.Rating {
		t.Fatalf("snapshot fields lost in round trip: got %+v, want %+v", got, want)
	}

	if err := repo.Remove(ctx, user, "PR-0001"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	items, err = repo.FetchAll(ctx, user)
	if err != nil {
		t.Fatalf("fetch after remove: %v", err)
	}
	if len(items) != 1 || items[0].ProductCode != "PR-0002" {
		t.Fatalf("expected only PR-0002 left, got %+v", items)
	}
}

func TestRepositoryAddIgnoresDuplicates(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	user := uuid.New()

	if err := repo.Add(ctx, user, sampleSnapshot("PR-0001")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := repo.Add(ctx, user, sampleSnapshot("PR-0001")); err != nil {
		t.Fatalf("duplicate add must not error, got %v", err)
	}

	items, err := repo.FetchAll(ctx, user)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected a single row, got %d", len(items))
	}
}

func TestRepositoryScopesByUser(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	ctx := context.Background()
	alice, bob := uuid.New(), uuid.New()

	if err := repo.Add(ctx, alice, sampleSnapshot("PR-0001")); err != nil {
		t.Fatalf("add: %v", err)
	}

	items, err := repo.FetchAll(ctx, bob)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected empty wishlist for other user, got %+v", items)
	}

	if err := repo.Remove(ctx, bob, "PR-0001"); err != nil {
		t.Fatalf("remove for other user: %v", err)
	}
	items, _ = repo.FetchAll(ctx, alice)
	if len(items) != 1 {
		t.Fatalf("remove must be scoped to its user, got %+v", items)
	}
}

func TestRepositoryRejectsNilUser(t *testing.T) {
	repo := NewRepository(newTestDB(t))

	if err := repo.Add(context.Background(), uuid.Nil, sampleSnapshot("PR-0001")); err == nil {
		t.Fatalf("expected error for nil user")
	}
	if _, err := repo.FetchAll(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected error for nil user")
	}
}
