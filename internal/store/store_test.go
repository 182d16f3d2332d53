package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/sales"
	"cyberdock/internal/store"
	"cyberdock/internal/testsupport"
)

func TestGormSourceListSales(t *testing.T) {
	db := testsupport.SetupTestDB(t)
	at := time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

	testsupport.InsertAccount(t, db, "1001", "LOJA A")
	testsupport.InsertSales(t, db,
		testsupport.NewSale("A1", at, 100, testsupport.WithLevels("Casa", "Cozinha")),
		testsupport.NewSale("A2", at.Add(time.Hour), 50),
	)
	orphan := testsupport.NewSale("B1", at, 30)
	orphan.AccountID = "2002"
	testsupport.InsertSales(t, db, orphan)

	src := store.NewGormSource(db, testsupport.GetLogger())

	t.Run("joins nicknames", func(t *testing.T) {
		records, err := src.ListSales(context.Background(), "")
		require.NoError(t, err)
		require.Len(t, records, 3)

		byID := make(map[string]sales.Sale)
		for _, r := range records {
			byID[r.OrderID] = r
		}
		assert.Equal(t, "LOJA A", byID["A1"].Nickname)
		assert.Equal(t, "Casa", *byID["A1"].Level1)
		assert.Equal(t, "Pago", byID["A1"].StatusLabel)
		assert.Equal(t, "", byID["B1"].Nickname)
		assert.Equal(t, "2002", byID["B1"].AccountName())
	})

	t.Run("filters by account", func(t *testing.T) {
		records, err := src.ListSales(context.Background(), "2002")
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "B1", records[0].OrderID)
	})

	t.Run("lists accounts", func(t *testing.T) {
		accounts, err := src.ListAccounts(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []sales.Account{{AccountID: "1001", Nickname: "LOJA A"}}, accounts)
	})
}

func TestGormSourceMissingColumn(t *testing.T) {
	db := testsupport.SetupIsolatedDB(t)
	require.NoError(t, db.Migrator().DropColumn(&store.SaleRecord{}, "quantity_sku"))

	_, err := store.NewGormSource(db, nil).ListSales(context.Background(), "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sales.ErrMissingColumn))

	var verr *sales.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"quantity_sku"}, verr.Missing)
}

type countingSource struct {
	records  []sales.Sale
	accounts []sales.Account
	calls    int
	err      error
}

func (c *countingSource) ListSales(_ context.Context, _ string) ([]sales.Sale, error) {
	c.calls++
	return c.records, c.err
}

func (c *countingSource) ListAccounts(_ context.Context) ([]sales.Account, error) {
	c.calls++
	return c.accounts, c.err
}

func TestCachedSource(t *testing.T) {
	at := time.Date(2024, 3, 10, 11, 0, 0, 0, time.UTC)
	next := &countingSource{
		records:  []sales.Sale{testsupport.NewSale("A1", at, 10)},
		accounts: []sales.Account{{AccountID: "1001", Nickname: "LOJA A"}},
	}
	cache := store.NewCachedSource(next, 5*time.Minute, testsupport.GetLogger())
	ctx := context.Background()

	first, err := cache.ListSales(ctx, "")
	require.NoError(t, err)
	second, err := cache.ListSales(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, 1, next.calls)
	assert.Equal(t, first, second)

	first[0].OrderID = "mutated"
	third, _ := cache.ListSales(ctx, "")
	assert.Equal(t, "A1", third[0].OrderID)

	_, err = cache.ListSales(ctx, "1001")
	require.NoError(t, err)
	assert.Equal(t, 2, next.calls, "each account filter has its own snapshot")

	_, _ = cache.ListAccounts(ctx)
	_, _ = cache.ListAccounts(ctx)
	assert.Equal(t, 3, next.calls)
	assert.Equal(t, 3, cache.Len())

	assert.Equal(t, 1, cache.PurgeAccountSnapshots())
	assert.Equal(t, 2, cache.Len())

	_, _ = cache.ListSales(ctx, "1001")
	assert.Equal(t, 4, next.calls)

	cache.Invalidate()
	assert.Equal(t, 0, cache.Len())
}

func TestCachedSourceZeroTTLAlwaysReloads(t *testing.T) {
	next := &countingSource{records: []sales.Sale{testsupport.NewSale("A1", time.Now(), 10)}}
	cache := store.NewCachedSource(next, 0, testsupport.GetLogger())

	_, _ = cache.ListSales(context.Background(), "")
	_, _ = cache.ListSales(context.Background(), "")
	assert.Equal(t, 2, next.calls)
}

func TestCachedSourceDoesNotCacheErrors(t *testing.T) {
	next := &countingSource{err: errors.New("boom")}
	cache := store.NewCachedSource(next, time.Minute, testsupport.GetLogger())

	_, err := cache.ListSales(context.Background(), "")
	require.Error(t, err)
	_, err = cache.ListSales(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, 2, next.calls)
	assert.Equal(t, 0, cache.Len())
}

func TestCachedSourceServesStaleSnapshotOnReloadFailure(t *testing.T) {
	next := &countingSource{records: []sales.Sale{testsupport.NewSale("A1", time.Now(), 10)}}
	cache := store.NewCachedSource(next, 0, testsupport.GetLogger())

	_, err := cache.ListSales(context.Background(), "")
	require.NoError(t, err)

	next.err = errors.New("db down")
	records, err := cache.ListSales(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "A1", records[0].OrderID)
}

func TestCachedSourceHonorsCanceledContext(t *testing.T) {
	next := &countingSource{}
	cache := store.NewCachedSource(next, time.Minute, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.ListSales(ctx, "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, next.calls)
}

func TestPostgresSourceOverExistingHandle(t *testing.T) {
	db := testsupport.SetupIsolatedDB(t)
	testsupport.InsertAccount(t, db, "1002", "LOJA B")
	testsupport.InsertAccount(t, db, "1001", "LOJA A")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	src := store.NewPostgresSource(sqlx.NewDb(sqlDB, "sqlite3"))

	require.NoError(t, src.PingContext(context.Background()))

	accounts, err := src.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []sales.Account{
		{AccountID: "1001", Nickname: "LOJA A"},
		{AccountID: "1002", Nickname: "LOJA B"},
	}, accounts)
}
