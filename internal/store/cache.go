package store

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/karloscodes/cartridge/cache"

	"cyberdock/internal/sales"
)

const (
	allSalesKey      = "sales"
	accountKeyPrefix = "sales:"
	accountsKey      = "accounts"

	snapshotLoadTimeout = 30 * time.Second
)

// snapshot is one cached load. Only its size is logged.
type snapshot struct {
	sales    []sales.Sale
	accounts []sales.Account
}

func (s snapshot) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("sales", len(s.sales)),
		slog.Int("accounts", len(s.accounts)),
	)
}

func salesKey(accountID string) string {
	if accountID == "" {
		return allSalesKey
	}
	return accountKeyPrefix + accountID
}

// CachedSource keeps loaded snapshots for a fixed TTL, keyed by account
// filter. Callers always receive a copy of the cached slice. A failed
// reload serves the previous snapshot when there is one.
type CachedSource struct {
	next  Source
	cache *cache.Cache[string, snapshot]
}

func NewCachedSource(next Source, ttl time.Duration, logger *slog.Logger) *CachedSource {
	if logger == nil {
		logger = slog.Default()
	}
	c := &CachedSource{next: next}
	c.cache = cache.NewCache[string, snapshot](logger.With(slog.String("component", "snapshot_cache")), ttl, c.load)
	return c
}

func (c *CachedSource) load(key string) (snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotLoadTimeout)
	defer cancel()

	if key == accountsKey {
		accounts, err := c.next.ListAccounts(ctx)
		return snapshot{accounts: accounts}, err
	}
	accountID := ""
	if key != allSalesKey {
		accountID = strings.TrimPrefix(key, accountKeyPrefix)
	}
	records, err := c.next.ListSales(ctx, accountID)
	return snapshot{sales: records}, err
}

func (c *CachedSource) ListSales(ctx context.Context, accountID string) ([]sales.Sale, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := c.cache.Get(salesKey(accountID))
	if err != nil {
		return nil, err
	}
	return append([]sales.Sale(nil), snap.sales...), nil
}

// RefreshSales bypasses the cache, then stores the fresh snapshot.
func (c *CachedSource) RefreshSales(ctx context.Context, accountID string) ([]sales.Sale, error) {
	records, err := c.next.ListSales(ctx, accountID)
	if err != nil {
		return nil, err
	}
	c.cache.Set(salesKey(accountID), snapshot{sales: records})
	return append([]sales.Sale(nil), records...), nil
}

func (c *CachedSource) ListAccounts(ctx context.Context) ([]sales.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := c.cache.Get(accountsKey)
	if err != nil {
		return nil, err
	}
	return append([]sales.Account(nil), snap.accounts...), nil
}

// Invalidate drops every snapshot.
func (c *CachedSource) Invalidate() {
	c.cache.Clear()
}

// PurgeAccountSnapshots drops the per-account snapshots and reports how
// many were held. The all-accounts snapshot and the account list stay.
func (c *CachedSource) PurgeAccountSnapshots() int {
	return c.cache.InvalidateByPrefix(accountKeyPrefix)
}

// Len is the number of live and stale entries held.
func (c *CachedSource) Len() int {
	n, _ := c.cache.GetStats()["total_entries"].(int)
	return n
}
