package seeder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/store"
	"cyberdock/internal/testsupport"
)

func TestSeedSales(t *testing.T) {
	dbManager, logger := testsupport.SetupTestDBManager(t)
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

	s := NewSeeder(dbManager, logger, 50).WithSeed(7)
	s.Now = func() time.Time { return now }
	s.Days = 10

	require.NoError(t, s.SeedSales(context.Background()))

	src := store.NewGormSource(dbManager.GetConnection(), logger)
	records, err := src.ListSales(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, records, 50)

	earliest := now.AddDate(0, 0, -10)
	for _, r := range records {
		require.NotNil(t, r.DateAdjusted)
		assert.False(t, r.DateAdjusted.After(now))
		assert.True(t, r.DateAdjusted.After(earliest))
		assert.NotEmpty(t, r.Nickname)
		assert.Positive(t, r.Units())
	}

	accounts, err := src.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, len(demoAccounts))

	// Reseeding upserts accounts instead of failing on the unique index.
	require.NoError(t, s.SeedSales(context.Background()))
	accounts, err = src.ListAccounts(context.Background())
	require.NoError(t, err)
	assert.Len(t, accounts, len(demoAccounts))
}
