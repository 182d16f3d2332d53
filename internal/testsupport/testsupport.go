package testsupport

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/karloscodes/cartridge"
	ctestsupport "github.com/karloscodes/cartridge/testsupport"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"cyberdock/internal/database"
	"cyberdock/internal/sales"
	"cyberdock/internal/store"
)

// TestDBManager wraps cartridge's TestDBManager with the health check
// the HTTP layer expects.
type TestDBManager struct {
	*ctestsupport.TestDBManager
}

// NewTestDBManager creates a TestDBManager that implements cartridge.DBManager
func NewTestDBManager(db *gorm.DB) *TestDBManager {
	return &TestDBManager{
		TestDBManager: ctestsupport.NewTestDBManager(db),
	}
}

var _ cartridge.DBManager = (*TestDBManager)(nil)

// PingContext checks the wrapped connection.
func (m *TestDBManager) PingContext(ctx context.Context) error {
	return database.Ping(ctx, m)
}

// testDBCache caches test databases by root test name so subtests
// share the same database.
var testDBCache = make(map[string]*gorm.DB)
var testDBCacheMu sync.Mutex

// SetupTestDB creates an in-memory database with the store models migrated.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	rootName := t.Name()
	if idx := strings.Index(rootName, "/"); idx > 0 {
		rootName = rootName[:idx]
	}

	testDBCacheMu.Lock()
	if db, exists := testDBCache[rootName]; exists {
		testDBCacheMu.Unlock()
		return db
	}
	testDBCacheMu.Unlock()

	sanitizedName := strings.ReplaceAll(rootName, "/", "_")
	dsn := fmt.Sprintf("file:test_%s_%d?mode=memory&cache=shared", sanitizedName, time.Now().UnixNano())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("testsupport: failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(store.Models()...); err != nil {
		t.Fatalf("testsupport: failed to migrate models: %v", err)
	}

	testDBCacheMu.Lock()
	testDBCache[rootName] = db
	testDBCacheMu.Unlock()

	t.Cleanup(func() {
		testDBCacheMu.Lock()
		delete(testDBCache, rootName)
		testDBCacheMu.Unlock()
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

// SetupTestDBManager creates a test DB manager using cartridge's testsupport
func SetupTestDBManager(t *testing.T) (*TestDBManager, *slog.Logger) {
	db := SetupTestDB(t)
	return NewTestDBManager(db), GetLogger()
}

// SetupIsolatedDB opens a private in-memory database through cartridge's
// testsupport, for tests that must not share state with SetupTestDB.
func SetupIsolatedDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := ctestsupport.SetupTestDB(t, ctestsupport.TestDBOptions{Models: store.Models()})
	// Every :memory: connection is a separate database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	return db
}

// InsertSales persists the given records.
func InsertSales(t *testing.T, db *gorm.DB, records ...sales.Sale) {
	t.Helper()
	for _, s := range records {
		row := store.FromSale(s)
		require.NoError(t, db.Create(&row).Error)
	}
}

// InsertAccount registers an account nickname.
func InsertAccount(t *testing.T, db *gorm.DB, accountID, nickname string) {
	t.Helper()
	require.NoError(t, db.Create(&store.UserToken{MLUserID: accountID, Nickname: nickname}).Error)
}

// CleanTables empties the store tables.
func CleanTables(db *gorm.DB) {
	db.Transaction(func(tx *gorm.DB) error {
		for _, table := range []string{"sales", "user_tokens"} {
			tx.Exec("DELETE FROM " + table)
			tx.Exec("DELETE FROM sqlite_sequence WHERE name=?", table)
		}
		return nil
	})
}

// GetLogger returns a test logger
func GetLogger() *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError})
	return slog.New(handler)
}
