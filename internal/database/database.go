package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/karloscodes/cartridge"
	"github.com/karloscodes/cartridge/sqlite"
	"gorm.io/gorm"

	"cyberdock/internal/config"
	"cyberdock/internal/store"
)

// DBManager wraps cartridge's sqlite.Manager with the sales store migrations.
type DBManager struct {
	*sqlite.Manager
	path   string
	logger *slog.Logger
}

var _ cartridge.DBManager = (*DBManager)(nil)

// NewDBManager creates a new database manager using cartridge's sqlite.Manager.
func NewDBManager(cfg *config.Config, logger *slog.Logger) *DBManager {
	path := cfg.GetDatabasePath()
	sqliteCfg := sqlite.Config{
		Path:         path,
		MaxOpenConns: cfg.GetMaxOpenConns(),
		MaxIdleConns: cfg.GetMaxIdleConns(),
		Logger:       logger,
		EnableWAL:    true,
		TxImmediate:  true,
		BusyTimeout:  5000,
	}

	return &DBManager{
		Manager: sqlite.NewManager(sqliteCfg),
		path:    path,
		logger:  logger,
	}
}

// Init creates the storage directory and opens the connection.
func (dm *DBManager) Init() error {
	if dir := filepath.Dir(dm.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	_, err := dm.Manager.Connect()
	return err
}

// MigrateDatabase creates or updates the sales and user_tokens tables.
func (dm *DBManager) MigrateDatabase() error {
	db := dm.GetConnection()
	if db == nil {
		return gorm.ErrInvalidDB
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.AutoMigrate(store.Models()...)
	})
	if err != nil {
		dm.logger.Error("Failed to auto-migrate database", slog.Any("error", err))
		return err
	}

	if err := dm.CheckpointWAL("FULL"); err != nil {
		dm.logger.Warn("Failed to checkpoint WAL after migration", slog.Any("error", err))
	}

	dm.logger.Info("Database migration completed successfully")
	return nil
}

// PingContext checks the connection is alive.
func (dm *DBManager) PingContext(ctx context.Context) error {
	return Ping(ctx, dm)
}

// Ping checks that the manager holds a live connection.
func Ping(ctx context.Context, dm cartridge.DBManager) error {
	db := dm.GetConnection()
	if db == nil {
		return errors.New("database not initialized")
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// ErrNoLocalDatabase is returned by Remote, which stands in when sales
// are read from Postgres and no SQLite file is opened.
var ErrNoLocalDatabase = errors.New("no local database: sales are read from postgres")

// Remote satisfies cartridge.DBManager without a local connection.
type Remote struct{}

var _ cartridge.DBManager = Remote{}

func (Remote) GetConnection() *gorm.DB { return nil }

func (Remote) Connect() (*gorm.DB, error) { return nil, ErrNoLocalDatabase }
