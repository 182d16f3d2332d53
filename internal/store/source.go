package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samber/lo"
	"gorm.io/gorm"

	"cyberdock/internal/sales"
)

// RecordSource yields sale records, optionally for a single account id.
type RecordSource interface {
	ListSales(ctx context.Context, accountID string) ([]sales.Sale, error)
}

// AccountLister yields the connected accounts.
type AccountLister interface {
	ListAccounts(ctx context.Context) ([]sales.Account, error)
}

// Source is what the HTTP layer and jobs depend on.
type Source interface {
	RecordSource
	AccountLister
}

// GormSource reads sales from the local SQLite database.
type GormSource struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewGormSource(db *gorm.DB, logger *slog.Logger) *GormSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &GormSource{db: db, logger: logger}
}

type saleRow struct {
	SaleRecord `gorm:"embedded"`
	Nickname   *string `gorm:"column:nickname"`
}

// ListSales joins each sale with its account nickname. Sales whose
// account has no token row keep an empty nickname.
func (s *GormSource) ListSales(ctx context.Context, accountID string) ([]sales.Sale, error) {
	if err := s.validateSchema(); err != nil {
		return nil, err
	}

	q := s.db.WithContext(ctx).
		Table("sales AS s").
		Select("s.*, u.nickname AS nickname").
		Joins("LEFT JOIN user_tokens u ON s.ml_user_id = u.ml_user_id")
	if accountID != "" {
		q = q.Where("s.ml_user_id = ?", accountID)
	}

	var rows []saleRow
	if err := q.Order("s.date_adjusted DESC").Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("error fetching sales: %w", err)
	}

	s.logger.Debug("Loaded sales", slog.Int("count", len(rows)), slog.String("account", accountID))
	return lo.Map(rows, func(r saleRow, _ int) sales.Sale {
		return r.SaleRecord.ToSale(lo.FromPtr(r.Nickname))
	}), nil
}

func (s *GormSource) validateSchema() error {
	columns, err := s.db.Migrator().ColumnTypes(&SaleRecord{})
	if err != nil {
		return fmt.Errorf("error reading sales schema: %w", err)
	}
	return sales.ValidateColumns(lo.Map(columns, func(c gorm.ColumnType, _ int) string {
		return c.Name()
	}))
}

// ListAccounts returns the accounts ordered by nickname.
func (s *GormSource) ListAccounts(ctx context.Context) ([]sales.Account, error) {
	var tokens []UserToken
	if err := s.db.WithContext(ctx).Order("nickname").Find(&tokens).Error; err != nil {
		return nil, fmt.Errorf("error fetching accounts: %w", err)
	}
	return lo.Map(tokens, func(t UserToken, _ int) sales.Account {
		return sales.Account{AccountID: t.MLUserID, Nickname: t.Nickname}
	}), nil
}
