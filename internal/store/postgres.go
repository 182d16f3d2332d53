package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/samber/lo"

	"cyberdock/internal/sales"
)

const pgSalesColumns = `
	s.order_id, s.date_adjusted, s.item_id, s.item_title, s.status,
	s.quantity, s.unit_price, s.total_amount, s.ml_user_id,
	s.seller_sku, s.custo_unitario, s.quantity_sku, s.ml_fee,
	s.level1, s.level2, s.frete_adjust,
	s.shipment_status, s.shipment_substatus, s.shipment_logistic_type,
	s.shipment_receiver_name, s.shipment_delivery_sla,
	u.nickname`

// pgSaleRow mirrors the shared production schema, where most columns
// are nullable.
type pgSaleRow struct {
	OrderID              string     `db:"order_id"`
	DateAdjusted         *time.Time `db:"date_adjusted"`
	ItemID               *string    `db:"item_id"`
	ItemTitle            *string    `db:"item_title"`
	Status               *string    `db:"status"`
	Quantity             *float64   `db:"quantity"`
	UnitPrice            *float64   `db:"unit_price"`
	TotalAmount          *float64   `db:"total_amount"`
	MLUserID             *string    `db:"ml_user_id"`
	SellerSKU            *string    `db:"seller_sku"`
	UnitCost             *float64   `db:"custo_unitario"`
	QuantitySKU          *float64   `db:"quantity_sku"`
	MLFee                *float64   `db:"ml_fee"`
	Level1               *string    `db:"level1"`
	Level2               *string    `db:"level2"`
	FreightAdjust        *float64   `db:"frete_adjust"`
	ShipmentStatus       *string    `db:"shipment_status"`
	ShipmentSubstatus    *string    `db:"shipment_substatus"`
	ShipmentLogisticType *string    `db:"shipment_logistic_type"`
	ShipmentReceiverName *string    `db:"shipment_receiver_name"`
	ShipmentDeliverySLA  *time.Time `db:"shipment_delivery_sla"`
	Nickname             *string    `db:"nickname"`
}

func (r pgSaleRow) toSale() sales.Sale {
	rec := SaleRecord{
		OrderID:              r.OrderID,
		DateAdjusted:         r.DateAdjusted,
		ItemID:               lo.FromPtr(r.ItemID),
		ItemTitle:            lo.FromPtr(r.ItemTitle),
		Status:               lo.FromPtr(r.Status),
		Quantity:             r.Quantity,
		UnitPrice:            lo.FromPtr(r.UnitPrice),
		TotalAmount:          lo.FromPtr(r.TotalAmount),
		MLUserID:             lo.FromPtr(r.MLUserID),
		SellerSKU:            r.SellerSKU,
		UnitCost:             r.UnitCost,
		QuantitySKU:          r.QuantitySKU,
		MLFee:                r.MLFee,
		Level1:               r.Level1,
		Level2:               r.Level2,
		FreightAdjust:        r.FreightAdjust,
		ShipmentStatus:       lo.FromPtr(r.ShipmentStatus),
		ShipmentSubstatus:    lo.FromPtr(r.ShipmentSubstatus),
		ShipmentLogisticType: lo.FromPtr(r.ShipmentLogisticType),
		ShipmentReceiverName: lo.FromPtr(r.ShipmentReceiverName),
		ShipmentDeliverySLA:  r.ShipmentDeliverySLA,
	}
	return rec.ToSale(lo.FromPtr(r.Nickname))
}

// PostgresSource reads sales from the shared Postgres database the
// marketplace sync writes to.
type PostgresSource struct {
	db *sqlx.DB
}

// OpenPostgres connects and configures the pool.
func OpenPostgres(ctx context.Context, dsn string, maxOpen, maxIdle int) (*PostgresSource, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	db.SetConnMaxLifetime(5 * time.Minute)
	return NewPostgresSource(db), nil
}

// NewPostgresSource wraps an existing handle.
func NewPostgresSource(db *sqlx.DB) *PostgresSource {
	return &PostgresSource{db: db}
}

func salesQuery(accountID string) (string, []any) {
	q := "SELECT" + pgSalesColumns + `
	FROM sales s
	LEFT JOIN user_tokens u ON s.ml_user_id = u.ml_user_id`
	var args []any
	if accountID != "" {
		q += "\n\tWHERE s.ml_user_id = $1"
		args = append(args, accountID)
	}
	return q + "\n\tORDER BY s.date_adjusted DESC", args
}

// ListSales validates the schema, then loads the joined rows.
func (p *PostgresSource) ListSales(ctx context.Context, accountID string) ([]sales.Sale, error) {
	var columns []string
	err := p.db.SelectContext(ctx, &columns,
		`SELECT column_name FROM information_schema.columns WHERE table_name = 'sales'`)
	if err != nil {
		return nil, fmt.Errorf("error reading sales schema: %w", err)
	}
	if err := sales.ValidateColumns(columns); err != nil {
		return nil, err
	}

	q, args := salesQuery(accountID)
	var rows []pgSaleRow
	if err := p.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, fmt.Errorf("error fetching sales: %w", err)
	}
	return lo.Map(rows, func(r pgSaleRow, _ int) sales.Sale { return r.toSale() }), nil
}

// ListAccounts returns the connected accounts ordered by nickname.
func (p *PostgresSource) ListAccounts(ctx context.Context) ([]sales.Account, error) {
	var rows []pgAccountRow
	if err := p.db.SelectContext(ctx, &rows,
		`SELECT ml_user_id, nickname FROM user_tokens ORDER BY nickname`); err != nil {
		return nil, fmt.Errorf("error fetching accounts: %w", err)
	}
	return lo.Map(rows, func(r pgAccountRow, _ int) sales.Account {
		return sales.Account{AccountID: r.MLUserID, Nickname: lo.FromPtr(r.Nickname)}
	}), nil
}

type pgAccountRow struct {
	MLUserID string  `db:"ml_user_id"`
	Nickname *string `db:"nickname"`
}

// PingContext checks connectivity.
func (p *PostgresSource) PingContext(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

// Close releases the pool.
func (p *PostgresSource) Close() error {
	return p.db.Close()
}
