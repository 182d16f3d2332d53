package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/sales"
)

func TestSalesQuery(t *testing.T) {
	q, args := salesQuery("")
	assert.NotContains(t, q, "WHERE")
	assert.Empty(t, args)
	assert.Contains(t, q, "LEFT JOIN user_tokens u ON s.ml_user_id = u.ml_user_id")
	assert.Contains(t, q, "ORDER BY s.date_adjusted DESC")

	q, args = salesQuery("1001")
	assert.Contains(t, q, "WHERE s.ml_user_id = $1")
	assert.Equal(t, []any{"1001"}, args)
}

func TestPgSaleRowNullColumns(t *testing.T) {
	at := time.Date(2024, 3, 10, 14, 0, 0, 0, time.UTC)
	row := pgSaleRow{
		OrderID:              "A1",
		DateAdjusted:         &at,
		Status:               sales.Ptr("paid"),
		Quantity:             sales.Ptr(2.0),
		QuantitySKU:          sales.Ptr(3.0),
		TotalAmount:          sales.Ptr(90.0),
		MLUserID:             sales.Ptr("1001"),
		ShipmentLogisticType: sales.Ptr("fulfillment"),
	}

	s := row.toSale()
	assert.Equal(t, "1001", s.AccountID)
	assert.Empty(t, s.Nickname)
	assert.Equal(t, "1001", s.AccountName())
	assert.Equal(t, "Pago", s.StatusLabel)
	assert.InDelta(t, 6.0, s.Units(), 1e-9)
	assert.InDelta(t, 90.0, s.TotalAmount, 1e-9)
	assert.Zero(t, s.UnitPrice)
	assert.Nil(t, s.Level1)
	assert.True(t, s.Incomplete())
	require.NotNil(t, s.DateAdjusted)

	row.Nickname = sales.Ptr("LOJA A")
	assert.Equal(t, "LOJA A", row.toSale().AccountName())
}
