package testsupport

import (
	"time"

	"cyberdock/internal/sales"
)

// FixedTimeProvider pins "now" for tests.
type FixedTimeProvider struct {
	FixedTime time.Time
}

func (p *FixedTimeProvider) Now(loc *time.Location) time.Time {
	return p.FixedTime.In(loc)
}

// SaleOption customizes a fixture sale.
type SaleOption func(*sales.Sale)

// NewSale builds a paid sale of one unit on account "LOJA A".
func NewSale(orderID string, at time.Time, amount float64, opts ...SaleOption) sales.Sale {
	ts := at
	s := sales.Sale{
		OrderID:              orderID,
		DateAdjusted:         &ts,
		AccountID:            "1001",
		Nickname:             "LOJA A",
		ItemID:               "MLB" + orderID,
		ItemTitle:            "Item " + orderID,
		Status:               "paid",
		StatusLabel:          "Pago",
		Quantity:             sales.Ptr(1.0),
		QuantitySKU:          sales.Ptr(1.0),
		UnitPrice:            amount,
		TotalAmount:          amount,
		ShipmentLogisticType: "fulfillment",
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func WithAccount(nickname string) SaleOption {
	return func(s *sales.Sale) {
		s.Nickname = nickname
		s.AccountID = "id-" + nickname
	}
}

func WithUnits(quantity, perSKU float64) SaleOption {
	return func(s *sales.Sale) {
		s.Quantity = sales.Ptr(quantity)
		s.QuantitySKU = sales.Ptr(perSKU)
	}
}

func WithLevels(level1, level2 string) SaleOption {
	return func(s *sales.Sale) {
		s.Level1 = sales.Ptr(level1)
		s.Level2 = sales.Ptr(level2)
	}
}

func WithLevel1(level1 string) SaleOption {
	return func(s *sales.Sale) {
		s.Level1 = sales.Ptr(level1)
	}
}

func WithStatus(raw string) SaleOption {
	return func(s *sales.Sale) {
		s.Status = raw
		s.StatusLabel = sales.StatusLabel(raw)
	}
}

func WithDeadline(at time.Time) SaleOption {
	return func(s *sales.Sale) {
		ts := at
		s.ShipmentDeliverySLA = &ts
	}
}

func WithLogistic(raw string) SaleOption {
	return func(s *sales.Sale) {
		s.ShipmentLogisticType = raw
	}
}

func WithCosts(unitCost, fee, freightAdjust float64) SaleOption {
	return func(s *sales.Sale) {
		s.UnitCost = sales.Ptr(unitCost)
		s.MarketplaceFee = sales.Ptr(fee)
		s.FreightAdjust = sales.Ptr(freightAdjust)
	}
}

func WithSKU(sku string) SaleOption {
	return func(s *sales.Sale) {
		s.SellerSKU = sales.Ptr(sku)
	}
}

func WithReceiver(name string) SaleOption {
	return func(s *sales.Sale) {
		s.ShipmentReceiverName = name
	}
}

// Undated clears the sale timestamp.
func Undated() SaleOption {
	return func(s *sales.Sale) {
		s.DateAdjusted = nil
	}
}
