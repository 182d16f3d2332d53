// Package sales holds the marketplace sale record and its derived measures.
package sales

import "time"

// Sale is one marketplace order line as read from the record source.
// Nullable source columns are pointers; a nil DateAdjusted means the
// timestamp was missing or unparseable.
type Sale struct {
	OrderID      string
	DateAdjusted *time.Time
	AccountID    string
	Nickname     string

	ItemID    string
	ItemTitle string
	SellerSKU *string

	Status      string
	StatusLabel string

	Quantity       *float64
	QuantitySKU    *float64
	UnitPrice      float64
	TotalAmount    float64
	UnitCost       *float64
	MarketplaceFee *float64
	FreightAdjust  *float64

	Level1 *string
	Level2 *string

	ShipmentLogisticType string
	ShipmentDeliverySLA  *time.Time
	ShipmentStatus       string
	ShipmentSubstatus    string
	ShipmentReceiverName string
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}

// Units is quantity times units per SKU.
func (s Sale) Units() float64 {
	return deref(s.Quantity) * deref(s.QuantitySKU)
}

// COGS is the cost of goods sold for the line.
func (s Sale) COGS() float64 {
	return s.Units() * deref(s.UnitCost)
}

// Fee returns the marketplace fee, zero when unknown.
func (s Sale) Fee() float64 {
	return deref(s.MarketplaceFee)
}

// Freight returns the seller-paid freight as a positive amount. The source
// stores it as a negative adjustment.
func (s Sale) Freight() float64 {
	return -deref(s.FreightAdjust)
}

// ContributionMargin is revenue minus fee, freight and COGS.
func (s Sale) ContributionMargin() float64 {
	return s.TotalAmount - s.Fee() - s.Freight() - s.COGS()
}

// Incomplete reports whether the line lacks catalog data needed for costing.
func (s Sale) Incomplete() bool {
	return s.SellerSKU == nil || s.QuantitySKU == nil || s.Level1 == nil ||
		s.Level2 == nil || s.UnitCost == nil
}

// AccountName is the display name used for grouping, falling back to the id.
func (s Sale) AccountName() string {
	if s.Nickname != "" {
		return s.Nickname
	}
	return s.AccountID
}

// ShipmentType is the human label of the logistic type.
func (s Sale) ShipmentType() string {
	return ShipmentLabel(s.ShipmentLogisticType)
}

// Date returns the calendar date of the sale in loc. ok is false when the
// timestamp is missing.
func (s Sale) Date(loc *time.Location) (time.Time, bool) {
	if s.DateAdjusted == nil {
		return time.Time{}, false
	}
	return DateOf(*s.DateAdjusted, loc), true
}

// DeadlineDate returns the shipment deadline as a calendar date in loc.
func (s Sale) DeadlineDate(loc *time.Location) (time.Time, bool) {
	if s.ShipmentDeliverySLA == nil {
		return time.Time{}, false
	}
	return DateOf(*s.ShipmentDeliverySLA, loc), true
}

// DateOf truncates t to midnight in loc.
func DateOf(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Account is a connected marketplace seller account.
type Account struct {
	AccountID string `json:"account_id"`
	Nickname  string `json:"nickname"`
}

// Name is the display name, falling back to the id.
func (a Account) Name() string {
	if a.Nickname != "" {
		return a.Nickname
	}
	return a.AccountID
}

// Ptr is a small helper for building nullable fields.
func Ptr[T any](v T) *T {
	return &v
}
