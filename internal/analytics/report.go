package analytics

import (
	"sort"
	"time"

	"github.com/samber/lo"

	"cyberdock/internal/format"
	"cyberdock/internal/sales"
)

// NoDeadline is shown when a shipment has no dispatch deadline.
const NoDeadline = "—"

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

// DetailRow is one line of the sales report.
type DetailRow struct {
	OrderID     string  `json:"order_id"`
	Account     string  `json:"account"`
	Date        string  `json:"date"`
	Title       string  `json:"title"`
	SKU         string  `json:"sku"`
	Level1      string  `json:"level1"`
	Level2      string  `json:"level2"`
	Quantity    float64 `json:"quantity"`
	Units       float64 `json:"units"`
	Revenue     float64 `json:"revenue"`
	Fee         float64 `json:"fee"`
	Freight     float64 `json:"freight"`
	COGS        float64 `json:"cogs"`
	Margin      float64 `json:"margin"`
	MarginPct   float64 `json:"margin_pct"`
	StatusLabel string  `json:"status"`
}

// DetailRows lists records newest first. Undated records sort last.
func DetailRows(records []sales.Sale, loc *time.Location) []DetailRow {
	sorted := append([]sales.Sale{}, records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].DateAdjusted, sorted[j].DateAdjusted
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})

	return lo.Map(sorted, func(s sales.Sale, _ int) DetailRow {
		row := DetailRow{
			OrderID:     s.OrderID,
			Account:     s.AccountName(),
			Title:       s.ItemTitle,
			SKU:         strOrEmpty(s.SellerSKU),
			Level1:      strOrEmpty(s.Level1),
			Level2:      strOrEmpty(s.Level2),
			Units:       s.Units(),
			Revenue:     s.TotalAmount,
			Fee:         s.Fee(),
			Freight:     s.Freight(),
			COGS:        s.COGS(),
			Margin:      s.ContributionMargin(),
			StatusLabel: s.StatusLabel,
		}
		if s.Quantity != nil {
			row.Quantity = *s.Quantity
		}
		if s.DateAdjusted != nil {
			row.Date = format.DateTime(*s.DateAdjusted, loc)
		}
		if s.TotalAmount != 0 {
			row.MarginPct = row.Margin / s.TotalAmount
		}
		return row
	})
}

// ShipmentRow is one line of the expedition table.
type ShipmentRow struct {
	OrderID      string  `json:"order_id"`
	Receiver     string  `json:"receiver"`
	Account      string  `json:"account"`
	ShipmentType string  `json:"shipment_type"`
	Units        float64 `json:"units"`
	Level1       string  `json:"level1"`
	Deadline     string  `json:"deadline"`
}

// ShipmentRows lists records by units descending.
func ShipmentRows(records []sales.Sale, loc *time.Location) []ShipmentRow {
	rows := lo.Map(records, func(s sales.Sale, _ int) ShipmentRow {
		row := ShipmentRow{
			OrderID:      s.OrderID,
			Receiver:     s.ShipmentReceiverName,
			Account:      s.AccountName(),
			ShipmentType: s.ShipmentType(),
			Units:        s.Units(),
			Level1:       strOrEmpty(s.Level1),
			Deadline:     NoDeadline,
		}
		if d, ok := s.DeadlineDate(loc); ok {
			row.Deadline = format.Date(d)
		}
		return row
	})
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Units > rows[j].Units
	})
	return rows
}

// ShipmentSummary is the expedition KPI pair.
type ShipmentSummary struct {
	Orders int     `json:"orders"`
	Units  float64 `json:"units"`
}

// SummarizeShipments counts distinct orders and sums units.
func SummarizeShipments(records []sales.Sale) ShipmentSummary {
	ids := lo.Uniq(lo.Map(records, func(s sales.Sale, _ int) string { return s.OrderID }))
	return ShipmentSummary{
		Orders: len(ids),
		Units:  lo.SumBy(records, func(s sales.Sale) float64 { return s.Units() }),
	}
}
