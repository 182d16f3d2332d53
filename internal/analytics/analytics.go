// Package analytics aggregates a filtered sale collection into the
// figures the sales screens show:
//   - series.go: temporal bucketing per granularity, optionally per account
//   - grid.go: dense date x hour grids
//   - profile.go: cumulative intraday revenue profile
//   - rollup.go: grouped unit and order counts with a total row
//   - shares.go: per-account shares with stable colors and labels
//   - summary.go: KPI totals and weekday averages
//   - report.go: detail and expedition rows
//
// Every function is pure over its input slice.
package analytics

import (
	"fmt"

	"cyberdock/internal/sales"
)

// Measure selects the quantity summed per record.
type Measure string

const (
	MeasureRevenue Measure = "revenue"
	MeasureOrders  Measure = "orders"
	MeasureUnits   Measure = "units"
)

// ParseMeasure validates a measure name. Empty means revenue.
func ParseMeasure(s string) (Measure, error) {
	switch m := Measure(s); m {
	case "":
		return MeasureRevenue, nil
	case MeasureRevenue, MeasureOrders, MeasureUnits:
		return m, nil
	default:
		return "", fmt.Errorf("unknown measure: %s", s)
	}
}

// Of returns the contribution of s to the measure.
func (m Measure) Of(s sales.Sale) float64 {
	switch m {
	case MeasureOrders:
		return 1
	case MeasureUnits:
		return s.Units()
	default:
		return s.TotalAmount
	}
}
