package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"cyberdock/internal/sales"
	"cyberdock/internal/timeframe"
)

// Summary holds the KPI strip of the dashboard.
type Summary struct {
	Orders         int     `json:"orders"`
	Units          float64 `json:"units"`
	Revenue        float64 `json:"revenue"`
	Freight        float64 `json:"freight"`
	Fee            float64 `json:"fee"`
	COGS           float64 `json:"cogs"`
	Margin         float64 `json:"margin"`
	TicketPerOrder float64 `json:"ticket_per_order"`
	TicketPerUnit  float64 `json:"ticket_per_unit"`
	FreightPct     float64 `json:"freight_pct"`
	FeePct         float64 `json:"fee_pct"`
	COGSPct        float64 `json:"cogs_pct"`
	MarginPct      float64 `json:"margin_pct"`
	// Incomplete counts lines missing SKU, unit cost or hierarchy data.
	Incomplete int `json:"incomplete"`
}

func ratio(num, den decimal.Decimal) float64 {
	if den.IsZero() {
		return 0
	}
	return num.Div(den).InexactFloat64()
}

// Summarize computes the KPIs. Money is accumulated in decimal so the
// totals do not drift with the number of lines.
func Summarize(records []sales.Sale) Summary {
	revenue, freight, fee, cogs, units := decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero, decimal.Zero
	incomplete := 0

	for _, s := range records {
		revenue = revenue.Add(decimal.NewFromFloat(s.TotalAmount))
		freight = freight.Add(decimal.NewFromFloat(s.Freight()))
		fee = fee.Add(decimal.NewFromFloat(s.Fee()))
		cogs = cogs.Add(decimal.NewFromFloat(s.COGS()))
		units = units.Add(decimal.NewFromFloat(s.Units()))
		if s.Incomplete() {
			incomplete++
		}
	}

	margin := revenue.Sub(freight).Sub(fee).Sub(cogs)
	orders := decimal.NewFromInt(int64(len(records)))

	return Summary{
		Orders:         len(records),
		Units:          units.InexactFloat64(),
		Revenue:        revenue.InexactFloat64(),
		Freight:        freight.InexactFloat64(),
		Fee:            fee.InexactFloat64(),
		COGS:           cogs.InexactFloat64(),
		Margin:         margin.InexactFloat64(),
		TicketPerOrder: ratio(revenue, orders),
		TicketPerUnit:  ratio(revenue, units),
		FreightPct:     ratio(freight, revenue),
		FeePct:         ratio(fee, revenue),
		COGSPct:        ratio(cogs, revenue),
		MarginPct:      ratio(margin, revenue),
		Incomplete:     incomplete,
	}
}

var weekdayOrder = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Segunda",
	time.Tuesday:   "Terça",
	time.Wednesday: "Quarta",
	time.Thursday:  "Quinta",
	time.Friday:    "Sexta",
	time.Saturday:  "Sábado",
	time.Sunday:    "Domingo",
}

// WeekdayAverage is the mean daily revenue for one weekday.
type WeekdayAverage struct {
	Weekday string  `json:"weekday"`
	Days    int     `json:"days"`
	Average float64 `json:"average"`
}

// WeekdayAverages averages per-date revenue by weekday, Monday first.
// Weekdays with no sales have zero days and a zero average.
func WeekdayAverages(records []sales.Sale, loc *time.Location) []WeekdayAverage {
	daily := map[string]float64{}
	weekdays := map[string]time.Weekday{}
	for _, s := range records {
		d, ok := s.Date(loc)
		if !ok {
			continue
		}
		key := d.Format(timeframe.DateLayout)
		daily[key] += s.TotalAmount
		weekdays[key] = d.Weekday()
	}

	sums := map[time.Weekday]float64{}
	counts := map[time.Weekday]int{}
	for key, total := range daily {
		wd := weekdays[key]
		sums[wd] += total
		counts[wd]++
	}

	out := make([]WeekdayAverage, 0, len(weekdayOrder))
	for _, wd := range weekdayOrder {
		avg := 0.0
		if counts[wd] > 0 {
			avg = sums[wd] / float64(counts[wd])
		}
		out = append(out, WeekdayAverage{Weekday: weekdayLabels[wd], Days: counts[wd], Average: avg})
	}
	return out
}
