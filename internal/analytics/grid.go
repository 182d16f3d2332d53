package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"

	"cyberdock/internal/sales"
	"cyberdock/internal/timeframe"
)

// GridKey addresses one cell of a two-dimensional aggregate.
type GridKey struct {
	A string
	B string
}

// Cell is a grid value.
type Cell struct {
	A     string  `json:"a"`
	B     string  `json:"b"`
	Value float64 `json:"value"`
}

// Densify expands a sparse aggregate to every (a, b) of the two domains,
// A-major in domain order. Missing combinations are zero; keys outside
// the domains are ignored.
func Densify(sparse map[GridKey]float64, domainA, domainB []string) []Cell {
	cells := make([]Cell, 0, len(domainA)*len(domainB))
	for _, a := range domainA {
		for _, b := range domainB {
			cells = append(cells, Cell{A: a, B: b, Value: sparse[GridKey{A: a, B: b}]})
		}
	}
	return cells
}

// Grid is a dense date x hour revenue grid.
type Grid struct {
	Dates []string `json:"dates"`
	Cells []Cell   `json:"cells"`
}

// HourlyGrid sums revenue per (date, hour-of-day) over the dates present
// in records, then densifies over all 24 hours.
func HourlyGrid(records []sales.Sale, loc *time.Location) Grid {
	sparse := map[GridKey]float64{}
	for _, s := range records {
		if s.DateAdjusted == nil {
			continue
		}
		local := s.DateAdjusted.In(loc)
		key := GridKey{A: local.Format(timeframe.DateLayout), B: fmt.Sprintf("%02d", local.Hour())}
		sparse[key] += s.TotalAmount
	}

	dates := lo.Uniq(lo.Map(lo.Keys(sparse), func(k GridKey, _ int) string { return k.A }))
	sort.Strings(dates)

	return Grid{Dates: dates, Cells: Densify(sparse, dates, timeframe.HourDomain())}
}
