package analytics

import (
	"fmt"
	"sort"

	"cyberdock/internal/filters"
	"cyberdock/internal/sales"
)

// TotalLabel names the trailing row of a rollup.
const TotalLabel = "Total"

// RollupSort orders the group rows of a rollup.
type RollupSort string

const (
	RollupSortNone      RollupSort = ""
	RollupSortUnitsDesc RollupSort = "units_desc"
	RollupSortLabelAsc  RollupSort = "label_asc"
)

// ParseRollupSort validates a sort option.
func ParseRollupSort(s string) (RollupSort, error) {
	switch r := RollupSort(s); r {
	case RollupSortNone, RollupSortUnitsDesc, RollupSortLabelAsc:
		return r, nil
	default:
		return "", fmt.Errorf("unknown rollup sort: %s", s)
	}
}

// RollupRow is one group of a rollup.
type RollupRow struct {
	Label  string  `json:"label"`
	Units  float64 `json:"units"`
	Orders int     `json:"orders"`
}

// RollupTable is a grouped aggregate plus a total row equal to the
// column sums of Rows.
type RollupTable struct {
	Dimension filters.Dimension `json:"dimension"`
	Rows      []RollupRow       `json:"rows"`
	Total     RollupRow         `json:"total"`
}

// WithTotal returns the rows followed by the total row.
func (t RollupTable) WithTotal() []RollupRow {
	return append(append([]RollupRow{}, t.Rows...), t.Total)
}

// Rollup groups records by dimension d, summing units and counting
// distinct order ids. Records with a null key are left out.
func Rollup(records []sales.Sale, d filters.Dimension, order RollupSort) RollupTable {
	table := RollupTable{Dimension: d, Rows: []RollupRow{}, Total: RollupRow{Label: TotalLabel}}
	index := map[string]int{}
	orders := map[string]map[string]struct{}{}

	for _, s := range records {
		label, ok := filters.Value(s, d)
		if !ok {
			continue
		}
		i, seen := index[label]
		if !seen {
			i = len(table.Rows)
			index[label] = i
			table.Rows = append(table.Rows, RollupRow{Label: label})
			orders[label] = map[string]struct{}{}
		}
		table.Rows[i].Units += s.Units()
		orders[label][s.OrderID] = struct{}{}
	}

	for i := range table.Rows {
		table.Rows[i].Orders = len(orders[table.Rows[i].Label])
		table.Total.Units += table.Rows[i].Units
		table.Total.Orders += table.Rows[i].Orders
	}

	switch order {
	case RollupSortUnitsDesc:
		sort.SliceStable(table.Rows, func(i, j int) bool {
			return table.Rows[i].Units > table.Rows[j].Units
		})
	case RollupSortLabelAsc:
		sort.SliceStable(table.Rows, func(i, j int) bool {
			return table.Rows[i].Label < table.Rows[j].Label
		})
	}
	return table
}
