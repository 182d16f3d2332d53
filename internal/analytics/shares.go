package analytics

import (
	"sort"

	"cyberdock/internal/format"
	"cyberdock/internal/sales"
)

// DefaultPalette is the sequential palette accounts are colored from.
var DefaultPalette = []string{
	"#4b2991",
	"#872ca2",
	"#c0369d",
	"#ea4f88",
	"#fa7876",
	"#f6a97a",
	"#edd9a3",
}

// Share is one account's part of a metric.
type Share struct {
	Account string  `json:"account"`
	Value   float64 `json:"value"`
	Share   float64 `json:"share"`
	Color   string  `json:"color"`
	Label   string  `json:"label"`
}

type accountTotal struct {
	name  string
	value float64
}

func totalsByAccount(records []sales.Sale, m Measure) []accountTotal {
	index := map[string]int{}
	var totals []accountTotal
	for _, s := range records {
		name := s.AccountName()
		i, ok := index[name]
		if !ok {
			i = len(totals)
			index[name] = i
			totals = append(totals, accountTotal{name: name})
		}
		totals[i].value += m.Of(s)
	}
	sort.SliceStable(totals, func(i, j int) bool {
		if totals[i].value != totals[j].value {
			return totals[i].value > totals[j].value
		}
		return totals[i].name < totals[j].name
	})
	return totals
}

// ColorMap assigns palette colors to accounts by descending revenue,
// cycling when there are more accounts than colors.
func ColorMap(records []sales.Sale, palette []string) map[string]string {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	colors := map[string]string{}
	for i, t := range totalsByAccount(records, MeasureRevenue) {
		colors[t.name] = palette[i%len(palette)]
	}
	return colors
}

// Shares partitions m by account. Shares sum to 1 unless the total is
// zero, in which case every share is zero. Colors come from the same map
// the series is drawn with; a nil map is built from records.
func Shares(records []sales.Sale, m Measure, colors map[string]string) []Share {
	totals := totalsByAccount(records, m)
	if colors == nil {
		colors = ColorMap(records, nil)
	}

	var sum float64
	for _, t := range totals {
		sum += t.value
	}

	shares := make([]Share, 0, len(totals))
	for _, t := range totals {
		var ratio float64
		if sum != 0 {
			ratio = t.value / sum
		}
		shares = append(shares, Share{
			Account: t.name,
			Value:   t.value,
			Share:   ratio,
			Color:   colors[t.name],
			Label:   shareLabel(ratio, t.value, m),
		})
	}
	return shares
}

func shareLabel(ratio, value float64, m Measure) string {
	var formatted string
	switch m {
	case MeasureOrders:
		formatted = format.Orders(value)
	case MeasureUnits:
		formatted = format.Units(value)
	default:
		formatted = format.BRL(value)
	}
	return format.Percent(ratio) + " (" + formatted + ")"
}
