// Package filters narrows a sale collection through ordered, cascading
// facet stages and resolves the quick-period presets.
package filters

import (
	"sort"

	"github.com/samber/lo"

	"cyberdock/internal/sales"
)

// Dimension is a stable identifier for a categorical field of a sale.
type Dimension string

const (
	DimensionAccount      Dimension = "account"
	DimensionStatus       Dimension = "status"
	DimensionLevel1       Dimension = "level1"
	DimensionLevel2       Dimension = "level2"
	DimensionShipmentType Dimension = "shipment_type"
)

// Dimensions lists every dimension a selection may be keyed by.
var Dimensions = []Dimension{
	DimensionAccount,
	DimensionStatus,
	DimensionLevel1,
	DimensionLevel2,
	DimensionShipmentType,
}

// Value extracts the categorical value of d from s. ok is false when the
// value is null.
func Value(s sales.Sale, d Dimension) (string, bool) {
	switch d {
	case DimensionAccount:
		name := s.AccountName()
		return name, name != ""
	case DimensionStatus:
		if s.StatusLabel != "" {
			return s.StatusLabel, true
		}
		label := sales.StatusLabel(s.Status)
		return label, label != ""
	case DimensionLevel1:
		if s.Level1 == nil {
			return "", false
		}
		return *s.Level1, true
	case DimensionLevel2:
		if s.Level2 == nil {
			return "", false
		}
		return *s.Level2, true
	case DimensionShipmentType:
		return s.ShipmentType(), true
	default:
		return "", false
	}
}

// Options returns the sorted distinct non-null values of d in records.
func Options(records []sales.Sale, d Dimension) []string {
	values := lo.FilterMap(records, func(s sales.Sale, _ int) (string, bool) {
		return Value(s, d)
	})
	opts := lo.Uniq(values)
	sort.Strings(opts)
	return opts
}

// Stage is one step of a cascade. A stage with a Dimension publishes the
// options of that dimension as seen by its input. Selected restricts the
// dimension to a set of values; Match is an arbitrary predicate. A stage
// with neither is a no-op.
type Stage struct {
	Dimension Dimension
	Selected  []string
	Match     func(sales.Sale) bool
}

func (st Stage) active() bool {
	return st.Match != nil || len(st.Selected) > 0
}

func (st Stage) keep(s sales.Sale) bool {
	if st.Match != nil && !st.Match(s) {
		return false
	}
	if len(st.Selected) == 0 {
		return true
	}
	v, ok := Value(s, st.Dimension)
	return ok && lo.Contains(st.Selected, v)
}

// Outcome is the result of applying a stage list.
type Outcome struct {
	Records []sales.Sale
	Options map[Dimension][]string
}

// Resolver applies stages in order. It holds no state between calls.
type Resolver struct{}

// Apply filters records through stages. Options for stage i are computed
// from the output of stage i-1, so every offered option matches at least
// one record at that point of the cascade.
func (Resolver) Apply(records []sales.Sale, stages []Stage) Outcome {
	out := Outcome{Records: records, Options: map[Dimension][]string{}}
	for _, st := range stages {
		if st.Dimension != "" {
			out.Options[st.Dimension] = Options(out.Records, st.Dimension)
		}
		if !st.active() {
			continue
		}
		out.Records = lo.Filter(out.Records, func(s sales.Sale, _ int) bool {
			return st.keep(s)
		})
	}
	return out
}
