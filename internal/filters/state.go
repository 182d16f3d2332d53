package filters

import (
	"fmt"
	"time"

	"github.com/samber/lo"

	"cyberdock/internal/sales"
	"cyberdock/internal/timeframe"
)

// State is the caller-owned filter selection for the sales screens.
// Selections are keyed by dimension; an empty selection leaves the
// dimension unfiltered.
type State struct {
	Period     timeframe.RangeLabel
	Custom     *timeframe.DateRange
	Status     string
	Selections map[Dimension][]string
}

// Selected returns the selection for d, nil when unset.
func (s State) Selected(d Dimension) []string {
	return s.Selections[d]
}

func statusSelection(status string) []string {
	if status == "" || status == sales.AllStatuses {
		return nil
	}
	return []string{status}
}

// Result is the outcome of a sales cascade.
type Result struct {
	Records []sales.Sale
	Range   timeframe.DateRange
	Bounds  Bounds
	Options map[Dimension][]string
	// IsToday is true when the resolved range is exactly the operating date.
	IsToday bool
	// Undated counts records dropped by the period stage for lacking a timestamp.
	Undated int
}

// DateBounds returns the min and max sale dates in loc, ignoring undated records.
func DateBounds(records []sales.Sale, loc *time.Location) Bounds {
	return boundsOf(records, func(s sales.Sale) (time.Time, bool) { return s.Date(loc) })
}

// DeadlineBounds returns the min and max shipment deadline dates in loc.
func DeadlineBounds(records []sales.Sale, loc *time.Location) Bounds {
	return boundsOf(records, func(s sales.Sale) (time.Time, bool) { return s.DeadlineDate(loc) })
}

func boundsOf(records []sales.Sale, get func(sales.Sale) (time.Time, bool)) Bounds {
	var b Bounds
	for _, s := range records {
		d, ok := get(s)
		if !ok {
			continue
		}
		if b.Min.IsZero() || d.Before(b.Min) {
			b.Min = d
		}
		if b.Max.IsZero() || d.After(b.Max) {
			b.Max = d
		}
	}
	return b
}

// Cascade runs the dashboard and report stage order: accounts, period,
// status, level1, level2. Period bounds come from the account-filtered set.
func Cascade(records []sales.Sale, state State, today time.Time, loc *time.Location) (Result, error) {
	var r Resolver

	accounts := r.Apply(records, []Stage{
		{Dimension: DimensionAccount, Selected: state.Selected(DimensionAccount)},
	})

	bounds := DateBounds(accounts.Records, loc)
	period, err := ResolveQuickPeriod(state.Period, today, bounds, state.Custom)
	if err != nil {
		return Result{}, fmt.Errorf("error resolving period: %w", err)
	}

	undated := lo.CountBy(accounts.Records, func(s sales.Sale) bool { return s.DateAdjusted == nil })

	rest := r.Apply(accounts.Records, []Stage{
		{Match: inRange(period, loc)},
		{Dimension: DimensionStatus, Selected: statusSelection(state.Status)},
		{Dimension: DimensionLevel1, Selected: state.Selected(DimensionLevel1)},
		{Dimension: DimensionLevel2, Selected: state.Selected(DimensionLevel2)},
	})

	options := rest.Options
	options[DimensionAccount] = accounts.Options[DimensionAccount]

	return Result{
		Records: rest.Records,
		Range:   period,
		Bounds:  bounds,
		Options: options,
		IsToday: period.SingleDay() && period.From.Equal(today),
		Undated: undated,
	}, nil
}

func inRange(r timeframe.DateRange, loc *time.Location) func(sales.Sale) bool {
	return func(s sales.Sale) bool {
		d, ok := s.Date(loc)
		return ok && r.Contains(d)
	}
}

// Dispatch filters on whether a dispatch deadline is known.
type Dispatch string

const (
	DispatchAll     Dispatch = "all"
	DispatchWith    Dispatch = "with"
	DispatchWithout Dispatch = "without"
)

// ParseDispatch validates a dispatch filter value. Empty means all.
func ParseDispatch(s string) (Dispatch, error) {
	switch d := Dispatch(s); d {
	case "":
		return DispatchAll, nil
	case DispatchAll, DispatchWith, DispatchWithout:
		return d, nil
	default:
		return "", fmt.Errorf("unknown dispatch filter: %s", s)
	}
}

// ShipmentState is the caller-owned selection for the expedition screen.
type ShipmentState struct {
	// SaleRange narrows by sale date; nil keeps the whole data span.
	SaleRange      *timeframe.DateRange
	DeadlinePeriod timeframe.RangeLabel
	DeadlineCustom *timeframe.DateRange
	Status         string
	Dispatch       Dispatch
	Selections     map[Dimension][]string
}

// ShipmentResult is the outcome of the expedition cascade.
type ShipmentResult struct {
	Records        []sales.Sale
	SaleRange      timeframe.DateRange
	Deadline       timeframe.DateRange
	HasDeadline    bool
	SaleBounds     Bounds
	DeadlineBounds Bounds
	Options        map[Dimension][]string
	// Undated counts records dropped by the sale date stage for lacking
	// a timestamp.
	Undated int
}

// ShipmentCascade runs the expedition stage order: sale date, deadline,
// account, status, dispatch, shipment type, level1, level2. Records
// without a deadline always pass the deadline stage.
func ShipmentCascade(records []sales.Sale, state ShipmentState, today time.Time, loc *time.Location) (ShipmentResult, error) {
	res := ShipmentResult{
		SaleBounds:     DateBounds(records, loc),
		DeadlineBounds: DeadlineBounds(records, loc),
	}

	var stages []Stage

	if !res.SaleBounds.IsZero() {
		saleRange, err := resolveCustom(res.SaleBounds, state.SaleRange)
		if err != nil {
			return ShipmentResult{}, fmt.Errorf("error resolving sale period: %w", err)
		}
		res.SaleRange = saleRange
		res.Undated = lo.CountBy(records, func(s sales.Sale) bool {
			_, ok := s.Date(loc)
			return !ok
		})
		stages = append(stages, Stage{Match: inRange(saleRange, loc)})
	}

	if !res.DeadlineBounds.IsZero() {
		deadline, err := ResolveDeadlinePeriod(state.DeadlinePeriod, today, res.DeadlineBounds, state.DeadlineCustom)
		if err != nil {
			return ShipmentResult{}, fmt.Errorf("error resolving deadline period: %w", err)
		}
		res.Deadline = deadline
		res.HasDeadline = true
		stages = append(stages, Stage{Match: func(s sales.Sale) bool {
			d, ok := s.DeadlineDate(loc)
			return !ok || deadline.Contains(d)
		}})
	}

	stages = append(stages,
		Stage{Dimension: DimensionAccount, Selected: state.Selections[DimensionAccount]},
		Stage{Dimension: DimensionStatus, Selected: statusSelection(state.Status)},
		Stage{Match: dispatchMatch(state.Dispatch)},
		Stage{Dimension: DimensionShipmentType, Selected: state.Selections[DimensionShipmentType]},
		Stage{Dimension: DimensionLevel1, Selected: state.Selections[DimensionLevel1]},
		Stage{Dimension: DimensionLevel2, Selected: state.Selections[DimensionLevel2]},
	)

	out := Resolver{}.Apply(records, stages)
	res.Records = out.Records
	res.Options = out.Options
	return res, nil
}

func dispatchMatch(d Dispatch) func(sales.Sale) bool {
	switch d {
	case DispatchWith:
		return func(s sales.Sale) bool { return s.ShipmentDeliverySLA != nil }
	case DispatchWithout:
		return func(s sales.Sale) bool { return s.ShipmentDeliverySLA == nil }
	default:
		return nil
	}
}
