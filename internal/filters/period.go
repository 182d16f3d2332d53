package filters

import (
	"errors"
	"fmt"
	"time"

	"cyberdock/internal/timeframe"
)

// ErrNoData is returned when a range must be clamped to data bounds that
// do not exist.
var ErrNoData = errors.New("no dated records to bound the period")

// Bounds is the [Min, Max] date span of the data being filtered.
type Bounds struct {
	Min time.Time
	Max time.Time
}

// IsZero reports whether no dated record contributed to the bounds.
func (b Bounds) IsZero() bool {
	return b.Min.IsZero() && b.Max.IsZero()
}

func (b Bounds) clamp(r timeframe.DateRange) timeframe.DateRange {
	return timeframe.DateRange{
		From: timeframe.Clamp(r.From, b.Min, b.Max),
		To:   timeframe.Clamp(r.To, b.Min, b.Max),
	}
}

// ResolveQuickPeriod turns a sales quick-period label into a date range.
// Custom ranges are clamped into the data bounds; an absent custom range
// covers the whole data span.
func ResolveQuickPeriod(label timeframe.RangeLabel, today time.Time, bounds Bounds, custom *timeframe.DateRange) (timeframe.DateRange, error) {
	switch label {
	case timeframe.RangeLabelToday:
		d := today
		if !bounds.IsZero() && bounds.Max.Before(today) {
			d = bounds.Max
		}
		return timeframe.DateRange{From: d, To: d}, nil
	case timeframe.RangeLabelYesterday:
		d := today.AddDate(0, 0, -1)
		return timeframe.DateRange{From: d, To: d}, nil
	case timeframe.RangeLabelLast7Days:
		return timeframe.DateRange{From: today.AddDate(0, 0, -7), To: today}, nil
	case timeframe.RangeLabelLast30Days:
		return timeframe.DateRange{From: today.AddDate(0, 0, -30), To: today}, nil
	case timeframe.RangeLabelMonthToDate:
		return timeframe.DateRange{From: firstOfMonth(today), To: today}, nil
	case timeframe.RangeLabelYearToDate:
		return timeframe.DateRange{From: firstOfYear(today), To: today}, nil
	case timeframe.RangeLabelCustom:
		return resolveCustom(bounds, custom)
	default:
		return timeframe.DateRange{}, fmt.Errorf("%w: %s", timeframe.ErrUnknownRange, label)
	}
}

// ResolveDeadlinePeriod resolves the expedition screen's dispatch-deadline
// presets. Every preset is clamped into the deadline bounds.
func ResolveDeadlinePeriod(label timeframe.RangeLabel, today time.Time, bounds Bounds, custom *timeframe.DateRange) (timeframe.DateRange, error) {
	if bounds.IsZero() {
		return timeframe.DateRange{}, ErrNoData
	}

	var r timeframe.DateRange
	switch label {
	case timeframe.RangeLabelToday:
		d := today
		if bounds.Max.Before(today) {
			d = bounds.Max
		}
		r = timeframe.DateRange{From: d, To: d}
	case timeframe.RangeLabelTomorrow:
		d := today.AddDate(0, 0, 1)
		r = timeframe.DateRange{From: d, To: d}
	case timeframe.RangeLabelYesterday:
		d := today.AddDate(0, 0, -1)
		r = timeframe.DateRange{From: d, To: d}
	case timeframe.RangeLabelNext7Days:
		r = timeframe.DateRange{From: today, To: today.AddDate(0, 0, 6)}
	case timeframe.RangeLabelNext30Days:
		r = timeframe.DateRange{From: today, To: today.AddDate(0, 0, 29)}
	case timeframe.RangeLabelMonthToDate:
		r = timeframe.DateRange{From: firstOfMonth(today), To: today}
	case timeframe.RangeLabelYearToDate:
		r = timeframe.DateRange{From: firstOfYear(today), To: today}
	case timeframe.RangeLabelCustom:
		return resolveCustom(bounds, custom)
	default:
		return timeframe.DateRange{}, fmt.Errorf("%w: %s", timeframe.ErrUnknownRange, label)
	}
	return bounds.clamp(r), nil
}

func resolveCustom(bounds Bounds, custom *timeframe.DateRange) (timeframe.DateRange, error) {
	if bounds.IsZero() {
		if custom == nil {
			return timeframe.DateRange{}, ErrNoData
		}
		return *custom, nil
	}
	if custom == nil {
		return timeframe.DateRange{From: bounds.Min, To: bounds.Max}, nil
	}
	r := bounds.clamp(*custom)
	if r.From.After(r.To) {
		return timeframe.DateRange{}, fmt.Errorf("custom period %s is empty after clamping", r)
	}
	return r, nil
}

func firstOfMonth(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location())
}

func firstOfYear(d time.Time) time.Time {
	return time.Date(d.Year(), 1, 1, 0, 0, 0, 0, d.Location())
}
