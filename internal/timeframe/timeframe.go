package timeframe

import (
	"errors"
	"fmt"
	"time"
)

// Granularity is the width of a time bucket.
type Granularity string

const (
	GranularityHour      Granularity = "hour"
	GranularityDay       Granularity = "day"
	GranularityWeek      Granularity = "week"
	GranularityFortnight Granularity = "fortnight"
	GranularityMonth     Granularity = "month"
	GranularityYear      Granularity = "year"
)

// ParseGranularity accepts the API names of the granularities. An empty
// string means daily buckets.
func ParseGranularity(s string) (Granularity, error) {
	switch g := Granularity(s); g {
	case "":
		return GranularityDay, nil
	case GranularityHour, GranularityDay, GranularityWeek, GranularityFortnight, GranularityMonth, GranularityYear:
		return g, nil
	default:
		return "", fmt.Errorf("unknown granularity: %s", s)
	}
}

// RangeLabel represents the available quick period options
type RangeLabel string

const (
	RangeLabelToday       RangeLabel = "today"
	RangeLabelYesterday   RangeLabel = "yesterday"
	RangeLabelTomorrow    RangeLabel = "tomorrow"
	RangeLabelLast7Days   RangeLabel = "last_7_days"
	RangeLabelLast30Days  RangeLabel = "last_30_days"
	RangeLabelNext7Days   RangeLabel = "next_7_days"
	RangeLabelNext30Days  RangeLabel = "next_30_days"
	RangeLabelMonthToDate RangeLabel = "month_to_date"
	RangeLabelYearToDate  RangeLabel = "year_to_date"
	RangeLabelCustom      RangeLabel = "custom"
)

// SalesRangeLabels are offered by the dashboard and report screens, in
// display order. Today is the default.
var SalesRangeLabels = []RangeLabel{
	RangeLabelCustom,
	RangeLabelToday,
	RangeLabelYesterday,
	RangeLabelLast7Days,
	RangeLabelMonthToDate,
	RangeLabelLast30Days,
	RangeLabelYearToDate,
}

// DeadlineRangeLabels are offered by the expedition screen.
var DeadlineRangeLabels = []RangeLabel{
	RangeLabelCustom,
	RangeLabelToday,
	RangeLabelTomorrow,
	RangeLabelYesterday,
	RangeLabelNext7Days,
	RangeLabelMonthToDate,
	RangeLabelNext30Days,
	RangeLabelYearToDate,
}

// ErrUnknownRange is returned for labels outside the offered set.
var ErrUnknownRange = errors.New("unknown period")

// ParseRangeLabel validates s against allowed. Empty means today.
func ParseRangeLabel(s string, allowed []RangeLabel) (RangeLabel, error) {
	if s == "" {
		return RangeLabelToday, nil
	}
	for _, l := range allowed {
		if string(l) == s {
			return l, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownRange, s)
}

type TimeProvider interface {
	Now(loc *time.Location) time.Time
}

// DefaultTimeProvider uses the system clock.
type DefaultTimeProvider struct{}

func (p *DefaultTimeProvider) Now(loc *time.Location) time.Time {
	return time.Now().In(loc)
}

// DateRange is an inclusive range of calendar dates. Both bounds are
// midnight in the same location.
type DateRange struct {
	From time.Time
	To   time.Time
}

// NewDateRange normalizes both bounds to midnight in loc.
func NewDateRange(from, to time.Time, loc *time.Location) (DateRange, error) {
	r := DateRange{From: Midnight(from, loc), To: Midnight(to, loc)}
	if r.From.After(r.To) {
		return DateRange{}, fmt.Errorf("from date %s is after to date %s",
			r.From.Format(DateLayout), r.To.Format(DateLayout))
	}
	return r, nil
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// SingleDay reports whether the range covers exactly one date.
func (r DateRange) SingleDay() bool {
	return r.From.Equal(r.To)
}

// End is the exclusive upper bound of the range.
func (r DateRange) End() time.Time {
	return r.To.AddDate(0, 0, 1)
}

// Contains reports whether t falls on a date inside the range.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.From) && t.Before(r.End())
}

// Days returns the number of dates covered.
func (r DateRange) Days() int {
	n := 0
	for d := r.From; !d.After(r.To); d = d.AddDate(0, 0, 1) {
		n++
	}
	return n
}

func (r DateRange) String() string {
	return r.From.Format(DateLayout) + ".." + r.To.Format(DateLayout)
}

// Midnight truncates t to the start of its date in loc.
func Midnight(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}

// Today returns the current date in loc.
func Today(p TimeProvider, loc *time.Location) time.Time {
	return Midnight(p.Now(loc), loc)
}

// ParseDate parses a YYYY-MM-DD date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d, nil
}

// Clamp bounds d into [lo, hi].
func Clamp(d, lo, hi time.Time) time.Time {
	if d.Before(lo) {
		return lo
	}
	if d.After(hi) {
		return hi
	}
	return d
}
