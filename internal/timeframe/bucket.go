package timeframe

import (
	"fmt"
	"time"
)

// maxDomainPoints guards against runaway domains from bad input.
const maxDomainPoints = 20000

// BucketKey identifies one time bucket. Value is the stable string key,
// Start the bucket's first instant in the operating location.
type BucketKey struct {
	Granularity Granularity `json:"granularity"`
	Value       string      `json:"value"`
	Start       time.Time   `json:"start"`
}

// TruncateToBucketInTimezone truncates a time to the appropriate bucket boundary in the given timezone
func TruncateToBucketInTimezone(t time.Time, g Granularity, loc *time.Location) time.Time {
	localTime := t.In(loc)
	year, month, day := localTime.Year(), localTime.Month(), localTime.Day()

	switch g {
	case GranularityYear:
		return time.Date(year, 1, 1, 0, 0, 0, 0, loc)
	case GranularityMonth:
		return time.Date(year, month, 1, 0, 0, 0, 0, loc)
	case GranularityFortnight:
		if day <= 15 {
			return time.Date(year, month, 1, 0, 0, 0, 0, loc)
		}
		return time.Date(year, month, 16, 0, 0, 0, 0, loc)
	case GranularityWeek:
		weekday := int(localTime.Weekday())
		if weekday == 0 { // Sunday
			weekday = 7
		}
		return time.Date(year, month, day-(weekday-1), 0, 0, 0, 0, loc)
	case GranularityDay:
		return time.Date(year, month, day, 0, 0, 0, 0, loc)
	case GranularityHour:
		// Stepping back from the instant keeps both passes of a repeated
		// fall-back hour apart.
		sub := time.Duration(localTime.Minute())*time.Minute +
			time.Duration(localTime.Second())*time.Second +
			time.Duration(localTime.Nanosecond())
		return localTime.Add(-sub)
	default:
		return localTime
	}
}

// Bucket assigns t to its bucket. Pure in (t, g, loc).
func Bucket(t time.Time, g Granularity, loc *time.Location) BucketKey {
	start := TruncateToBucketInTimezone(t, g, loc)
	return BucketKey{Granularity: g, Value: formatKey(start, g), Start: start}
}

// Next returns the bucket immediately after k.
func (k BucketKey) Next() BucketKey {
	start := nextStart(k.Start, k.Granularity)
	return BucketKey{Granularity: k.Granularity, Value: formatKey(start, k.Granularity), Start: start}
}

func nextStart(start time.Time, g Granularity) time.Time {
	switch g {
	case GranularityYear:
		return start.AddDate(1, 0, 0)
	case GranularityMonth:
		return start.AddDate(0, 1, 0)
	case GranularityFortnight:
		if start.Day() == 1 {
			return start.AddDate(0, 0, 15)
		}
		return time.Date(start.Year(), start.Month()+1, 1, 0, 0, 0, 0, start.Location())
	case GranularityWeek:
		return start.AddDate(0, 0, 7)
	case GranularityDay:
		return start.AddDate(0, 0, 1)
	default:
		return start.Add(time.Hour)
	}
}

func formatKey(start time.Time, g Granularity) string {
	switch g {
	case GranularityYear:
		return start.Format("2006")
	case GranularityMonth:
		return start.Format("2006-01")
	case GranularityFortnight:
		half := 1
		if start.Day() > 15 {
			half = 2
		}
		return fmt.Sprintf("%s-H%d", start.Format("2006-01"), half)
	case GranularityWeek, GranularityDay:
		return start.Format(DateLayout)
	default:
		// The offset tells the two 01h buckets of a fall-back day apart.
		return start.Format("2006-01-02 15 -0700")
	}
}

// Domain lists every bucket overlapping r, in order and without gaps.
func Domain(r DateRange, g Granularity, loc *time.Location) []BucketKey {
	end := r.End()
	key := Bucket(r.From, g, loc)

	var keys []BucketKey
	for key.Start.Before(end) && len(keys) < maxDomainPoints {
		keys = append(keys, key)
		key = key.Next()
	}
	return keys
}

// EffectiveGranularity switches to hourly buckets for single-day ranges.
func EffectiveGranularity(r DateRange, requested Granularity) Granularity {
	if r.SingleDay() {
		return GranularityHour
	}
	if requested == "" {
		return GranularityDay
	}
	return requested
}

// HourDomain is the 0..23 hour-of-day axis.
func HourDomain() []string {
	hours := make([]string, 24)
	for h := range hours {
		hours[h] = fmt.Sprintf("%02d", h)
	}
	return hours
}
