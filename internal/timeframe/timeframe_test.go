// Package timeframe_test contains tests for the timeframe package
package timeframe_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/timeframe"
)

// MockTimeProvider implements the TimeProvider interface for testing
type MockTimeProvider struct {
	FixedTime time.Time
}

func (m *MockTimeProvider) Now(loc *time.Location) time.Time {
	return m.FixedTime.In(loc)
}

func saoPaulo(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)
	return loc
}

func date(y int, m time.Month, d int, loc *time.Location) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

func TestTodayUsesOperatingTimezone(t *testing.T) {
	loc := saoPaulo(t)
	// 02:00 UTC on the 11th is 23:00 on the 10th in Sao Paulo.
	provider := &MockTimeProvider{FixedTime: time.Date(2024, 3, 11, 2, 0, 0, 0, time.UTC)}

	assert.Equal(t, date(2024, 3, 10, loc), timeframe.Today(provider, loc))
}

func TestBucketAssignment(t *testing.T) {
	loc := time.UTC
	ts := time.Date(2024, 3, 16, 14, 35, 0, 0, loc) // Saturday

	testCases := []struct {
		g         timeframe.Granularity
		wantValue string
		wantStart time.Time
	}{
		{timeframe.GranularityHour, "2024-03-16 14 +0000", time.Date(2024, 3, 16, 14, 0, 0, 0, loc)},
		{timeframe.GranularityDay, "2024-03-16", date(2024, 3, 16, loc)},
		{timeframe.GranularityWeek, "2024-03-11", date(2024, 3, 11, loc)},
		{timeframe.GranularityFortnight, "2024-03-H2", date(2024, 3, 16, loc)},
		{timeframe.GranularityMonth, "2024-03", date(2024, 3, 1, loc)},
		{timeframe.GranularityYear, "2024", date(2024, 1, 1, loc)},
	}

	for _, tc := range testCases {
		t.Run(string(tc.g), func(t *testing.T) {
			key := timeframe.Bucket(ts, tc.g, loc)
			assert.Equal(t, tc.g, key.Granularity)
			assert.Equal(t, tc.wantValue, key.Value)
			assert.True(t, tc.wantStart.Equal(key.Start), "start %s", key.Start)
		})
	}
}

func TestFortnightSplitsOnTheFifteenth(t *testing.T) {
	loc := time.UTC
	assert.Equal(t, "2024-02-H1", timeframe.Bucket(time.Date(2024, 2, 15, 23, 59, 0, 0, loc), timeframe.GranularityFortnight, loc).Value)
	assert.Equal(t, "2024-02-H2", timeframe.Bucket(time.Date(2024, 2, 16, 0, 0, 0, 0, loc), timeframe.GranularityFortnight, loc).Value)
	assert.Equal(t, "2024-02-H2", timeframe.Bucket(time.Date(2024, 2, 29, 12, 0, 0, 0, loc), timeframe.GranularityFortnight, loc).Value)

	next := timeframe.Bucket(time.Date(2024, 2, 20, 0, 0, 0, 0, loc), timeframe.GranularityFortnight, loc).Next()
	assert.Equal(t, "2024-03-H1", next.Value)
}

func TestWeekStartsOnMonday(t *testing.T) {
	loc := time.UTC
	sunday := time.Date(2024, 3, 17, 10, 0, 0, 0, loc)
	monday := time.Date(2024, 3, 18, 10, 0, 0, 0, loc)

	assert.Equal(t, "2024-03-11", timeframe.Bucket(sunday, timeframe.GranularityWeek, loc).Value)
	assert.Equal(t, "2024-03-18", timeframe.Bucket(monday, timeframe.GranularityWeek, loc).Value)
}

func TestBucketIsTimezoneAware(t *testing.T) {
	loc := saoPaulo(t)
	ts := time.Date(2024, 4, 1, 1, 0, 0, 0, time.UTC) // 22:00 on Mar 31 local

	assert.Equal(t, "2024-03", timeframe.Bucket(ts, timeframe.GranularityMonth, loc).Value)
	assert.Equal(t, "2024-03-31 22 -0300", timeframe.Bucket(ts, timeframe.GranularityHour, loc).Value)
}

func TestDomainIsGapFree(t *testing.T) {
	loc := time.UTC

	r, err := timeframe.NewDateRange(date(2024, 1, 30, loc), date(2024, 3, 2, loc), loc)
	require.NoError(t, err)

	days := timeframe.Domain(r, timeframe.GranularityDay, loc)
	assert.Len(t, days, 33)
	assert.Equal(t, "2024-01-30", days[0].Value)
	assert.Equal(t, "2024-03-02", days[len(days)-1].Value)

	fortnights := timeframe.Domain(r, timeframe.GranularityFortnight, loc)
	values := make([]string, len(fortnights))
	for i, k := range fortnights {
		values[i] = k.Value
	}
	assert.Equal(t, []string{"2024-01-H2", "2024-02-H1", "2024-02-H2", "2024-03-H1"}, values)

	single, err := timeframe.NewDateRange(date(2024, 3, 10, loc), date(2024, 3, 10, loc), loc)
	require.NoError(t, err)
	hours := timeframe.Domain(single, timeframe.GranularityHour, loc)
	require.Len(t, hours, 24)
	assert.Equal(t, "2024-03-10 00 +0000", hours[0].Value)
	assert.Equal(t, "2024-03-10 23 +0000", hours[23].Value)
}

func TestHourDomainAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	fallBack, err := timeframe.NewDateRange(date(2024, 11, 3, loc), date(2024, 11, 3, loc), loc)
	require.NoError(t, err)
	hours := timeframe.Domain(fallBack, timeframe.GranularityHour, loc)
	require.Len(t, hours, 25)
	assert.Equal(t, "2024-11-03 01 -0400", hours[1].Value)
	assert.Equal(t, "2024-11-03 01 -0500", hours[2].Value)

	seen := map[string]bool{}
	for _, h := range hours {
		assert.False(t, seen[h.Value], "duplicate bucket %s", h.Value)
		seen[h.Value] = true
	}

	// 01:30 EST is the second pass through 01h.
	second := time.Date(2024, 11, 3, 6, 30, 0, 0, time.UTC)
	key := timeframe.Bucket(second, timeframe.GranularityHour, loc)
	assert.Equal(t, hours[2].Value, key.Value)
	assert.True(t, hours[2].Start.Equal(key.Start))

	springForward, err := timeframe.NewDateRange(date(2024, 3, 10, loc), date(2024, 3, 10, loc), loc)
	require.NoError(t, err)
	assert.Len(t, timeframe.Domain(springForward, timeframe.GranularityHour, loc), 23)
}

func TestEffectiveGranularity(t *testing.T) {
	loc := time.UTC
	single, _ := timeframe.NewDateRange(date(2024, 3, 10, loc), date(2024, 3, 10, loc), loc)
	multi, _ := timeframe.NewDateRange(date(2024, 3, 1, loc), date(2024, 3, 10, loc), loc)

	assert.Equal(t, timeframe.GranularityHour, timeframe.EffectiveGranularity(single, timeframe.GranularityMonth))
	assert.Equal(t, timeframe.GranularityMonth, timeframe.EffectiveGranularity(multi, timeframe.GranularityMonth))
	assert.Equal(t, timeframe.GranularityDay, timeframe.EffectiveGranularity(multi, ""))
}

func TestDateRange(t *testing.T) {
	loc := time.UTC
	_, err := timeframe.NewDateRange(date(2024, 3, 10, loc), date(2024, 3, 1, loc), loc)
	assert.Error(t, err)

	r, err := timeframe.NewDateRange(time.Date(2024, 3, 1, 15, 0, 0, 0, loc), date(2024, 3, 3, loc), loc)
	require.NoError(t, err)
	assert.Equal(t, 3, r.Days())
	assert.True(t, r.Contains(time.Date(2024, 3, 3, 23, 59, 0, 0, loc)))
	assert.False(t, r.Contains(date(2024, 3, 4, loc)))
	assert.Equal(t, "2024-03-01..2024-03-03", r.String())
}

func TestParsers(t *testing.T) {
	g, err := timeframe.ParseGranularity("")
	require.NoError(t, err)
	assert.Equal(t, timeframe.GranularityDay, g)

	_, err = timeframe.ParseGranularity("quarter")
	assert.Error(t, err)

	label, err := timeframe.ParseRangeLabel("", timeframe.SalesRangeLabels)
	require.NoError(t, err)
	assert.Equal(t, timeframe.RangeLabelToday, label)

	_, err = timeframe.ParseRangeLabel("next_7_days", timeframe.SalesRangeLabels)
	assert.ErrorIs(t, err, timeframe.ErrUnknownRange)

	label, err = timeframe.ParseRangeLabel("next_7_days", timeframe.DeadlineRangeLabels)
	require.NoError(t, err)
	assert.Equal(t, timeframe.RangeLabelNext7Days, label)

	assert.Equal(t, []string{"00", "01"}, timeframe.HourDomain()[:2])
}
