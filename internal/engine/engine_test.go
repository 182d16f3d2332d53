package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberdock/internal/analytics"
	"cyberdock/internal/filters"
	"cyberdock/internal/sales"
	"cyberdock/internal/testsupport"
	"cyberdock/internal/timeframe"
)

var now = time.Date(2024, 3, 10, 14, 30, 0, 0, time.UTC)

func newEngine() *Engine {
	return New(&testsupport.FixedTimeProvider{FixedTime: now}, time.UTC)
}

func snapshot() []sales.Sale {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	return []sales.Sale{
		testsupport.NewSale("T1", today.Add(9*time.Hour), 100),
		testsupport.NewSale("T2", today.Add(13*time.Hour), 50, testsupport.WithAccount("LOJA B")),
		testsupport.NewSale("Y1", yesterday.Add(10*time.Hour), 200),
		testsupport.NewSale("Y2", yesterday.Add(20*time.Hour), 100),
		testsupport.NewSale("U1", today, 999, testsupport.Undated()),
	}
}

func TestBeginCapturesClockOnce(t *testing.T) {
	p := newEngine().Begin()
	assert.Equal(t, now, p.Now)
	assert.Equal(t, time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC), p.Today)
}

func TestDashboardToday(t *testing.T) {
	res, err := newEngine().Begin().Dashboard(snapshot(), DashboardRequest{})
	require.NoError(t, err)

	assert.False(t, res.Empty)
	assert.True(t, res.IsToday)
	assert.Equal(t, Period{From: "2024-03-10", To: "2024-03-10"}, res.Period)
	assert.Equal(t, timeframe.GranularityHour, res.Granularity)
	assert.Len(t, res.Series.Points, 24)
	assert.InDelta(t, 150.0, res.Series.Total(), 1e-9)
	assert.Equal(t, 1, res.Excluded)
	assert.Equal(t, 1, res.Series.Excluded)

	require.Len(t, res.Profile, 15, "today's curve stops at the current hour")
	assert.Equal(t, 14, res.Profile[14].Hour)
	assert.InDelta(t, 150.0, res.Profile[14].Value, 1e-9)

	require.Len(t, res.Shares, 2)
	assert.Equal(t, "LOJA A", res.Shares[0].Account)
	assert.InDelta(t, 1.0, res.Shares[0].Share+res.Shares[1].Share, 1e-9)
	assert.Equal(t, analytics.DefaultPalette[0], res.Colors["LOJA A"])

	assert.Equal(t, []string{"LOJA A", "LOJA B"}, res.Options[filters.DimensionAccount])
}

func TestDashboardShareColorsMatchSeriesColors(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)
	records := []sales.Sale{
		testsupport.NewSale("Y1", yesterday.Add(10*time.Hour), 1000),
		testsupport.NewSale("Y2", yesterday.Add(11*time.Hour), 10, testsupport.WithAccount("LOJA B")),
		testsupport.NewSale("T1", today.Add(9*time.Hour), 50),
		testsupport.NewSale("T2", today.Add(10*time.Hour), 100, testsupport.WithAccount("LOJA B")),
	}

	res, err := newEngine().Begin().Dashboard(records, DashboardRequest{})
	require.NoError(t, err)

	require.Len(t, res.Shares, 2)
	assert.Equal(t, "LOJA B", res.Shares[0].Account, "today's leader")
	assert.Equal(t, analytics.DefaultPalette[0], res.Colors["LOJA A"], "ranked over the whole snapshot")
	assert.Equal(t, analytics.DefaultPalette[1], res.Colors["LOJA B"])
	for _, share := range res.Shares {
		assert.Equal(t, res.Colors[share.Account], share.Color, share.Account)
	}
}

func TestDashboardTodayAcrossDaylightSaving(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	clock := &testsupport.FixedTimeProvider{FixedTime: time.Date(2024, 11, 3, 12, 0, 0, 0, loc)}
	records := []sales.Sale{
		testsupport.NewSale("D1", time.Date(2024, 11, 3, 5, 30, 0, 0, time.UTC), 100),
	}

	res, err := New(clock, loc).Begin().Dashboard(records, DashboardRequest{})
	require.NoError(t, err)

	assert.Equal(t, timeframe.GranularityHour, res.Granularity)
	assert.Len(t, res.Series.Points, 25, "the repeated 01:00 hour gets its own bucket")
	assert.InDelta(t, 100.0, res.Series.Total(), 1e-9)
}

func TestDashboardLastSevenDays(t *testing.T) {
	req := DashboardRequest{
		State:       filters.State{Period: timeframe.RangeLabelLast7Days},
		Granularity: timeframe.GranularityDay,
		ByAccount:   true,
		Measure:     analytics.MeasureOrders,
	}
	res, err := newEngine().Begin().Dashboard(snapshot(), req)
	require.NoError(t, err)

	assert.False(t, res.IsToday)
	assert.Equal(t, Period{From: "2024-03-03", To: "2024-03-10"}, res.Period)
	require.Len(t, res.Series.Points, 8)
	assert.InDelta(t, 4.0, res.Series.Total(), 1e-9)

	last := res.Series.Points[7]
	assert.Equal(t, "2024-03-10", last.Bucket.Value)
	assert.Equal(t, map[string]float64{"LOJA A": 1, "LOJA B": 1}, last.ByAccount)

	require.Len(t, res.Profile, 24)
	assert.InDelta(t, 225.0, res.Profile[23].Value, 1e-9, "hour 23 is the mean daily total")
	for h := 1; h < 24; h++ {
		assert.GreaterOrEqual(t, res.Profile[h].Value, res.Profile[h-1].Value)
	}

	assert.Equal(t, 4, res.Summary.Orders)
	assert.InDelta(t, 450.0, res.Summary.Revenue, 1e-9)
}

func TestDashboardAccountFilterNarrowsBounds(t *testing.T) {
	state := filters.State{
		Period:     timeframe.RangeLabelToday,
		Selections: map[filters.Dimension][]string{filters.DimensionAccount: {"LOJA B"}},
	}
	res, err := newEngine().Begin().Dashboard(snapshot(), DashboardRequest{State: state})
	require.NoError(t, err)
	assert.InDelta(t, 50.0, res.Summary.Revenue, 1e-9)
	assert.Equal(t, []string{"LOJA A", "LOJA B"}, res.Options[filters.DimensionAccount])
}

func TestDashboardWithoutData(t *testing.T) {
	res, err := newEngine().Begin().Dashboard(nil, DashboardRequest{
		State: filters.State{Period: timeframe.RangeLabelCustom},
	})
	require.NoError(t, err)
	assert.True(t, res.Empty)
	assert.Empty(t, res.Series.Points)
	assert.Len(t, res.Weekdays, 7)
}

func TestReport(t *testing.T) {
	res, err := newEngine().Begin().Report(snapshot(), filters.State{Period: timeframe.RangeLabelLast7Days})
	require.NoError(t, err)
	require.Len(t, res.Rows, 4)
	assert.Equal(t, "T2", res.Rows[0].OrderID)
	assert.Equal(t, "Y1", res.Rows[3].OrderID)
	assert.Equal(t, 1, res.Excluded)
}

func TestShipments(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	records := []sales.Sale{
		testsupport.NewSale("S1", today.Add(-48*time.Hour), 10,
			testsupport.WithDeadline(today.Add(12*time.Hour)),
			testsupport.WithLevels("Casa", "Cozinha"),
			testsupport.WithUnits(2, 1)),
		testsupport.NewSale("S2", today.Add(-24*time.Hour), 10,
			testsupport.WithDeadline(today.AddDate(0, 0, 2)),
			testsupport.WithLevels("Casa", "Banho")),
		testsupport.NewSale("S3", today.Add(-24*time.Hour), 10,
			testsupport.WithLevels("Esporte", "Fitness"),
			testsupport.WithUnits(3, 1)),
	}

	res, err := newEngine().Begin().Shipments(records, filters.ShipmentState{})
	require.NoError(t, err)

	assert.True(t, res.HasDeadline)
	assert.Equal(t, Period{From: "2024-03-10", To: "2024-03-10"}, res.Deadline)
	assert.Equal(t, Period{From: "2024-03-08", To: "2024-03-09"}, res.SalePeriod)

	require.Len(t, res.Rows, 2, "S2 is due later; S3 has no deadline and always passes")
	assert.Equal(t, "S3", res.Rows[0].OrderID)
	assert.Equal(t, analytics.NoDeadline, res.Rows[0].Deadline)

	assert.Equal(t, analytics.ShipmentSummary{Orders: 2, Units: 5}, res.Summary)
	assert.Equal(t, []string{"Casa", "Esporte"}, []string{res.Level1.Rows[0].Label, res.Level1.Rows[1].Label})
	assert.Equal(t, "Esporte", res.Level1Units.Rows[0].Label)
	assert.Equal(t, analytics.RollupRow{Label: analytics.TotalLabel, Units: 5, Orders: 2}, res.Level1.Total)
	assert.Zero(t, res.Excluded)
}

func TestShipmentsCountsUndatedSales(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	records := []sales.Sale{
		testsupport.NewSale("S1", today.Add(9*time.Hour), 10, testsupport.WithLevel1("A")),
		testsupport.NewSale("S2", today, 10, testsupport.WithLevel1("A"), testsupport.Undated()),
	}

	res, err := newEngine().Begin().Shipments(records, filters.ShipmentState{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "S1", res.Rows[0].OrderID)
	assert.Equal(t, 1, res.Excluded)
}

func TestShipmentsWithoutDispatch(t *testing.T) {
	today := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	records := []sales.Sale{
		testsupport.NewSale("S1", today, 10, testsupport.WithDeadline(today)),
		testsupport.NewSale("S2", today, 10),
	}
	res, err := newEngine().Begin().Shipments(records, filters.ShipmentState{Dispatch: filters.DispatchWithout})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "S2", res.Rows[0].OrderID)
}
