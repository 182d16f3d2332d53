// Package engine runs one aggregation pass over a sale snapshot for each
// screen. A pass reads the clock once so every component agrees on the
// operating date and hour.
package engine

import (
	"errors"
	"time"

	"cyberdock/internal/analytics"
	"cyberdock/internal/filters"
	"cyberdock/internal/sales"
	"cyberdock/internal/timeframe"
)

// Engine holds the settings shared by every pass.
type Engine struct {
	provider timeframe.TimeProvider
	loc      *time.Location
	palette  []string
}

func New(provider timeframe.TimeProvider, loc *time.Location) *Engine {
	if provider == nil {
		provider = &timeframe.DefaultTimeProvider{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{provider: provider, loc: loc, palette: analytics.DefaultPalette}
}

// WithPalette overrides the account color palette.
func (e *Engine) WithPalette(palette []string) *Engine {
	if len(palette) > 0 {
		e.palette = palette
	}
	return e
}

// Location is the operating timezone.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Pass is a single evaluation with a frozen clock.
type Pass struct {
	Now     time.Time
	Today   time.Time
	loc     *time.Location
	palette []string
}

// Begin captures the current time for a new pass.
func (e *Engine) Begin() Pass {
	now := e.provider.Now(e.loc)
	return Pass{
		Now:     now,
		Today:   timeframe.Midnight(now, e.loc),
		loc:     e.loc,
		palette: e.palette,
	}
}

func (p Pass) splice(isToday bool) analytics.Splice {
	return analytics.Splice{
		IsToday:     isToday,
		Today:       p.Today.Format(timeframe.DateLayout),
		CurrentHour: p.Now.Hour(),
	}
}

// Period is a resolved date range in display form.
type Period struct {
	From string `json:"from"`
	To   string `json:"to"`
}

func periodOf(r timeframe.DateRange) Period {
	if r.From.IsZero() {
		return Period{}
	}
	return Period{From: r.From.Format(timeframe.DateLayout), To: r.To.Format(timeframe.DateLayout)}
}

// cascade runs the sales filters. An unset period means today. When
// there is no dated record to bound a custom period, the returned result
// still carries the options so the screen can render empty.
func (p Pass) cascade(records []sales.Sale, state filters.State) (filters.Result, error) {
	if state.Period == "" {
		state.Period = timeframe.RangeLabelToday
	}
	res, err := filters.Cascade(records, state, p.Today, p.loc)
	if errors.Is(err, filters.ErrNoData) {
		res.Options = map[filters.Dimension][]string{}
		for _, d := range []filters.Dimension{filters.DimensionAccount, filters.DimensionStatus, filters.DimensionLevel1, filters.DimensionLevel2} {
			res.Options[d] = filters.Options(records, d)
		}
	}
	return res, err
}

// DashboardRequest selects what the dashboard pass computes.
type DashboardRequest struct {
	State       filters.State
	Granularity timeframe.Granularity
	ByAccount   bool
	Measure     analytics.Measure
}

// DashboardResponse is everything the dashboard screen renders.
type DashboardResponse struct {
	Empty       bool                           `json:"empty"`
	Period      Period                         `json:"period"`
	IsToday     bool                           `json:"is_today"`
	Granularity timeframe.Granularity          `json:"granularity"`
	Summary     analytics.Summary              `json:"summary"`
	Series      analytics.Series               `json:"series"`
	Shares      []analytics.Share              `json:"shares"`
	Colors      map[string]string              `json:"colors"`
	Weekdays    []analytics.WeekdayAverage     `json:"weekdays"`
	Profile     []analytics.ProfilePoint       `json:"profile"`
	Options     map[filters.Dimension][]string `json:"options"`
	Excluded    int                            `json:"excluded"`
}

// Dashboard filters the snapshot and builds the dashboard aggregates.
func (p Pass) Dashboard(records []sales.Sale, req DashboardRequest) (DashboardResponse, error) {
	res, err := p.cascade(records, req.State)
	if errors.Is(err, filters.ErrNoData) {
		return DashboardResponse{
			Empty:    true,
			Series:   analytics.Series{Granularity: timeframe.GranularityDay, Measure: req.Measure, Points: []analytics.Point{}},
			Shares:   []analytics.Share{},
			Colors:   map[string]string{},
			Weekdays: analytics.WeekdayAverages(nil, p.loc),
			Profile:  []analytics.ProfilePoint{},
			Options:  res.Options,
		}, nil
	}
	if err != nil {
		return DashboardResponse{}, err
	}

	measure := req.Measure
	if measure == "" {
		measure = analytics.MeasureRevenue
	}
	g := timeframe.EffectiveGranularity(res.Range, req.Granularity)

	series := analytics.BucketSeries(res.Records, g, measure, req.ByAccount, p.loc)
	series = series.Fill(timeframe.Domain(res.Range, g, p.loc))
	series.Excluded = res.Undated

	// Ranked over the whole snapshot so an account keeps its color while
	// filters change. The series and the share bar read the same map.
	colors := analytics.ColorMap(records, p.palette)

	return DashboardResponse{
		Empty:       len(res.Records) == 0,
		Period:      periodOf(res.Range),
		IsToday:     res.IsToday,
		Granularity: g,
		Summary:     analytics.Summarize(res.Records),
		Series:      series,
		Shares:      analytics.Shares(res.Records, measure, colors),
		Colors:      colors,
		Weekdays:    analytics.WeekdayAverages(res.Records, p.loc),
		Profile:     analytics.CumulativeProfile(analytics.HourlyGrid(res.Records, p.loc), p.splice(res.IsToday)),
		Options:     res.Options,
		Excluded:    res.Undated,
	}, nil
}

// ReportResponse is the sales report screen.
type ReportResponse struct {
	Empty    bool                           `json:"empty"`
	Period   Period                         `json:"period"`
	Summary  analytics.Summary              `json:"summary"`
	Rows     []analytics.DetailRow          `json:"rows"`
	Options  map[filters.Dimension][]string `json:"options"`
	Excluded int                            `json:"excluded"`
}

// Report filters the snapshot and lists the matching sales.
func (p Pass) Report(records []sales.Sale, state filters.State) (ReportResponse, error) {
	res, err := p.cascade(records, state)
	if errors.Is(err, filters.ErrNoData) {
		return ReportResponse{Empty: true, Rows: []analytics.DetailRow{}, Options: res.Options}, nil
	}
	if err != nil {
		return ReportResponse{}, err
	}
	return ReportResponse{
		Empty:    len(res.Records) == 0,
		Period:   periodOf(res.Range),
		Summary:  analytics.Summarize(res.Records),
		Rows:     analytics.DetailRows(res.Records, p.loc),
		Options:  res.Options,
		Excluded: res.Undated,
	}, nil
}

// ShipmentsResponse is the expedition screen and the input of its exports.
type ShipmentsResponse struct {
	Empty        bool                           `json:"empty"`
	SalePeriod   Period                         `json:"sale_period"`
	Deadline     Period                         `json:"deadline"`
	HasDeadline  bool                           `json:"has_deadline"`
	Summary      analytics.ShipmentSummary      `json:"summary"`
	Rows         []analytics.ShipmentRow        `json:"rows"`
	Level1Units  analytics.RollupTable          `json:"level1_units"`
	Level1       analytics.RollupTable          `json:"level1"`
	Level2       analytics.RollupTable          `json:"level2"`
	ShipmentType analytics.RollupTable          `json:"shipment_type"`
	Options      map[filters.Dimension][]string `json:"options"`
	Excluded     int                            `json:"excluded"`
}

// Shipments filters the snapshot through the expedition cascade and
// builds the rollups.
func (p Pass) Shipments(records []sales.Sale, state filters.ShipmentState) (ShipmentsResponse, error) {
	if state.DeadlinePeriod == "" {
		state.DeadlinePeriod = timeframe.RangeLabelToday
	}
	res, err := filters.ShipmentCascade(records, state, p.Today, p.loc)
	if err != nil {
		return ShipmentsResponse{}, err
	}

	out := ShipmentsResponse{
		Empty:        len(res.Records) == 0,
		SalePeriod:   periodOf(res.SaleRange),
		HasDeadline:  res.HasDeadline,
		Summary:      analytics.SummarizeShipments(res.Records),
		Rows:         analytics.ShipmentRows(res.Records, p.loc),
		Level1Units:  analytics.Rollup(res.Records, filters.DimensionLevel1, analytics.RollupSortUnitsDesc),
		Level1:       analytics.Rollup(res.Records, filters.DimensionLevel1, analytics.RollupSortLabelAsc),
		Level2:       analytics.Rollup(res.Records, filters.DimensionLevel2, analytics.RollupSortLabelAsc),
		ShipmentType: analytics.Rollup(res.Records, filters.DimensionShipmentType, analytics.RollupSortLabelAsc),
		Options:      res.Options,
		Excluded:     res.Undated,
	}
	if res.HasDeadline {
		out.Deadline = periodOf(res.Deadline)
	}
	return out, nil
}

// Rollup groups the whole snapshot by d, used by the CLI.
func (p Pass) Rollup(records []sales.Sale, d filters.Dimension, order analytics.RollupSort) analytics.RollupTable {
	return analytics.Rollup(records, d, order)
}
