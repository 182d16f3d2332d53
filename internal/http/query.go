package http

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/samber/lo"

	"cyberdock/internal/analytics"
	"cyberdock/internal/engine"
	"cyberdock/internal/filters"
	"cyberdock/internal/timeframe"
)

// QueryDefaults are the filter values applied when a request leaves
// them out. Passing "Todos" as status or "all" as dispatch lifts them.
type QueryDefaults struct {
	Status   string
	Dispatch filters.Dispatch
}

// DefaultQueryDefaults preselects paid sales with a known dispatch deadline.
func DefaultQueryDefaults() QueryDefaults {
	return QueryDefaults{Status: "Pago", Dispatch: filters.DispatchWith}
}

// query copies the value out of the request buffer.
func query(c *fiber.Ctx, key string, defaultValue ...string) string {
	return utils.CopyString(c.Query(key, defaultValue...))
}

// queryList collects a repeated and/or comma separated query parameter.
func queryList(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return lo.Uniq(out)
}

// queryRange reads an optional custom range. Both ends are required when
// either is present.
func queryRange(c *fiber.Ctx, fromKey, toKey string, loc *time.Location) (*timeframe.DateRange, error) {
	from, to := c.Query(fromKey), c.Query(toKey)
	if from == "" && to == "" {
		return nil, nil
	}
	if from == "" || to == "" {
		return nil, fmt.Errorf("%s and %s must be given together", fromKey, toKey)
	}
	fromDate, err := timeframe.ParseDate(from, loc)
	if err != nil {
		return nil, err
	}
	toDate, err := timeframe.ParseDate(to, loc)
	if err != nil {
		return nil, err
	}
	r, err := timeframe.NewDateRange(fromDate, toDate, loc)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func selections(c *fiber.Ctx, keys map[filters.Dimension]string) map[filters.Dimension][]string {
	out := map[filters.Dimension][]string{}
	for d, key := range keys {
		if values := queryList(c, key); len(values) > 0 {
			out[d] = values
		}
	}
	return out
}

func parseState(c *fiber.Ctx, loc *time.Location, d QueryDefaults) (filters.State, error) {
	period, err := timeframe.ParseRangeLabel(c.Query("period"), timeframe.SalesRangeLabels)
	if err != nil {
		return filters.State{}, err
	}
	custom, err := queryRange(c, "from", "to", loc)
	if err != nil {
		return filters.State{}, err
	}
	if custom != nil && c.Query("period") == "" {
		period = timeframe.RangeLabelCustom
	}
	return filters.State{
		Period: period,
		Custom: custom,
		Status: query(c, "status", d.Status),
		Selections: selections(c, map[filters.Dimension]string{
			filters.DimensionAccount: "accounts",
			filters.DimensionLevel1:  "level1",
			filters.DimensionLevel2:  "level2",
		}),
	}, nil
}

func parseDashboardRequest(c *fiber.Ctx, loc *time.Location, d QueryDefaults) (engine.DashboardRequest, error) {
	state, err := parseState(c, loc, d)
	if err != nil {
		return engine.DashboardRequest{}, err
	}
	g, err := timeframe.ParseGranularity(c.Query("granularity"))
	if err != nil {
		return engine.DashboardRequest{}, err
	}
	m, err := analytics.ParseMeasure(c.Query("metric"))
	if err != nil {
		return engine.DashboardRequest{}, err
	}

	var byAccount bool
	switch group := c.Query("group", "account"); group {
	case "account":
		byAccount = true
	case "total":
	default:
		return engine.DashboardRequest{}, fmt.Errorf("unknown group: %s", group)
	}

	return engine.DashboardRequest{State: state, Granularity: g, ByAccount: byAccount, Measure: m}, nil
}

func parseShipmentState(c *fiber.Ctx, loc *time.Location, d QueryDefaults) (filters.ShipmentState, error) {
	deadlinePeriod, err := timeframe.ParseRangeLabel(c.Query("deadline_period"), timeframe.DeadlineRangeLabels)
	if err != nil {
		return filters.ShipmentState{}, err
	}
	deadlineCustom, err := queryRange(c, "deadline_from", "deadline_to", loc)
	if err != nil {
		return filters.ShipmentState{}, err
	}
	if deadlineCustom != nil && c.Query("deadline_period") == "" {
		deadlinePeriod = timeframe.RangeLabelCustom
	}
	saleRange, err := queryRange(c, "sale_from", "sale_to", loc)
	if err != nil {
		return filters.ShipmentState{}, err
	}
	dispatch, err := filters.ParseDispatch(c.Query("dispatch", string(d.Dispatch)))
	if err != nil {
		return filters.ShipmentState{}, err
	}

	sel := selections(c, map[filters.Dimension]string{
		filters.DimensionAccount:      "account",
		filters.DimensionShipmentType: "shipment_type",
		filters.DimensionLevel1:       "level1",
		filters.DimensionLevel2:       "level2",
	})
	if accounts := queryList(c, "accounts"); len(accounts) > 0 {
		sel[filters.DimensionAccount] = lo.Uniq(append(sel[filters.DimensionAccount], accounts...))
	}

	return filters.ShipmentState{
		SaleRange:      saleRange,
		DeadlinePeriod: deadlinePeriod,
		DeadlineCustom: deadlineCustom,
		Status:         query(c, "status", d.Status),
		Dispatch:       dispatch,
		Selections:     sel,
	}, nil
}
