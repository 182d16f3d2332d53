package analytics

import (
	"sort"
	"time"

	"cyberdock/internal/sales"
	"cyberdock/internal/timeframe"
)

// Point is one bucket of a series. ByAccount partitions Value by account
// display name when requested.
type Point struct {
	Bucket    timeframe.BucketKey `json:"bucket"`
	Value     float64             `json:"value"`
	ByAccount map[string]float64  `json:"by_account,omitempty"`
}

// Series is an ordered, possibly sparse, bucketed aggregate.
type Series struct {
	Granularity timeframe.Granularity `json:"granularity"`
	Measure     Measure               `json:"measure"`
	Points      []Point               `json:"points"`
	// Excluded counts records without a timestamp.
	Excluded int `json:"excluded"`
}

// BucketSeries sums m per bucket of granularity g. Points come out in
// bucket order; only buckets with records appear.
func BucketSeries(records []sales.Sale, g timeframe.Granularity, m Measure, byAccount bool, loc *time.Location) Series {
	series := Series{Granularity: g, Measure: m, Points: []Point{}}
	index := map[string]int{}

	for _, s := range records {
		if s.DateAdjusted == nil {
			series.Excluded++
			continue
		}
		key := timeframe.Bucket(*s.DateAdjusted, g, loc)
		i, ok := index[key.Value]
		if !ok {
			i = len(series.Points)
			index[key.Value] = i
			p := Point{Bucket: key}
			if byAccount {
				p.ByAccount = map[string]float64{}
			}
			series.Points = append(series.Points, p)
		}
		v := m.Of(s)
		series.Points[i].Value += v
		if byAccount {
			series.Points[i].ByAccount[s.AccountName()] += v
		}
	}

	sort.SliceStable(series.Points, func(i, j int) bool {
		return series.Points[i].Bucket.Start.Before(series.Points[j].Bucket.Start)
	})
	return series
}

// Total sums every point.
func (s Series) Total() float64 {
	var total float64
	for _, p := range s.Points {
		total += p.Value
	}
	return total
}

// Fill returns the series over domain with zero points for missing buckets.
// Buckets outside domain are dropped.
func (s Series) Fill(domain []timeframe.BucketKey) Series {
	byKey := make(map[string]Point, len(s.Points))
	for _, p := range s.Points {
		byKey[p.Bucket.Value] = p
	}

	filled := Series{Granularity: s.Granularity, Measure: s.Measure, Excluded: s.Excluded, Points: make([]Point, len(domain))}
	for i, key := range domain {
		if p, ok := byKey[key.Value]; ok {
			filled.Points[i] = p
			continue
		}
		filled.Points[i] = Point{Bucket: key}
	}
	return filled
}
