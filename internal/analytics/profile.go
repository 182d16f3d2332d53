package analytics

import "strconv"

// Splice carries the live-day decision for a profile. It is evaluated
// once per pass by the caller.
type Splice struct {
	IsToday     bool
	Today       string // date key, YYYY-MM-DD
	CurrentHour int
}

// ProfilePoint is the average cumulative revenue up to and including Hour.
type ProfilePoint struct {
	Hour  int     `json:"hour"`
	Value float64 `json:"value"`
}

// CumulativeProfile averages each date's running revenue total per hour.
//
// For today the curve stops at the current hour, whose point is today's
// actual cumulative total. Otherwise all 24 hours are returned and the
// hour-23 point is the mean full-day total.
func CumulativeProfile(grid Grid, splice Splice) []ProfilePoint {
	if len(grid.Dates) == 0 {
		return []ProfilePoint{}
	}

	// Rows are kept in date order so repeated passes sum identically.
	cumulative := make(map[string]*[24]float64, len(grid.Dates))
	rows := make([]*[24]float64, 0, len(grid.Dates))
	for _, d := range grid.Dates {
		if _, ok := cumulative[d]; ok {
			continue
		}
		row := &[24]float64{}
		cumulative[d] = row
		rows = append(rows, row)
	}
	for _, c := range grid.Cells {
		h, err := strconv.Atoi(c.B)
		if err != nil || h < 0 || h > 23 {
			continue
		}
		if row, ok := cumulative[c.A]; ok {
			row[h] += c.Value
		}
	}

	var average [24]float64
	var meanDailyTotal float64
	for _, row := range rows {
		for h := 1; h < 24; h++ {
			row[h] += row[h-1]
		}
		for h := range row {
			average[h] += row[h]
		}
		meanDailyTotal += row[23]
	}
	n := float64(len(rows))
	for h := range average {
		average[h] /= n
	}
	meanDailyTotal /= n

	if splice.IsToday {
		hour := min(max(splice.CurrentHour, 0), 23)
		points := make([]ProfilePoint, 0, hour+1)
		for h := 0; h < hour; h++ {
			points = append(points, ProfilePoint{Hour: h, Value: average[h]})
		}
		var live float64
		if row, ok := cumulative[splice.Today]; ok {
			live = row[hour]
		}
		return append(points, ProfilePoint{Hour: hour, Value: live})
	}

	points := make([]ProfilePoint, 24)
	for h := range points {
		points[h] = ProfilePoint{Hour: h, Value: average[h]}
	}
	points[23].Value = meanDailyTotal
	return points
}
