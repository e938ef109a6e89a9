package domain

import (
	"sort"
	"time"
)

// Sample is one raw contribution to a chart series.
type Sample struct {
	At  time.Time
	Val float64
}

// Point is one bucket of a chart series.
type Point struct {
	Label string  `json:"label"`
	Val   float64 `json:"val"`
}

// Series groups samples into calendar buckets for the period and sums
// their values. Buckets without samples are omitted; the result is ordered
// chronologically by each bucket's earliest sample.
func Series(period Period, samples []Sample) []Point {
	sums := make(map[string]float64)
	earliest := make(map[string]time.Time)
	for _, s := range samples {
		key := BucketKey(period, s.At)
		sums[key] += s.Val
		if first, ok := earliest[key]; !ok || s.At.Before(first) {
			earliest[key] = s.At
		}
	}

	points := make([]Point, 0, len(sums))
	for key, val := range sums {
		points = append(points, Point{Label: key, Val: val})
	}
	sort.Slice(points, func(i, j int) bool {
		return earliest[points[i].Label].Before(earliest[points[j].Label])
	})
	return points
}
