package aggregate

import (
	"time"

	"github.com/shopspring/decimal"
)

// SafeAverage is sum/count, 0 when count is 0.
func SafeAverage(sum float64, count int) float64 {
	if count <= 0 {
		return 0
	}
	return sum / float64(count)
}

// Percentage is part/total*100, 0 when total is 0.
func Percentage(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}

func Mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return SafeAverage(sum, len(xs))
}

// MinMax returns 0,0 for empty input.
func MinMax(xs []float64) (lo, hi float64) {
	for i, x := range xs {
		if i == 0 || x < lo {
			lo = x
		}
		if i == 0 || x > hi {
			hi = x
		}
	}
	return lo, hi
}

// MonthlyCounts buckets timestamps by calendar month, index 0 = January.
func MonthlyCounts(times []time.Time) [12]int {
	var out [12]int
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		out[int(t.Month())-1]++
	}
	return out
}

// MonthlyPoint is one dated amount.
type MonthlyPoint struct {
	At     time.Time
	Amount decimal.Decimal
}

func MonthlySums(points []MonthlyPoint) [12]decimal.Decimal {
	var out [12]decimal.Decimal
	for i := range out {
		out[i] = decimal.Zero
	}
	for _, p := range points {
		if p.At.IsZero() {
			continue
		}
		m := int(p.At.Month()) - 1
		out[m] = out[m].Add(p.Amount)
	}
	return out
}

// CountBy groups values by key.
func CountBy[T any](items []T, key func(T) string) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		out[key(it)]++
	}
	return out
}

// SumBy sums decimal amounts per key.
func SumBy[T any](items []T, key func(T) string, amount func(T) decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, it := range items {
		k := key(it)
		out[k] = out[k].Add(amount(it))
	}
	return out
}
