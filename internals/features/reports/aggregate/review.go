package aggregate

const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

const trendThreshold = 0.2

// OverallRating is the mean of the sub-scores rounded to one decimal.
func OverallRating(scores ...int) float64 {
	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	return Round(SafeAverage(sum, len(scores)), 1)
}

// RatingTrend compares the two most recent ratings, oldest first in ratings.
func RatingTrend(ratings []float64) string {
	if len(ratings) < 2 {
		return StateInsufficient
	}
	prev, cur := ratings[len(ratings)-2], ratings[len(ratings)-1]
	diff := Round(cur-prev, 2)
	switch {
	case diff >= trendThreshold:
		return TrendImproving
	case diff <= -trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
