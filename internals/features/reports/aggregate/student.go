package aggregate

const (
	StatusExcellent        = "excellent"
	StatusGood             = "good"
	StatusSatisfactory     = "satisfactory"
	StatusNeedsImprovement = "needs_improvement"
	StatusAtRisk           = "at_risk"
)

// AttendanceRate is present/total*100 rounded to one decimal; no records is insufficient data.
func AttendanceRate(present, total int) Metric {
	if total <= 0 {
		return Insufficient()
	}
	return Measured(Round(Percentage(float64(present), float64(total)), 1))
}

const (
	behaviorBase     = 85
	behaviorPositive = 5
	behaviorNegative = 10
	behaviorMin      = 50
	behaviorMax      = 100
)

// BehaviorScore: 85 + 5 per positive - 10 per negative, clamped to [50,100].
func BehaviorScore(positive, negative int) int {
	s := behaviorBase + behaviorPositive*positive - behaviorNegative*negative
	if s < behaviorMin {
		return behaviorMin
	}
	if s > behaviorMax {
		return behaviorMax
	}
	return s
}

type statusTier struct {
	status     string
	gpa        float64
	attendance float64
	behavior   int
}

// Evaluated top-down; first match wins.
var statusTiers = []statusTier{
	{StatusExcellent, 3.5, 95, 90},
	{StatusGood, 3.0, 90, 80},
	{StatusSatisfactory, 2.5, 85, 70},
	{StatusNeedsImprovement, 2.0, 75, 0},
}

// ClassifyStatus picks the first tier whose thresholds are all met.
// Insufficient attendance does not block a tier.
func ClassifyStatus(gpa float64, attendance Metric, behavior int) string {
	for _, t := range statusTiers {
		if gpa < t.gpa || behavior < t.behavior {
			continue
		}
		if attendance.Sufficient() && *attendance.Value < t.attendance {
			continue
		}
		return t.status
	}
	return StatusAtRisk
}
