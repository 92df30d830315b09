package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/configs"
)

func TestLetterGrade_Boundaries(t *testing.T) {
	cases := []struct {
		pct  float64
		want string
	}{
		{100, "A+"}, {97, "A+"}, {96.99, "A"}, {93, "A"}, {92.9, "A-"}, {90, "A-"},
		{89.99, "B+"}, {87, "B+"}, {83, "B"}, {80, "B-"}, {79.9, "C+"}, {77, "C+"},
		{73, "C"}, {70, "C-"}, {67, "D+"}, {65, "D"}, {64.99, "F"}, {0, "F"}, {-5, "F"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, LetterGrade(tc.pct), "pct=%v", tc.pct)
	}
}

func TestLetterGrade_Monotonic(t *testing.T) {
	prev := GradePoint(LetterGrade(100))
	for p := 100.0; p >= 0; p -= 0.5 {
		gp := GradePoint(LetterGrade(p))
		assert.LessOrEqual(t, gp, prev, "pct=%v", p)
		prev = gp
	}
}

func TestEmptyInputDefaults(t *testing.T) {
	assert.Equal(t, 0.0, SafeAverage(0, 0))
	assert.Equal(t, 0.0, Percentage(5, 0))
	assert.Equal(t, 0.0, Mean(nil))
	assert.Equal(t, 0.0, GPA(nil))
	assert.Equal(t, NoGrade, LetterGradeOrNA(nil))
	lo, hi := MinMax(nil)
	assert.Zero(t, lo)
	assert.Zero(t, hi)

	m := AttendanceRate(0, 0)
	assert.False(t, m.Sufficient())
	assert.Equal(t, StateInsufficient, m.State)
	assert.Nil(t, m.Value)

	assert.Equal(t, StateInsufficient, RatingTrend(nil))
	assert.Equal(t, 0.0, OverallRating())

	dist := GradeDistribution(nil)
	for _, b := range DistributionBins {
		assert.Equal(t, 0, dist[b])
	}
	sums := MonthlySums(nil)
	for _, s := range sums {
		assert.True(t, s.IsZero())
	}
}

func TestAttendanceRate_RoundsToOneDecimal(t *testing.T) {
	m := AttendanceRate(2, 3)
	require.True(t, m.Sufficient())
	assert.Equal(t, 66.7, *m.Value)
	assert.Equal(t, 100.0, AttendanceRate(4, 4).ValueOr(-1))
}

func TestBehaviorScore_Clamped(t *testing.T) {
	assert.Equal(t, 85, BehaviorScore(0, 0))
	assert.Equal(t, 95, BehaviorScore(2, 0))
	assert.Equal(t, 100, BehaviorScore(10, 0))
	assert.Equal(t, 75, BehaviorScore(0, 1))
	assert.Equal(t, 50, BehaviorScore(0, 9))
	assert.Equal(t, 80, BehaviorScore(1, 1))
}

func TestClassifyStatus(t *testing.T) {
	assert.Equal(t, StatusExcellent, ClassifyStatus(3.6, Measured(96), 90))
	assert.Equal(t, StatusGood, ClassifyStatus(3.6, Measured(94), 90))
	assert.Equal(t, StatusSatisfactory, ClassifyStatus(2.5, Measured(85), 70))
	assert.Equal(t, StatusNeedsImprovement, ClassifyStatus(2.0, Measured(75), 50))
	assert.Equal(t, StatusAtRisk, ClassifyStatus(2.0, Measured(74.9), 100))
	assert.Equal(t, StatusAtRisk, ClassifyStatus(1.9, Measured(100), 100))
	assert.Equal(t, StatusExcellent, ClassifyStatus(3.7, Insufficient(), 95))
}

func TestGradeDistribution_HalfOpen(t *testing.T) {
	d := GradeDistribution([]float64{90, 89.99, 80, 79.99, 60, 59.99, 40, 39.99, 100})
	assert.Equal(t, 2, d[BinAPlus])
	assert.Equal(t, 2, d[BinA])
	assert.Equal(t, 2, d[BinB])
	assert.Equal(t, 2, d[BinC])
	assert.Equal(t, 1, d[BinF])
}

func TestPassed_InclusiveBoundary(t *testing.T) {
	assert.True(t, Passed(50, 50))
	assert.False(t, Passed(49.99, 50))
	// total == pass: only a full score passes
	assert.True(t, Passed(100, 100))
	assert.False(t, Passed(99, 100))
}

func TestMonthlyBuckets(t *testing.T) {
	jan := time.Date(2024, time.January, 3, 0, 0, 0, 0, time.UTC)
	dec := time.Date(2024, time.December, 31, 23, 0, 0, 0, time.UTC)
	counts := MonthlyCounts([]time.Time{jan, jan, dec, {}})
	assert.Equal(t, 2, counts[0])
	assert.Equal(t, 1, counts[11])
	assert.Equal(t, 0, counts[5])

	sums := MonthlySums([]MonthlyPoint{
		{At: jan, Amount: decimal.RequireFromString("0.10")},
		{At: jan, Amount: decimal.RequireFromString("0.20")},
		{At: dec, Amount: decimal.NewFromInt(5)},
	})
	assert.Equal(t, "0.3", sums[0].String())
	assert.Equal(t, "5", sums[11].String())
}

func TestComputePayroll_ReferenceScenario(t *testing.T) {
	out := ComputePayroll(configs.DefaultPayrollPolicy(), PayrollInput{
		ExperienceYears: 5,
		ClassCount:      2,
		SubjectCount:    3,
		Overtime:        decimal.Zero,
	})
	assert.Equal(t, "4000.00", out.BaseSalary.StringFixed(2))
	assert.Equal(t, "1150.00", out.Allowances.StringFixed(2))
	assert.Equal(t, "5150.00", out.GrossSalary.StringFixed(2))
	assert.Equal(t, "772.50", out.TaxDeducted.StringFixed(2))
	assert.Equal(t, "480.00", out.ProvidentFund.StringFixed(2))
	assert.Equal(t, "200.00", out.Insurance.StringFixed(2))
	assert.Equal(t, "3697.50", out.NetSalary.StringFixed(2))
}

func TestComputePayroll_OvertimeFromInput(t *testing.T) {
	out := ComputePayroll(configs.DefaultPayrollPolicy(), PayrollInput{Overtime: decimal.NewFromInt(100)})
	// base 3000, allowances 300, gross 3400
	assert.Equal(t, "3400.00", out.GrossSalary.StringFixed(2))
	assert.Equal(t, "100.00", out.Overtime.StringFixed(2))
}

func TestOverallRatingAndTrend(t *testing.T) {
	assert.Equal(t, 4.2, OverallRating(5, 4, 4, 4, 4, 4))
	assert.Equal(t, TrendImproving, RatingTrend([]float64{3.5, 3.7}))
	assert.Equal(t, TrendDeclining, RatingTrend([]float64{4.0, 3.8}))
	assert.Equal(t, TrendStable, RatingTrend([]float64{4.0, 4.1}))
	assert.Equal(t, StateInsufficient, RatingTrend([]float64{4.0}))
}

func TestCountAndSumBy(t *testing.T) {
	type row struct {
		cat string
		amt decimal.Decimal
	}
	rows := []row{{"A", decimal.NewFromInt(1)}, {"B", decimal.NewFromInt(2)}, {"A", decimal.NewFromInt(3)}}
	counts := CountBy(rows, func(r row) string { return r.cat })
	assert.Equal(t, map[string]int{"A": 2, "B": 1}, counts)
	sums := SumBy(rows, func(r row) string { return r.cat }, func(r row) decimal.Decimal { return r.amt })
	assert.Equal(t, "4", sums["A"].String())
}
