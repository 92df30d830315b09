package presenter

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"schoolhub_backend/internals/features/reports/aggregate"
)

func TestStatusStyle_SharedTable(t *testing.T) {
	s := StatusStyle(KindAdmission, "INTERVIEW_SCHEDULED")
	assert.Equal(t, "purple", s.Color)
	assert.Equal(t, "Interview Scheduled", s.Label)

	// the same status means the same color everywhere
	assert.Equal(t, StatusStyle(KindExpense, "PAID").Color, StatusStyle(KindFeePayment, "PAID").Color)
	assert.Equal(t, StatusStyle(KindDocument, "REJECTED").Color, StatusStyle(KindAdmission, "REJECTED").Color)

	unknown := StatusStyle(KindAdmission, "SOMETHING_ELSE")
	assert.Equal(t, "gray", unknown.Color)
	assert.Equal(t, "Something Else", unknown.Label)
	assert.Equal(t, "Unknown", StatusStyle("nope", "").Label)
}

func TestFormatCurrency(t *testing.T) {
	assert.Equal(t, "$0.00", FormatCurrency(decimal.Zero))
	assert.Equal(t, "$3,697.50", FormatCurrency(decimal.RequireFromString("3697.5")))
	assert.Equal(t, "$1,234,567.89", FormatCurrency(decimal.RequireFromString("1234567.891")))
	assert.Equal(t, "-$12.00", FormatCurrency(decimal.NewFromInt(-12)))
	assert.Equal(t, "$100.00", FormatCurrency(decimal.NewFromInt(100)))
}

func TestMetricValue(t *testing.T) {
	assert.Equal(t, NotAvailable, MetricValue(aggregate.Insufficient()))
	assert.Equal(t, "66.7%", MetricValue(aggregate.AttendanceRate(2, 3)))
	assert.Equal(t, "gray", MetricCard("Attendance", aggregate.Insufficient(), "").Color)
}

func TestProportionBar(t *testing.T) {
	assert.Equal(t, 0.0, ProportionBar("x", 3, 0).Percent)
	assert.Equal(t, 33.3, ProportionBar("x", 1, 3).Percent)

	bars := StatusBars(KindAttendance, []string{"PRESENT", "LATE", "ABSENT"}, map[string]int{"PRESENT": 3, "ABSENT": 1})
	assert.Len(t, bars, 3)
	assert.Equal(t, 75.0, bars[0].Percent)
	assert.Equal(t, 0.0, bars[1].Percent)
	assert.Equal(t, "red", bars[2].Color)
}
