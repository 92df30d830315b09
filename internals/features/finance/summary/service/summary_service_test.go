package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	expenseModel "schoolhub_backend/internals/features/finance/expenses/model"
	feeModel "schoolhub_backend/internals/features/finance/fees/model"
	payrollModel "schoolhub_backend/internals/features/finance/payroll/model"
	"schoolhub_backend/internals/features/finance/summary/service"
	helper "schoolhub_backend/internals/helpers"
)

func at(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 10, 0, 0, 0, time.UTC)
	return &t
}

func payment(t *testing.T, db *gorm.DB, status string, amount int64, paidAt *time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&feeModel.FeePaymentModel{
		FeePaymentFeeID: uuid.New(), FeePaymentStudentID: uuid.New(),
		FeePaymentAmountPaid: decimal.NewFromInt(amount), FeePaymentStatus: status, FeePaymentPaidAt: paidAt,
	}).Error)
}

func expense(t *testing.T, db *gorm.DB, category, status string, amount int64, month time.Month) {
	t.Helper()
	require.NoError(t, db.Create(&expenseModel.ExpenseModel{
		ExpenseTitle: "x", ExpenseCategory: category, ExpenseStatus: status,
		ExpenseAmount: decimal.NewFromInt(amount), ExpenseDate: *at(2024, month, 2),
		ExpenseFiscalYear: 2024, ExpenseFiscalMonth: int(month),
	}).Error)
}

func TestSummary_Year(t *testing.T) {
	db := dbtest.New(t)
	svc := service.NewSummaryService(db)

	payment(t, db, constants.PaymentPaid, 500, at(2024, 3, 10))
	payment(t, db, constants.PaymentPartial, 300, at(2024, 3, 20))
	payment(t, db, constants.PaymentPaid, 200, at(2024, 7, 1))
	payment(t, db, constants.PaymentPaid, 999, at(2023, 12, 31))
	payment(t, db, constants.PaymentPending, 1000, nil)

	expense(t, db, constants.ExpenseUtilities, constants.ExpensePaid, 100, time.March)
	expense(t, db, constants.ExpenseEvents, constants.ExpenseApproved, 300, time.July)
	expense(t, db, constants.ExpenseEvents, constants.ExpensePending, 5000, time.July)

	require.NoError(t, db.Create(&payrollModel.PayrollRecordModel{
		PayrollEmployeeID: uuid.New(), PayrollPayYear: 2024, PayrollPayMonth: 3, PayrollStatus: constants.PayrollPaid,
		PayrollNetSalary: decimal.RequireFromString("3697.50"),
	}).Error)

	s, err := svc.Summary(context.Background(), 2024)
	require.NoError(t, err)
	assert.False(t, s.Partial)
	assert.True(t, s.Revenue.Equal(decimal.NewFromInt(1000)), s.Revenue.String())
	assert.True(t, s.Outstanding.Equal(decimal.NewFromInt(1000)))
	assert.True(t, s.Expenses.Equal(decimal.NewFromInt(400)))
	assert.True(t, s.NetIncome.Equal(decimal.NewFromInt(600)))
	assert.True(t, s.PayrollTotal.Equal(decimal.RequireFromString("3697.5")))
	require.True(t, s.CollectionRate.Sufficient())
	assert.InDelta(t, 50.0, *s.CollectionRate.Value, 0.001)

	require.Len(t, s.Monthly, 12)
	assert.True(t, s.Monthly[2].Revenue.Equal(decimal.NewFromInt(800)))
	assert.True(t, s.Monthly[2].Expenses.Equal(decimal.NewFromInt(100)))
	assert.True(t, s.Monthly[6].Net.Equal(decimal.NewFromInt(-100)))

	require.Len(t, s.ExpenseByCategory, len(constants.ExpenseCategories))
	assert.Equal(t, constants.ExpenseEvents, s.ExpenseByCategory[0].Category)
	assert.InDelta(t, 75.0, s.ExpenseByCategory[0].Percent, 0.001)
	assert.Len(t, s.Cards, 5)
}

func TestSummary_EmptyYearIsInsufficient(t *testing.T) {
	svc := service.NewSummaryService(dbtest.New(t))
	s, err := svc.Summary(context.Background(), 2030)
	require.NoError(t, err)
	assert.False(t, s.CollectionRate.Sufficient())
	assert.Equal(t, "N/A", s.Cards[4].Value)
	assert.True(t, s.Revenue.IsZero())

	_, err = svc.Summary(context.Background(), 1800)
	var ve *helper.ValidationError
	assert.True(t, errors.As(err, &ve))
}
