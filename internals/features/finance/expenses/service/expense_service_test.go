package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/finance/expenses/dto"
	"schoolhub_backend/internals/features/finance/expenses/service"
	helper "schoolhub_backend/internals/helpers"
)

func newExpense(t *testing.T, svc *service.ExpenseService, category string, amount int64, at time.Time) {
	t.Helper()
	_, err := svc.Create(context.Background(), dto.CreateExpenseRequest{
		ExpenseTitle: "Item", ExpenseCategory: category, ExpenseAmount: decimal.NewFromInt(amount), ExpenseDate: at,
	})
	require.NoError(t, err)
}

func TestCreate_DerivesFiscalPeriod(t *testing.T) {
	svc := service.NewExpenseService(dbtest.New(t))
	m, err := svc.Create(context.Background(), dto.CreateExpenseRequest{
		ExpenseTitle: " Electricity ", ExpenseCategory: "utilities",
		ExpenseAmount: decimal.RequireFromString("120.456"), ExpenseDate: time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "Electricity", m.ExpenseTitle)
	assert.Equal(t, constants.ExpenseUtilities, m.ExpenseCategory)
	assert.Equal(t, constants.ExpensePending, m.ExpenseStatus)
	assert.Equal(t, 2024, m.ExpenseFiscalYear)
	assert.Equal(t, 3, m.ExpenseFiscalMonth)
	assert.True(t, m.ExpenseAmount.Equal(decimal.RequireFromString("120.46")))

	_, err = svc.Create(context.Background(), dto.CreateExpenseRequest{
		ExpenseTitle: "Bad", ExpenseCategory: "FOOD", ExpenseAmount: decimal.NewFromInt(1), ExpenseDate: time.Now(),
	})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "expense_category")
}

func TestSetStatus_Transitions(t *testing.T) {
	svc := service.NewExpenseService(dbtest.New(t))
	ctx := context.Background()
	m, err := svc.Create(ctx, dto.CreateExpenseRequest{
		ExpenseTitle: "Chairs", ExpenseCategory: "SUPPLIES", ExpenseAmount: decimal.NewFromInt(300), ExpenseDate: time.Now(),
	})
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, m.ExpenseID, dto.UpdateStatusRequest{Status: constants.ExpensePaid})
	assert.True(t, errors.Is(err, helper.ErrConflict))

	got, err := svc.SetStatus(ctx, m.ExpenseID, dto.UpdateStatusRequest{Status: constants.ExpenseApproved})
	require.NoError(t, err)
	assert.Equal(t, constants.ExpenseApproved, got.ExpenseStatus)

	_, err = svc.Update(ctx, m.ExpenseID, dto.UpdateExpenseRequest{})
	assert.True(t, errors.Is(err, helper.ErrConflict))
	assert.True(t, errors.Is(svc.Delete(ctx, m.ExpenseID), helper.ErrConflict))

	got, err = svc.SetStatus(ctx, m.ExpenseID, dto.UpdateStatusRequest{Status: constants.ExpensePaid})
	require.NoError(t, err)
	assert.Equal(t, constants.ExpensePaid, got.ExpenseStatus)

	_, err = svc.SetStatus(ctx, m.ExpenseID, dto.UpdateStatusRequest{Status: constants.ExpenseRejected})
	assert.True(t, errors.Is(err, helper.ErrConflict))
}

func TestCanTransition(t *testing.T) {
	assert.True(t, service.CanTransition(constants.ExpensePending, constants.ExpenseRejected))
	assert.True(t, service.CanTransition(constants.ExpenseApproved, constants.ExpenseRejected))
	assert.False(t, service.CanTransition(constants.ExpenseRejected, constants.ExpenseApproved))
	assert.False(t, service.CanTransition(constants.ExpensePaid, constants.ExpensePending))
}

func TestList_FiltersByPeriodAndCategory(t *testing.T) {
	svc := service.NewExpenseService(dbtest.New(t))
	newExpense(t, svc, "UTILITIES", 10, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC))
	newExpense(t, svc, "UTILITIES", 20, time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC))
	newExpense(t, svc, "EVENTS", 30, time.Date(2024, 2, 7, 0, 0, 0, 0, time.UTC))
	newExpense(t, svc, "EVENTS", 40, time.Date(2023, 2, 7, 0, 0, 0, 0, time.UTC))

	q := helper.ListQuery{Page: 1, Limit: 10}
	page, err := svc.List(context.Background(), q, dto.ExpenseFilter{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(context.Background(), q, dto.ExpenseFilter{Category: "EVENTS"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	page, err = svc.List(context.Background(), q, dto.ExpenseFilter{Status: constants.ExpensePaid})
	require.NoError(t, err)
	assert.Equal(t, int64(0), page.Total)
	assert.NotNil(t, page.Items)
}
