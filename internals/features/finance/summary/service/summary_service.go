package service

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/summary/dto"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	helper "schoolhub_backend/internals/helpers"
)

type SummaryService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewSummaryService(db *gorm.DB) *SummaryService {
	return &SummaryService{DB: db, Now: time.Now}
}

type paymentRow struct {
	Status string          `gorm:"column:fee_payment_status"`
	Amount decimal.Decimal `gorm:"column:fee_payment_amount_paid"`
	PaidAt *time.Time      `gorm:"column:fee_payment_paid_at"`
}

type expenseRow struct {
	Category string          `gorm:"column:expense_category"`
	Amount   decimal.Decimal `gorm:"column:expense_amount"`
	Month    int             `gorm:"column:expense_fiscal_month"`
}

type payrollRow struct {
	Status string          `gorm:"column:payroll_status"`
	Net    decimal.Decimal `gorm:"column:payroll_net_salary"`
}

var paymentOrder = []string{
	constants.PaymentPaid, constants.PaymentPartial, constants.PaymentPending,
	constants.PaymentOverdue, constants.PaymentCancelled,
}

var payrollOrder = []string{constants.PayrollPending, constants.PayrollProcessed, constants.PayrollPaid}

// Summary reports one calendar year. Revenue is PAID/PARTIAL payments by paid_at,
// outstanding is every PENDING/OVERDUE payment as of now, expenses count once APPROVED or PAID.
// A failed read leaves its section at zero and marks the summary partial.
func (s *SummaryService) Summary(ctx context.Context, year int) (*dto.FinanceSummary, error) {
	if year == 0 {
		year = s.Now().Year()
	}
	if year < 2000 || year > 2100 {
		return nil, helper.NewFieldError("year", "year must be between 2000 and 2100")
	}
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	var payments, open []paymentRow
	var expenses []expenseRow
	var payroll []payrollRow
	errs := helper.FanOutSettled(ctx,
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("fee_payments").
				Select("fee_payment_status, fee_payment_amount_paid, fee_payment_paid_at").
				Where("fee_payment_paid_at >= ? AND fee_payment_paid_at < ?", from, to).
				Scan(&payments).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("fee_payments").
				Select("fee_payment_status, fee_payment_amount_paid").
				Where("fee_payment_status IN ?", []string{constants.PaymentPending, constants.PaymentOverdue}).
				Scan(&open).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("expenses").
				Select("expense_category, expense_amount, expense_fiscal_month").
				Where("expense_deleted_at IS NULL AND expense_fiscal_year = ?", year).
				Where("expense_status IN ?", []string{constants.ExpenseApproved, constants.ExpensePaid}).
				Scan(&expenses).Error
		},
		func(ctx context.Context) error {
			return s.DB.WithContext(ctx).Table("payroll_records").
				Select("payroll_status, payroll_net_salary").
				Where("payroll_pay_year = ?", year).
				Scan(&payroll).Error
		},
	)
	partial := false
	for _, err := range errs {
		if err != nil {
			partial = true
			configs.Logger("finance").Error().Err(err).Int("year", year).Msg("[FINANCE][SUMMARY] read failed")
		}
	}
	if allFailed(errs) {
		return nil, errors.Join(errs...)
	}

	out := &dto.FinanceSummary{Year: year, Partial: partial}

	revenuePoints := make([]aggregate.MonthlyPoint, 0, len(payments))
	statusCounts := map[string]int{}
	out.Revenue = decimal.Zero
	for _, p := range payments {
		statusCounts[p.Status]++
		if p.Status != constants.PaymentPaid && p.Status != constants.PaymentPartial {
			continue
		}
		out.Revenue = out.Revenue.Add(p.Amount)
		if p.PaidAt != nil {
			revenuePoints = append(revenuePoints, aggregate.MonthlyPoint{At: *p.PaidAt, Amount: p.Amount})
		}
	}
	out.Outstanding = decimal.Zero
	for _, p := range open {
		statusCounts[p.Status]++
		out.Outstanding = out.Outstanding.Add(p.Amount)
	}

	expensePoints := make([]aggregate.MonthlyPoint, 0, len(expenses))
	byCategory := aggregate.SumBy(expenses,
		func(e expenseRow) string { return e.Category },
		func(e expenseRow) decimal.Decimal { return e.Amount })
	out.Expenses = decimal.Zero
	for _, e := range expenses {
		out.Expenses = out.Expenses.Add(e.Amount)
		if e.Month >= 1 && e.Month <= 12 {
			expensePoints = append(expensePoints, aggregate.MonthlyPoint{
				At: time.Date(year, time.Month(e.Month), 1, 0, 0, 0, 0, time.UTC), Amount: e.Amount,
			})
		}
	}
	out.ExpenseByCategory = categoryTotals(byCategory, out.Expenses)

	out.PayrollTotal = decimal.Zero
	payrollCounts := aggregate.CountBy(payroll, func(p payrollRow) string { return p.Status })
	for _, p := range payroll {
		out.PayrollTotal = out.PayrollTotal.Add(p.Net)
	}

	out.NetIncome = out.Revenue.Sub(out.Expenses)
	billed := out.Revenue.Add(out.Outstanding)
	if billed.IsPositive() {
		out.CollectionRate = aggregate.Measured(aggregate.Round(
			aggregate.Percentage(presenter.ToFloat(out.Revenue), presenter.ToFloat(billed)), 1))
	} else {
		out.CollectionRate = aggregate.Insufficient()
	}

	revenue := aggregate.MonthlySums(revenuePoints)
	spent := aggregate.MonthlySums(expensePoints)
	out.Monthly = make([]dto.MonthlyFlow, 12)
	for i := range out.Monthly {
		out.Monthly[i] = dto.MonthlyFlow{
			Month: i + 1, Revenue: revenue[i], Expenses: spent[i], Net: revenue[i].Sub(spent[i]),
		}
	}

	out.PaymentStatus = presenter.StatusBars(presenter.KindFeePayment, paymentOrder, statusCounts)
	out.PayrollStatus = presenter.StatusBars(presenter.KindPayroll, payrollOrder, payrollCounts)
	out.Cards = []presenter.StatCard{
		presenter.MoneyCard("Revenue", out.Revenue, "Collected this year"),
		presenter.MoneyCard("Outstanding", out.Outstanding, "Pending and overdue"),
		presenter.MoneyCard("Expenses", out.Expenses, "Approved and paid"),
		presenter.MoneyCard("Payroll", out.PayrollTotal, "Net salaries"),
		presenter.MetricCard("Collection Rate", out.CollectionRate, "Collected of billed"),
	}
	return out, nil
}

func allFailed(errs []error) bool {
	for _, err := range errs {
		if err == nil {
			return false
		}
	}
	return true
}

// categoryTotals lists every expense category, largest first, ties by name.
func categoryTotals(sums map[string]decimal.Decimal, total decimal.Decimal) []dto.CategoryTotal {
	out := make([]dto.CategoryTotal, 0, len(constants.ExpenseCategories))
	for _, cat := range constants.ExpenseCategories {
		amt, ok := sums[cat]
		if !ok {
			amt = decimal.Zero
		}
		out = append(out, dto.CategoryTotal{
			Category: cat,
			Amount:   amt,
			Percent:  aggregate.Round(aggregate.Percentage(presenter.ToFloat(amt), presenter.ToFloat(total)), 1),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].Amount.Cmp(out[j].Amount); c != 0 {
			return c > 0
		}
		return out[i].Category < out[j].Category
	})
	return out
}
