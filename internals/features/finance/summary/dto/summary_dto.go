package dto

import (
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
)

type MonthlyFlow struct {
	Month    int             `json:"month"`
	Revenue  decimal.Decimal `json:"revenue"`
	Expenses decimal.Decimal `json:"expenses"`
	Net      decimal.Decimal `json:"net"`
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Percent  float64         `json:"percent"`
}

type FinanceSummary struct {
	Year              int                  `json:"year"`
	Revenue           decimal.Decimal      `json:"revenue"`
	Outstanding       decimal.Decimal      `json:"outstanding"`
	Expenses          decimal.Decimal      `json:"expenses"`
	PayrollTotal      decimal.Decimal      `json:"payroll_total"`
	NetIncome         decimal.Decimal      `json:"net_income"`
	CollectionRate    aggregate.Metric     `json:"collection_rate"`
	ExpenseByCategory []CategoryTotal      `json:"expense_by_category"`
	PaymentStatus     []presenter.Bar      `json:"payment_status"`
	PayrollStatus     []presenter.Bar      `json:"payroll_status"`
	Monthly           []MonthlyFlow        `json:"monthly"`
	Cards             []presenter.StatCard `json:"cards"`
	Partial           bool                 `json:"partial,omitempty"`
}
