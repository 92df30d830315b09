package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/features/finance/expenses/model"
	"schoolhub_backend/internals/features/reports/presenter"
)

type CreateExpenseRequest struct {
	ExpenseTitle       string          `json:"expense_title" validate:"required,max=160"`
	ExpenseCategory    string          `json:"expense_category" validate:"required,oneof=SALARIES UTILITIES MAINTENANCE SUPPLIES TRANSPORT EVENTS OTHER"`
	ExpenseAmount      decimal.Decimal `json:"expense_amount"`
	ExpenseDate        time.Time       `json:"expense_date" validate:"required"`
	ExpenseVendor      *string         `json:"expense_vendor" validate:"omitempty,max=160"`
	ExpenseDescription *string         `json:"expense_description" validate:"omitempty,max=2000"`
}

func (r *CreateExpenseRequest) Normalize() {
	r.ExpenseTitle = strings.TrimSpace(r.ExpenseTitle)
	r.ExpenseCategory = strings.ToUpper(strings.TrimSpace(r.ExpenseCategory))
}

func (r CreateExpenseRequest) ToModel(status string) *model.ExpenseModel {
	return &model.ExpenseModel{
		ExpenseTitle:       r.ExpenseTitle,
		ExpenseCategory:    r.ExpenseCategory,
		ExpenseAmount:      r.ExpenseAmount.Round(2),
		ExpenseStatus:      status,
		ExpenseFiscalYear:  r.ExpenseDate.Year(),
		ExpenseFiscalMonth: int(r.ExpenseDate.Month()),
		ExpenseDate:        r.ExpenseDate,
		ExpenseVendor:      r.ExpenseVendor,
		ExpenseDescription: r.ExpenseDescription,
	}
}

// UpdateExpenseRequest edits a PENDING expense.
type UpdateExpenseRequest struct {
	ExpenseTitle       *string          `json:"expense_title" validate:"omitempty,max=160"`
	ExpenseCategory    *string          `json:"expense_category" validate:"omitempty,oneof=SALARIES UTILITIES MAINTENANCE SUPPLIES TRANSPORT EVENTS OTHER"`
	ExpenseAmount      *decimal.Decimal `json:"expense_amount"`
	ExpenseDate        *time.Time       `json:"expense_date"`
	ExpenseVendor      *string          `json:"expense_vendor" validate:"omitempty,max=160"`
	ExpenseDescription *string          `json:"expense_description" validate:"omitempty,max=2000"`
}

func (r *UpdateExpenseRequest) Normalize() {
	if r.ExpenseCategory != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.ExpenseCategory))
		r.ExpenseCategory = &v
	}
}

func (r UpdateExpenseRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.ExpenseTitle != nil {
		m["expense_title"] = strings.TrimSpace(*r.ExpenseTitle)
	}
	if r.ExpenseCategory != nil {
		m["expense_category"] = *r.ExpenseCategory
	}
	if r.ExpenseAmount != nil {
		m["expense_amount"] = r.ExpenseAmount.Round(2)
	}
	if r.ExpenseDate != nil {
		m["expense_date"] = *r.ExpenseDate
		m["expense_fiscal_year"] = r.ExpenseDate.Year()
		m["expense_fiscal_month"] = int(r.ExpenseDate.Month())
	}
	if r.ExpenseVendor != nil {
		m["expense_vendor"] = *r.ExpenseVendor
	}
	if r.ExpenseDescription != nil {
		m["expense_description"] = *r.ExpenseDescription
	}
	return m
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=APPROVED PAID REJECTED"`
}

type ExpenseFilter struct {
	Category string
	Status   string
	Year     int
	Month    int
}

type ExpenseResponse struct {
	model.ExpenseModel
	AmountText string          `json:"amount_text"`
	Style      presenter.Style `json:"style"`
}

func FromModel(m model.ExpenseModel) ExpenseResponse {
	return ExpenseResponse{
		ExpenseModel: m,
		AmountText:   presenter.FormatCurrency(m.ExpenseAmount),
		Style:        presenter.StatusStyle(presenter.KindExpense, m.ExpenseStatus),
	}
}

func FromModels(rows []model.ExpenseModel) []ExpenseResponse {
	out := make([]ExpenseResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}
