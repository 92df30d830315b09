package dto

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/features/finance/payroll/model"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
)

// GenerateRequest: overtime is keyed by teacher id; absent teachers get zero.
type GenerateRequest struct {
	Year     int                        `json:"year" validate:"required,gte=2000,lte=2100"`
	Month    int                        `json:"month" validate:"required,gte=1,lte=12"`
	Overtime map[string]decimal.Decimal `json:"overtime"`
}

type GenerateError struct {
	TeacherID uuid.UUID `json:"teacher_id"`
	Error     string    `json:"error"`
}

// GenerateResult mirrors the bulk import contract: per-row failures do not abort the run.
type GenerateResult struct {
	Year      int             `json:"year"`
	Month     int             `json:"month"`
	Generated int             `json:"generated"`
	Skipped   int             `json:"skipped"`
	Errors    []GenerateError `json:"errors"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PROCESSED PAID"`
}

type PayrollFilter struct {
	Year       int
	Month      int
	Status     string
	EmployeeID *uuid.UUID
}

type Preview struct {
	TeacherID uuid.UUID                  `json:"teacher_id"`
	Input     aggregate.PayrollInput     `json:"input"`
	Breakdown aggregate.PayrollBreakdown `json:"breakdown"`
}

type PayrollResponse struct {
	model.PayrollRecordModel
	EmployeeName string          `json:"employee_name,omitempty"`
	NetText      string          `json:"net_text"`
	Style        presenter.Style `json:"style"`
}

func FromModel(m model.PayrollRecordModel, name string) PayrollResponse {
	return PayrollResponse{
		PayrollRecordModel: m,
		EmployeeName:       name,
		NetText:            presenter.FormatCurrency(m.PayrollNetSalary),
		Style:              presenter.StatusStyle(presenter.KindPayroll, m.PayrollStatus),
	}
}

// ToModel copies a computed breakdown into a PENDING record.
func ToModel(teacherID uuid.UUID, year, month int, b aggregate.PayrollBreakdown) *model.PayrollRecordModel {
	return &model.PayrollRecordModel{
		PayrollEmployeeID:    teacherID,
		PayrollPayYear:       year,
		PayrollPayMonth:      month,
		PayrollBaseSalary:    b.BaseSalary,
		PayrollAllowances:    b.Allowances,
		PayrollOvertime:      b.Overtime,
		PayrollGrossSalary:   b.GrossSalary,
		PayrollTaxDeducted:   b.TaxDeducted,
		PayrollInsurance:     b.Insurance,
		PayrollProvidentFund: b.ProvidentFund,
		PayrollNetSalary:     b.NetSalary,
	}
}
