package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PayrollRecordModel: one row per (employee, year, month).
type PayrollRecordModel struct {
	PayrollID            uuid.UUID       `gorm:"column:payroll_id;type:uuid;primaryKey" json:"payroll_id"`
	PayrollEmployeeID    uuid.UUID       `gorm:"column:payroll_employee_id;type:uuid;not null;uniqueIndex:uq_payroll_period" json:"payroll_employee_id"`
	PayrollPayYear       int             `gorm:"column:payroll_pay_year;not null;uniqueIndex:uq_payroll_period" json:"payroll_pay_year"`
	PayrollPayMonth      int             `gorm:"column:payroll_pay_month;not null;uniqueIndex:uq_payroll_period;check:chk_payroll_month,payroll_pay_month BETWEEN 1 AND 12" json:"payroll_pay_month"`
	PayrollBaseSalary    decimal.Decimal `gorm:"column:payroll_base_salary;type:numeric(14,2);not null" json:"payroll_base_salary"`
	PayrollAllowances    decimal.Decimal `gorm:"column:payroll_allowances;type:numeric(14,2);not null" json:"payroll_allowances"`
	PayrollOvertime      decimal.Decimal `gorm:"column:payroll_overtime;type:numeric(14,2);not null" json:"payroll_overtime"`
	PayrollGrossSalary   decimal.Decimal `gorm:"column:payroll_gross_salary;type:numeric(14,2);not null" json:"payroll_gross_salary"`
	PayrollTaxDeducted   decimal.Decimal `gorm:"column:payroll_tax_deducted;type:numeric(14,2);not null" json:"payroll_tax_deducted"`
	PayrollInsurance     decimal.Decimal `gorm:"column:payroll_insurance;type:numeric(14,2);not null" json:"payroll_insurance"`
	PayrollProvidentFund decimal.Decimal `gorm:"column:payroll_provident_fund;type:numeric(14,2);not null" json:"payroll_provident_fund"`
	PayrollNetSalary     decimal.Decimal `gorm:"column:payroll_net_salary;type:numeric(14,2);not null" json:"payroll_net_salary"`
	PayrollStatus        string          `gorm:"column:payroll_status;size:20;not null;default:'PENDING'" json:"payroll_status"`
	PayrollPaidAt        *time.Time      `gorm:"column:payroll_paid_at" json:"payroll_paid_at,omitempty"`

	PayrollCreatedAt time.Time `gorm:"column:payroll_created_at;autoCreateTime" json:"payroll_created_at"`
	PayrollUpdatedAt time.Time `gorm:"column:payroll_updated_at;autoUpdateTime" json:"payroll_updated_at"`
}

func (PayrollRecordModel) TableName() string { return "payroll_records" }

func (m *PayrollRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.PayrollID == uuid.Nil {
		m.PayrollID = uuid.New()
	}
	return nil
}
