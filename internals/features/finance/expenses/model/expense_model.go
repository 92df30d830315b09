package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ExpenseModel struct {
	ExpenseID          uuid.UUID       `gorm:"column:expense_id;type:uuid;primaryKey" json:"expense_id"`
	ExpenseTitle       string          `gorm:"column:expense_title;size:160;not null" json:"expense_title"`
	ExpenseCategory    string          `gorm:"column:expense_category;size:20;not null;index:idx_expenses_category" json:"expense_category"`
	ExpenseAmount      decimal.Decimal `gorm:"column:expense_amount;type:numeric(14,2);not null" json:"expense_amount"`
	ExpenseStatus      string          `gorm:"column:expense_status;size:20;not null;default:'PENDING'" json:"expense_status"`
	ExpenseFiscalYear  int             `gorm:"column:expense_fiscal_year;not null;index:idx_expenses_period" json:"expense_fiscal_year"`
	ExpenseFiscalMonth int             `gorm:"column:expense_fiscal_month;not null;index:idx_expenses_period;check:chk_expense_month,expense_fiscal_month BETWEEN 1 AND 12" json:"expense_fiscal_month"`
	ExpenseDate        time.Time       `gorm:"column:expense_date;not null" json:"expense_date"`
	ExpenseVendor      *string         `gorm:"column:expense_vendor;size:160" json:"expense_vendor,omitempty"`
	ExpenseDescription *string         `gorm:"column:expense_description;type:text" json:"expense_description,omitempty"`

	ExpenseCreatedAt time.Time      `gorm:"column:expense_created_at;autoCreateTime" json:"expense_created_at"`
	ExpenseUpdatedAt time.Time      `gorm:"column:expense_updated_at;autoUpdateTime" json:"expense_updated_at"`
	ExpenseDeletedAt gorm.DeletedAt `gorm:"column:expense_deleted_at;index" json:"-"`
}

func (ExpenseModel) TableName() string { return "expenses" }

func (m *ExpenseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExpenseID == uuid.Nil {
		m.ExpenseID = uuid.New()
	}
	if m.ExpenseFiscalYear == 0 && !m.ExpenseDate.IsZero() {
		m.ExpenseFiscalYear = m.ExpenseDate.Year()
		m.ExpenseFiscalMonth = int(m.ExpenseDate.Month())
	}
	return nil
}
