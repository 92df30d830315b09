package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type FeeModel struct {
	FeeID           uuid.UUID       `gorm:"column:fee_id;type:uuid;primaryKey" json:"fee_id"`
	FeeName         string          `gorm:"column:fee_name;size:120;not null" json:"fee_name"`
	FeeType         string          `gorm:"column:fee_type;size:20;not null;index:idx_fees_type" json:"fee_type"`
	FeeAmount       decimal.Decimal `gorm:"column:fee_amount;type:numeric(14,2);not null" json:"fee_amount"`
	FeeDueDate      time.Time       `gorm:"column:fee_due_date;not null" json:"fee_due_date"`
	FeeClassID      *uuid.UUID      `gorm:"column:fee_class_id;type:uuid;index:idx_fees_class" json:"fee_class_id,omitempty"`
	FeeAcademicYear string          `gorm:"column:fee_academic_year;size:20;not null" json:"fee_academic_year"`
	FeeDescription  *string         `gorm:"column:fee_description;type:text" json:"fee_description,omitempty"`

	FeeCreatedAt time.Time      `gorm:"column:fee_created_at;autoCreateTime" json:"fee_created_at"`
	FeeUpdatedAt time.Time      `gorm:"column:fee_updated_at;autoUpdateTime" json:"fee_updated_at"`
	FeeDeletedAt gorm.DeletedAt `gorm:"column:fee_deleted_at;index" json:"-"`
}

func (FeeModel) TableName() string { return "fees" }

func (m *FeeModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeeID == uuid.Nil {
		m.FeeID = uuid.New()
	}
	return nil
}

type FeePaymentModel struct {
	FeePaymentID          uuid.UUID       `gorm:"column:fee_payment_id;type:uuid;primaryKey" json:"fee_payment_id"`
	FeePaymentFeeID       uuid.UUID       `gorm:"column:fee_payment_fee_id;type:uuid;not null;index:idx_fee_payments_fee" json:"fee_payment_fee_id"`
	FeePaymentStudentID   uuid.UUID       `gorm:"column:fee_payment_student_id;type:uuid;not null;index:idx_fee_payments_student" json:"fee_payment_student_id"`
	FeePaymentAmountPaid  decimal.Decimal `gorm:"column:fee_payment_amount_paid;type:numeric(14,2);not null" json:"fee_payment_amount_paid"`
	FeePaymentStatus      string          `gorm:"column:fee_payment_status;size:20;not null;index:idx_fee_payments_status" json:"fee_payment_status"`
	FeePaymentMethod      string          `gorm:"column:fee_payment_method;size:30;not null;default:'cash'" json:"fee_payment_method"`
	FeePaymentOrderID     *string         `gorm:"column:fee_payment_order_id;size:80;uniqueIndex:uq_fee_payments_order" json:"fee_payment_order_id,omitempty"`
	FeePaymentSnapToken   *string         `gorm:"column:fee_payment_snap_token;size:120" json:"fee_payment_snap_token,omitempty"`
	FeePaymentRedirectURL *string         `gorm:"column:fee_payment_redirect_url;type:text" json:"fee_payment_redirect_url,omitempty"`
	FeePaymentPaidAt      *time.Time      `gorm:"column:fee_payment_paid_at" json:"fee_payment_paid_at,omitempty"`
	FeePaymentGateway     datatypes.JSON  `gorm:"column:fee_payment_gateway_payload" json:"fee_payment_gateway_payload,omitempty"`

	FeePaymentCreatedAt time.Time `gorm:"column:fee_payment_created_at;autoCreateTime" json:"fee_payment_created_at"`
	FeePaymentUpdatedAt time.Time `gorm:"column:fee_payment_updated_at;autoUpdateTime" json:"fee_payment_updated_at"`
}

func (FeePaymentModel) TableName() string { return "fee_payments" }

func (m *FeePaymentModel) BeforeCreate(tx *gorm.DB) error {
	if m.FeePaymentID == uuid.Nil {
		m.FeePaymentID = uuid.New()
	}
	return nil
}
