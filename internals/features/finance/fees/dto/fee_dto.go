package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/features/finance/fees/model"
	"schoolhub_backend/internals/features/reports/presenter"
)

/* ===================== Fees ===================== */

type CreateFeeRequest struct {
	FeeName         string          `json:"fee_name" validate:"required,max=120"`
	FeeType         string          `json:"fee_type" validate:"required,oneof=TUITION TRANSPORT LIBRARY LAB EXAM OTHER"`
	FeeAmount       decimal.Decimal `json:"fee_amount"`
	FeeDueDate      time.Time       `json:"fee_due_date" validate:"required"`
	FeeClassID      *uuid.UUID      `json:"fee_class_id"`
	FeeAcademicYear string          `json:"fee_academic_year" validate:"required,max=20"`
	FeeDescription  *string         `json:"fee_description" validate:"omitempty,max=2000"`
}

func (r *CreateFeeRequest) Normalize() {
	r.FeeName = strings.TrimSpace(r.FeeName)
	r.FeeType = strings.ToUpper(strings.TrimSpace(r.FeeType))
	r.FeeAcademicYear = strings.TrimSpace(r.FeeAcademicYear)
}

func (r CreateFeeRequest) ToModel() *model.FeeModel {
	return &model.FeeModel{
		FeeName:         r.FeeName,
		FeeType:         r.FeeType,
		FeeAmount:       r.FeeAmount.Round(2),
		FeeDueDate:      r.FeeDueDate,
		FeeClassID:      r.FeeClassID,
		FeeAcademicYear: r.FeeAcademicYear,
		FeeDescription:  r.FeeDescription,
	}
}

type UpdateFeeRequest struct {
	FeeName        *string          `json:"fee_name" validate:"omitempty,max=120"`
	FeeAmount      *decimal.Decimal `json:"fee_amount"`
	FeeDueDate     *time.Time       `json:"fee_due_date"`
	FeeDescription *string          `json:"fee_description" validate:"omitempty,max=2000"`
}

func (r UpdateFeeRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.FeeName != nil {
		m["fee_name"] = strings.TrimSpace(*r.FeeName)
	}
	if r.FeeAmount != nil {
		m["fee_amount"] = r.FeeAmount.Round(2)
	}
	if r.FeeDueDate != nil {
		m["fee_due_date"] = *r.FeeDueDate
	}
	if r.FeeDescription != nil {
		m["fee_description"] = *r.FeeDescription
	}
	return m
}

type FeeFilter struct {
	Type         string
	ClassID      *uuid.UUID
	AcademicYear string
}

/* ===================== Payments ===================== */

type RecordPaymentRequest struct {
	StudentID  uuid.UUID       `json:"student_id" validate:"required"`
	AmountPaid decimal.Decimal `json:"amount_paid"`
	Method     string          `json:"method" validate:"omitempty,oneof=cash bank_transfer card other"`
	PaidAt     *time.Time      `json:"paid_at"`
}

type PaymentFilter struct {
	FeeID     *uuid.UUID
	StudentID *uuid.UUID
	Status    string
}

type PaymentResponse struct {
	model.FeePaymentModel
	AmountText string          `json:"amount_text"`
	Style      presenter.Style `json:"style"`
}

func FromPayment(m model.FeePaymentModel) PaymentResponse {
	return PaymentResponse{
		FeePaymentModel: m,
		AmountText:      presenter.FormatCurrency(m.FeePaymentAmountPaid),
		Style:           presenter.StatusStyle(presenter.KindFeePayment, m.FeePaymentStatus),
	}
}

func FromPayments(rows []model.FeePaymentModel) []PaymentResponse {
	out := make([]PaymentResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromPayment(r))
	}
	return out
}

// CheckoutRequest: parents name the child; students pay for themselves.
type CheckoutRequest struct {
	StudentID *uuid.UUID `json:"student_id"`
}

type CheckoutResponse struct {
	PaymentID   uuid.UUID       `json:"payment_id"`
	OrderID     string          `json:"order_id"`
	Amount      decimal.Decimal `json:"amount"`
	SnapToken   string          `json:"snap_token"`
	RedirectURL string          `json:"redirect_url"`
}

// GatewayNotification is the Midtrans HTTP notification body.
type GatewayNotification struct {
	TransactionTime   string `json:"transaction_time"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	SignatureKey      string `json:"signature_key"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	FraudStatus       string `json:"fraud_status"`
	TransactionID     string `json:"transaction_id"`
}

type NotificationResult struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
	Changed bool   `json:"changed"`
}
