package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/finance/fees/dto"
	"schoolhub_backend/internals/features/finance/fees/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/metrics"
)

type FeeService struct {
	DB        *gorm.DB
	Gateway   PaymentGateway
	ServerKey string
	Now       func() time.Time
}

func NewFeeService(db *gorm.DB, gateway PaymentGateway, serverKey string) *FeeService {
	return &FeeService{DB: db, Gateway: gateway, ServerKey: serverKey, Now: time.Now}
}

/* =========================================================
   FEES
   ========================================================= */

func (s *FeeService) List(ctx context.Context, q helper.ListQuery, f dto.FeeFilter) (helper.Page[model.FeeModel], error) {
	tx := s.DB.WithContext(ctx).Model(&model.FeeModel{})
	tx = helper.ApplySearch(tx, q.Search, "fee_name", "fee_description")
	filters := map[string]any{"fee_type": f.Type, "fee_academic_year": f.AcademicYear}
	if f.ClassID != nil {
		filters["fee_class_id"] = *f.ClassID
	}
	tx = helper.ApplyEquals(tx, filters)
	return helper.FetchPage[model.FeeModel](ctx, tx, q, "fee_due_date ASC")
}

func (s *FeeService) Get(ctx context.Context, id uuid.UUID) (*model.FeeModel, error) {
	var m model.FeeModel
	if err := s.DB.WithContext(ctx).First(&m, "fee_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Fee not found")
		}
		return nil, pkgErrors.Wrap(err, "load fee")
	}
	return &m, nil
}

func (s *FeeService) Create(ctx context.Context, req dto.CreateFeeRequest) (*model.FeeModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if !req.FeeAmount.IsPositive() {
		return nil, helper.NewFieldError("fee_amount", "fee_amount must be greater than 0")
	}
	m := req.ToModel()
	if err := s.DB.WithContext(ctx).Create(m).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "create fee")
	}
	return m, nil
}

func (s *FeeService) Update(ctx context.Context, id uuid.UUID, req dto.UpdateFeeRequest) (*model.FeeModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if req.FeeAmount != nil && !req.FeeAmount.IsPositive() {
		return nil, helper.NewFieldError("fee_amount", "fee_amount must be greater than 0")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := req.Updates()
	if len(updates) == 0 {
		return m, nil
	}
	if err := s.DB.WithContext(ctx).Model(m).Updates(updates).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "update fee")
	}
	return s.Get(ctx, id)
}

// Delete refuses fees that already have payments.
func (s *FeeService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	var n int64
	if err := s.DB.WithContext(ctx).Model(&model.FeePaymentModel{}).
		Where("fee_payment_fee_id = ?", id).Count(&n).Error; err != nil {
		return pkgErrors.Wrap(err, "count payments")
	}
	if n > 0 {
		return helper.Conflict("Fee has payments and cannot be deleted")
	}
	return s.DB.WithContext(ctx).Delete(&model.FeeModel{}, "fee_id = ?", id).Error
}

/* =========================================================
   PAYMENTS
   ========================================================= */

// paidSoFar sums settled amounts for one student and fee.
func (s *FeeService) paidSoFar(ctx context.Context, db *gorm.DB, feeID, studentID uuid.UUID) (decimal.Decimal, error) {
	var amounts []decimal.Decimal
	err := db.WithContext(ctx).Model(&model.FeePaymentModel{}).
		Where("fee_payment_fee_id = ? AND fee_payment_student_id = ? AND fee_payment_status IN ?",
			feeID, studentID, []string{constants.PaymentPaid, constants.PaymentPartial}).
		Pluck("fee_payment_amount_paid", &amounts).Error
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total, err
}

func (s *FeeService) loadStudent(ctx context.Context, id uuid.UUID) (*userModel.UserModel, error) {
	var u userModel.UserModel
	err := s.DB.WithContext(ctx).
		Where("id = ? AND role = ?", id, constants.RoleStudent).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, helper.NewFieldError("student_id", "student not found")
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "load student")
	}
	return &u, nil
}

// RecordPayment stores a manual payment: PAID when the cumulative amount covers the fee, PARTIAL otherwise.
func (s *FeeService) RecordPayment(ctx context.Context, feeID uuid.UUID, req dto.RecordPaymentRequest) (*model.FeePaymentModel, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if !req.AmountPaid.IsPositive() {
		return nil, helper.NewFieldError("amount_paid", "amount_paid must be greater than 0")
	}
	fee, err := s.Get(ctx, feeID)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	var out *model.FeePaymentModel
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		paid, err := s.paidSoFar(ctx, tx, feeID, req.StudentID)
		if err != nil {
			return pkgErrors.Wrap(err, "sum payments")
		}
		if paid.GreaterThanOrEqual(fee.FeeAmount) {
			return helper.Conflict("Fee is already fully paid")
		}
		status := constants.PaymentPartial
		if paid.Add(req.AmountPaid).GreaterThanOrEqual(fee.FeeAmount) {
			status = constants.PaymentPaid
		}
		paidAt := s.Now()
		if req.PaidAt != nil {
			paidAt = *req.PaidAt
		}
		method := req.Method
		if method == "" {
			method = "cash"
		}
		out = &model.FeePaymentModel{
			FeePaymentFeeID:      feeID,
			FeePaymentStudentID:  req.StudentID,
			FeePaymentAmountPaid: req.AmountPaid.Round(2),
			FeePaymentStatus:     status,
			FeePaymentMethod:     method,
			FeePaymentPaidAt:     &paidAt,
		}
		return tx.Create(out).Error
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *FeeService) ListPayments(ctx context.Context, q helper.ListQuery, f dto.PaymentFilter) (helper.Page[model.FeePaymentModel], error) {
	tx := s.DB.WithContext(ctx).Model(&model.FeePaymentModel{})
	filters := map[string]any{"fee_payment_status": f.Status}
	if f.FeeID != nil {
		filters["fee_payment_fee_id"] = *f.FeeID
	}
	if f.StudentID != nil {
		filters["fee_payment_student_id"] = *f.StudentID
	}
	tx = helper.ApplyEquals(tx, filters)
	tx = helper.ApplySearch(tx, q.Search, "fee_payment_order_id", "fee_payment_method")
	return helper.FetchPage[model.FeePaymentModel](ctx, tx, q, "fee_payment_created_at DESC")
}

// PaymentsForFamily lists payments of the caller (student) or of the caller's children (parent).
func (s *FeeService) PaymentsForFamily(ctx context.Context, q helper.ListQuery, userID uuid.UUID, role string) (helper.Page[model.FeePaymentModel], error) {
	tx := s.DB.WithContext(ctx).Model(&model.FeePaymentModel{})
	switch role {
	case constants.RoleStudent:
		tx = tx.Where("fee_payment_student_id = ?", userID)
	case constants.RoleParent:
		children := s.DB.WithContext(ctx).Model(&userModel.UserModel{}).
			Select("id").Where("parent_id = ? AND role = ?", userID, constants.RoleStudent)
		tx = tx.Where("fee_payment_student_id IN (?)", children)
	default:
		return helper.Page[model.FeePaymentModel]{Items: []model.FeePaymentModel{}}, helper.Forbidden("Only students or parents have family payments")
	}
	return helper.FetchPage[model.FeePaymentModel](ctx, tx, q, "fee_payment_created_at DESC")
}

/* =========================================================
   ONLINE CHECKOUT
   ========================================================= */

// Checkout opens a PENDING payment for the outstanding balance and asks the gateway for a Snap token.
func (s *FeeService) Checkout(ctx context.Context, userID uuid.UUID, role string, feeID uuid.UUID, req dto.CheckoutRequest) (*dto.CheckoutResponse, error) {
	fee, err := s.Get(ctx, feeID)
	if err != nil {
		return nil, err
	}

	studentID := userID
	switch role {
	case constants.RoleStudent:
	case constants.RoleParent:
		if req.StudentID == nil {
			return nil, helper.NewFieldError("student_id", "student_id is required")
		}
		studentID = *req.StudentID
	default:
		return nil, helper.Forbidden("Only students or parents can pay fees online")
	}
	student, err := s.loadStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if role == constants.RoleParent && (student.ParentID == nil || *student.ParentID != userID) {
		return nil, helper.Forbidden("Student is not linked to this parent")
	}
	if fee.FeeClassID != nil && (student.ClassID == nil || *student.ClassID != *fee.FeeClassID) {
		return nil, helper.NewFieldError("fee_id", "fee does not apply to this student's class")
	}

	paid, err := s.paidSoFar(ctx, s.DB, feeID, studentID)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "sum payments")
	}
	outstanding := fee.FeeAmount.Sub(paid)
	if !outstanding.IsPositive() {
		return nil, helper.Conflict("Fee is already fully paid")
	}

	orderID := "FEE-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:16])
	p := &model.FeePaymentModel{
		FeePaymentFeeID:      feeID,
		FeePaymentStudentID:  studentID,
		FeePaymentAmountPaid: outstanding,
		FeePaymentStatus:     constants.PaymentPending,
		FeePaymentMethod:     "midtrans",
		FeePaymentOrderID:    &orderID,
	}
	if err := s.DB.WithContext(ctx).Create(p).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "create payment")
	}

	phone := ""
	if student.Phone != nil {
		phone = *student.Phone
	}
	token, redirect, err := s.Gateway.CreateSnap(SnapRequest{
		OrderID:  orderID,
		Amount:   outstanding,
		ItemName: fee.FeeName,
		Category: fee.FeeType,
		Customer: Customer{FullName: student.FullName, Email: student.Email, Phone: phone},
	})
	if err != nil {
		_ = s.DB.WithContext(ctx).Model(p).Update("fee_payment_status", constants.PaymentCancelled).Error
		configs.Logger("fees").Error().Err(err).Str("order_id", orderID).Msg("[FEE][CHECKOUT] gateway failed")
		return nil, pkgErrors.Wrap(err, "create snap transaction")
	}
	if err := s.DB.WithContext(ctx).Model(p).Updates(map[string]any{
		"fee_payment_snap_token":   token,
		"fee_payment_redirect_url": redirect,
	}).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "save snap token")
	}
	return &dto.CheckoutResponse{
		PaymentID:   p.FeePaymentID,
		OrderID:     orderID,
		Amount:      outstanding,
		SnapToken:   token,
		RedirectURL: redirect,
	}, nil
}

// HandleNotification applies a verified gateway notification. Replays of the current status change nothing.
// Without a server key every notification is rejected.
func (s *FeeService) HandleNotification(ctx context.Context, n dto.GatewayNotification) (*dto.NotificationResult, error) {
	if strings.TrimSpace(s.ServerKey) == "" {
		metrics.PaymentNotifications.WithLabelValues("not_configured").Inc()
		return nil, helper.Unauthorized("Payment notifications are not configured")
	}
	want := strings.ToLower(strings.TrimSpace(n.SignatureKey))
	if want == "" || want != Signature(n.OrderID, n.StatusCode, n.GrossAmount, s.ServerKey) {
		metrics.PaymentNotifications.WithLabelValues("invalid_signature").Inc()
		return nil, helper.Unauthorized("Invalid signature")
	}
	log := configs.Logger("fees").With().Str("order_id", n.OrderID).Logger()

	var p model.FeePaymentModel
	if err := s.DB.WithContext(ctx).First(&p, "fee_payment_order_id = ?", n.OrderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			metrics.PaymentNotifications.WithLabelValues("unknown_order").Inc()
			log.Warn().Msg("[FEE][NOTIFY] payment not found")
			return &dto.NotificationResult{OrderID: n.OrderID, Status: "ignored"}, nil
		}
		return nil, pkgErrors.Wrap(err, "load payment")
	}

	status, ok := MapGatewayStatus(n.TransactionStatus, n.FraudStatus)
	if !ok || status == p.FeePaymentStatus || p.FeePaymentStatus == constants.PaymentPaid {
		metrics.PaymentNotifications.WithLabelValues("unchanged").Inc()
		return &dto.NotificationResult{OrderID: n.OrderID, Status: p.FeePaymentStatus}, nil
	}

	payload, err := sonic.Marshal(n)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "encode notification")
	}
	updates := map[string]any{
		"fee_payment_status":          status,
		"fee_payment_gateway_payload": datatypes.JSON(payload),
	}
	if status == constants.PaymentPaid {
		now := s.Now()
		updates["fee_payment_paid_at"] = now
		if amt, err := decimal.NewFromString(n.GrossAmount); err == nil && amt.IsPositive() {
			updates["fee_payment_amount_paid"] = amt.Round(2)
		}
	}
	res := s.DB.WithContext(ctx).Model(&model.FeePaymentModel{}).
		Where("fee_payment_id = ? AND fee_payment_status = ?", p.FeePaymentID, p.FeePaymentStatus).
		Updates(updates)
	if res.Error != nil {
		return nil, pkgErrors.Wrap(res.Error, "update payment")
	}
	changed := res.RowsAffected > 0
	if changed {
		metrics.PaymentNotifications.WithLabelValues("applied").Inc()
		log.Info().Str("status", status).Msg("[FEE][NOTIFY] payment updated")
	}
	return &dto.NotificationResult{OrderID: n.OrderID, Status: status, Changed: changed}, nil
}
