package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/finance/fees/dto"
	"schoolhub_backend/internals/features/finance/fees/model"
	"schoolhub_backend/internals/features/finance/fees/service"
	userModel "schoolhub_backend/internals/features/users/user/model"
	helper "schoolhub_backend/internals/helpers"
)

const serverKey = "SB-Mid-server-test"

type fakeGateway struct {
	calls []service.SnapRequest
	err   error
}

func (g *fakeGateway) CreateSnap(r service.SnapRequest) (string, string, error) {
	g.calls = append(g.calls, r)
	if g.err != nil {
		return "", "", g.err
	}
	return "snap-token-1", "https://app.sandbox.midtrans.com/snap/v2/vtweb/snap-token-1", nil
}

func setup(t *testing.T) (*gorm.DB, *service.FeeService, *fakeGateway, *model.FeeModel) {
	t.Helper()
	db := dbtest.New(t)
	gw := &fakeGateway{}
	svc := service.NewFeeService(db, gw, serverKey)
	fee, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		FeeName: "Tuition Term 1", FeeType: "tuition", FeeAmount: decimal.NewFromInt(500),
		FeeDueDate: time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC), FeeAcademicYear: "2024/2025",
	})
	require.NoError(t, err)
	return db, svc, gw, fee
}

func TestCreate_AmountMustBePositive(t *testing.T) {
	_, svc, _, _ := setup(t)
	_, err := svc.Create(context.Background(), dto.CreateFeeRequest{
		FeeName: "Lab", FeeType: "LAB", FeeAmount: decimal.Zero, FeeDueDate: time.Now(), FeeAcademicYear: "2024/2025",
	})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "fee_amount")
}

func TestRecordPayment_PartialThenPaid(t *testing.T) {
	db, svc, _, fee := setup(t)
	ctx := context.Background()
	st := dbtest.User(t, db, constants.RoleStudent)

	p, err := svc.RecordPayment(ctx, fee.FeeID, dto.RecordPaymentRequest{StudentID: st.ID, AmountPaid: decimal.NewFromInt(200)})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentPartial, p.FeePaymentStatus)
	assert.Equal(t, "cash", p.FeePaymentMethod)

	p, err = svc.RecordPayment(ctx, fee.FeeID, dto.RecordPaymentRequest{StudentID: st.ID, AmountPaid: decimal.NewFromInt(300)})
	require.NoError(t, err)
	assert.Equal(t, constants.PaymentPaid, p.FeePaymentStatus)

	_, err = svc.RecordPayment(ctx, fee.FeeID, dto.RecordPaymentRequest{StudentID: st.ID, AmountPaid: decimal.NewFromInt(1)})
	assert.True(t, errors.Is(err, helper.ErrConflict))

	assert.True(t, errors.Is(svc.Delete(ctx, fee.FeeID), helper.ErrConflict))
}

func TestCheckout_ParentMustOwnChild(t *testing.T) {
	db, svc, gw, fee := setup(t)
	ctx := context.Background()
	parent := dbtest.User(t, db, constants.RoleParent)
	other := dbtest.User(t, db, constants.RoleParent)
	child := dbtest.User(t, db, constants.RoleStudent, func(u *userModel.UserModel) { u.ParentID = &parent.ID })

	_, err := svc.Checkout(ctx, other.ID, constants.RoleParent, fee.FeeID, dto.CheckoutRequest{StudentID: &child.ID})
	assert.True(t, errors.Is(err, helper.ErrForbidden))

	_, err = svc.Checkout(ctx, parent.ID, constants.RoleTeacher, fee.FeeID, dto.CheckoutRequest{})
	assert.True(t, errors.Is(err, helper.ErrForbidden))

	res, err := svc.Checkout(ctx, parent.ID, constants.RoleParent, fee.FeeID, dto.CheckoutRequest{StudentID: &child.ID})
	require.NoError(t, err)
	assert.Equal(t, "snap-token-1", res.SnapToken)
	assert.True(t, res.Amount.Equal(decimal.NewFromInt(500)))
	require.Len(t, gw.calls, 1)
	assert.Equal(t, res.OrderID, gw.calls[0].OrderID)

	var p model.FeePaymentModel
	require.NoError(t, db.First(&p, "fee_payment_id = ?", res.PaymentID).Error)
	assert.Equal(t, constants.PaymentPending, p.FeePaymentStatus)
	require.NotNil(t, p.FeePaymentSnapToken)
}

func TestCheckout_GatewayFailureCancelsPayment(t *testing.T) {
	db, svc, gw, fee := setup(t)
	gw.err = errors.New("gateway down")
	st := dbtest.User(t, db, constants.RoleStudent)

	_, err := svc.Checkout(context.Background(), st.ID, constants.RoleStudent, fee.FeeID, dto.CheckoutRequest{})
	require.Error(t, err)

	var p model.FeePaymentModel
	require.NoError(t, db.First(&p, "fee_payment_student_id = ?", st.ID).Error)
	assert.Equal(t, constants.PaymentCancelled, p.FeePaymentStatus)
}

func notification(orderID, status string) dto.GatewayNotification {
	n := dto.GatewayNotification{
		OrderID: orderID, StatusCode: "200", GrossAmount: "500.00", TransactionStatus: status,
	}
	n.SignatureKey = service.Signature(n.OrderID, n.StatusCode, n.GrossAmount, serverKey)
	return n
}

func TestHandleNotification_SettlementIsIdempotent(t *testing.T) {
	db, svc, _, fee := setup(t)
	ctx := context.Background()
	st := dbtest.User(t, db, constants.RoleStudent)
	res, err := svc.Checkout(ctx, st.ID, constants.RoleStudent, fee.FeeID, dto.CheckoutRequest{})
	require.NoError(t, err)

	bad := notification(res.OrderID, "settlement")
	bad.SignatureKey = "deadbeef"
	_, err = svc.HandleNotification(ctx, bad)
	assert.True(t, errors.Is(err, helper.ErrUnauthorized))

	out, err := svc.HandleNotification(ctx, notification(res.OrderID, "settlement"))
	require.NoError(t, err)
	assert.True(t, out.Changed)
	assert.Equal(t, constants.PaymentPaid, out.Status)

	out, err = svc.HandleNotification(ctx, notification(res.OrderID, "settlement"))
	require.NoError(t, err)
	assert.False(t, out.Changed)

	out, err = svc.HandleNotification(ctx, notification(res.OrderID, "expire"))
	require.NoError(t, err)
	assert.False(t, out.Changed)
	assert.Equal(t, constants.PaymentPaid, out.Status)

	var p model.FeePaymentModel
	require.NoError(t, db.First(&p, "fee_payment_id = ?", res.PaymentID).Error)
	assert.Equal(t, constants.PaymentPaid, p.FeePaymentStatus)
	assert.NotNil(t, p.FeePaymentPaidAt)
	assert.Contains(t, string(p.FeePaymentGateway), res.OrderID)

	unknown, err := svc.HandleNotification(ctx, notification("FEE-UNKNOWN", "settlement"))
	require.NoError(t, err)
	assert.Equal(t, "ignored", unknown.Status)
}

func TestHandleNotification_RejectsWithoutServerKey(t *testing.T) {
	db, _, gw, fee := setup(t)
	ctx := context.Background()
	unsigned := service.NewFeeService(db, gw, "")
	st := dbtest.User(t, db, constants.RoleStudent)
	res, err := unsigned.Checkout(ctx, st.ID, constants.RoleStudent, fee.FeeID, dto.CheckoutRequest{})
	require.NoError(t, err)

	n := dto.GatewayNotification{
		OrderID: res.OrderID, StatusCode: "200", GrossAmount: "500.00", TransactionStatus: "settlement",
	}
	n.SignatureKey = service.Signature(n.OrderID, n.StatusCode, n.GrossAmount, "")
	_, err = unsigned.HandleNotification(ctx, n)
	assert.True(t, errors.Is(err, helper.ErrUnauthorized))

	var p model.FeePaymentModel
	require.NoError(t, db.First(&p, "fee_payment_id = ?", res.PaymentID).Error)
	assert.Equal(t, constants.PaymentPending, p.FeePaymentStatus)
}

func TestMapGatewayStatus(t *testing.T) {
	cases := map[[2]string]string{
		{"capture", "accept"}:    constants.PaymentPaid,
		{"capture", "challenge"}: constants.PaymentPending,
		{"capture", "deny"}:      constants.PaymentCancelled,
		{"settlement", ""}:       constants.PaymentPaid,
		{"expire", ""}:           constants.PaymentCancelled,
	}
	for in, want := range cases {
		got, ok := service.MapGatewayStatus(in[0], in[1])
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := service.MapGatewayStatus("refund", "")
	assert.False(t, ok)
}

func TestPaymentsForFamily(t *testing.T) {
	db, svc, _, fee := setup(t)
	ctx := context.Background()
	parent := dbtest.User(t, db, constants.RoleParent)
	child := dbtest.User(t, db, constants.RoleStudent, func(u *userModel.UserModel) { u.ParentID = &parent.ID })
	stranger := dbtest.User(t, db, constants.RoleStudent)
	for _, id := range []uuid.UUID{child.ID, stranger.ID} {
		_, err := svc.RecordPayment(ctx, fee.FeeID, dto.RecordPaymentRequest{StudentID: id, AmountPaid: decimal.NewFromInt(100)})
		require.NoError(t, err)
	}

	page, err := svc.PaymentsForFamily(ctx, helper.ListQuery{Page: 1, Limit: 10}, parent.ID, constants.RoleParent)
	require.NoError(t, err)
	require.Equal(t, int64(1), page.Total)
	assert.Equal(t, child.ID, page.Items[0].FeePaymentStudentID)

	_, err = svc.PaymentsForFamily(ctx, helper.ListQuery{Page: 1, Limit: 10}, parent.ID, constants.RoleAdmin)
	assert.True(t, errors.Is(err, helper.ErrForbidden))
}
