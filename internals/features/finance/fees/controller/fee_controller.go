package controller

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/finance/fees/dto"
	"schoolhub_backend/internals/features/finance/fees/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type FeeController struct {
	Svc *service.FeeService
}

func NewFeeController(svc *service.FeeService) *FeeController {
	return &FeeController{Svc: svc}
}

/* ===================== Fees (admin) ===================== */

// GET /api/a/fees?fee_type=&class_id=&academic_year=&search=
func (ctl *FeeController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	page, err := ctl.Svc.List(c.UserContext(), q, dto.FeeFilter{
		Type:         c.Query("fee_type"),
		ClassID:      classID,
		AcademicYear: c.Query("academic_year"),
	})
	if err != nil {
		configs.Logger("fees").Error().Err(err).Msg("[FEE][LIST] query failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

func (ctl *FeeController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

func (ctl *FeeController) Create(c *fiber.Ctx) error {
	var req dto.CreateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Fee created", m)
}

func (ctl *FeeController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateFeeRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Fee updated", m)
}

func (ctl *FeeController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Fee deleted", fiber.Map{"fee_id": id})
}

/* ===================== Payments ===================== */

// POST /api/a/fees/:id/payments
func (ctl *FeeController) RecordPayment(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.RecordPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	p, err := ctl.Svc.RecordPayment(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Payment recorded", dto.FromPayment(*p))
}

// GET /api/a/payments?fee_id=&student_id=&status=
func (ctl *FeeController) ListPayments(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	var f dto.PaymentFilter
	var err error
	if f.FeeID, err = helper.QueryUUID(c, "fee_id"); err != nil {
		return helper.FromError(c, err)
	}
	if f.StudentID, err = helper.QueryUUID(c, "student_id"); err != nil {
		return helper.FromError(c, err)
	}
	f.Status = c.Query("status")
	page, err := ctl.Svc.ListPayments(c.UserContext(), q, f)
	if err != nil {
		configs.Logger("fees").Error().Err(err).Msg("[FEE][PAYMENTS] query failed")
	}
	return helper.JsonList(c, "ok", dto.FromPayments(page.Items), q.Pagination(page.Total))
}

// GET /api/u/payments/my
func (ctl *FeeController) MyPayments(c *fiber.Ctx) error {
	uid, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	page, err := ctl.Svc.PaymentsForFamily(c.UserContext(), q, uid, helperAuth.GetRole(c))
	if errors.Is(err, helper.ErrForbidden) {
		return helper.FromError(c, err)
	}
	if err != nil {
		configs.Logger("fees").Error().Err(err).Msg("[FEE][MY] query failed")
	}
	return helper.JsonList(c, "ok", dto.FromPayments(page.Items), q.Pagination(page.Total))
}

// POST /api/u/fees/:id/checkout
func (ctl *FeeController) Checkout(c *fiber.Ctx) error {
	uid, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}
	res, err := ctl.Svc.Checkout(c.UserContext(), uid, helperAuth.GetRole(c), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Checkout created", res)
}

// POST /api/payments/notification (gateway webhook, no auth)
func (ctl *FeeController) Notification(c *fiber.Ctx) error {
	var n dto.GatewayNotification
	if err := c.BodyParser(&n); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid payload")
	}
	res, err := ctl.Svc.HandleNotification(c.UserContext(), n)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Notification processed", res)
}
