package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/finance/payroll/dto"
	"schoolhub_backend/internals/features/finance/payroll/service"
	helper "schoolhub_backend/internals/helpers"
)

type PayrollController struct {
	Svc *service.PayrollService
}

func NewPayrollController(svc *service.PayrollService) *PayrollController {
	return &PayrollController{Svc: svc}
}

// GET /api/a/payroll?year=&month=&status=&employee_id=&search=
func (ctl *PayrollController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	employeeID, err := helper.QueryUUID(c, "employee_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	items, total, err := ctl.Svc.List(c.UserContext(), q, dto.PayrollFilter{
		Year:       helper.QueryInt(c, "year", 0),
		Month:      helper.QueryInt(c, "month", 0),
		Status:     c.Query("status"),
		EmployeeID: employeeID,
	})
	if err != nil {
		configs.Logger("payroll").Error().Err(err).Msg("[PAYROLL][LIST] query failed")
	}
	return helper.JsonList(c, "ok", items, q.Pagination(total))
}

func (ctl *PayrollController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m, ""))
}

// POST /api/a/payroll/generate
func (ctl *PayrollController) Generate(c *fiber.Ctx) error {
	var req dto.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	res, err := ctl.Svc.Generate(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "Payroll generated", res)
}

// GET /api/a/payroll/preview/:teacher_id?overtime=
func (ctl *PayrollController) Preview(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "teacher_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	overtime := decimal.Zero
	if raw := c.Query("overtime"); raw != "" {
		if overtime, err = decimal.NewFromString(raw); err != nil || overtime.IsNegative() {
			return helper.JsonError(c, fiber.StatusBadRequest, "overtime must be a non-negative number")
		}
	}
	p, err := ctl.Svc.Preview(c.UserContext(), id, overtime)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", p)
}

// PATCH /api/a/payroll/:id/status
func (ctl *PayrollController) SetStatus(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.SetStatus(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Payroll status updated", dto.FromModel(*m, ""))
}
