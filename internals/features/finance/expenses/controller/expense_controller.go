package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/finance/expenses/dto"
	"schoolhub_backend/internals/features/finance/expenses/service"
	helper "schoolhub_backend/internals/helpers"
)

type ExpenseController struct {
	Svc *service.ExpenseService
}

func NewExpenseController(svc *service.ExpenseService) *ExpenseController {
	return &ExpenseController{Svc: svc}
}

// GET /api/a/expenses?category=&status=&year=&month=&search=
func (ctl *ExpenseController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	f := dto.ExpenseFilter{
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Year:     helper.QueryInt(c, "year", 0),
		Month:    helper.QueryInt(c, "month", 0),
	}
	if f.Month < 0 || f.Month > 12 {
		return helper.JsonError(c, fiber.StatusBadRequest, "month must be between 1 and 12")
	}
	page, err := ctl.Svc.List(c.UserContext(), q, f)
	if err != nil {
		configs.Logger("expenses").Error().Err(err).Msg("[EXPENSE][LIST] query failed")
	}
	return helper.JsonList(c, "ok", dto.FromModels(page.Items), q.Pagination(page.Total))
}

func (ctl *ExpenseController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m))
}

func (ctl *ExpenseController) Create(c *fiber.Ctx) error {
	var req dto.CreateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Expense created", dto.FromModel(*m))
}

func (ctl *ExpenseController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateExpenseRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Expense updated", dto.FromModel(*m))
}

// PATCH /api/a/expenses/:id/status
func (ctl *ExpenseController) SetStatus(c *fiber.Ctx) error {
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
	return helper.JsonUpdated(c, "Expense status updated", dto.FromModel(*m))
}

func (ctl *ExpenseController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Expense deleted", fiber.Map{"expense_id": id})
}
