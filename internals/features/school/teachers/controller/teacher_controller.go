package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/school/teachers/dto"
	"schoolhub_backend/internals/features/school/teachers/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type TeacherController struct {
	Svc *service.TeacherService
}

func NewTeacherController(svc *service.TeacherService) *TeacherController {
	return &TeacherController{Svc: svc}
}

// GET /api/s/teachers?search=&is_active=
func (ctl *TeacherController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	page, err := ctl.Svc.List(c.UserContext(), q, helper.QueryBool(c, "is_active"))
	if err != nil {
		configs.Logger("teachers").Error().Err(err).Msg("[TEACHER][LIST] query failed")
	}
	return helper.JsonList(c, "ok", dto.FromModels(page.Items), q.Pagination(page.Total))
}

func (ctl *TeacherController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	u, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	resp := dto.FromModel(u)
	subjects, err := ctl.Svc.Subjects(c.UserContext(), id)
	if err != nil {
		configs.Logger("teachers").Error().Err(err).Msg("[TEACHER][GET] subjects failed")
	}
	resp.Subjects = subjects
	return helper.JsonOK(c, "ok", resp)
}

func (ctl *TeacherController) Create(c *fiber.Ctx) error {
	var req dto.CreateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	u, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Teacher created", dto.FromModel(u))
}

func (ctl *TeacherController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateTeacherRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	u, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Teacher updated", dto.FromModel(u))
}

func (ctl *TeacherController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Teacher deleted", fiber.Map{"id": id})
}

// PUT /api/a/teachers/:id/subjects
func (ctl *TeacherController) AssignSubjects(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignSubjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	subjects, err := ctl.Svc.AssignSubjects(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Subjects assigned", subjects)
}

func (ctl *TeacherController) CreateReview(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	var reviewer *uuid.UUID
	if uid, err := helperAuth.GetUserIDFromToken(c); err == nil {
		reviewer = &uid
	}
	m, err := ctl.Svc.CreateReview(c.UserContext(), id, reviewer, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Review recorded", m)
}

func (ctl *TeacherController) Reviews(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	sum, err := ctl.Svc.Reviews(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}
