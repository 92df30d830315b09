package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/school/attendance/dto"
	"schoolhub_backend/internals/features/school/attendance/service"
	helper "schoolhub_backend/internals/helpers"
	helperAuth "schoolhub_backend/internals/helpers/auth"
)

type AttendanceController struct {
	Svc *service.AttendanceService
}

func NewAttendanceController(svc *service.AttendanceService) *AttendanceController {
	return &AttendanceController{Svc: svc}
}

func actor(c *fiber.Ctx) *uuid.UUID {
	id, err := helperAuth.GetUserIDFromToken(c)
	if err != nil {
		return nil
	}
	return &id
}

func parseFilter(c *fiber.Ctx) (dto.AttendanceFilter, error) {
	var f dto.AttendanceFilter
	var err error
	if f.ClassID, err = helper.QueryUUID(c, "class_id"); err != nil {
		return f, err
	}
	if f.StudentID, err = helper.QueryUUID(c, "student_id"); err != nil {
		return f, err
	}
	if f.From, err = helper.QueryDate(c, "from"); err != nil {
		return f, err
	}
	if f.To, err = helper.QueryDate(c, "to"); err != nil {
		return f, err
	}
	f.Status = c.Query("status")
	return f, nil
}

// POST /api/s/attendance
func (ctl *AttendanceController) Mark(c *fiber.Ctx) error {
	var req dto.MarkAttendanceRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	res, err := ctl.Svc.Mark(c.UserContext(), actor(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Attendance saved", res)
}

// GET /api/s/attendance?class_id=&student_id=&status=&from=&to=
func (ctl *AttendanceController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	f, err := parseFilter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	page, err := ctl.Svc.List(c.UserContext(), q, f)
	if err != nil {
		configs.Logger("attendance").Error().Err(err).Msg("[ATTENDANCE][LIST] query failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

// GET /api/s/attendance/summary?class_id=&student_id=&year=
func (ctl *AttendanceController) Summary(c *fiber.Ctx) error {
	f, err := parseFilter(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	sum, err := ctl.Svc.Summary(c.UserContext(), f, helper.QueryInt(c, "year", 0))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}

// POST /api/s/behavior
func (ctl *AttendanceController) RecordBehavior(c *fiber.Ctx) error {
	var req dto.CreateBehaviorRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.RecordBehavior(c.UserContext(), actor(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Behavior recorded", m)
}

// GET /api/s/behavior?student_id=&behavior_type=
func (ctl *AttendanceController) ListBehavior(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	studentID, err := helper.QueryUUID(c, "student_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	page, err := ctl.Svc.ListBehavior(c.UserContext(), q, studentID, c.Query("behavior_type"))
	if err != nil {
		configs.Logger("attendance").Error().Err(err).Msg("[BEHAVIOR][LIST] query failed")
	}
	return helper.JsonList(c, "ok", page.Items, q.Pagination(page.Total))
}

// GET /api/s/behavior/students/:id/score
func (ctl *AttendanceController) BehaviorScore(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	sum, err := ctl.Svc.BehaviorSummary(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", sum)
}
