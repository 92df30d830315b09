package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/school/classes/dto"
	classModel "schoolhub_backend/internals/features/school/classes/model"
	"schoolhub_backend/internals/features/school/classes/service"
	helper "schoolhub_backend/internals/helpers"
)

type ClassController struct {
	Svc *service.ClassService
}

func NewClassController(svc *service.ClassService) *ClassController {
	return &ClassController{Svc: svc}
}

// GET /api/s/classes?grade=&academic_year=&teacher_id=&search=
func (ctl *ClassController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	teacherID, err := helper.QueryUUID(c, "teacher_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	page, err := ctl.Svc.List(c.UserContext(), q, helper.QueryInt(c, "grade", 0), c.Query("academic_year"), teacherID)
	if err != nil {
		configs.Logger("classes").Error().Err(err).Msg("[CLASS][LIST] query failed")
	}

	ids := make([]uuid.UUID, 0, len(page.Items))
	for _, m := range page.Items {
		ids = append(ids, m.ClassID)
	}
	counts, err := ctl.Svc.StudentCounts(c.UserContext(), ids)
	if err != nil {
		configs.Logger("classes").Error().Err(err).Msg("[CLASS][LIST] student counts failed")
	}
	out := make([]dto.ClassResponse, 0, len(page.Items))
	for i := range page.Items {
		out = append(out, dto.FromModel(&page.Items[i], counts[page.Items[i].ClassID]))
	}
	return helper.JsonList(c, "ok", out, q.Pagination(page.Total))
}

func (ctl *ClassController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	n, _ := service.CountStudents(c.UserContext(), ctl.Svc.DB, id)
	return helper.JsonOK(c, "ok", dto.FromModel(m, n))
}

func (ctl *ClassController) Stats(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	stats, err := ctl.Svc.Stats(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", stats)
}

func (ctl *ClassController) Create(c *fiber.Ctx) error {
	var req dto.CreateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Class created", dto.FromModel(m, 0))
}

func (ctl *ClassController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateClassRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	m, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	n, _ := service.CountStudents(c.UserContext(), ctl.Svc.DB, id)
	return helper.JsonUpdated(c, "Class updated", dto.FromModel(m, n))
}

func (ctl *ClassController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Class deleted", fiber.Map{"class_id": id})
}

// POST /api/a/classes/:id/students
func (ctl *ClassController) AssignStudents(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.AssignStudentsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	res, err := ctl.Svc.AssignStudents(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Students assigned", res)
}

// PUT /api/a/classes/:id/subjects
func (ctl *ClassController) LinkSubjects(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.LinkSubjectsRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	links, err := ctl.Svc.LinkSubjects(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if links == nil {
		links = []classModel.ClassSubjectModel{}
	}
	return helper.JsonUpdated(c, "Subjects linked", links)
}
