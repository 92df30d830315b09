// file: internals/features/school/students/controller/student_controller.go
package controller

import (
	"github.com/gofiber/fiber/v2"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/features/school/students/dto"
	"schoolhub_backend/internals/features/school/students/service"
	helper "schoolhub_backend/internals/helpers"
)

type StudentController struct {
	Svc *service.StudentService
}

func NewStudentController(svc *service.StudentService) *StudentController {
	return &StudentController{Svc: svc}
}

/* =========================================================
   LIST (staff)
   GET /api/s/students?page=&limit=&search=&class_id=&parent_id=&is_active=
   ========================================================= */
func (ctl *StudentController) List(c *fiber.Ctx) error {
	q := helper.ResolveListQuery(c, helper.DefaultLimit, helper.MaxLimit)
	classID, err := helper.QueryUUID(c, "class_id")
	if err != nil {
		return helper.FromError(c, err)
	}
	parentID, err := helper.QueryUUID(c, "parent_id")
	if err != nil {
		return helper.FromError(c, err)
	}

	page, err := ctl.Svc.List(c.UserContext(), q, dto.StudentFilter{
		ClassID:  classID,
		ParentID: parentID,
		IsActive: helper.QueryBool(c, "is_active"),
	})
	if err != nil {
		configs.Logger("students").Error().Err(err).Msg("[STUDENT][LIST] query failed")
	}
	return helper.JsonList(c, "ok", dto.FromModels(page.Items), q.Pagination(page.Total))
}

func (ctl *StudentController) Get(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	u, err := ctl.Svc.Get(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(u))
}

func (ctl *StudentController) Performance(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	perf, err := ctl.Svc.Performance(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", perf)
}

// GET /api/s/students/:id/report-card.pdf
func (ctl *StudentController) ReportCard(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	data, filename, err := ctl.Svc.ReportCard(c.UserContext(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="`+filename+`"`)
	return c.Send(data)
}

/* =========================================================
   WRITE (admin)
   ========================================================= */

func (ctl *StudentController) Create(c *fiber.Ctx) error {
	var req dto.CreateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	u, err := ctl.Svc.Create(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "Student created", dto.FromModel(u))
}

func (ctl *StudentController) Update(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateStudentRequest
	if err := c.BodyParser(&req); err != nil {
		return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
	}
	u, err := ctl.Svc.Update(c.UserContext(), id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Student updated", dto.FromModel(u))
}

func (ctl *StudentController) Delete(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	if err := ctl.Svc.Delete(c.UserContext(), id); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "Student deleted", fiber.Map{"id": id})
}

// POST /api/a/students/bulk-import
// Accepts {"students":[...]} or a bare array.
func (ctl *StudentController) BulkImport(c *fiber.Ctx) error {
	var req dto.BulkImportRequest
	if err := c.BodyParser(&req); err != nil || len(req.Students) == 0 {
		var rows []dto.CreateStudentRequest
		if err2 := c.BodyParser(&rows); err2 != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "Invalid request body")
		}
		req.Students = rows
	}
	if err := helper.Validate(req); err != nil {
		return helper.FromError(c, err)
	}
	res := ctl.Svc.BulkImport(c.UserContext(), req.Students)
	return helper.JsonOK(c, "Import processed", res)
}

// POST /api/a/students/:id/photo (multipart field "photo")
func (ctl *StudentController) UploadPhoto(c *fiber.Ctx) error {
	id, err := helper.ParseUUIDParam(c, "id")
	if err != nil {
		return helper.FromError(c, err)
	}
	fh, err := c.FormFile("photo")
	if err != nil {
		return helper.JsonValidationError(c, map[string][]string{"photo": {"photo file is required"}})
	}
	u, err := ctl.Svc.UploadPhoto(c.UserContext(), id, fh)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "Photo uploaded", dto.FromModel(u))
}
