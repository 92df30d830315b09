package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/features/reports/aggregate"
	classModel "schoolhub_backend/internals/features/school/classes/model"
)

type CreateClassRequest struct {
	ClassName         string     `json:"class_name" validate:"required,min=1,max=80"`
	ClassGrade        int        `json:"class_grade" validate:"required,min=1,max=12"`
	ClassSection      *string    `json:"class_section" validate:"omitempty,max=10"`
	ClassCapacity     int        `json:"class_capacity" validate:"required,gt=0,lte=200"`
	ClassAcademicYear string     `json:"class_academic_year" validate:"required,max=20"`
	ClassTeacherID    *uuid.UUID `json:"class_teacher_id"`
}

func (r *CreateClassRequest) Normalize() {
	r.ClassName = strings.TrimSpace(r.ClassName)
	r.ClassAcademicYear = strings.TrimSpace(r.ClassAcademicYear)
	if r.ClassSection != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.ClassSection))
		r.ClassSection = &v
	}
}

func (r CreateClassRequest) ToModel() *classModel.ClassModel {
	return &classModel.ClassModel{
		ClassName:         r.ClassName,
		ClassGrade:        r.ClassGrade,
		ClassSection:      r.ClassSection,
		ClassCapacity:     r.ClassCapacity,
		ClassAcademicYear: r.ClassAcademicYear,
		ClassTeacherID:    r.ClassTeacherID,
	}
}

type UpdateClassRequest struct {
	ClassName         *string    `json:"class_name" validate:"omitempty,min=1,max=80"`
	ClassGrade        *int       `json:"class_grade" validate:"omitempty,min=1,max=12"`
	ClassSection      *string    `json:"class_section" validate:"omitempty,max=10"`
	ClassCapacity     *int       `json:"class_capacity" validate:"omitempty,gt=0,lte=200"`
	ClassAcademicYear *string    `json:"class_academic_year" validate:"omitempty,max=20"`
	ClassTeacherID    *uuid.UUID `json:"class_teacher_id"`
}

func (r UpdateClassRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.ClassName != nil {
		m["class_name"] = strings.TrimSpace(*r.ClassName)
	}
	if r.ClassGrade != nil {
		m["class_grade"] = *r.ClassGrade
	}
	if r.ClassSection != nil {
		m["class_section"] = strings.ToUpper(strings.TrimSpace(*r.ClassSection))
	}
	if r.ClassCapacity != nil {
		m["class_capacity"] = *r.ClassCapacity
	}
	if r.ClassAcademicYear != nil {
		m["class_academic_year"] = strings.TrimSpace(*r.ClassAcademicYear)
	}
	if r.ClassTeacherID != nil {
		m["class_teacher_id"] = *r.ClassTeacherID
	}
	return m
}

type AssignStudentsRequest struct {
	StudentIDs []uuid.UUID `json:"student_ids" validate:"required,min=1,max=200"`
}

type ClassSubjectLink struct {
	SubjectID uuid.UUID  `json:"subject_id" validate:"required"`
	TeacherID *uuid.UUID `json:"teacher_id"`
}

// LinkSubjectsRequest replaces the class's subject list.
type LinkSubjectsRequest struct {
	Subjects []ClassSubjectLink `json:"subjects" validate:"dive"`
}

type ClassResponse struct {
	ClassID           uuid.UUID  `json:"class_id"`
	ClassName         string     `json:"class_name"`
	ClassGrade        int        `json:"class_grade"`
	ClassSection      *string    `json:"class_section,omitempty"`
	ClassCapacity     int        `json:"class_capacity"`
	ClassAcademicYear string     `json:"class_academic_year"`
	ClassTeacherID    *uuid.UUID `json:"class_teacher_id,omitempty"`
	StudentCount      int64      `json:"student_count"`
	ClassCreatedAt    time.Time  `json:"class_created_at"`
}

func FromModel(m *classModel.ClassModel, students int64) ClassResponse {
	return ClassResponse{
		ClassID:           m.ClassID,
		ClassName:         m.ClassName,
		ClassGrade:        m.ClassGrade,
		ClassSection:      m.ClassSection,
		ClassCapacity:     m.ClassCapacity,
		ClassAcademicYear: m.ClassAcademicYear,
		ClassTeacherID:    m.ClassTeacherID,
		StudentCount:      students,
		ClassCreatedAt:    m.ClassCreatedAt,
	}
}

type AssignResult struct {
	Assigned []uuid.UUID `json:"assigned"`
	Skipped  []uuid.UUID `json:"skipped"`
}

type ClassStats struct {
	ClassID           uuid.UUID        `json:"class_id"`
	ClassName         string           `json:"class_name"`
	StudentCount      int64            `json:"student_count"`
	Capacity          int              `json:"capacity"`
	OccupancyRate     float64          `json:"occupancy_rate"`
	AverageAttendance aggregate.Metric `json:"average_attendance"`
	AttendanceText    string           `json:"attendance_text"`
	SubjectCount      int64            `json:"subject_count"`
	ExamCount         int64            `json:"exam_count"`
}
