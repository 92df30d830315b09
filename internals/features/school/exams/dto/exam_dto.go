package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/features/reports/presenter"
	examModel "schoolhub_backend/internals/features/school/exams/model"
)

type CreateExamRequest struct {
	ExamTitle           string    `json:"exam_title" validate:"required,max=160"`
	ExamClassID         uuid.UUID `json:"exam_class_id" validate:"required"`
	ExamSubjectID       uuid.UUID `json:"exam_subject_id" validate:"required"`
	ExamType            string    `json:"exam_type" validate:"required,oneof=QUIZ MIDTERM FINAL ASSIGNMENT PROJECT"`
	ExamDate            time.Time `json:"exam_date" validate:"required"`
	ExamDurationMinutes int       `json:"exam_duration_minutes" validate:"omitempty,min=5,max=600"`
	ExamTotalMarks      float64   `json:"exam_total_marks" validate:"gt=0"`
	ExamPassMarks       float64   `json:"exam_pass_marks" validate:"gte=0,ltefield=ExamTotalMarks"`
}

func (r *CreateExamRequest) Normalize() {
	r.ExamTitle = strings.TrimSpace(r.ExamTitle)
	r.ExamType = strings.ToUpper(strings.TrimSpace(r.ExamType))
	if r.ExamDurationMinutes == 0 {
		r.ExamDurationMinutes = 60
	}
}

func (r CreateExamRequest) ToModel() *examModel.ExamModel {
	return &examModel.ExamModel{
		ExamTitle:           r.ExamTitle,
		ExamClassID:         r.ExamClassID,
		ExamSubjectID:       r.ExamSubjectID,
		ExamType:            r.ExamType,
		ExamDate:            r.ExamDate,
		ExamDurationMinutes: r.ExamDurationMinutes,
		ExamTotalMarks:      r.ExamTotalMarks,
		ExamPassMarks:       r.ExamPassMarks,
	}
}

type UpdateExamRequest struct {
	ExamTitle           *string    `json:"exam_title" validate:"omitempty,max=160"`
	ExamType            *string    `json:"exam_type" validate:"omitempty,oneof=QUIZ MIDTERM FINAL ASSIGNMENT PROJECT"`
	ExamDate            *time.Time `json:"exam_date"`
	ExamDurationMinutes *int       `json:"exam_duration_minutes" validate:"omitempty,min=5,max=600"`
	ExamTotalMarks      *float64   `json:"exam_total_marks" validate:"omitempty,gt=0"`
	ExamPassMarks       *float64   `json:"exam_pass_marks" validate:"omitempty,gte=0"`
}

func (r UpdateExamRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.ExamTitle != nil {
		m["exam_title"] = strings.TrimSpace(*r.ExamTitle)
	}
	if r.ExamType != nil {
		m["exam_type"] = strings.ToUpper(*r.ExamType)
	}
	if r.ExamDate != nil {
		m["exam_date"] = *r.ExamDate
	}
	if r.ExamDurationMinutes != nil {
		m["exam_duration_minutes"] = *r.ExamDurationMinutes
	}
	if r.ExamTotalMarks != nil {
		m["exam_total_marks"] = *r.ExamTotalMarks
	}
	if r.ExamPassMarks != nil {
		m["exam_pass_marks"] = *r.ExamPassMarks
	}
	return m
}

type ExamFilter struct {
	ClassID   *uuid.UUID
	SubjectID *uuid.UUID
	Type      string
	From      *time.Time
	To        *time.Time
}

/* ===================== Results ===================== */

type ResultEntry struct {
	StudentID     uuid.UUID `json:"student_id" validate:"required"`
	MarksObtained float64   `json:"marks_obtained" validate:"gte=0"`
	Remarks       *string   `json:"remarks" validate:"omitempty,max=1000"`
}

type RecordResultsRequest struct {
	Results []ResultEntry `json:"results" validate:"required,min=1,dive"`
}

type ResultResponse struct {
	ExamResultID  uuid.UUID       `json:"exam_result_id"`
	StudentID     uuid.UUID       `json:"student_id"`
	StudentName   string          `json:"student_name"`
	MarksObtained float64         `json:"marks_obtained"`
	Percentage    float64         `json:"percentage"`
	Grade         string          `json:"grade"`
	Passed        bool            `json:"passed"`
	Style         presenter.Style `json:"style"`
	Remarks       *string         `json:"remarks,omitempty"`
}

type ExamStats struct {
	ExamID       uuid.UUID       `json:"exam_id"`
	ExamTitle    string          `json:"exam_title"`
	TotalMarks   float64         `json:"total_marks"`
	PassMarks    float64         `json:"pass_marks"`
	ResultCount  int             `json:"result_count"`
	Average      float64         `json:"average"`
	Highest      float64         `json:"highest"`
	Lowest       float64         `json:"lowest"`
	PassRate     float64         `json:"pass_rate"`
	PassCount    int             `json:"pass_count"`
	FailCount    int             `json:"fail_count"`
	Distribution map[string]int  `json:"distribution"`
	Bars         []presenter.Bar `json:"bars"`
}
