package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamModel struct {
	ExamID              uuid.UUID `gorm:"column:exam_id;type:uuid;primaryKey" json:"exam_id"`
	ExamTitle           string    `gorm:"column:exam_title;size:160;not null" json:"exam_title"`
	ExamClassID         uuid.UUID `gorm:"column:exam_class_id;type:uuid;not null;index:idx_exams_class" json:"exam_class_id"`
	ExamSubjectID       uuid.UUID `gorm:"column:exam_subject_id;type:uuid;not null;index:idx_exams_subject" json:"exam_subject_id"`
	ExamType            string    `gorm:"column:exam_type;size:20;not null" json:"exam_type"`
	ExamDate            time.Time `gorm:"column:exam_date;not null;index:idx_exams_date" json:"exam_date"`
	ExamDurationMinutes int       `gorm:"column:exam_duration_minutes;not null;default:60" json:"exam_duration_minutes"`
	ExamTotalMarks      float64   `gorm:"column:exam_total_marks;not null;check:chk_exam_total_positive,exam_total_marks > 0" json:"exam_total_marks"`
	ExamPassMarks       float64   `gorm:"column:exam_pass_marks;not null;check:chk_exam_pass_range,exam_pass_marks >= 0 AND exam_pass_marks <= exam_total_marks" json:"exam_pass_marks"`

	ExamCreatedAt time.Time      `gorm:"column:exam_created_at;autoCreateTime" json:"exam_created_at"`
	ExamUpdatedAt time.Time      `gorm:"column:exam_updated_at;autoUpdateTime" json:"exam_updated_at"`
	ExamDeletedAt gorm.DeletedAt `gorm:"column:exam_deleted_at;index" json:"-"`
}

func (ExamModel) TableName() string { return "exams" }

func (m *ExamModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamID == uuid.Nil {
		m.ExamID = uuid.New()
	}
	return nil
}

// ExamResultModel: marks are bounded by the exam's total marks at write time.
type ExamResultModel struct {
	ExamResultID            uuid.UUID `gorm:"column:exam_result_id;type:uuid;primaryKey" json:"exam_result_id"`
	ExamResultExamID        uuid.UUID `gorm:"column:exam_result_exam_id;type:uuid;not null;uniqueIndex:uq_exam_result_exam_student" json:"exam_result_exam_id"`
	ExamResultStudentID     uuid.UUID `gorm:"column:exam_result_student_id;type:uuid;not null;uniqueIndex:uq_exam_result_exam_student;index:idx_exam_results_student" json:"exam_result_student_id"`
	ExamResultMarksObtained float64   `gorm:"column:exam_result_marks_obtained;not null;check:chk_exam_result_marks,exam_result_marks_obtained >= 0" json:"exam_result_marks_obtained"`
	ExamResultGrade         *string   `gorm:"column:exam_result_grade;size:3" json:"exam_result_grade,omitempty"`
	ExamResultRemarks       *string   `gorm:"column:exam_result_remarks;type:text" json:"exam_result_remarks,omitempty"`

	ExamResultCreatedAt time.Time `gorm:"column:exam_result_created_at;autoCreateTime" json:"exam_result_created_at"`
	ExamResultUpdatedAt time.Time `gorm:"column:exam_result_updated_at;autoUpdateTime" json:"exam_result_updated_at"`
}

func (ExamResultModel) TableName() string { return "exam_results" }

func (m *ExamResultModel) BeforeCreate(tx *gorm.DB) error {
	if m.ExamResultID == uuid.Nil {
		m.ExamResultID = uuid.New()
	}
	return nil
}
