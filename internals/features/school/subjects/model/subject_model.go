package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubjectModel struct {
	SubjectID      uuid.UUID `gorm:"column:subject_id;type:uuid;primaryKey" json:"subject_id"`
	SubjectCode    string    `gorm:"column:subject_code;size:40;not null;uniqueIndex:uq_subjects_code" json:"subject_code"`
	SubjectName    string    `gorm:"column:subject_name;size:120;not null" json:"subject_name"`
	SubjectCredits int       `gorm:"column:subject_credits;not null;default:0;check:chk_subject_credits,subject_credits >= 0" json:"subject_credits"`
	SubjectDesc    *string   `gorm:"column:subject_desc;type:text" json:"subject_desc,omitempty"`

	SubjectCreatedAt time.Time      `gorm:"column:subject_created_at;autoCreateTime" json:"subject_created_at"`
	SubjectUpdatedAt time.Time      `gorm:"column:subject_updated_at;autoUpdateTime" json:"subject_updated_at"`
	SubjectDeletedAt gorm.DeletedAt `gorm:"column:subject_deleted_at;index" json:"-"`
}

func (SubjectModel) TableName() string { return "subjects" }

func (m *SubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.SubjectID == uuid.Nil {
		m.SubjectID = uuid.New()
	}
	m.SubjectCode = strings.ToUpper(strings.TrimSpace(m.SubjectCode))
	return nil
}

// TeacherSubjectModel records which subjects a teacher is qualified to teach.
type TeacherSubjectModel struct {
	TeacherSubjectID        uuid.UUID `gorm:"column:teacher_subject_id;type:uuid;primaryKey" json:"teacher_subject_id"`
	TeacherSubjectTeacherID uuid.UUID `gorm:"column:teacher_subject_teacher_id;type:uuid;not null;uniqueIndex:uq_teacher_subject_pair" json:"teacher_subject_teacher_id"`
	TeacherSubjectSubjectID uuid.UUID `gorm:"column:teacher_subject_subject_id;type:uuid;not null;uniqueIndex:uq_teacher_subject_pair" json:"teacher_subject_subject_id"`
	TeacherSubjectCreatedAt time.Time `gorm:"column:teacher_subject_created_at;autoCreateTime" json:"teacher_subject_created_at"`
}

func (TeacherSubjectModel) TableName() string { return "teacher_subjects" }

func (m *TeacherSubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.TeacherSubjectID == uuid.Nil {
		m.TeacherSubjectID = uuid.New()
	}
	return nil
}
