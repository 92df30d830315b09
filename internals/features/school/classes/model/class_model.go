package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ClassModel struct {
	ClassID           uuid.UUID  `gorm:"column:class_id;type:uuid;primaryKey" json:"class_id"`
	ClassName         string     `gorm:"column:class_name;size:80;not null;uniqueIndex:uq_classes_name_year" json:"class_name"`
	ClassGrade        int        `gorm:"column:class_grade;not null;check:chk_class_grade,class_grade BETWEEN 1 AND 12" json:"class_grade"`
	ClassSection      *string    `gorm:"column:class_section;size:10" json:"class_section,omitempty"`
	ClassCapacity     int        `gorm:"column:class_capacity;not null;check:chk_class_capacity,class_capacity > 0" json:"class_capacity"`
	ClassAcademicYear string     `gorm:"column:class_academic_year;size:20;not null;uniqueIndex:uq_classes_name_year" json:"class_academic_year"`
	ClassTeacherID    *uuid.UUID `gorm:"column:class_teacher_id;type:uuid;index:idx_classes_teacher" json:"class_teacher_id,omitempty"`

	ClassCreatedAt time.Time      `gorm:"column:class_created_at;autoCreateTime" json:"class_created_at"`
	ClassUpdatedAt time.Time      `gorm:"column:class_updated_at;autoUpdateTime" json:"class_updated_at"`
	ClassDeletedAt gorm.DeletedAt `gorm:"column:class_deleted_at;index" json:"-"`
}

func (ClassModel) TableName() string { return "classes" }

func (m *ClassModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassID == uuid.Nil {
		m.ClassID = uuid.New()
	}
	return nil
}

// ClassSubjectModel links a subject to a class, optionally with the teaching teacher.
type ClassSubjectModel struct {
	ClassSubjectID        uuid.UUID  `gorm:"column:class_subject_id;type:uuid;primaryKey" json:"class_subject_id"`
	ClassSubjectClassID   uuid.UUID  `gorm:"column:class_subject_class_id;type:uuid;not null;uniqueIndex:uq_class_subject_pair" json:"class_subject_class_id"`
	ClassSubjectSubjectID uuid.UUID  `gorm:"column:class_subject_subject_id;type:uuid;not null;uniqueIndex:uq_class_subject_pair" json:"class_subject_subject_id"`
	ClassSubjectTeacherID *uuid.UUID `gorm:"column:class_subject_teacher_id;type:uuid;index" json:"class_subject_teacher_id,omitempty"`
	ClassSubjectCreatedAt time.Time  `gorm:"column:class_subject_created_at;autoCreateTime" json:"class_subject_created_at"`
}

func (ClassSubjectModel) TableName() string { return "class_subjects" }

func (m *ClassSubjectModel) BeforeCreate(tx *gorm.DB) error {
	if m.ClassSubjectID == uuid.Nil {
		m.ClassSubjectID = uuid.New()
	}
	return nil
}
