package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AttendanceRecordModel struct {
	AttendanceID          uuid.UUID  `gorm:"column:attendance_id;type:uuid;primaryKey" json:"attendance_id"`
	AttendanceStudentID   uuid.UUID  `gorm:"column:attendance_student_id;type:uuid;not null;uniqueIndex:uq_attendance_session;index:idx_attendance_student" json:"attendance_student_id"`
	AttendanceClassID     uuid.UUID  `gorm:"column:attendance_class_id;type:uuid;not null;uniqueIndex:uq_attendance_session;index:idx_attendance_class" json:"attendance_class_id"`
	AttendanceSessionDate time.Time  `gorm:"column:attendance_session_date;not null;uniqueIndex:uq_attendance_session" json:"attendance_session_date"`
	AttendanceStatus      string     `gorm:"column:attendance_status;size:10;not null" json:"attendance_status"`
	AttendanceRemarks     *string    `gorm:"column:attendance_remarks;type:text" json:"attendance_remarks,omitempty"`
	AttendanceMarkedBy    *uuid.UUID `gorm:"column:attendance_marked_by;type:uuid" json:"attendance_marked_by,omitempty"`

	AttendanceCreatedAt time.Time `gorm:"column:attendance_created_at;autoCreateTime" json:"attendance_created_at"`
	AttendanceUpdatedAt time.Time `gorm:"column:attendance_updated_at;autoUpdateTime" json:"attendance_updated_at"`
}

func (AttendanceRecordModel) TableName() string { return "attendance_records" }

func (m *AttendanceRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.AttendanceID == uuid.Nil {
		m.AttendanceID = uuid.New()
	}
	return nil
}

type BehaviorRecordModel struct {
	BehaviorID          uuid.UUID  `gorm:"column:behavior_id;type:uuid;primaryKey" json:"behavior_id"`
	BehaviorStudentID   uuid.UUID  `gorm:"column:behavior_student_id;type:uuid;not null;index:idx_behavior_student" json:"behavior_student_id"`
	BehaviorType        string     `gorm:"column:behavior_type;size:30;not null" json:"behavior_type"`
	BehaviorDescription string     `gorm:"column:behavior_description;type:text;not null" json:"behavior_description"`
	BehaviorRecordedBy  *uuid.UUID `gorm:"column:behavior_recorded_by;type:uuid" json:"behavior_recorded_by,omitempty"`
	BehaviorRecordedAt  time.Time  `gorm:"column:behavior_recorded_at;not null" json:"behavior_recorded_at"`

	BehaviorCreatedAt time.Time `gorm:"column:behavior_created_at;autoCreateTime" json:"behavior_created_at"`
}

func (BehaviorRecordModel) TableName() string { return "behavior_records" }

func (m *BehaviorRecordModel) BeforeCreate(tx *gorm.DB) error {
	if m.BehaviorID == uuid.Nil {
		m.BehaviorID = uuid.New()
	}
	if m.BehaviorRecordedAt.IsZero() {
		m.BehaviorRecordedAt = time.Now()
	}
	return nil
}
