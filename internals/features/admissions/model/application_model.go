package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ApplicationModel struct {
	ApplicationID                uuid.UUID  `gorm:"column:application_id;type:uuid;primaryKey" json:"application_id"`
	ApplicationNumber            string     `gorm:"column:application_number;size:20;not null;uniqueIndex:uq_applications_number" json:"application_number"`
	ApplicationFirstName         string     `gorm:"column:application_first_name;size:80;not null" json:"application_first_name"`
	ApplicationLastName          string     `gorm:"column:application_last_name;size:80;not null" json:"application_last_name"`
	ApplicationDateOfBirth       time.Time  `gorm:"column:application_date_of_birth;not null" json:"application_date_of_birth"`
	ApplicationGender            string     `gorm:"column:application_gender;size:10;not null" json:"application_gender"`
	ApplicationGrade             int        `gorm:"column:application_grade;not null;index:idx_applications_grade" json:"application_grade"`
	ApplicationPreviousSchool    *string    `gorm:"column:application_previous_school;size:160" json:"application_previous_school,omitempty"`
	ApplicationParentName        string     `gorm:"column:application_parent_name;size:120;not null" json:"application_parent_name"`
	ApplicationParentEmail       string     `gorm:"column:application_parent_email;size:255;not null" json:"application_parent_email"`
	ApplicationParentPhone       string     `gorm:"column:application_parent_phone;size:30;not null" json:"application_parent_phone"`
	ApplicationAddress           *string    `gorm:"column:application_address;type:text" json:"application_address,omitempty"`
	ApplicationStatus            string     `gorm:"column:application_status;size:30;not null;index:idx_applications_status" json:"application_status"`
	ApplicationInterviewAt       *time.Time `gorm:"column:application_interview_at" json:"application_interview_at,omitempty"`
	ApplicationInterviewLocation *string    `gorm:"column:application_interview_location;size:160" json:"application_interview_location,omitempty"`
	ApplicationNotes             *string    `gorm:"column:application_notes;type:text" json:"application_notes,omitempty"`
	ApplicationSubmittedAt       time.Time  `gorm:"column:application_submitted_at;not null;index:idx_applications_submitted" json:"application_submitted_at"`
	ApplicationCreatedAt         time.Time  `gorm:"column:application_created_at;autoCreateTime" json:"application_created_at"`
	ApplicationUpdatedAt         time.Time  `gorm:"column:application_updated_at;autoUpdateTime" json:"application_updated_at"`
}

func (ApplicationModel) TableName() string { return "admission_applications" }

func (m *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ApplicationID == uuid.Nil {
		m.ApplicationID = uuid.New()
	}
	if m.ApplicationSubmittedAt.IsZero() {
		m.ApplicationSubmittedAt = time.Now()
	}
	return nil
}

// TimelineModel is one ordered event in an application's history.
type TimelineModel struct {
	TimelineID            uuid.UUID  `gorm:"column:timeline_id;type:uuid;primaryKey" json:"timeline_id"`
	TimelineApplicationID uuid.UUID  `gorm:"column:timeline_application_id;type:uuid;not null;index:idx_timelines_application" json:"timeline_application_id"`
	TimelineTitle         string     `gorm:"column:timeline_title;size:160;not null" json:"timeline_title"`
	TimelineDescription   *string    `gorm:"column:timeline_description;type:text" json:"timeline_description,omitempty"`
	TimelineStatus        string     `gorm:"column:timeline_status;size:30;not null" json:"timeline_status"`
	TimelineActorID       *uuid.UUID `gorm:"column:timeline_actor_id;type:uuid" json:"timeline_actor_id,omitempty"`
	TimelineOccurredAt    time.Time  `gorm:"column:timeline_occurred_at;not null" json:"timeline_occurred_at"`
}

func (TimelineModel) TableName() string { return "application_timelines" }

func (m *TimelineModel) BeforeCreate(tx *gorm.DB) error {
	if m.TimelineID == uuid.Nil {
		m.TimelineID = uuid.New()
	}
	if m.TimelineOccurredAt.IsZero() {
		m.TimelineOccurredAt = time.Now()
	}
	return nil
}

type DocumentModel struct {
	DocumentID            uuid.UUID         `gorm:"column:document_id;type:uuid;primaryKey" json:"document_id"`
	DocumentApplicationID uuid.UUID         `gorm:"column:document_application_id;type:uuid;not null;index:idx_documents_application" json:"document_application_id"`
	DocumentType          string            `gorm:"column:document_type;size:60;not null" json:"document_type"`
	DocumentFileName      string            `gorm:"column:document_file_name;size:255;not null" json:"document_file_name"`
	DocumentFileURL       string            `gorm:"column:document_file_url;type:text;not null" json:"document_file_url"`
	DocumentObjectKey     *string           `gorm:"column:document_object_key;type:text" json:"-"`
	DocumentStatus        string            `gorm:"column:document_status;size:20;not null" json:"document_status"`
	DocumentReviewedBy    *uuid.UUID        `gorm:"column:document_reviewed_by;type:uuid" json:"document_reviewed_by,omitempty"`
	DocumentReviewedAt    *time.Time        `gorm:"column:document_reviewed_at" json:"document_reviewed_at,omitempty"`
	DocumentNotes         *string           `gorm:"column:document_notes;type:text" json:"document_notes,omitempty"`
	DocumentMetadata      datatypes.JSONMap `gorm:"column:document_metadata" json:"document_metadata,omitempty"`

	DocumentCreatedAt time.Time `gorm:"column:document_created_at;autoCreateTime" json:"document_created_at"`
	DocumentUpdatedAt time.Time `gorm:"column:document_updated_at;autoUpdateTime" json:"document_updated_at"`
}

func (DocumentModel) TableName() string { return "application_documents" }

func (m *DocumentModel) BeforeCreate(tx *gorm.DB) error {
	if m.DocumentID == uuid.Nil {
		m.DocumentID = uuid.New()
	}
	return nil
}
