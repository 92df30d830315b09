package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/features/admissions/model"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
)

/* ===================== Submit ===================== */

type SubmitApplicationRequest struct {
	FirstName      string  `json:"first_name" validate:"required,max=80"`
	LastName       string  `json:"last_name" validate:"required,max=80"`
	DateOfBirth    string  `json:"date_of_birth" validate:"required,datetime=2006-01-02"`
	Gender         string  `json:"gender" validate:"required,oneof=male female"`
	Grade          int     `json:"grade" validate:"required,gte=1,lte=12"`
	PreviousSchool *string `json:"previous_school" validate:"omitempty,max=160"`
	ParentName     string  `json:"parent_name" validate:"required,max=120"`
	ParentEmail    string  `json:"parent_email" validate:"required,email,max=255"`
	ParentPhone    string  `json:"parent_phone" validate:"required,min=6,max=30"`
	Address        *string `json:"address" validate:"omitempty,max=2000"`
}

func (r *SubmitApplicationRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Gender = strings.ToLower(strings.TrimSpace(r.Gender))
	r.ParentName = strings.TrimSpace(r.ParentName)
	r.ParentEmail = strings.ToLower(strings.TrimSpace(r.ParentEmail))
	r.ParentPhone = strings.TrimSpace(r.ParentPhone)
}

// ToModel expects a validated request; number and status are set by the service.
func (r SubmitApplicationRequest) ToModel() *model.ApplicationModel {
	dob, _ := time.Parse("2006-01-02", r.DateOfBirth)
	return &model.ApplicationModel{
		ApplicationFirstName:      r.FirstName,
		ApplicationLastName:       r.LastName,
		ApplicationDateOfBirth:    dob,
		ApplicationGender:         r.Gender,
		ApplicationGrade:          r.Grade,
		ApplicationPreviousSchool: r.PreviousSchool,
		ApplicationParentName:     r.ParentName,
		ApplicationParentEmail:    r.ParentEmail,
		ApplicationParentPhone:    r.ParentPhone,
		ApplicationAddress:        r.Address,
	}
}

/* ===================== Admin ===================== */

type ApplicationFilter struct {
	Status string
	Grade  int
}

type UpdateStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=PENDING UNDER_REVIEW INTERVIEW_SCHEDULED ACCEPTED REJECTED WAITLISTED"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *UpdateStatusRequest) Normalize() {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
}

type ScheduleInterviewRequest struct {
	InterviewAt time.Time `json:"interview_at" validate:"required"`
	Location    *string   `json:"location" validate:"omitempty,max=160"`
	Notes       *string   `json:"notes" validate:"omitempty,max=2000"`
}

// AddDocumentRequest is the JSON form; multipart uploads fill FileName and FileURL from the stored object.
type AddDocumentRequest struct {
	DocumentType string  `json:"document_type" form:"document_type" validate:"required,max=60"`
	FileName     string  `json:"file_name" form:"file_name" validate:"required,max=255"`
	FileURL      string  `json:"file_url" form:"file_url" validate:"required,url"`
	Notes        *string `json:"notes" form:"notes" validate:"omitempty,max=2000"`
}

type DocumentStatusRequest struct {
	Status string  `json:"status" validate:"required,oneof=PENDING APPROVED REJECTED"`
	Notes  *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *DocumentStatusRequest) Normalize() {
	r.Status = strings.ToUpper(strings.TrimSpace(r.Status))
}

/* ===================== Responses ===================== */

type DocumentResponse struct {
	model.DocumentModel
	Style presenter.Style `json:"style"`
}

type ApplicationResponse struct {
	model.ApplicationModel
	FullName  string                `json:"full_name"`
	Style     presenter.Style       `json:"style"`
	Timeline  []model.TimelineModel `json:"timeline,omitempty"`
	Documents []DocumentResponse    `json:"documents,omitempty"`
}

func FullName(m model.ApplicationModel) string {
	return strings.TrimSpace(m.ApplicationFirstName + " " + m.ApplicationLastName)
}

func FromModel(m model.ApplicationModel) ApplicationResponse {
	return ApplicationResponse{
		ApplicationModel: m,
		FullName:         FullName(m),
		Style:            presenter.StatusStyle(presenter.KindAdmission, m.ApplicationStatus),
	}
}

func FromModels(rows []model.ApplicationModel) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}

func FromDocuments(rows []model.DocumentModel) []DocumentResponse {
	out := make([]DocumentResponse, 0, len(rows))
	for _, d := range rows {
		out = append(out, DocumentResponse{DocumentModel: d, Style: presenter.StatusStyle(presenter.KindDocument, d.DocumentStatus)})
	}
	return out
}

// PublicDocument hides file locations from the status lookup.
type PublicDocument struct {
	DocumentType string          `json:"document_type"`
	Status       string          `json:"status"`
	Style        presenter.Style `json:"style"`
}

type PublicTimelineEntry struct {
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	Status      string    `json:"status"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// StatusLookup is what applicants see at /api/public/admissions/:application_number.
type StatusLookup struct {
	ApplicationID     uuid.UUID             `json:"application_id"`
	ApplicationNumber string                `json:"application_number"`
	ApplicantName     string                `json:"applicant_name"`
	Grade             int                   `json:"grade"`
	Status            string                `json:"status"`
	Style             presenter.Style       `json:"style"`
	SubmittedAt       time.Time             `json:"submitted_at"`
	InterviewAt       *time.Time            `json:"interview_at,omitempty"`
	Timeline          []PublicTimelineEntry `json:"timeline"`
	Documents         []PublicDocument      `json:"documents"`
}

type AdmissionStats struct {
	Year           int                  `json:"year"`
	Total          int64                `json:"total"`
	ByStatus       map[string]int       `json:"by_status"`
	AcceptanceRate aggregate.Metric     `json:"acceptance_rate"`
	Monthly        [12]int              `json:"monthly_submissions"`
	Bars           []presenter.Bar      `json:"bars"`
	Cards          []presenter.StatCard `json:"cards"`
}
