package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
)

/* ===================== Attendance ===================== */

type AttendanceEntry struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
	Status    string    `json:"status" validate:"required,oneof=PRESENT ABSENT LATE"`
	Remarks   *string   `json:"remarks" validate:"omitempty,max=500"`
}

// MarkAttendanceRequest marks one class session; session_date is YYYY-MM-DD.
type MarkAttendanceRequest struct {
	ClassID     uuid.UUID         `json:"class_id" validate:"required"`
	SessionDate string            `json:"session_date" validate:"required,datetime=2006-01-02"`
	Records     []AttendanceEntry `json:"records" validate:"required,min=1,dive"`
}

func (r *MarkAttendanceRequest) Normalize() {
	r.SessionDate = strings.TrimSpace(r.SessionDate)
	for i := range r.Records {
		r.Records[i].Status = strings.ToUpper(strings.TrimSpace(r.Records[i].Status))
	}
}

// Date is the session day at UTC midnight.
func (r MarkAttendanceRequest) Date() time.Time {
	t, _ := time.Parse("2006-01-02", r.SessionDate)
	return t.UTC()
}

type MarkResult struct {
	ClassID     uuid.UUID `json:"class_id"`
	SessionDate string    `json:"session_date"`
	Saved       int       `json:"saved"`
}

type AttendanceFilter struct {
	ClassID   *uuid.UUID
	StudentID *uuid.UUID
	Status    string
	From      *time.Time
	To        *time.Time
}

type AttendanceSummary struct {
	ClassID   *uuid.UUID       `json:"class_id,omitempty"`
	StudentID *uuid.UUID       `json:"student_id,omitempty"`
	Year      int              `json:"year"`
	Present   int              `json:"present"`
	Late      int              `json:"late"`
	Absent    int              `json:"absent"`
	Sessions  int              `json:"sessions"`
	Rate      aggregate.Metric `json:"rate"`
	RateText  string           `json:"rate_text"`
	Monthly   [12]int          `json:"monthly_attended"`
	Bars      []presenter.Bar  `json:"bars"`
}

/* ===================== Behavior ===================== */

type CreateBehaviorRequest struct {
	StudentID   uuid.UUID  `json:"student_id" validate:"required"`
	Type        string     `json:"behavior_type" validate:"required,oneof=POSITIVE_RECOGNITION MINOR_INFRACTION MAJOR_INFRACTION ACADEMIC_DISHONESTY NOTE"`
	Description string     `json:"behavior_description" validate:"required,max=2000"`
	RecordedAt  *time.Time `json:"behavior_recorded_at"`
}

func (r *CreateBehaviorRequest) Normalize() {
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
	r.Description = strings.TrimSpace(r.Description)
}

type BehaviorSummary struct {
	StudentID uuid.UUID `json:"student_id"`
	Positive  int       `json:"positive"`
	Negative  int       `json:"negative"`
	Score     int       `json:"score"`
}
