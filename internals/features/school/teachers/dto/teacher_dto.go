package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/reports/presenter"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
	teacherModel "schoolhub_backend/internals/features/school/teachers/model"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

/* ===================== Teacher ===================== */

type CreateTeacherRequest struct {
	UserName       string           `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName       string           `json:"full_name" validate:"required,max=120"`
	Email          string           `json:"email" validate:"required,email"`
	Password       string           `json:"password" validate:"required,min=8"`
	Phone          *string          `json:"phone" validate:"omitempty,max=30"`
	Qualification  *string          `json:"qualification" validate:"omitempty,max=120"`
	Specialization *string          `json:"specialization" validate:"omitempty,max=120"`
	Experience     int              `json:"experience" validate:"min=0,max=60"`
	Salary         *decimal.Decimal `json:"salary"`
	HiredAt        *time.Time       `json:"hired_at"`
}

func (r *CreateTeacherRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.UserName = strings.TrimSpace(r.UserName)
	if r.UserName == "" {
		r.UserName = strings.SplitN(r.Email, "@", 2)[0]
		if len(r.UserName) < 3 {
			r.UserName = "teacher_" + r.UserName
		}
	}
}

func (r CreateTeacherRequest) ToModel() *userModel.UserModel {
	hired := r.HiredAt
	if hired == nil {
		now := time.Now()
		hired = &now
	}
	return &userModel.UserModel{
		UserName:       r.UserName,
		FullName:       r.FullName,
		Email:          r.Email,
		Phone:          r.Phone,
		Role:           constants.RoleTeacher,
		IsActive:       true,
		Qualification:  r.Qualification,
		Specialization: r.Specialization,
		Experience:     r.Experience,
		Salary:         r.Salary,
		HiredAt:        hired,
	}
}

type UpdateTeacherRequest struct {
	FullName       *string          `json:"full_name" validate:"omitempty,max=120"`
	Phone          *string          `json:"phone" validate:"omitempty,max=30"`
	Qualification  *string          `json:"qualification" validate:"omitempty,max=120"`
	Specialization *string          `json:"specialization" validate:"omitempty,max=120"`
	Experience     *int             `json:"experience" validate:"omitempty,min=0,max=60"`
	Salary         *decimal.Decimal `json:"salary"`
	IsActive       *bool            `json:"is_active"`
}

func (r UpdateTeacherRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.FullName != nil {
		m["full_name"] = strings.TrimSpace(*r.FullName)
	}
	if r.Phone != nil {
		m["phone"] = *r.Phone
	}
	if r.Qualification != nil {
		m["qualification"] = *r.Qualification
	}
	if r.Specialization != nil {
		m["specialization"] = *r.Specialization
	}
	if r.Experience != nil {
		m["experience"] = *r.Experience
	}
	if r.Salary != nil {
		m["salary"] = *r.Salary
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	return m
}

type TeacherResponse struct {
	ID             uuid.UUID                   `json:"id"`
	UserName       string                      `json:"user_name"`
	FullName       string                      `json:"full_name"`
	Email          string                      `json:"email"`
	Phone          *string                     `json:"phone,omitempty"`
	IsActive       bool                        `json:"is_active"`
	Qualification  *string                     `json:"qualification,omitempty"`
	Specialization *string                     `json:"specialization,omitempty"`
	Experience     int                         `json:"experience"`
	Salary         *decimal.Decimal            `json:"salary,omitempty"`
	HiredAt        *time.Time                  `json:"hired_at,omitempty"`
	Subjects       []subjectModel.SubjectModel `json:"subjects,omitempty"`
}

func FromModel(u *userModel.UserModel) TeacherResponse {
	return TeacherResponse{
		ID:             u.ID,
		UserName:       u.UserName,
		FullName:       u.FullName,
		Email:          u.Email,
		Phone:          u.Phone,
		IsActive:       u.IsActive,
		Qualification:  u.Qualification,
		Specialization: u.Specialization,
		Experience:     u.Experience,
		Salary:         u.Salary,
		HiredAt:        u.HiredAt,
	}
}

func FromModels(rows []userModel.UserModel) []TeacherResponse {
	out := make([]TeacherResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

type AssignSubjectsRequest struct {
	SubjectIDs []uuid.UUID `json:"subject_ids" validate:"dive,required"`
}

/* ===================== Reviews ===================== */

type CreateReviewRequest struct {
	ReviewPeriod              string    `json:"review_period" validate:"required,max=40"`
	ReviewDate                time.Time `json:"review_date" validate:"required"`
	ReviewTeachingQuality     int       `json:"review_teaching_quality" validate:"required,min=1,max=5"`
	ReviewClassroomManagement int       `json:"review_classroom_management" validate:"required,min=1,max=5"`
	ReviewStudentEngagement   int       `json:"review_student_engagement" validate:"required,min=1,max=5"`
	ReviewProfessionalism     int       `json:"review_professionalism" validate:"required,min=1,max=5"`
	ReviewCommunication       int       `json:"review_communication" validate:"required,min=1,max=5"`
	ReviewPunctuality         int       `json:"review_punctuality" validate:"required,min=1,max=5"`
	ReviewComments            *string   `json:"review_comments" validate:"omitempty,max=4000"`
}

func (r CreateReviewRequest) ToModel(teacherID uuid.UUID, reviewerID *uuid.UUID) *teacherModel.PerformanceReviewModel {
	m := &teacherModel.PerformanceReviewModel{
		ReviewTeacherID:           teacherID,
		ReviewReviewerID:          reviewerID,
		ReviewPeriod:              strings.TrimSpace(r.ReviewPeriod),
		ReviewDate:                r.ReviewDate,
		ReviewTeachingQuality:     r.ReviewTeachingQuality,
		ReviewClassroomManagement: r.ReviewClassroomManagement,
		ReviewStudentEngagement:   r.ReviewStudentEngagement,
		ReviewProfessionalism:     r.ReviewProfessionalism,
		ReviewCommunication:       r.ReviewCommunication,
		ReviewPunctuality:         r.ReviewPunctuality,
		ReviewComments:            r.ReviewComments,
	}
	return m
}

type ReviewSummary struct {
	TeacherID     uuid.UUID                             `json:"teacher_id"`
	ReviewCount   int                                   `json:"review_count"`
	AverageRating float64                               `json:"average_rating"`
	LatestRating  *float64                              `json:"latest_rating"`
	Trend         string                                `json:"trend"`
	TrendStyle    presenter.Style                       `json:"trend_style"`
	Reviews       []teacherModel.PerformanceReviewModel `json:"reviews"`
}
