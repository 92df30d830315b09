// file: internals/features/school/students/dto/student_dto.go
package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"schoolhub_backend/internals/constants"
	userModel "schoolhub_backend/internals/features/users/user/model"
)

/* =========================================================
   REQUESTS
   ========================================================= */

type CreateStudentRequest struct {
	UserName      string     `json:"user_name" validate:"omitempty,min=3,max=50"`
	FullName      string     `json:"full_name" validate:"required,min=2,max=120"`
	Email         string     `json:"email" validate:"required,email"`
	Password      string     `json:"password" validate:"omitempty,min=8,max=72"`
	StudentNumber string     `json:"student_number" validate:"omitempty,max=30"`
	ClassID       *uuid.UUID `json:"class_id"`
	ParentID      *uuid.UUID `json:"parent_id"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        *string    `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone         *string    `json:"phone" validate:"omitempty,max=30"`
	Address       *string    `json:"address"`
}

func (r *CreateStudentRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.UserName = strings.TrimSpace(r.UserName)
	r.StudentNumber = strings.ToUpper(strings.TrimSpace(r.StudentNumber))
	if r.Gender != nil {
		g := strings.ToUpper(strings.TrimSpace(*r.Gender))
		r.Gender = &g
	}
	if r.UserName == "" && r.Email != "" {
		r.UserName = strings.SplitN(r.Email, "@", 2)[0]
		if len(r.UserName) < 3 {
			r.UserName = "student_" + r.UserName
		}
	}
}

func (r CreateStudentRequest) ToModel() *userModel.UserModel {
	now := time.Now().UTC()
	num := r.StudentNumber
	return &userModel.UserModel{
		UserName:      r.UserName,
		FullName:      r.FullName,
		Email:         r.Email,
		Role:          constants.RoleStudent,
		IsActive:      true,
		StudentNumber: &num,
		ClassID:       r.ClassID,
		ParentID:      r.ParentID,
		DateOfBirth:   r.DateOfBirth,
		Gender:        r.Gender,
		Phone:         r.Phone,
		Address:       r.Address,
		EnrolledAt:    &now,
	}
}

// UpdateStudentRequest is a partial update; nil fields are left untouched.
type UpdateStudentRequest struct {
	FullName      *string    `json:"full_name" validate:"omitempty,min=2,max=120"`
	Email         *string    `json:"email" validate:"omitempty,email"`
	StudentNumber *string    `json:"student_number" validate:"omitempty,max=30"`
	ClassID       *uuid.UUID `json:"class_id"`
	ParentID      *uuid.UUID `json:"parent_id"`
	DateOfBirth   *time.Time `json:"date_of_birth"`
	Gender        *string    `json:"gender" validate:"omitempty,oneof=MALE FEMALE OTHER"`
	Phone         *string    `json:"phone" validate:"omitempty,max=30"`
	Address       *string    `json:"address"`
	IsActive      *bool      `json:"is_active"`
}

func (r *UpdateStudentRequest) Normalize() {
	if r.FullName != nil {
		v := strings.TrimSpace(*r.FullName)
		r.FullName = &v
	}
	if r.Email != nil {
		v := strings.ToLower(strings.TrimSpace(*r.Email))
		r.Email = &v
	}
	if r.StudentNumber != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.StudentNumber))
		r.StudentNumber = &v
	}
	if r.Gender != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.Gender))
		r.Gender = &v
	}
}

// Updates returns the column map for GORM Updates.
func (r UpdateStudentRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.FullName != nil {
		m["full_name"] = *r.FullName
	}
	if r.Email != nil {
		m["email"] = *r.Email
	}
	if r.StudentNumber != nil {
		m["student_number"] = *r.StudentNumber
	}
	if r.ClassID != nil {
		m["class_id"] = *r.ClassID
	}
	if r.ParentID != nil {
		m["parent_id"] = *r.ParentID
	}
	if r.DateOfBirth != nil {
		m["date_of_birth"] = *r.DateOfBirth
	}
	if r.Gender != nil {
		m["gender"] = *r.Gender
	}
	if r.Phone != nil {
		m["phone"] = *r.Phone
	}
	if r.Address != nil {
		m["address"] = *r.Address
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	return m
}

type StudentFilter struct {
	ClassID  *uuid.UUID
	ParentID *uuid.UUID
	IsActive *bool
}

/* =========================================================
   RESPONSES
   ========================================================= */

type StudentResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserName      string     `json:"user_name"`
	FullName      string     `json:"full_name"`
	Email         string     `json:"email"`
	StudentNumber *string    `json:"student_number,omitempty"`
	ClassID       *uuid.UUID `json:"class_id,omitempty"`
	ParentID      *uuid.UUID `json:"parent_id,omitempty"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Gender        *string    `json:"gender,omitempty"`
	Phone         *string    `json:"phone,omitempty"`
	Address       *string    `json:"address,omitempty"`
	PhotoURL      *string    `json:"photo_url,omitempty"`
	IsActive      bool       `json:"is_active"`
	EnrolledAt    *time.Time `json:"enrolled_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func FromModel(u *userModel.UserModel) StudentResponse {
	return StudentResponse{
		ID:            u.ID,
		UserName:      u.UserName,
		FullName:      u.FullName,
		Email:         u.Email,
		StudentNumber: u.StudentNumber,
		ClassID:       u.ClassID,
		ParentID:      u.ParentID,
		DateOfBirth:   u.DateOfBirth,
		Gender:        u.Gender,
		Phone:         u.Phone,
		Address:       u.Address,
		PhotoURL:      u.PhotoURL,
		IsActive:      u.IsActive,
		EnrolledAt:    u.EnrolledAt,
		CreatedAt:     u.CreatedAt,
	}
}

func FromModels(rows []userModel.UserModel) []StudentResponse {
	out := make([]StudentResponse, 0, len(rows))
	for i := range rows {
		out = append(out, FromModel(&rows[i]))
	}
	return out
}

/* =========================================================
   BULK IMPORT
   ========================================================= */

type BulkImportRequest struct {
	Students []CreateStudentRequest `json:"students" validate:"required,min=1,max=500"`
}

// BulkRowError is a row that failed validation or storage; row is 1-based.
type BulkRowError struct {
	Row     int    `json:"row"`
	Email   string `json:"email,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// BulkRowSkip is a row not created because the student already exists.
type BulkRowSkip struct {
	Row    int    `json:"row"`
	Email  string `json:"email,omitempty"`
	Reason string `json:"reason"`
}

type BulkImportResult struct {
	Created []StudentResponse `json:"created"`
	Errors  []BulkRowError    `json:"errors"`
	Skipped []BulkRowSkip     `json:"skipped"`
}

/* =========================================================
   PERFORMANCE
   ========================================================= */

type SubjectAverage struct {
	SubjectID   uuid.UUID `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	Exams       int       `json:"exams"`
	Average     float64   `json:"average"`
	Grade       string    `json:"grade"`
}

type ExamScore struct {
	ExamID      uuid.UUID `json:"exam_id"`
	ExamTitle   string    `json:"exam_title"`
	SubjectID   uuid.UUID `json:"subject_id"`
	SubjectName string    `json:"subject_name"`
	ExamDate    time.Time `json:"exam_date"`
	Marks       float64   `json:"marks"`
	TotalMarks  float64   `json:"total_marks"`
	PassMarks   float64   `json:"pass_marks"`
	Percentage  float64   `json:"percentage"`
	Grade       string    `json:"grade"`
	Passed      bool      `json:"passed"`
}
