package dto

import (
	"strings"

	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
)

type CreateSubjectRequest struct {
	SubjectCode    string  `json:"subject_code" validate:"required,min=2,max=40"`
	SubjectName    string  `json:"subject_name" validate:"required,max=120"`
	SubjectCredits int     `json:"subject_credits" validate:"min=0,max=20"`
	SubjectDesc    *string `json:"subject_desc" validate:"omitempty,max=2000"`
}

func (r *CreateSubjectRequest) Normalize() {
	r.SubjectCode = strings.ToUpper(strings.TrimSpace(r.SubjectCode))
	r.SubjectName = strings.TrimSpace(r.SubjectName)
}

func (r CreateSubjectRequest) ToModel() *subjectModel.SubjectModel {
	return &subjectModel.SubjectModel{
		SubjectCode:    r.SubjectCode,
		SubjectName:    r.SubjectName,
		SubjectCredits: r.SubjectCredits,
		SubjectDesc:    r.SubjectDesc,
	}
}

type UpdateSubjectRequest struct {
	SubjectCode    *string `json:"subject_code" validate:"omitempty,min=2,max=40"`
	SubjectName    *string `json:"subject_name" validate:"omitempty,max=120"`
	SubjectCredits *int    `json:"subject_credits" validate:"omitempty,min=0,max=20"`
	SubjectDesc    *string `json:"subject_desc" validate:"omitempty,max=2000"`
}

func (r *UpdateSubjectRequest) Normalize() {
	if r.SubjectCode != nil {
		v := strings.ToUpper(strings.TrimSpace(*r.SubjectCode))
		r.SubjectCode = &v
	}
	if r.SubjectName != nil {
		v := strings.TrimSpace(*r.SubjectName)
		r.SubjectName = &v
	}
}

func (r UpdateSubjectRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.SubjectCode != nil {
		m["subject_code"] = *r.SubjectCode
	}
	if r.SubjectName != nil {
		m["subject_name"] = *r.SubjectName
	}
	if r.SubjectCredits != nil {
		m["subject_credits"] = *r.SubjectCredits
	}
	if r.SubjectDesc != nil {
		m["subject_desc"] = *r.SubjectDesc
	}
	return m
}
