package dto

import (
	"strings"

	"schoolhub_backend/internals/features/home/model"
)

/* ===================== News ===================== */

type CreateNewsRequest struct {
	NewsTitle       string  `json:"news_title" validate:"required,max=200"`
	NewsExcerpt     *string `json:"news_excerpt" validate:"omitempty,max=500"`
	NewsContent     string  `json:"news_content" validate:"required"`
	NewsCategory    string  `json:"news_category" validate:"omitempty,max=60"`
	NewsIsPublished bool    `json:"news_is_published"`
}

func (r *CreateNewsRequest) Normalize() {
	r.NewsTitle = strings.TrimSpace(r.NewsTitle)
	r.NewsCategory = strings.ToLower(strings.TrimSpace(r.NewsCategory))
	if r.NewsCategory == "" {
		r.NewsCategory = "general"
	}
}

type UpdateNewsRequest struct {
	NewsTitle       *string `json:"news_title" validate:"omitempty,max=200"`
	NewsExcerpt     *string `json:"news_excerpt" validate:"omitempty,max=500"`
	NewsContent     *string `json:"news_content" validate:"omitempty,min=1"`
	NewsCategory    *string `json:"news_category" validate:"omitempty,max=60"`
	NewsIsPublished *bool   `json:"news_is_published"`
}

// Updates leaves the slug untouched so published links stay valid.
func (r UpdateNewsRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.NewsTitle != nil {
		m["news_title"] = strings.TrimSpace(*r.NewsTitle)
	}
	if r.NewsExcerpt != nil {
		m["news_excerpt"] = *r.NewsExcerpt
	}
	if r.NewsContent != nil {
		m["news_content"] = *r.NewsContent
	}
	if r.NewsCategory != nil {
		m["news_category"] = strings.ToLower(strings.TrimSpace(*r.NewsCategory))
	}
	if r.NewsIsPublished != nil {
		m["news_is_published"] = *r.NewsIsPublished
	}
	return m
}

type NewsFilter struct {
	Category  string
	Published *bool
}

/* ===================== Programs ===================== */

type CreateProgramRequest struct {
	ProgramName        string  `json:"program_name" validate:"required,max=160"`
	ProgramLevel       string  `json:"program_level" validate:"required,max=60"`
	ProgramDescription string  `json:"program_description" validate:"required"`
	ProgramDuration    *string `json:"program_duration" validate:"omitempty,max=60"`
	ProgramOrderIndex  int     `json:"program_order_index" validate:"gte=0"`
}

func (r CreateProgramRequest) ToModel(slug string) *model.ProgramModel {
	return &model.ProgramModel{
		ProgramName:        strings.TrimSpace(r.ProgramName),
		ProgramSlug:        slug,
		ProgramLevel:       strings.TrimSpace(r.ProgramLevel),
		ProgramDescription: r.ProgramDescription,
		ProgramDuration:    r.ProgramDuration,
		ProgramOrderIndex:  r.ProgramOrderIndex,
	}
}

type UpdateProgramRequest struct {
	ProgramName        *string `json:"program_name" validate:"omitempty,max=160"`
	ProgramLevel       *string `json:"program_level" validate:"omitempty,max=60"`
	ProgramDescription *string `json:"program_description" validate:"omitempty,min=1"`
	ProgramDuration    *string `json:"program_duration" validate:"omitempty,max=60"`
	ProgramOrderIndex  *int    `json:"program_order_index" validate:"omitempty,gte=0"`
}

func (r UpdateProgramRequest) Updates() map[string]any {
	m := map[string]any{}
	if r.ProgramName != nil {
		m["program_name"] = strings.TrimSpace(*r.ProgramName)
	}
	if r.ProgramLevel != nil {
		m["program_level"] = strings.TrimSpace(*r.ProgramLevel)
	}
	if r.ProgramDescription != nil {
		m["program_description"] = *r.ProgramDescription
	}
	if r.ProgramDuration != nil {
		m["program_duration"] = *r.ProgramDuration
	}
	if r.ProgramOrderIndex != nil {
		m["program_order_index"] = *r.ProgramOrderIndex
	}
	return m
}

/* ===================== Contact ===================== */

type ContactRequest struct {
	ContactName    string  `json:"contact_name" form:"contact_name" validate:"required,max=120"`
	ContactEmail   string  `json:"contact_email" form:"contact_email" validate:"required,email,max=255"`
	ContactPhone   *string `json:"contact_phone" form:"contact_phone" validate:"omitempty,max=30"`
	ContactSubject string  `json:"contact_subject" form:"contact_subject" validate:"required,max=200"`
	ContactMessage string  `json:"contact_message" form:"contact_message" validate:"required,max=5000"`
}

func (r *ContactRequest) Normalize() {
	r.ContactName = strings.TrimSpace(r.ContactName)
	r.ContactEmail = strings.ToLower(strings.TrimSpace(r.ContactEmail))
	r.ContactSubject = strings.TrimSpace(r.ContactSubject)
	r.ContactMessage = strings.TrimSpace(r.ContactMessage)
	if r.ContactPhone != nil && strings.TrimSpace(*r.ContactPhone) == "" {
		r.ContactPhone = nil
	}
}

func (r ContactRequest) ToModel() *model.ContactMessageModel {
	return &model.ContactMessageModel{
		ContactName:    r.ContactName,
		ContactEmail:   r.ContactEmail,
		ContactPhone:   r.ContactPhone,
		ContactSubject: r.ContactSubject,
		ContactMessage: r.ContactMessage,
	}
}
