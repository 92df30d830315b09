package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NewsPostModel struct {
	NewsID          uuid.UUID  `gorm:"column:news_id;type:uuid;primaryKey" json:"news_id"`
	NewsTitle       string     `gorm:"column:news_title;size:200;not null" json:"news_title"`
	NewsSlug        string     `gorm:"column:news_slug;size:220;not null;uniqueIndex:uq_news_slug" json:"news_slug"`
	NewsExcerpt     *string    `gorm:"column:news_excerpt;type:text" json:"news_excerpt,omitempty"`
	NewsContent     string     `gorm:"column:news_content;type:text;not null" json:"news_content"`
	NewsCategory    string     `gorm:"column:news_category;size:60;not null;default:'general'" json:"news_category"`
	NewsIsPublished bool       `gorm:"column:news_is_published;not null;default:false;index:idx_news_published" json:"news_is_published"`
	NewsPublishedAt *time.Time `gorm:"column:news_published_at" json:"news_published_at,omitempty"`
	NewsAuthorID    *uuid.UUID `gorm:"column:news_author_id;type:uuid" json:"news_author_id,omitempty"`

	NewsCreatedAt time.Time      `gorm:"column:news_created_at;autoCreateTime" json:"news_created_at"`
	NewsUpdatedAt time.Time      `gorm:"column:news_updated_at;autoUpdateTime" json:"news_updated_at"`
	NewsDeletedAt gorm.DeletedAt `gorm:"column:news_deleted_at;index" json:"-"`
}

func (NewsPostModel) TableName() string { return "news_posts" }

func (m *NewsPostModel) BeforeCreate(tx *gorm.DB) error {
	if m.NewsID == uuid.Nil {
		m.NewsID = uuid.New()
	}
	return nil
}

type ProgramModel struct {
	ProgramID          uuid.UUID `gorm:"column:program_id;type:uuid;primaryKey" json:"program_id"`
	ProgramName        string    `gorm:"column:program_name;size:160;not null" json:"program_name"`
	ProgramSlug        string    `gorm:"column:program_slug;size:180;not null;uniqueIndex:uq_programs_slug" json:"program_slug"`
	ProgramLevel       string    `gorm:"column:program_level;size:60;not null" json:"program_level"`
	ProgramDescription string    `gorm:"column:program_description;type:text;not null" json:"program_description"`
	ProgramDuration    *string   `gorm:"column:program_duration;size:60" json:"program_duration,omitempty"`
	ProgramOrderIndex  int       `gorm:"column:program_order_index;not null;default:0" json:"program_order_index"`

	ProgramCreatedAt time.Time `gorm:"column:program_created_at;autoCreateTime" json:"program_created_at"`
	ProgramUpdatedAt time.Time `gorm:"column:program_updated_at;autoUpdateTime" json:"program_updated_at"`
}

func (ProgramModel) TableName() string { return "programs" }

func (m *ProgramModel) BeforeCreate(tx *gorm.DB) error {
	if m.ProgramID == uuid.Nil {
		m.ProgramID = uuid.New()
	}
	return nil
}

type ContactMessageModel struct {
	ContactID        uuid.UUID `gorm:"column:contact_id;type:uuid;primaryKey" json:"contact_id"`
	ContactName      string    `gorm:"column:contact_name;size:120;not null" json:"contact_name"`
	ContactEmail     string    `gorm:"column:contact_email;size:255;not null" json:"contact_email"`
	ContactPhone     *string   `gorm:"column:contact_phone;size:30" json:"contact_phone,omitempty"`
	ContactSubject   string    `gorm:"column:contact_subject;size:200;not null" json:"contact_subject"`
	ContactMessage   string    `gorm:"column:contact_message;type:text;not null" json:"contact_message"`
	ContactIsHandled bool      `gorm:"column:contact_is_handled;not null;default:false;index:idx_contact_handled" json:"contact_is_handled"`

	ContactCreatedAt time.Time `gorm:"column:contact_created_at;autoCreateTime" json:"contact_created_at"`
}

func (ContactMessageModel) TableName() string { return "contact_messages" }

func (m *ContactMessageModel) BeforeCreate(tx *gorm.DB) error {
	if m.ContactID == uuid.Nil {
		m.ContactID = uuid.New()
	}
	return nil
}
