package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// UserModel is every person in the school: admins, teachers, students and parents.
// Student and teacher attributes are nullable and only set for that role.
type UserModel struct {
	ID       uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	UserName string    `gorm:"column:user_name;size:50;not null;uniqueIndex:uq_users_user_name" json:"user_name"`
	FullName string    `gorm:"column:full_name;size:120;not null" json:"full_name"`
	Email    string    `gorm:"column:email;size:255;not null;uniqueIndex:uq_users_email" json:"email"`
	Password *string   `gorm:"column:password" json:"-"`
	GoogleID *string   `gorm:"column:google_id;size:255;uniqueIndex:uq_users_google_id" json:"-"`
	Phone    *string   `gorm:"column:phone;size:30" json:"phone,omitempty"`
	Address  *string   `gorm:"column:address;type:text" json:"address,omitempty"`
	Role     string    `gorm:"column:role;size:20;not null;index:idx_users_role" json:"role"`
	IsActive bool      `gorm:"column:is_active;not null" json:"is_active"`

	/* ============ Student attributes ============ */
	StudentNumber  *string    `gorm:"column:student_number;size:30;uniqueIndex:uq_users_student_number" json:"student_number,omitempty"`
	ClassID        *uuid.UUID `gorm:"column:class_id;type:uuid;index:idx_users_class" json:"class_id,omitempty"`
	ParentID       *uuid.UUID `gorm:"column:parent_id;type:uuid;index:idx_users_parent" json:"parent_id,omitempty"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth" json:"date_of_birth,omitempty"`
	Gender         *string    `gorm:"column:gender;size:10" json:"gender,omitempty"`
	EnrolledAt     *time.Time `gorm:"column:enrolled_at" json:"enrolled_at,omitempty"`
	PhotoURL       *string    `gorm:"column:photo_url;type:text" json:"photo_url,omitempty"`
	PhotoObjectKey *string    `gorm:"column:photo_object_key;type:text" json:"-"`

	/* ============ Teacher attributes ============ */
	Qualification  *string          `gorm:"column:qualification;size:120" json:"qualification,omitempty"`
	Specialization *string          `gorm:"column:specialization;size:120" json:"specialization,omitempty"`
	Experience     int              `gorm:"column:experience;not null;default:0" json:"experience"`
	Salary         *decimal.Decimal `gorm:"column:salary;type:numeric(14,2)" json:"salary,omitempty"`
	HiredAt        *time.Time       `gorm:"column:hired_at" json:"hired_at,omitempty"`

	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index" json:"-"`
}

func (UserModel) TableName() string { return "users" }

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = strings.ToLower(strings.TrimSpace(u.Role))
	return nil
}
