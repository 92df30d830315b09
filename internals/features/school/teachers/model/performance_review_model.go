package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PerformanceReviewModel: six 1-5 sub-scores; the overall rating is derived on write.
type PerformanceReviewModel struct {
	ReviewID                  uuid.UUID  `gorm:"column:review_id;type:uuid;primaryKey" json:"review_id"`
	ReviewTeacherID           uuid.UUID  `gorm:"column:review_teacher_id;type:uuid;not null;index:idx_reviews_teacher" json:"review_teacher_id"`
	ReviewReviewerID          *uuid.UUID `gorm:"column:review_reviewer_id;type:uuid" json:"review_reviewer_id,omitempty"`
	ReviewPeriod              string     `gorm:"column:review_period;size:40;not null" json:"review_period"`
	ReviewDate                time.Time  `gorm:"column:review_date;not null" json:"review_date"`
	ReviewTeachingQuality     int        `gorm:"column:review_teaching_quality;not null" json:"review_teaching_quality"`
	ReviewClassroomManagement int        `gorm:"column:review_classroom_management;not null" json:"review_classroom_management"`
	ReviewStudentEngagement   int        `gorm:"column:review_student_engagement;not null" json:"review_student_engagement"`
	ReviewProfessionalism     int        `gorm:"column:review_professionalism;not null" json:"review_professionalism"`
	ReviewCommunication       int        `gorm:"column:review_communication;not null" json:"review_communication"`
	ReviewPunctuality         int        `gorm:"column:review_punctuality;not null" json:"review_punctuality"`
	ReviewOverallRating       float64    `gorm:"column:review_overall_rating;not null" json:"review_overall_rating"`
	ReviewComments            *string    `gorm:"column:review_comments;type:text" json:"review_comments,omitempty"`

	ReviewCreatedAt time.Time `gorm:"column:review_created_at;autoCreateTime" json:"review_created_at"`
}

func (PerformanceReviewModel) TableName() string { return "performance_reviews" }

func (m *PerformanceReviewModel) BeforeCreate(tx *gorm.DB) error {
	if m.ReviewID == uuid.Nil {
		m.ReviewID = uuid.New()
	}
	return nil
}

// Scores returns the sub-scores in a fixed order.
func (m PerformanceReviewModel) Scores() []int {
	return []int{
		m.ReviewTeachingQuality, m.ReviewClassroomManagement, m.ReviewStudentEngagement,
		m.ReviewProfessionalism, m.ReviewCommunication, m.ReviewPunctuality,
	}
}
