package seeds

import (
	"context"
	"time"

	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	admissionModel "schoolhub_backend/internals/features/admissions/model"
	admissionService "schoolhub_backend/internals/features/admissions/service"
)

type ApplicationSeed struct {
	Number      string    `json:"number"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	DateOfBirth string    `json:"date_of_birth"`
	Gender      string    `json:"gender"`
	Grade       int       `json:"grade"`
	ParentName  string    `json:"parent_name"`
	ParentEmail string    `json:"parent_email"`
	ParentPhone string    `json:"parent_phone"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// seedApplications creates pending applications with their submission timeline entry.
func seedApplications(ctx context.Context, db *gorm.DB, ds Dataset) (int, error) {
	inserted := 0
	for _, a := range ds.Applications {
		var n int64
		if err := db.WithContext(ctx).Model(&admissionModel.ApplicationModel{}).
			Where("application_number = ?", a.Number).Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			continue
		}
		dob, err := time.Parse("2006-01-02", a.DateOfBirth)
		if err != nil {
			return inserted, err
		}

		err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			app := admissionModel.ApplicationModel{
				ApplicationNumber:      a.Number,
				ApplicationFirstName:   a.FirstName,
				ApplicationLastName:    a.LastName,
				ApplicationDateOfBirth: dob,
				ApplicationGender:      a.Gender,
				ApplicationGrade:       a.Grade,
				ApplicationParentName:  a.ParentName,
				ApplicationParentEmail: a.ParentEmail,
				ApplicationParentPhone: a.ParentPhone,
				ApplicationStatus:      constants.AdmissionPending,
				ApplicationSubmittedAt: a.SubmittedAt,
			}
			if err := tx.Create(&app).Error; err != nil {
				return err
			}
			return tx.Create(&admissionModel.TimelineModel{
				TimelineApplicationID: app.ApplicationID,
				TimelineTitle:         admissionService.TimelineSubmitted,
				TimelineStatus:        constants.AdmissionPending,
				TimelineOccurredAt:    a.SubmittedAt,
			}).Error
		})
		if err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
