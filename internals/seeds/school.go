package seeds

import (
	"context"
	"strings"

	"gorm.io/gorm"

	classModel "schoolhub_backend/internals/features/school/classes/model"
	subjectModel "schoolhub_backend/internals/features/school/subjects/model"
)

type SubjectSeed struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	Credits int    `json:"credits"`
}

type ClassSeed struct {
	Name         string `json:"name"`
	Grade        int    `json:"grade"`
	Section      string `json:"section"`
	Capacity     int    `json:"capacity"`
	AcademicYear string `json:"academic_year"`
}

func seedSubjects(ctx context.Context, db *gorm.DB, ds Dataset) (int, error) {
	var existing []string
	if err := db.WithContext(ctx).Unscoped().Model(&subjectModel.SubjectModel{}).
		Pluck("subject_code", &existing).Error; err != nil {
		return 0, err
	}
	have := make(map[string]bool, len(existing))
	for _, c := range existing {
		have[c] = true
	}

	var rows []subjectModel.SubjectModel
	for _, s := range ds.Subjects {
		code := strings.ToUpper(strings.TrimSpace(s.Code))
		if have[code] {
			continue
		}
		rows = append(rows, subjectModel.SubjectModel{
			SubjectCode:    code,
			SubjectName:    s.Name,
			SubjectCredits: s.Credits,
		})
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return len(rows), db.WithContext(ctx).Create(&rows).Error
}

func seedClasses(ctx context.Context, db *gorm.DB, ds Dataset) (int, error) {
	inserted := 0
	for _, c := range ds.Classes {
		var n int64
		if err := db.WithContext(ctx).Unscoped().Model(&classModel.ClassModel{}).
			Where("class_name = ? AND class_academic_year = ?", c.Name, c.AcademicYear).
			Count(&n).Error; err != nil {
			return inserted, err
		}
		if n > 0 {
			continue
		}
		row := classModel.ClassModel{
			ClassName:         c.Name,
			ClassGrade:        c.Grade,
			ClassCapacity:     c.Capacity,
			ClassAcademicYear: c.AcademicYear,
		}
		if c.Section != "" {
			section := c.Section
			row.ClassSection = &section
		}
		if err := db.WithContext(ctx).Create(&row).Error; err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}
