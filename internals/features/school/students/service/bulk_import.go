package service

import (
	"context"
	"errors"

	"schoolhub_backend/internals/configs"
	classService "schoolhub_backend/internals/features/school/classes/service"
	"schoolhub_backend/internals/features/school/students/dto"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/metrics"
)

const (
	outcomeCreated = "created"
	outcomeSkipped = "skipped"
	outcomeError   = "error"
)

// BulkImport processes every row independently. Existing students (same email or
// student number, in storage or earlier in the batch) are skipped; invalid rows
// are reported as errors; the rest are created.
func (s *StudentService) BulkImport(ctx context.Context, rows []dto.CreateStudentRequest) dto.BulkImportResult {
	log := configs.Logger("students")
	res := dto.BulkImportResult{
		Created: []dto.StudentResponse{},
		Errors:  []dto.BulkRowError{},
		Skipped: []dto.BulkRowSkip{},
	}
	seenEmail := map[string]bool{}
	seenNumber := map[string]bool{}

	for i, row := range rows {
		n := i + 1
		if ctx.Err() != nil {
			res.Errors = append(res.Errors, dto.BulkRowError{Row: n, Email: row.Email, Message: "request cancelled"})
			metrics.BulkImportRows.WithLabelValues("student", outcomeError).Inc()
			continue
		}

		row.Normalize()
		if err := helper.Validate(row); err != nil {
			res.Errors = append(res.Errors, rowError(n, row.Email, err))
			metrics.BulkImportRows.WithLabelValues("student", outcomeError).Inc()
			continue
		}

		if seenEmail[row.Email] || (row.StudentNumber != "" && seenNumber[row.StudentNumber]) {
			res.Skipped = append(res.Skipped, dto.BulkRowSkip{Row: n, Email: row.Email, Reason: "duplicate within import"})
			metrics.BulkImportRows.WithLabelValues("student", outcomeSkipped).Inc()
			continue
		}
		field, err := s.checkDuplicate(ctx, s.DB, row.Email, row.StudentNumber, nil)
		if err != nil {
			log.Error().Err(err).Int("row", n).Msg("[STUDENT][BULK] duplicate check failed")
			res.Errors = append(res.Errors, dto.BulkRowError{Row: n, Email: row.Email, Message: "could not verify duplicates"})
			metrics.BulkImportRows.WithLabelValues("student", outcomeError).Inc()
			continue
		}
		if field != "" {
			res.Skipped = append(res.Skipped, dto.BulkRowSkip{Row: n, Email: row.Email, Reason: field + " already exists"})
			metrics.BulkImportRows.WithLabelValues("student", outcomeSkipped).Inc()
			continue
		}

		created, err := s.Create(ctx, row)
		switch {
		case err == nil:
			seenEmail[row.Email] = true
			if created.StudentNumber != nil {
				seenNumber[*created.StudentNumber] = true
			}
			res.Created = append(res.Created, dto.FromModel(created))
			metrics.BulkImportRows.WithLabelValues("student", outcomeCreated).Inc()
		case errors.Is(err, helper.ErrConflict) && !isCapacityError(err):
			res.Skipped = append(res.Skipped, dto.BulkRowSkip{Row: n, Email: row.Email, Reason: "already exists"})
			metrics.BulkImportRows.WithLabelValues("student", outcomeSkipped).Inc()
		default:
			res.Errors = append(res.Errors, rowError(n, row.Email, err))
			metrics.BulkImportRows.WithLabelValues("student", outcomeError).Inc()
		}
	}

	log.Info().
		Int("created", len(res.Created)).
		Int("skipped", len(res.Skipped)).
		Int("errors", len(res.Errors)).
		Msg("[STUDENT][BULK] import finished")
	return res
}

func isCapacityError(err error) bool {
	var full *classService.ClassFullError
	return errors.As(err, &full)
}

func rowError(row int, email string, err error) dto.BulkRowError {
	var ve *helper.ValidationError
	if errors.As(err, &ve) && len(ve.Fields) > 0 {
		return dto.BulkRowError{Row: row, Email: email, Field: ve.Fields[0].Field, Message: ve.Fields[0].Message}
	}
	if isCapacityError(err) {
		return dto.BulkRowError{Row: row, Email: email, Field: "class_id", Message: err.Error()}
	}
	return dto.BulkRowError{Row: row, Email: email, Message: "could not create student"}
}
