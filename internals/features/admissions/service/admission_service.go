package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgErrors "github.com/pkg/errors"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"schoolhub_backend/internals/configs"
	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/features/admissions/dto"
	"schoolhub_backend/internals/features/admissions/model"
	"schoolhub_backend/internals/features/reports/aggregate"
	"schoolhub_backend/internals/features/reports/presenter"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/mailer"
	helperOSS "schoolhub_backend/internals/helpers/oss"
	"schoolhub_backend/internals/metrics"
)

const (
	TimelineSubmitted = "Application Submitted"
	numberAttempts    = 5
)

type AdmissionService struct {
	DB          *gorm.DB
	Store       helperOSS.BlobStore
	Mailer      mailer.Mailer
	NotifyEmail string
	Now         func() time.Time
}

func NewAdmissionService(db *gorm.DB, store helperOSS.BlobStore, m mailer.Mailer) *AdmissionService {
	return &AdmissionService{
		DB:          db,
		Store:       store,
		Mailer:      m,
		NotifyEmail: configs.GetEnv("ADMISSIONS_NOTIFY_EMAIL"),
		Now:         time.Now,
	}
}

// finalStatuses cannot be changed once reached.
var finalStatuses = map[string]bool{
	constants.AdmissionAccepted: true,
	constants.AdmissionRejected: true,
}

func (s *AdmissionService) notify(ctx context.Context, msg mailer.Message) {
	if s.Mailer == nil || msg.ToAddress == "" {
		return
	}
	if err := s.Mailer.Send(ctx, msg); err != nil {
		configs.Logger("admissions").Warn().Err(err).Str("to", msg.ToAddress).Msg("[ADMISSION][MAIL] send failed")
	}
}

/* =========================================================
   SUBMIT / LOOKUP (public)
   ========================================================= */

// FormatNumber renders APP-YYYY-NNNNNN.
func FormatNumber(year, seq int) string {
	return fmt.Sprintf("APP-%d-%06d", year, seq)
}

// nextNumber continues the highest number issued for the year. Longer numbers sort
// first so the sequence keeps climbing past 999999.
func nextNumber(ctx context.Context, db *gorm.DB, year int) (string, error) {
	prefix := fmt.Sprintf("APP-%d-", year)
	var last []string
	if err := db.WithContext(ctx).Model(&model.ApplicationModel{}).
		Where("application_number LIKE ?", prefix+"%").
		Order("LENGTH(application_number) DESC, application_number DESC").Limit(1).
		Pluck("application_number", &last).Error; err != nil {
		return "", err
	}
	seq := 1
	if len(last) > 0 {
		if n, err := strconv.Atoi(strings.TrimPrefix(last[0], prefix)); err == nil {
			seq = n + 1
		}
	}
	return FormatNumber(year, seq), nil
}

// Submit stores a PENDING application with its first timeline entry.
func (s *AdmissionService) Submit(ctx context.Context, req dto.SubmitApplicationRequest) (*model.ApplicationModel, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	m := req.ToModel()
	now := s.Now()
	if !m.ApplicationDateOfBirth.Before(now) {
		return nil, helper.NewFieldError("date_of_birth", "date_of_birth must be in the past")
	}
	m.ApplicationStatus = constants.AdmissionPending
	m.ApplicationSubmittedAt = now

	var err error
	for attempt := 0; attempt < numberAttempts; attempt++ {
		err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			number, err := nextNumber(ctx, tx, now.Year())
			if err != nil {
				return err
			}
			m.ApplicationID = uuid.Nil
			m.ApplicationNumber = number
			if err := tx.Create(m).Error; err != nil {
				return err
			}
			desc := "Application received and awaiting review"
			return tx.Create(&model.TimelineModel{
				TimelineApplicationID: m.ApplicationID,
				TimelineTitle:         TimelineSubmitted,
				TimelineDescription:   &desc,
				TimelineStatus:        constants.AdmissionPending,
				TimelineOccurredAt:    now,
			}).Error
		})
		if !helper.IsUniqueViolation(err) {
			break
		}
	}
	if err != nil {
		return nil, pkgErrors.Wrap(err, "submit application")
	}
	metrics.AdmissionTransitions.WithLabelValues(constants.AdmissionPending).Inc()
	configs.Logger("admissions").Info().Str("number", m.ApplicationNumber).Msg("[ADMISSION][SUBMIT] received")

	s.notify(ctx, mailer.Message{
		ToName:    m.ApplicationParentName,
		ToAddress: m.ApplicationParentEmail,
		Subject:   "Application " + m.ApplicationNumber + " received",
		Text: fmt.Sprintf("Dear %s,\n\nWe received the application for %s (grade %d).\n"+
			"Your application number is %s. Use it to check the status on our admissions page.\n",
			m.ApplicationParentName, dto.FullName(*m), m.ApplicationGrade, m.ApplicationNumber),
	})
	s.notify(ctx, mailer.Message{
		ToAddress: s.NotifyEmail,
		Subject:   "New application " + m.ApplicationNumber,
		Text:      fmt.Sprintf("%s applied for grade %d.\n", dto.FullName(*m), m.ApplicationGrade),
	})
	return m, nil
}

func (s *AdmissionService) timeline(ctx context.Context, appID uuid.UUID) ([]model.TimelineModel, error) {
	rows := []model.TimelineModel{}
	err := s.DB.WithContext(ctx).Where("timeline_application_id = ?", appID).
		Order("timeline_occurred_at ASC, timeline_id ASC").Find(&rows).Error
	return rows, err
}

func (s *AdmissionService) documents(ctx context.Context, appID uuid.UUID) ([]model.DocumentModel, error) {
	rows := []model.DocumentModel{}
	err := s.DB.WithContext(ctx).Where("document_application_id = ?", appID).
		Order("document_created_at ASC").Find(&rows).Error
	return rows, err
}

// Lookup returns the applicant-facing status for an application number.
func (s *AdmissionService) Lookup(ctx context.Context, number string) (*dto.StatusLookup, error) {
	number = strings.ToUpper(strings.TrimSpace(number))
	var m model.ApplicationModel
	if err := s.DB.WithContext(ctx).First(&m, "application_number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Application not found")
		}
		return nil, pkgErrors.Wrap(err, "load application")
	}

	var events []model.TimelineModel
	var docs []model.DocumentModel
	if err := helper.FanOut(ctx,
		func(ctx context.Context) (err error) { events, err = s.timeline(ctx, m.ApplicationID); return },
		func(ctx context.Context) (err error) { docs, err = s.documents(ctx, m.ApplicationID); return },
	); err != nil {
		return nil, pkgErrors.Wrap(err, "load application history")
	}

	out := &dto.StatusLookup{
		ApplicationID:     m.ApplicationID,
		ApplicationNumber: m.ApplicationNumber,
		ApplicantName:     dto.FullName(m),
		Grade:             m.ApplicationGrade,
		Status:            m.ApplicationStatus,
		Style:             presenter.StatusStyle(presenter.KindAdmission, m.ApplicationStatus),
		SubmittedAt:       m.ApplicationSubmittedAt,
		InterviewAt:       m.ApplicationInterviewAt,
		Timeline:          make([]dto.PublicTimelineEntry, 0, len(events)),
		Documents:         make([]dto.PublicDocument, 0, len(docs)),
	}
	for _, e := range events {
		out.Timeline = append(out.Timeline, dto.PublicTimelineEntry{
			Title: e.TimelineTitle, Description: e.TimelineDescription, Status: e.TimelineStatus, OccurredAt: e.TimelineOccurredAt,
		})
	}
	for _, d := range docs {
		out.Documents = append(out.Documents, dto.PublicDocument{
			DocumentType: d.DocumentType, Status: d.DocumentStatus,
			Style: presenter.StatusStyle(presenter.KindDocument, d.DocumentStatus),
		})
	}
	return out, nil
}

/* =========================================================
   ADMIN
   ========================================================= */

func (s *AdmissionService) List(ctx context.Context, q helper.ListQuery, f dto.ApplicationFilter) (helper.Page[model.ApplicationModel], error) {
	tx := s.DB.WithContext(ctx).Model(&model.ApplicationModel{})
	filters := map[string]any{"application_status": f.Status}
	if f.Grade > 0 {
		filters["application_grade"] = f.Grade
	}
	tx = helper.ApplyEquals(tx, filters)
	tx = helper.ApplySearch(tx, q.Search,
		"application_number", "application_first_name", "application_last_name", "application_parent_email")
	return helper.FetchPage[model.ApplicationModel](ctx, tx, q, "application_submitted_at DESC")
}

func (s *AdmissionService) get(ctx context.Context, id uuid.UUID) (*model.ApplicationModel, error) {
	var m model.ApplicationModel
	if err := s.DB.WithContext(ctx).First(&m, "application_id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, helper.NotFound("Application not found")
		}
		return nil, pkgErrors.Wrap(err, "load application")
	}
	return &m, nil
}

// Detail is the back-office view with timeline and documents.
func (s *AdmissionService) Detail(ctx context.Context, id uuid.UUID) (*dto.ApplicationResponse, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	out := dto.FromModel(*m)
	var docs []model.DocumentModel
	if err := helper.FanOut(ctx,
		func(ctx context.Context) (err error) { out.Timeline, err = s.timeline(ctx, id); return },
		func(ctx context.Context) (err error) { docs, err = s.documents(ctx, id); return },
	); err != nil {
		return nil, pkgErrors.Wrap(err, "load application history")
	}
	out.Documents = dto.FromDocuments(docs)
	return &out, nil
}

// UpdateStatus records the change on the timeline and mails the parent.
// Setting the current status again changes nothing.
func (s *AdmissionService) UpdateStatus(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req dto.UpdateStatusRequest) (*dto.ApplicationResponse, bool, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, false, err
	}
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, false, err
	}
	if m.ApplicationStatus == req.Status {
		out, err := s.Detail(ctx, id)
		return out, false, err
	}
	if finalStatuses[m.ApplicationStatus] {
		return nil, false, helper.Conflict("Application is already " + strings.ToLower(m.ApplicationStatus))
	}
	if req.Status == constants.AdmissionInterviewScheduled && m.ApplicationInterviewAt == nil {
		return nil, false, helper.NewFieldError("status", "schedule an interview to set INTERVIEW_SCHEDULED")
	}

	label := presenter.StatusStyle(presenter.KindAdmission, req.Status).Label
	if err := s.transition(ctx, m, req.Status, map[string]any{}, actorID, "Status changed to "+label, req.Notes); err != nil {
		return nil, false, err
	}

	s.notify(ctx, mailer.Message{
		ToName:    m.ApplicationParentName,
		ToAddress: m.ApplicationParentEmail,
		Subject:   "Application " + m.ApplicationNumber + " update",
		Text: fmt.Sprintf("Dear %s,\n\nThe application for %s is now: %s.\n",
			m.ApplicationParentName, dto.FullName(*m), label),
	})
	out, err := s.Detail(ctx, id)
	return out, true, err
}

// transition applies a guarded status update plus one timeline entry in a single transaction.
func (s *AdmissionService) transition(ctx context.Context, m *model.ApplicationModel, status string, extra map[string]any, actorID *uuid.UUID, title string, notes *string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"application_status": status}
		for k, v := range extra {
			updates[k] = v
		}
		if notes != nil {
			updates["application_notes"] = *notes
		}
		res := tx.Model(&model.ApplicationModel{}).
			Where("application_id = ? AND application_status = ?", m.ApplicationID, m.ApplicationStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return helper.Conflict("Application was modified concurrently")
		}
		return tx.Create(&model.TimelineModel{
			TimelineApplicationID: m.ApplicationID,
			TimelineTitle:         title,
			TimelineDescription:   notes,
			TimelineStatus:        status,
			TimelineActorID:       actorID,
			TimelineOccurredAt:    s.Now(),
		}).Error
	})
	if err != nil {
		if errors.Is(err, helper.ErrConflict) {
			return err
		}
		return pkgErrors.Wrap(err, "update application status")
	}
	metrics.AdmissionTransitions.WithLabelValues(status).Inc()
	configs.Logger("admissions").Info().Str("number", m.ApplicationNumber).
		Str("from", m.ApplicationStatus).Str("to", status).Msg("[ADMISSION][STATUS] changed")
	return nil
}

// ScheduleInterview sets the interview slot and moves the application to INTERVIEW_SCHEDULED.
// Rescheduling keeps the status and adds a new timeline entry.
func (s *AdmissionService) ScheduleInterview(ctx context.Context, id uuid.UUID, actorID *uuid.UUID, req dto.ScheduleInterviewRequest) (*dto.ApplicationResponse, error) {
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if !req.InterviewAt.After(s.Now()) {
		return nil, helper.NewFieldError("interview_at", "interview_at must be in the future")
	}
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if finalStatuses[m.ApplicationStatus] {
		return nil, helper.Conflict("Application is already " + strings.ToLower(m.ApplicationStatus))
	}

	extra := map[string]any{"application_interview_at": req.InterviewAt}
	if req.Location != nil {
		extra["application_interview_location"] = *req.Location
	}
	title := "Interview Scheduled"
	if m.ApplicationInterviewAt != nil {
		title = "Interview Rescheduled"
	}
	if err := s.transition(ctx, m, constants.AdmissionInterviewScheduled, extra, actorID, title, req.Notes); err != nil {
		return nil, err
	}

	where := ""
	if req.Location != nil && *req.Location != "" {
		where = " at " + *req.Location
	}
	s.notify(ctx, mailer.Message{
		ToName:    m.ApplicationParentName,
		ToAddress: m.ApplicationParentEmail,
		Subject:   "Interview for application " + m.ApplicationNumber,
		Text: fmt.Sprintf("Dear %s,\n\nAn interview for %s is scheduled on %s%s.\n",
			m.ApplicationParentName, dto.FullName(*m), req.InterviewAt.Format("Monday, 02 January 2006 15:04"), where),
	})
	return s.Detail(ctx, id)
}

/* =========================================================
   DOCUMENTS
   ========================================================= */

// AddDocument attaches an already hosted file.
func (s *AdmissionService) AddDocument(ctx context.Context, appID uuid.UUID, req dto.AddDocumentRequest) (*model.DocumentModel, error) {
	req.DocumentType = strings.TrimSpace(req.DocumentType)
	if err := helper.Validate(req); err != nil {
		return nil, err
	}
	if _, err := s.get(ctx, appID); err != nil {
		return nil, err
	}
	doc := &model.DocumentModel{
		DocumentApplicationID: appID,
		DocumentType:          req.DocumentType,
		DocumentFileName:      req.FileName,
		DocumentFileURL:       req.FileURL,
		DocumentStatus:        constants.DocumentPending,
		DocumentNotes:         req.Notes,
		DocumentMetadata:      datatypes.JSONMap{"source": "url"},
	}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "create document")
	}
	return doc, nil
}

// UploadDocument stores the file in blob storage (images as WebP) and attaches it.
func (s *AdmissionService) UploadDocument(ctx context.Context, appID uuid.UUID, docType string, fh *multipart.FileHeader) (*model.DocumentModel, error) {
	docType = strings.TrimSpace(docType)
	if docType == "" {
		return nil, helper.NewFieldError("document_type", "document_type is required")
	}
	if fh.Size > helperOSS.MaxUploadSize {
		return nil, helper.NewFieldError("file", "file exceeds 5MB")
	}
	app, err := s.get(ctx, appID)
	if err != nil {
		return nil, err
	}
	key, url, contentType, err := helperOSS.UploadFile(ctx, s.Store, "admissions/"+app.ApplicationNumber, fh)
	if err != nil {
		return nil, pkgErrors.Wrap(err, "upload document")
	}
	doc := &model.DocumentModel{
		DocumentApplicationID: appID,
		DocumentType:          docType,
		DocumentFileName:      fh.Filename,
		DocumentFileURL:       url,
		DocumentObjectKey:     &key,
		DocumentStatus:        constants.DocumentPending,
		DocumentMetadata: datatypes.JSONMap{
			"source":        "upload",
			"content_type":  contentType,
			"original_size": fh.Size,
		},
	}
	if err := s.DB.WithContext(ctx).Create(doc).Error; err != nil {
		_ = s.Store.Delete(ctx, key)
		return nil, pkgErrors.Wrap(err, "create document")
	}
	return doc, nil
}

// SetDocumentStatus reviews a document. Repeating the current status is a no-op:
// no update and no timeline entry.
func (s *AdmissionService) SetDocumentStatus(ctx context.Context, docID uuid.UUID, actorID *uuid.UUID, req dto.DocumentStatusRequest) (*model.DocumentModel, bool, error) {
	req.Normalize()
	if err := helper.Validate(req); err != nil {
		return nil, false, err
	}
	var doc model.DocumentModel
	if err := s.DB.WithContext(ctx).First(&doc, "document_id = ?", docID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, helper.NotFound("Document not found")
		}
		return nil, false, pkgErrors.Wrap(err, "load document")
	}
	if doc.DocumentStatus == req.Status {
		return &doc, false, nil
	}

	now := s.Now()
	changed := false
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{
			"document_status":      req.Status,
			"document_reviewed_by": actorID,
			"document_reviewed_at": now,
		}
		if req.Notes != nil {
			updates["document_notes"] = *req.Notes
		}
		res := tx.Model(&model.DocumentModel{}).
			Where("document_id = ? AND document_status = ?", docID, doc.DocumentStatus).
			Updates(updates)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		var app model.ApplicationModel
		if err := tx.Select("application_status").First(&app, "application_id = ?", doc.DocumentApplicationID).Error; err != nil {
			return err
		}
		label := presenter.StatusStyle(presenter.KindDocument, req.Status).Label
		return tx.Create(&model.TimelineModel{
			TimelineApplicationID: doc.DocumentApplicationID,
			TimelineTitle:         fmt.Sprintf("Document %s: %s", label, doc.DocumentType),
			TimelineDescription:   req.Notes,
			TimelineStatus:        app.ApplicationStatus,
			TimelineActorID:       actorID,
			TimelineOccurredAt:    now,
		}).Error
	})
	if err != nil {
		return nil, false, pkgErrors.Wrap(err, "update document status")
	}
	if err := s.DB.WithContext(ctx).First(&doc, "document_id = ?", docID).Error; err != nil {
		return nil, changed, pkgErrors.Wrap(err, "reload document")
	}
	return &doc, changed, nil
}

/* =========================================================
   STATS
   ========================================================= */

// Stats counts applications per status and submissions per month for a year.
// Acceptance rate is accepted over decided (accepted + rejected).
func (s *AdmissionService) Stats(ctx context.Context, year int) (*dto.AdmissionStats, error) {
	if year == 0 {
		year = s.Now().Year()
	}
	from := time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	type row struct {
		Status      string    `gorm:"column:application_status"`
		SubmittedAt time.Time `gorm:"column:application_submitted_at"`
	}
	var rows []row
	if err := s.DB.WithContext(ctx).Model(&model.ApplicationModel{}).
		Select("application_status, application_submitted_at").
		Where("application_submitted_at >= ? AND application_submitted_at < ?", from, to).
		Scan(&rows).Error; err != nil {
		return nil, pkgErrors.Wrap(err, "load admission stats")
	}

	byStatus := aggregate.CountBy(rows, func(r row) string { return r.Status })
	for _, st := range constants.AdmissionStatuses {
		byStatus[st] += 0
	}
	dates := make([]time.Time, 0, len(rows))
	for _, r := range rows {
		dates = append(dates, r.SubmittedAt)
	}

	accepted, rejected := byStatus[constants.AdmissionAccepted], byStatus[constants.AdmissionRejected]
	rate := aggregate.Insufficient()
	if decided := accepted + rejected; decided > 0 {
		rate = aggregate.Measured(aggregate.Round(aggregate.Percentage(float64(accepted), float64(decided)), 1))
	}

	out := &dto.AdmissionStats{
		Year:           year,
		Total:          int64(len(rows)),
		ByStatus:       byStatus,
		AcceptanceRate: rate,
		Monthly:        aggregate.MonthlyCounts(dates),
		Bars:           presenter.StatusBars(presenter.KindAdmission, constants.AdmissionStatuses, byStatus),
	}
	out.Cards = []presenter.StatCard{
		presenter.CountCard("Applications", out.Total, fmt.Sprintf("Submitted in %d", year)),
		presenter.CountCard("Pending Review", int64(byStatus[constants.AdmissionPending]+byStatus[constants.AdmissionUnderReview]), ""),
		presenter.CountCard("Accepted", int64(accepted), ""),
		presenter.MetricCard("Acceptance Rate", rate, "Accepted of decided"),
	}
	return out, nil
}
