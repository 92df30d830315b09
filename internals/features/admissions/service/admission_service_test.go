package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/admissions/dto"
	"schoolhub_backend/internals/features/admissions/model"
	"schoolhub_backend/internals/features/admissions/service"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/mailer"
	helperOSS "schoolhub_backend/internals/helpers/oss"
)

var fixedNow = time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*service.AdmissionService, *mailer.ConsoleMailer, *gorm.DB) {
	t.Helper()
	db := dbtest.New(t)
	m := mailer.NewConsoleMailer()
	svc := service.NewAdmissionService(db, helperOSS.NewMemoryBlobStore("http://blob.test"), m)
	svc.NotifyEmail = "office@school.test"
	tick := 0
	svc.Now = func() time.Time {
		tick++
		return fixedNow.Add(time.Duration(tick) * time.Minute)
	}
	return svc, m, db
}

func submitReq() dto.SubmitApplicationRequest {
	return dto.SubmitApplicationRequest{
		FirstName: "Ayu", LastName: "Lestari", DateOfBirth: "2015-02-01", Gender: "Female", Grade: 3,
		ParentName: "Budi Lestari", ParentEmail: "Budi@Example.com ", ParentPhone: "08123456789",
	}
}

func timelineCount(t *testing.T, db *gorm.DB, appID uuid.UUID) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.TimelineModel{}).Where("timeline_application_id = ?", appID).Count(&n).Error)
	return n
}

func TestSubmit_NumbersAndTimeline(t *testing.T) {
	svc, mails, db := newService(t)
	ctx := context.Background()

	a, err := svc.Submit(ctx, submitReq())
	require.NoError(t, err)
	assert.Equal(t, "APP-2024-000001", a.ApplicationNumber)
	assert.Equal(t, constants.AdmissionPending, a.ApplicationStatus)
	assert.Equal(t, "budi@example.com", a.ApplicationParentEmail)
	assert.Equal(t, int64(1), timelineCount(t, db, a.ApplicationID))

	b, err := svc.Submit(ctx, submitReq())
	require.NoError(t, err)
	assert.Equal(t, "APP-2024-000002", b.ApplicationNumber)

	sent := mails.Messages()
	require.Len(t, sent, 4)
	assert.Equal(t, "budi@example.com", sent[0].ToAddress)
	assert.Equal(t, "office@school.test", sent[1].ToAddress)
}

func TestSubmit_NumberPastSixDigits(t *testing.T) {
	svc, _, db := newService(t)
	for _, number := range []string{"APP-2024-999999", "APP-2024-1000000"} {
		require.NoError(t, db.Create(&model.ApplicationModel{
			ApplicationNumber: number, ApplicationFirstName: "Old", ApplicationLastName: "Entry",
			ApplicationDateOfBirth: time.Date(2015, 1, 1, 0, 0, 0, 0, time.UTC), ApplicationGender: "male",
			ApplicationGrade: 1, ApplicationParentName: "P", ApplicationParentEmail: "p@example.com",
			ApplicationParentPhone: "0800", ApplicationStatus: constants.AdmissionPending,
		}).Error)
	}

	a, err := svc.Submit(context.Background(), submitReq())
	require.NoError(t, err)
	assert.Equal(t, "APP-2024-1000001", a.ApplicationNumber)
}

func TestSubmit_Validation(t *testing.T) {
	svc, _, _ := newService(t)
	req := submitReq()
	req.ParentEmail = "nope"
	req.Grade = 13
	_, err := svc.Submit(context.Background(), req)
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "parent_email")
	assert.Contains(t, ve.Map(), "grade")

	req = submitReq()
	req.DateOfBirth = "2030-01-01"
	_, err = svc.Submit(context.Background(), req)
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "date_of_birth")
}

func TestLookup_SeededApplication(t *testing.T) {
	svc, _, db := newService(t)
	app := model.ApplicationModel{
		ApplicationNumber: "APP-2024-001234", ApplicationFirstName: "Sarah", ApplicationLastName: "Johnson",
		ApplicationDateOfBirth: time.Date(2012, 3, 15, 0, 0, 0, 0, time.UTC), ApplicationGender: "female",
		ApplicationGrade: 7, ApplicationParentName: "Michael Johnson", ApplicationParentEmail: "michael@example.com",
		ApplicationParentPhone: "+1 555 0100", ApplicationStatus: constants.AdmissionPending,
	}
	require.NoError(t, db.Create(&app).Error)
	require.NoError(t, db.Create(&model.TimelineModel{
		TimelineApplicationID: app.ApplicationID, TimelineTitle: service.TimelineSubmitted,
		TimelineStatus: constants.AdmissionPending,
	}).Error)

	out, err := svc.Lookup(context.Background(), "app-2024-001234")
	require.NoError(t, err)
	assert.Equal(t, app.ApplicationID, out.ApplicationID)
	assert.Equal(t, constants.AdmissionPending, out.Status)
	require.Len(t, out.Timeline, 1)
	assert.Equal(t, "Application Submitted", out.Timeline[0].Title)
	assert.NotNil(t, out.Documents)

	_, err = svc.Lookup(context.Background(), "APP-2024-999999")
	assert.True(t, errors.Is(err, helper.ErrNotFound))
}

func TestUpdateStatus_IdempotentAndFinal(t *testing.T) {
	svc, mails, db := newService(t)
	ctx := context.Background()
	a, err := svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	out, changed, err := svc.UpdateStatus(ctx, a.ApplicationID, nil, dto.UpdateStatusRequest{Status: "under_review"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, constants.AdmissionUnderReview, out.ApplicationStatus)
	assert.Len(t, out.Timeline, 2)

	_, changed, err = svc.UpdateStatus(ctx, a.ApplicationID, nil, dto.UpdateStatusRequest{Status: constants.AdmissionUnderReview})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, int64(2), timelineCount(t, db, a.ApplicationID))

	_, _, err = svc.UpdateStatus(ctx, a.ApplicationID, nil, dto.UpdateStatusRequest{Status: constants.AdmissionInterviewScheduled})
	var ve *helper.ValidationError
	assert.True(t, errors.As(err, &ve))

	_, changed, err = svc.UpdateStatus(ctx, a.ApplicationID, nil, dto.UpdateStatusRequest{Status: constants.AdmissionAccepted})
	require.NoError(t, err)
	assert.True(t, changed)

	_, _, err = svc.UpdateStatus(ctx, a.ApplicationID, nil, dto.UpdateStatusRequest{Status: constants.AdmissionRejected})
	assert.True(t, errors.Is(err, helper.ErrConflict))
	assert.Len(t, mails.Messages(), 4)
}

func TestScheduleInterview(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	a, err := svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	_, err = svc.ScheduleInterview(ctx, a.ApplicationID, nil, dto.ScheduleInterviewRequest{InterviewAt: fixedNow.Add(-time.Hour)})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))

	room := "Room 101"
	out, err := svc.ScheduleInterview(ctx, a.ApplicationID, nil, dto.ScheduleInterviewRequest{
		InterviewAt: fixedNow.Add(48 * time.Hour), Location: &room,
	})
	require.NoError(t, err)
	assert.Equal(t, constants.AdmissionInterviewScheduled, out.ApplicationStatus)
	require.NotNil(t, out.ApplicationInterviewLocation)
	assert.Equal(t, room, *out.ApplicationInterviewLocation)
	assert.Equal(t, "Interview Scheduled", out.Timeline[len(out.Timeline)-1].TimelineTitle)
}

func TestSetDocumentStatus_Idempotent(t *testing.T) {
	svc, _, db := newService(t)
	ctx := context.Background()
	a, err := svc.Submit(ctx, submitReq())
	require.NoError(t, err)

	doc, err := svc.AddDocument(ctx, a.ApplicationID, dto.AddDocumentRequest{
		DocumentType: "Birth Certificate", FileName: "birth.pdf", FileURL: "https://files.test/birth.pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, constants.DocumentPending, doc.DocumentStatus)

	reviewer := uuid.New()
	got, changed, err := svc.SetDocumentStatus(ctx, doc.DocumentID, &reviewer, dto.DocumentStatusRequest{Status: "approved"})
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, constants.DocumentApproved, got.DocumentStatus)
	require.NotNil(t, got.DocumentReviewedBy)
	assert.Equal(t, int64(2), timelineCount(t, db, a.ApplicationID))

	got, changed, err = svc.SetDocumentStatus(ctx, doc.DocumentID, &reviewer, dto.DocumentStatusRequest{Status: constants.DocumentApproved})
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, constants.DocumentApproved, got.DocumentStatus)
	assert.Equal(t, int64(2), timelineCount(t, db, a.ApplicationID))

	_, _, err = svc.SetDocumentStatus(ctx, uuid.New(), nil, dto.DocumentStatusRequest{Status: constants.DocumentApproved})
	assert.True(t, errors.Is(err, helper.ErrNotFound))
}

func TestStats(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	empty, err := svc.Stats(ctx, 2024)
	require.NoError(t, err)
	assert.False(t, empty.AcceptanceRate.Sufficient())
	assert.Equal(t, int64(0), empty.Total)

	var ids []uuid.UUID
	for i := 0; i < 4; i++ {
		a, err := svc.Submit(ctx, submitReq())
		require.NoError(t, err)
		ids = append(ids, a.ApplicationID)
	}
	for i, st := range []string{constants.AdmissionAccepted, constants.AdmissionAccepted, constants.AdmissionRejected} {
		_, _, err := svc.UpdateStatus(ctx, ids[i], nil, dto.UpdateStatusRequest{Status: st})
		require.NoError(t, err)
	}

	s, err := svc.Stats(ctx, 2024)
	require.NoError(t, err)
	assert.Equal(t, int64(4), s.Total)
	assert.Equal(t, 1, s.ByStatus[constants.AdmissionPending])
	assert.Equal(t, 0, s.ByStatus[constants.AdmissionWaitlisted])
	require.True(t, s.AcceptanceRate.Sufficient())
	assert.InDelta(t, 66.7, *s.AcceptanceRate.Value, 0.001)
	assert.Equal(t, 4, s.Monthly[4])
	assert.Len(t, s.Bars, len(constants.AdmissionStatuses))
}
