package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/databases/dbtest"
	"schoolhub_backend/internals/features/home/dto"
	"schoolhub_backend/internals/features/home/service"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/mailer"
)

func newService(t *testing.T) (*service.HomeService, *mailer.ConsoleMailer) {
	t.Helper()
	m := mailer.NewConsoleMailer()
	svc := service.NewHomeService(dbtest.New(t), m)
	svc.NotifyEmail = "office@school.test"
	svc.Now = func() time.Time { return time.Date(2024, 9, 1, 9, 0, 0, 0, time.UTC) }
	return svc, m
}

func listQuery() helper.ListQuery {
	return helper.ListQuery{Page: 1, Limit: 10}
}

func TestCreateNews_UniqueSlugs(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	a, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Sports Day 2024!", NewsContent: "x"})
	require.NoError(t, err)
	b, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Sports day 2024", NewsContent: "y"})
	require.NoError(t, err)

	assert.Equal(t, "sports-day-2024", a.NewsSlug)
	assert.Equal(t, "sports-day-2024-2", b.NewsSlug)
	assert.Equal(t, "general", a.NewsCategory)
	assert.Nil(t, a.NewsPublishedAt)
}

func TestCreateNews_Validation(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateNews(context.Background(), nil, dto.CreateNewsRequest{NewsTitle: "  "})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "news_title")
	assert.Contains(t, ve.Map(), "news_content")
}

func TestPublishedNews_HidesDrafts(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	draft, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Draft", NewsContent: "x"})
	require.NoError(t, err)
	_, err = svc.PublishedNews(ctx, draft.NewsSlug)
	assert.True(t, errors.Is(err, helper.ErrNotFound))

	yes := true
	updated, err := svc.UpdateNews(ctx, draft.NewsID, dto.UpdateNewsRequest{NewsIsPublished: &yes})
	require.NoError(t, err)
	require.NotNil(t, updated.NewsPublishedAt)
	assert.Equal(t, "draft", updated.NewsSlug)

	got, err := svc.PublishedNews(ctx, "draft")
	require.NoError(t, err)
	assert.Equal(t, draft.NewsID, got.NewsID)

	published := true
	page, err := svc.ListNews(ctx, listQuery(), dto.NewsFilter{Published: &published})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestUpdateNews_KeepsSlug(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Open House", NewsContent: "x", NewsIsPublished: true})
	require.NoError(t, err)
	first := *m.NewsPublishedAt

	title := "Open House (updated)"
	yes := true
	svc.Now = func() time.Time { return first.Add(48 * time.Hour) }
	out, err := svc.UpdateNews(ctx, m.NewsID, dto.UpdateNewsRequest{NewsTitle: &title, NewsIsPublished: &yes})
	require.NoError(t, err)
	assert.Equal(t, title, out.NewsTitle)
	assert.Equal(t, "open-house", out.NewsSlug)
	assert.True(t, out.NewsPublishedAt.Equal(first))
}

func TestDeleteNews(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Gone", NewsContent: "x"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteNews(ctx, m.NewsID))
	assert.True(t, errors.Is(svc.DeleteNews(ctx, m.NewsID), helper.ErrNotFound))

	again, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Gone", NewsContent: "y"})
	require.NoError(t, err)
	assert.Equal(t, "gone-2", again.NewsSlug)
}

func TestPrograms_Ordered(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	for i, name := range []string{"Senior High", "Primary", "Junior High"} {
		_, err := svc.CreateProgram(ctx, dto.CreateProgramRequest{
			ProgramName: name, ProgramLevel: "level", ProgramDescription: "d", ProgramOrderIndex: 2 - i,
		})
		require.NoError(t, err)
	}
	rows, err := svc.Programs(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Junior High", rows[0].ProgramName)
	assert.Equal(t, "junior-high", rows[0].ProgramSlug)
	assert.Equal(t, "Senior High", rows[2].ProgramName)

	idx := 9
	out, err := svc.UpdateProgram(ctx, rows[0].ProgramID, dto.UpdateProgramRequest{ProgramOrderIndex: &idx})
	require.NoError(t, err)
	assert.Equal(t, 9, out.ProgramOrderIndex)

	require.NoError(t, svc.DeleteProgram(ctx, rows[0].ProgramID))
	assert.True(t, errors.Is(svc.DeleteProgram(ctx, uuid.New()), helper.ErrNotFound))
}

func TestSubmitContact_NotifiesOffice(t *testing.T) {
	svc, mail := newService(t)
	ctx := context.Background()

	m, err := svc.SubmitContact(ctx, dto.ContactRequest{
		ContactName: "Jane", ContactEmail: " Jane@Example.com ", ContactSubject: "Tours", ContactMessage: "Can we visit?",
	})
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", m.ContactEmail)

	sent := mail.Messages()
	require.Len(t, sent, 1)
	assert.Equal(t, "office@school.test", sent[0].ToAddress)
	assert.Contains(t, sent[0].Subject, "Tours")
}

func TestSubmitContact_Validation(t *testing.T) {
	svc, mail := newService(t)
	_, err := svc.SubmitContact(context.Background(), dto.ContactRequest{ContactName: "Jane", ContactEmail: "nope"})
	var ve *helper.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Contains(t, ve.Map(), "contact_email")
	assert.Empty(t, mail.Messages())
}

func TestMarkHandled_Idempotent(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	m, err := svc.SubmitContact(ctx, dto.ContactRequest{
		ContactName: "Jane", ContactEmail: "jane@example.com", ContactSubject: "Hi", ContactMessage: "Hello",
	})
	require.NoError(t, err)

	changed, err := svc.MarkHandled(ctx, m.ContactID)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.MarkHandled(ctx, m.ContactID)
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = svc.MarkHandled(ctx, uuid.New())
	assert.True(t, errors.Is(err, helper.ErrNotFound))

	handled := false
	page, err := svc.ContactMessages(ctx, listQuery(), &handled)
	require.NoError(t, err)
	assert.EqualValues(t, 0, page.Total)
}
