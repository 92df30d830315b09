package controller_test

import (
	"context"
	"io"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schoolhub_backend/internals/constants"
	"schoolhub_backend/internals/databases/dbtest"
	admissionDTO "schoolhub_backend/internals/features/admissions/dto"
	"schoolhub_backend/internals/features/home/controller"
	"schoolhub_backend/internals/features/home/dto"
	"schoolhub_backend/internals/features/home/route"
	"schoolhub_backend/internals/features/home/service"
	helper "schoolhub_backend/internals/helpers"
	"schoolhub_backend/internals/helpers/mailer"
	"schoolhub_backend/internals/middlewares"
	"schoolhub_backend/internals/web"
)

type lookupStub map[string]*admissionDTO.StatusLookup

func (l lookupStub) Lookup(_ context.Context, number string) (*admissionDTO.StatusLookup, error) {
	if res, ok := l[strings.ToUpper(number)]; ok {
		return res, nil
	}
	return nil, helper.NotFound("Application not found")
}

func newApp(t *testing.T) (*fiber.App, *service.HomeService) {
	t.Helper()
	svc := service.NewHomeService(dbtest.New(t), mailer.NewConsoleMailer())
	app := fiber.New(fiber.Config{Views: web.Engine(), ErrorHandler: middlewares.ErrorHandler})
	route.PageRoutes(app, svc, lookupStub{
		"APP-2024-001234": {
			ApplicationNumber: "APP-2024-001234", ApplicantName: "Sarah Johnson", Grade: 7,
			Status: constants.AdmissionPending,
			Timeline: []admissionDTO.PublicTimelineEntry{{Title: "Application Submitted", Status: constants.AdmissionPending}},
		},
	})
	return app, svc
}

func fetch(t *testing.T, app *fiber.App, method, path string, form url.Values) (int, string) {
	t.Helper()
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	req := httptest.NewRequest(method, path, body)
	if form != nil {
		req.Header.Set("Content-Type", fiber.MIMEApplicationForm)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestHomePage_ListsPublishedNews(t *testing.T) {
	app, svc := newApp(t)
	ctx := context.Background()
	_, err := svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Science Fair", NewsContent: "x", NewsIsPublished: true})
	require.NoError(t, err)
	_, err = svc.CreateNews(ctx, nil, dto.CreateNewsRequest{NewsTitle: "Secret Draft", NewsContent: "x"})
	require.NoError(t, err)

	code, body := fetch(t, app, "GET", "/", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, "Science Fair")
	assert.NotContains(t, body, "Secret Draft")
}

func TestAdmissionsPage_AndLookupShareController(t *testing.T) {
	ctl := controller.NewPageController(nil, lookupStub{})
	assert.NotNil(t, ctl.Lookups)

	app, _ := newApp(t)
	code, body := fetch(t, app, "GET", "/admissions", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, "/api/public/admissions")
}

func TestAdmissionStatusPage(t *testing.T) {
	app, _ := newApp(t)

	code, body := fetch(t, app, "GET", "/admissions/status?number=app-2024-001234", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, "Sarah Johnson")
	assert.Contains(t, body, "Application Submitted")

	_, body = fetch(t, app, "GET", "/admissions/status?number=APP-2024-999999", nil)
	assert.Contains(t, body, "No application found")
}

func TestNewsDetail_MissingRendersErrorPage(t *testing.T) {
	app, _ := newApp(t)
	code, body := fetch(t, app, "GET", "/news/nothing-here", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Contains(t, body, "News not found")
}

func TestContactForm_Submit(t *testing.T) {
	app, _ := newApp(t)

	code, body := fetch(t, app, "POST", "/contact", url.Values{
		"contact_name": {"Jane"}, "contact_email": {"jane@example.com"},
		"contact_subject": {"Visit"}, "contact_message": {"Can we tour the campus?"},
	})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Contains(t, body, "your message has been received")

	code, _ = fetch(t, app, "POST", "/contact", url.Values{"contact_name": {"Jane"}, "contact_email": {"nope"}})
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
}

func TestLoginPage_RejectsExternalNext(t *testing.T) {
	app, _ := newApp(t)
	_, body := fetch(t, app, "GET", "/login?next=//evil.example", nil)
	assert.NotContains(t, body, "evil.example")
}
