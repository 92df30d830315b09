package mailer

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"schoolhub_backend/internals/configs"
)

type Message struct {
	ToName    string
	ToAddress string
	Subject   string
	Text      string
	HTML      string
}

// Mailer sends notification mail. Send must not block the request for long.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New picks SendGrid when SENDGRID_API_KEY is set, console output otherwise.
func New() Mailer {
	from := configs.GetEnv("MAIL_FROM", "noreply@schoolhub.local")
	prefix := "[" + configs.GetEnv("APP_NAME", "SchoolHub") + "] "
	if key := configs.GetEnv("SENDGRID_API_KEY"); key != "" {
		return &SendgridMailer{key: key, from: sgmail.NewEmail("", from), subjPrefix: prefix, log: configs.Logger("mailer")}
	}
	return &ConsoleMailer{subjPrefix: prefix, log: configs.Logger("mailer")}
}

/* ===================== SendGrid ===================== */

type SendgridMailer struct {
	key        string
	from       *sgmail.Email
	subjPrefix string
	log        *zerolog.Logger
}

func (m *SendgridMailer) prepare(msg Message) *sgmail.SGMailV3 {
	p := sgmail.NewPersonalization()
	p.Subject = m.subjPrefix + msg.Subject
	p.AddTos(sgmail.NewEmail(msg.ToName, msg.ToAddress))

	out := sgmail.NewV3Mail()
	out.SetFrom(m.from)
	out.AddPersonalizations(p)
	out.AddContent(sgmail.NewContent("text/plain", msg.Text))
	if msg.HTML != "" {
		out.AddContent(sgmail.NewContent("text/html", msg.HTML))
	}
	return out
}

func (m *SendgridMailer) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.ToAddress) == "" {
		return nil
	}
	req := sendgrid.GetRequest(m.key, "/v3/mail/send", "https://api.sendgrid.com")
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m.prepare(msg))

	if err := ctx.Err(); err != nil {
		return err
	}
	res, err := sendgrid.API(req)
	if err != nil {
		m.log.Error().Err(err).Str("to", msg.ToAddress).Msg("[MAIL][SEND] request failed")
		return err
	}
	if res.StatusCode >= http.StatusBadRequest {
		m.log.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("[MAIL][SEND] rejected")
		return fmt.Errorf("sendgrid status %d", res.StatusCode)
	}
	return nil
}

/* ===================== Console ===================== */

type ConsoleMailer struct {
	subjPrefix string
	log        *zerolog.Logger

	mu   sync.Mutex
	Sent []Message
}

func NewConsoleMailer() *ConsoleMailer {
	nop := zerolog.Nop()
	return &ConsoleMailer{log: &nop}
}

func (m *ConsoleMailer) Send(_ context.Context, msg Message) error {
	m.mu.Lock()
	m.Sent = append(m.Sent, msg)
	m.mu.Unlock()
	m.log.Info().Str("to", msg.ToAddress).Str("subject", m.subjPrefix+msg.Subject).Msg("[MAIL][CONSOLE]\n" + msg.Text)
	return nil
}

// Messages returns a copy of what was sent.
func (m *ConsoleMailer) Messages() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.Sent...)
}
