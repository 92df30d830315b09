package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleMailer_RecordsMessages(t *testing.T) {
	m := NewConsoleMailer()
	require.NoError(t, m.Send(context.Background(), Message{ToAddress: "a@b.c", Subject: "Hi", Text: "body"}))
	msgs := m.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, "Hi", msgs[0].Subject)
}

func TestSendgridPrepare(t *testing.T) {
	m := &SendgridMailer{subjPrefix: "[X] "}
	out := m.prepare(Message{ToAddress: "p@example.com", Subject: "Status", Text: "t", HTML: "<p>t</p>"})
	require.Len(t, out.Personalizations, 1)
	assert.Equal(t, "[X] Status", out.Personalizations[0].Subject)
	assert.Len(t, out.Content, 2)
}
