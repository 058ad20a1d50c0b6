package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/raushankrgupta/contact-form-service/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingMailer struct {
	sent []utils.Email
	err  error
}

func (m *recordingMailer) Send(ctx context.Context, e utils.Email) error {
	m.sent = append(m.sent, e)
	return m.err
}

func TestSendConfirmation(t *testing.T) {
	m := &recordingMailer{}
	n := NewNotifier(m, "Team_NCS")

	require.NoError(t, n.SendConfirmation(context.Background(), "jane@example.com", "Jane Doe", "How much?"))
	require.Len(t, m.sent, 1)

	e := m.sent[0]
	assert.Equal(t, "jane@example.com", e.ToAddress)
	assert.Equal(t, "Jane Doe", e.ToName)
	assert.Equal(t, "Thank you for contacting us, Jane Doe!", e.Subject)
	assert.Equal(t,
		"Hello Jane Doe,\n\nThank you for reaching out. We will get back to you soon.\n\nYour Message:\nHow much?\n\nBest regards,\nTeam_NCS",
		e.Text)
}

func TestSendConfirmation_DeliveryError(t *testing.T) {
	relayErr := errors.New("535 authentication failed")
	m := &recordingMailer{err: relayErr}
	n := NewNotifier(m, "Team_NCS")

	err := n.SendConfirmation(context.Background(), "jane@example.com", "Jane Doe", "How much?")

	var dErr *DeliveryError
	require.True(t, errors.As(err, &dErr))
	assert.Equal(t, "jane@example.com", dErr.To)
	assert.ErrorIs(t, err, relayErr)
	assert.Len(t, m.sent, 1, "no retry")
}

func TestConfirmationBody_NoHTMLEscaping(t *testing.T) {
	body, err := ConfirmationBody("O'Brien & Sons", "<b>hi</b>", "Team")
	require.NoError(t, err)
	assert.Contains(t, body, "Hello O'Brien & Sons,")
	assert.Contains(t, body, "<b>hi</b>")
}
