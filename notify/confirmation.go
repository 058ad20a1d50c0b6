package notify

import (
	"bytes"
	"context"
	"fmt"
	"text/template"

	"github.com/raushankrgupta/contact-form-service/utils"
)

// DeliveryError means the mail relay refused the message or could not be
// reached.
type DeliveryError struct {
	To  string
	Err error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver confirmation to %s: %v", e.To, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

var bodyTemplate = template.Must(template.New("confirmation").Parse(`Hello {{.FullName}},

Thank you for reaching out. We will get back to you soon.

Your Message:
{{.Message}}

Best regards,
{{.Signature}}`))

// ConfirmationSubject is the subject line sent to fullName.
func ConfirmationSubject(fullName string) string {
	return fmt.Sprintf("Thank you for contacting us, %s!", fullName)
}

// ConfirmationBody renders the plain-text body echoing the original message.
func ConfirmationBody(fullName, message, signature string) (string, error) {
	var buf bytes.Buffer
	err := bodyTemplate.Execute(&buf, struct {
		FullName  string
		Message   string
		Signature string
	}{fullName, message, signature})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// Notifier sends the confirmation email to a submitter.
type Notifier struct {
	mailer    utils.Mailer
	signature string
}

// NewNotifier returns a Notifier signing its emails with signature.
func NewNotifier(mailer utils.Mailer, signature string) *Notifier {
	return &Notifier{mailer: mailer, signature: signature}
}

// SendConfirmation emails toAddress a thank-you note with their message.
// It makes exactly one attempt.
func (n *Notifier) SendConfirmation(ctx context.Context, toAddress, fullName, message string) error {
	body, err := ConfirmationBody(fullName, message, n.signature)
	if err != nil {
		return &DeliveryError{To: toAddress, Err: err}
	}

	err = n.mailer.Send(ctx, utils.Email{
		ToName:    fullName,
		ToAddress: toAddress,
		Subject:   ConfirmationSubject(fullName),
		Text:      body,
	})
	if err != nil {
		return &DeliveryError{To: toAddress, Err: err}
	}
	return nil
}
