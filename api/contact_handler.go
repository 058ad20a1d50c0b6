package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/raushankrgupta/contact-form-service/models"
	"github.com/raushankrgupta/contact-form-service/notify"
	"github.com/raushankrgupta/contact-form-service/spreadsheet"
	"github.com/raushankrgupta/contact-form-service/utils"
	"go.uber.org/zap"
)

// Fixed response messages. Callers never learn which step failed.
const (
	SuccessMessage = "Your message sent successfully!"
	FailureMessage = "Failed to process request."
)

const maxBodyBytes = 1 << 20

// RowAppender adds one row to the submissions spreadsheet.
type RowAppender interface {
	Append(ctx context.Context, row models.Row) error
}

// SubmissionSaver stores a submission and returns its id.
type SubmissionSaver interface {
	Save(ctx context.Context, sub *models.ContactSubmission) (string, error)
}

// ConfirmationSender emails the submitter.
type ConfirmationSender interface {
	SendConfirmation(ctx context.Context, toAddress, fullName, message string) error
}

// SendEmailRequest represents the payload of POST /send-email
type SendEmailRequest struct {
	FullName         string `json:"fullName"`
	Email            string `json:"email"`
	Phone            string `json:"phone"`
	Subject          string `json:"subject"`
	Message          string `json:"message"`
	PreferredContact string `json:"preferredContact"`
}

func (r SendEmailRequest) submission() *models.ContactSubmission {
	return &models.ContactSubmission{
		FullName:         r.FullName,
		Email:            r.Email,
		Phone:            r.Phone,
		Subject:          r.Subject,
		Message:          r.Message,
		PreferredContact: models.PreferredContact(r.PreferredContact),
	}
}

// ContactHandler runs a submission through the spreadsheet, the document
// store and the confirmation email, in that order.
type ContactHandler struct {
	sheet    RowAppender
	store    SubmissionSaver
	notifier ConfirmationSender
	logger   *zap.Logger
	timeout  time.Duration
	now      func() time.Time
}

// NewContactHandler wires the three collaborators. A zero timeout disables
// the per-request deadline.
func NewContactHandler(sheet RowAppender, store SubmissionSaver, notifier ConfirmationSender, logger *zap.Logger, timeout time.Duration) *ContactHandler {
	return &ContactHandler{
		sheet:    sheet,
		store:    store,
		notifier: notifier,
		logger:   logger,
		timeout:  timeout,
		now:      time.Now,
	}
}

// SendEmail handles POST /send-email
func (h *ContactHandler) SendEmail(w http.ResponseWriter, r *http.Request) {
	reqLog := utils.NewRequestLog(h.logger, "[Send Email API]")
	var outcome error
	defer func() { reqLog.Flush(outcome) }()

	if r.Method != http.MethodPost {
		reqLog.Addf("method %s not allowed", r.Method)
		utils.RespondJSON(w, h.logger, http.StatusMethodNotAllowed, map[string]string{"message": FailureMessage})
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	// Fields are not checked here; the document store enforces the schema.
	var req SendEmailRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		reqLog.Addf("could not decode body: %v", err)
	}
	reqLog.With(
		zap.String("fullName", req.FullName),
		zap.String("email", req.Email),
		zap.String("subject", req.Subject),
		zap.String("preferredContact", req.PreferredContact),
	)
	reqLog.Add("received submission")

	if err := h.process(ctx, req, reqLog); err != nil {
		outcome = err
		reqLog.Addf("failed (%s)", errorKind(err))
		utils.RespondJSON(w, h.logger, http.StatusInternalServerError, map[string]string{"message": FailureMessage})
		return
	}

	utils.RespondJSON(w, h.logger, http.StatusOK, map[string]string{"message": SuccessMessage})
}

func (h *ContactHandler) process(ctx context.Context, req SendEmailRequest, reqLog *utils.RequestLog) error {
	sub := req.submission()

	if err := h.sheet.Append(ctx, sub.ToRow(models.FormatDate(h.now()))); err != nil {
		reqLog.Add("spreadsheet: failed")
		return err
	}
	reqLog.Add("spreadsheet: saved")

	id, err := h.store.Save(ctx, sub)
	if err != nil {
		reqLog.Add("store: failed")
		return err
	}
	reqLog.Addf("store: saved %s", id)

	if err := h.notifier.SendConfirmation(ctx, req.Email, req.FullName, req.Message); err != nil {
		reqLog.Add("email: failed")
		return err
	}
	reqLog.Add("email: sent")
	return nil
}

func errorKind(err error) string {
	var (
		fileErr       *spreadsheet.FileAccessError
		validationErr *models.ValidationError
		deliveryErr   *notify.DeliveryError
	)
	switch {
	case errors.As(err, &fileErr):
		return "file_access"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &deliveryErr):
		return "delivery"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return "timeout"
	default:
		return "unknown"
	}
}
