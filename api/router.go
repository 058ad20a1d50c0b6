package api

import (
	"net/http"

	"github.com/raushankrgupta/contact-form-service/utils"
	"go.uber.org/zap"
)

// NewRouter exposes the contact handler at /send-email with open CORS and
// request latency logging.
func NewRouter(h *ContactHandler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/send-email", utils.CORSMiddleware(http.HandlerFunc(h.SendEmail)))
	return utils.LatencyMiddleware(logger, mux)
}
