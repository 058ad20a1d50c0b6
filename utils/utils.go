package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AddToLogMessage appends one step to a request's log message.
func AddToLogMessage(logMessagesBuilder *strings.Builder, strToAdd string) {
	if logMessagesBuilder.Len() > 0 {
		logMessagesBuilder.WriteString("; ")
	}
	logMessagesBuilder.WriteString(strToAdd)
}

// RequestLog gathers the steps of a single request and writes them out as
// one log entry when the request is done.
type RequestLog struct {
	logger *zap.Logger
	name   string
	id     string
	steps  strings.Builder
	fields []zap.Field
}

// NewRequestLog starts a log for the named operation with a fresh request id.
func NewRequestLog(logger *zap.Logger, name string) *RequestLog {
	return &RequestLog{logger: logger, name: name, id: uuid.NewString()}
}

// ID returns the request id.
func (l *RequestLog) ID() string { return l.id }

// Add records a step.
func (l *RequestLog) Add(msg string) {
	AddToLogMessage(&l.steps, msg)
}

// Addf records a formatted step.
func (l *RequestLog) Addf(format string, args ...any) {
	AddToLogMessage(&l.steps, fmt.Sprintf(format, args...))
}

// With attaches structured fields to the final entry.
func (l *RequestLog) With(fields ...zap.Field) {
	l.fields = append(l.fields, fields...)
}

// Steps returns what has been recorded so far.
func (l *RequestLog) Steps() string { return l.steps.String() }

// Flush writes the entry, at error level when err is non-nil.
func (l *RequestLog) Flush(err error) {
	fields := append([]zap.Field{
		zap.String("request_id", l.id),
		zap.String("steps", l.steps.String()),
	}, l.fields...)

	if err != nil {
		l.logger.Error(l.name, append(fields, zap.Error(err))...)
		return
	}
	l.logger.Info(l.name, fields...)
}
