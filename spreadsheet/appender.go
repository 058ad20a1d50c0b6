package spreadsheet

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/raushankrgupta/contact-form-service/models"
	"go.uber.org/zap"
)

// ErrClosed is returned by Append once the appender has been closed.
var ErrClosed = errors.New("spreadsheet appender is closed")

const archiveTimeout = 30 * time.Second

// Archiver receives the workbook path after every successful write.
type Archiver interface {
	Archive(ctx context.Context, path string) error
}

type appendJob struct {
	ctx    context.Context
	row    models.Row
	result chan error
}

// Appender owns one workbook file. All writes go through a single goroutine,
// so concurrent callers never read the same "before" state and lose rows.
type Appender struct {
	path     string
	sheet    string
	archiver Archiver
	logger   *zap.Logger

	jobs      chan appendJob
	quit      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// Option customises an Appender.
type Option func(*Appender)

// WithArchiver uploads the workbook after each append. Archive failures are
// logged and do not fail the append.
func WithArchiver(a Archiver) Option {
	return func(ap *Appender) { ap.archiver = a }
}

// WithLogger sets the logger used by the writer goroutine.
func WithLogger(l *zap.Logger) Option {
	return func(ap *Appender) { ap.logger = l }
}

// NewAppender starts the writer goroutine for sheet inside the file at path.
// Call Close to stop it.
func NewAppender(path, sheet string, opts ...Option) *Appender {
	a := &Appender{
		path:   path,
		sheet:  sheet,
		logger: zap.NewNop(),
		jobs:   make(chan appendJob),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(a)
	}
	go a.run()
	return a
}

// Path returns the workbook location.
func (a *Appender) Path() string { return a.path }

// Sheet returns the name of the sheet rows are appended to.
func (a *Appender) Sheet() string { return a.sheet }

// Append adds row to the end of the sheet and rewrites the workbook.
// If ctx ends after the writer picked the job up, the row may still land.
func (a *Appender) Append(ctx context.Context, row models.Row) error {
	job := appendJob{ctx: ctx, row: row, result: make(chan error, 1)}

	select {
	case a.jobs <- job:
	case <-a.quit:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-job.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the writer goroutine. It is safe to call more than once.
func (a *Appender) Close() error {
	a.closeOnce.Do(func() { close(a.quit) })
	<-a.done
	return nil
}

func (a *Appender) run() {
	defer close(a.done)
	for {
		select {
		case job := <-a.jobs:
			a.handle(job)
		case <-a.quit:
			return
		}
	}
}

func (a *Appender) handle(job appendJob) {
	if err := job.ctx.Err(); err != nil {
		job.result <- err
		return
	}

	count, err := appendRow(a.path, a.sheet, job.row)
	job.result <- err
	if err != nil {
		a.logger.Error("failed to append spreadsheet row", zap.String("path", a.path), zap.Error(err))
		return
	}
	a.logger.Info("data saved to spreadsheet",
		zap.String("path", a.path),
		zap.String("sheet", a.sheet),
		zap.Int("rows", count),
	)

	if a.archiver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), archiveTimeout)
	defer cancel()
	if err := a.archiver.Archive(ctx, a.path); err != nil {
		a.logger.Warn("failed to archive spreadsheet", zap.String("path", a.path), zap.Error(err))
	}
}
