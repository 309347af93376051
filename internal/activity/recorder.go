package activity

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/multierr"

	"github.com/modern-pedagogues/platform-backend/pkg/config"
	"github.com/modern-pedagogues/platform-backend/pkg/logger"
	"github.com/modern-pedagogues/platform-backend/pkg/metrics"
)

type writer interface {
	Insert(ctx context.Context, rec Record) error
	InsertDLQ(ctx context.Context, rec Record, writeErr error) error
}

// repoWriter adapts Repository to the narrower writer surface.
type repoWriter struct {
	repo *Repository
}

func (w repoWriter) Insert(ctx context.Context, rec Record) error {
	_, err := w.repo.Insert(ctx, rec)
	return err
}

func (w repoWriter) InsertDLQ(ctx context.Context, rec Record, writeErr error) error {
	return w.repo.InsertDLQ(ctx, rec, writeErr)
}

// Recorder writes audit records off the request path. Writes that fail land
// in the dead letter table; records that cannot even be queued are counted
// and dropped.
type Recorder struct {
	writer  writer
	logg    *logger.Logger
	metrics *metrics.AuthMetrics
	cfg     config.ActivityConfig

	queue chan Record
	done  chan struct{}
	once  sync.Once
}

// NewRecorder starts the background worker and returns the recorder.
func NewRecorder(repo *Repository, logg *logger.Logger, m *metrics.AuthMetrics, cfg config.ActivityConfig) *Recorder {
	return newRecorder(repoWriter{repo: repo}, logg, m, cfg)
}

func newRecorder(w writer, logg *logger.Logger, m *metrics.AuthMetrics, cfg config.ActivityConfig) *Recorder {
	size := cfg.QueueSize
	if size <= 0 {
		size = 1
	}
	r := &Recorder{
		writer:  w,
		logg:    logg,
		metrics: m,
		cfg:     cfg,
		queue:   make(chan Record, size),
		done:    make(chan struct{}),
	}
	go r.run()
	return r
}

// Enqueue hands a record to the worker without blocking the caller. It
// reports false when the queue is full and the record was dropped.
func (r *Recorder) Enqueue(rec Record) bool {
	select {
	case r.queue <- rec:
		return true
	default:
		r.metrics.IncActivityDrop()
		if r.logg != nil {
			ctx := r.logg.WithFields(context.Background(), map[string]any{
				"action":  rec.Action,
				"user_id": rec.UserID.String(),
			})
			r.logg.Warn(ctx, "activity queue full, dropping record")
		}
		return false
	}
}

// Close stops accepting records, drains the queue, and waits for the worker
// up to the configured drain timeout.
func (r *Recorder) Close() error {
	var closeErr error
	r.once.Do(func() {
		close(r.queue)
		timeout := r.cfg.DrainTimeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		select {
		case <-r.done:
		case <-time.After(timeout):
			closeErr = fmt.Errorf("activity recorder drain timed out after %s", timeout)
		}
	})
	return closeErr
}

func (r *Recorder) run() {
	defer close(r.done)
	for rec := range r.queue {
		if err := r.writeOne(rec); err != nil && r.logg != nil {
			ctx := r.logg.WithField(context.Background(), "action", rec.Action)
			r.logg.Error(ctx, "activity record lost", err)
		}
	}
}

func (r *Recorder) writeOne(rec Record) error {
	timeout := r.cfg.WriteTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	insertErr := r.writer.Insert(ctx, rec)
	if insertErr == nil {
		return nil
	}

	r.metrics.IncActivityDeadLetter()
	if dlqErr := r.writer.InsertDLQ(ctx, rec, insertErr); dlqErr != nil {
		return multierr.Append(insertErr, dlqErr)
	}
	return nil
}
