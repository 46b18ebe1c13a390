// Package worker runs background jobs that must not hold up a request.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/quickdesk/internal/notify"
)

// ErrQueueFull is returned when a message cannot be buffered.
var ErrQueueFull = errors.New("mail queue full")

// ErrStopped is returned for messages sent after Stop.
var ErrStopped = errors.New("mail worker stopped")

const sendTimeout = 30 * time.Second

// MailWorker is a notify.Mailer that buffers messages and delivers them
// from a fixed pool of goroutines.
type MailWorker struct {
	next    notify.Mailer
	jobs    chan notify.Message
	workers int
	logger  *zap.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

var _ notify.Mailer = (*MailWorker)(nil)

// NewMailWorker wraps next with a queue of the given size.
func NewMailWorker(next notify.Mailer, queueSize, workers int, logger *zap.Logger) *MailWorker {
	if queueSize <= 0 {
		queueSize = 100
	}
	if workers <= 0 {
		workers = 1
	}
	return &MailWorker{
		next:    next,
		jobs:    make(chan notify.Message, queueSize),
		workers: workers,
		logger:  logger,
	}
}

// Start launches the delivery goroutines. They exit once Stop drains the queue.
func (w *MailWorker) Start(ctx context.Context) {
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.run(context.WithoutCancel(ctx))
	}
	w.logger.Info("mail worker started", zap.Int("workers", w.workers), zap.Int("queue", cap(w.jobs)))
}

// Send enqueues msg without blocking.
func (w *MailWorker) Send(_ context.Context, msg notify.Message) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}
	select {
	case w.jobs <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Stop refuses new messages and waits for queued ones to be delivered.
func (w *MailWorker) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	close(w.jobs)
	w.mu.Unlock()

	w.wg.Wait()
	w.logger.Info("mail worker stopped")
}

func (w *MailWorker) run(ctx context.Context) {
	defer w.wg.Done()
	for msg := range w.jobs {
		w.deliver(ctx, msg)
	}
}

func (w *MailWorker) deliver(ctx context.Context, msg notify.Message) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("mail delivery panicked", zap.Any("panic", r), zap.String("to", msg.To))
		}
	}()
	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := w.next.Send(ctx, msg); err != nil {
		w.logger.Error("failed to deliver email",
			zap.String("to", msg.To),
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}
