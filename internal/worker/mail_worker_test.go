package worker

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/quickdesk/internal/notify"
)

type recordingMailer struct {
	mu   sync.Mutex
	sent []notify.Message
	err  error
}

func (r *recordingMailer) Send(_ context.Context, msg notify.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return r.err
}

func (r *recordingMailer) subjects() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, m := range r.sent {
		out = append(out, m.Subject)
	}
	return out
}

func TestMailWorkerDeliversQueuedMessages(t *testing.T) {
	next := &recordingMailer{}
	w := NewMailWorker(next, 10, 2, zap.NewNop())
	w.Start(context.Background())

	for _, subject := range []string{"a", "b", "c"} {
		require.NoError(t, w.Send(context.Background(), notify.Message{To: "x@example.com", Subject: subject}))
	}
	w.Stop()

	assert.ElementsMatch(t, []string{"a", "b", "c"}, next.subjects())
}

func TestMailWorkerRejectsWhenFull(t *testing.T) {
	next := &recordingMailer{}
	w := NewMailWorker(next, 1, 1, zap.NewNop())

	require.NoError(t, w.Send(context.Background(), notify.Message{Subject: "first"}))
	assert.ErrorIs(t, w.Send(context.Background(), notify.Message{Subject: "second"}), ErrQueueFull)

	w.Start(context.Background())
	w.Stop()
	assert.Equal(t, []string{"first"}, next.subjects())
}

func TestMailWorkerAfterStop(t *testing.T) {
	w := NewMailWorker(&recordingMailer{}, 1, 1, zap.NewNop())
	w.Start(context.Background())
	w.Stop()
	w.Stop()

	assert.ErrorIs(t, w.Send(context.Background(), notify.Message{}), ErrStopped)
}

func TestMailWorkerLogsDeliveryFailures(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	next := &recordingMailer{err: errors.New("smtp down")}
	w := NewMailWorker(next, 5, 1, zap.New(core))
	w.Start(context.Background())

	require.NoError(t, w.Send(context.Background(), notify.Message{To: "x@example.com", Subject: "hello"}))
	w.Stop()

	entries := logs.FilterMessage("failed to deliver email").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "x@example.com", entries[0].ContextMap()["to"])
}
