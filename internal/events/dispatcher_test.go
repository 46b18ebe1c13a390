package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestPublishIsolatesHandlerFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	d := NewInMemoryDispatcher(zap.New(core))

	var calls []string
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "failing")
		return errors.New("smtp down")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "panicking")
		panic("boom")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		calls = append(calls, "ok")
		return nil
	})
	d.Subscribe(EventTicketAssigned, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	d.Publish(context.Background(), Event{ID: "e1", Type: EventTicketCreated, TicketID: "t1"})

	assert.Equal(t, []string{"failing", "panicking", "ok"}, calls)
	assert.Equal(t, 2, logs.FilterMessage("event handler failed").Len())
}
