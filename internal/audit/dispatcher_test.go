package audit

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type memorySink struct {
	mu     sync.Mutex
	events []Event
	block  chan struct{}
}

func (s *memorySink) Log(_ context.Context, ev Event) error {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func TestDispatcherWritesEventsBeforeClose(t *testing.T) {
	sink := &memorySink{}
	d := NewDispatcher(sink)

	for i := 0; i < 10; i++ {
		d.Dispatch(Event{SalonID: 1, Action: "appointment_created"})
	}
	d.Close()

	assert.Len(t, sink.events, 10)
}

func TestDispatcherDropsWhenFull(t *testing.T) {
	sink := &memorySink{block: make(chan struct{})}
	d := NewDispatcher(sink)

	// one event is held by the blocked worker, 100 fill the buffer
	for i := 0; i < 150; i++ {
		d.Dispatch(Event{Action: "x"})
	}
	close(sink.block)
	d.Close()

	assert.LessOrEqual(t, len(sink.events), 101)
	assert.GreaterOrEqual(t, len(sink.events), 100)
}

func TestNilDispatcherIsSafe(t *testing.T) {
	var d *Dispatcher
	assert.NotPanics(t, func() { d.Dispatch(Event{Action: "x"}) })
}
