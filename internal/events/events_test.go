package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkincode/pedeai/internal/cms"
)

type captureForwarder struct {
	mu     sync.Mutex
	events []cms.EventPayload
	err    error
}

func (f *captureForwarder) CreateEvent(ctx context.Context, event cms.EventPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

func (f *captureForwarder) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func TestValidName(t *testing.T) {
	for _, name := range []string{
		EventAddToCart, EventRemoveFromCart, EventUpdateCart,
		EventRegisterSale, EventFilledAddress, EventViewCart,
	} {
		assert.True(t, ValidName(name), name)
	}
	assert.False(t, ValidName("CLICKED_BANNER"))
	assert.False(t, ValidName(""))
	assert.False(t, ValidName("add_to_cart"))
}

func TestTrackRejectsUnknownName(t *testing.T) {
	d, err := NewDispatcher(nil, nil)
	require.NoError(t, err)
	defer d.Close()

	err = d.Track(Event{Name: "BOGUS", SessionID: "s1"})
	assert.ErrorIs(t, err, ErrUnknownEvent)
}

func TestTrackForwardsToSink(t *testing.T) {
	forwarder := &captureForwarder{}
	d, err := NewDispatcher(nil, forwarder)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Track(Event{
		Name:       EventAddToCart,
		SessionID:  "s1",
		Properties: map[string]interface{}{"product_id": int64(7)},
	}))

	assert.Eventually(t, func() bool { return forwarder.count() == 1 }, 2*time.Second, 10*time.Millisecond)

	forwarder.mu.Lock()
	defer forwarder.mu.Unlock()
	assert.Equal(t, EventAddToCart, forwarder.events[0].EventName)
	assert.Equal(t, "s1", forwarder.events[0].SessionID)
}

func TestTrackSwallowsForwardFailure(t *testing.T) {
	forwarder := &captureForwarder{err: errors.New("cms down")}
	d, err := NewDispatcher(nil, forwarder)
	require.NoError(t, err)
	defer d.Close()

	require.NoError(t, d.Track(Event{Name: EventViewCart, SessionID: "s1"}))
	assert.Eventually(t, func() bool { return forwarder.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}
