package realtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"seva/infras/otel/mocks"
	"seva/internal/realtime"
)

type recordingConn struct {
	mu       sync.Mutex
	events   []string
	payloads []any
	sendErr  error
}

func (r *recordingConn) Send(event string, payload any) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sendErr != nil {
		return r.sendErr
	}

	r.events = append(r.events, event)
	r.payloads = append(r.payloads, payload)

	return nil
}

func (r *recordingConn) Close() error { return nil }

func TestRouter_DeliversToPresentUser(t *testing.T) {
	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry, mocks.NewOtel())

	conn := &recordingConn{}
	registry.Connect("akshaya", conn)

	payload := realtime.NewBookingRequestPayload{
		Message:     "New booking request",
		NgoUsername: "seva-ngo",
		FoodItems:   []string{"Rice"},
		MealType:    "Lunch",
	}

	router.Route(context.Background(), "akshaya", realtime.EventNewBookingRequest, payload)

	assert.Equal(t, []string{realtime.EventNewBookingRequest}, conn.events)
	assert.Equal(t, payload, conn.payloads[0])
}

func TestRouter_AbsentRecipientIsSilentNoop(t *testing.T) {
	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry, mocks.NewOtel())

	assert.NotPanics(t, func() {
		router.Route(context.Background(), "nobody", realtime.EventNewApplication, realtime.NewApplicationPayload{JobID: "j-1"})
	})
}

func TestRouter_SendFailureIsSwallowed(t *testing.T) {
	registry := realtime.NewRegistry()
	router := realtime.NewRouter(registry, mocks.NewOtel())

	conn := &recordingConn{sendErr: errors.New("broken pipe")}
	registry.Connect("akshaya", conn)

	assert.NotPanics(t, func() {
		router.Route(context.Background(), "akshaya", realtime.EventApplicationStatusUpdated, realtime.ApplicationStatusPayload{JobID: "j-1", Status: "ACCEPTED"})
	})
}
