// Package realtime holds the presence registry and the best-effort
// notification router. Presence is process-local and ephemeral: a
// username is "present" while exactly one live connection handle is
// registered for it, and every missed event is dropped, never queued.
package realtime

//go:generate go run go.uber.org/mock/mockgen -source=./realtime.go -destination=./mocks/realtime_mock.go -package=mocks

import (
	"context"
)

const (
	EventNewBookingRequest        = "newBookingRequest"
	EventNewApplication           = "newApplication"
	EventApplicationStatusUpdated = "applicationStatusUpdated"
)

// NewBookingRequestPayload is delivered to an institute when an NGO
// claims items from its listing.
type NewBookingRequestPayload struct {
	Message     string   `json:"message"`
	NgoUsername string   `json:"ngoUsername"`
	FoodItems   []string `json:"foodItems"`
	MealType    string   `json:"mealType"`
}

// NewApplicationPayload is delivered to a startup when an individual
// applies to one of its jobs.
type NewApplicationPayload struct {
	JobID     string    `json:"jobId"`
	Applicant Applicant `json:"applicant"`
}

type Applicant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ApplicationStatusPayload is delivered to an applicant when the job
// owner accepts or rejects their application.
type ApplicationStatusPayload struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

// Conn is a live, addressable connection handle. Send must be safe
// for concurrent use; implementations serialize writes internally.
type Conn interface {
	Send(event string, payload any) error
	Close() error
}

// Registry tracks which username currently owns which connection.
// Connect is last-write-wins: a reconnect replaces the previous
// handle. Disconnect removes the entry only when the departing handle
// is still the registered one, so a slow disconnect of a stale
// connection cannot clobber a fresh reconnect.
type Registry interface {
	Connect(username string, conn Conn)
	Disconnect(username string, conn Conn)
	Get(username string) (Conn, bool)
	Count() int
}

// Router delivers a named event to a username if and only if it is
// currently present. Absence and transport failures are logged and
// swallowed; callers never learn about delivery, which keeps the
// primary operation's outcome independent of notification fate.
type Router interface {
	Route(ctx context.Context, username, event string, payload any)
}
