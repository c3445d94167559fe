package router

import (
	"github.com/go-chi/chi/v5"

	"seva/internal/handlers/booking"
	"seva/internal/handlers/job"
	"seva/internal/handlers/listing"
	"seva/internal/handlers/realtime"
)

type DomainHandlers struct {
	Listing  listing.Handler
	Booking  booking.Handler
	Job      job.Handler
	Realtime realtime.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Listing.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Job.Router(routerGroup)
		r.DomainHandlers.Realtime.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
