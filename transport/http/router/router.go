package router

import (
	"fleetops/internal/handlers/booking"

	"github.com/go-chi/chi/v5"
)

const apiVersion = "/v1"

// Mounter registers a domain's routes on the versioned group.
type Mounter interface {
	Router(chi.Router)
}

type DomainHandlers struct {
	Booking booking.Handler
}

func (d *DomainHandlers) mounters() []Mounter {
	return []Mounter{&d.Booking}
}

type Router struct {
	DomainHandlers DomainHandlers
}

func New(domainHandlers DomainHandlers) Router {
	return Router{DomainHandlers: domainHandlers}
}

// SetupRoutes mounts every domain under the API version prefix.
func (r *Router) SetupRoutes(mux chi.Router) {
	mux.Route(apiVersion, func(group chi.Router) {
		for _, domain := range r.DomainHandlers.mounters() {
			domain.Router(group)
		}
	})
}
