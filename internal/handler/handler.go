// Package handler exposes the session cart, quote, and checkout flows over
// HTTP. It owns request/response mapping only; all pricing decisions live
// in the domain packages.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/metric"

	"github.com/luminaspa/booking-cart/internal/domain/booking"
	"github.com/luminaspa/booking-cart/internal/session"
)

// Handler implements the booking cart HTTP API.
type Handler struct {
	sessions  *session.Store
	booking   *booking.Service
	checkouts metric.Int64Counter
}

// New constructs a Handler. The checkout counter may be nil when telemetry
// is disabled.
func New(sessions *session.Store, bookingSvc *booking.Service, checkouts metric.Int64Counter) *Handler {
	return &Handler{
		sessions:  sessions,
		booking:   bookingSvc,
		checkouts: checkouts,
	}
}

// Routes returns the chi router for the cart API.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/carts", h.createCart)

		r.Route("/carts/{cartID}", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Delete("/", h.deleteCart)

			r.Post("/items", h.addItem)
			r.Delete("/items", h.clearItems)
			r.Post("/items/{treatmentID}/increment", h.incrementItem)
			r.Post("/items/{treatmentID}/decrement", h.decrementItem)
			r.Delete("/items/{treatmentID}", h.removeItem)

			r.Get("/quote", h.getQuote)
			r.Post("/checkout", h.checkout)
		})
	})

	return r
}

// errorEnvelope is the JSON error body for all non-2xx responses.
type errorEnvelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Best effort: the status is already committed, so a failed encode can
	// only mean the client went away.
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorEnvelope{Code: status, Message: message})
}
