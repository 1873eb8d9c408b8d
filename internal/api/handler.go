package api

import (
	"github.com/SherClockHolmes/webpush-go"

	"room-booking-backend/internal/booking"
	"room-booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	policy  *booking.Service
	gate    *booking.Gate
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, policy *booking.Service, gate *booking.Gate, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		policy:  policy,
		gate:    gate,
		webpush: webpushOptions,
	}
}

// callerEmail extracts the identity the caller asserts for this request,
// either as the X-User-Email header or an email query parameter. There is
// no verification; the whole service trusts asserted identities.
func callerEmail(header, query string) string {
	if header != "" {
		return header
	}
	return query
}
