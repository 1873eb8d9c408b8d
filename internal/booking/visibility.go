package booking

import (
	"context"
	"strings"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

// Gate restricts booking reads to the configured administrator. Everyone
// else gets an empty list; regular users only learn about occupancy through
// conflict rejections when they try to book.
type Gate struct {
	store      store.Store
	adminEmail string
}

// NewGate builds a visibility gate for the given admin email. The email is
// injected here rather than read from the environment so the gate stays
// testable with arbitrary identities.
func NewGate(s store.Store, adminEmail string) *Gate {
	return &Gate{store: s, adminEmail: adminEmail}
}

// IsAdmin reports whether the asserted email matches the configured
// administrator, case-insensitively.
func (g *Gate) IsAdmin(email string) bool {
	return g.adminEmail != "" && strings.EqualFold(email, g.adminEmail)
}

// ListVisible returns every booking ordered by start time for the admin,
// and an empty sequence for any other caller. The gate guards reads only;
// it never restricts who may attempt to create a booking.
func (g *Gate) ListVisible(ctx context.Context, callerEmail string) ([]model.Booking, error) {
	if !g.IsAdmin(callerEmail) {
		return []model.Booking{}, nil
	}
	return g.store.ListBookings(ctx)
}
