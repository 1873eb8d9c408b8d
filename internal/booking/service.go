package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

// Notifier receives the id of a freshly committed booking. Implementations
// must not block; delivery is best effort and independent of the booking
// response.
type Notifier interface {
	BookingCreated(bookingID string)
}

// Request is a candidate booking as asserted by the caller.
type Request struct {
	Title          string
	RoomID         string
	Start          time.Time
	End            time.Time
	RequesterEmail string
}

// Service evaluates booking requests: capacity gate first, then range
// validation, then the overlap check, then commit. The check and the insert
// run under a per-room lock so two concurrent requests cannot both observe
// a free slot.
type Service struct {
	store              store.Store
	locks              *roomLocks
	notifier           Notifier
	auditoriumCapacity int
	defaultTitle       string
	adminWhatsapp      string
}

// NewService wires a booking policy over the given store. notifier may be
// nil when no notification sink is configured.
func NewService(s store.Store, notifier Notifier, auditoriumCapacity int, defaultTitle, adminWhatsapp string) *Service {
	if auditoriumCapacity <= 0 {
		auditoriumCapacity = 50
	}
	if defaultTitle == "" {
		defaultTitle = "Reserva"
	}
	return &Service{
		store:              s,
		locks:              newRoomLocks(),
		notifier:           notifier,
		auditoriumCapacity: auditoriumCapacity,
		defaultTitle:       defaultTitle,
		adminWhatsapp:      adminWhatsapp,
	}
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Touching endpoints do not overlap, which keeps
// back-to-back bookings legal.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// HasConflict reports whether the room already holds a booking overlapping
// [start, end). Pure read; start < end must already hold.
func (s *Service) HasConflict(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	existing, err := s.store.FindOverlapping(ctx, roomID, start, end)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// Book evaluates the request against the given room and, when approved,
// commits the booking and dispatches a notification. A non-nil error means
// the evaluation itself failed (storage trouble), not that the request was
// turned down; refusals come back as Deferred or Rejected outcomes.
func (s *Service) Book(ctx context.Context, room model.Room, req Request) (Outcome, error) {
	if room.Capacity >= s.auditoriumCapacity {
		return Outcome{
			Kind: Deferred,
			Notice: fmt.Sprintf(
				"%s comporta %d pessoas e não pode ser reservado automaticamente. "+
					"Confirme sua reserva pelo WhatsApp %s.",
				room.Name, room.Capacity, s.adminWhatsapp),
		}, nil
	}

	if !req.Start.Before(req.End) {
		return Outcome{
			Kind:    Rejected,
			Reason:  ReasonInvalidRange,
			Message: "Horário final deve ser maior que o inicial",
		}, nil
	}

	title := req.Title
	if title == "" {
		title = s.defaultTitle
	}

	lock := s.locks.get(room.ID)
	lock.Lock()
	booking, err := s.checkAndCreate(ctx, room.ID, title, req)
	lock.Unlock()

	if errors.Is(err, store.ErrConflict) {
		booking = nil
		err = nil
	}
	if err != nil {
		return Outcome{}, err
	}
	if booking == nil {
		return Outcome{
			Kind:    Rejected,
			Reason:  ReasonRoomBooked,
			Message: "Conflito: horário já ocupado nesta sala.",
		}, nil
	}

	if s.notifier != nil {
		s.notifier.BookingCreated(booking.ID)
	}

	return Outcome{Kind: Approved, Booking: booking}, nil
}

// checkAndCreate is the critical section: overlap check immediately
// followed by the insert, both under the room lock held by Book.
func (s *Service) checkAndCreate(ctx context.Context, roomID, title string, req Request) (*model.Booking, error) {
	conflict, err := s.HasConflict(ctx, roomID, req.Start, req.End)
	if err != nil {
		return nil, err
	}
	if conflict {
		return nil, nil
	}

	booking := &model.Booking{
		ID:             uuid.NewString(),
		Title:          title,
		RoomID:         roomID,
		StartTime:      req.Start,
		EndTime:        req.End,
		RequesterEmail: req.RequesterEmail,
	}
	if err := s.store.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	return booking, nil
}
