package booking

import "room-booking-backend/internal/model"

// OutcomeKind tags the result of a booking request evaluation.
type OutcomeKind int

const (
	// Approved: the booking passed the policy and was committed.
	Approved OutcomeKind = iota
	// Deferred: the room is an auditorium; nothing was committed and the
	// requester must confirm out of band.
	Deferred
	// Rejected: the request failed validation or conflicts with an
	// existing booking.
	Rejected
)

// RejectReason qualifies a Rejected outcome.
type RejectReason int

const (
	ReasonNone RejectReason = iota
	// ReasonInvalidRange: end is not strictly after start.
	ReasonInvalidRange
	// ReasonRoomBooked: an overlapping booking already exists.
	ReasonRoomBooked
)

// Outcome is the tagged result of Service.Book. Exactly one of Booking
// (Approved), Notice (Deferred) or Reason (Rejected) is meaningful.
type Outcome struct {
	Kind    OutcomeKind
	Booking *model.Booking
	Notice  string
	Reason  RejectReason
	Message string
}
