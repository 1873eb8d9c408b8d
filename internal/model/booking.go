package model

import "time"

// Booking reserves the half-open interval [StartTime, EndTime) of a room.
// For a fixed room no two bookings may overlap; bookings are created once
// and never updated.
type Booking struct {
	ID             string    `gorm:"primaryKey;size:64" json:"id"`
	Title          string    `gorm:"size:256;not null" json:"title"`
	RoomID         string    `gorm:"size:64;not null;index:idx_bookings_room_start" json:"room"`
	StartTime      time.Time `gorm:"not null;index:idx_bookings_room_start" json:"start"`
	EndTime        time.Time `gorm:"not null" json:"end"`
	RequesterEmail string    `gorm:"size:256" json:"requesterEmail,omitempty"`
	CreatedAt      time.Time `json:"-"`

	// Associations
	Room Room `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}
