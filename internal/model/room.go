package model

import "time"

// Room represents a bookable space. Rooms are seeded at boot from a fixed
// catalog and upserted by id; they are never deleted at runtime.
type Room struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Block     string    `gorm:"size:64" json:"block"`
	Capacity  int       `gorm:"not null" json:"capacity"`
	Features  []string  `gorm:"serializer:json" json:"features"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`

	// Associations
	Bookings []Booking `gorm:"foreignKey:RoomID" json:"-"`
}
