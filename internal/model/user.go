package model

import "time"

// User is an asserted identity, upserted by email on login. There are no
// credentials and no sessions; the caller re-asserts its email on every
// request. The administrator role is derived by comparing the email against
// the configured admin address, never stored here.
type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Email     string    `gorm:"uniqueIndex;size:256;not null" json:"email"`
	Whatsapp  string    `gorm:"size:64" json:"whatsapp,omitempty"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}
