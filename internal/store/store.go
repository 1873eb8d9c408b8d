package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"room-booking-backend/config"
	"room-booking-backend/internal/model"
)

var (
	// ErrNotFound reports a missing room or booking.
	ErrNotFound = errors.New("record not found")
	// ErrConflict reports a storage-level overlap rejection (the Postgres
	// exclusion constraint firing underneath the optimistic check).
	ErrConflict = errors.New("booking conflicts with an existing booking")
)

// Store defines the interface for all database operations.
type Store interface {
	DB() *gorm.DB

	SeedRooms(ctx context.Context, seeds []config.RoomSeed) error
	ListRooms(ctx context.Context) ([]model.Room, error)
	GetRoom(ctx context.Context, id string) (model.Room, error)

	UpsertUser(ctx context.Context, user model.User) (model.User, error)

	CreateBooking(ctx context.Context, booking *model.Booking) error
	FindOverlapping(ctx context.Context, roomID string, start, end time.Time) (*model.Booking, error)
	ListBookings(ctx context.Context) ([]model.Booking, error)
	ListBookingsByRoom(ctx context.Context, roomID string) ([]model.Booking, error)
	DeleteBooking(ctx context.Context, id, requesterEmail string) error
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GORM-backed store.
func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) DB() *gorm.DB {
	return s.db
}

// SeedRooms upserts the room catalog by id. Running it twice with the same
// catalog is a no-op; pre-existing rooms keep their id and get their display
// fields refreshed.
func (s *gormStore) SeedRooms(ctx context.Context, seeds []config.RoomSeed) error {
	if len(seeds) == 0 {
		return nil
	}

	rooms := make([]model.Room, 0, len(seeds))
	for _, seed := range seeds {
		rooms = append(rooms, model.Room{
			ID:       seed.ID,
			Name:     seed.Name,
			Block:    seed.Block,
			Capacity: seed.Capacity,
			Features: seed.Features,
		})
	}

	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "block", "capacity", "features", "updated_at"}),
	}).Create(&rooms).Error; err != nil {
		return fmt.Errorf("batch upsert rooms failed: %w", err)
	}
	return nil
}

func (s *gormStore) ListRooms(ctx context.Context) ([]model.Room, error) {
	var rooms []model.Room
	if err := s.db.WithContext(ctx).Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

func (s *gormStore) GetRoom(ctx context.Context, id string) (model.Room, error) {
	var room model.Room
	err := s.db.WithContext(ctx).First(&room, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Room{}, ErrNotFound
	}
	if err != nil {
		return model.Room{}, fmt.Errorf("failed to fetch room %q: %w", id, err)
	}
	return room, nil
}

// UpsertUser creates or refreshes the identity record keyed by email.
func (s *gormStore) UpsertUser(ctx context.Context, user model.User) (model.User, error) {
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "whatsapp", "updated_at"}),
	}).Create(&user).Error; err != nil {
		return model.User{}, fmt.Errorf("upsert user failed: %w", err)
	}

	var saved model.User
	if err := s.db.WithContext(ctx).First(&saved, "email = ?", user.Email).Error; err != nil {
		return model.User{}, fmt.Errorf("failed to fetch user after upsert: %w", err)
	}
	return saved, nil
}

func (s *gormStore) CreateBooking(ctx context.Context, booking *model.Booking) error {
	if err := s.db.WithContext(ctx).Create(booking).Error; err != nil {
		if isExclusionViolation(err) {
			return ErrConflict
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

// FindOverlapping returns a booking on roomID whose [start_time, end_time)
// interval intersects [start, end), or nil when the room is free. Two
// half-open intervals overlap iff s1 < e2 AND s2 < e1, so a booking ending
// exactly at `start` (or starting exactly at `end`) does not match.
func (s *gormStore) FindOverlapping(ctx context.Context, roomID string, start, end time.Time) (*model.Booking, error) {
	var booking model.Booking
	err := s.db.WithContext(ctx).
		Where("room_id = ? AND start_time < ? AND end_time > ?", roomID, end, start).
		First(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("overlap query failed for room %q: %w", roomID, err)
	}
	return &booking, nil
}

func (s *gormStore) ListBookings(ctx context.Context) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).Order("start_time ASC").Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

func (s *gormStore) ListBookingsByRoom(ctx context.Context, roomID string) ([]model.Booking, error) {
	var bookings []model.Booking
	if err := s.db.WithContext(ctx).
		Where("room_id = ?", roomID).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, fmt.Errorf("failed to list bookings for room %q: %w", roomID, err)
	}
	return bookings, nil
}

// DeleteBooking removes a booking, but only for its original requester.
// A missing booking and a foreign booking are indistinguishable to the
// caller: both report ErrNotFound.
func (s *gormStore) DeleteBooking(ctx context.Context, id, requesterEmail string) error {
	res := s.db.WithContext(ctx).
		Where("id = ? AND requester_email = ?", id, requesterEmail).
		Delete(&model.Booking{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete booking %q: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// isExclusionViolation recognizes the bookings_no_overlap constraint
// rejecting an insert (Postgres SQLSTATE 23P01).
func isExclusionViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "23P01") || strings.Contains(msg, "bookings_no_overlap")
}
