package booking

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"room-booking-backend/internal/model"
	"room-booking-backend/internal/store"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(&model.Room{}, &model.User{}, &model.Booking{}, &model.PushSubscription{}))
	return store.NewGormStore(db)
}

// recordingNotifier captures dispatched booking ids.
type recordingNotifier struct {
	mu  sync.Mutex
	ids []string
}

func (n *recordingNotifier) BookingCreated(bookingID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.ids = append(n.ids, bookingID)
}

func (n *recordingNotifier) dispatched() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.ids...)
}

func at(hour, min int) time.Time {
	return time.Date(2024, 1, 1, hour, min, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name         string
		aStart, aEnd time.Time
		bStart, bEnd time.Time
		expected     bool
	}{
		{"identical intervals", at(9, 0), at(10, 0), at(9, 0), at(10, 0), true},
		{"partial overlap", at(9, 0), at(10, 0), at(9, 30), at(10, 30), true},
		{"containment", at(9, 0), at(12, 0), at(10, 0), at(11, 0), true},
		{"touching endpoints are not a conflict", at(9, 0), at(10, 0), at(10, 0), at(11, 0), false},
		{"touching endpoints, reversed", at(10, 0), at(11, 0), at(9, 0), at(10, 0), false},
		{"disjoint", at(9, 0), at(10, 0), at(14, 0), at(15, 0), false},
		{"one minute of overlap", at(9, 0), at(10, 1), at(10, 0), at(11, 0), true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Overlaps(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd))
			// Overlap is symmetric.
			assert.Equal(t, tc.expected, Overlaps(tc.bStart, tc.bEnd, tc.aStart, tc.aEnd))
		})
	}
}

func TestService_Book(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	notifier := &recordingNotifier{}
	svc := NewService(s, notifier, 50, "Reserva", "+55 11 99999-0000")

	meeting := model.Room{ID: "beta", Name: "Sala Beta", Capacity: 10}
	auditorium := model.Room{ID: "magna", Name: "Auditório Magna", Capacity: 120}
	require.NoError(t, s.DB().Create(&meeting).Error)
	require.NoError(t, s.DB().Create(&auditorium).Error)

	t.Run("approves a free slot and notifies", func(t *testing.T) {
		outcome, err := svc.Book(ctx, meeting, Request{
			Title: "Planning", RoomID: "beta", Start: at(9, 0), End: at(10, 0),
			RequesterEmail: "ana@empresa.com",
		})
		require.NoError(t, err)
		require.Equal(t, Approved, outcome.Kind)
		require.NotNil(t, outcome.Booking)
		assert.NotEmpty(t, outcome.Booking.ID)
		assert.Equal(t, "Planning", outcome.Booking.Title)
		assert.Equal(t, []string{outcome.Booking.ID}, notifier.dispatched())
	})

	t.Run("rejects an overlapping slot", func(t *testing.T) {
		outcome, err := svc.Book(ctx, meeting, Request{
			RoomID: "beta", Start: at(9, 30), End: at(10, 30),
		})
		require.NoError(t, err)
		assert.Equal(t, Rejected, outcome.Kind)
		assert.Equal(t, ReasonRoomBooked, outcome.Reason)
	})

	t.Run("allows a back-to-back slot", func(t *testing.T) {
		outcome, err := svc.Book(ctx, meeting, Request{
			RoomID: "beta", Start: at(10, 0), End: at(11, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, Approved, outcome.Kind)
		assert.Equal(t, "Reserva", outcome.Booking.Title, "title should default")
	})

	t.Run("rejects an invalid range before any conflict check", func(t *testing.T) {
		// The interval collides with an existing booking, but the range
		// error must win.
		outcome, err := svc.Book(ctx, meeting, Request{
			RoomID: "beta", Start: at(10, 0), End: at(9, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, Rejected, outcome.Kind)
		assert.Equal(t, ReasonInvalidRange, outcome.Reason)

		outcome, err = svc.Book(ctx, meeting, Request{
			RoomID: "beta", Start: at(9, 0), End: at(9, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, ReasonInvalidRange, outcome.Reason)
	})

	t.Run("defers auditoriums without touching the store", func(t *testing.T) {
		before := notifier.dispatched()

		outcome, err := svc.Book(ctx, auditorium, Request{
			RoomID: "magna", Start: at(14, 0), End: at(15, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, Deferred, outcome.Kind)
		assert.Contains(t, outcome.Notice, "WhatsApp")
		assert.Contains(t, outcome.Notice, "Auditório Magna")

		var count int64
		require.NoError(t, s.DB().Model(&model.Booking{}).Where("room_id = ?", "magna").Count(&count).Error)
		assert.Zero(t, count, "deferral must not create a booking")
		assert.Equal(t, before, notifier.dispatched(), "deferral must not notify")
	})

	t.Run("defers auditoriums even for invalid ranges", func(t *testing.T) {
		outcome, err := svc.Book(ctx, auditorium, Request{
			RoomID: "magna", Start: at(15, 0), End: at(14, 0),
		})
		require.NoError(t, err)
		assert.Equal(t, Deferred, outcome.Kind)
	})
}

func TestService_Book_ConcurrentRequestsSameRoom(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	svc := NewService(s, nil, 50, "Reserva", "")

	room := model.Room{ID: "gama", Name: "Sala Gama", Capacity: 20}
	require.NoError(t, s.DB().Create(&room).Error)

	// All workers fight for the same interval; exactly one may win.
	const workers = 16
	var wg sync.WaitGroup
	outcomes := make([]Outcome, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			outcomes[i], errs[i] = svc.Book(ctx, room, Request{
				RoomID: "gama", Start: at(9, 0), End: at(10, 0),
			})
		}(i)
	}
	wg.Wait()

	approved := 0
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		if outcomes[i].Kind == Approved {
			approved++
		} else {
			assert.Equal(t, ReasonRoomBooked, outcomes[i].Reason)
		}
	}
	assert.Equal(t, 1, approved)

	var count int64
	require.NoError(t, s.DB().Model(&model.Booking{}).Where("room_id = ?", "gama").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
