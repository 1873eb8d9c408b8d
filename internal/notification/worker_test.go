package notification

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"room-booking-backend/internal/model"
)

// mockSender is a mock implementation of the PushSender interface.
type mockSender struct {
	SendFunc func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

func (m *mockSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return m.SendFunc(payload, sub, options)
}

// recordingMailer captures sent mail instead of talking SMTP.
type recordingMailer struct {
	mu   sync.Mutex
	sent []string
}

func (m *recordingMailer) Send(to, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, fmt.Sprintf("%s|%s|%s", to, subject, body))
	return nil
}

func (m *recordingMailer) all() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.sent...)
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.Room{}, &model.Booking{}, &model.PushSubscription{}))
	return db
}

func seedBooking(t *testing.T, db *gorm.DB) model.Booking {
	t.Helper()

	room := model.Room{ID: "beta", Name: "Sala Beta", Capacity: 10}
	require.NoError(t, db.Create(&room).Error)

	booking := model.Booking{
		ID: "b1", Title: "Planning", RoomID: "beta",
		StartTime:      time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		RequesterEmail: "ana@empresa.com",
	}
	require.NoError(t, db.Create(&booking).Error)
	return booking
}

func subscribe(t *testing.T, db *gorm.DB, endpoint, roomID string) {
	t.Helper()

	sub := model.PushSubscription{Endpoint: endpoint, P256DH: "p", Auth: "a"}
	require.NoError(t, db.Create(&sub).Error)
	require.NoError(t, db.Model(&sub).Association("Rooms").Append(&model.Room{ID: roomID}))
}

func TestWorkerPool_BookingCreated_NonBlocking(t *testing.T) {
	db := newTestDB(t)
	wp := NewWorkerPool(1, db, nil, nil, "")

	// Fill the queue well past capacity; dispatch must never block even
	// with no workers draining it.
	for i := 0; i < 100; i++ {
		wp.BookingCreated(fmt.Sprintf("b%d", i))
	}

	select {
	case job := <-wp.Jobs():
		assert.Equal(t, "b0", job)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for dispatched job")
	}
}

func TestWorkerPool_NotifyBookingCreated(t *testing.T) {
	db := newTestDB(t)
	booking := seedBooking(t, db)
	subscribe(t, db, "https://example.com/push", booking.RoomID)

	mailer := &recordingMailer{}
	wp := NewWorkerPool(1, db, &webpush.Options{}, mailer, "admin@empresa.com")

	var wg sync.WaitGroup
	wg.Add(1)
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			defer wg.Done()
			assert.Equal(t, "https://example.com/push", sub.Endpoint)
			assert.Contains(t, string(payload), "Sala Beta reservada")
			return &http.Response{
				StatusCode: http.StatusCreated,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	wp.Start(ctx)

	wp.BookingCreated(booking.ID)
	wg.Wait()

	sent := mailer.all()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0], "admin@empresa.com|Nova reserva: Planning")
	assert.Contains(t, sent[0], "ana@empresa.com")
}

func TestWorkerPool_DeletesExpiredSubscription(t *testing.T) {
	db := newTestDB(t)
	booking := seedBooking(t, db)
	subscribe(t, db, "https://example.com/expired", booking.RoomID)

	wp := NewWorkerPool(1, db, &webpush.Options{}, nil, "")
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusGone,
				Body:       io.NopCloser(bytes.NewBufferString("")),
			}, nil
		},
	}

	// Run the job inline; no worker goroutine needed.
	wp.notifyBookingCreated(context.Background(), booking.ID)

	var count int64
	require.NoError(t, db.Model(&model.PushSubscription{}).Count(&count).Error)
	assert.Zero(t, count, "expired subscription should be removed")
}

func TestWorkerPool_NoPushConfigured(t *testing.T) {
	db := newTestDB(t)
	booking := seedBooking(t, db)

	mailer := &recordingMailer{}
	wp := NewWorkerPool(1, db, nil, mailer, "admin@empresa.com")
	wp.sender = &mockSender{
		SendFunc: func(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
			t.Fatal("push must not be attempted without webpush options")
			return nil, nil
		},
	}

	wp.notifyBookingCreated(context.Background(), booking.ID)
	assert.Len(t, mailer.all(), 1, "mail still goes out")
}
