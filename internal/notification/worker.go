package notification

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"gorm.io/gorm"

	"room-booking-backend/internal/model"
)

// PushSender defines the interface for sending a web push notification.
type PushSender interface {
	Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error)
}

// WebPushSender is a real implementation of PushSender using the webpush
// library.
type WebPushSender struct{}

// Send sends a notification using the webpush library.
func (s *WebPushSender) Send(payload []byte, sub *webpush.Subscription, options *webpush.Options) (*http.Response, error) {
	return webpush.SendNotification(payload, sub, options)
}

// WorkerPool fans booking-created events out to the notification sinks: an
// email to the administrator and a web push to everyone subscribed to the
// booked room. Every failure here is logged and swallowed; a booking never
// fails because its notifications did.
type WorkerPool struct {
	size       int
	jobs       chan string
	db         *gorm.DB
	webpush    *webpush.Options
	sender     PushSender
	mailer     Mailer
	adminEmail string
}

// NewWorkerPool creates a new worker pool. webpushOptions and mailer may be
// nil; the corresponding sink is skipped.
func NewWorkerPool(size int, db *gorm.DB, webpushOptions *webpush.Options, mailer Mailer, adminEmail string) *WorkerPool {
	return &WorkerPool{
		size:       size,
		jobs:       make(chan string, size*4),
		db:         db,
		webpush:    webpushOptions,
		sender:     &WebPushSender{},
		mailer:     mailer,
		adminEmail: adminEmail,
	}
}

// Start launches the worker goroutines.
func (wp *WorkerPool) Start(ctx context.Context) {
	for i := 0; i < wp.size; i++ {
		go wp.worker(ctx, i)
	}
}

func (wp *WorkerPool) worker(ctx context.Context, id int) {
	log.Printf("notification worker %d started", id)
	for {
		select {
		case bookingID := <-wp.jobs:
			wp.notifyBookingCreated(ctx, bookingID)
		case <-ctx.Done():
			log.Printf("notification worker %d shutting down", id)
			return
		}
	}
}

// BookingCreated queues a booking for notification without blocking the
// caller. When the queue is saturated the event is dropped; the booking is
// already committed and notifications are best effort.
func (wp *WorkerPool) BookingCreated(bookingID string) {
	select {
	case wp.jobs <- bookingID:
	default:
		log.Printf("notification queue full, dropping event for booking %s", bookingID)
	}
}

// Jobs returns the jobs channel for testing.
func (wp *WorkerPool) Jobs() chan string {
	return wp.jobs
}

func (wp *WorkerPool) notifyBookingCreated(ctx context.Context, bookingID string) {
	var booking model.Booking
	if err := wp.db.WithContext(ctx).Preload("Room").First(&booking, "id = ?", bookingID).Error; err != nil {
		log.Printf("error fetching booking %s for notification: %v", bookingID, err)
		return
	}

	roomLabel := booking.Room.Name
	if roomLabel == "" {
		roomLabel = booking.RoomID
	}

	message := fmt.Sprintf("%s reservada: %s, de %s até %s",
		roomLabel,
		booking.Title,
		booking.StartTime.Format(time.RFC3339),
		booking.EndTime.Format(time.RFC3339))

	wp.mailAdmin(booking, message)
	wp.pushToRoomSubscribers(ctx, booking.RoomID, message)
}

func (wp *WorkerPool) mailAdmin(booking model.Booking, message string) {
	if wp.mailer == nil || wp.adminEmail == "" {
		return
	}

	body := message
	if booking.RequesterEmail != "" {
		body = fmt.Sprintf("%s\nSolicitante: %s", message, booking.RequesterEmail)
	}
	if err := wp.mailer.Send(wp.adminEmail, "Nova reserva: "+booking.Title, body); err != nil {
		log.Printf("error mailing admin about booking %s: %v", booking.ID, err)
	}
}

func (wp *WorkerPool) pushToRoomSubscribers(ctx context.Context, roomID, message string) {
	if wp.webpush == nil {
		return
	}

	var subscriptions []model.PushSubscription
	err := wp.db.WithContext(ctx).
		Joins("JOIN subscription_room_mapping srm ON srm.push_subscription_endpoint = push_subscriptions.endpoint").
		Where("srm.room_id = ?", roomID).
		Find(&subscriptions).Error
	if err != nil {
		log.Printf("error fetching subscriptions for room %s: %v", roomID, err)
		return
	}

	if len(subscriptions) == 0 {
		return
	}

	log.Printf("sending %d push notifications for room %s", len(subscriptions), roomID)
	for _, sub := range subscriptions {
		wp.sendPush(ctx, sub, []byte(message))
	}
}

func (wp *WorkerPool) sendPush(ctx context.Context, sub model.PushSubscription, payload []byte) {
	wpSub := &webpush.Subscription{
		Endpoint: sub.Endpoint,
		Keys: webpush.Keys{
			P256dh: sub.P256DH,
			Auth:   sub.Auth,
		},
	}

	resp, err := wp.sender.Send(payload, wpSub, wp.webpush)
	if err != nil {
		log.Printf("error sending push to %s: %v", sub.Endpoint, err)
		return
	}
	defer resp.Body.Close()

	// Expired subscriptions are removed on the spot.
	if resp.StatusCode == http.StatusGone {
		log.Printf("subscription %s is expired, deleting", sub.Endpoint)
		if err := wp.db.WithContext(ctx).Delete(&sub).Error; err != nil {
			log.Printf("failed to delete expired subscription %s: %v", sub.Endpoint, err)
		}
	}
}
