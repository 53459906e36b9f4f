package domain

import (
	"context"
	"time"

	"meetbook/internal/models"
)

// BookingFilter narrows ListBookings. Zero value means "everything,
// ordered by start time descending".
type BookingFilter struct {
	Status string
	Email  string
}

type BookingRepository interface {
	// CreateBookingIfFree runs the overlap check and the insert inside a
	// single transaction and fails with ErrRoomBusy on conflict.
	CreateBookingIfFree(ctx context.Context, booking *models.Booking, allStatuses bool) error
	GetBooking(ctx context.Context, id int64) (*models.Booking, error)
	ListBookings(ctx context.Context, filter BookingFilter) ([]*models.Booking, error)
	FindOverlap(ctx context.Context, room string, start, end time.Time, allStatuses bool) (*models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id int64, status string) error
	UpdateBookingStatusFrom(ctx context.Context, id int64, from, to string) error
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsersByStatus(ctx context.Context, status string) ([]*models.User, error)
	UpdateUserStatus(ctx context.Context, id int64, status string) error
}

// Notifier delivers a notification. Callers treat delivery as best-effort.
type Notifier interface {
	Notify(ctx context.Context, to, subject, body string) error
}

// EventPublisher decouples state transitions from their side effects.
type EventPublisher interface {
	PublishJSON(eventType string, payload interface{}) error
}

// LimiterRepository counts requests per client within a fixed window.
type LimiterRepository interface {
	CheckRateLimit(ctx context.Context, clientKey string, limit int, window time.Duration) (bool, error)
}
