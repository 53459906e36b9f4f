package service

import (
	"context"

	"meetbook/internal/domain"
	"meetbook/internal/events"
	"meetbook/internal/models"

	"github.com/rs/zerolog"
)

type BookingService struct {
	repo                domain.BookingRepository
	eventBus            domain.EventPublisher
	conflictAllStatuses bool
	requireProgramName  bool
	logger              *zerolog.Logger
}

func NewBookingService(repo domain.BookingRepository, eventBus domain.EventPublisher, conflictAllStatuses, requireProgramName bool, logger *zerolog.Logger) *BookingService {
	return &BookingService{
		repo:                repo,
		eventBus:            eventBus,
		conflictAllStatuses: conflictAllStatuses,
		requireProgramName:  requireProgramName,
		logger:              logger,
	}
}

// CreateBooking validates the payload and admits it against existing bookings
// for the room. The stored status is always pending regardless of input.
func (s *BookingService) CreateBooking(ctx context.Context, req BookingRequest) (*models.Booking, error) {
	booking, err := validateBooking(req, s.requireProgramName)
	if err != nil {
		return nil, err
	}

	if err := s.repo.CreateBookingIfFree(ctx, booking, s.conflictAllStatuses); err != nil {
		return nil, err
	}

	s.publishBookingEvent(events.EventBookingCreated, booking)
	return booking, nil
}

func (s *BookingService) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	return s.repo.GetBooking(ctx, id)
}

func (s *BookingService) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, filter)
}

func (s *BookingService) PendingBookings(ctx context.Context) ([]*models.Booking, error) {
	return s.repo.ListBookings(ctx, domain.BookingFilter{Status: models.StatusPending})
}

// Approve moves a pending booking to approved and notifies the in-charge
// contact best-effort.
func (s *BookingService) Approve(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, models.StatusApproved, events.EventBookingApproved)
}

// Reject moves a pending booking to rejected.
func (s *BookingService) Reject(ctx context.Context, id int64) (*models.Booking, error) {
	return s.transition(ctx, id, models.StatusRejected, events.EventBookingRejected)
}

func (s *BookingService) transition(ctx context.Context, id int64, to, eventType string) (*models.Booking, error) {
	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if booking.Status != models.StatusPending {
		return nil, domain.ErrNotPending
	}

	// Guarded update: a concurrent transition loses here, not after.
	if err := s.repo.UpdateBookingStatusFrom(ctx, id, models.StatusPending, to); err != nil {
		return nil, err
	}
	booking.Status = to

	s.publishBookingEvent(eventType, booking)
	return booking, nil
}

// PatchStatus is the administrative correction path. The target status must
// belong to the closed status set; without override the normal transition
// rules still apply.
func (s *BookingService) PatchStatus(ctx context.Context, id int64, status string, override bool) (*models.Booking, error) {
	if !models.ValidBookingStatus(status) {
		return nil, domain.ErrInvalidStatus
	}

	booking, err := s.repo.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	if !override && booking.Status != models.StatusPending {
		return nil, domain.ErrNotPending
	}

	if err := s.repo.UpdateBookingStatus(ctx, id, status); err != nil {
		return nil, err
	}
	booking.Status = status

	s.publishBookingEvent(events.EventBookingPatched, booking)
	return booking, nil
}

func (s *BookingService) publishBookingEvent(eventType string, booking *models.Booking) {
	if s.eventBus == nil {
		return
	}

	payload := events.BookingEventPayload{
		BookingID:     booking.ID,
		BookingName:   booking.BookingName,
		MeetingRoom:   booking.MeetingRoom,
		StartTime:     booking.StartTime,
		EndTime:       booking.EndTime,
		Status:        booking.Status,
		InChargeEmail: booking.InChargeEmail,
		ApproverEmail: booking.ApproverEmail,
	}

	if err := s.eventBus.PublishJSON(eventType, payload); err != nil {
		s.logger.Error().Err(err).Str("event_type", eventType).Int64("booking_id", booking.ID).Msg("publish event error")
	}
}
