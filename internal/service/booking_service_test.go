package service

import (
	"context"
	"path/filepath"
	"testing"

	"meetbook/internal/database"
	"meetbook/internal/domain"
	"meetbook/internal/events"
	"meetbook/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBookingService(t *testing.T) (*BookingService, *events.EventBus) {
	t.Helper()

	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	bus := events.NewEventBus()
	return NewBookingService(db, bus, false, false, &logger), bus
}

func validRequest() BookingRequest {
	return BookingRequest{
		BookingName:   "Weekly Sync",
		ProjectName:   "Apollo",
		ProgramTitle:  "Morning Show",
		EventInCharge: "Dana",
		InChargeEmail: "dana@example.com",
		ApproverEmail: "boss@example.com",
		MeetingRoom:   "Room A",
		StartTime:     "2024-01-01 09:00:00",
		EndTime:       "2024-01-01 10:00:00",
		Participants:  "4",
	}
}

func TestCreateBooking_ForcesPendingStatus(t *testing.T) {
	svc, _ := newBookingService(t)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, models.StatusPending, booking.Status)
	assert.NotZero(t, booking.ID)
}

func TestCreateBooking_Validation(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		mutate  func(r *BookingRequest)
		message string
	}{
		{
			"missing booking name",
			func(r *BookingRequest) { r.BookingName = "  " },
			"missing required field: booking_name",
		},
		{
			"missing room",
			func(r *BookingRequest) { r.MeetingRoom = "" },
			"missing required field: meeting_room",
		},
		{
			"bad email",
			func(r *BookingRequest) { r.InChargeEmail = "not-an-email" },
			"invalid email format",
		},
		{
			"bad timestamp",
			func(r *BookingRequest) { r.StartTime = "yesterday" },
			"invalid date/time",
		},
		{
			"end equals start",
			func(r *BookingRequest) { r.EndTime = r.StartTime },
			"end not after start",
		},
		{
			"end before start",
			func(r *BookingRequest) {
				r.StartTime = "2024-01-01 10:00:00"
				r.EndTime = "2024-01-01 09:00:00"
			},
			"end not after start",
		},
		{
			"negative participants",
			func(r *BookingRequest) { r.Participants = "-3" },
			"participants must be a positive number",
		},
		{
			"zero participants",
			func(r *BookingRequest) { r.Participants = "0" },
			"participants must be a positive number",
		},
		{
			"non-numeric participants",
			func(r *BookingRequest) { r.Participants = "many" },
			"participants must be a positive number",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)

			_, err := svc.CreateBooking(ctx, req)
			var validation *domain.ValidationError
			require.ErrorAs(t, err, &validation)
			assert.Equal(t, tc.message, validation.Message)
		})
	}
}

func TestCreateBooking_RequireProgramName(t *testing.T) {
	logger := zerolog.Nop()
	db, err := database.NewDB(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	svc := NewBookingService(db, events.NewEventBus(), false, true, &logger)

	req := validRequest()
	_, err = svc.CreateBooking(context.Background(), req)
	var validation *domain.ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "missing required field: program_name", validation.Message)

	req.ProgramName = "Prime"
	_, err = svc.CreateBooking(context.Background(), req)
	assert.NoError(t, err)
}

func TestCreateBooking_AcceptsRFC3339(t *testing.T) {
	svc, _ := newBookingService(t)

	req := validRequest()
	req.StartTime = "2024-01-01T09:00:00Z"
	req.EndTime = "2024-01-01T10:00:00Z"

	booking, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01 09:00:00", booking.StartTime.Format("2006-01-02 15:04:05"))
}

func TestCreateBooking_Conflict(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	_, err := svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	overlapping := validRequest()
	overlapping.StartTime = "2024-01-01 09:30:00"
	overlapping.EndTime = "2024-01-01 10:30:00"
	_, err = svc.CreateBooking(ctx, overlapping)
	assert.ErrorIs(t, err, domain.ErrRoomBusy)

	adjacent := validRequest()
	adjacent.StartTime = "2024-01-01 10:00:00"
	adjacent.EndTime = "2024-01-01 11:00:00"
	_, err = svc.CreateBooking(ctx, adjacent)
	assert.NoError(t, err)
}

func TestApprove(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	approved, err := svc.Approve(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, approved.Status)

	// Second decision on a settled booking must fail.
	_, err = svc.Approve(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
	_, err = svc.Reject(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestReject(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, rejected.Status)

	_, err = svc.Approve(ctx, booking.ID)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestApprove_NotFound(t *testing.T) {
	svc, _ := newBookingService(t)

	_, err := svc.Approve(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPatchStatus(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	booking, err := svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	_, err = svc.PatchStatus(ctx, booking.ID, "on-hold", true)
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	cancelled, err := svc.PatchStatus(ctx, booking.ID, models.StatusCancelled, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Override lets an admin move a settled booking again.
	restored, err := svc.PatchStatus(ctx, booking.ID, models.StatusApproved, true)
	require.NoError(t, err)
	assert.Equal(t, models.StatusApproved, restored.Status)

	// Without override only pending bookings may move.
	_, err = svc.PatchStatus(ctx, booking.ID, models.StatusCancelled, false)
	assert.ErrorIs(t, err, domain.ErrNotPending)
}

func TestCreateBooking_PublishesEvent(t *testing.T) {
	svc, bus := newBookingService(t)

	var got *events.Event
	bus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		got = e
		return nil
	})

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	require.NotNil(t, got)
	assert.Equal(t, events.EventBookingCreated, got.Type)
	assert.Contains(t, string(got.Payload), booking.ApproverEmail)
}

func TestPendingBookings(t *testing.T) {
	svc, _ := newBookingService(t)
	ctx := context.Background()

	first, err := svc.CreateBooking(ctx, validRequest())
	require.NoError(t, err)

	second := validRequest()
	second.MeetingRoom = "Room B"
	settled, err := svc.CreateBooking(ctx, second)
	require.NoError(t, err)
	_, err = svc.Approve(ctx, settled.ID)
	require.NoError(t, err)

	pending, err := svc.PendingBookings(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, first.ID, pending[0].ID)
}
