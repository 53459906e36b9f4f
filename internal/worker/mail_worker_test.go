package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"meetbook/internal/events"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeNotifier struct {
	mu       sync.Mutex
	sent     []MailTask
	failures int
	done     chan struct{}
}

func newFakeNotifier(failures int) *fakeNotifier {
	return &fakeNotifier{failures: failures, done: make(chan struct{}, 16)}
}

func (f *fakeNotifier) Notify(ctx context.Context, to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failures > 0 {
		f.failures--
		return errors.New("smtp unavailable")
	}

	f.sent = append(f.sent, MailTask{To: to, Subject: subject, Body: body})
	f.done <- struct{}{}
	return nil
}

func (f *fakeNotifier) delivered() []MailTask {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]MailTask(nil), f.sent...)
}

func fastRetry() RetryPolicy {
	return RetryPolicy{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
	}
}

func waitDelivery(t *testing.T, notifier *fakeNotifier) {
	t.Helper()
	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not delivered in time")
	}
}

func TestMailWorker_Delivers(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newFakeNotifier(0)
	w := NewMailWorker(notifier, fastRetry(), &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue(MailTask{To: "boss@example.com", Subject: "Booking Approval Required", Body: "hi"})
	waitDelivery(t, notifier)

	sent := notifier.delivered()
	require.Len(t, sent, 1)
	assert.Equal(t, "boss@example.com", sent[0].To)
}

func TestMailWorker_RetriesUntilSuccess(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newFakeNotifier(2)
	w := NewMailWorker(notifier, fastRetry(), &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	w.Enqueue(MailTask{To: "boss@example.com", Subject: "s", Body: "b"})
	waitDelivery(t, notifier)

	assert.Len(t, notifier.delivered(), 1)
}

func TestMailWorker_DeadLetterAfterRetries(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newFakeNotifier(100)
	w := NewMailWorker(notifier, fastRetry(), &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// deliver runs inline so the test observes completion without sleeping
	w.deliver(ctx, MailTask{To: "boss@example.com", Subject: "s", Body: "b"})

	assert.Empty(t, notifier.delivered())
}

func TestSubscribeBookingEvents(t *testing.T) {
	logger := zerolog.Nop()
	notifier := newFakeNotifier(0)
	w := NewMailWorker(notifier, fastRetry(), &logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Start(ctx)

	bus := events.NewEventBus()
	w.SubscribeBookingEvents(bus)

	payload := events.BookingEventPayload{
		BookingID:     1,
		BookingName:   "Weekly Sync",
		MeetingRoom:   "Room A",
		StartTime:     time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:       time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		InChargeEmail: "dana@example.com",
		ApproverEmail: "boss@example.com",
	}

	require.NoError(t, bus.PublishJSON(events.EventBookingCreated, payload))
	waitDelivery(t, notifier)

	require.NoError(t, bus.PublishJSON(events.EventBookingApproved, payload))
	waitDelivery(t, notifier)

	require.NoError(t, bus.PublishJSON(events.EventBookingRejected, payload))
	waitDelivery(t, notifier)

	sent := notifier.delivered()
	require.Len(t, sent, 3)

	assert.Equal(t, "boss@example.com", sent[0].To)
	assert.Equal(t, "Booking Approval Required", sent[0].Subject)
	assert.Contains(t, sent[0].Body, "Room A")
	assert.Contains(t, sent[0].Body, "2024-01-01 09:00")

	assert.Equal(t, "dana@example.com", sent[1].To)
	assert.Equal(t, "Booking Approved", sent[1].Subject)

	assert.Equal(t, "dana@example.com", sent[2].To)
	assert.Equal(t, "Booking Rejected", sent[2].Subject)
}

func TestRetryPolicy_NextDelay(t *testing.T) {
	policy := RetryPolicy{
		MaxRetries:    5,
		InitialDelay:  time.Second,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2,
	}

	assert.Equal(t, time.Second, policy.NextDelay(1))
	assert.Equal(t, 2*time.Second, policy.NextDelay(2))
	assert.Equal(t, 4*time.Second, policy.NextDelay(3))
	assert.Equal(t, 5*time.Second, policy.NextDelay(4), "delay is clamped at MaxDelay")
	assert.Equal(t, 5*time.Second, policy.NextDelay(10))
}
