package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"meetbook/internal/domain"
	"meetbook/internal/events"
	"meetbook/internal/metrics"
	"meetbook/internal/models"

	"github.com/rs/zerolog"
)

// MailTask is one queued notification.
type MailTask struct {
	To      string
	Subject string
	Body    string
}

// MailWorker drains queued notifications and sends them with exponential
// retry. Exhausted tasks are dropped with a dead-letter log entry; failures
// never propagate to the request that triggered the notification.
type MailWorker struct {
	notifier    domain.Notifier
	retryPolicy RetryPolicy
	queue       chan MailTask
	logger      *zerolog.Logger
}

func NewMailWorker(notifier domain.Notifier, retry RetryPolicy, logger *zerolog.Logger) *MailWorker {
	if retry.MaxRetries == 0 {
		retry.MaxRetries = 3
	}
	if retry.InitialDelay == 0 {
		retry.InitialDelay = 2 * time.Second
	}
	if retry.MaxDelay == 0 {
		retry.MaxDelay = time.Minute
	}
	if retry.BackoffFactor == 0 {
		retry.BackoffFactor = 2
	}

	return &MailWorker{
		notifier:    notifier,
		retryPolicy: retry,
		queue:       make(chan MailTask, models.MailQueueSize),
		logger:      logger,
	}
}

// Enqueue never blocks; when the queue is full the task is dropped and logged.
func (w *MailWorker) Enqueue(task MailTask) {
	select {
	case w.queue <- task:
	default:
		w.logger.Error().Str("to", task.To).Str("subject", task.Subject).Msg("mail queue full, dropping notification")
		metrics.IncNotificationFailed()
	}
}

// Start blocks until ctx is cancelled. Callers run it in a goroutine.
func (w *MailWorker) Start(ctx context.Context) {
	w.logger.Info().Msg("mail worker started")
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-w.queue:
			w.deliver(ctx, task)
		}
	}
}

func (w *MailWorker) deliver(ctx context.Context, task MailTask) {
	var lastErr error
	for attempt := 1; attempt <= w.retryPolicy.MaxRetries; attempt++ {
		lastErr = w.notifier.Notify(ctx, task.To, task.Subject, task.Body)
		if lastErr == nil {
			return
		}

		w.logger.Warn().Err(lastErr).Int("attempt", attempt).Str("to", task.To).Msg("mail send failed")

		select {
		case <-ctx.Done():
			return
		case <-time.After(w.retryPolicy.NextDelay(attempt)):
		}
	}

	// Dead letter: log and count, never surface.
	w.logger.Error().Err(lastErr).Str("to", task.To).Str("subject", task.Subject).Msg("notification dropped after retries")
	metrics.IncNotificationFailed()
}

// SubscribeBookingEvents wires notification composition to the event bus.
func (w *MailWorker) SubscribeBookingEvents(bus *events.EventBus) {
	bus.Subscribe(events.EventBookingCreated, func(e *events.Event) error {
		p, err := decodeBookingPayload(e)
		if err != nil {
			return err
		}
		w.Enqueue(MailTask{
			To:      p.ApproverEmail,
			Subject: "Booking Approval Required",
			Body: fmt.Sprintf("Booking %q for %s requires your approval.",
				p.BookingName, describeInterval(p)),
		})
		return nil
	})

	bus.Subscribe(events.EventBookingApproved, func(e *events.Event) error {
		p, err := decodeBookingPayload(e)
		if err != nil {
			return err
		}
		w.Enqueue(MailTask{
			To:      p.InChargeEmail,
			Subject: "Booking Approved",
			Body:    fmt.Sprintf("Your booking %q has been approved.", p.BookingName),
		})
		return nil
	})

	bus.Subscribe(events.EventBookingRejected, func(e *events.Event) error {
		p, err := decodeBookingPayload(e)
		if err != nil {
			return err
		}
		w.Enqueue(MailTask{
			To:      p.InChargeEmail,
			Subject: "Booking Rejected",
			Body:    fmt.Sprintf("Your booking %q has been rejected.", p.BookingName),
		})
		return nil
	})
}

func decodeBookingPayload(e *events.Event) (events.BookingEventPayload, error) {
	var p events.BookingEventPayload
	if err := json.Unmarshal(e.Payload, &p); err != nil {
		return p, fmt.Errorf("decode booking event payload: %w", err)
	}
	return p, nil
}

func describeInterval(p events.BookingEventPayload) string {
	return fmt.Sprintf("room %s from %s to %s",
		p.MeetingRoom,
		p.StartTime.Format("2006-01-02 15:04"),
		p.EndTime.Format("2006-01-02 15:04"))
}
