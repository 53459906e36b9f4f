package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"meetbook/internal/domain"
	"meetbook/internal/models"
)

// timeLayout is a fixed-width UTC format so interval comparisons stay
// lexicographic inside sqlite.
const timeLayout = "2006-01-02 15:04:05"

const bookingColumns = `id, booking_name, project_name, program_name, program_title,
                 event_in_charge, in_charge_email, approver_email, meeting_room,
                 start_time, end_time, participants, audio_visual, video_conf,
                 catering, status, created_at, updated_at`

// overlapPredicate admits half-open intervals: a booking ending exactly when
// another starts is not a conflict.
const overlapPredicate = `meeting_room = ? AND start_time < ? AND end_time > ?`

func (db *DB) FindOverlap(ctx context.Context, room string, start, end time.Time, allStatuses bool) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + overlapPredicate
	args := []interface{}{room, end.UTC().Format(timeLayout), start.UTC().Format(timeLayout)}
	if !allStatuses {
		query += ` AND status NOT IN (?, ?)`
		args = append(args, models.StatusCancelled, models.StatusRejected)
	}
	query += ` LIMIT 1`

	booking, err := scanBooking(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find overlap: %w", err)
	}
	return booking, nil
}

// CreateBookingIfFree checks for an overlapping booking and inserts inside a
// single transaction, so two concurrent requests cannot both pass the check.
func (db *DB) CreateBookingIfFree(ctx context.Context, booking *models.Booking, allStatuses bool) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	queryCount := `SELECT COUNT(*) FROM bookings WHERE ` + overlapPredicate
	args := []interface{}{
		booking.MeetingRoom,
		booking.EndTime.UTC().Format(timeLayout),
		booking.StartTime.UTC().Format(timeLayout),
	}
	if !allStatuses {
		queryCount += ` AND status NOT IN (?, ?)`
		args = append(args, models.StatusCancelled, models.StatusRejected)
	}

	var overlapping int
	if err := tx.QueryRowContext(ctx, queryCount, args...).Scan(&overlapping); err != nil {
		return fmt.Errorf("failed to check overlap in tx: %w", err)
	}
	if overlapping > 0 {
		return domain.ErrRoomBusy
	}

	queryInsert := `INSERT INTO bookings (
				booking_name, project_name, program_name, program_title,
				event_in_charge, in_charge_email, approver_email, meeting_room,
				start_time, end_time, participants, audio_visual, video_conf,
				catering, status, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	now := time.Now().UTC()
	result, err := tx.ExecContext(ctx, queryInsert,
		booking.BookingName,
		booking.ProjectName,
		booking.ProgramName,
		booking.ProgramTitle,
		booking.EventInCharge,
		booking.InChargeEmail,
		booking.ApproverEmail,
		booking.MeetingRoom,
		booking.StartTime.UTC().Format(timeLayout),
		booking.EndTime.UTC().Format(timeLayout),
		booking.Participants,
		booking.AudioVisual,
		booking.VideoConf,
		booking.Catering,
		booking.Status,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking in tx: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id in tx: %w", err)
	}
	booking.ID = id
	booking.CreatedAt = now
	booking.UpdatedAt = now

	return tx.Commit()
}

func (db *DB) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ?`
	booking, err := scanBooking(db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	return booking, nil
}

func (db *DB) ListBookings(ctx context.Context, filter domain.BookingFilter) ([]*models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings`
	var args []interface{}
	var conds []string
	if filter.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, filter.Status)
	}
	if filter.Email != "" {
		conds = append(conds, `in_charge_email = ?`)
		args = append(args, filter.Email)
	}
	for i, cond := range conds {
		if i == 0 {
			query += ` WHERE ` + cond
		} else {
			query += ` AND ` + cond
		}
	}
	query += ` ORDER BY start_time DESC`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}
	return bookings, nil
}

func (db *DB) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`
	result, err := db.ExecContext(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdateBookingStatusFrom updates only when the current status matches,
// so concurrent transitions cannot both win.
func (db *DB) UpdateBookingStatusFrom(ctx context.Context, id int64, from, to string) error {
	query := `UPDATE bookings SET status = ?, updated_at = ? WHERE id = ? AND status = ?`
	result, err := db.ExecContext(ctx, query, to, time.Now().UTC(), id, from)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotPending
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	b := &models.Booking{}
	var startStr, endStr string
	err := row.Scan(
		&b.ID, &b.BookingName, &b.ProjectName, &b.ProgramName, &b.ProgramTitle,
		&b.EventInCharge, &b.InChargeEmail, &b.ApproverEmail, &b.MeetingRoom,
		&startStr, &endStr, &b.Participants, &b.AudioVisual, &b.VideoConf,
		&b.Catering, &b.Status, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if b.StartTime, err = time.ParseInLocation(timeLayout, startStr, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse start time %s: %w", startStr, err)
	}
	if b.EndTime, err = time.ParseInLocation(timeLayout, endStr, time.UTC); err != nil {
		return nil, fmt.Errorf("failed to parse end time %s: %w", endStr, err)
	}
	return b, nil
}
