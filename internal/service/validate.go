package service

import (
	"net/mail"
	"strconv"
	"strings"
	"time"

	"meetbook/internal/domain"
	"meetbook/internal/models"
)

// BookingRequest is the raw creation payload before normalization. Times and
// participants arrive as strings so the validation layer owns all coercion.
type BookingRequest struct {
	BookingName   string
	ProjectName   string
	ProgramName   string
	ProgramTitle  string
	EventInCharge string
	InChargeEmail string
	ApproverEmail string
	MeetingRoom   string
	StartTime     string
	EndTime       string
	Participants  string
	AudioVisual   bool
	VideoConf     bool
	Catering      bool
}

// acceptedTimeLayouts are tried in order; naive timestamps are read as UTC.
var acceptedTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// validateBooking normalizes a raw payload into a pending Booking or fails
// with a ValidationError naming the first offending field.
func validateBooking(req BookingRequest, requireProgramName bool) (*models.Booking, error) {
	required := []struct {
		field string
		value string
	}{
		{"booking_name", req.BookingName},
		{"project_name", req.ProjectName},
		{"program_title", req.ProgramTitle},
		{"program_name", req.ProgramName},
		{"event_in_charge", req.EventInCharge},
		{"in_charge_email", req.InChargeEmail},
		{"approver_email", req.ApproverEmail},
		{"meeting_room", req.MeetingRoom},
		{"start_time", req.StartTime},
		{"end_time", req.EndTime},
	}
	for _, r := range required {
		if r.field == "program_name" && !requireProgramName {
			continue
		}
		if strings.TrimSpace(r.value) == "" {
			return nil, domain.MissingField(r.field)
		}
	}

	if !validEmail(req.InChargeEmail) || !validEmail(req.ApproverEmail) {
		return nil, domain.Invalid("invalid email format")
	}

	start, err := parseTimestamp(req.StartTime)
	if err != nil {
		return nil, domain.Invalid("invalid date/time")
	}
	end, err := parseTimestamp(req.EndTime)
	if err != nil {
		return nil, domain.Invalid("invalid date/time")
	}
	if !end.After(start) {
		return nil, domain.Invalid("end not after start")
	}

	participants, err := strconv.Atoi(strings.TrimSpace(req.Participants))
	if err != nil || participants <= 0 {
		return nil, domain.Invalid("participants must be a positive number")
	}

	return &models.Booking{
		BookingName:   strings.TrimSpace(req.BookingName),
		ProjectName:   strings.TrimSpace(req.ProjectName),
		ProgramName:   strings.TrimSpace(req.ProgramName),
		ProgramTitle:  strings.TrimSpace(req.ProgramTitle),
		EventInCharge: strings.TrimSpace(req.EventInCharge),
		InChargeEmail: strings.TrimSpace(req.InChargeEmail),
		ApproverEmail: strings.TrimSpace(req.ApproverEmail),
		MeetingRoom:   strings.TrimSpace(req.MeetingRoom),
		StartTime:     start,
		EndTime:       end,
		Participants:  participants,
		AudioVisual:   req.AudioVisual,
		VideoConf:     req.VideoConf,
		Catering:      req.Catering,
		Status:        models.StatusPending,
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	var firstErr error
	for _, layout := range acceptedTimeLayouts {
		t, err := time.ParseInLocation(layout, raw, time.UTC)
		if err == nil {
			return t.UTC(), nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, firstErr
}

func validEmail(raw string) bool {
	addr, err := mail.ParseAddress(strings.TrimSpace(raw))
	return err == nil && addr.Address == strings.TrimSpace(raw)
}
