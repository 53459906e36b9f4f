package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"meetbook/internal/domain"
	"meetbook/internal/metrics"
	"meetbook/internal/models"
	"meetbook/internal/service"
)

type createBookingRequest struct {
	BookingName   string     `json:"booking_name"`
	ProjectName   string     `json:"project_name"`
	ProgramName   string     `json:"program_name"`
	ProgramTitle  string     `json:"program_title"`
	EventInCharge string     `json:"event_in_charge"`
	InChargeEmail string     `json:"in_charge_email"`
	ApproverEmail string     `json:"approver_email"`
	MeetingRoom   string     `json:"meeting_room"`
	StartTime     flexString `json:"start_time"`
	EndTime       flexString `json:"end_time"`
	Participants  flexString `json:"participants"`
	AudioVisual   flexBool   `json:"audio_visual"`
	VideoConf     flexBool   `json:"video_conf"`
	Catering      flexBool   `json:"catering"`
}

func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		s.createBooking(w, r)
	case http.MethodGet:
		s.listBookings(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) createBooking(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.CreateBooking(r.Context(), service.BookingRequest{
		BookingName:   req.BookingName,
		ProjectName:   req.ProjectName,
		ProgramName:   req.ProgramName,
		ProgramTitle:  req.ProgramTitle,
		EventInCharge: req.EventInCharge,
		InChargeEmail: req.InChargeEmail,
		ApproverEmail: req.ApproverEmail,
		MeetingRoom:   req.MeetingRoom,
		StartTime:     req.StartTime.String(),
		EndTime:       req.EndTime.String(),
		Participants:  req.Participants.String(),
		AudioVisual:   bool(req.AudioVisual),
		VideoConf:     bool(req.VideoConf),
		Catering:      bool(req.Catering),
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	metrics.IncBookingCreated()
	writeJSON(w, http.StatusCreated, booking)
}

func (s *HTTPServer) listBookings(w http.ResponseWriter, r *http.Request) {
	filter := domain.BookingFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Email:  strings.TrimSpace(r.URL.Query().Get("email")),
	}

	bookings, err := s.bookings.ListBookings(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

func (s *HTTPServer) handlePendingBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	bookings, err := s.bookings.PendingBookings(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, bookings)
}

// handleBookingByID routes /bookings/{id}, /bookings/{id}/approve and
// /bookings/{id}/reject.
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/bookings/"), "/")
	parts := strings.Split(rest, "/")

	id, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch {
	case len(parts) == 1 && r.Method == http.MethodGet:
		s.getBooking(w, r, id)
	case len(parts) == 1 && r.Method == http.MethodPatch:
		s.patchBooking(w, r, id)
	case len(parts) == 2 && parts[1] == "approve" && r.Method == http.MethodPost:
		s.decideBooking(w, r, id, s.bookings.Approve)
	case len(parts) == 2 && parts[1] == "reject" && r.Method == http.MethodPost:
		s.decideBooking(w, r, id, s.bookings.Reject)
	default:
		writeError(w, http.StatusNotFound, "not found")
	}
}

func (s *HTTPServer) getBooking(w http.ResponseWriter, r *http.Request, id int64) {
	booking, err := s.bookings.GetBooking(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) patchBooking(w http.ResponseWriter, r *http.Request, id int64) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	booking, err := s.bookings.PatchStatus(r.Context(), id, strings.TrimSpace(req.Status), true)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *HTTPServer) decideBooking(
	w http.ResponseWriter,
	r *http.Request,
	id int64,
	decide func(ctx context.Context, id int64) (*models.Booking, error),
) {
	booking, err := decide(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}
