package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"meetbook/internal/domain"
	"meetbook/internal/models"

	"github.com/xuri/excelize/v2"
)

var exportHeaders = []string{
	"ID", "Booking", "Project", "Program", "Title", "In Charge", "In Charge Email",
	"Approver Email", "Room", "Start", "End", "Participants", "A/V", "Video Conf",
	"Catering", "Status", "Created",
}

// handleExportBookings streams an xlsx snapshot of bookings, optionally
// filtered the same way as GET /bookings.
func (s *HTTPServer) handleExportBookings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	filter := domain.BookingFilter{
		Status: strings.TrimSpace(r.URL.Query().Get("status")),
		Email:  strings.TrimSpace(r.URL.Query().Get("email")),
	}

	bookings, err := s.bookings.ListBookings(r.Context(), filter)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	f, err := buildBookingsWorkbook(bookings)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	defer f.Close()

	fileName := fmt.Sprintf("bookings_%s.xlsx", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))

	if _, err := f.WriteTo(w); err != nil {
		s.log.Error().Err(err).Msg("failed to stream export")
	}
}

func buildBookingsWorkbook(bookings []*models.Booking) (*excelize.File, error) {
	f := excelize.NewFile()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("error creating sheet: %w", err)
	}
	f.SetActiveSheet(index)

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	firstCell, _ := excelize.CoordinatesToCellName(1, 1)
	lastCell, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
	_ = f.SetCellStyle(sheetName, firstCell, lastCell, headerStyle)

	for i, b := range bookings {
		row := i + 2
		values := []any{
			b.ID, b.BookingName, b.ProjectName, b.ProgramName, b.ProgramTitle,
			b.EventInCharge, b.InChargeEmail, b.ApproverEmail, b.MeetingRoom,
			b.StartTime.Format("2006-01-02 15:04"), b.EndTime.Format("2006-01-02 15:04"),
			b.Participants, yesNo(b.AudioVisual), yesNo(b.VideoConf), yesNo(b.Catering),
			b.Status, b.CreatedAt.Format("2006-01-02 15:04"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			_ = f.SetCellValue(sheetName, cell, v)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 6)
	_ = f.SetColWidth(sheetName, "B", "Q", 20)
	_ = f.DeleteSheet("Sheet1")

	return f, nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
