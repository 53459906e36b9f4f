package models

import "time"

type Booking struct {
	ID            int64     `json:"id"`
	BookingName   string    `json:"booking_name"`
	ProjectName   string    `json:"project_name"`
	ProgramName   string    `json:"program_name"`
	ProgramTitle  string    `json:"program_title"`
	EventInCharge string    `json:"event_in_charge"`
	InChargeEmail string    `json:"in_charge_email"`
	ApproverEmail string    `json:"approver_email"`
	MeetingRoom   string    `json:"meeting_room"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Participants  int       `json:"participants"`
	AudioVisual   bool      `json:"audio_visual"`
	VideoConf     bool      `json:"video_conf"`
	Catering      bool      `json:"catering"`
	Status        string    `json:"status"` // pending, approved, rejected, cancelled
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
