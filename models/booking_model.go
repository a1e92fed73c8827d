package models

import (
	"bytes"
	"encoding/json"
	"time"
)

// SlotData is a schedule as embedded in a booking. Duration is in minutes.
type SlotData struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date,omitempty"`
	StartTime string `json:"startTime,omitempty"`
	EndTime   string `json:"endTime,omitempty"`
	Duration  int    `json:"duration,omitempty"`
}

func (s *SlotData) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.ID)
	}

	var raw struct {
		MongoID   string          `json:"_id"`
		ID        string          `json:"id"`
		Date      string          `json:"date"`
		StartTime string          `json:"startTime"`
		EndTime   string          `json:"endTime"`
		Duration  json.RawMessage `json:"duration"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.ID = firstNonEmpty(raw.MongoID, raw.ID)
	s.Date = raw.Date
	s.StartTime = raw.StartTime
	s.EndTime = raw.EndTime
	s.Duration = decodeMinutes(raw.Duration)
	return nil
}

// Booking is a booking record as returned by the booking API. Schedules arrive
// under several shapes; lifecycle.Resolver picks the canonical one.
type Booking struct {
	ID              string    `json:"id"`
	Client          *Ref      `json:"client,omitempty"`
	Coach           *Ref      `json:"coach,omitempty"`
	TimeSlot        *SlotData `json:"timeSlot,omitempty"`
	Date            string    `json:"date,omitempty"`
	StartTime       string    `json:"startTime,omitempty"`
	EndTime         string    `json:"endTime,omitempty"`
	Duration        int       `json:"duration,omitempty"`
	TimeSlotData    *SlotData `json:"timeSlotData,omitempty"`
	BookingDate     string    `json:"bookingDate,omitempty"`
	Status          string    `json:"status"`
	PaymentStatus   string    `json:"paymentStatus,omitempty"`
	PaymentAmount   float64   `json:"paymentAmount"`
	Reviewed        bool      `json:"reviewed"`
	Notes           string    `json:"notes,omitempty"`
	RejectionReason string    `json:"rejectionReason,omitempty"`
	CreatedAt       time.Time `json:"createdAt,omitempty"`
}

type bookingAlias Booking

func (b *Booking) UnmarshalJSON(data []byte) error {
	var raw struct {
		bookingAlias
		MongoID  string          `json:"_id"`
		Duration json.RawMessage `json:"duration"`
		Amount   json.RawMessage `json:"paymentAmount"`
		Created  string          `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = Booking(raw.bookingAlias)
	b.ID = firstNonEmpty(raw.MongoID, raw.ID)
	b.Duration = decodeMinutes(raw.Duration)
	b.PaymentAmount = decodeAmount(raw.Amount)
	if t, err := time.Parse(time.RFC3339, raw.Created); err == nil {
		b.CreatedAt = t
	}
	return nil
}

// PartialBooking salvages a record that failed to decode as a whole. It
// keeps the id, the statuses and the parties when each of them is readable
// on its own. ok is false when no id can be read.
func PartialBooking(data []byte) (Booking, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return Booking{}, false
	}
	text := func(key string) string {
		var s string
		if raw, ok := fields[key]; ok {
			_ = json.Unmarshal(raw, &s)
		}
		return s
	}
	party := func(key string) *Ref {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return nil
		}
		var r Ref
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil
		}
		return &r
	}

	b := Booking{
		ID:            firstNonEmpty(text("_id"), text("id")),
		Client:        party("client"),
		Coach:         party("coach"),
		Status:        text("status"),
		PaymentStatus: text("paymentStatus"),
	}
	return b, b.ID != ""
}

// ClientID and CoachID are empty when the party is missing from the record.
func (b *Booking) ClientID() string {
	if b.Client == nil {
		return ""
	}
	return b.Client.ID
}

func (b *Booking) CoachID() string {
	if b.Coach == nil {
		return ""
	}
	return b.Coach.ID
}

type CreateBookingInput struct {
	CoachID    string `json:"coachId" validate:"required"`
	TimeSlotID string `json:"timeSlotId" validate:"required"`
	Notes      string `json:"notes,omitempty" validate:"max=1000"`
}
