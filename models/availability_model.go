package models

import (
	"encoding/json"
)

// TimeSlot is a coach-owned interval of availability.
type TimeSlot struct {
	ID          string `json:"id"`
	CoachID     string `json:"coachId,omitempty"`
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	StartTime   string `json:"startTime" validate:"required,hhmm"`
	EndTime     string `json:"endTime" validate:"required,hhmm"`
	Duration    int    `json:"duration" validate:"gte=0,lte=1440"`
	IsAvailable bool   `json:"isAvailable"`
}

type timeSlotAlias TimeSlot

func (s *TimeSlot) UnmarshalJSON(data []byte) error {
	var raw struct {
		timeSlotAlias
		MongoID     string          `json:"_id"`
		Coach       *Ref            `json:"coach"`
		Duration    json.RawMessage `json:"duration"`
		IsAvailable *bool           `json:"isAvailable"`
		IsBooked    *bool           `json:"isBooked"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = TimeSlot(raw.timeSlotAlias)
	s.ID = firstNonEmpty(raw.MongoID, raw.ID)
	if s.CoachID == "" && raw.Coach != nil {
		s.CoachID = raw.Coach.ID
	}
	s.Duration = decodeMinutes(raw.Duration)
	switch {
	case raw.IsAvailable != nil:
		s.IsAvailable = *raw.IsAvailable
	case raw.IsBooked != nil:
		s.IsAvailable = !*raw.IsBooked
	default:
		s.IsAvailable = true
	}
	return nil
}

type Availability struct {
	CoachID string     `json:"coachId"`
	Slots   []TimeSlot `json:"slots" validate:"dive"`
}
