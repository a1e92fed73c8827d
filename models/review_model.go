package models

import (
	"encoding/json"
	"time"
)

type Review struct {
	ID        string    `json:"id"`
	BookingID string    `json:"bookingId"`
	Client    *Ref      `json:"client,omitempty"`
	Coach     *Ref      `json:"coach,omitempty"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

type reviewAlias Review

func (r *Review) UnmarshalJSON(data []byte) error {
	var raw struct {
		reviewAlias
		MongoID string          `json:"_id"`
		Booking json.RawMessage `json:"booking"`
		Created string          `json:"createdAt"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Review(raw.reviewAlias)
	r.ID = firstNonEmpty(raw.MongoID, raw.ID)
	if r.BookingID == "" && len(raw.Booking) > 0 {
		var ref Ref
		if err := json.Unmarshal(raw.Booking, &ref); err == nil {
			r.BookingID = ref.ID
		}
	}
	if t, err := time.Parse(time.RFC3339, raw.Created); err == nil {
		r.CreatedAt = t
	}
	return nil
}

type CreateReviewInput struct {
	BookingID string `json:"bookingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}
