package models

import "encoding/json"

// Payment is a payment record for one booking. Status is left raw; callers
// normalize it through lifecycle.NormalizePayment.
type Payment struct {
	ID              string  `json:"id"`
	BookingID       string  `json:"bookingId"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency,omitempty"`
	Status          string  `json:"status"`
	PaymentIntentID string  `json:"paymentIntentId,omitempty"`
}

type paymentAlias Payment

func (p *Payment) UnmarshalJSON(data []byte) error {
	var raw struct {
		paymentAlias
		MongoID string          `json:"_id"`
		Amount  json.RawMessage `json:"amount"`
		Booking json.RawMessage `json:"booking"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Payment(raw.paymentAlias)
	p.ID = firstNonEmpty(raw.MongoID, raw.ID)
	p.Amount = decodeAmount(raw.Amount)
	if p.BookingID == "" && len(raw.Booking) > 0 {
		var ref Ref
		if err := json.Unmarshal(raw.Booking, &ref); err == nil {
			p.BookingID = ref.ID
		}
	}
	return nil
}

type PaymentIntent struct {
	PaymentIntentID string  `json:"paymentIntentId"`
	ClientSecret    string  `json:"clientSecret"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency,omitempty"`
}

type ConfirmPaymentInput struct {
	BookingID       string `json:"bookingId"`
	PaymentIntentID string `json:"paymentIntentId"`
	PaymentMethod   string `json:"paymentMethod,omitempty"`
}

// PaymentResult is the gateway outcome relayed by the API after confirmation.
type PaymentResult struct {
	Status  string   `json:"status"`
	Message string   `json:"message,omitempty"`
	Payment *Payment `json:"payment,omitempty"`
}
