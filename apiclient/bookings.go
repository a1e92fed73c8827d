package apiclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/anjiri1684/cricket_coach/models"
)

func (c *Client) CreateBooking(ctx context.Context, token string, input models.CreateBookingInput) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, token, http.MethodPost, "/bookings", input, &booking, "booking"); err != nil {
		return nil, err
	}
	return &booking, nil
}

func (c *Client) ListClientBookings(ctx context.Context, token string) ([]models.Booking, error) {
	return c.listBookings(ctx, token, "/bookings/client")
}

func (c *Client) ListCoachBookings(ctx context.Context, token string) ([]models.Booking, error) {
	return c.listBookings(ctx, token, "/bookings/coach")
}

func (c *Client) ListAllBookings(ctx context.Context, token string) ([]models.Booking, error) {
	return c.listBookings(ctx, token, "/admin/bookings")
}

// listBookings decodes each record on its own so one malformed record
// degrades to what can be salvaged instead of failing the list.
func (c *Client) listBookings(ctx context.Context, token, path string) ([]models.Booking, error) {
	var records []json.RawMessage
	if err := c.do(ctx, token, http.MethodGet, path, nil, &records, "bookings"); err != nil {
		return nil, err
	}

	bookings := make([]models.Booking, 0, len(records))
	for i, raw := range records {
		var b models.Booking
		err := json.Unmarshal(raw, &b)
		if err == nil {
			bookings = append(bookings, b)
			continue
		}
		partial, ok := models.PartialBooking(raw)
		c.log.Warn().Err(err).Str("path", path).Int("index", i).Str("booking_id", partial.ID).Bool("kept", ok).Msg("malformed booking record")
		if ok {
			bookings = append(bookings, partial)
		}
	}
	return bookings, nil
}

func (c *Client) GetBooking(ctx context.Context, token, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := c.do(ctx, token, http.MethodGet, "/bookings/"+url.PathEscape(id), nil, &booking, "booking"); err != nil {
		return nil, err
	}
	return &booking, nil
}

// UpdateBooking sends a partial update, e.g. {"status": "no-show"}.
func (c *Client) UpdateBooking(ctx context.Context, token, id string, fields map[string]any) error {
	return c.do(ctx, token, http.MethodPut, "/bookings/"+url.PathEscape(id), fields, nil)
}

func (c *Client) ApproveBooking(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodPut, "/bookings/"+url.PathEscape(id)+"/approve", nil, nil)
}

func (c *Client) RejectBooking(ctx context.Context, token, id, reason string) error {
	body := map[string]string{"reason": reason}
	return c.do(ctx, token, http.MethodPut, "/bookings/"+url.PathEscape(id)+"/reject", body, nil)
}

func (c *Client) CancelBooking(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodPut, "/bookings/"+url.PathEscape(id)+"/cancel", nil, nil)
}

func (c *Client) CompleteBooking(ctx context.Context, token, id string) error {
	return c.do(ctx, token, http.MethodPut, "/bookings/"+url.PathEscape(id)+"/complete", nil, nil)
}

func (c *Client) MarkNoShow(ctx context.Context, token, id string) error {
	return c.UpdateBooking(ctx, token, id, map[string]any{"status": "no-show"})
}
