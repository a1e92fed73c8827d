package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/anjiri1684/cricket_coach/models"
)

func (c *Client) CreatePaymentIntent(ctx context.Context, token, bookingID string) (*models.PaymentIntent, error) {
	var intent models.PaymentIntent
	body := map[string]string{"bookingId": bookingID}
	if err := c.do(ctx, token, http.MethodPost, "/payments/create-intent", body, &intent, "paymentIntent"); err != nil {
		return nil, err
	}
	return &intent, nil
}

func (c *Client) ConfirmPayment(ctx context.Context, token string, input models.ConfirmPaymentInput) (*models.PaymentResult, error) {
	var result models.PaymentResult
	if err := c.do(ctx, token, http.MethodPost, "/payments/confirm", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *Client) GetPayment(ctx context.Context, token, bookingID string) (*models.Payment, error) {
	var payment models.Payment
	if err := c.do(ctx, token, http.MethodGet, "/payments/booking/"+url.PathEscape(bookingID), nil, &payment, "payment"); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (c *Client) RequestRefund(ctx context.Context, token, bookingID, reason string) error {
	body := map[string]string{"bookingId": bookingID, "reason": reason}
	return c.do(ctx, token, http.MethodPost, "/payments/refund", body, nil)
}
