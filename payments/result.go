package payments

import (
	"strings"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
)

// Outcome is how a confirmation attempt ended, from the payer's view.
type Outcome struct {
	Status  lifecycle.Normalized `json:"status"`
	Message string               `json:"message"`
}

// Succeeded reports a result the UI may treat as paid right away.
func (o Outcome) Succeeded() bool {
	return o.Status == lifecycle.NormalizedPaid
}

// Interpret reads the gateway result relayed by the API. The embedded payment
// record wins over the top-level status when both are present.
func Interpret(result *models.PaymentResult) Outcome {
	if result == nil {
		return Outcome{Status: lifecycle.NormalizedPending, Message: "Payment is processing."}
	}
	raw := result.Status
	if result.Payment != nil && result.Payment.Status != "" {
		raw = result.Payment.Status
	}
	status := lifecycle.NormalizePayment(raw)

	msg := strings.TrimSpace(result.Message)
	if msg == "" {
		switch status {
		case lifecycle.NormalizedPaid:
			msg = "Payment successful."
		case lifecycle.NormalizedFailed:
			msg = "Payment failed. Please check your card details."
		case lifecycle.NormalizedRefunded:
			msg = "This payment has been refunded."
		default:
			msg = "Payment is processing."
		}
	}
	return Outcome{Status: status, Message: msg}
}
