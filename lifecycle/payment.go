package lifecycle

import "strings"

// Normalized is the canonical payment vocabulary used by every view and filter.
type Normalized string

const (
	NormalizedPaid     Normalized = "paid"
	NormalizedRefunded Normalized = "refunded"
	NormalizedFailed   Normalized = "failed"
	NormalizedPending  Normalized = "pending"
)

var paymentSynonyms = map[string]Normalized{
	"succeeded": NormalizedPaid,
	"success":   NormalizedPaid,
	"completed": NormalizedPaid,
	"paid":      NormalizedPaid,
	"refund":    NormalizedRefunded,
	"refunded":  NormalizedRefunded,
	"cancelled": NormalizedRefunded,
	"canceled":  NormalizedRefunded,
	"failed":    NormalizedFailed,
	"rejected":  NormalizedFailed,
	"error":     NormalizedFailed,
}

// NormalizePayment folds the payment vocabularies seen on the API into one of
// paid, refunded, failed or pending. Unrecognized input is pending.
func NormalizePayment(raw string) Normalized {
	if n, ok := paymentSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return n
	}
	return NormalizedPending
}

// Terminal reports whether a polled payment has settled.
func (n Normalized) Terminal() bool {
	return n != NormalizedPending
}
