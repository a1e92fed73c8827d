package lifecycle

import (
	"errors"
	"fmt"
	"strings"
)

type Status string

const (
	StatusPendingApproval Status = "pending_approval"
	StatusApproved        Status = "approved"
	StatusConfirmed       Status = "confirmed"
	StatusCompleted       Status = "completed"
	StatusCancelled       Status = "cancelled"
	StatusRejected        Status = "rejected"
	StatusNoShow          Status = "no-show"
)

var AllStatuses = []Status{
	StatusPendingApproval,
	StatusApproved,
	StatusConfirmed,
	StatusCompleted,
	StatusCancelled,
	StatusRejected,
	StatusNoShow,
}

var ErrUnknownStatus = errors.New("unknown booking status")

func ParseStatus(raw string) (Status, error) {
	value := Status(strings.ToLower(strings.TrimSpace(raw)))
	for _, s := range AllStatuses {
		if s == value {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStatus, raw)
}

func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusRejected, StatusNoShow:
		return true
	default:
		return false
	}
}

// Closed reports the statuses shown under the cancelled tab.
func (s Status) Closed() bool {
	return s == StatusCancelled || s == StatusRejected
}

type PaymentStatus string

const (
	PaymentAwaiting        PaymentStatus = "awaiting_payment"
	PaymentPaid            PaymentStatus = "paid"
	PaymentRefundRequested PaymentStatus = "refund_requested"
	PaymentRefunded        PaymentStatus = "refunded"
	PaymentFailed          PaymentStatus = "failed"
)

var allPaymentStatuses = []PaymentStatus{
	PaymentAwaiting,
	PaymentPaid,
	PaymentRefundRequested,
	PaymentRefunded,
	PaymentFailed,
}

// ParsePaymentStatus maps a raw payment status onto the booking vocabulary.
// An empty value is a booking that has not reached payment yet.
func ParsePaymentStatus(raw string) PaymentStatus {
	value := PaymentStatus(strings.ToLower(strings.TrimSpace(raw)))
	if value == "" {
		return PaymentAwaiting
	}
	for _, p := range allPaymentStatuses {
		if p == value {
			return p
		}
	}
	switch NormalizePayment(string(value)) {
	case NormalizedPaid:
		return PaymentPaid
	case NormalizedRefunded:
		return PaymentRefunded
	case NormalizedFailed:
		return PaymentFailed
	default:
		return PaymentAwaiting
	}
}

type Role string

const (
	RoleClient Role = "client"
	RoleCoach  Role = "coach"
	RoleAdmin  Role = "admin"
	RoleSystem Role = "system"
)

func ParseRole(raw string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "client", "user", "player":
		return RoleClient, true
	case "coach", "trainer":
		return RoleCoach, true
	case "admin":
		return RoleAdmin, true
	default:
		return "", false
	}
}

// State is the part of a booking the lifecycle rules read and write.
type State struct {
	Status   Status
	Payment  PaymentStatus
	Reviewed bool
}

var displayLabels = map[Status]string{
	StatusPendingApproval: "Pending Approval",
	StatusApproved:        "Approved",
	StatusConfirmed:       "Confirmed",
	StatusCompleted:       "Completed",
	StatusCancelled:       "Cancelled",
	StatusRejected:        "Rejected",
	StatusNoShow:          "No Show",
}

func DisplayStatus(state State) string {
	label, ok := displayLabels[state.Status]
	if !ok {
		return "Unknown"
	}
	switch {
	case state.Status == StatusApproved && state.Payment == PaymentAwaiting:
		return "Awaiting Payment"
	case state.Status == StatusApproved && state.Payment == PaymentFailed:
		return "Payment Failed"
	case state.Status == StatusCompleted && state.Reviewed:
		return label + " (Reviewed)"
	}
	return label
}
