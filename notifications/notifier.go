package notifications

import (
	"fmt"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Kind string

const (
	KindBookingRequested Kind = "booking_requested"
	KindBookingApproved  Kind = "booking_approved"
	KindBookingRejected  Kind = "booking_rejected"
	KindBookingCancelled Kind = "booking_cancelled"
	KindPaymentReceived  Kind = "payment_received"
	KindPaymentStatus    Kind = "payment_status"
	KindSessionCompleted Kind = "session_completed"
	KindNoShow           Kind = "no_show"
	KindReviewPosted     Kind = "review_posted"
	KindSessionReminder  Kind = "session_reminder"
)

type Notification struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	BookingID string    `json:"bookingId,omitempty"`
	Message   string    `json:"message"`
	At        time.Time `json:"at"`
}

func New(kind Kind, bookingID, message string) Notification {
	return Notification{
		ID:        uuid.NewString(),
		Kind:      kind,
		BookingID: bookingID,
		Message:   message,
		At:        time.Now().UTC(),
	}
}

// Notifier delivers a notification to one user, e.g. over a live socket.
type Notifier interface {
	Notify(userID string, n Notification)
}

// Dispatcher logs each notification and fans it out to every sink.
type Dispatcher struct {
	sinks []Notifier
	log   zerolog.Logger
}

func NewDispatcher(log zerolog.Logger, sinks ...Notifier) *Dispatcher {
	return &Dispatcher{sinks: sinks, log: log}
}

func (d *Dispatcher) Notify(userID string, n Notification) {
	if userID == "" {
		return
	}
	d.log.Debug().Str("user_id", userID).Str("kind", string(n.Kind)).Str("booking_id", n.BookingID).Msg("notify")
	for _, s := range d.sinks {
		s.Notify(userID, n)
	}
}

// ForEvent builds the notification the other party of b receives after ev
// was applied. ok is false when nobody needs to hear about it.
func ForEvent(ev lifecycle.Event, b models.Booking, actor lifecycle.Role) (recipient string, n Notification, ok bool) {
	coach := b.Coach.DisplayName()
	client := b.Client.DisplayName()

	switch ev {
	case lifecycle.EventApprove:
		return b.ClientID(), New(KindBookingApproved, b.ID,
			fmt.Sprintf("%s approved your booking. Complete payment to confirm it.", coach)), true
	case lifecycle.EventReject:
		msg := fmt.Sprintf("%s declined your booking request.", coach)
		if b.RejectionReason != "" {
			msg = fmt.Sprintf("%s declined your booking request: %s", coach, b.RejectionReason)
		}
		return b.ClientID(), New(KindBookingRejected, b.ID, msg), true
	case lifecycle.EventCancel:
		if actor == lifecycle.RoleCoach {
			return b.ClientID(), New(KindBookingCancelled, b.ID,
				fmt.Sprintf("%s cancelled your booking.", coach)), true
		}
		return b.CoachID(), New(KindBookingCancelled, b.ID,
			fmt.Sprintf("%s cancelled their booking.", client)), true
	case lifecycle.EventPay:
		return b.CoachID(), New(KindPaymentReceived, b.ID,
			fmt.Sprintf("%s paid for their session. The booking is confirmed.", client)), true
	case lifecycle.EventComplete, lifecycle.EventSessionStarted:
		return b.ClientID(), New(KindSessionCompleted, b.ID,
			fmt.Sprintf("Your session with %s is complete. Leave a review!", coach)), true
	case lifecycle.EventNoShow:
		return b.ClientID(), New(KindNoShow, b.ID,
			fmt.Sprintf("%s marked your session as a no-show.", coach)), true
	case lifecycle.EventReview:
		return b.CoachID(), New(KindReviewPosted, b.ID,
			fmt.Sprintf("%s left a review for your session.", client)), true
	}
	return "", Notification{}, false
}

// Requested is sent to the coach when a client books one of their slots.
func Requested(b models.Booking) (string, Notification) {
	return b.CoachID(), New(KindBookingRequested, b.ID,
		fmt.Sprintf("New booking request from %s.", b.Client.DisplayName()))
}

// PaymentUpdate tells the payer how a watched payment settled.
func PaymentUpdate(bookingID string, status lifecycle.Normalized) Notification {
	var msg string
	switch status {
	case lifecycle.NormalizedPaid:
		msg = "Payment received. Your booking is confirmed."
	case lifecycle.NormalizedFailed:
		msg = "Payment failed."
	case lifecycle.NormalizedRefunded:
		msg = "Your payment was refunded."
	default:
		msg = "Payment is still processing."
	}
	return New(KindPaymentStatus, bookingID, msg)
}

// Reminder tells one participant that a confirmed session starts soon.
func Reminder(b models.Booking, start time.Time, with string) Notification {
	return New(KindSessionReminder, b.ID,
		fmt.Sprintf("Reminder: your session with %s starts at %s.", with, start.Format(time.Kitchen)))
}
