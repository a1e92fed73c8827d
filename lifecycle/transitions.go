package lifecycle

import (
	"errors"
	"fmt"
)

type Event string

const (
	EventApprove        Event = "approve"
	EventReject         Event = "reject"
	EventCancel         Event = "cancel"
	EventPay            Event = "pay"
	EventSessionStarted Event = "session_started"
	EventComplete       Event = "complete"
	EventNoShow         Event = "no_show"
	EventReview         Event = "review"
)

type SlotEffect string

const (
	SlotKeep SlotEffect = "keep"
	SlotFree SlotEffect = "free"
)

var (
	ErrActionUnavailable = errors.New("action unavailable")
	ErrForbidden         = errors.New("forbidden")
)

// Transition is one allowed edge of the booking state machine.
type Transition struct {
	From    Status
	Event   Event
	To      Status
	Actors  []Role
	Payment PaymentStatus
	Slot    SlotEffect
	Review  bool
	// Requires is checked against the current state before the edge applies.
	Requires func(State) bool
}

func (t Transition) allows(actor Role) bool {
	for _, r := range t.Actors {
		if r == actor {
			return true
		}
	}
	return false
}

var transitionsTable = []Transition{
	{From: StatusPendingApproval, Event: EventApprove, To: StatusApproved, Actors: []Role{RoleCoach}, Payment: PaymentAwaiting, Slot: SlotKeep},
	{From: StatusPendingApproval, Event: EventReject, To: StatusRejected, Actors: []Role{RoleCoach}, Slot: SlotFree},
	{From: StatusPendingApproval, Event: EventCancel, To: StatusCancelled, Actors: []Role{RoleClient, RoleCoach}, Slot: SlotFree},

	{From: StatusApproved, Event: EventPay, To: StatusConfirmed, Actors: []Role{RoleClient}, Payment: PaymentPaid, Slot: SlotKeep,
		Requires: func(s State) bool { return s.Payment == PaymentAwaiting }},
	{From: StatusApproved, Event: EventCancel, To: StatusCancelled, Actors: []Role{RoleClient}, Slot: SlotFree},

	{From: StatusConfirmed, Event: EventSessionStarted, To: StatusCompleted, Actors: []Role{RoleSystem}, Slot: SlotKeep,
		Requires: func(s State) bool { return s.Payment == PaymentPaid }},
	{From: StatusConfirmed, Event: EventComplete, To: StatusCompleted, Actors: []Role{RoleCoach}, Slot: SlotKeep},
	{From: StatusConfirmed, Event: EventNoShow, To: StatusNoShow, Actors: []Role{RoleCoach}, Slot: SlotKeep},

	{From: StatusCompleted, Event: EventReview, To: StatusCompleted, Actors: []Role{RoleClient}, Slot: SlotKeep, Review: true,
		Requires: func(s State) bool { return s.Payment == PaymentPaid && !s.Reviewed }},
}

// userEvents lists the events a person can trigger from a booking row, in display order.
var userEvents = []Event{
	EventApprove,
	EventReject,
	EventPay,
	EventComplete,
	EventNoShow,
	EventReview,
	EventCancel,
}

func Lookup(from Status, ev Event) (Transition, bool) {
	for _, tr := range transitionsTable {
		if tr.From == from && tr.Event == ev {
			return tr, true
		}
	}
	return Transition{}, false
}

// Apply returns the state reached by ev. The input state is left untouched.
func Apply(state State, ev Event, actor Role) (State, Transition, error) {
	tr, ok := Lookup(state.Status, ev)
	if !ok {
		return state, Transition{}, fmt.Errorf("%w: %s from %s", ErrActionUnavailable, ev, state.Status)
	}
	if !tr.allows(actor) {
		return state, Transition{}, fmt.Errorf("%w: %s cannot %s", ErrActionUnavailable, actor, ev)
	}
	if tr.Requires != nil && !tr.Requires(state) {
		return state, Transition{}, fmt.Errorf("%w: %s not allowed with payment %s", ErrActionUnavailable, ev, state.Payment)
	}

	next := state
	next.Status = tr.To
	if tr.Payment != "" {
		next.Payment = tr.Payment
	}
	if tr.Review {
		next.Reviewed = true
	}
	return next, tr, nil
}

func Can(state State, role Role, ev Event) bool {
	_, _, err := Apply(state, ev, role)
	return err == nil
}

// Actions lists what role may do next. Admins act through management endpoints
// and get no row actions.
func Actions(state State, role Role) []Event {
	if role == RoleAdmin || role == RoleSystem {
		return nil
	}
	var out []Event
	for _, ev := range userEvents {
		if Can(state, role, ev) {
			out = append(out, ev)
		}
	}
	return out
}

type AdminOp string

const (
	AdminForceRefund AdminOp = "force_refund"
	AdminDelete      AdminOp = "delete"
)

func AdminCan(state State, op AdminOp) bool {
	switch op {
	case AdminForceRefund:
		return NormalizePayment(string(state.Payment)) == NormalizedPaid
	case AdminDelete:
		return true
	default:
		return false
	}
}

var reachablePayments = map[Status][]PaymentStatus{
	StatusPendingApproval: {PaymentAwaiting},
	StatusApproved:        {PaymentAwaiting, PaymentFailed},
	StatusConfirmed:       {PaymentPaid},
	StatusCompleted:       {PaymentPaid, PaymentRefundRequested, PaymentRefunded},
	StatusCancelled:       {PaymentAwaiting, PaymentFailed, PaymentRefundRequested, PaymentRefunded},
	StatusRejected:        {PaymentAwaiting},
	StatusNoShow:          {PaymentPaid, PaymentRefundRequested, PaymentRefunded},
}

var ErrInconsistent = errors.New("inconsistent booking state")

// CheckConsistency rejects (status, payment) pairs the transition table cannot produce.
func CheckConsistency(state State) error {
	allowed, ok := reachablePayments[state.Status]
	if !ok {
		return fmt.Errorf("%w: %w", ErrInconsistent, ErrUnknownStatus)
	}
	for _, p := range allowed {
		if p == state.Payment {
			if state.Reviewed && state.Status != StatusCompleted {
				return fmt.Errorf("%w: reviewed %s booking", ErrInconsistent, state.Status)
			}
			return nil
		}
	}
	return fmt.Errorf("%w: %s with payment %s", ErrInconsistent, state.Status, state.Payment)
}

// RefundRequestable reports whether a client may ask for their money back.
// Only settled sessions qualify; a confirmed session cannot be cancelled.
func RefundRequestable(state State, role Role) bool {
	if role != RoleClient || state.Payment != PaymentPaid {
		return false
	}
	return state.Status == StatusCompleted || state.Status == StatusNoShow
}
