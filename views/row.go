package views

import (
	"sort"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
)

// Row is one rendered booking. Rows never fail to build: a malformed record
// shows "N/A" for its time and "Unknown" for an unrecognised status.
type Row struct {
	ID              string               `json:"id"`
	ClientName      string               `json:"clientName"`
	CoachName       string               `json:"coachName"`
	Session         string               `json:"session"`
	Start           *time.Time           `json:"start,omitempty"`
	Timeframe       lifecycle.Timeframe  `json:"timeframe"`
	Status          string               `json:"status"`
	DisplayStatus   string               `json:"displayStatus"`
	Payment         lifecycle.Normalized `json:"payment"`
	PaymentStatus   string               `json:"paymentStatus"`
	Amount          float64              `json:"amount"`
	Reviewed        bool                 `json:"reviewed"`
	Notes           string               `json:"notes,omitempty"`
	RejectionReason string               `json:"rejectionReason,omitempty"`
	Actions         []lifecycle.Event    `json:"actions"`

	status lifecycle.Status
	known  bool
}

func NewRow(b models.Booking, viewer lifecycle.Viewer, r lifecycle.Resolver, now time.Time) Row {
	start, ok := r.Resolve(b)
	row := Row{
		ID:              b.ID,
		ClientName:      b.Client.DisplayName(),
		CoachName:       b.Coach.DisplayName(),
		Session:         lifecycle.FormatSession(start, ok),
		Timeframe:       lifecycle.Classify(start, ok, now),
		Status:          b.Status,
		DisplayStatus:   "Unknown",
		Payment:         lifecycle.NormalizePayment(b.PaymentStatus),
		PaymentStatus:   b.PaymentStatus,
		Amount:          b.PaymentAmount,
		Reviewed:        b.Reviewed,
		Notes:           b.Notes,
		RejectionReason: b.RejectionReason,
		Actions:         []lifecycle.Event{},
	}
	if ok {
		row.Start = &start
	}
	if state, err := lifecycle.StateOf(b); err == nil {
		row.status = state.Status
		row.known = true
		row.DisplayStatus = lifecycle.DisplayStatus(state)
		if actions := lifecycle.RowActions(b, viewer); actions != nil {
			row.Actions = actions
		}
	}
	return row
}

// closed rows belong to the cancelled tab regardless of their date.
func (r Row) closed() bool {
	return r.known && r.status.Closed()
}

func (r Row) past() bool {
	return r.Timeframe == lifecycle.Past
}

func buildRows(bookings []models.Booking, viewer lifecycle.Viewer, r lifecycle.Resolver, now time.Time) []Row {
	rows := make([]Row, 0, len(bookings))
	for _, b := range bookings {
		if !lifecycle.Visible(b, viewer) {
			continue
		}
		rows = append(rows, NewRow(b, viewer, r, now))
	}
	return rows
}

// sortAscending orders by session start, unresolvable rows last.
func sortAscending(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return lessStart(rows[i], rows[j], false)
	})
}

func sortDescending(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		return lessStart(rows[i], rows[j], true)
	})
}

func lessStart(a, b Row, desc bool) bool {
	switch {
	case a.Start == nil && b.Start == nil:
		return false
	case a.Start == nil:
		return false
	case b.Start == nil:
		return true
	case desc:
		return a.Start.After(*b.Start)
	default:
		return a.Start.Before(*b.Start)
	}
}
