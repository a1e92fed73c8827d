package views

import (
	"fmt"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
)

type Tab string

const (
	TabUpcoming  Tab = "upcoming"
	TabPast      Tab = "past"
	TabCancelled Tab = "cancelled"
	TabAll       Tab = "all"
)

func ParseTab(raw string) (Tab, error) {
	switch Tab(raw) {
	case "":
		return TabAll, nil
	case TabUpcoming, TabPast, TabCancelled, TabAll:
		return Tab(raw), nil
	}
	return "", fmt.Errorf("unknown tab %q", raw)
}

// Tabs is a role's booking list split by timeframe. Cancelled holds cancelled
// and rejected bookings; every other row lands in exactly one of Upcoming or
// Past. Unresolvable dates count as upcoming.
type Tabs struct {
	Upcoming  []Row `json:"upcoming"`
	Past      []Row `json:"past"`
	Cancelled []Row `json:"cancelled"`
}

// Only returns the rows of a single tab. It reports false for TabAll, which
// role views serve as the full Tabs value.
func (t Tabs) Only(tab Tab) ([]Row, bool) {
	switch tab {
	case TabUpcoming:
		return t.Upcoming, true
	case TabPast:
		return t.Past, true
	case TabCancelled:
		return t.Cancelled, true
	}
	return nil, false
}

func partition(rows []Row) Tabs {
	tabs := Tabs{Upcoming: []Row{}, Past: []Row{}, Cancelled: []Row{}}
	for _, row := range rows {
		switch {
		case row.closed():
			tabs.Cancelled = append(tabs.Cancelled, row)
		case row.past():
			tabs.Past = append(tabs.Past, row)
		default:
			tabs.Upcoming = append(tabs.Upcoming, row)
		}
	}
	sortAscending(tabs.Upcoming)
	sortDescending(tabs.Past)
	sortDescending(tabs.Cancelled)
	return tabs
}

// ClientView renders a client's own bookings with their legal actions.
func ClientView(bookings []models.Booking, viewer lifecycle.Viewer, r lifecycle.Resolver, now time.Time) Tabs {
	return partition(buildRows(bookings, viewer, r, now))
}

// CoachBookings renders a coach's sessions. Callers auto-complete due
// bookings before building it.
func CoachBookings(bookings []models.Booking, viewer lifecycle.Viewer, r lifecycle.Resolver, now time.Time) Tabs {
	return partition(buildRows(bookings, viewer, r, now))
}

// CoachRequests lists bookings awaiting the coach's decision, soonest first.
func CoachRequests(bookings []models.Booking, viewer lifecycle.Viewer, r lifecycle.Resolver, now time.Time) []Row {
	rows := []Row{}
	for _, row := range buildRows(bookings, viewer, r, now) {
		if row.known && row.status == lifecycle.StatusPendingApproval {
			rows = append(rows, row)
		}
	}
	sortAscending(rows)
	return rows
}

// AdminTabs is the moderation overview. Rows carry no lifecycle actions.
type AdminTabs struct {
	Tabs
	All []Row `json:"all"`
}

func AdminView(bookings []models.Booking, r lifecycle.Resolver, now time.Time) AdminTabs {
	admin := lifecycle.Viewer{Role: lifecycle.RoleAdmin}
	rows := buildRows(bookings, admin, r, now)

	all := make([]Row, len(rows))
	copy(all, rows)
	sortDescending(all)

	return AdminTabs{Tabs: partition(rows), All: all}
}

// Select returns one tab's rows.
func (a AdminTabs) Select(tab Tab) []Row {
	switch tab {
	case TabUpcoming:
		return a.Upcoming
	case TabPast:
		return a.Past
	case TabCancelled:
		return a.Cancelled
	default:
		return a.All
	}
}
