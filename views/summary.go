package views

import "github.com/anjiri1684/cricket_coach/lifecycle"

// Summary is the admin dashboard headline: counts per tab plus money that
// has actually settled.
type Summary struct {
	Total           int     `json:"total"`
	Upcoming        int     `json:"upcoming"`
	Past            int     `json:"past"`
	Cancelled       int     `json:"cancelled"`
	PendingApproval int     `json:"pendingApproval"`
	Revenue         float64 `json:"revenue"`
	Refunded        float64 `json:"refunded"`
}

func Summarize(a AdminTabs) Summary {
	sum := Summary{
		Total:     len(a.All),
		Upcoming:  len(a.Upcoming),
		Past:      len(a.Past),
		Cancelled: len(a.Cancelled),
	}
	for _, row := range a.All {
		if row.known && row.status == lifecycle.StatusPendingApproval {
			sum.PendingApproval++
		}
		switch row.Payment {
		case lifecycle.NormalizedPaid:
			sum.Revenue += row.Amount
		case lifecycle.NormalizedRefunded:
			sum.Refunded += row.Amount
		}
	}
	return sum
}
