package jobs

import (
	"context"
	"errors"
	"time"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/rs/zerolog"
)

var ErrPollTimeout = errors.New("payment status still pending")

type PaymentFetcher interface {
	GetPayment(ctx context.Context, token, bookingID string) (*models.Payment, error)
}

// Poller re-reads a booking's payment until it settles. It never outlives the
// context it is given; callers bind that context to the payment view.
type Poller struct {
	fetch    PaymentFetcher
	interval time.Duration
	timeout  time.Duration
	log      zerolog.Logger
}

func NewPoller(fetch PaymentFetcher, interval, timeout time.Duration, log zerolog.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Poller{fetch: fetch, interval: interval, timeout: timeout, log: log}
}

// Watch returns the first settled status. Missing payments and transient API
// failures keep it polling; a 401 or the context ending stops it.
func (p *Poller) Watch(ctx context.Context, token, bookingID string) (lifecycle.Normalized, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		status, err := p.check(ctx, token, bookingID)
		switch {
		case err != nil:
			return lifecycle.NormalizedPending, err
		case status.Terminal():
			p.log.Debug().Str("booking_id", bookingID).Str("status", string(status)).Msg("payment settled")
			return status, nil
		}

		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return lifecycle.NormalizedPending, ErrPollTimeout
			}
			return lifecycle.NormalizedPending, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Poller) check(ctx context.Context, token, bookingID string) (lifecycle.Normalized, error) {
	payment, err := p.fetch.GetPayment(ctx, token, bookingID)
	switch {
	case err == nil:
		return lifecycle.NormalizePayment(payment.Status), nil
	case errors.Is(err, apiclient.ErrUnauthorized):
		return lifecycle.NormalizedPending, err
	case ctx.Err() != nil:
		// The select in Watch reports why the context ended.
		return lifecycle.NormalizedPending, nil
	case apiclient.IsNotFound(err), errors.Is(err, apiclient.ErrUnavailable):
		p.log.Debug().Err(err).Str("booking_id", bookingID).Msg("payment not readable yet")
		return lifecycle.NormalizedPending, nil
	default:
		return lifecycle.NormalizedPending, err
	}
}
