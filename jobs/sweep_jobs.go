package jobs

import (
	"context"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Completer moves a coach's due sessions to completed and reports how many.
type Completer interface {
	AutoComplete(ctx context.Context, s *session.Session) (int, error)
}

// AutoCompleteSessions runs the completion pass for every signed-in coach.
// Coaches without a live session are completed the next time they load
// their bookings.
func AutoCompleteSessions(ctx context.Context, sessions *session.Provider, completer Completer, log zerolog.Logger) int {
	log.Debug().Msg("running job: auto-complete sessions")

	total := 0
	sessions.Each(lifecycle.RoleCoach, func(s *session.Session) {
		if ctx.Err() != nil {
			return
		}
		n, err := completer.AutoComplete(ctx, s)
		if err != nil {
			log.Warn().Err(err).Str("user_id", s.Identity().UserID).Msg("auto-complete failed")
			return
		}
		total += n
	})

	if total > 0 {
		log.Info().Int("completed", total).Msg("auto-completed bookings")
	}
	return total
}

// SweepSessions drops expired and idle sessions.
func SweepSessions(sessions *session.Provider, now time.Time, log zerolog.Logger) int {
	removed := sessions.Sweep(now)
	if removed > 0 {
		log.Info().Int("removed", removed).Msg("swept sessions")
	}
	return removed
}

// Schedule registers fn under a cron spec. An empty spec leaves the job off.
func Schedule(c *cron.Cron, spec, name string, fn func(), log zerolog.Logger) error {
	if spec == "" {
		log.Info().Str("job", name).Msg("job disabled")
		return nil
	}
	if _, err := c.AddFunc(spec, fn); err != nil {
		return err
	}
	log.Info().Str("job", name).Str("schedule", spec).Msg("job scheduled")
	return nil
}

// Interval is the gap between the next two runs of a cron spec after from.
func Interval(spec string, from time.Time) (time.Duration, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return 0, err
	}
	next := sched.Next(from)
	return sched.Next(next).Sub(next), nil
}
