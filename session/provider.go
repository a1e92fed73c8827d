package session

import (
	"sync"
	"time"

	"github.com/anjiri1684/cricket_coach/lifecycle"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/rs/zerolog"
)

// Provider owns every live session, keyed by bearer token. It is created once
// at startup and handed to whatever needs the current actor.
type Provider struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	idle     time.Duration
	log      zerolog.Logger
	now      func() time.Time
}

func NewProvider(idle time.Duration, log zerolog.Logger) *Provider {
	return &Provider{
		sessions: make(map[string]*Session),
		idle:     idle,
		log:      log,
		now:      time.Now,
	}
}

// Init registers the session created by a successful login. The profile's
// id and role win over the token claims when both are present.
func (p *Provider) Init(token string, profile *models.User) (*Session, error) {
	identity, err := ParseClaims(token)
	if err != nil && profile == nil {
		return nil, err
	}
	if profile != nil {
		if profile.ID != "" {
			identity.UserID = profile.ID
		}
		if role, ok := lifecycle.ParseRole(profile.Role); ok {
			identity.Role = role
		}
		if profile.Name != "" {
			identity.Name = profile.Name
		}
	}
	if identity.UserID == "" || identity.Role == "" {
		return nil, ErrInvalidToken
	}

	s := newSession(token, identity, p.now())
	s.SetProfile(profile)

	p.mu.Lock()
	if prev, ok := p.sessions[token]; ok {
		prev.close()
	}
	p.sessions[s.token] = s
	p.mu.Unlock()

	p.log.Info().Str("user_id", identity.UserID).Str("role", string(identity.Role)).Msg("session started")
	return s, nil
}

// Resolve returns the session for token, creating it from the token claims
// when this process has not seen it yet.
func (p *Provider) Resolve(token string) (*Session, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	now := p.now()

	p.mu.RLock()
	s, ok := p.sessions[token]
	p.mu.RUnlock()
	if ok {
		if expired(s.identity, now) {
			p.Teardown(token)
			return nil, ErrExpired
		}
		s.touch(now)
		return s, nil
	}

	identity, err := ParseClaims(token)
	if err != nil {
		return nil, err
	}
	if expired(identity, now) {
		return nil, ErrExpired
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if s, ok := p.sessions[token]; ok {
		return s, nil
	}
	s = newSession(token, identity, now)
	p.sessions[s.token] = s
	return s, nil
}

// Teardown ends a session: its tasks are cancelled and its lists dropped.
func (p *Provider) Teardown(token string) bool {
	p.mu.Lock()
	s, ok := p.sessions[token]
	delete(p.sessions, token)
	p.mu.Unlock()
	if !ok {
		return false
	}
	s.close()
	p.log.Info().Str("user_id", s.identity.UserID).Msg("session ended")
	return true
}

// Sweep tears down sessions whose token expired or that sat idle too long.
func (p *Provider) Sweep(now time.Time) int {
	var stale []string
	p.mu.RLock()
	for token, s := range p.sessions {
		if expired(s.identity, now) || (p.idle > 0 && s.idleSince(now) > p.idle) {
			stale = append(stale, token)
		}
	}
	p.mu.RUnlock()

	removed := 0
	for _, token := range stale {
		if p.Teardown(token) {
			removed++
		}
	}
	return removed
}

// Each calls fn for every live session of role. An empty role matches all.
func (p *Provider) Each(role lifecycle.Role, fn func(*Session)) {
	p.mu.RLock()
	matched := make([]*Session, 0, len(p.sessions))
	for _, s := range p.sessions {
		if role == "" || s.identity.Role == role {
			matched = append(matched, s)
		}
	}
	p.mu.RUnlock()

	for _, s := range matched {
		fn(s)
	}
}

func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.sessions)
}

func expired(identity Identity, now time.Time) bool {
	return !identity.ExpiresAt.IsZero() && now.After(identity.ExpiresAt)
}
