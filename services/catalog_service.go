package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/anjiri1684/cricket_coach/apiclient"
	"github.com/anjiri1684/cricket_coach/cache"
	"github.com/anjiri1684/cricket_coach/models"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

type catalogAPI interface {
	ListCoaches(ctx context.Context, query url.Values) ([]models.Coach, error)
	GetCoach(ctx context.Context, id string) (*models.Coach, error)
	ListCoachReviews(ctx context.Context, coachID string) ([]models.Review, error)
}

// CatalogService serves the public coach directory through a short-lived
// cache. Concurrent misses for one key share a single upstream call.
type CatalogService struct {
	api   catalogAPI
	store cache.Store
	ttl   time.Duration
	group singleflight.Group
	log   zerolog.Logger
}

func NewCatalogService(api catalogAPI, store cache.Store, ttl time.Duration, log zerolog.Logger) *CatalogService {
	return &CatalogService{api: api, store: store, ttl: ttl, log: log}
}

func (svc *CatalogService) Coaches(ctx context.Context, query url.Values) ([]models.Coach, error) {
	key := "coaches:" + query.Encode()
	var coaches []models.Coach
	err := svc.cached(ctx, key, &coaches, func() (any, error) {
		return svc.api.ListCoaches(ctx, query)
	})
	return coaches, err
}

func (svc *CatalogService) Coach(ctx context.Context, id string) (*models.Coach, error) {
	var coach models.Coach
	err := svc.cached(ctx, "coach:"+id, &coach, func() (any, error) {
		c, err := svc.api.GetCoach(ctx, id)
		if apiclient.IsNotFound(err) {
			return nil, fmt.Errorf("coach %s: %w", id, ErrNotFound)
		}
		return c, err
	})
	if err != nil {
		return nil, err
	}
	return &coach, nil
}

func (svc *CatalogService) Reviews(ctx context.Context, coachID string) ([]models.Review, error) {
	var reviews []models.Review
	err := svc.cached(ctx, "reviews:"+coachID, &reviews, func() (any, error) {
		return svc.api.ListCoachReviews(ctx, coachID)
	})
	return reviews, err
}

// Invalidate drops what is cached for one coach along with the unfiltered
// directory listing.
func (svc *CatalogService) Invalidate(ctx context.Context, coachID string) {
	keys := []string{"coaches:"}
	if coachID != "" {
		keys = append(keys, "coach:"+coachID, "reviews:"+coachID)
	}
	if err := svc.store.Delete(ctx, keys...); err != nil {
		svc.log.Warn().Err(err).Msg("invalidate catalog cache")
	}
}

// cached fills dest from the store or from fetch. Store failures degrade to
// a direct fetch.
func (svc *CatalogService) cached(ctx context.Context, key string, dest any, fetch func() (any, error)) error {
	if hit, err := svc.store.Get(ctx, key, dest); err != nil {
		svc.log.Warn().Err(err).Str("key", key).Msg("catalog cache read")
	} else if hit {
		return nil
	}

	v, err, _ := svc.group.Do(key, func() (any, error) {
		value, err := fetch()
		if err != nil {
			return nil, err
		}
		if err := svc.store.Set(ctx, key, value, svc.ttl); err != nil {
			svc.log.Warn().Err(err).Str("key", key).Msg("catalog cache write")
		}
		return value, nil
	})
	if err != nil {
		return err
	}
	return copyInto(v, dest)
}

// copyInto hands a shared result to one caller through the same encoding the
// cache uses, so hits and misses decode identically.
func copyInto(v, dest any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, dest)
}
