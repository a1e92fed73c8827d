package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/anjiri1684/cricket_coach/models"
)

func (c *Client) ListCoaches(ctx context.Context, query url.Values) ([]models.Coach, error) {
	path := "/coaches"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}
	var coaches []models.Coach
	if err := c.do(ctx, "", http.MethodGet, path, nil, &coaches, "coaches"); err != nil {
		return nil, err
	}
	return coaches, nil
}

func (c *Client) GetCoach(ctx context.Context, id string) (*models.Coach, error) {
	var coach models.Coach
	if err := c.do(ctx, "", http.MethodGet, "/coaches/"+url.PathEscape(id), nil, &coach, "coach"); err != nil {
		return nil, err
	}
	return &coach, nil
}

func (c *Client) GetAvailability(ctx context.Context, token, coachID string) ([]models.TimeSlot, error) {
	var slots []models.TimeSlot
	if err := c.do(ctx, token, http.MethodGet, "/availability/"+url.PathEscape(coachID), nil, &slots, "slots", "availability"); err != nil {
		return nil, err
	}
	return slots, nil
}

func (c *Client) UpdateAvailability(ctx context.Context, token, coachID string, slots []models.TimeSlot) ([]models.TimeSlot, error) {
	var updated []models.TimeSlot
	body := map[string]any{"slots": slots}
	if err := c.do(ctx, token, http.MethodPut, "/availability/"+url.PathEscape(coachID), body, &updated, "slots", "availability"); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Client) CreateReview(ctx context.Context, token string, input models.CreateReviewInput) (*models.Review, error) {
	var review models.Review
	if err := c.do(ctx, token, http.MethodPost, "/reviews", input, &review, "review"); err != nil {
		return nil, err
	}
	return &review, nil
}

func (c *Client) ListCoachReviews(ctx context.Context, coachID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.do(ctx, "", http.MethodGet, "/reviews/coach/"+url.PathEscape(coachID), nil, &reviews, "reviews"); err != nil {
		return nil, err
	}
	return reviews, nil
}
