package apiclient

import (
	"context"
	"net/http"
	"net/url"

	"github.com/anjiri1684/cricket_coach/models"
)

func (c *Client) ListUsers(ctx context.Context, token string) ([]models.User, error) {
	var users []models.User
	if err := c.do(ctx, token, http.MethodGet, "/admin/users", nil, &users, "users"); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) SetUserActive(ctx context.Context, token, userID string, active bool) error {
	body := map[string]bool{"isActive": active}
	return c.do(ctx, token, http.MethodPut, "/admin/users/"+url.PathEscape(userID)+"/status", body, nil)
}

func (c *Client) DeleteUser(ctx context.Context, token, userID string) error {
	return c.do(ctx, token, http.MethodDelete, "/admin/users/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) ListAdminCoaches(ctx context.Context, token string) ([]models.Coach, error) {
	var coaches []models.Coach
	if err := c.do(ctx, token, http.MethodGet, "/admin/coaches", nil, &coaches, "coaches"); err != nil {
		return nil, err
	}
	return coaches, nil
}

func (c *Client) ApproveCoach(ctx context.Context, token, coachID string) error {
	return c.do(ctx, token, http.MethodPut, "/admin/coaches/"+url.PathEscape(coachID)+"/approve", nil, nil)
}

func (c *Client) DeleteCoach(ctx context.Context, token, coachID string) error {
	return c.do(ctx, token, http.MethodDelete, "/admin/coaches/"+url.PathEscape(coachID), nil, nil)
}

func (c *Client) ListReviews(ctx context.Context, token string) ([]models.Review, error) {
	var reviews []models.Review
	if err := c.do(ctx, token, http.MethodGet, "/admin/reviews", nil, &reviews, "reviews"); err != nil {
		return nil, err
	}
	return reviews, nil
}

func (c *Client) DeleteReview(ctx context.Context, token, reviewID string) error {
	return c.do(ctx, token, http.MethodDelete, "/admin/reviews/"+url.PathEscape(reviewID), nil, nil)
}

func (c *Client) ForceRefund(ctx context.Context, token, bookingID string) error {
	return c.do(ctx, token, http.MethodPost, "/admin/payments/"+url.PathEscape(bookingID)+"/refund", nil, nil)
}

func (c *Client) DeleteBooking(ctx context.Context, token, bookingID string) error {
	return c.do(ctx, token, http.MethodDelete, "/admin/bookings/"+url.PathEscape(bookingID), nil, nil)
}
