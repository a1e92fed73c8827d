package handlers

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/anjiri1684/cricket_coach/models"
	"github.com/anjiri1684/cricket_coach/services"
	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/views"
	"github.com/gofiber/fiber/v2"
)

type adminService interface {
	Bookings(ctx context.Context, s *session.Session, tab views.Tab) ([]views.Row, error)
	Summary(ctx context.Context, s *session.Session) (views.Summary, error)
	ForceRefund(ctx context.Context, s *session.Session, bookingID string) error
	DeleteBooking(ctx context.Context, s *session.Session, bookingID string) error
	Users(ctx context.Context, s *session.Session) ([]models.User, error)
	SetUserActive(ctx context.Context, s *session.Session, userID string, active bool) error
	DeleteUser(ctx context.Context, s *session.Session, userID string) error
	Coaches(ctx context.Context, s *session.Session) ([]models.Coach, error)
	ApproveCoach(ctx context.Context, s *session.Session, coachID string) error
	DeleteCoach(ctx context.Context, s *session.Session, coachID string) error
	Reviews(ctx context.Context, s *session.Session) ([]models.Review, error)
	DeleteReview(ctx context.Context, s *session.Session, reviewID string) error
}

type AdminHandler struct {
	service adminService
	now     func() time.Time
}

func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{service: service, now: time.Now}
}

type userStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

func (h *AdminHandler) Bookings(c *fiber.Ctx) error {
	tab, err := views.ParseTab(c.Query("tab"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tab must be upcoming, past, cancelled or all"})
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	rows, err := h.service.Bookings(c.Context(), s, tab)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"tab": tab, "bookings": rows})
}

func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	summary, err := h.service.Summary(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(summary)
}

// ExportBookings streams the selected tab as CSV.
func (h *AdminHandler) ExportBookings(c *fiber.Ctx) error {
	tab, err := views.ParseTab(c.Query("tab"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "tab must be upcoming, past, cancelled or all"})
	}
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	rows, err := h.service.Bookings(c.Context(), s, tab)
	if err != nil {
		return mapError(c, err)
	}

	b := new(bytes.Buffer)
	w := csv.NewWriter(b)
	headers := []string{"Booking ID", "Session", "Client", "Coach", "Status", "Payment", "Amount"}
	if err := w.Write(headers); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV header"})
	}
	for _, row := range rows {
		record := []string{
			row.ID,
			row.Session,
			row.ClientName,
			row.CoachName,
			row.DisplayStatus,
			string(row.Payment),
			fmt.Sprintf("%.2f", row.Amount),
		}
		if err := w.Write(record); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to write CSV row"})
		}
	}
	w.Flush()

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=\"bookings_%s_%s.csv\"", tab, h.now().Format("2006-01-02")))
	return c.Send(b.Bytes())
}

func (h *AdminHandler) ForceRefund(c *fiber.Ctx) error {
	return h.act(c, "Refund issued", h.service.ForceRefund)
}

func (h *AdminHandler) DeleteBooking(c *fiber.Ctx) error {
	return h.act(c, "Booking deleted", h.service.DeleteBooking)
}

func (h *AdminHandler) Users(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	users, err := h.service.Users(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"users": users})
}

func (h *AdminHandler) SetUserActive(c *fiber.Ctx) error {
	var req userStatusRequest
	if ok, err := bindJSON(c, &req); !ok {
		return err
	}
	return h.act(c, "User status updated", func(ctx context.Context, s *session.Session, id string) error {
		return h.service.SetUserActive(ctx, s, id, *req.IsActive)
	})
}

func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	return h.act(c, "User deleted", h.service.DeleteUser)
}

func (h *AdminHandler) Coaches(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	coaches, err := h.service.Coaches(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"coaches": coaches})
}

func (h *AdminHandler) ApproveCoach(c *fiber.Ctx) error {
	return h.act(c, "Coach approved", h.service.ApproveCoach)
}

func (h *AdminHandler) DeleteCoach(c *fiber.Ctx) error {
	return h.act(c, "Coach deleted", h.service.DeleteCoach)
}

func (h *AdminHandler) Reviews(c *fiber.Ctx) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	reviews, err := h.service.Reviews(c.Context(), s)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"reviews": reviews})
}

func (h *AdminHandler) DeleteReview(c *fiber.Ctx) error {
	return h.act(c, "Review deleted", h.service.DeleteReview)
}

func (h *AdminHandler) act(c *fiber.Ctx, msg string, fn func(context.Context, *session.Session, string) error) error {
	s, err := currentSession(c)
	if err != nil {
		return mapError(c, err)
	}
	if err := fn(c.Context(), s, c.Params("id")); err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{"message": msg})
}
