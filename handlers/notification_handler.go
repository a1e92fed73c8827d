package handlers

import (
	"time"

	"github.com/anjiri1684/cricket_coach/session"
	"github.com/anjiri1684/cricket_coach/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

const authWait = 10 * time.Second

type NotificationHandler struct {
	hub      *websocket.Hub
	sessions *session.Provider
	log      zerolog.Logger
}

func NewNotificationHandler(hub *websocket.Hub, sessions *session.Provider, log zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{hub: hub, sessions: sessions, log: log}
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Upgrade rejects plain HTTP requests to the socket endpoint.
func (h *NotificationHandler) Upgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

// Stream pushes the user's notifications. A session attached during the
// upgrade is used as is; otherwise the first frame must be
// {"type":"auth","token":"..."}.
func (h *NotificationHandler) Stream(conn *websocketcontrib.Conn) {
	s, _ := conn.Locals("session").(*session.Session)
	if s == nil {
		var err error
		if s, err = h.authenticate(conn); err != nil {
			h.log.Debug().Err(err).Msg("socket auth failed")
			_ = conn.WriteJSON(fiber.Map{"error": "Invalid or missing auth message", "redirect": "/login"})
			_ = conn.Close()
			return
		}
	}

	client := websocket.NewClient(h.hub, conn, s.Identity().UserID)
	if !h.hub.Register(client) {
		_ = conn.Close()
		return
	}
	go client.WritePump()
	client.ReadPump()
}

func (h *NotificationHandler) authenticate(conn *websocketcontrib.Conn) (*session.Session, error) {
	_ = conn.SetReadDeadline(time.Now().Add(authWait))
	var msg authMessage
	if err := conn.ReadJSON(&msg); err != nil {
		return nil, err
	}
	if msg.Type != "auth" {
		return nil, session.ErrNoToken
	}
	return h.sessions.Resolve(msg.Token)
}
