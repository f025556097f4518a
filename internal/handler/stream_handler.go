package handler

import (
	"os"

	"studytrack-be/internal/pkg/logger"
	internalWS "studytrack-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// StreamHandler upgrades authenticated clients to the live push channel.
type StreamHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewStreamHandler(hub *internalWS.Hub, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs handles websocket requests from the peer.
func (h *StreamHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on a websocket handshake, so the token may
	// arrive as a query param instead of an Authorization header.
	tokenStr := c.Query("token")

	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("StreamHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token claims"})
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid user ID format in token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(c *websocket.Conn) {
			h.logger.Info("StreamHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, c, userID)
			h.logger.Info("StreamHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the live stream route.
func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs)
}
