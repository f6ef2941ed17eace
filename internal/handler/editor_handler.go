package handler

import (
	"os"

	"ai-writeassist-be/internal/pkg/logger"
	"ai-writeassist-be/internal/service"
	internalWS "ai-writeassist-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// EditorHandler upgrades editor connections and binds each one to a
// suggestion session.
type EditorHandler struct {
	sessions *service.EditorSessionService
	hub      *internalWS.Hub
	logger   logger.ILogger
}

func NewEditorHandler(sessions *service.EditorSessionService, hub *internalWS.Hub, log logger.ILogger) *EditorHandler {
	return &EditorHandler{
		sessions: sessions,
		hub:      hub,
		logger:   log,
	}
}

func (h *EditorHandler) RegisterRoutes(r fiber.Router) {
	g := r.Group("/editor/v1")
	g.Get("/ws/:document_id", h.ServeWs)
}

// ServeWs handles websocket requests from the editor client.
func (h *EditorHandler) ServeWs(c *fiber.Ctx) error {
	// Browsers cannot set headers on websocket handshakes, so the token comes
	// via query param first, Authorization header second.
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
		h.logger.Warn("EditorHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
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

	documentID, err := uuid.Parse(c.Params("document_id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid document ID"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("EditorHandler", "Starting editor session", map[string]interface{}{"user_id": userID, "document_id": documentID})
			internalWS.ServeWs(h.hub, conn, userID, documentID, h.sessions)
			h.logger.Info("EditorHandler", "Editor session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
