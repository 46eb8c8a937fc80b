package notification

import (
	"log"
	"net/http"
	"time"

	"gymclass/internal/pkg/jwt"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,

	// Dev setting; production deployments put an origin check here.
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// StreamHandler upgrades GET /ws/notifications?token=JWT into a live
// push channel. Auth runs over the query parameter because browsers
// cannot set headers on websocket dials.
type StreamHandler struct {
	hub        *Hub
	jwtService *jwt.Service
}

func NewStreamHandler(hub *Hub, jwtService *jwt.Service) *StreamHandler {
	return &StreamHandler{
		hub:        hub,
		jwtService: jwtService,
	}
}

func (h *StreamHandler) HandleStream(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Token is required. Use ?token=YOUR_JWT_TOKEN",
		})
		return
	}

	claims, err := h.jwtService.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Invalid or expired token",
		})
		return
	}

	userID := claims.UserID

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	h.hub.Register(userID, conn)
	log.Printf("User %d connected to notification stream", userID)

	defer func() {
		h.hub.Unregister(userID)
		conn.Close()
		log.Printf("User %d disconnected from notification stream", userID)
	}()

	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	go h.pingLoop(conn)

	// The stream is push-only; the read loop just drains control frames
	// until the client goes away.
	h.readLoop(conn, userID)
}

func (h *StreamHandler) pingLoop(conn *websocket.Conn) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
			return
		}
	}
}

func (h *StreamHandler) readLoop(conn *websocket.Conn, userID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error for user %d: %v", userID, err)
			}
			return
		}
	}
}
