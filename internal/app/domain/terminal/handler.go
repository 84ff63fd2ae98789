// Package terminal serves the browser shell for purchased robots over a
// websocket.
package terminal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 4 << 10
)

// RobotLister resolves the robots a user can open a terminal to.
type RobotLister interface {
	ListPurchasedListings(ctx context.Context, userID string) ([]models.Listing, error)
}

type TerminalHandlers struct {
	*domain.BaseHandler
	robots   RobotLister
	upgrader websocket.Upgrader
}

func NewTerminalHandlers(base *domain.BaseHandler, robots RobotLister) *TerminalHandlers {
	return &TerminalHandlers{
		BaseHandler: base,
		robots:      robots,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return r.Header.Get("Origin") == "" || strings.Contains(r.Header.Get("Origin"), r.Host)
			},
		},
	}
}

// ListHandler serves /terminal.
func (h *TerminalHandlers) ListHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	robots, err := h.robots.ListPurchasedListings(c.Request.Context(), user.ID)
	if err != nil {
		h.Logger.Error("Terminal list failed", zap.Error(err), zap.String("userID", user.ID))
		robots = nil
	}
	h.Render(c, http.StatusOK, "Terminal", "Terminal", pages.TerminalListPage(robots))
}

// SessionHandler serves /terminal/:id.
func (h *TerminalHandlers) SessionHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	robotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.RenderNotFound(c)
		return
	}

	if !h.ownsRobot(c.Request.Context(), user.ID, robotID) {
		h.RenderNotFound(c)
		return
	}
	h.Render(c, http.StatusOK, "Terminal", "Terminal", pages.TerminalSessionPage(robotID.String()))
}

// WSHandler upgrades /ws/terminal/:id and runs the command loop.
func (h *TerminalHandlers) WSHandler(c *gin.Context) {
	user := middleware.GetUserFromContext(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	robotID, err := uuid.Parse(c.Param("id"))
	if err != nil || !h.ownsRobot(c.Request.Context(), user.ID, robotID) {
		c.JSON(http.StatusNotFound, gin.H{"error": "robot not found"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Logger.Warn("Terminal upgrade failed", zap.Error(err), zap.String("userID", user.ID))
		return
	}

	l := h.Logger.With(zap.String("userID", user.ID), zap.String("robotID", robotID.String()))
	l.Info("Terminal session opened")
	h.serve(conn, robotID, l)
}

func (h *TerminalHandlers) ownsRobot(ctx context.Context, userID string, robotID uuid.UUID) bool {
	robots, err := h.robots.ListPurchasedListings(ctx, userID)
	if err != nil {
		h.Logger.Error("Terminal ownership check failed", zap.Error(err), zap.String("userID", userID))
		return false
	}
	for _, r := range robots {
		if r.ID == robotID {
			return true
		}
	}
	return false
}

func (h *TerminalHandlers) serve(conn *websocket.Conn, robotID uuid.UUID, l *zap.Logger) {
	defer func() {
		_ = conn.Close()
		l.Info("Terminal session closed")
	}()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.pingLoop(conn, done)
	defer close(done)

	h.write(conn, "connected to robot "+robotID.String())
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				l.Warn("Terminal read failed", zap.Error(err))
			}
			return
		}

		reply, quit := evalCommand(strings.TrimSpace(string(msg)))
		h.write(conn, reply)
		if quit {
			return
		}
	}
}

func (h *TerminalHandlers) pingLoop(conn *websocket.Conn, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		}
	}
}

func (h *TerminalHandlers) write(conn *websocket.Conn, text string) {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, []byte(text)); err != nil {
		h.Logger.Warn("Terminal write failed", zap.Error(err))
	}
}

// evalCommand answers the small built-in command set; everything else is
// relayed verbatim until real robot transports land.
func evalCommand(cmd string) (reply string, quit bool) {
	switch cmd {
	case "":
		return "", false
	case "help":
		return "commands: help, status, exit", false
	case "status":
		return fmt.Sprintf("ok uptime=%s", time.Since(startTime).Truncate(time.Second)), false
	case "exit", "quit":
		return "bye", true
	default:
		return "> " + cmd, false
	}
}

var startTime = time.Now()
