package alerts

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AlertsHandlers struct {
	queue  *Queue
	logger *zap.Logger
}

func NewAlertsHandlers(queue *Queue, logger *zap.Logger) *AlertsHandlers {
	return &AlertsHandlers{queue: queue, logger: logger}
}

// ListAlerts returns the session's queue as JSON, oldest first.
func (h *AlertsHandlers) ListAlerts(c *gin.Context) {
	queue := h.queue.All(c)
	out := make([]gin.H, 0, len(queue))
	for _, a := range queue {
		out = append(out, gin.H{
			"id":        a.ID.String(),
			"severity":  a.Severity,
			"message":   a.Message,
			"createdAt": a.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"alerts": out})
}

// DismissAlert removes one alert by id; unknown ids succeed silently.
func (h *AlertsHandlers) DismissAlert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}
	h.queue.Dismiss(c, id)
	c.Status(http.StatusNoContent)
}

// DismissAlertForm backs the banner dismiss buttons and sends the user back
// to the page they were on.
func (h *AlertsHandlers) DismissAlertForm(c *gin.Context) {
	if id, err := uuid.Parse(c.Param("id")); err == nil {
		h.queue.Dismiss(c, id)
	}
	target := c.GetHeader("Referer")
	if target == "" {
		target = "/"
	}
	c.Redirect(http.StatusSeeOther, target)
}
