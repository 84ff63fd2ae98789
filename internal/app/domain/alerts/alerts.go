// Package alerts keeps a per-session FIFO queue of transient notifications.
// Pages enqueue an alert on an action outcome; the layout renders and the
// user dismisses them. The queue lives server-side, keyed by the cookie
// session, so it survives the redirect-after-POST pattern.
package alerts

import (
	"sync"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

const (
	sessionKey = "alert_queue_id"

	// MaxQueueLen bounds each session's queue; the oldest entry is dropped
	// when a new alert would exceed it.
	MaxQueueLen = 32

	queueTTL = 30 * time.Minute
)

// Queue owns every session's alert list. Entries expire with the session TTL
// so abandoned tabs do not pin memory.
type Queue struct {
	mu     sync.Mutex
	store  *gocache.Cache
	logger *zap.Logger
}

func NewQueue(logger *zap.Logger) *Queue {
	return &Queue{
		store:  gocache.New(queueTTL, 2*queueTTL),
		logger: logger,
	}
}

// queueID returns the stable id for the caller's session, creating one on
// first use.
func (q *Queue) queueID(c *gin.Context) string {
	sess := sessions.Default(c)
	if v, ok := sess.Get(sessionKey).(string); ok && v != "" {
		return v
	}
	id := uuid.NewString()
	sess.Set(sessionKey, id)
	if err := sess.Save(); err != nil {
		q.logger.Warn("Failed to persist alert session", zap.Error(err))
	}
	return id
}

// Enqueue appends an alert to the caller's queue, assigning it an id.
func (q *Queue) Enqueue(c *gin.Context, severity models.AlertSeverity, message string) models.Alert {
	alert := models.Alert{
		ID:        uuid.New(),
		Severity:  severity,
		Message:   message,
		CreatedAt: time.Now(),
	}

	id := q.queueID(c)
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.load(id)
	queue = append(queue, alert)
	if len(queue) > MaxQueueLen {
		queue = queue[len(queue)-MaxQueueLen:]
	}
	q.store.Set(id, queue, queueTTL)
	return alert
}

// Dismiss removes the alert with the given id. Absent ids are a no-op.
func (q *Queue) Dismiss(c *gin.Context, alertID uuid.UUID) {
	id := q.queueID(c)
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.load(id)
	kept := queue[:0]
	for _, a := range queue {
		if a.ID != alertID {
			kept = append(kept, a)
		}
	}
	q.store.Set(id, kept, queueTTL)
}

// All returns the caller's alerts in insertion order.
func (q *Queue) All(c *gin.Context) []models.Alert {
	id := q.queueID(c)
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.load(id)
	out := make([]models.Alert, len(queue))
	copy(out, queue)
	return out
}

// Drain returns the caller's alerts and clears the queue, for render-once
// flash behaviour in the layout.
func (q *Queue) Drain(c *gin.Context) []models.Alert {
	id := q.queueID(c)
	q.mu.Lock()
	defer q.mu.Unlock()

	queue := q.load(id)
	q.store.Delete(id)
	return queue
}

func (q *Queue) load(id string) []models.Alert {
	if v, ok := q.store.Get(id); ok {
		if queue, ok := v.([]models.Alert); ok {
			return queue
		}
	}
	return nil
}
