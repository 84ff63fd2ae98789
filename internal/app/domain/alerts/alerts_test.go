package alerts

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/models"
)

func newSessionContext(t *testing.T) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret")))(c)
	return c
}

func TestEnqueuePreservesOrder(t *testing.T) {
	q := NewQueue(zap.NewNop())
	c := newSessionContext(t)

	for i := 0; i < 5; i++ {
		q.Enqueue(c, models.AlertInfo, fmt.Sprintf("alert %d", i))
	}

	got := q.All(c)
	require.Len(t, got, 5)
	for i, a := range got {
		assert.Equal(t, fmt.Sprintf("alert %d", i), a.Message)
	}
}

func TestDismissRemovesOnlyTarget(t *testing.T) {
	q := NewQueue(zap.NewNop())
	c := newSessionContext(t)

	first := q.Enqueue(c, models.AlertError, "first")
	second := q.Enqueue(c, models.AlertSuccess, "second")
	third := q.Enqueue(c, models.AlertInfo, "third")

	q.Dismiss(c, second.ID)

	got := q.All(c)
	require.Len(t, got, 2)
	assert.Equal(t, first.ID, got[0].ID)
	assert.Equal(t, third.ID, got[1].ID)
}

func TestDismissUnknownIDIsNoop(t *testing.T) {
	q := NewQueue(zap.NewNop())
	c := newSessionContext(t)

	q.Enqueue(c, models.AlertInfo, "keep me")
	q.Dismiss(c, uuid.New())

	require.Len(t, q.All(c), 1)
}

func TestQueueBoundDropsOldest(t *testing.T) {
	q := NewQueue(zap.NewNop())
	c := newSessionContext(t)

	for i := 0; i < MaxQueueLen+5; i++ {
		q.Enqueue(c, models.AlertInfo, fmt.Sprintf("alert %d", i))
	}

	got := q.All(c)
	require.Len(t, got, MaxQueueLen)
	assert.Equal(t, "alert 5", got[0].Message)
	assert.Equal(t, fmt.Sprintf("alert %d", MaxQueueLen+4), got[len(got)-1].Message)
}

func TestDrainEmptiesQueue(t *testing.T) {
	q := NewQueue(zap.NewNop())
	c := newSessionContext(t)

	q.Enqueue(c, models.AlertInfo, "one")
	q.Enqueue(c, models.AlertInfo, "two")

	drained := q.Drain(c)
	require.Len(t, drained, 2)
	assert.Empty(t, q.All(c))
}

func TestQueuesAreIsolatedPerSession(t *testing.T) {
	q := NewQueue(zap.NewNop())
	a := newSessionContext(t)
	b := newSessionContext(t)

	q.Enqueue(a, models.AlertInfo, "for a")

	assert.Len(t, q.All(a), 1)
	assert.Empty(t, q.All(b))
}
