package keys

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newKeyAuthRouter(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", APIKeyMiddleware(svc), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id":       c.GetString("user_id"),
			"authenticated": c.GetBool("authenticated"),
		})
	})
	return r
}

func performKeyRequest(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAPIKeyMiddlewareAuthenticatesIssuedKey(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())
	secret, key, err := svc.Issue(context.Background(), "user-1", "ci")
	require.NoError(t, err)

	w := performKeyRequest(newKeyAuthRouter(svc), "Bearer "+secret)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), key.UserID)
	assert.Contains(t, w.Body.String(), `"authenticated":true`)
}

func TestAPIKeyMiddlewareRejectsInvalidKey(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())

	w := performKeyRequest(newKeyAuthRouter(svc), "Bearer sm_00000000_0123456789abcdef0123456789abcdef0123456789abcdef")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAPIKeyMiddlewarePassesThroughWithoutKey(t *testing.T) {
	svc := NewService(newFakeKeyRepo(), zap.NewNop())
	r := newKeyAuthRouter(svc)

	// No header, and a bearer token that is not an issued key (a JWT),
	// both fall through to the next authenticator untouched.
	for _, header := range []string{"", "Bearer eyJhbGciOiJIUzI1NiJ9.e30.sig"} {
		w := performKeyRequest(r, header)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"authenticated":false`)
	}
}
