package keys

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// APIKeyMiddleware authenticates requests carrying an issued key as a bearer
// token. Requests without one pass through untouched so the session
// middleware behind it can take over; a presented but invalid key is
// rejected outright.
func APIKeyMiddleware(svc Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := bearerSecret(c.GetHeader("Authorization"))
		if secret == "" {
			c.Next()
			return
		}

		key, err := svc.Verify(c.Request.Context(), secret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid API key"})
			c.Abort()
			return
		}

		c.Set("user_id", key.UserID)
		c.Set("authenticated", true)
		c.Next()
	}
}

// bearerSecret returns the API key from an Authorization header, or "" when
// the header holds anything else (no header, a JWT, a malformed value).
func bearerSecret(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || !strings.HasPrefix(parts[1], secretPrefix) {
		return ""
	}
	return parts[1]
}
