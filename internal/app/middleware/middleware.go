package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/servomart/servomart/internal/app/domain/auth"
	"github.com/servomart/servomart/internal/app/models"
)

// Typed context keys.
type contextKey string

const UserContextKey contextKey = "user"

// CORSMiddleware handles CORS headers.
func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// SecurityMiddleware adds security headers.
func SecurityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("X-Content-Type-Options", "nosniff")
		c.Writer.Header().Set("X-Frame-Options", "DENY")
		c.Writer.Header().Set("X-XSS-Protection", "1; mode=block")
		c.Writer.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		csp := "default-src 'self'; " +
			"script-src 'self' 'unsafe-inline' https://js.stripe.com; " +
			"style-src 'self' 'unsafe-inline' https://fonts.googleapis.com; " +
			"font-src 'self' https://fonts.gstatic.com; " +
			"img-src 'self' data: https:; " +
			"frame-src https://js.stripe.com https://hooks.stripe.com; " +
			"connect-src 'self' https://api.stripe.com"
		c.Writer.Header().Set("Content-Security-Policy", csp)

		c.Next()
	}
}

// AuthMiddleware requires a valid session token; unauthenticated requests are
// redirected to the login page.
func AuthMiddleware(jwtCfg auth.JWTConfig) gin.HandlerFunc {
	service := auth.NewJWTService()
	return func(c *gin.Context) {
		// An upstream authenticator (the API key middleware) may have
		// resolved the user already.
		if c.GetBool("authenticated") {
			c.Next()
			return
		}

		token := extractToken(c)
		if token == "" {
			redirectToLogin(c)
			return
		}

		claims, err := service.ValidateToken(jwtCfg, token)
		if err != nil {
			redirectToLogin(c)
			return
		}

		setUserContext(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware sets user context when a valid token is present but
// lets anonymous requests through.
func OptionalAuthMiddleware(jwtCfg auth.JWTConfig) gin.HandlerFunc {
	service := auth.NewJWTService()
	return func(c *gin.Context) {
		token := extractToken(c)
		if token != "" {
			if claims, err := service.ValidateToken(jwtCfg, token); err == nil {
				setUserContext(c, claims)
			}
		}
		c.Next()
	}
}

// extractToken looks in the cookie first (browser sessions), then the
// Authorization header (API clients), then the query string (websockets).
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("auth_token"); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && parts[0] == "Bearer" {
			return parts[1]
		}
	}

	return c.Query("token")
}

func setUserContext(c *gin.Context, claims *auth.Claims) {
	user := &models.User{
		ID:       claims.UserID,
		Name:     claims.Username,
		Email:    claims.Email,
		IsActive: true,
		IsSeller: claims.IsSeller,
	}

	c.Set(string(UserContextKey), user)
	c.Set("user_id", claims.UserID)
	c.Set("user_email", claims.Email)
	c.Set("user_name", claims.Username)
	c.Set("authenticated", true)
}

func redirectToLogin(c *gin.Context) {
	// API clients get a 401 instead of an HTML redirect.
	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		c.Abort()
		return
	}
	c.Redirect(http.StatusFound, "/login")
	c.Abort()
}

// GetUserFromContext extracts user information from Gin context.
func GetUserFromContext(c *gin.Context) *models.User {
	user, exists := c.Get(string(UserContextKey))
	if !exists {
		return nil
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil
	}

	return userModel
}

// GetUserIDFromContext extracts just the user ID from context.
func GetUserIDFromContext(c *gin.Context) string {
	if userID, exists := c.Get("user_id"); exists {
		if idStr, ok := userID.(string); ok {
			return idStr
		}
	}
	return "anonymous"
}
