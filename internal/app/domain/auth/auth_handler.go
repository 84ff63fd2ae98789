package auth

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain/alerts"
	"github.com/servomart/servomart/internal/app/models"
)

const authCookie = "auth_token"

type AuthHandlers struct {
	authService AuthService
	alerts      *alerts.Queue
	logger      *zap.Logger
}

func NewAuthHandlers(authService AuthService, alertQueue *alerts.Queue, logger *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		alerts:      alertQueue,
		logger:      logger,
	}
}

// LoginHandler handles the /login form POST. A failed login leaves the
// session anonymous and surfaces the failure through the alert queue.
func (h *AuthHandlers) LoginHandler(c *gin.Context) {
	h.logger.Info("Login attempt", zap.String("remote_addr", c.ClientIP()))

	email := c.PostForm("email")
	password := c.PostForm("password")
	rememberMe := c.PostForm("remember_me") == "on" || c.PostForm("remember_me") == "true"

	if email == "" || password == "" {
		h.alerts.Enqueue(c, models.AlertError, "Email and password are required")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), email, password)
	if err != nil {
		h.logger.Warn("Invalid login credentials", zap.String("email", email))
		h.alerts.Enqueue(c, models.AlertError, "Invalid email or password")
		c.Redirect(http.StatusFound, "/login")
		return
	}

	tokenExpiration := 24 * time.Hour
	if rememberMe {
		tokenExpiration = 30 * 24 * time.Hour
		// Reissue with the longer expiry.
		token, err = h.authService.GenerateTokenWithExpiration(user, tokenExpiration)
		if err != nil {
			h.logger.Error("Failed to generate token", zap.Error(err))
			c.String(http.StatusInternalServerError, "Internal server error")
			return
		}
	}

	h.setAuthCookie(c, token, int(tokenExpiration.Seconds()))

	h.logger.Info("Successful login",
		zap.String("user_id", user.ID),
		zap.Bool("remember_me", rememberMe),
	)
	h.alerts.Enqueue(c, models.AlertSuccess, "Signed in")
	c.Redirect(http.StatusFound, "/account")
}

// RegisterHandler handles the /signup form POST. The optional :id path param
// carries a referral/invite id and is recorded but never required.
func (h *AuthHandlers) RegisterHandler(c *gin.Context) {
	inviteID := c.Param("id")
	h.logger.Info("Registration attempt",
		zap.String("remote_addr", c.ClientIP()),
		zap.String("invite_id", inviteID),
	)

	username := c.PostForm("username")
	email := c.PostForm("email")
	password := c.PostForm("password")
	confirmPassword := c.PostForm("confirm_password")

	signupPath := "/signup/"
	if inviteID != "" {
		signupPath = "/signup/" + inviteID
	}

	if username == "" || email == "" || password == "" || confirmPassword == "" {
		h.alerts.Enqueue(c, models.AlertError, "All required fields must be filled")
		c.Redirect(http.StatusFound, signupPath)
		return
	}
	if password != confirmPassword {
		h.alerts.Enqueue(c, models.AlertError, "Passwords do not match")
		c.Redirect(http.StatusFound, signupPath)
		return
	}

	userID, err := h.authService.Register(c.Request.Context(), username, email, password)
	if err != nil {
		h.logger.Error("Failed to register user", zap.Error(err))
		h.alerts.Enqueue(c, models.AlertError, "Registration failed. Email may already be registered.")
		c.Redirect(http.StatusFound, signupPath)
		return
	}

	tokenExpiration := 24 * time.Hour
	user := &models.UserAuth{ID: userID, Username: username, Email: email}
	token, err := h.authService.GenerateTokenWithExpiration(user, tokenExpiration)
	if err != nil {
		h.logger.Error("Failed to generate token", zap.Error(err))
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	h.setAuthCookie(c, token, int(tokenExpiration.Seconds()))

	h.logger.Info("Successful registration",
		zap.String("user_id", userID),
		zap.String("username", username),
	)
	h.alerts.Enqueue(c, models.AlertSuccess, "Welcome to ServoMart")
	c.Redirect(http.StatusFound, "/account")
}

// LogoutHandler clears the session cookie. Previously gated content is no
// longer reachable without re-login.
func (h *AuthHandlers) LogoutHandler(c *gin.Context) {
	h.logger.Info("User logout")

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookie, "", -1, "/", "", false, true)

	// The session's pending notifications go with it.
	h.alerts.Drain(c)
	h.alerts.Enqueue(c, models.AlertInfo, "Signed out")
	c.Redirect(http.StatusFound, "/")
}

// ChangePasswordHandler handles the account-page password form.
func (h *AuthHandlers) ChangePasswordHandler(c *gin.Context) {
	userID, ok := c.Get("user_id")
	if !ok {
		c.Redirect(http.StatusFound, "/login")
		return
	}

	currentPassword := c.PostForm("current_password")
	newPassword := c.PostForm("new_password")
	confirmNewPassword := c.PostForm("confirm_new_password")

	if currentPassword == "" || newPassword == "" || confirmNewPassword == "" {
		h.alerts.Enqueue(c, models.AlertError, "All fields are required")
		c.Redirect(http.StatusFound, "/account")
		return
	}
	if newPassword != confirmNewPassword {
		h.alerts.Enqueue(c, models.AlertError, "New passwords do not match")
		c.Redirect(http.StatusFound, "/account")
		return
	}

	if err := h.authService.UpdatePassword(c.Request.Context(), userID.(string), currentPassword, newPassword); err != nil {
		h.logger.Warn("Password change failed", zap.Error(err))
		h.alerts.Enqueue(c, models.AlertError, "Password change failed")
		c.Redirect(http.StatusFound, "/account")
		return
	}

	h.logger.Info("Password changed", zap.String("user_id", userID.(string)))
	h.alerts.Enqueue(c, models.AlertSuccess, "Password changed")
	c.Redirect(http.StatusFound, "/account")
}

func (h *AuthHandlers) setAuthCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	// Secure is false for local development; terminate TLS upstream in prod.
	c.SetCookie(authCookie, token, maxAge, "/", "", false, true)
}
