// Package domain hosts the HTTP-facing feature areas. BaseHandler carries the
// pieces every page handler needs to assemble a full document.
package domain

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain/alerts"
	"github.com/servomart/servomart/internal/app/middleware"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/pages"
	"github.com/servomart/servomart/internal/app/renderer"
)

type BaseHandler struct {
	Logger *zap.Logger
	Alerts *alerts.Queue
}

func NewBaseHandler(logger *zap.Logger, alertQueue *alerts.Queue) *BaseHandler {
	return &BaseHandler{Logger: logger, Alerts: alertQueue}
}

// Render writes a page wrapped in the layout, with the current user and the
// session's pending alerts.
func (b *BaseHandler) Render(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	user := middleware.GetUserFromContext(c)
	nav := models.OfflineNav
	if user != nil {
		nav = models.MainNav
	}
	layout := models.LayoutTempl{
		Title:     title,
		User:      user,
		Nav:       nav,
		ActiveNav: activeNav,
		Alerts:    b.Alerts.All(c),
		Content:   content,
	}
	c.Render(status, renderer.New(c, status, pages.LayoutPage(layout)))
}

// RenderNotFound serves the /404 document.
func (b *BaseHandler) RenderNotFound(c *gin.Context) {
	b.Render(c, http.StatusNotFound, "Not Found", "", pages.NotFoundPage())
}

// Static screens with no data dependencies.

func (b *BaseHandler) ShowPlaygroundPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "Playground", "", pages.PlaygroundPage())
}

func (b *BaseHandler) ShowAboutPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "About", "", pages.AboutPage())
}

func (b *BaseHandler) ShowResearchPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "Research", "Research", pages.ResearchPage())
}

func (b *BaseHandler) ShowTOSPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "Terms of Service", "", pages.TOSPage())
}

func (b *BaseHandler) ShowPrivacyPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "Privacy Policy", "", pages.PrivacyPage())
}

func (b *BaseHandler) ShowLoginPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "Sign in", "", pages.LoginPage())
}

func (b *BaseHandler) ShowSignupPage(c *gin.Context) {
	b.Render(c, http.StatusOK, "Sign up", "", pages.SignupPage(c.Param("id")))
}
