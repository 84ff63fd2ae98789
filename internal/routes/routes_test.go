package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/servomart/servomart/internal/app/domain"
	"github.com/servomart/servomart/internal/app/domain/alerts"
	"github.com/servomart/servomart/internal/app/domain/artifacts"
	"github.com/servomart/servomart/internal/app/domain/auth"
	"github.com/servomart/servomart/internal/app/domain/keys"
	"github.com/servomart/servomart/internal/app/domain/listings"
	"github.com/servomart/servomart/internal/app/domain/orders"
	"github.com/servomart/servomart/internal/app/domain/profiles"
	"github.com/servomart/servomart/internal/app/domain/seller"
	"github.com/servomart/servomart/internal/app/domain/terminal"
	"github.com/servomart/servomart/internal/app/models"
	"github.com/servomart/servomart/internal/app/renderer"
)

// fakeAuthService lets the register and change-password flows run without a
// database.
type fakeAuthService struct {
	updatedUser string
	updatedOld  string
	updatedNew  string
}

func (f *fakeAuthService) Login(ctx context.Context, email, password string) (string, *models.UserAuth, error) {
	return "", nil, models.ErrUnauthenticated
}

func (f *fakeAuthService) Register(ctx context.Context, username, email, password string) (string, error) {
	return "user-new", nil
}

func (f *fakeAuthService) GetUserByID(ctx context.Context, userID string) (*models.UserAuth, error) {
	return &models.UserAuth{ID: userID, Username: "ada", Email: "ada@example.com"}, nil
}

func (f *fakeAuthService) UpdatePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	f.updatedUser, f.updatedOld, f.updatedNew = userID, oldPassword, newPassword
	return nil
}

func (f *fakeAuthService) GenerateTokenWithExpiration(user *models.UserAuth, expiration time.Duration) (string, error) {
	return "token-" + user.ID, nil
}

func (f *fakeAuthService) ValidateToken(tokenString string) (*auth.Claims, error) {
	return nil, models.ErrUnauthenticated
}

// newTestEngine wires the real route table onto handlers whose repositories
// and providers are nil. Routes that only render or only gate access never
// touch them.
func newTestEngine(t *testing.T) *gin.Engine {
	r, _ := newTestEngineWithAuth(t)
	return r
}

func newTestEngineWithAuth(t *testing.T) (*gin.Engine, *fakeAuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zap.NewNop()

	r := gin.New()
	r.HTMLRender = &renderer.HTMLTemplRenderer{}
	r.Use(sessions.Sessions("test_session", cookie.NewStore([]byte("test-secret"))))

	authSvc := &fakeAuthService{}
	queue := alerts.NewQueue(log)
	base := domain.NewBaseHandler(log, queue)
	h := &AppHandlers{
		Static:    base,
		Auth:      auth.NewAuthHandlers(authSvc, queue, log),
		Alerts:    alerts.NewAlertsHandlers(queue, log),
		Listings:  listings.NewListingHandlers(base, nil, nil, nil),
		Artifacts: artifacts.NewArtifactHandlers(base, nil, nil),
		Orders:    orders.NewOrderHandlers(base, nil, nil, nil),
		Seller:    seller.NewSellerHandlers(base, nil, nil),
		Keys:      keys.NewKeyHandlers(base, nil),
		Profiles:  profiles.NewProfileHandlers(base, authSvc, nil),
		Terminal:  terminal.NewTerminalHandlers(base, nil),
		jwtConfig: auth.JWTConfig{SecretKey: "route-test-secret", Logger: log},
	}
	setupRouter(r, h, log)
	return r, authSvc
}

// scrapeForm collects the action and every named input of the matched form,
// so tests submit exactly the fields the page renders.
func scrapeForm(t *testing.T, doc *goquery.Document, selector string) (string, url.Values) {
	t.Helper()
	form := doc.Find(selector)
	require.Equal(t, 1, form.Length(), "selector %s", selector)
	action, _ := form.Attr("action")
	vals := url.Values{}
	form.Find("input").Each(func(_ int, s *goquery.Selection) {
		if name, ok := s.Attr("name"); ok {
			vals.Set(name, "")
		}
	})
	return action, vals
}

func postForm(r *gin.Engine, action string, vals url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, action, strings.NewReader(vals.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	r.ServeHTTP(w, req)
	return w
}

func get(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRouteTable(t *testing.T) {
	r := newTestEngine(t)

	registered := make(map[string]bool)
	for _, route := range r.Routes() {
		registered[route.Method+" "+route.Path] = true
	}

	expected := []string{
		"GET /",
		"GET /playground",
		"GET /about",
		"GET /downloads",
		"GET /research",
		"GET /browse",
		"GET /browse/:page",
		"GET /file/:artifactId",
		"GET /item/:username/:slug",
		"GET /profile",
		"GET /profile/:id",
		"GET /tos",
		"GET /privacy",
		"GET /success",
		"GET /404",
		"GET /login",
		"POST /login",
		"GET /logout",
		"GET /signup/",
		"POST /signup/",
		"GET /signup/:id",
		"POST /signup/:id",
		"POST /alerts/:id/dismiss",
		"GET /account",
		"POST /account/password",
		"GET /create",
		"POST /create",
		"GET /keys",
		"GET /orders",
		"GET /sell/onboarding",
		"GET /sell/dashboard",
		"GET /delete-connect",
		"GET /terminal",
		"GET /terminal/:id",
		"GET /api/alerts",
		"DELETE /api/alerts/:id",
		"GET /api/listings/featured",
		"POST /api/stripe/webhook",
		"POST /api/stripe/checkout/:listingID",
		"PUT /api/stripe/refunds/:orderID",
		"POST /api/stripe/refunds/:orderID",
		"POST /api/seller/onboarding",
		"POST /api/seller/dashboard-login",
		"POST /api/seller/delete-connect",
		"POST /api/keys",
		"POST /api/keys/:id/revoke",
		"GET /api/artifacts/:id/download",
		"GET /ws/terminal/:id",
	}
	for _, want := range expected {
		assert.True(t, registered[want], "missing route %s", want)
	}
	assert.Len(t, registered, len(expected))
}

func TestStaticPagesRender(t *testing.T) {
	r := newTestEngine(t)

	cases := map[string]string{
		"/playground": "playground",
		"/about":      "about",
		"/research":   "research",
		"/tos":        "tos",
		"/privacy":    "privacy",
		"/login":      "login",
	}
	for path, marker := range cases {
		w := get(r, path)
		require.Equal(t, http.StatusOK, w.Code, "path %s", path)

		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err, "path %s", path)
		assert.Equal(t, 1, doc.Find(`section[data-page="`+marker+`"]`).Length(), "path %s", path)
	}
}

func TestSignupCarriesInviteID(t *testing.T) {
	r := newTestEngine(t)

	w := get(r, "/signup/")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	invite, _ := doc.Find(`section[data-page="signup"]`).Attr("data-invite-id")
	assert.Empty(t, invite)

	w = get(r, "/signup/beta-2026")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err = goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	invite, _ = doc.Find(`section[data-page="signup"]`).Attr("data-invite-id")
	assert.Equal(t, "beta-2026", invite)
}

func TestSignupFormRoundTrip(t *testing.T) {
	r, _ := newTestEngineWithAuth(t)

	w := get(r, "/signup/")
	require.Equal(t, http.StatusOK, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)

	// Submit exactly the fields the rendered form carries.
	action, vals := scrapeForm(t, doc, `section[data-page="signup"] form`)
	require.Contains(t, vals, "confirm_password")
	vals.Set("username", "ada")
	vals.Set("email", "ada@example.com")
	vals.Set("password", "correct horse")
	vals.Set("confirm_password", "correct horse")

	resp := postForm(r, action, vals)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/account", resp.Header().Get("Location"))
}

func mintAuthCookie(t *testing.T) *http.Cookie {
	t.Helper()
	token, err := auth.NewJWTService().GenerateToken(auth.JWTConfig{
		SecretKey:       "route-test-secret",
		TokenExpiration: time.Hour,
	}, "user-1", "ada@example.com", "ada", false)
	require.NoError(t, err)
	return &http.Cookie{Name: "auth_token", Value: token}
}

func TestChangePasswordFormRoundTrip(t *testing.T) {
	r, svc := newTestEngineWithAuth(t)
	authCookie := mintAuthCookie(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/account", nil)
	req.AddCookie(authCookie)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	action, vals := scrapeForm(t, doc, `form[action="/account/password"]`)
	require.Contains(t, vals, "current_password")
	require.Contains(t, vals, "confirm_new_password")
	vals.Set("current_password", "old password")
	vals.Set("new_password", "new password")
	vals.Set("confirm_new_password", "new password")

	resp := postForm(r, action, vals, authCookie)
	assert.Equal(t, http.StatusFound, resp.Code)
	assert.Equal(t, "/account", resp.Header().Get("Location"))
	assert.Equal(t, "user-1", svc.updatedUser)
	assert.Equal(t, "old password", svc.updatedOld)
	assert.Equal(t, "new password", svc.updatedNew)
}

func TestNotFoundPageRenders(t *testing.T) {
	r := newTestEngine(t)

	w := get(r, "/404")
	require.Equal(t, http.StatusNotFound, w.Code)
	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find(`section[data-page="not-found"]`).Length())
}

func TestUnmatchedPathRedirectsToNotFound(t *testing.T) {
	r := newTestEngine(t)

	w := get(r, "/no/such/page")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/404", w.Header().Get("Location"))
}

func TestPrivatePagesRedirectToLogin(t *testing.T) {
	r := newTestEngine(t)

	for _, path := range []string{"/account", "/create", "/keys", "/orders", "/terminal", "/sell/dashboard"} {
		w := get(r, path)
		assert.Equal(t, http.StatusFound, w.Code, "path %s", path)
		assert.Equal(t, "/login", w.Header().Get("Location"), "path %s", path)
	}
}

func TestLogoutExpiresSessionCookie(t *testing.T) {
	r := newTestEngine(t)

	w := get(r, "/logout")
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	var expired bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "auth_token" && c.MaxAge < 0 {
			expired = true
		}
	}
	assert.True(t, expired, "auth_token cookie should be expired")
}

func TestPrivateAPIReturns401JSON(t *testing.T) {
	r := newTestEngine(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/stripe/checkout/some-listing", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "application/json"))
}
