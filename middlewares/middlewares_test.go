package middlewares

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/casino-floor/models"
	"github.com/yeremiapane/casino-floor/services"
	"github.com/yeremiapane/casino-floor/utils"
)

type envelope struct {
	OK        bool   `json:"ok"`
	Code      string `json:"code"`
	Error     string `json:"error"`
	RequestID string `json:"requestId"`
}

func init() {
	gin.SetMode(gin.TestMode)
	utils.ConfigureJWT("middleware-test-secret", time.Hour)
}

func newEngine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestMeta())
	chain := append(handlers, func(c *gin.Context) {
		actor, _ := utils.ActorFrom(c.Request.Context())
		utils.RespondJSON(c, http.StatusOK, actor.StaffID)
	})
	r.GET("/ping", chain...)
	return r
}

func do(t *testing.T, r http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func TestRequestMetaKeepsValidIncomingID(t *testing.T) {
	r := newEngine()

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "6f1c0e5e-8a57-4f5c-9d38-1d7d8c0d8a11")
	w, env := do(t, r, req)
	assert.Equal(t, "6f1c0e5e-8a57-4f5c-9d38-1d7d8c0d8a11", env.RequestID)
	assert.Equal(t, env.RequestID, w.Header().Get(RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	_, env = do(t, r, req)
	assert.NotEqual(t, "not a uuid", env.RequestID)
	assert.NotEmpty(t, env.RequestID)
}

func TestAuthMiddleware(t *testing.T) {
	r := newEngine(AuthMiddleware())

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, utils.CodeUnauthorized, env.Code)
	assert.False(t, env.OK)

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token, err := utils.GenerateToken("staff-1", "casino-1", models.RolePitBoss)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, env = do(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.OK)

	utils.BlacklistToken(token)
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestWebSocketAuthReadsQueryToken(t *testing.T) {
	r := newEngine(WebSocketAuthMiddleware())
	token, err := utils.GenerateToken("staff-2", "casino-1", models.RoleDealer)
	require.NoError(t, err)

	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/ping?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w, env := do(t, r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, utils.CodeUnauthorized, env.Code)
}

func TestRequireCapability(t *testing.T) {
	r := newEngine(AuthMiddleware(), RequireCapability(services.CapSetup))

	dealer, err := utils.GenerateToken("staff-3", "casino-1", models.RoleDealer)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+dealer)
	w, env := do(t, r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, utils.CodeForbidden, env.Code)

	admin, err := utils.GenerateToken("staff-4", "casino-1", models.RoleAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	w, _ = do(t, r, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimiterIsPerIP(t *testing.T) {
	r := newEngine(NewRateLimiter(60, 2).RateLimit())

	from := func(ip string) *http.Request {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.RemoteAddr = ip + ":4000"
		return req
	}

	for i := 0; i < 2; i++ {
		w, _ := do(t, r, from("10.0.0.1"))
		assert.Equal(t, http.StatusOK, w.Code)
	}
	w, env := do(t, r, from("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, utils.CodeRateLimited, env.Code)

	w, _ = do(t, r, from("10.0.0.2"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSecurityAndCORSHeaders(t *testing.T) {
	r := newEngine(SecurityHeaders(365*24*time.Hour), CORSMiddlewares("https://floor.example.com"))
	w, _ := do(t, r, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'none'")
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "https://floor.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w, _ = do(t, r, req)
	assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
}

func TestSecurityHeadersWithoutHSTS(t *testing.T) {
	r := newEngine(SecurityHeaders(0))
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w, _ := do(t, r, req)
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
}
