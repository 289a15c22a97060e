package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/go-account-service/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("session-secret", "activation-secret", time.Hour, time.Hour)
}

func echoUser(c *gin.Context) {
	c.String(http.StatusOK, c.GetString(CtxUserIDKey))
}

func TestAuth(t *testing.T) {
	jwt := newJWT()
	r := gin.New()
	r.GET("/me", Auth(jwt), echoUser)

	token, _, err := jwt.GenerateSessionToken("user-1", "user1@example.com")
	require.NoError(t, err)
	activation, _, err := jwt.GenerateActivationToken("user1@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		setup  func(*http.Request)
		status int
		body   string
	}{
		{"bearer header", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token) }, http.StatusOK, "user-1"},
		{"cookie", func(r *http.Request) { r.AddCookie(&http.Cookie{Name: helpers.SessionCookie, Value: token}) }, http.StatusOK, "user-1"},
		{"missing", func(*http.Request) {}, http.StatusUnauthorized, ""},
		{"garbage", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized, ""},
		{"activation token is not a session", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+activation) }, http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			tt.setup(req)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	_, err := uuid.Parse(w.Body.String())
	require.NoError(t, err)
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	given := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, given)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, given, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "not a uuid")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "not a uuid", w.Body.String())
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"forwarded left-most", map[string]string{"X-Forwarded-For": " 198.51.100.1 , 10.0.0.1"}, "198.51.100.1"},
		{"bad headers fall back", map[string]string{"CF-Connecting-IP": "x", "X-Forwarded-For": "y"}, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{
		"127.0.0.1":   true,
		"10.1.2.3":    true,
		"192.168.1.1": true,
		"8.8.8.8":     false,
		"":            false,
	} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = ""
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimit_DisabledWithoutRedis(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
	}
}

func TestKeyFuncs(t *testing.T) {
	r := gin.New()
	var keys []string
	r.GET("/user/:id", func(c *gin.Context) {
		c.Set("real_ip", "203.0.113.7")
		keys = []string{KeyByIP()(c), KeyByIPAndPath()(c), KeyByUserID()(c)}
		c.Set(CtxUserIDKey, "u1")
		keys = append(keys, KeyByUserID()(c))
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/user/42", nil))

	assert.Equal(t, []string{
		"rl:ip:203.0.113.7",
		"rl:path:/user/:id:ip:203.0.113.7",
		"rl:user:anon:ip:203.0.113.7",
		"rl:user:u1",
	}, keys)
}
