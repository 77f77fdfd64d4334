package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cashdunia/internal/logger"
	"cashdunia/internal/service"

	"github.com/gin-gonic/gin"
)

func newRouter(handlers ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", handlers...)
	return r
}

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWT(t *testing.T) {
	service.InitJWT("mw-secret", time.Hour)
	token, err := service.GenerateJWT(42)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	var seen int64
	r := newRouter(JWT(), func(c *gin.Context) {
		seen = c.GetInt64("user_id")
		c.Status(http.StatusOK)
	})

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid", "Bearer " + token, http.StatusOK},
		{"missing", "", http.StatusUnauthorized},
		{"wrong scheme", "Token " + token, http.StatusUnauthorized},
		{"garbage", "Bearer abc.def.ghi", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if got := serve(r, req).Code; got != tt.want {
				t.Fatalf("status: got %d, want %d", got, tt.want)
			}
		})
	}
	if seen != 42 {
		t.Fatalf("user_id: got %d, want 42", seen)
	}
}

func TestAdminOnly(t *testing.T) {
	isAdmin := func(id int64) bool { return id == 1 }

	for _, tc := range []struct {
		userID int64
		want   int
	}{
		{1, http.StatusOK},
		{2, http.StatusForbidden},
		{0, http.StatusForbidden},
	} {
		r := newRouter(func(c *gin.Context) {
			if tc.userID != 0 {
				c.Set("user_id", tc.userID)
			}
		}, AdminOnly(isAdmin), func(c *gin.Context) { c.Status(http.StatusOK) })

		got := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code
		if got != tc.want {
			t.Errorf("user %d: got %d, want %d", tc.userID, got, tc.want)
		}
	}
}

func TestRequestID(t *testing.T) {
	var fromCtx string
	r := newRouter(RequestID(), func(c *gin.Context) {
		fromCtx = logger.RequestID(c.Request.Context())
		c.Status(http.StatusOK)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	generated := w.Header().Get(RequestIDHeader)
	if generated == "" || generated != fromCtx {
		t.Fatalf("generated id %q, context id %q", generated, fromCtx)
	}

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = serve(r, req)
	if got := w.Header().Get(RequestIDHeader); got != "abc-123" || fromCtx != "abc-123" {
		t.Fatalf("propagated id: header %q, context %q", got, fromCtx)
	}
}

func TestCORS(t *testing.T) {
	r := newRouter(CORS("https://app.example"), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.OPTIONS("/x", CORS("https://app.example"))

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	if got := serve(r, req).Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("allowed origin: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	if got := serve(r, req).Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("foreign origin: got %q", got)
	}

	req = httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "https://app.example")
	if got := serve(r, req).Code; got != http.StatusNoContent {
		t.Fatalf("preflight: got %d", got)
	}
}

func TestSimpleRateLimit(t *testing.T) {
	r := newRouter(SimpleRateLimit(2, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if got := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code; got != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, got)
		}
	}
	if got := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code; got != http.StatusTooManyRequests {
		t.Fatalf("third request: got %d, want 429", got)
	}
}

func TestActionRateLimitFailsOpenWithoutRedis(t *testing.T) {
	UseRedis(nil)
	r := newRouter(func(c *gin.Context) { c.Set("user_id", int64(7)) }, ActionRateLimit(1, time.Minute), func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 3; i++ {
		if got := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)).Code; got != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, got)
		}
	}
}
