package middleware

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/bookmart/internal/domain/model"
	pkgAuth "github.com/polkiloo/bookmart/internal/pkg/auth"
	testhelpers "github.com/polkiloo/bookmart/internal/test"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var customer = model.Session{Token: "jwt", Role: model.RoleCustomer, UserID: 42}

func serveWithToken(handlers []gin.HandlerFunc, token string) *httptest.ResponseRecorder {
	router := gin.New()
	router.GET("/", handlers...)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestAuthRequired(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	cases := []struct {
		name  string
		guard testhelpers.GuardStub
		token string
		want  int
	}{
		{"missing token", testhelpers.GuardStub{Session: customer}, "", http.StatusUnauthorized},
		{"invalid token", testhelpers.GuardStub{Err: pkgAuth.ErrInvalidToken, Session: customer}, "t", http.StatusUnauthorized},
		{"parser failure", testhelpers.GuardStub{Err: context.DeadlineExceeded, Session: customer}, "t", http.StatusInternalServerError},
		{"no session", testhelpers.GuardStub{Claims: pkgAuth.Claims{UserID: 42}}, "t", http.StatusUnauthorized},
		{"other user", testhelpers.GuardStub{Claims: pkgAuth.Claims{UserID: 7}, Session: customer}, "t", http.StatusUnauthorized},
		{"valid", testhelpers.GuardStub{Claims: pkgAuth.Claims{UserID: 42}, Session: customer}, "t", http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := serveWithToken([]gin.HandlerFunc{AuthRequired(tc.guard), ok}, tc.token)
			if resp.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, resp.Code)
			}
		})
	}
}

func TestAuthRequiredStoresIdentity(t *testing.T) {
	var (
		storedID   int64
		storedRole model.Role
	)
	guard := testhelpers.GuardStub{Claims: pkgAuth.Claims{UserID: 42}, Session: customer}
	resp := serveWithToken([]gin.HandlerFunc{AuthRequired(guard), func(c *gin.Context) {
		storedID = c.GetInt64(UserIDContextKey)
		storedRole, _ = c.MustGet(RoleContextKey).(model.Role)
		c.Status(http.StatusOK)
	}}, "t")

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if storedID != 42 || storedRole != model.RoleCustomer {
		t.Fatalf("unexpected identity %d/%s", storedID, storedRole)
	}
}

func TestRoleRequired(t *testing.T) {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }
	seller := model.Session{Token: "jwt", Role: model.RoleSeller, UserID: 42}

	allowed := serveWithToken([]gin.HandlerFunc{
		AuthRequired(testhelpers.GuardStub{Claims: pkgAuth.Claims{UserID: 42}, Session: seller}),
		RoleRequired(model.RoleSeller, model.RoleAdmin),
		ok,
	}, "t")
	if allowed.Code != http.StatusOK {
		t.Fatalf("expected seller to pass, got %d", allowed.Code)
	}

	denied := serveWithToken([]gin.HandlerFunc{
		AuthRequired(testhelpers.GuardStub{Claims: pkgAuth.Claims{UserID: 42}, Session: customer}),
		RoleRequired(model.RoleSeller, model.RoleAdmin),
		ok,
	}, "t")
	if denied.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", denied.Code)
	}
}

func TestSetAndClearAuthCookie(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	SetAuthCookie(c, "token", 3600)

	if got := recorder.Header().Get("Authorization"); got != "Bearer token" {
		t.Fatalf("expected auth header, got %q", got)
	}
	result := recorder.Result()
	t.Cleanup(func() {
		_ = result.Body.Close()
	})
	cookies := result.Cookies()
	if len(cookies) == 0 || cookies[0].Value != "token" || !cookies[0].HttpOnly {
		t.Fatalf("expected http-only cookie with token, got %+v", cookies)
	}

	recorder = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(recorder)
	ClearAuthCookie(c)
	cleared := recorder.Result()
	t.Cleanup(func() {
		_ = cleared.Body.Close()
	})
	if cookies := cleared.Cookies(); len(cookies) == 0 || cookies[0].MaxAge >= 0 {
		t.Fatalf("expected expired cookie, got %+v", cookies)
	}
}

func TestExtractToken(t *testing.T) {
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request, _ = http.NewRequest(http.MethodGet, "/", nil)

	if token := extractToken(c); token != "" {
		t.Fatalf("expected empty token, got %q", token)
	}

	c.Request.Header.Set("Authorization", "Bearer abc")
	if token := extractToken(c); token != "abc" {
		t.Fatalf("expected token from header, got %q", token)
	}

	c.Request.Header.Del("Authorization")
	c.Request.AddCookie(&http.Cookie{Name: authCookieName, Value: "cookie"})
	if token := extractToken(c); token != "cookie" {
		t.Fatalf("expected token from cookie, got %q", token)
	}
}

func gzipped(t *testing.T, payload string) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write([]byte(payload)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestDecompressRequest(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest(0))
	var body string
	router.POST("/", func(c *gin.Context) {
		data, _ := io.ReadAll(c.Request.Body)
		body = string(data)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipped(t, "payload")))
	req.Header.Set("Content-Encoding", "gzip")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if body != "payload" {
		t.Fatalf("expected decompressed payload, got %q", body)
	}

	body = ""
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("plain"))
	router.ServeHTTP(httptest.NewRecorder(), req)
	if body != "plain" {
		t.Fatalf("expected plain body, got %q", body)
	}

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("not gzip"))
	req.Header.Set("Content-Encoding", "gzip")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for corrupt gzip, got %d", resp.Code)
	}
}

func TestDecompressRequestLimit(t *testing.T) {
	router := gin.New()
	router.Use(DecompressRequest(4))
	var readErr error
	router.POST("/", func(c *gin.Context) {
		_, readErr = io.ReadAll(c.Request.Body)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(gzipped(t, "larger than four")))
	req.Header.Set("Content-Encoding", "gzip")
	router.ServeHTTP(httptest.NewRecorder(), req)
	if readErr == nil {
		t.Fatal("expected read error past the limit")
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/ok", nil))
	if resp.Header().Get(requestIDHeader) == "" {
		t.Fatal("expected generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/fail", nil)
	req.Header.Set(requestIDHeader, "req-1")
	router.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, `"level":"INFO"`) || !strings.Contains(out, `"level":"ERROR"`) {
		t.Fatalf("expected info and error entries, got %s", out)
	}
	if !strings.Contains(out, `"request_id":"req-1"`) {
		t.Fatalf("expected propagated request id, got %s", out)
	}
}

func TestCORS(t *testing.T) {
	router := gin.New()
	router.Use(CORS([]string{"http://localhost:5173"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Fatalf("expected allowed origin, got %q", got)
	}
	if got := resp.Header().Get("Access-Control-Allow-Credentials"); got != "true" {
		t.Fatalf("expected credentials allowed, got %q", got)
	}

	open := gin.New()
	open.Use(CORS(nil))
	open.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	resp = httptest.NewRecorder()
	open.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected pass-through without origins, got %d", resp.Code)
	}
}
