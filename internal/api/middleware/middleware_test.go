package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/pratik-mahalle/processimo/internal/auth"
	"github.com/pratik-mahalle/processimo/internal/domain/user"
	"github.com/pratik-mahalle/processimo/internal/pkg/logger"
)

const testSecret = "test-secret"

func token(t *testing.T, role string) string {
	t.Helper()
	pair, err := auth.MintTokens(auth.Identity{UserID: 7, Email: "u@example.com", Role: role}, testSecret, time.Hour, 2*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}
	return pair.AccessToken
}

func TestAuthMiddleware(t *testing.T) {
	var gotID int64
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		setup      func(r *http.Request)
		wantStatus int
	}{
		{"no token", func(r *http.Request) {}, http.StatusUnauthorized},
		{"bad token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer nope") }, http.StatusUnauthorized},
		{"bearer token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+token(t, user.RoleUser)) }, http.StatusOK},
		{"cookie token", func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token(t, user.RoleUser)})
		}, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotID = 0
			req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantStatus == http.StatusOK && gotID != 7 {
				t.Errorf("user id = %d, want 7", gotID)
			}
		})
	}
}

func TestAuthMiddleware_RejectsRefreshToken(t *testing.T) {
	pair, err := auth.MintTokens(auth.Identity{UserID: 7, Role: user.RoleUser}, testSecret, time.Hour, 2*time.Hour)
	if err != nil {
		t.Fatalf("MintTokens() error = %v", err)
	}
	handler := AuthMiddleware(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer "+pair.RefreshToken)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	handler := AuthMiddleware(testSecret)(RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})))

	tests := []struct {
		role       string
		wantStatus int
	}{
		{user.RoleUser, http.StatusForbidden},
		{user.RoleAdmin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.role, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/api/admin/agents/1", nil)
			req.Header.Set("Authorization", "Bearer "+token(t, tt.role))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(NewRateLimiter(1, 2))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/agents", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("codes = %v, want [200 200 429]", codes)
	}
}

func TestRequestID(t *testing.T) {
	var seen string
	handler := RequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
	}))

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated when missing", "", false},
		{"caller id reused", "checkout-retry-42", true},
		{"whitespace rejected", "bad id", false},
		{"oversized rejected", strings.Repeat("x", 65), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if seen == "" || rr.Header().Get(RequestIDHeader) != seen {
				t.Fatalf("request id %q not echoed (header %q)", seen, rr.Header().Get(RequestIDHeader))
			}
			if (seen == tt.incoming) != tt.keep {
				t.Errorf("request id = %q, keep incoming %v", seen, tt.keep)
			}
		})
	}
}

func TestFrontendOrigins(t *testing.T) {
	got := frontendOrigins(" https://shop.example.com/ , * ,http://localhost:5173")
	want := []string{"https://shop.example.com", "http://localhost:5173", "http://localhost:3000"}
	if len(got) != len(want) {
		t.Fatalf("frontendOrigins() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("origin[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if got := frontendOrigins("https://shop.example.com"); len(got) != 1 {
		t.Errorf("production origins = %v, want only the storefront", got)
	}
}

func TestLogger_RecordsAuthenticatedUser(t *testing.T) {
	var buf bytes.Buffer
	// Logger -> an outer wrapping writer -> auth, as in the router
	wrapOuter := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(&statusRecorder{ResponseWriter: w, status: http.StatusOK}, r)
		})
	}
	handler := Logger(logger.NewWriter(&buf))(wrapOuter(AuthMiddleware(testSecret)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }),
	)))

	req := httptest.NewRequest(http.MethodGet, "/api/subscriptions", nil)
	req.Header.Set("Authorization", "Bearer "+token(t, user.RoleAdmin))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var line map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("log line %q: %v", buf.String(), err)
	}
	if line["user_id"] != float64(7) || line["role"] != user.RoleAdmin {
		t.Errorf("log line missing identity: %v", line)
	}
	if line["status"] != float64(http.StatusNoContent) {
		t.Errorf("status = %v, want 204", line["status"])
	}
}
