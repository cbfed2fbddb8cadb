package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClient_UnwrapsData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/agents/7", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 7, "name": "Email Assistant", "price": 999},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL, Token: "tok"})
	agent, err := c.Agents().Get(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, int64(7), agent.ID)
	assert.Equal(t, "Email Assistant", agent.Name)
	assert.Equal(t, int64(999), agent.Price)
}

func TestClient_DecodesErrorEnvelope(t *testing.T) {
	tests := []struct {
		name   string
		status int
		code   string
		check  func(*APIError) bool
	}{
		{"not found", http.StatusNotFound, "NOT_FOUND", (*APIError).IsNotFound},
		{"conflict", http.StatusConflict, "CONFLICT", (*APIError).IsConflict},
		{"payment", http.StatusBadRequest, "PAYMENT_NOT_COMPLETED", (*APIError).IsPaymentNotCompleted},
		{"rate limited", http.StatusTooManyRequests, "RATE_LIMITED", (*APIError).IsRateLimited},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_ = json.NewEncoder(w).Encode(map[string]interface{}{
					"success": false,
					"error":   map[string]string{"code": tt.code, "message": "nope"},
				})
			}))
			defer srv.Close()

			_, err := NewClient(Config{BaseURL: srv.URL}).Subscriptions().Complete(context.Background(), KindAgent, 1, "pi_1")
			apiErr, ok := AsAPIError(err)
			require.True(t, ok, "expected APIError, got %v", err)
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.True(t, tt.check(apiErr))
		})
	}
}

func TestClient_LoginStoresToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body LoginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body.Username)
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"accessToken":  "access",
				"refreshToken": "refresh",
				"user":         map[string]interface{}{"id": 1, "username": "alice", "role": "user"},
			},
		})
	}))
	defer srv.Close()

	c := NewClient(Config{BaseURL: srv.URL})
	resp, err := c.Login(context.Background(), "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "access", c.GetToken())
	assert.Equal(t, "alice", resp.User.Username)
}

func TestSubscriptionService_UnknownKind(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://unused"})
	_, err := c.Subscriptions().Checkout(context.Background(), "bundle", 1)
	assert.Error(t, err)
	_, err = c.Subscriptions().Cancel(context.Background(), "bundle", 1)
	assert.Error(t, err)
}

func TestCheckout_PaymentIntentID(t *testing.T) {
	tests := []struct {
		secret string
		want   string
	}{
		{"pi_123_secret_abc", "pi_123"},
		{"pi_sandbox_9f1c_secret_77aa", "pi_sandbox_9f1c"},
		{"garbage", ""},
		{"", ""},
	}
	for _, tt := range tests {
		c := Checkout{ClientSecret: tt.secret}
		if got := c.PaymentIntentID(); got != tt.want {
			t.Errorf("PaymentIntentID(%q) = %q, want %q", tt.secret, got, tt.want)
		}
	}
}
