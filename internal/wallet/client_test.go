package wallet

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestFactory(handler http.HandlerFunc) (*Factory, *httptest.Server) {
	srv := httptest.NewServer(handler)
	return NewFactory(srv.URL), srv
}

func TestClient_AuthCheck(t *testing.T) {
	t.Run("returns fresh token and resolved identity", func(t *testing.T) {
		var gotAuth, gotRequestID string
		factory, srv := newTestFactory(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/auth-check" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			gotAuth = r.Header.Get("Authorization")
			gotRequestID = r.Header.Get("X-Request-Id")
			_ = json.NewEncoder(w).Encode(AuthCheckResult{
				Token:         "fresh-token",
				WalletAddress: "wallet-addr",
				UserID:        "user-1",
			})
		})
		defer srv.Close()

		result, err := factory.Client("old-token").AuthCheck(context.Background())
		if err != nil {
			t.Fatalf("AuthCheck failed: %v", err)
		}

		if result.Token != "fresh-token" {
			t.Errorf("expected fresh-token, got %q", result.Token)
		}
		if result.WalletAddress != "wallet-addr" {
			t.Errorf("expected wallet-addr, got %q", result.WalletAddress)
		}
		if gotAuth != "Bearer old-token" {
			t.Errorf("expected bearer header, got %q", gotAuth)
		}
		if gotRequestID == "" {
			t.Error("expected X-Request-Id header to be set")
		}
	})

	t.Run("rejects response without token", func(t *testing.T) {
		factory, srv := newTestFactory(func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(AuthCheckResult{})
		})
		defer srv.Close()

		_, err := factory.Client("tok").AuthCheck(context.Background())
		if err == nil {
			t.Fatal("expected error for empty token in response")
		}
	})

	t.Run("decodes upstream error body", func(t *testing.T) {
		factory, srv := newTestFactory(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": "token revoked"}`))
		})
		defer srv.Close()

		_, err := factory.Client("tok").AuthCheck(context.Background())
		if err == nil {
			t.Fatal("expected error for 401 response")
		}

		apiErr, ok := err.(*APIError)
		if !ok {
			t.Fatalf("expected *APIError, got %T", err)
		}
		if apiErr.StatusCode != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", apiErr.StatusCode)
		}
		if apiErr.Message != "token revoked" {
			t.Errorf("expected message from error body, got %q", apiErr.Message)
		}
		if !IsUnauthorized(err) {
			t.Error("IsUnauthorized should report true for a 401")
		}
	})
}

func TestClient_UnauthenticatedOmitsBearer(t *testing.T) {
	factory, srv := newTestFactory(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "" {
			t.Errorf("expected no Authorization header, got %q", auth)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"walletAddress": "addr"})
	})
	defer srv.Close()

	addr, err := factory.Client("").WalletAddress(context.Background())
	if err != nil {
		t.Fatalf("WalletAddress failed: %v", err)
	}
	if addr != "addr" {
		t.Errorf("expected addr, got %q", addr)
	}
}

func TestClient_SearchTokens(t *testing.T) {
	factory, srv := newTestFactory(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "bonk" {
			t.Errorf("expected query bonk, got %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"tokens": []Token{
				{Address: "mint-1", Symbol: "BONK", Name: "Bonk", Decimals: 5},
			},
		})
	})
	defer srv.Close()

	tokens, err := factory.Client("tok").SearchTokens(context.Background(), "bonk")
	if err != nil {
		t.Fatalf("SearchTokens failed: %v", err)
	}
	if len(tokens) != 1 || tokens[0].Symbol != "BONK" {
		t.Errorf("unexpected tokens: %+v", tokens)
	}
}

func TestClient_SendToken(t *testing.T) {
	factory, srv := newTestFactory(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req SendTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		if req.Recipient != "recipient-addr" || req.Amount != "1.5" {
			t.Errorf("unexpected request body: %+v", req)
		}

		_ = json.NewEncoder(w).Encode(SendTokenResult{TransactionID: "tx-1", Status: "submitted"})
	})
	defer srv.Close()

	result, err := factory.Client("tok").SendToken(context.Background(), SendTokenRequest{
		Recipient: "recipient-addr",
		Amount:    "1.5",
	})
	if err != nil {
		t.Fatalf("SendToken failed: %v", err)
	}
	if result.TransactionID != "tx-1" {
		t.Errorf("expected tx-1, got %q", result.TransactionID)
	}
}

func TestParseErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"error field", `{"error": "bad token"}`, "bad token"},
		{"message field", `{"message": "not found"}`, "not found"},
		{"plain text", "internal error\n", "internal error"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseErrorMessage([]byte(tt.body)); got != tt.want {
				t.Errorf("parseErrorMessage(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}
