package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fdg312/meal-hub/internal/config"
	"github.com/fdg312/meal-hub/internal/storage/memory"
)

func setupTestService() *Service {
	memStorage := memory.New()
	cfg := &config.Config{
		AuthEnabled:   true,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "meal-hub-test",
		JWTTTLMinutes: 60,
	}

	return NewService(cfg, memStorage.GetUsersStorage())
}

func TestHandleDevAuth(t *testing.T) {
	service := setupTestService()
	handler := NewHandlers(service)

	t.Run("Success", func(t *testing.T) {
		reqBody := DevAuthRequest{Email: "alice@example.com", Name: "Alice"}
		body, _ := json.Marshal(reqBody)
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d. Body: %s", w.Code, w.Body.String())
		}

		var resp DevAuthResponse
		if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}

		if resp.AccessToken == "" {
			t.Error("expected access_token not empty")
		}
		if resp.TokenType != "Bearer" {
			t.Errorf("expected token_type Bearer, got %q", resp.TokenType)
		}
		if resp.ExpiresIn != int64((30 * 24 * time.Hour).Seconds()) {
			t.Errorf("expected expires_in 2592000, got %d", resp.ExpiresIn)
		}
		if resp.UserID == "" {
			t.Error("expected user_id not empty")
		}
	})

	t.Run("MissingEmail", func(t *testing.T) {
		body, _ := json.Marshal(DevAuthRequest{})
		req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewReader(body))
		w := httptest.NewRecorder()

		handler.HandleDevAuth(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", w.Code)
		}
	})

	t.Run("SameEmailSameUser", func(t *testing.T) {
		signIn := func() string {
			body, _ := json.Marshal(DevAuthRequest{Email: "bob@example.com"})
			req := httptest.NewRequest("POST", "/v1/auth/dev", bytes.NewReader(body))
			w := httptest.NewRecorder()
			handler.HandleDevAuth(w, req)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			var resp DevAuthResponse
			json.NewDecoder(w.Body).Decode(&resp)
			return resp.UserID
		}

		first := signIn()
		second := signIn()
		if first != second {
			t.Errorf("expected same user id across sign-ins, got %q and %q", first, second)
		}
	})
}

func TestMiddlewareAuth(t *testing.T) {
	service := setupTestService()
	cfg := &config.Config{
		AuthEnabled:   true,
		AuthRequired:  true,
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "meal-hub-test",
		JWTTTLMinutes: 60,
	}

	middleware := NewMiddleware(cfg, service)

	t.Run("ValidToken", func(t *testing.T) {
		token, err := service.generateJWT("test_user_123")
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/plans", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		var calledNext bool
		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calledNext = true
			userID, ok := GetUserID(r.Context())
			if !ok || userID != "test_user_123" {
				t.Errorf("expected user_id in context")
			}
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !calledNext {
			t.Error("expected next handler to be called")
		}

		if w.Code != http.StatusOK {
			t.Errorf("expected status 200, got %d", w.Code)
		}
	})

	t.Run("MissingToken", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/plans", nil)
		w := httptest.NewRecorder()

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/plans", nil)
		req.Header.Set("Authorization", "Bearer invalid_token")
		w := httptest.NewRecorder()

		handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %d", w.Code)
		}
	})
}

func TestMiddlewareAuthDisabled(t *testing.T) {
	service := setupTestService()
	cfg := &config.Config{
		AuthEnabled:  false,
		AuthRequired: false,
	}

	middleware := NewMiddleware(cfg, service)

	req := httptest.NewRequest("GET", "/v1/plans", nil)
	w := httptest.NewRecorder()

	var calledNext bool
	handler := middleware.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calledNext = true
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(w, req)

	if !calledNext {
		t.Error("expected next handler to be called when auth disabled")
	}

	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	service := setupTestService()
	cfg := &config.Config{
		JWTSecret:     "test-secret-key-for-testing-only",
		JWTIssuer:     "meal-hub-test",
		JWTTTLMinutes: 60,
	}

	middleware := NewMiddleware(cfg, service)

	t.Run("NoTokenPasses", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/plans", nil)
		w := httptest.NewRecorder()

		var called bool
		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !called || w.Code != http.StatusOK {
			t.Fatalf("expected passthrough with 200, got called=%v status=%d", called, w.Code)
		}
	})

	t.Run("ValidTokenAddsContext", func(t *testing.T) {
		token, err := service.generateJWT("test_user_123")
		if err != nil {
			t.Fatal(err)
		}

		req := httptest.NewRequest("GET", "/v1/plans", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()

		var gotSub string
		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sub, _ := GetUserID(r.Context())
			gotSub = sub
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if gotSub != "test_user_123" {
			t.Fatalf("expected sub in context, got %q", gotSub)
		}
	})

	t.Run("InvalidTokenRejected", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/v1/plans", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()

		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Fatal("should not call next handler")
		}))

		handler.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("DevAuthPathAlwaysAccessible", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/v1/auth/dev", nil)
		req.Header.Set("Authorization", "Bearer invalid")
		w := httptest.NewRecorder()

		var called bool
		handler := middleware.OptionalAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusOK)
		}))

		handler.ServeHTTP(w, req)

		if !called || w.Code != http.StatusOK {
			t.Fatalf("expected /v1/auth/dev passthrough, called=%v status=%d", called, w.Code)
		}
	})
}

func TestJWTGeneration(t *testing.T) {
	service := setupTestService()

	token, err := service.generateJWT("test_user_123")
	if err != nil {
		t.Fatal(err)
	}

	if token == "" {
		t.Error("expected token not empty")
	}

	userID, err := service.VerifyJWT(token)
	if err != nil {
		t.Fatal(err)
	}

	if userID != "test_user_123" {
		t.Errorf("expected user_id 'test_user_123', got '%s'", userID)
	}
}

func TestFindOrCreateUser(t *testing.T) {
	service := setupTestService()
	ctx := context.Background()

	t.Run("CreateNewUser", func(t *testing.T) {
		user, err := service.findOrCreateUser(ctx, "new@example.com", "")
		if err != nil {
			t.Fatal(err)
		}

		if user.Email != "new@example.com" {
			t.Errorf("expected email 'new@example.com', got '%s'", user.Email)
		}
		if user.Name != "new" {
			t.Errorf("expected name derived from email, got '%s'", user.Name)
		}
	})

	t.Run("FindExistingUser", func(t *testing.T) {
		user1, err := service.findOrCreateUser(ctx, "existing@example.com", "Existing")
		if err != nil {
			t.Fatal(err)
		}

		user2, err := service.findOrCreateUser(ctx, "existing@example.com", "Other Name")
		if err != nil {
			t.Fatal(err)
		}

		if user1.ID != user2.ID {
			t.Error("expected same user ID for existing email")
		}
	})
}
