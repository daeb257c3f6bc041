package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	for _, keys := range [][]string{nil, {"", ""}} {
		handler := BearerAuthMiddleware(keys)(okHandler())

		req := httptest.NewRequest(http.MethodGet, "/documents", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("keys %q: got %d, want %d", keys, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_Rejections(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	tests := []struct {
		name    string
		header  string
		wantMsg string
	}{
		{"missing header", "", "missing authorization header"},
		{"basic scheme", "Basic dXNlcjpwYXNz", "authorization header must use Bearer scheme"},
		{"wrong key", "Bearer wrong-key", "invalid api key"},
		{"prefix of key", "Bearer secre", "invalid api key"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/search", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("got %d, want %d", rr.Code, http.StatusUnauthorized)
			}
			var errResp ErrorResponse
			if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
				t.Fatalf("decode error response: %v", err)
			}
			if errResp.Code != ErrorCodeUnauthorized || errResp.Error != tc.wantMsg {
				t.Errorf("got %+v", errResp)
			}
		})
	}
}

func TestAuthMiddleware_ValidKeys(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"key1", "key2"})(okHandler())

	for _, key := range []string{"key1", "key2"} {
		req := httptest.NewRequest(http.MethodGet, "/documents", http.NoBody)
		req.Header.Set("Authorization", "Bearer "+key)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("key %s: got %d, want %d", key, rr.Code, http.StatusOK)
		}
	}
}

func TestAuthMiddleware_ExemptRequests(t *testing.T) {
	handler := BearerAuthMiddleware([]string{"secret"})(okHandler())

	requests := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/health", http.NoBody),
		httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody),
		httptest.NewRequest(http.MethodOptions, "/upload", http.NoBody),
	}
	for _, req := range requests {
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("%s %s: got %d, want %d", req.Method, req.URL.Path, rr.Code, http.StatusOK)
		}
	}
}
