package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/giygas/drugs-eda/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestGetTokenCost(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		expectedCost int64
	}{
		{"metrics", "/metrics", 0},
		{"favicon", "/favicon.ico", 0},
		{"health", "/health", 1},
		{"filters", "/api/filters", 1},
		{"page", "/", 5},
		{"view", "/api/view", 5},
		{"ratings chart", "/charts/ratings.png", 20},
		{"box plot chart", "/charts/ratings-by-class.png", 20},
		{"unknown chart", "/charts/pie.png", 20},
		{"default", "/unknown", 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			if cost := getTokenCost(req); cost != tt.expectedCost {
				t.Errorf("Expected cost %d for %s, got %d", tt.expectedCost, tt.path, cost)
			}
		})
	}
}

func TestRealIPMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		remoteAddr string
		expected   string
	}{
		{"single IP", "203.0.113.1", "192.168.1.1:12345", "203.0.113.1"},
		{"proxy chain", "203.0.113.1, 10.0.0.1, 10.0.0.2", "192.168.1.1:12345", "203.0.113.1"},
		{"spaces", "  203.0.113.7  ", "192.168.1.1:12345", "203.0.113.7"},
		{"no header", "", "192.168.1.1:12345", "192.168.1.1:12345"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}

			var got string
			handler := RealIPMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.RemoteAddr
			}))
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.expected {
				t.Errorf("Expected RemoteAddr %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBlockDirectAccessMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		remoteAddr     string
		header         string
		expectedStatus int
	}{
		{"localhost IPv4", "127.0.0.1:5000", "", http.StatusOK},
		{"localhost IPv6", "[::1]:5000", "", http.StatusOK},
		{"direct remote", "192.168.1.20:5000", "", http.StatusForbidden},
		{"through proxy", "192.168.1.20:5000", "X-Real-IP", http.StatusOK},
		{"forwarded", "192.168.1.20:5000", "X-Forwarded-For", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.header != "" {
				req.Header.Set(tt.header, "203.0.113.1")
			}

			rr := httptest.NewRecorder()
			BlockDirectAccessMiddleware(okHandler()).ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
		})
	}
}

func TestRequestSizeMiddleware(t *testing.T) {
	cfg := &config.Config{MaxRequestBody: 100, MaxHeaderSize: 200}
	handler := RequestSizeMiddleware(cfg)(okHandler())

	tests := []struct {
		name           string
		body           string
		header         string
		expectedStatus int
	}{
		{"small request", "", "", http.StatusOK},
		{"body at limit", strings.Repeat("a", 100), "", http.StatusOK},
		{"body too large", strings.Repeat("a", 101), "", http.StatusRequestEntityTooLarge},
		{"headers too large", "", strings.Repeat("h", 250), http.StatusRequestHeaderFieldsTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/", strings.NewReader(tt.body))
			if tt.header != "" {
				req.Header.Set("X-Large", tt.header)
			}

			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				assertErrorEnvelope(t, rr, tt.expectedStatus)
			}
		})
	}
}

func TestRateLimiterMiddleware(t *testing.T) {
	// One refill token per second, room for two chart renders
	rl := NewRateLimiter(1, 40)
	handler := rl.Middleware(okHandler())

	chart := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", "/charts/ratings.png", nil)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 2; i++ {
		if rr := chart("10.0.0.1:1000"); rr.Code != http.StatusOK {
			t.Fatalf("Expected request %d to pass, got %d", i+1, rr.Code)
		}
	}

	rr := chart("10.0.0.1:2000")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected status %d, got %d", http.StatusTooManyRequests, rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("Expected Retry-After header")
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("Expected X-RateLimit-Remaining 0, got %s", rr.Header().Get("X-RateLimit-Remaining"))
	}
	assertErrorEnvelope(t, rr, http.StatusTooManyRequests)

	// Another client has its own bucket
	if rr := chart("10.0.0.2:1000"); rr.Code != http.StatusOK {
		t.Errorf("Expected another client to pass, got %d", rr.Code)
	}
	if rl.Clients() != 2 {
		t.Errorf("Expected 2 clients, got %d", rl.Clients())
	}
}

func TestRateLimiterRefusalKeepsTokens(t *testing.T) {
	// Room for one chart render and a few API calls
	rl := NewRateLimiter(1, 30)
	handler := rl.Middleware(okHandler())

	get := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("GET", path, nil)
		req.RemoteAddr = "10.0.0.1:1000"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr
	}

	if rr := get("/charts/ratings.png"); rr.Code != http.StatusOK {
		t.Fatalf("Expected first chart to pass, got %d", rr.Code)
	}
	if rr := get("/charts/ratings.png"); rr.Code != http.StatusTooManyRequests {
		t.Fatalf("Expected second chart to be refused, got %d", rr.Code)
	}

	// The refused chart left its 10 tokens in the bucket
	rr := get("/api/view")
	if rr.Code != http.StatusOK {
		t.Fatalf("Expected API call to pass after a refusal, got %d", rr.Code)
	}
	remaining, err := strconv.Atoi(rr.Header().Get("X-RateLimit-Remaining"))
	if err != nil {
		t.Fatalf("Invalid X-RateLimit-Remaining: %v", err)
	}
	if remaining < 5 {
		t.Errorf("Expected at least 5 tokens left, got %d", remaining)
	}
}

func TestRateLimiterHeaders(t *testing.T) {
	rl := NewRateLimiter(5, 500)

	req := httptest.NewRequest("GET", "/api/view", nil)
	rr := httptest.NewRecorder()
	rl.Middleware(okHandler()).ServeHTTP(rr, req)

	if rr.Header().Get("X-RateLimit-Limit") != "500" {
		t.Errorf("Expected X-RateLimit-Limit 500, got %s", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Rate") != "5" {
		t.Errorf("Expected X-RateLimit-Rate 5, got %s", rr.Header().Get("X-RateLimit-Rate"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") != "495" {
		t.Errorf("Expected X-RateLimit-Remaining 495, got %s", rr.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewRateLimiter(1, 100)
	rl.getBucket("10.0.0.1")
	rl.getBucket("10.0.0.2").TakeAvailable(50)

	if removed := rl.cleanup(); removed != 1 {
		t.Errorf("Expected 1 idle client removed, got %d", removed)
	}
	if rl.Clients() != 1 {
		t.Errorf("Expected 1 remaining client, got %d", rl.Clients())
	}
}

func assertErrorEnvelope(t *testing.T, rr *httptest.ResponseRecorder, code int) {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected a JSON error body, got %q: %v", rr.Body.String(), err)
	}
	if body["code"] != float64(code) {
		t.Errorf("Expected code %d, got %v", code, body["code"])
	}
	if body["error"] != http.StatusText(code) {
		t.Errorf("Expected error %q, got %v", http.StatusText(code), body["error"])
	}
	if _, ok := body["message"]; !ok {
		t.Error("Expected message field")
	}
}

func TestHeaderBytes(t *testing.T) {
	h := http.Header{}
	h.Set("Accept", "text/html")
	h.Add("X-Test", "a")
	h.Add("X-Test", "bc")

	// "Accept"+"text/html" + "X-Test"+"a"+"bc"
	if got := headerBytes(h); got != 24 {
		t.Errorf("Expected 24 header bytes, got %d", got)
	}
	if got := headerBytes(http.Header{}); got != 0 {
		t.Errorf("Expected 0 header bytes, got %d", got)
	}
}
