package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"github.com/giygas/drugs-eda/config"
	"github.com/giygas/drugs-eda/logging"
)

// RealIPMiddleware extracts the real IP from X-Forwarded-For header
func RealIPMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			// Take the first IP from the comma-separated list
			if idx := strings.Index(xff, ","); idx != -1 {
				xff = xff[:idx]
			}
			r.RemoteAddr = strings.TrimSpace(xff)
		}
		next.ServeHTTP(w, r)
	})
}

// BlockDirectAccessMiddleware rejects requests that reached the server without going
// through the reverse proxy, unless they come from localhost
func BlockDirectAccessMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Real-IP") == "" && r.Header.Get("X-Forwarded-For") == "" {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}

			if host == "127.0.0.1" || host == "::1" || host == "localhost" {
				next.ServeHTTP(w, r)
				return
			}

			logging.Warn("Direct access blocked", "remote_addr", r.RemoteAddr, "user_agent", r.Header.Get("User-Agent"))
			respondWithError(w, http.StatusForbidden, "Direct access not allowed")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// headerBytes approximates the size of h as the sum of its keys and values
func headerBytes(h http.Header) int64 {
	var n int64
	for key, values := range h {
		n += int64(len(key))
		for _, value := range values {
			n += int64(len(value))
		}
	}
	return n
}

// RequestSizeMiddleware rejects oversized requests and caps the body reader.
// The dashboard only serves GETs, so any body is unexpected.
func RequestSizeMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	maxBody, maxHeader := cfg.MaxRequestBody, cfg.MaxHeaderSize

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBody {
				logging.Warn("Request body too large",
					"content_length", r.ContentLength, "max_allowed", maxBody, "remote_addr", r.RemoteAddr)
				respondWithError(w, http.StatusRequestEntityTooLarge,
					fmt.Sprintf("Request body too large. Maximum allowed size is %d bytes", maxBody))
				return
			}

			if size := headerBytes(r.Header); size > maxHeader {
				logging.Warn("Request headers too large",
					"header_size", size, "max_allowed", maxHeader, "remote_addr", r.RemoteAddr)
				respondWithError(w, http.StatusRequestHeaderFieldsTooLarge,
					fmt.Sprintf("Request headers too large. Maximum allowed size is %d bytes", maxHeader))
				return
			}

			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			next.ServeHTTP(w, r)
		})
	}
}

const limiterCleanupInterval = 30 * time.Minute

// RateLimiter manages per-client token buckets
type RateLimiter struct {
	clients  map[string]*ratelimit.Bucket
	mu       sync.RWMutex
	rate     float64
	capacity int64
}

// NewRateLimiter creates a rate limiter refilling rate tokens per second up to capacity
func NewRateLimiter(rate, capacity int64) *RateLimiter {
	return &RateLimiter{
		clients:  make(map[string]*ratelimit.Bucket),
		rate:     float64(rate),
		capacity: capacity,
	}
}

func (rl *RateLimiter) getBucket(clientIP string) *ratelimit.Bucket {
	rl.mu.RLock()
	bucket, exists := rl.clients[clientIP]
	rl.mu.RUnlock()

	if !exists {
		rl.mu.Lock()
		if bucket, exists = rl.clients[clientIP]; !exists {
			bucket = ratelimit.NewBucketWithRate(rl.rate, rl.capacity)
			rl.clients[clientIP] = bucket
		}
		rl.mu.Unlock()
	}

	return bucket
}

// Clients returns the number of tracked clients
func (rl *RateLimiter) Clients() int {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return len(rl.clients)
}

// cleanup removes the clients whose bucket refilled completely
func (rl *RateLimiter) cleanup() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	removed := 0
	for ip, bucket := range rl.clients {
		if bucket.Available() == bucket.Capacity() {
			delete(rl.clients, ip)
			removed++
		}
	}
	return removed
}

// Run cleans up idle clients until ctx is done
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(limiterCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := rl.cleanup(); removed > 0 {
				logging.Debug("Rate limiter clients removed", "count", removed)
			}
		}
	}
}

// getTokenCost returns the tokens a request takes. Charts are rendered per request,
// so they cost the most.
func getTokenCost(r *http.Request) int64 {
	path := r.URL.Path

	switch path {
	case "/metrics", "/favicon.ico":
		return 0
	case "/health", "/api/filters":
		return 1
	case "/", "/api/view":
		return 5
	}

	if strings.HasPrefix(path, "/charts/") {
		return 20
	}
	return 5
}

// Middleware rejects the requests of clients that ran out of tokens
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	limit := strconv.FormatInt(rl.capacity, 10)
	rate := strconv.FormatFloat(rl.rate, 'f', -1, 64)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		clientIP := r.RemoteAddr
		if host, _, err := net.SplitHostPort(clientIP); err == nil {
			clientIP = host
		}

		bucket := rl.getBucket(clientIP)
		tokenCost := getTokenCost(r)

		w.Header().Set("X-RateLimit-Limit", limit)
		w.Header().Set("X-RateLimit-Rate", rate)

		// A refused request takes nothing from the bucket
		if _, ok := bucket.TakeMaxDuration(tokenCost, 0); !ok {
			w.Header().Set("X-RateLimit-Remaining", "0")
			w.Header().Set("Retry-After", "60")
			logging.Warn("Rate limit exceeded", "remote_addr", clientIP, "path", r.URL.Path, "cost", tokenCost)
			respondWithError(w, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.")
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(bucket.Available(), 10))
		next.ServeHTTP(w, r)
	})
}

// respondWithError writes the JSON error envelope the handlers use
func respondWithError(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)

	payload := map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error("Failed to encode JSON response", "error", err)
	}
}
