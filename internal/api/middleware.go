package api

import (
	"database/sql"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"quill/internal/db"
	"quill/internal/ratelimit"
)

type rateLimits struct {
	ReadsPerMinute int
	WritesPerDay   int
	SearchPerMin   int
	ComposePerMin  int
}

var defaultRateLimits = rateLimits{
	ReadsPerMinute: 600,
	WritesPerDay:   500,
	SearchPerMin:   60,
	ComposePerMin:  120,
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		w.Header().Set("Access-Control-Max-Age", "86400")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware keys budgets by client IP. There is no account system,
// so the IP is the closest thing to a caller identity. The writes budget also
// consults version rows on disk, which keeps the daily quota honest across
// server restarts while the in-memory windows start fresh.
func rateLimitMiddleware(database *sql.DB, limiter *ratelimit.Limiter, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		now := time.Now().UTC()
		ip := clientIP(r)
		for _, c := range classifyRateChecks(r) {
			key := ip + ":" + c.name
			res := limiter.Allow(key, c.limit, c.window, now)
			if res.Allowed && c.name == "writes" {
				count, oldest, err := db.CountVersionsSince(r.Context(), database, now.Add(-c.window))
				if err == nil && count >= c.limit {
					res.Allowed = false
					res.Remaining = 0
					res.ResetAt = now.Add(c.window)
					if oldest != nil {
						res.ResetAt = oldest.Add(c.window)
					}
				}
			}
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))
			if !res.Allowed {
				retryAfter := int(time.Until(res.ResetAt).Seconds())
				if retryAfter < 1 {
					retryAfter = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				writeError(w, http.StatusTooManyRequests, "rate limit exceeded: "+c.name)
				return
			}
		}

		next.ServeHTTP(w, r)
	})
}

type rateCheck struct {
	name   string
	limit  int
	window time.Duration
}

func classifyRateChecks(r *http.Request) []rateCheck {
	checks := make([]rateCheck, 0, 2)
	path := r.URL.Path
	if r.Method == http.MethodGet {
		checks = append(checks, rateCheck{
			name:   "reads",
			limit:  defaultRateLimits.ReadsPerMinute,
			window: time.Minute,
		})
	} else {
		checks = append(checks, rateCheck{
			name:   "writes",
			limit:  defaultRateLimits.WritesPerDay,
			window: 24 * time.Hour,
		})
	}
	if r.Method == http.MethodGet && path == "/api/v1/search" {
		checks = append(checks, rateCheck{
			name:   "search",
			limit:  defaultRateLimits.SearchPerMin,
			window: time.Minute,
		})
	}
	if r.Method == http.MethodPost && path == "/api/v1/compose" {
		checks = append(checks, rateCheck{
			name:   "compose",
			limit:  defaultRateLimits.ComposePerMin,
			window: time.Minute,
		})
	}
	return checks
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		parts := strings.Split(fwd, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
