package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hoangminh/cardbox/internal/logging"
)

// incrWithExpiry atomically bumps the counter and starts the window on the
// first hit.
const incrWithExpiry = `
	local current = redis.call("INCR", KEYS[1])
	if current == 1 then
		redis.call("EXPIRE", KEYS[1], ARGV[1])
	end
	return current
`

// RateLimiter caps requests per client IP over a fixed window, counting in
// Redis. Upload relaying spends the ImgBB quota, so that endpoint sits behind
// one of these. When Redis is unreachable the limiter fails open: losing
// uploads over a counter outage is worse than briefly losing the cap.
type RateLimiter struct {
	redis  *redis.Client
	limit  int64
	window time.Duration
	prefix string
}

func NewRateLimiter(redisClient *redis.Client, limit int64, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{
		redis:  redisClient,
		limit:  limit,
		window: window,
		prefix: prefix,
	}
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.redis == nil {
			next.ServeHTTP(w, r)
			return
		}

		key := rl.prefix + GetClientIP(r)
		ttlSeconds := int64(rl.window.Seconds())

		result, err := rl.redis.Eval(r.Context(), incrWithExpiry, []string{key}, ttlSeconds).Result()
		if err != nil {
			logging.Error("Rate limit Redis error", map[string]interface{}{"error": err.Error()})
			next.ServeHTTP(w, r)
			return
		}

		count, ok := result.(int64)
		if !ok {
			logging.Error("Rate limit script returned unexpected type", map[string]interface{}{
				"result": result,
			})
			next.ServeHTTP(w, r)
			return
		}

		if count > rl.limit {
			writeError(w, http.StatusTooManyRequests, "Rate limit exceeded")
			return
		}

		next.ServeHTTP(w, r)
	})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetClientIP resolves the client address behind proxies: X-Forwarded-For
// first, then X-Real-IP, then RemoteAddr.
func GetClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}
