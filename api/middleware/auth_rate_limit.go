package middleware

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/closetly/closetly-backend/api/responses"
	pkgerrors "github.com/closetly/closetly-backend/pkg/errors"
	"github.com/closetly/closetly-backend/pkg/logger"
)

const blockedMessage = "too many attempts, please try again later"

type counterStore interface {
	IncrWithTTL(context.Context, string, time.Duration) (int64, error)
}

// AuthRateLimitPolicy is a fixed-window throttle for one auth surface
// (login, register, reset). Requests are counted per client IP and, when a
// JSON body carries an email, per hashed email so an attacker rotating
// addresses is still bounded.
type AuthRateLimitPolicy struct {
	scope      string
	window     time.Duration
	ipLimit    int
	emailLimit int
}

// NewAuthRateLimitPolicy builds a policy with the supplied window and limits.
func NewAuthRateLimitPolicy(scope string, window time.Duration, ipLimit, emailLimit int) AuthRateLimitPolicy {
	scope = strings.ToLower(strings.TrimSpace(scope))
	if scope == "" {
		scope = "auth"
	}
	return AuthRateLimitPolicy{scope: scope, window: window, ipLimit: ipLimit, emailLimit: emailLimit}
}

func (p AuthRateLimitPolicy) active() bool {
	return p.window > 0 && (p.ipLimit > 0 || p.emailLimit > 0)
}

// key builds the counter key; kind is "ip" or "email". Only the sha256 of
// the email ever reaches the store.
func (p AuthRateLimitPolicy) key(kind, value string) string {
	if value == "" {
		return ""
	}
	return fmt.Sprintf("rl:%s:%s:%s", kind, p.scope, value)
}

// AuthRateLimit enforces the policy against the counter store. With no
// store (redis not configured) the middleware is a no-op.
func AuthRateLimit(policy AuthRateLimitPolicy, store counterStore, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !policy.active() || store == nil {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			if policy.ipLimit > 0 {
				ip := clientIP(r)
				if blocked := checkCounter(ctx, logg, w, store, policy, "ip", ip, policy.ipLimit); blocked {
					return
				}
			}

			if policy.emailLimit > 0 {
				body, err := io.ReadAll(r.Body)
				if err != nil {
					responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read request"))
					return
				}
				// hand the body back to the real handler
				r.Body = io.NopCloser(bytes.NewReader(body))

				if email := emailFromBody(body); email != "" {
					if blocked := checkCounter(ctx, logg, w, store, policy, "email", sha256Hex(email), policy.emailLimit); blocked {
						return
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

// checkCounter increments the counter for one dimension and writes the 429
// when the limit is exceeded. It reports whether the request was blocked.
func checkCounter(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, store counterStore, policy AuthRateLimitPolicy, kind, value string, limit int) bool {
	key := policy.key(kind, value)
	if key == "" {
		return false
	}

	count, err := store.IncrWithTTL(ctx, key, policy.window)
	if err != nil {
		responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
		return true
	}
	if count <= int64(limit) {
		return false
	}

	if logg != nil {
		logCtx := logg.WithFields(ctx, map[string]any{
			"scope":          policy.scope,
			"dimension":      kind,
			"key":            value,
			"attempts":       count,
			"limit":          limit,
			"window_seconds": int(policy.window.Seconds()),
		})
		logg.Warn(logCtx, "auth rate limit exceeded")
	}
	responses.WriteError(ctx, nil, w, pkgerrors.New(pkgerrors.CodeRateLimit, blockedMessage))
	return true
}

// clientIP prefers proxy headers over the socket address.
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}

func emailFromBody(payload []byte) string {
	var probe struct {
		Email string `json:"email"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(probe.Email))
}

func sha256Hex(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])
}
