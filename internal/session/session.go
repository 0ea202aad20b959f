// Package session implements cookie-based login sessions backed by Redis.
//
// A session is a signed JWT carried in an HttpOnly cookie plus a server-side
// record in Redis. The JWT binds the user ID to a random session ID; the
// Redis record makes logout effective immediately, since destroying it
// invalidates the cookie even before the token expires.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"warbler/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// CookieName is the name of the session cookie.
const CookieName = "warbler_session"

// TTL is how long a session lives, both in Redis and in the token's exp claim.
const TTL = time.Hour * 24 * 7

// ErrInvalidSession covers every way a session token can fail verification:
// bad signature, expired token, malformed claims, or a revoked Redis record.
var ErrInvalidSession = errors.New("invalid or expired session")

// Manager creates, verifies, and destroys login sessions.
type Manager struct {
	redis  *redis.Client
	secret []byte
}

// NewManager creates a session manager using the given Redis client and
// signing secret.
func NewManager(rdb *redis.Client, secret string) *Manager {
	return &Manager{redis: rdb, secret: []byte(secret)}
}

func sessionKey(sid string) string {
	return "session:" + sid
}

// Create opens a session for the user and returns the signed cookie token.
func (m *Manager) Create(ctx context.Context, userID uint) (string, error) {
	sid := uuid.NewString()

	if err := m.redis.Set(ctx, sessionKey(sid), userID, TTL).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("session_create").Inc()
		return "", fmt.Errorf("storing session: %w", err)
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": strconv.FormatUint(uint64(userID), 10),
		"sid": sid,
		"exp": now.Add(TTL).Unix(),
		"iat": now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("signing session token: %w", err)
	}

	observability.SessionsCreated.Inc()
	return signed, nil
}

// Verify checks the token signature and the Redis session record, returning
// the user ID and session ID. A missing Redis record means the session was
// logged out, so the token is rejected even if still within its lifetime.
func (m *Manager) Verify(ctx context.Context, tokenString string) (uint, string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidSession
		}
		return m.secret, nil
	})
	if err != nil || !token.Valid {
		return 0, "", ErrInvalidSession
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, "", ErrInvalidSession
	}

	subStr, ok := claims["sub"].(string)
	if !ok {
		return 0, "", ErrInvalidSession
	}
	userIDVal, err := strconv.ParseUint(subStr, 10, 32)
	if err != nil {
		return 0, "", ErrInvalidSession
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return 0, "", ErrInvalidSession
	}

	stored, err := m.redis.Get(ctx, sessionKey(sid)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			observability.RedisErrorRate.WithLabelValues("session_verify").Inc()
		}
		return 0, "", ErrInvalidSession
	}
	if stored != subStr {
		return 0, "", ErrInvalidSession
	}

	return uint(userIDVal), sid, nil
}

// Destroy removes the server-side session record, logging the session out.
func (m *Manager) Destroy(ctx context.Context, sid string) error {
	if err := m.redis.Del(ctx, sessionKey(sid)).Err(); err != nil {
		observability.RedisErrorRate.WithLabelValues("session_destroy").Inc()
		return fmt.Errorf("destroying session: %w", err)
	}
	observability.SessionsDestroyed.Inc()
	return nil
}
