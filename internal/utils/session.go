package utils

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/signalforge/zairix-api/internal/domain"
)

// ErrInvalidSession covers every verification failure: bad signature,
// expiry, or malformed claims. Callers treat it uniformly as
// "unauthenticated" so the error does not leak which check failed.
var ErrInvalidSession = errors.New("invalid session")

// SessionManager signs and verifies the session cookie payload.
// It never touches persistence: claims in, claims out.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a new session manager
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// Issue signs the session claims with HS256, setting iat/exp from the
// current time and the configured TTL.
func (m *SessionManager) Issue(userID, email string, plan domain.Plan, role domain.Role, sessionID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"plan":  string(plan),
		"role":  string(role),
		"sid":   sessionID,
		"exp":   now.Add(m.ttl).Unix(),
		"iat":   now.Unix(),
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}

	return signed, nil
}

// Verify checks the signature and expiry, then structurally validates
// the claim shape.
func (m *SessionManager) Verify(tokenString string) (*domain.SessionClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil || !token.Valid {
		return nil, ErrInvalidSession
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidSession
	}

	sub, ok := mc["sub"].(string)
	if !ok || sub == "" {
		return nil, ErrInvalidSession
	}

	email, ok := mc["email"].(string)
	if !ok || email == "" {
		return nil, ErrInvalidSession
	}

	planStr, ok := mc["plan"].(string)
	if !ok || !domain.Plan(planStr).Valid() {
		return nil, ErrInvalidSession
	}

	roleStr, ok := mc["role"].(string)
	if !ok || !domain.Role(roleStr).Valid() {
		return nil, ErrInvalidSession
	}

	sid, ok := mc["sid"].(string)
	if !ok || sid == "" {
		return nil, ErrInvalidSession
	}

	exp, ok := mc["exp"].(float64)
	if !ok {
		return nil, ErrInvalidSession
	}

	iat, ok := mc["iat"].(float64)
	if !ok {
		return nil, ErrInvalidSession
	}

	claims := &domain.SessionClaims{
		UserID:    sub,
		Email:     email,
		Plan:      domain.Plan(planStr),
		Role:      domain.Role(roleStr),
		SessionID: sid,
		Exp:       int64(exp),
		Iat:       int64(iat),
	}

	if claims.IsExpired() {
		return nil, ErrInvalidSession
	}

	return claims, nil
}

// TTLSeconds returns the session lifetime in whole seconds, used for
// the cookie Max-Age.
func (m *SessionManager) TTLSeconds() int {
	return int(m.ttl.Seconds())
}
