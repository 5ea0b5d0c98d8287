package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Kind is the purpose a token was issued for.
type Kind string

const (
	KindAccess       Kind = "access"
	KindConfirmation Kind = "confirmation"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
	ErrWrongTokenType = errors.New("wrong token type")
	ErrMissingSubject = errors.New("missing subject")
	ErrUnknownKind    = errors.New("unknown token kind")
)

// Claims is the signed payload: {sub, exp, type}.
type Claims struct {
	Type Kind `json:"type"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 tokens with a single secret.
type Manager struct {
	secret     []byte
	accessTTL  time.Duration
	confirmTTL time.Duration
	now        func() time.Time
}

type Option func(*Manager)

// WithClock overrides time.Now for both issuing and verifying.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(secret string, accessTTL, confirmTTL time.Duration, opts ...Option) *Manager {
	m := &Manager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		confirmTTL: confirmTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// TTL returns how long tokens of kind stay valid.
func (m *Manager) TTL(kind Kind) (time.Duration, error) {
	switch kind {
	case KindAccess:
		return m.accessTTL, nil
	case KindConfirmation:
		return m.confirmTTL, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
}

// Issue signs a token of kind for subject.
func (m *Manager) Issue(subject string, kind Kind) (string, error) {
	ttl, err := m.TTL(kind)
	if err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Type: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(m.now().Add(ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", kind, err)
	}
	return signed, nil
}

// Verify checks signature, expiry, kind and subject in that order and
// returns the subject. Each failure maps to exactly one sentinel error.
func (m *Manager) Verify(tokenStr string, expected Kind) (string, error) {
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrTokenExpired
		}
		return "", ErrInvalidToken
	}

	if claims.Type != expected {
		return "", ErrWrongTokenType
	}
	if claims.Subject == "" {
		return "", ErrMissingSubject
	}
	return claims.Subject, nil
}
