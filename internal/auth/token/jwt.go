package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

type Manager struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func New(secret, issuer string, accessTTL, refreshTTL time.Duration) *Manager {
	return &Manager{
		secret:     []byte(secret),
		issuer:     issuer,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// внутренний тип для подписи/парсинга с jwt.RegisteredClaims
type jwtClaims struct {
	UserID domain.UserID    `json:"id"`
	Kind   domain.TokenKind `json:"type"`
	Role   domain.Role      `json:"role"`
	jwt.RegisteredClaims
}

// Ensure: Manager implements domain.TokenCodec
var _ domain.TokenCodec = (*Manager)(nil)

func (m *Manager) ttl(kind domain.TokenKind) time.Duration {
	if kind == domain.TokenRefresh {
		return m.refreshTTL
	}
	return m.accessTTL
}

// Issue выпускает JWT со свежим jti; TTL зависит от типа токена
func (m *Manager) Issue(_ context.Context, userID domain.UserID, kind domain.TokenKind, role domain.Role) (domain.Token, domain.TokenClaims, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()

	cl := jwtClaims{
		UserID: userID,
		Kind:   kind,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl(kind))),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, cl)
	tokenStr, err := t.SignedString(m.secret)
	if err != nil {
		return "", domain.TokenClaims{}, err
	}

	return tokenStr, toDomain(cl), nil
}

// Parse валидирует подпись и сроки. Никаких обращений к хранилищу:
// блэклист/вайтлист проверяет сервис сессий поверх.
func (m *Manager) Parse(_ context.Context, raw domain.Token) (domain.TokenClaims, error) {
	var out jwtClaims
	tkn, err := jwt.ParseWithClaims(string(raw), &out, func(token *jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		// просроченный токен отличаем от битой подписи/формата
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.TokenClaims{}, domain.ErrTokenExpired
		}
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	if !tkn.Valid {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}

	return toDomain(out), nil
}

// Decode парсит клеймы без проверки подписи и сроков.
// Только для доверенного ввода (например, сразу после Issue).
func (m *Manager) Decode(_ context.Context, raw domain.Token) (domain.TokenClaims, error) {
	var out jwtClaims
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(string(raw), &out); err != nil {
		return domain.TokenClaims{}, domain.ErrInvalidToken
	}
	return toDomain(out), nil
}

func toDomain(cl jwtClaims) domain.TokenClaims {
	out := domain.TokenClaims{
		JTI:    cl.ID,
		UserID: cl.UserID,
		Kind:   cl.Kind,
		Role:   cl.Role,
	}
	if cl.IssuedAt != nil {
		out.IssuedAt = cl.IssuedAt.Time
	}
	if cl.ExpiresAt != nil {
		out.ExpiresAt = cl.ExpiresAt.Time
	}
	return out
}
