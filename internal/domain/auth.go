package domain

import (
	"context"
	"time"
)

// Контракты auth-подсистемы:
// - кодек подписанных токенов (JWT, реализация в internal/auth/token)
// - хеширование паролей
// - реестры ревокации: блэклист jti и вайтлист refresh-токенов

type Token = string

// Тип токена в клеймах
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

type TokenClaims struct {
	JTI       string // уникальный id токена, единица ревокации
	UserID    UserID
	Kind      TokenKind
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Identity — результат успешной верификации, живёт один запрос
type Identity struct {
	UserID UserID
	Kind   TokenKind
	JTI    string
	Role   Role
}

// Хеширование паролей — внешний примитив, подменяемый в тестах
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encodedHash string) (bool, error)
}

// Кодек токенов. Parse — чисто криптографическая проверка,
// без обращений к хранилищу: блэклист/вайтлист накладывает сервис сессий.
type TokenCodec interface {
	Issue(ctx context.Context, userID UserID, kind TokenKind, role Role) (Token, TokenClaims, error)
	Parse(ctx context.Context, t Token) (TokenClaims, error)
	// Decode парсит без проверки подписи и сроков — только для уже
	// доверенного ввода (например, сразу после Issue).
	Decode(ctx context.Context, t Token) (TokenClaims, error)
}

// Блэклист отозванных jti: наличие записи важнее валидной подписи
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Вайтлист действующих refresh-токенов: jti -> владелец.
// Отсутствие записи означает невалидность даже при валидной подписи.
type RefreshWhitelist interface {
	Put(ctx context.Context, jti string, userID UserID) error
	Get(ctx context.Context, jti string) (UserID, bool, error)
	Del(ctx context.Context, jti string) error
	// All возвращает все живые записи; O(n)-скан, используется только
	// в logout (см. замечание о масштабе в DESIGN.md)
	All(ctx context.Context) (map[string]UserID, error)
}
