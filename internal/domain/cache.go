package domain

import "context"

// Префиксы и ключи кеша — единое место, чтобы не расползались по коду.
const (
	CachePrefixBlacklist = "blacklist:"
	CachePrefixRefresh   = "refresh:"
)

func CacheKeyBlacklist(jti string) string { return CachePrefixBlacklist + jti }
func CacheKeyRefresh(jti string) string   { return CachePrefixRefresh + jti }

// Простой k/v интерфейс с TTL. Реализация — Redis.
// Get возвращает (nil, nil) при отсутствии ключа.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	// Keys — скан по префиксу; нужен только logout-у (редкая операция)
	Keys(ctx context.Context, prefix string) ([]string, error)
	Ping(context.Context) error
	Close()
}
