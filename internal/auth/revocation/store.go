package revocation

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

// KV — минимальный интерфейс, который нам нужен от кеша.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, val []byte, ttlSeconds int) error
	Del(ctx context.Context, keys ...string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
}

// Blacklist — реестр отозванных jti. Наличие записи перевешивает
// валидную подпись. TTL везде равен refresh-TTL: это окно хранения,
// после которого и сам refresh-токен уже истёк.
type Blacklist struct {
	kv  KV
	ttl time.Duration
}

var _ domain.TokenBlacklist = (*Blacklist)(nil)

func NewBlacklist(kv KV, retention time.Duration) *Blacklist {
	return &Blacklist{kv: kv, ttl: retention}
}

func (b *Blacklist) Revoke(ctx context.Context, jti string) error {
	err := b.kv.Set(ctx, domain.CacheKeyBlacklist(jti), []byte("true"), int(b.ttl.Seconds()))
	if err != nil {
		return fmt.Errorf("%w: blacklist set: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (b *Blacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	v, err := b.kv.Get(ctx, domain.CacheKeyBlacklist(jti))
	if err != nil {
		return false, fmt.Errorf("%w: blacklist get: %v", domain.ErrStoreUnavailable, err)
	}
	return v != nil, nil
}

// Whitelist — реестр действующих refresh-токенов: jti -> владелец.
// Значение — десятичный userID; отсутствие записи означает невалидность
// даже при валидной подписи.
type Whitelist struct {
	kv  KV
	ttl time.Duration
}

var _ domain.RefreshWhitelist = (*Whitelist)(nil)

func NewWhitelist(kv KV, ttl time.Duration) *Whitelist {
	return &Whitelist{kv: kv, ttl: ttl}
}

func (wl *Whitelist) Put(ctx context.Context, jti string, userID domain.UserID) error {
	val := strconv.FormatInt(userID, 10)
	err := wl.kv.Set(ctx, domain.CacheKeyRefresh(jti), []byte(val), int(wl.ttl.Seconds()))
	if err != nil {
		return fmt.Errorf("%w: whitelist set: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

func (wl *Whitelist) Get(ctx context.Context, jti string) (domain.UserID, bool, error) {
	v, err := wl.kv.Get(ctx, domain.CacheKeyRefresh(jti))
	if err != nil {
		return 0, false, fmt.Errorf("%w: whitelist get: %v", domain.ErrStoreUnavailable, err)
	}
	if v == nil {
		return 0, false, nil
	}
	id, err := strconv.ParseInt(string(v), 10, 64)
	if err != nil {
		// мусор в значении трактуем как отсутствие записи
		return 0, false, nil
	}
	return id, true, nil
}

func (wl *Whitelist) Del(ctx context.Context, jti string) error {
	if err := wl.kv.Del(ctx, domain.CacheKeyRefresh(jti)); err != nil {
		return fmt.Errorf("%w: whitelist del: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// All сканирует все живые записи вайтлиста. O(n) по активным
// refresh-токенам — приемлемо, пока используется только в logout.
func (wl *Whitelist) All(ctx context.Context) (map[string]domain.UserID, error) {
	keys, err := wl.kv.Keys(ctx, domain.CachePrefixRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: whitelist keys: %v", domain.ErrStoreUnavailable, err)
	}
	out := make(map[string]domain.UserID, len(keys))
	for _, key := range keys {
		jti := strings.TrimPrefix(key, domain.CachePrefixRefresh)
		id, ok, err := wl.Get(ctx, jti)
		if err != nil {
			return nil, err
		}
		if ok {
			out[jti] = id
		}
	}
	return out, nil
}
