package session

import (
	"context"
	"log"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

// Service — единственный источник истины по переходам состояний сессии.
// Жизненный цикл refresh-jti: ISSUED -> ACTIVE (в вайтлисте) ->
// {ROTATED | REVOKED (в блэклисте) | EXPIRED (TTL истёк)}; из терминального
// состояния возврата в ACTIVE нет.
type Service struct {
	log       *log.Logger
	users     domain.UsersRepo
	hasher    domain.PasswordHasher
	codec     domain.TokenCodec
	blacklist domain.TokenBlacklist
	whitelist domain.RefreshWhitelist
}

func New(
	logger *log.Logger,
	users domain.UsersRepo,
	hasher domain.PasswordHasher,
	codec domain.TokenCodec,
	blacklist domain.TokenBlacklist,
	whitelist domain.RefreshWhitelist,
) *Service {
	return &Service{
		log:       logger,
		users:     users,
		hasher:    hasher,
		codec:     codec,
		blacklist: blacklist,
		whitelist: whitelist,
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Login проверяет учётные данные, выпускает пару токенов, регистрирует
// refresh-jti в вайтлисте и доставляет пару выбранной стратегией.
func (s *Service) Login(ctx context.Context, w http.ResponseWriter, username, password string, strat delivery.Strategy) (TokenPair, error) {
	// репозиторий сам отличает «нет такого пользователя» (ErrUserNotFound)
	// от инфраструктурного сбоя — оба пробрасываем как есть
	u, err := s.users.UserByUsername(ctx, username)
	if err != nil {
		return TokenPair{}, err
	}

	// ошибка хеширования (битый хеш в БД и т.п.) — не «неверный пароль»
	ok, err := s.hasher.Verify(password, string(u.PassHash))
	if err != nil {
		return TokenPair{}, err
	}
	if !ok {
		return TokenPair{}, domain.ErrInvalidPassword
	}

	pair, refreshJTI, err := s.issuePair(ctx, u.ID, u.Role)
	if err != nil {
		return TokenPair{}, err
	}

	s.log.Printf("login ok user_id=%d refresh_jti=%s", u.ID, refreshJTI)
	strat.Deliver(w, pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

// Verify — полная проверка токена: подпись и сроки (кодек), затем блэклист,
// затем — для refresh — живая запись вайтлиста с совпадающим владельцем.
// Блэклист проверяется ДО вайтлиста: при ротации оба состояния могут
// сосуществовать мгновение, и отзыв обязан победить.
// Ошибки хранилища пробрасываются: недоступный Redis — отказ в доступе.
func (s *Service) Verify(ctx context.Context, raw domain.Token) (domain.Identity, error) {
	claims, err := s.codec.Parse(ctx, raw)
	if err != nil {
		return domain.Identity{}, err
	}

	revoked, err := s.blacklist.IsRevoked(ctx, claims.JTI)
	if err != nil {
		return domain.Identity{}, err
	}
	if revoked {
		return domain.Identity{}, domain.ErrTokenBlacklisted
	}

	if claims.Kind == domain.TokenRefresh {
		storedID, ok, err := s.whitelist.Get(ctx, claims.JTI)
		if err != nil {
			return domain.Identity{}, err
		}
		if !ok || storedID != claims.UserID {
			return domain.Identity{}, domain.ErrInvalidRefreshToken
		}
	}

	return domain.Identity{
		UserID: claims.UserID,
		Kind:   claims.Kind,
		JTI:    claims.JTI,
		Role:   claims.Role,
	}, nil
}

// Rotate обменивает refresh-токен на новую пару. Старый jti отзывается ДО
// выпуска новой пары; при сбое после отзыва ротация не откатывается —
// повторное использование устаревшего refresh-токена и есть атака, от
// которой защищаемся, а повторный login при ретрае — приемлемая цена.
func (s *Service) Rotate(ctx context.Context, w http.ResponseWriter, rawRefresh domain.Token, strat delivery.Strategy) (TokenPair, error) {
	ident, err := s.Verify(ctx, rawRefresh)
	if err != nil {
		return TokenPair{}, err
	}
	if ident.Kind != domain.TokenRefresh {
		return TokenPair{}, domain.ErrForbidden
	}

	if err := s.blacklistToken(ctx, ident.JTI, ident.UserID); err != nil {
		return TokenPair{}, err
	}

	pair, refreshJTI, err := s.issuePair(ctx, ident.UserID, ident.Role)
	if err != nil {
		return TokenPair{}, err
	}

	s.log.Printf("rotate ok user_id=%d old_jti=%s new_refresh_jti=%s", ident.UserID, ident.JTI, refreshJTI)
	strat.Deliver(w, pair.AccessToken, pair.RefreshToken)
	return pair, nil
}

// Logout отзывает предъявленный токен и ВСЕ действующие refresh-токены
// субъекта («выход везде», не повыходно). Скан вайтлиста — O(n) по всем
// активным refresh-записям; сбой посреди скана всплывает наружу, уже
// отозванные записи остаются отозванными (ретрай идемпотентен).
func (s *Service) Logout(ctx context.Context, w http.ResponseWriter, raw domain.Token, strat delivery.Strategy) error {
	ident, err := s.Verify(ctx, raw)
	if err != nil {
		return err
	}

	if err := s.blacklistToken(ctx, ident.JTI, ident.UserID); err != nil {
		return err
	}

	entries, err := s.whitelist.All(ctx)
	if err != nil {
		return err
	}
	for jti, ownerID := range entries {
		if ownerID != ident.UserID {
			continue
		}
		if err := s.blacklistToken(ctx, jti, ownerID); err != nil {
			return err
		}
		s.log.Printf("logout revoked refresh_jti=%s user_id=%d", jti, ownerID)
	}

	s.log.Printf("logout ok user_id=%d", ident.UserID)
	strat.Clear(w)
	return nil
}

// IsBlacklisted — диагностика, без побочных эффектов
func (s *Service) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.blacklist.IsRevoked(ctx, jti)
}

// IsRefreshValid — true, только если запись жива и принадлежит userID
func (s *Service) IsRefreshValid(ctx context.Context, jti string, userID domain.UserID) (bool, error) {
	storedID, ok, err := s.whitelist.Get(ctx, jti)
	if err != nil {
		return false, err
	}
	return ok && storedID == userID, nil
}

// issuePair выпускает access+refresh и регистрирует refresh-jti в вайтлисте.
func (s *Service) issuePair(ctx context.Context, userID domain.UserID, role domain.Role) (TokenPair, string, error) {
	access, accessClaims, err := s.codec.Issue(ctx, userID, domain.TokenAccess, role)
	if err != nil {
		return TokenPair{}, "", domain.ErrUnexpected
	}
	refresh, refreshClaims, err := s.codec.Issue(ctx, userID, domain.TokenRefresh, role)
	if err != nil {
		return TokenPair{}, "", domain.ErrUnexpected
	}

	if err := s.whitelist.Put(ctx, refreshClaims.JTI, userID); err != nil {
		return TokenPair{}, "", err
	}

	s.log.Printf("issued pair user_id=%d access_jti=%s refresh_jti=%s", userID, accessClaims.JTI, refreshClaims.JTI)
	return TokenPair{AccessToken: access, RefreshToken: refresh}, refreshClaims.JTI, nil
}

// blacklistToken вносит jti в блэклист и, если за ним числится запись
// вайтлиста этого же пользователя, удаляет её. Порядок важен: сначала
// отзыв, потом чистка вайтлиста.
func (s *Service) blacklistToken(ctx context.Context, jti string, userID domain.UserID) error {
	if err := s.blacklist.Revoke(ctx, jti); err != nil {
		return err
	}

	storedID, ok, err := s.whitelist.Get(ctx, jti)
	if err != nil {
		return err
	}
	if ok && storedID == userID {
		if err := s.whitelist.Del(ctx, jti); err != nil {
			return err
		}
	}
	return nil
}
