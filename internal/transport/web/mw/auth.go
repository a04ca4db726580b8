package mw

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

// TokenVerifier — то, что нам нужно от сервиса сессий (в тестах — фейк)
type TokenVerifier interface {
	Verify(ctx context.Context, raw domain.Token) (domain.Identity, error)
}

type AuthDeps struct {
	Log      *log.Logger
	Sessions TokenVerifier
	Cookie   delivery.Strategy
	Header   delivery.Strategy
	// Пути вне общей проверки: login и эндпоинт ротации — он обязан
	// принимать почти истёкший refresh-токен через Verify сервиса,
	// а не через этот пре-фильтр.
	Exempt map[string]struct{}
}

// Authenticate — аутентификатор запроса. Токена нет — пропускаем дальше
// анонимно (это НЕ ошибка: требование идентичности навешивает guard ниже).
// Токен есть — верифицируем и кладём Identity в контекст; ошибки
// верификации НЕ глотаются, включая отказ хранилища.
func Authenticate(deps AuthDeps, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := deps.Exempt[r.URL.Path]; ok {
			next.ServeHTTP(w, r)
			return
		}

		// 1) кука (браузер), 2) Authorization-заголовок (мобильный клиент)
		raw := deps.Cookie.Extract(r)
		if raw == "" {
			raw = deps.Header.Extract(r)
		}
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		ident, err := deps.Sessions.Verify(r.Context(), raw)
		if err != nil {
			reqID := RequestIDFromCtx(r.Context())
			deps.Log.Printf("lvl=error req_id=%s op=mw.auth msg=%q err=%q path=%q",
				reqID, "token verify failed", err, r.URL.Path)
			writeAuthError(w, r, err)
			return
		}

		ctx := domain.WithIdentity(r.Context(), ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth — guard: отклоняет запросы без Identity, а также не пускает
// refresh-Identity никуда, кроме эндпоинта ротации.
func RequireAuth(refreshPath string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := domain.IdentityFromCtx(r.Context())
		if !ok {
			writeEnvelope(w, http.StatusUnauthorized,
				domain.Fail(http.StatusUnauthorized, "authentication required",
					"UNAUTHORIZED", "no user identity on request"))
			return
		}
		if ident.Kind == domain.TokenRefresh && r.URL.Path != refreshPath {
			writeEnvelope(w, http.StatusForbidden,
				domain.Fail(http.StatusForbidden, "refresh token not allowed here",
					"FORBIDDEN", "wrong token kind for this endpoint"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole — guard: тривиальная проверка вхождения роли
func RequireRole(next http.Handler, roles ...domain.Role) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := domain.IdentityFromCtx(r.Context())
		if !ok {
			writeEnvelope(w, http.StatusForbidden,
				domain.Fail(http.StatusForbidden, "no user identity",
					"FORBIDDEN", "authenticated user required"))
			return
		}
		for _, role := range roles {
			if ident.Role == role {
				next.ServeHTTP(w, r)
				return
			}
		}
		writeEnvelope(w, http.StatusForbidden,
			domain.Fail(http.StatusForbidden, "insufficient role",
				"FORBIDDEN", "required role is missing"))
	})
}

// writeAuthError различает «перелогиньтесь» (истёк), «токен битый» и
// «внутренняя ошибка» (в т.ч. недоступность хранилища — доступ закрыт).
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrTokenExpired):
		writeEnvelope(w, http.StatusUnauthorized,
			domain.Fail(http.StatusUnauthorized, "token expired",
				"TOKEN_EXPIRED", "re-authentication required"))
	case errors.Is(err, domain.ErrInvalidToken):
		writeEnvelope(w, http.StatusUnauthorized,
			domain.Fail(http.StatusUnauthorized, "invalid token",
				"INVALID_TOKEN", "token signature or format is not valid"))
	case errors.Is(err, domain.ErrTokenBlacklisted):
		writeEnvelope(w, http.StatusUnauthorized,
			domain.Fail(http.StatusUnauthorized, "token is blacklisted",
				"TOKEN_BLACKLISTED", "this token has been revoked"))
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		writeEnvelope(w, http.StatusUnauthorized,
			domain.Fail(http.StatusUnauthorized, "invalid refresh token",
				"INVALID_REFRESH_TOKEN", "refresh token is not valid or expired"))
	default:
		writeEnvelope(w, http.StatusInternalServerError,
			domain.Fail(http.StatusInternalServerError, "authentication failed",
				"AUTH_ERROR", err.Error()))
	}
}

// mw не может импортировать v1 (циклическая зависимость), пишем конверт сами
func writeEnvelope(w http.ResponseWriter, status int, env domain.APIEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}
