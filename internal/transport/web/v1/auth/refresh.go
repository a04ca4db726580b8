package auth

import (
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

// Refresh godoc
// @Summary     Rotate token pair
// @Description Меняет refresh-токен на новую пару. Токен берётся из
// @Description refresh-куки или из Authorization: Bearer. Эндпоинт вне общего
// @Description аутентификационного пре-фильтра: токен проверяет сам сервис.
// @Tags        auth
// @Produce     json
// @Success     200 {object} domain.APIEnvelope{data=tokenPairResponse}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     403 {object} domain.APIEnvelope
// @Router      /auth/token/refresh [post]
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	const op = "auth.refresh"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	raw := refreshTokenFromRequest(r, h.Header)
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing refresh token", domain.ErrUnauthorized)
		v1.WriteDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	// мобильный клиент опознаётся по наличию Authorization-заголовка
	strat := delivery.Select(delivery.IsMobileRequest(r), h.Cookie, h.Header)

	pair, err := h.Sessions.Rotate(r.Context(), w, raw, strat)
	if err != nil {
		logx.Error(h.Log, reqID, op, "rotate failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOK(w, r, "token pair rotated", tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

// refreshTokenFromRequest: refresh-кука (она видна только на этом пути),
// иначе bearer-заголовок
func refreshTokenFromRequest(r *http.Request, header delivery.Strategy) string {
	if ck, err := r.Cookie(delivery.RefreshCookieName); err == nil && ck.Value != "" {
		return ck.Value
	}
	return header.Extract(r)
}
