package auth

import (
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

// Logout godoc
// @Summary     Logout (revoke everywhere)
// @Description Отзывает предъявленный токен и все действующие refresh-токены
// @Description пользователя, затем чистит куки. Требует аутентификации.
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     500 {object} domain.APIEnvelope
// @Router      /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	const op = "auth.logout"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	raw := h.Cookie.Extract(r)
	if raw == "" {
		raw = h.Header.Extract(r)
	}
	if raw == "" {
		logx.Error(h.Log, reqID, op, "missing token", domain.ErrUnauthorized)
		v1.WriteDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	strat := delivery.Select(delivery.IsMobileRequest(r), h.Cookie, h.Header)

	if err := h.Sessions.Logout(r.Context(), w, raw, strat); err != nil {
		logx.Error(h.Log, reqID, op, "logout failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok")
	v1.WriteOK(w, r, "logout successful", struct{}{})
}
