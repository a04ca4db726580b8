package auth

import (
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

// Me godoc
// @Summary     Current user profile
// @Description Профиль пользователя, стоящего за токеном запроса
// @Tags        auth
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /auth/me [get]
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	const op = "auth.me"
	reqID := mw.RequestIDFromCtx(r.Context())

	ident, ok := domain.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	u, err := h.Users.UserByID(r.Context(), ident.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "user lookup failed", err, "user_id", ident.UserID)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOK(w, r, "user profile", u)
}
