package auth

import (
	"encoding/json"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

type tokenStatusRequest struct {
	JTI string `json:"jti"`
}

type tokenStatusResponse struct {
	JTI          string        `json:"jti"`
	Blacklisted  bool          `json:"blacklisted"`
	RefreshValid bool          `json:"refreshValid"`
	UserID       domain.UserID `json:"userId"`
}

// TokenStatus godoc
// @Summary     Token introspection
// @Description Диагностика по jti: в блэклисте ли и жив ли как refresh.
// @Description Проверка выполняется относительно идентичности вызывающего.
// @Tags        auth
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body tokenStatusRequest true "jti"
// @Success     200 {object} domain.APIEnvelope{data=tokenStatusResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Router      /auth/token-status [post]
func (h *Handler) TokenStatus(w http.ResponseWriter, r *http.Request) {
	const op = "auth.token_status"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start")

	ident, ok := domain.IdentityFromCtx(r.Context())
	if !ok {
		v1.WriteDomainError(w, r, domain.ErrUnauthorized)
		return
	}

	var req tokenStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.JTI == "" {
		logx.Error(h.Log, reqID, op, "missing jti", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	blacklisted, err := h.Sessions.IsBlacklisted(r.Context(), req.JTI)
	if err != nil {
		logx.Error(h.Log, reqID, op, "blacklist check failed", err, "jti", req.JTI)
		v1.WriteDomainError(w, r, err)
		return
	}
	refreshValid, err := h.Sessions.IsRefreshValid(r.Context(), req.JTI, ident.UserID)
	if err != nil {
		logx.Error(h.Log, reqID, op, "whitelist check failed", err, "jti", req.JTI)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "jti", req.JTI,
		"blacklisted", blacklisted, "refresh_valid", refreshValid)
	v1.WriteOK(w, r, "token status", tokenStatusResponse{
		JTI:          req.JTI,
		Blacklisted:  blacklisted,
		RefreshValid: refreshValid,
		UserID:       ident.UserID,
	})
}
