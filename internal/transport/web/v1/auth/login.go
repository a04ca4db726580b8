package auth

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// Login godoc
// @Summary     Authenticate user
// @Description Выдаёт пару access/refresh. Канал доставки: куки для веба,
// @Description тело ответа для мобильного клиента (?mobile=true).
// @Tags        auth
// @Accept      json
// @Produce     json
// @Param       mobile query bool false "мобильный клиент (bearer-заголовки вместо кук)"
// @Param       request body loginRequest true "login, password"
// @Success     200 {object} domain.APIEnvelope{data=tokenPairResponse}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     401 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	const op = "auth.login"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "method", r.Method, "path", r.URL.Path)

	var req loginRequest
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logx.Error(h.Log, reqID, op, "bad json", err)
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
	} else {
		_ = r.ParseForm()
		req.Login = r.FormValue("login")
		req.Password = r.FormValue("password")
	}

	if req.Login == "" || req.Password == "" {
		logx.Error(h.Log, reqID, op, "empty login or password", domain.ErrBadParams)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// канал доставки выбирается явным флагом запроса, не угадыванием
	isMobile := r.URL.Query().Get("mobile") == "true"
	strat := delivery.Select(isMobile, h.Cookie, h.Header)

	pair, err := h.Sessions.Login(r.Context(), w, req.Login, req.Password, strat)
	if err != nil {
		logx.Error(h.Log, reqID, op, "login failed", err, "login", req.Login)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "login", req.Login, "mobile", isMobile)
	v1.WriteOK(w, r, "login successful", tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}
