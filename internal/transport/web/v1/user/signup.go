package user

import (
	"encoding/json"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

type signupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup godoc
// @Summary     Register user
// @Description Регистрация обычного пользователя (роль user)
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       request body signupRequest true "username, password"
// @Success     201 {object} domain.APIEnvelope{data=domain.User}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Router      /user/signup [post]
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, domain.RoleUser)
}

// SignupAdmin godoc
// @Summary     Register admin
// @Description Регистрация администратора (роль admin)
// @Tags        user
// @Accept      json
// @Produce     json
// @Param       request body signupRequest true "username, password"
// @Success     201 {object} domain.APIEnvelope{data=domain.User}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Router      /user/signup/admin [post]
func (h *Handler) SignupAdmin(w http.ResponseWriter, r *http.Request) {
	h.signup(w, r, domain.RoleAdmin)
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, role domain.Role) {
	const op = "user.signup"
	reqID := mw.RequestIDFromCtx(r.Context())
	logx.Info(h.Log, reqID, op, "start", "role", role)

	// роли — закрытый набор; неизвестная роль не должна дойти до БД
	if !domain.ValidRole(role) {
		logx.Error(h.Log, reqID, op, "unknown role", domain.ErrBadParams, "role", role)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// валидация логина/пароля (домен)
	if !domain.ValidUsername(req.Username) || !domain.ValidPassword(req.Password) {
		logx.Error(h.Log, reqID, op, "validation failed", domain.ErrBadParams, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	// имя должно быть свободно
	if _, err := h.Users.UserByUsername(r.Context(), req.Username); err == nil {
		logx.Error(h.Log, reqID, op, "username taken", domain.ErrUsernameConflict, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrUsernameConflict)
		return
	}

	hash, err := h.Hasher.Hash(req.Password)
	if err != nil {
		logx.Error(h.Log, reqID, op, "hash failed", err)
		v1.WriteDomainError(w, r, domain.ErrUnexpected)
		return
	}

	u, err := h.Users.CreateUser(r.Context(), req.Username, []byte(hash), role)
	if err != nil {
		// гонка на уникальном индексе username — маппим как конфликт
		logx.Error(h.Log, reqID, op, "create user failed", err, "username", req.Username)
		v1.WriteDomainError(w, r, domain.ErrUsernameConflict)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID, "username", u.Username)
	v1.WriteCreated(w, r, "user registered", u)
}
