package user

import (
	"encoding/json"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	v1 "github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1"
)

type updateUserRequest struct {
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// List godoc
// @Summary     List all users
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} domain.APIEnvelope{data=[]domain.User}
// @Failure     403 {object} domain.APIEnvelope
// @Router      /user [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	const op = "user.list"
	reqID := mw.RequestIDFromCtx(r.Context())

	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		logx.Error(h.Log, reqID, op, "list failed", err)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "count", len(users))
	v1.WriteOK(w, r, "all users", users)
}

// GetOne godoc
// @Summary     Get user by id
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "user id"
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     404 {object} domain.APIEnvelope
// @Router      /user/{id} [get]
func (h *Handler) GetOne(w http.ResponseWriter, r *http.Request) {
	const op = "user.get"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UserByID(r.Context(), id)
	if err != nil {
		logx.Error(h.Log, reqID, op, "lookup failed", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOK(w, r, "user found", u)
}

// Update godoc
// @Summary     Update user
// @Description Смена имени (с проверкой уникальности) и/или пароля (с пере-хешированием)
// @Tags        user
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "user id"
// @Param       request body updateUserRequest true "изменяемые поля"
// @Success     200 {object} domain.APIEnvelope{data=domain.User}
// @Failure     400 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Failure     409 {object} domain.APIEnvelope
// @Router      /user/{id} [patch]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	const op = "user.update"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logx.Error(h.Log, reqID, op, "bad json", err)
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	var upd domain.UserUpdate
	if req.Username != nil {
		if !domain.ValidUsername(*req.Username) {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		if _, err := h.Users.UserByUsername(r.Context(), *req.Username); err == nil {
			v1.WriteDomainError(w, r, domain.ErrUsernameConflict)
			return
		}
		upd.Username = req.Username
	}
	if req.Password != nil {
		if !domain.ValidPassword(*req.Password) {
			v1.WriteDomainError(w, r, domain.ErrBadParams)
			return
		}
		hash, err := h.Hasher.Hash(*req.Password)
		if err != nil {
			logx.Error(h.Log, reqID, op, "hash failed", err)
			v1.WriteDomainError(w, r, domain.ErrUnexpected)
			return
		}
		upd.PassHash = []byte(hash)
	}
	if upd.Username == nil && upd.PassHash == nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	u, err := h.Users.UpdateUser(r.Context(), id, upd)
	if err != nil {
		logx.Error(h.Log, reqID, op, "update failed", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", u.ID)
	v1.WriteOK(w, r, "user updated", u)
}

// Delete godoc
// @Summary     Delete user
// @Tags        user
// @Produce     json
// @Security    BearerAuth
// @Param       id path int true "user id"
// @Success     200 {object} domain.APIEnvelope
// @Failure     404 {object} domain.APIEnvelope
// @Router      /user/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	const op = "user.delete"
	reqID := mw.RequestIDFromCtx(r.Context())

	id, err := parseID(r.PathValue("id"))
	if err != nil {
		v1.WriteDomainError(w, r, domain.ErrBadParams)
		return
	}

	if err := h.Users.DeleteUser(r.Context(), id); err != nil {
		logx.Error(h.Log, reqID, op, "delete failed", err, "user_id", id)
		v1.WriteDomainError(w, r, err)
		return
	}

	logx.Info(h.Log, reqID, op, "ok", "user_id", id)
	v1.WriteOK(w, r, "user deleted", struct{}{})
}
