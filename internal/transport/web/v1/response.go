package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
)

// MapDomainError решает HTTP-статус + error.code/details для конверта
func MapDomainError(err error) (int, domain.APIEnvelope) {
	switch {
	case errors.Is(err, domain.ErrBadParams):
		return http.StatusBadRequest, domain.Fail(http.StatusBadRequest,
			"invalid request", "INVALID_REQUEST", "request parameters are missing or malformed")
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, domain.Fail(http.StatusUnauthorized,
			"authentication required", "UNAUTHORIZED", "no valid credentials on request")
	case errors.Is(err, domain.ErrInvalidPassword):
		return http.StatusUnauthorized, domain.Fail(http.StatusUnauthorized,
			"password does not match", "INVALID_PASSWORD", "the provided password is not correct")
	case errors.Is(err, domain.ErrTokenExpired):
		return http.StatusUnauthorized, domain.Fail(http.StatusUnauthorized,
			"token expired", "TOKEN_EXPIRED", "re-authentication required")
	case errors.Is(err, domain.ErrInvalidToken):
		return http.StatusUnauthorized, domain.Fail(http.StatusUnauthorized,
			"invalid token", "INVALID_TOKEN", "token signature or format is not valid")
	case errors.Is(err, domain.ErrTokenBlacklisted):
		return http.StatusUnauthorized, domain.Fail(http.StatusUnauthorized,
			"token is blacklisted", "TOKEN_BLACKLISTED", "this token has been revoked")
	case errors.Is(err, domain.ErrInvalidRefreshToken):
		return http.StatusUnauthorized, domain.Fail(http.StatusUnauthorized,
			"invalid refresh token", "INVALID_REFRESH_TOKEN", "refresh token is not valid or expired")
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, domain.Fail(http.StatusForbidden,
			"forbidden", "FORBIDDEN", "operation is not allowed for this identity")
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, domain.Fail(http.StatusNotFound,
			"user not found", "USER_NOT_FOUND", "no user matches the given identifier")
	case errors.Is(err, domain.ErrLabNotFound):
		return http.StatusNotFound, domain.Fail(http.StatusNotFound,
			"lab rental not found", "LAB_NOT_FOUND", "no rental request matches the given id")
	case errors.Is(err, domain.ErrUsernameConflict):
		return http.StatusConflict, domain.Fail(http.StatusConflict,
			"username already taken", "USERNAME_CONFLICT", "another user already owns this username")
	case errors.Is(err, domain.ErrDuplicateRental):
		return http.StatusBadRequest, domain.Fail(http.StatusBadRequest,
			"active rental already exists", "DUPLICATE_RENTAL", "this user already has an active rental request")
	case errors.Is(err, domain.ErrLabConflict):
		return http.StatusBadRequest, domain.Fail(http.StatusBadRequest,
			"lab already booked", "LAB_CONFLICT", "the slot for this date and time is already reserved")
	case errors.Is(err, domain.ErrDeletedLab):
		return http.StatusBadRequest, domain.Fail(http.StatusBadRequest,
			"rental request already deleted", "DELETED_LAB", "a deleted rental request cannot be modified")
	case errors.Is(err, domain.ErrStoreUnavailable):
		return http.StatusInternalServerError, domain.Fail(http.StatusInternalServerError,
			"authentication failed", "AUTH_ERROR", "token store is unavailable")
	default:
		return http.StatusInternalServerError, domain.Fail(http.StatusInternalServerError,
			"unexpected error", "UNEXPECTED", "internal server error")
	}
}

// WriteEnvelope пишет конверт; для HEAD — без тела
func WriteEnvelope(w http.ResponseWriter, r *http.Request, status int, env domain.APIEnvelope) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-Request-ID", mw.RequestIDFromCtx(r.Context()))
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	_ = json.NewEncoder(w).Encode(env)
}

// Шорткаты успеха
func WriteOK(w http.ResponseWriter, r *http.Request, message string, data any) {
	WriteEnvelope(w, r, http.StatusOK, domain.Ok(http.StatusOK, message, data))
}

func WriteCreated(w http.ResponseWriter, r *http.Request, message string, data any) {
	WriteEnvelope(w, r, http.StatusCreated, domain.Ok(http.StatusCreated, message, data))
}

// Шорткат ошибки
func WriteDomainError(w http.ResponseWriter, r *http.Request, err error) {
	status, env := MapDomainError(err)
	WriteEnvelope(w, r, status, env)
}
