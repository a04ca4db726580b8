package domain

import "errors"

// Бизнес-ошибки (маппятся на HTTP-коды и error.code конверта в v1.MapDomainError)
var (
	ErrBadParams    = errors.New("bad_params")   // 400 INVALID_REQUEST
	ErrUnauthorized = errors.New("unauthorized") // 401 UNAUTHORIZED
	ErrForbidden    = errors.New("forbidden")    // 403 FORBIDDEN
	ErrUnexpected   = errors.New("unexpected")   // 500 UNEXPECTED

	// Токены
	ErrTokenExpired        = errors.New("token_expired")         // 401 TOKEN_EXPIRED
	ErrInvalidToken        = errors.New("invalid_token")         // 401 INVALID_TOKEN (подпись/формат)
	ErrTokenBlacklisted    = errors.New("token_blacklisted")     // 401 TOKEN_BLACKLISTED
	ErrInvalidRefreshToken = errors.New("invalid_refresh_token") // 401 INVALID_REFRESH_TOKEN

	// Недоступность хранилища ревокации: при верификации НЕ глотаем,
	// отказ хранилища == отказ в доступе
	ErrStoreUnavailable = errors.New("store_unavailable") // 500 AUTH_ERROR

	// Пользователи
	ErrUserNotFound     = errors.New("user_not_found")    // 404 USER_NOT_FOUND
	ErrInvalidPassword  = errors.New("invalid_password")  // 401 INVALID_PASSWORD
	ErrUsernameConflict = errors.New("username_conflict") // 409 USERNAME_CONFLICT

	// Аренда лабораторий
	ErrLabNotFound     = errors.New("lab_not_found")    // 404 LAB_NOT_FOUND
	ErrDuplicateRental = errors.New("duplicate_rental") // 400 DUPLICATE_RENTAL
	ErrLabConflict     = errors.New("lab_conflict")     // 400 LAB_CONFLICT
	ErrDeletedLab      = errors.New("deleted_lab")      // 400 DELETED_LAB
)
