package domain

import "regexp"

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)
	// Пароль: мин 8 символов, >=1 буква и >=1 цифра.
	// Детальную валидацию держим на уровне HTTP DTO.
	letterRe = regexp.MustCompile(`[A-Za-z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
)

func ValidUsername(s string) bool {
	return usernameRe.MatchString(s)
}

func ValidPassword(s string) bool {
	if len(s) < 8 {
		return false
	}
	return letterRe.MatchString(s) && digitRe.MatchString(s)
}

func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleAdmin
}
