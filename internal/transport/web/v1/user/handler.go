package user

import (
	"log"
	"strconv"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

type Handler struct {
	Log    *log.Logger
	Users  domain.UsersRepo
	Hasher domain.PasswordHasher
}

func parseID(s string) (domain.UserID, error) {
	return strconv.ParseInt(s, 10, 64)
}
