package auth

import (
	"log"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/session"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
)

type Handler struct {
	Log      *log.Logger
	Sessions *session.Service
	Users    domain.UsersRepo
	Cookie   delivery.Strategy
	Header   delivery.Strategy
}

type tokenPairResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
