package web

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/session"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/config"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/auth"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/health"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/lab"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/user"
)

// Deps — всё, что нужно HTTP-слою от приложения
type Deps struct {
	Sessions *session.Service
	Users    domain.UsersRepo
	Labs     domain.LabsRepo
	Hasher   domain.PasswordHasher
	Cookie   delivery.Strategy
	Header   delivery.Strategy
	DB       health.Pinger
	Cache    health.Pinger
}

type Server struct {
	log    *log.Logger
	server *http.Server
	cfg    *config.Config
}

func New(logger *log.Logger, cfg *config.Config, deps Deps) *Server {
	sub := func(name string) *log.Logger {
		return log.New(logger.Writer(), logger.Prefix()+"["+name+"] ", logger.Flags())
	}

	healthHandler := &health.Handler{Log: sub("health"), DB: deps.DB, Cache: deps.Cache}
	authHandler := &auth.Handler{
		Log:      sub("auth"),
		Sessions: deps.Sessions,
		Users:    deps.Users,
		Cookie:   deps.Cookie,
		Header:   deps.Header,
	}
	userHandler := &user.Handler{Log: sub("user"), Users: deps.Users, Hasher: deps.Hasher}
	labHandler := &lab.Handler{Log: sub("lab"), Labs: deps.Labs, Users: deps.Users}

	authDeps := mw.AuthDeps{
		Log:      sub("mw.auth"),
		Sessions: deps.Sessions,
		Cookie:   deps.Cookie,
		Header:   deps.Header,
		Exempt: map[string]struct{}{
			"/auth/login":        {},
			RefreshPath:          {},
			"/user/signup":       {},
			"/user/signup/admin": {},
		},
	}

	srv := &http.Server{
		Addr:              cfg.AppPort,
		Handler:           newRouter(healthHandler, authHandler, userHandler, labHandler, authDeps, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		MaxHeaderBytes:    1 << 20,
		ReadHeaderTimeout: 2 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return &Server{server: srv, cfg: cfg, log: logger}
}

func (ws *Server) Run() {
	ws.log.Printf("started on %s", ws.server.Addr)
	if err := ws.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		ws.log.Fatalf("error: %v", err)
	}
}

func (ws *Server) Close(ctx context.Context) {
	if err := ws.server.Shutdown(ctx); err != nil {
		ws.log.Printf("forced to shutdown: %v", err)
	}
	ws.log.Println("exited gracefully")
}
