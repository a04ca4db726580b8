package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/delivery"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/password"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/revocation"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/session"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/auth/token"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/config"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	redisx "github.com/Team-PLAB/PLAB-Backend-V3/internal/infra/cache/redis"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/infra/database/postgres"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/lab"
)

// период фоновой зачистки заявок: слоты аренды действуют один день
const sweepInterval = 12 * time.Hour

type App struct {
	config *config.Config
	server *web.Server
	log    *log.Logger
	cache  domain.Cache
	repo   *postgres.PGRepo
}

func Build(ctx context.Context) (*App, error) {
	base := log.New(os.Stdout, "[app] ", log.LstdFlags)

	serverLog := log.New(base.Writer(), base.Prefix()+"[server] ", base.Flags())
	pgLog := log.New(base.Writer(), base.Prefix()+"[postgres] ", base.Flags())
	redisLog := log.New(base.Writer(), base.Prefix()+"[redis] ", base.Flags())
	sessionLog := log.New(base.Writer(), base.Prefix()+"[session] ", base.Flags())

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("failed load config: %w", err)
	}
	base.Printf("\n  configuration: %s-------------------", cfg)

	base.Println("init PostgreSQL")
	pgRepo, err := postgres.NewPGRepo(ctx, pgLog, cfg.GetDSN(), cfg.DBScheme)
	if err != nil {
		return nil, fmt.Errorf("failed init postgres: %w", err)
	}
	base.Println("PostgreSQL is initialized")

	base.Println("init Redis")
	rc := redisx.New(redisx.Config{
		Addr:     cfg.RedisAddr,
		DB:       cfg.RedisDB,
		Password: cfg.RedisPassword,
	}, redisLog)
	if err := rc.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed init redis: %w", err)
	}
	base.Println("Redis is initialized")

	// Auth primitives
	hasher := password.NewDefault()
	codec := token.New(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTTL, cfg.RefreshTTL)
	// окно хранения блэклиста = refresh-TTL: дольше токен всё равно не живёт
	blacklist := revocation.NewBlacklist(rc, cfg.RefreshTTL)
	whitelist := revocation.NewWhitelist(rc, cfg.RefreshTTL)
	sessions := session.New(sessionLog, pgRepo, hasher, codec, blacklist, whitelist)

	cookie := &delivery.Cookie{
		Secure:      cfg.IsProduction(),
		RefreshPath: web.RefreshPath,
		AccessTTL:   cfg.AccessTTL,
		RefreshTTL:  cfg.RefreshTTL,
	}
	header := delivery.Header{}

	base.Println("init Server")
	server := web.New(serverLog, cfg, web.Deps{
		Sessions: sessions,
		Users:    pgRepo,
		Labs:     pgRepo,
		Hasher:   hasher,
		Cookie:   cookie,
		Header:   header,
		DB:       pgRepo,
		Cache:    rc,
	})
	base.Println("Server is initialized")

	base.Println("build ended")
	return &App{
		config: cfg,
		server: server,
		log:    base,
		repo:   pgRepo,
		cache:  rc}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Println("start application...")
	go a.server.Run()
	go a.runSweeper(ctx)
	<-ctx.Done()
	a.log.Println("stop application...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	a.server.Close(stopCtx)
	a.repo.Close()
	a.cache.Close()

	return nil
}

// runSweeper раз в sweepInterval мягко удаляет живые заявки
// и сбрасывает флаг аренды у владельцев.
func (a *App) runSweeper(ctx context.Context) {
	sweepLog := log.New(a.log.Writer(), a.log.Prefix()+"[sweep] ", a.log.Flags())
	t := time.NewTicker(sweepInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := lab.Sweep(ctx, a.repo, a.repo, sweepLog)
			if err != nil {
				sweepLog.Printf("sweep failed: %v", err)
				continue
			}
			sweepLog.Printf("sweep done, removed %d rentals", n)
		}
	}
}
