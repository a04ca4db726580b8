package web

import (
	"log"
	"net/http"

	_ "github.com/Team-PLAB/PLAB-Backend-V3/internal/docs"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/domain"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/mw"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/auth"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/health"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/lab"
	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/v1/user"
	httpSwagger "github.com/swaggo/http-swagger"
)

// RefreshPath — эндпоинт ротации токенов. Refresh-кука привязана к этому
// пути, и только сюда guard пускает refresh-идентичность.
const RefreshPath = "/auth/token/refresh"

func newRouter(hh *health.Handler, ah *auth.Handler, uh *user.Handler, lh *lab.Handler,
	authDeps mw.AuthDeps, logger *log.Logger) http.Handler {

	mux := http.NewServeMux()

	// требуется любая аутентифицированная идентичность
	protect := func(h http.HandlerFunc) http.Handler {
		return mw.RequireAuth(RefreshPath, h)
	}
	// требуется роль admin
	admin := func(h http.HandlerFunc) http.Handler {
		return mw.RequireAuth(RefreshPath, mw.RequireRole(h, domain.RoleAdmin))
	}

	// health
	mux.HandleFunc("GET /healthz", hh.Liveness)
	mux.HandleFunc("GET /readyz", hh.Readiness)

	// auth
	mux.HandleFunc("POST /auth/login", ah.Login)
	mux.HandleFunc("POST "+RefreshPath, ah.Refresh)
	mux.Handle("POST /auth/logout", protect(ah.Logout))
	mux.Handle("GET /auth/me", protect(ah.Me))
	mux.Handle("POST /auth/token-status", protect(ah.TokenStatus))

	// user
	mux.HandleFunc("POST /user/signup", limitBody(1<<20, uh.Signup))
	mux.HandleFunc("POST /user/signup/admin", limitBody(1<<20, uh.SignupAdmin))
	mux.Handle("GET /user", admin(uh.List))
	mux.Handle("GET /user/{id}", protect(uh.GetOne))
	mux.Handle("PATCH /user/{id}", admin(uh.Update))
	mux.Handle("DELETE /user/{id}", admin(uh.Delete))

	// lab
	mux.Handle("POST /lab", protect(limitBody(1<<20, lh.Create)))
	mux.Handle("GET /lab", admin(lh.ListAll))
	mux.Handle("GET /lab/pending", admin(lh.ListPending))
	mux.Handle("GET /lab/approved", admin(lh.ListApproved))
	mux.Handle("GET /lab/list", protect(lh.ListActive))
	mux.Handle("GET /lab/{id}", protect(lh.GetOne))
	mux.Handle("GET /lab/user/{id}", protect(lh.ByUser))
	mux.Handle("PATCH /lab/{id}", admin(lh.Update))
	mux.Handle("DELETE /lab", admin(lh.DeleteAll))

	// swagger
	mux.Handle("GET /swagger/", httpSwagger.WrapHandler)

	// 🔗 middleware
	return mw.WithRequestID(mw.Logging(logger)(mw.Authenticate(authDeps, mux)))
}

func limitBody(n int64, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, n)
		h(w, r)
	}
}
