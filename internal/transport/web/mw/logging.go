package mw

import (
	"log"
	"net/http"
	"time"

	"github.com/Team-PLAB/PLAB-Backend-V3/internal/transport/web/logx"
)

// Logging — middleware: итоговая строка по каждому запросу в общем
// logx-формате (метод, путь, статус, размер, длительность)
func Logging(l *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			mw := &metaWriter{ResponseWriter: w}
			next.ServeHTTP(mw, r)

			status := mw.status
			if status == 0 {
				// хендлер ничего не писал — net/http отдаст 200
				status = http.StatusOK
			}
			logx.Info(l, RequestIDFromCtx(r.Context()), "http.request", "handled",
				"method", r.Method, "path", r.URL.Path,
				"status", status, "size", mw.size,
				"duration_ms", time.Since(start).Milliseconds())
		})
	}
}
