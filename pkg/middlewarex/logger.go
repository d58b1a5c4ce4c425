package middlewarex

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/zenazn/goji/web/mutil"

	"group_project_service/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Logger puts a request scoped logger into the context and logs every request and its response.
func Logger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startTime := time.Now()

		ctx := r.Context()
		reqLogger := logger(ctx)
		if reqID := middleware.GetReqID(ctx); reqID != "" {
			reqLogger = reqLogger.With(slog.String("request_id", reqID))
		}
		r = r.WithContext(contextx.WithLogger(ctx, reqLogger))

		reqLogger.Info("request", RequestLogRestapi(r))

		lw := mutil.WrapWriter(w)
		next.ServeHTTP(lw, r)

		reqLogger.Info("response", ResponseLogRestapi(lw, startTime))
	})
}

func RequestLogRestapi(r *http.Request) slog.Attr {
	return slog.Group("request_info",
		slog.String("method", r.Method),
		slog.String("path", r.URL.String()),
		slog.String("host", r.Host),
		slog.String("user_agent", r.UserAgent()),
		slog.String("ip", r.RemoteAddr),
	)
}

func ResponseLogRestapi(w mutil.WriterProxy, startTime time.Time) slog.Attr {
	status := w.Status()
	if status == 0 {
		status = http.StatusOK
	}
	return slog.Group("response_info",
		slog.Int("status", status),
		slog.Int("size", w.BytesWritten()),
		slog.Int64("duration", time.Since(startTime).Milliseconds()),
	)
}
