package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"salao/terminal/internal/logger"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
)

// NewRouter mounts the handler behind the rate limiter and CORS. limiter
// may be nil; no origins means any origin.
func NewRouter(handler *Handler, limiter *RateLimiter, origins []string) http.Handler {
	r := mux.NewRouter()
	if limiter != nil {
		r.Use(limiter.Limit)
	}
	handler.RegisterRoutes(r)

	if len(origins) == 0 {
		return cors.Default().Handler(r)
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}).Handler(r)
}

// StartServer serves handler on addr until ctx is done, then drains open
// requests.
func StartServer(ctx context.Context, addr string, handler http.Handler, log *logger.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_start", "", "terminal listening on "+addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	log.Info("server_stop", "", "shutting down")
	return srv.Shutdown(shutdownCtx)
}
