package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"meetbook/internal/config"
	"meetbook/internal/domain"
	"meetbook/internal/metrics"
	"meetbook/internal/service"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// HTTPServer exposes the booking and auth JSON API.
type HTTPServer struct {
	cfg      *config.Config
	bookings *service.BookingService
	users    *service.UserService
	limiter  domain.LimiterRepository
	server   *http.Server
	log      zerolog.Logger
}

func NewHTTPServer(
	cfg *config.Config,
	bookings *service.BookingService,
	users *service.UserService,
	limiter domain.LimiterRepository,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg,
		bookings: bookings,
		users:    users,
		limiter:  limiter,
		log:      logger.With().Str("component", "http").Logger(),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/bookings", srv.handleBookings)
	mux.HandleFunc("/bookings/pending", srv.handlePendingBookings)
	mux.HandleFunc("/bookings/export", srv.handleExportBookings)
	mux.HandleFunc("/bookings/", srv.handleBookingByID)
	mux.HandleFunc("/auth/register", srv.authLimited(srv.handleRegister))
	mux.HandleFunc("/auth/login", srv.authLimited(srv.handleLogin))
	mux.HandleFunc("/auth/approve-user/", srv.handleApproveUser)
	mux.HandleFunc("/auth/pending-users", srv.handlePendingUsers)
	mux.HandleFunc("/healthz", srv.handleHealth)

	handler := srv.requestIDMiddleware(
		srv.loggingMiddleware(
			srv.corsMiddleware(
				srv.rateLimitMiddleware(mux))))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.Server.ReadHeaderTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return srv
}

// Handler exposes the configured handler chain for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// middleware

func (s *HTTPServer) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get("X-Request-ID"))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(withRequestID(r.Context(), requestID)))
	})
}

func (s *HTTPServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		metrics.IncHTTP(r.URL.Path, fmt.Sprintf("%d", recorder.status))
		s.log.Info().
			Str("request_id", requestIDFrom(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", recorder.status).
			Dur("duration", time.Since(start)).
			Msg("http request")
	})
}

func (s *HTTPServer) corsMiddleware(next http.Handler) http.Handler {
	allowed := make(map[string]bool, len(s.cfg.Server.CORSAllowedOrigins))
	for _, origin := range s.cfg.Server.CORSAllowedOrigins {
		allowed[strings.TrimSpace(origin)] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (len(allowed) == 0 || allowed[origin]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	if s.cfg.Server.RateLimit.RPS <= 0 {
		return next
	}

	limiters := &sync.Map{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lim := s.getLimiter(limiters, clientKey(r))
		if !lim.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) getLimiter(limiters *sync.Map, key string) *rate.Limiter {
	if v, ok := limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := s.cfg.Server.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(s.cfg.Server.RateLimit.RPS), burst)
	actual, loaded := limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}

// authLimited throttles credential endpoints through the failover window
// counter, keeping brute-force pressure bounded across restarts.
func (s *HTTPServer) authLimited(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.limiter != nil {
			window := time.Duration(s.cfg.Auth.RateLimitWindow) * time.Second
			allowed, err := s.limiter.CheckRateLimit(r.Context(), clientKey(r), s.cfg.Auth.RateLimitRequests, window)
			if err != nil {
				s.log.Error().Err(err).Msg("auth rate limit check failed")
			} else if !allowed {
				writeError(w, http.StatusTooManyRequests, "too many requests")
				return
			}
		}
		next(w, r)
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}

// response helpers

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"error": message})
}

// writeServiceError maps domain errors to HTTP codes. Storage failures are
// downgraded to a generic message so internals never leak.
func (s *HTTPServer) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Message)
	case errors.Is(err, domain.ErrInvalidStatus):
		writeError(w, http.StatusBadRequest, "invalid status")
	case errors.Is(err, domain.ErrNotPending):
		writeError(w, http.StatusBadRequest, "booking is not pending")
	case errors.Is(err, domain.ErrRoomBusy):
		metrics.IncBookingConflict()
		writeError(w, http.StatusConflict, "room already booked at this time")
	case errors.Is(err, domain.ErrEmailExists):
		writeError(w, http.StatusConflict, "email already exists")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidPassword):
		writeError(w, http.StatusUnauthorized, "invalid password")
	case errors.Is(err, domain.ErrPendingApproval):
		writeError(w, http.StatusForbidden, "your account is pending approval")
	default:
		s.log.Error().Err(err).
			Str("request_id", requestIDFrom(r.Context())).
			Str("path", r.URL.Path).
			Msg("internal error")
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// request id context plumbing

type ctxKey int

const requestIDKey ctxKey = 0

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func requestIDFrom(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
