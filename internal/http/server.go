// Package http exposes the expense tracker as a JSON API: expense CRUD,
// income upserts, the monthly dashboard, SIP projections, preferences and
// report scheduling.
package http

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"bling/internal/cache"
	"bling/internal/core"
	"bling/internal/log"
	"bling/internal/store"
)

// ReportScheduler queues a report generation job for a month and returns
// its id. Backed by the in-process worker pool or the AMQP publisher.
type ReportScheduler interface {
	Schedule(ctx context.Context, month core.MonthKey) (uuid.UUID, error)
}

type Server struct {
	http.Server

	expenses store.ExpenseStore
	income   store.IncomeStore
	prefs    store.PreferencesStore
	reports  ReportScheduler

	logger      *log.Logger
	rateLimiter *rateLimiter

	// Cached per-month dashboard responses, invalidated on mutations.
	dashboardCache *cache.LRU[dashboardResponse]

	shutdownOnce sync.Once
}

// NewServer configures routes and returns a ready-to-run server. reports
// may be nil; report scheduling then responds 503.
func NewServer(
	addr string,
	expenses store.ExpenseStore,
	income store.IncomeStore,
	prefs store.PreferencesStore,
	reports ReportScheduler,
	logger *log.Logger,
) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		expenses:       expenses,
		income:         income,
		prefs:          prefs,
		reports:        reports,
		logger:         logger.WithComponent(log.ComponentHTTP),
		rateLimiter:    newRateLimiter(),
		dashboardCache: cache.NewLRU[dashboardResponse](100, 5*time.Minute),
	}
	s.dashboardCache.StartSweep(10 * time.Minute)

	mux.HandleFunc("/healthz", handleHealth)
	mux.HandleFunc("/readyz", handleReady)

	mux.HandleFunc("GET /api/expenses", s.withMiddleware(s.handleListExpenses))
	mux.HandleFunc("POST /api/expenses", s.withMiddleware(s.handleCreateExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.withMiddleware(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.withMiddleware(s.handleDeleteExpense))

	mux.HandleFunc("GET /api/income", s.withMiddleware(s.handleListIncome))
	mux.HandleFunc("PUT /api/income/{month}", s.withMiddleware(s.handleSetIncome))

	mux.HandleFunc("GET /api/preferences", s.withMiddleware(s.handleGetPreferences))
	mux.HandleFunc("PUT /api/preferences", s.withMiddleware(s.handleSetPreferences))

	mux.HandleFunc("GET /api/dashboard", s.withMiddleware(s.handleDashboard))
	mux.HandleFunc("GET /api/overview", s.withMiddleware(s.handleOverview))

	mux.HandleFunc("POST /api/sip", s.withMiddleware(s.handleSIP))
	mux.HandleFunc("POST /api/reports", s.withMiddleware(s.handleScheduleReport))

	return s
}

// Shutdown gracefully shuts down the server and its cleanup routines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.dashboardCache.StopSweep()
		s.rateLimiter.stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

// withMiddleware adds request logging, rate limiting on mutations and
// standard security headers.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			s.logger.WarnContext(ctx, "Rate limit exceeded",
				"client_ip", clientIP,
				"method", r.Method,
				"url", r.URL.Path,
			)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		s.logger.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
		)
	}
}

type requestIDKey struct{}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// generateRequestID creates a unique request ID for tracing
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
