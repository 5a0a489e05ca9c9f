// Package http exposes the cooperative's JSON API: member lifecycle, payment
// recording, revenue reporting, barangay counters, field workers, and the
// in-app notification feed.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"bafci/internal/cache"
	"bafci/internal/services"
	"bafci/internal/storage"
)

// timeNow is swapped out in tests that need a fixed clock.
var timeNow = time.Now

const (
	readTimeout     = 15 * time.Second
	writeTimeout    = 30 * time.Second
	idleTimeout     = 60 * time.Second
	summaryCacheTTL = 5 * time.Minute
)

type Server struct {
	http.Server

	storage  *storage.SQLiteRepository
	members  *services.MemberService
	payments *services.PaymentService
	revenue  *services.RevenueService

	apiToken string
	limiter  *rateLimiter
	metrics  *appMetrics

	// summaries caches revenue reports keyed by window. Any write that can
	// move a total purges it wholesale.
	summaries *cache.LRUCache[summaryResponse]
	caches    *cache.Manager

	shutdownOnce sync.Once
}

func NewServer(
	addr, apiToken string,
	repo *storage.SQLiteRepository,
	members *services.MemberService,
	payments *services.PaymentService,
	revenue *services.RevenueService,
) *Server {
	s := &Server{
		storage:   repo,
		members:   members,
		payments:  payments,
		revenue:   revenue,
		apiToken:  apiToken,
		limiter:   newRateLimiter(),
		metrics:   &appMetrics{},
		summaries: cache.NewLRUCache[summaryResponse](64, summaryCacheTTL),
		caches:    cache.NewManager(),
	}

	s.caches.Register(s.summaries)
	s.caches.StartCleanup(10 * time.Minute)

	s.Server = http.Server{
		Addr:         addr,
		Handler:      s.withSecurity(s.routes()),
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		IdleTimeout:  idleTimeout,
	}
	return s
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.HandleFunc("GET /metrics", s.handleMetrics)

	mux.HandleFunc("POST /api/members", s.withAuth(s.handleCreateMember))
	mux.HandleFunc("GET /api/members", s.withAuth(s.handleListMembers))
	mux.HandleFunc("GET /api/members/{id}", s.withAuth(s.handleGetMember))
	mux.HandleFunc("PUT /api/members/{id}", s.withAuth(s.handleUpdateMember))
	mux.HandleFunc("PUT /api/members/{id}/status", s.withAuth(s.handleChangeMemberStatus))
	mux.HandleFunc("POST /api/members/{id}/membership-fee", s.withAuth(s.handleRecordMembershipFee))
	mux.HandleFunc("GET /api/members/{id}/schedule", s.withAuth(s.handleMemberSchedule))

	mux.HandleFunc("POST /api/payments", s.withAuth(s.handleRecordPayment))
	mux.HandleFunc("GET /api/payments/history/{memberID}", s.withAuth(s.handlePaymentHistory))

	mux.HandleFunc("GET /api/revenue", s.withAuth(s.handleListLedgerEntries))
	mux.HandleFunc("POST /api/revenue", s.withAuth(s.handleCreateLedgerEntry))
	mux.HandleFunc("GET /api/revenue/summary", s.withAuth(s.handleRevenueSummary))

	mux.HandleFunc("GET /api/barangay-members", s.withAuth(s.handleListBarangayCounts))
	mux.HandleFunc("POST /api/barangay-members/adjust", s.withAuth(s.handleAdjustBarangayCount))

	mux.HandleFunc("GET /api/field-workers", s.withAuth(s.handleListFieldWorkers))
	mux.HandleFunc("POST /api/field-workers", s.withAuth(s.handleCreateFieldWorker))
	mux.HandleFunc("GET /api/field-workers/{id}", s.withAuth(s.handleGetFieldWorker))
	mux.HandleFunc("POST /api/field-workers/{id}/collections", s.withAuth(s.handleAddCollection))

	mux.HandleFunc("GET /api/notifications", s.withAuth(s.handleListNotifications))
	mux.HandleFunc("GET /api/notifications/unread-count", s.withAuth(s.handleUnreadCount))
	mux.HandleFunc("POST /api/notifications/{id}/read", s.withAuth(s.handleMarkNotificationRead))
	mux.HandleFunc("POST /api/notifications/read-all", s.withAuth(s.handleMarkAllNotificationsRead))

	return mux
}

// Start runs the server until it fails or Shutdown is called.
func (s *Server) Start() error {
	slog.Info("HTTP server starting", "addr", s.Addr)
	if err := s.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown stops the background goroutines and drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.shutdown()
		s.caches.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
