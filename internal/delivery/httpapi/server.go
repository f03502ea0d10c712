package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/NasaVasa/carewatch/internal/domain"
	"github.com/NasaVasa/carewatch/internal/infra/metrics"
	"github.com/NasaVasa/carewatch/internal/usecase"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RecordWriter interface {
	Save(ctx context.Context, record *domain.Record) (*usecase.RecomputeResult, error)
	Update(ctx context.Context, record *domain.Record) (*usecase.RecomputeResult, error)
	Delete(ctx context.Context, userID, recordID string) (*usecase.RecomputeResult, error)
}

type AlertReader interface {
	ListAlerts(ctx context.Context, userID string, query usecase.ListAlertsQuery) ([]domain.Alert, error)
	Summarize(ctx context.Context, userID, month string) (domain.AlertSummary, error)
}

type AdvisoryLister interface {
	List(ctx context.Context, userID string, limit int) ([]domain.Advisory, error)
}

type TelegramLinker interface {
	LinkTelegram(ctx context.Context, userID string, chatID int64, consent bool) (*domain.User, error)
}

type SocketServer interface {
	Serve(w http.ResponseWriter, r *http.Request, userID string)
}

type Deps struct {
	Records    RecordWriter
	Alerts     AlertReader
	Engine     usecase.Recomputer
	Advisories AdvisoryLister
	Users      TelegramLinker
	Sockets    SocketServer
	Metrics    *metrics.Metrics
	Gatherer   prometheus.Gatherer
	Location   *time.Location
	Logger     *zap.Logger
}

type Server struct {
	deps   Deps
	now    func() time.Time
	server *http.Server
}

func NewServer(addr string, deps Deps) *Server {
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	s := &Server{deps: deps, now: time.Now}
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		OK(w, map[string]string{"status": "ok"})
	})
	if s.deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.deps.Gatherer, promhttp.HandlerOpts{}))
	}
	if s.deps.Sockets != nil {
		r.Get("/users/{userID}/ws", func(w http.ResponseWriter, r *http.Request) {
			s.deps.Sockets.Serve(w, r, chi.URLParam(r, "userID"))
		})
	}

	r.Group(func(r chi.Router) {
		r.Use(requestLogger(s.deps.Logger, s.deps.Metrics))
		r.Route("/users/{userID}", func(r chi.Router) {
			r.Post("/records", s.createRecord)
			r.Put("/records/{recordID}", s.updateRecord)
			r.Delete("/records/{recordID}", s.deleteRecord)
			r.Get("/alerts", s.listAlerts)
			r.Get("/alerts/summary", s.summary)
			r.Post("/recompute", s.recompute)
			r.Get("/advisories", s.listAdvisories)
			r.Put("/telegram", s.linkTelegram)
		})
	})
	return r
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.deps.Logger.Info("http server listening", zap.String("addr", s.server.Addr))
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
