package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerguard/invoice-audit/pkg/history"
	"github.com/ledgerguard/invoice-audit/pkg/processor"
)

// NewRouter assembles the HTTP API.
func NewRouter(proc *processor.Processor, store *history.Store) http.Handler {
	invoicesHandler := NewInvoicesHandler(proc, store)
	historyHandler := NewHistoryHandler(store)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/invoices", func(r chi.Router) {
			r.Get("/", invoicesHandler.List)
			r.Post("/", invoicesHandler.Process)
		})
		r.Get("/aggregates", historyHandler.Aggregates)
		r.Delete("/history", historyHandler.Clear)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	return r
}
