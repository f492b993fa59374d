package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/app/server/handlers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type Server struct {
	port     string
	router   *chi.Mux
	handlers *handlers.Handlers
	http     *http.Server
}

func NewServer(port string, handlers *handlers.Handlers) *Server {
	srv := &Server{
		port:     port,
		router:   chi.NewRouter(),
		handlers: handlers,
	}

	srv.registerRoutes()
	srv.http = &http.Server{
		Addr:              fmt.Sprintf(":%s", port),
		Handler:           srv.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv
}

func (s *Server) registerRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Post("/checkout", s.handlers.Checkout)
	s.router.Get("/payments/{orderNumber}", s.handlers.GetPayment)
	s.router.Post("/transactions/sync", s.handlers.SyncTransactions)

	s.router.Get("/authorization", s.handlers.Authorization)
	s.router.Get("/authorization/uninstall", s.handlers.Uninstall)

	// gateway callbacks, see gateway.CallbackBase and gateway.InstallRedirectBase
	s.router.Route("/pagador/meio-pagamento/"+gateway.Name+"/retorno/{storeID}", func(r chi.Router) {
		r.Use(s.handlers.StoreScoped)
		r.Post("/notificacao", s.handlers.Notification)
		r.Get("/resultado", s.handlers.Result)
	})
	s.router.With(s.handlers.StoreScoped).
		Get("/pagador/loja/{storeID}/meio-pagamento/"+gateway.Name+"/instalar", s.handlers.Install)
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run() error {
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
