package handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/app/payment"
	"francoggm/pagseguro-transparente/internal/app/workers"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type PaymentService interface {
	Checkout(ctx context.Context, order models.Order, nextURL string) (gateway.Outcome, error)
	HandleRedirect(ctx context.Context, req gateway.RedirectRequest) (gateway.RedirectResult, error)
	AuthorizationURL(ctx context.Context, nextURL string, alternative bool) (string, error)
	CompleteAuthorization(ctx context.Context, notificationCode string) (payment.AuthorizationGrant, error)
	UninstallURL() string
	SyncTransactions(ctx context.Context, query gateway.SearchQuery) (payment.SyncReport, error)
	GetPayment(ctx context.Context, orderNumber int) (models.StoredPayment, bool, error)
}

type EventQueue interface {
	Enqueue(event any) error
}

type Handlers struct {
	storeID        int
	redirectHosts  map[string]struct{}
	paymentService PaymentService
	notifications  EventQueue
	logger         *zap.Logger
}

// NewHandlers builds the HTTP handlers. redirectHosts lists the hosts the buyer
// may be sent to after checkout; relative paths are always allowed.
func NewHandlers(storeID int, redirectHosts []string, paymentService PaymentService, notifications EventQueue, logger *zap.Logger) *Handlers {
	hosts := make(map[string]struct{}, len(redirectHosts))
	for _, host := range redirectHosts {
		if host = strings.ToLower(strings.TrimSpace(host)); host != "" {
			hosts[host] = struct{}{}
		}
	}

	return &Handlers{
		storeID:        storeID,
		redirectHosts:  hosts,
		paymentService: paymentService,
		notifications:  notifications,
		logger:         logger,
	}
}

type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// StoreScoped rejects callbacks addressed to another store.
func (h *Handlers) StoreScoped(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		storeID, err := strconv.Atoi(chi.URLParam(r, "storeID"))
		if err != nil || storeID != h.storeID {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		h.logger.Error("error encoding response", zap.Error(err))
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError maps service errors onto HTTP statuses.
func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	var (
		gwErr       *gateway.Error
		deliveryErr *gateway.DeliveryError
		searchErr   *gateway.SearchErrors
	)

	switch {
	case errors.As(err, &deliveryErr):
		h.writeJSON(w, http.StatusBadGateway, errorResponse{Message: deliveryErr.Message, Errors: deliveryErr.Errors})
	case errors.As(err, &searchErr):
		messages := make([]string, 0, len(searchErr.Errors))
		for _, entry := range searchErr.Errors {
			messages = append(messages, entry.String())
		}
		h.writeJSON(w, http.StatusBadGateway, errorResponse{Message: "transaction search rejected", Errors: messages})
	case errors.As(err, &gwErr):
		h.writeJSON(w, statusForKind(gwErr.Kind), errorResponse{Message: gwErr.Error()})
	case errors.Is(err, workers.ErrQueueFull):
		h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Message: err.Error()})
	default:
		h.logger.Error("unexpected error", zap.Error(err))
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Message: "internal error"})
	}
}

func statusForKind(kind gateway.Kind) int {
	switch kind {
	case gateway.KindPrecondition:
		return http.StatusBadRequest
	case gateway.KindTransient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
