package handlers

import (
	"net/http"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/bytedance/sonic"
)

type checkoutRequest struct {
	Order   models.Order `json:"order"`
	NextURL string       `json:"next_url"`
}

type checkoutResponse struct {
	URL          string `json:"url,omitempty"`
	CheckoutCode string `json:"checkout_code,omitempty"`
	Message      string `json:"message,omitempty"`
	StatusCode   int    `json:"status_code,omitempty"`
	Fatal        bool   `json:"fatal,omitempty"`
}

func (h *Handlers) Checkout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid checkout request"})
		return
	}

	outcome, err := h.paymentService.Checkout(r.Context(), req.Order, req.NextURL)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if outcome.Kind == gateway.OutcomeSuccess {
		h.writeJSON(w, http.StatusOK, checkoutResponse{URL: outcome.PaymentURL, CheckoutCode: outcome.CheckoutCode})
		return
	}

	h.writeJSON(w, http.StatusOK, checkoutResponse{
		Message:    outcome.Display(),
		StatusCode: outcome.StatusCode,
		Fatal:      outcome.Fatal(),
	})
}
