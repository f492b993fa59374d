package handlers

import (
	"net/http"
	"strconv"

	"francoggm/pagseguro-transparente/internal/app/gateway"

	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
)

type syncRequest struct {
	InitialDate string `json:"initial_date"`
	FinalDate   string `json:"final_date"`
}

func (h *Handlers) GetPayment(w http.ResponseWriter, r *http.Request) {
	orderNumber, err := strconv.Atoi(chi.URLParam(r, "orderNumber"))
	if err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid order number"})
		return
	}

	payment, found, err := h.paymentService.GetPayment(r.Context(), orderNumber)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if !found {
		h.writeJSON(w, http.StatusNotFound, errorResponse{Message: "payment not found"})
		return
	}

	h.writeJSON(w, http.StatusOK, payment)
}

// SyncTransactions runs a transaction search on demand.
func (h *Handlers) SyncTransactions(w http.ResponseWriter, r *http.Request) {
	var req syncRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid sync request"})
		return
	}

	report, err := h.paymentService.SyncTransactions(r.Context(), gateway.SearchQuery{
		InitialDate: req.InitialDate,
		FinalDate:   req.FinalDate,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, report)
}
