package handlers

import (
	"net/http"

	"francoggm/pagseguro-transparente/internal/app/payment"
)

type urlResponse struct {
	URL string `json:"url"`
}

type installResponse struct {
	payment.AuthorizationGrant
	NextURL string `json:"next_url,omitempty"`
}

// Authorization starts the install handshake.
func (h *Handlers) Authorization(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, err := h.paymentService.AuthorizationURL(r.Context(), query.Get("next_url"), query.Get("ua") == "1")
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, urlResponse{URL: page})
}

// Install receives the merchant back from the gateway with the authorization
// notification and returns the granted authorization code.
func (h *Handlers) Install(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	grant, err := h.paymentService.CompleteAuthorization(r.Context(), query.Get("notificationCode"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, installResponse{AuthorizationGrant: grant, NextURL: query.Get("next_url")})
}

func (h *Handlers) Uninstall(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, urlResponse{URL: h.paymentService.UninstallURL()})
}
