package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"francoggm/pagseguro-transparente/internal/app/gateway"

	"go.uber.org/zap"
)

type resultResponse struct {
	Result      string `json:"result"`
	OrderNumber int    `json:"order_number"`
	Status      string `json:"status,omitempty"`
}

// Result is where the gateway sends the buyer back after checkout.
func (h *Handlers) Result(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	req := gateway.RedirectRequest{
		Transaction: query.Get("transacao"),
		Reference:   query.Get("referencia"),
		NextURL:     query.Get("next_url"),
	}

	result, err := h.paymentService.HandleRedirect(r.Context(), req)
	if err != nil {
		h.logger.Error("redirect not recorded", zap.String("reference", req.Reference), zap.Error(err))
	}

	if result.NextURL != "" {
		if h.trustedRedirect(result.NextURL) {
			http.Redirect(w, r, result.NextURL, http.StatusFound)
			return
		}
		h.logger.Warn("next_url not allowed", zap.String("next_url", result.NextURL))
	}

	h.writeJSON(w, http.StatusOK, resultResponse{
		Result:      string(result.Status),
		OrderNumber: result.OrderNumber,
		Status:      string(result.Delta.Status),
	})
}

// trustedRedirect accepts a path on this host or an http(s) URL on a configured host.
func (h *Handlers) trustedRedirect(raw string) bool {
	if strings.ContainsAny(raw, "\\\r\n") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if u.Scheme == "" && u.Host == "" {
		return strings.HasPrefix(raw, "/") && !strings.HasPrefix(raw, "//")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false
	}
	_, ok := h.redirectHosts[strings.ToLower(u.Hostname())]
	return ok
}
