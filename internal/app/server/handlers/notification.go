package handlers

import (
	"net/http"
	"strings"
	"time"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Notification accepts a gateway webhook and queues it for reconciliation.
func (h *Handlers) Notification(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Message: "invalid notification"})
		return
	}

	code := strings.TrimSpace(r.Form.Get("notificationCode"))
	if code == "" {
		h.writeError(w, &gateway.Error{Kind: gateway.KindPrecondition, Message: "cannot process notification", Cause: gateway.ErrMissingNotificationCode})
		return
	}

	event := &models.NotificationEvent{
		ID:               uuid.New().String(),
		NotificationCode: code,
		NotificationType: r.Form.Get("notificationType"),
		ReceivedAt:       time.Now().UTC(),
	}
	if err := h.notifications.Enqueue(event); err != nil {
		h.logger.Warn("notification not queued", zap.String("notification_code", code), zap.Error(err))
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
