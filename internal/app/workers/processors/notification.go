package processors

import (
	"context"
	"fmt"

	"francoggm/pagseguro-transparente/internal/app/gateway"
	"francoggm/pagseguro-transparente/internal/models"
)

type NotificationService interface {
	ProcessNotification(ctx context.Context, notificationCode string) (gateway.Reconciliation, error)
}

// NotificationProcessor reconciles queued webhook notifications.
type NotificationProcessor struct {
	service NotificationService
}

func NewNotificationProcessor(service NotificationService) *NotificationProcessor {
	return &NotificationProcessor{
		service: service,
	}
}

func (p *NotificationProcessor) ProcessEvent(ctx context.Context, event any) error {
	notification, ok := event.(*models.NotificationEvent)
	if !ok {
		return fmt.Errorf("unexpected event type %T", event)
	}

	_, err := p.service.ProcessNotification(ctx, notification.NotificationCode)
	return err
}
