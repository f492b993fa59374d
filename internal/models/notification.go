package models

import "time"

// NotificationEvent is a webhook notification waiting to be reconciled.
type NotificationEvent struct {
	ID               string    `json:"id"`
	NotificationCode string    `json:"notificationCode"`
	NotificationType string    `json:"notificationType"`
	ReceivedAt       time.Time `json:"receivedAt"`
}
