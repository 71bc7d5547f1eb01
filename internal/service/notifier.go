package service

import (
	"encoding/json"
	"fmt"

	"gestiostock-backend/internal/model"
	"gestiostock-backend/internal/repository"
	"gestiostock-backend/internal/ws"

	"github.com/google/uuid"
)

// Notifier fans domain events out to persisted notifications and connected
// websocket clients. Failures here are logged by callers, never propagated:
// a missed notification must not roll back a sale.
type Notifier struct {
	notifications repository.NotificationRepository
	users         repository.UserRepository
	hub           *ws.Hub
}

func NewNotifier(notifications repository.NotificationRepository, users repository.UserRepository, hub *ws.Hub) *Notifier {
	return &Notifier{notifications: notifications, users: users, hub: hub}
}

// LowStock alerts every active user that a product reached its minimum threshold.
func (n *Notifier) LowStock(product *model.Product) error {
	title := "Low stock alert"
	message := fmt.Sprintf("%s (%s) is down to %d %s (minimum %d)",
		product.Name, product.Reference, product.CurrentStock, product.Unit, product.MinStock)

	users, err := n.users.FindAll()
	if err != nil {
		return err
	}
	for _, user := range users {
		if !user.IsActive {
			continue
		}
		notification := &model.Notification{
			UserID:  user.ID,
			Type:    model.NotifyLowStock,
			Title:   title,
			Message: message,
		}
		if err := n.notifications.Create(notification); err != nil {
			return err
		}
	}

	n.broadcast(map[string]interface{}{
		"type":       "low_stock",
		"product_id": product.ID.String(),
		"reference":  product.Reference,
		"stock":      product.CurrentStock,
		"min_stock":  product.MinStock,
	})
	return nil
}

// Event pushes an ephemeral websocket event without persisting anything.
func (n *Notifier) Event(eventType string, payload map[string]interface{}) {
	if payload == nil {
		payload = map[string]interface{}{}
	}
	payload["type"] = eventType
	n.broadcast(payload)
}

// NotifyUser persists a single-recipient notification and mirrors it on the hub.
func (n *Notifier) NotifyUser(userID uuid.UUID, notifType, title, message string) error {
	notification := &model.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
	}
	if err := n.notifications.Create(notification); err != nil {
		return err
	}
	n.broadcast(map[string]interface{}{
		"type":    notifType,
		"user_id": userID.String(),
		"title":   title,
		"message": message,
	})
	return nil
}

func (n *Notifier) broadcast(payload map[string]interface{}) {
	if n.hub == nil {
		return
	}
	msg, err := json.Marshal(payload)
	if err != nil {
		return
	}
	// Non-blocking: the hub goroutine may not be running in tests.
	select {
	case n.hub.Broadcast <- msg:
	default:
	}
}
