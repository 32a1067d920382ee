package order

import "github.com/teewear/shop/internal/models"

// transitions is the authoritative status table: an order may only move along
// one of these edges. delivered and cancelled are terminal.
var transitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending:    {models.OrderStatusProcessing, models.OrderStatusCancelled},
	models.OrderStatusProcessing: {models.OrderStatusShipped, models.OrderStatusCancelled},
	models.OrderStatusShipped:    {models.OrderStatusDelivered},
	models.OrderStatusDelivered:  {},
	models.OrderStatusCancelled:  {},
}

func ParseStatus(s string) (models.OrderStatus, bool) {
	status := models.OrderStatus(s)
	_, ok := transitions[status]
	return status, ok
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func Cancellable(s models.OrderStatus) bool {
	return CanTransition(s, models.OrderStatusCancelled)
}
