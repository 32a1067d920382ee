package order

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/teewear/shop/internal/models"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusPending, models.OrderStatusProcessing},
		{models.OrderStatusPending, models.OrderStatusCancelled},
		{models.OrderStatusProcessing, models.OrderStatusShipped},
		{models.OrderStatusProcessing, models.OrderStatusCancelled},
		{models.OrderStatusShipped, models.OrderStatusDelivered},
	}
	for _, tc := range allowed {
		require.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	forbidden := []struct{ from, to models.OrderStatus }{
		{models.OrderStatusPending, models.OrderStatusShipped},
		{models.OrderStatusPending, models.OrderStatusDelivered},
		{models.OrderStatusShipped, models.OrderStatusCancelled},
		{models.OrderStatusDelivered, models.OrderStatusCancelled},
		{models.OrderStatusCancelled, models.OrderStatusPending},
		{models.OrderStatusDelivered, models.OrderStatusPending},
	}
	for _, tc := range forbidden {
		require.False(t, CanTransition(tc.from, tc.to), "%s -> %s should be forbidden", tc.from, tc.to)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range []string{"pending", "processing", "shipped", "delivered", "cancelled"} {
		status, ok := ParseStatus(s)
		require.True(t, ok)
		require.Equal(t, models.OrderStatus(s), status)
	}

	_, ok := ParseStatus("unknown")
	require.False(t, ok)
}

func TestCancellable(t *testing.T) {
	require.True(t, Cancellable(models.OrderStatusPending))
	require.True(t, Cancellable(models.OrderStatusProcessing))
	require.False(t, Cancellable(models.OrderStatusShipped))
	require.False(t, Cancellable(models.OrderStatusDelivered))
	require.False(t, Cancellable(models.OrderStatusCancelled))
}
