package order

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/teewear/shop/internal/models"
	"github.com/teewear/shop/internal/mykafka"
	"github.com/teewear/shop/internal/transport"
)

var errEmptyCart = errors.New("cart is empty")

type OrderHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func currentUser(c echo.Context) (uint, string, error) {
	id, ok := c.Get("userID").(uint)
	if !ok {
		return 0, "", echo.NewHTTPError(http.StatusUnauthorized, "not authenticated")
	}
	role, _ := c.Get("role").(string)
	return id, role, nil
}

func (h *OrderHandler) publish(c echo.Context, userID uint, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicOrderEvents, fmt.Sprint(userID), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *OrderHandler) GetOrders(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var orders []models.Order
	if err := h.DB.Preload("Items.Product").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	return transport.OKCount(c, http.StatusOK, orders, len(orders))
}

func (h *OrderHandler) GetOrder(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid order id")
	}

	var order models.Order
	if err := h.DB.Preload("Items.Product").
		Where("id = ? AND user_id = ?", id, userID).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Order not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	return transport.OK(c, http.StatusOK, order)
}

// CreateOrder converts the user's cart into an order. The whole write — order
// row, one item per cart row, cart deletion — happens in a single
// transaction; pricing comes from the cart snapshots, not the live catalog.
// A replayed Idempotency-Key returns the already-created order.
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	userID, _, err := currentUser(c)
	if err != nil {
		return err
	}

	var req struct {
		ShippingAddress string `json:"shipping_address"`
		PaymentMethod   string `json:"payment_method"`
	}
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	key := c.Request().Header.Get("Idempotency-Key")
	if key != "" {
		var existing models.Order
		err := h.DB.Preload("Items.Product").
			Where("idempotency_key = ? AND user_id = ?", key, userID).
			First(&existing).Error
		if err == nil {
			return transport.OK(c, http.StatusOK, echo.Map{
				"order":      existing,
				"orderItems": existing.Items,
			})
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusInternalServerError, "Server error")
		}
	} else {
		key = uuid.NewString()
	}

	// Empty cart is rejected before any transaction is opened.
	var cartCount int64
	if err := h.DB.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	if cartCount == 0 {
		return transport.Fail(c, http.StatusBadRequest, "Cart is empty")
	}

	var (
		order      models.Order
		orderItems []models.OrderItem
	)

	txErr := h.DB.Transaction(func(tx *gorm.DB) error {
		var items []models.CartItem
		if err := tx.Preload("Product").Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return errEmptyCart
		}

		var total float64
		for _, it := range items {
			total += it.Price * float64(it.Quantity)
		}

		order = models.Order{
			UserID:          userID,
			TotalAmount:     total,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Status:          models.OrderStatusPending,
			PaymentStatus:   models.PaymentStatusPending,
			IdempotencyKey:  key,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		orderItems = make([]models.OrderItem, 0, len(items))
		for _, it := range items {
			oi := models.OrderItem{
				OrderID:   order.ID,
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				Price:     it.Price,
			}
			if err := tx.Create(&oi).Error; err != nil {
				return err
			}
			// Product is attached for the response only; it is not part of
			// the row written above.
			oi.Product = it.Product
			orderItems = append(orderItems, oi)
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return nil
	})

	if txErr != nil {
		if errors.Is(txErr, errEmptyCart) {
			return transport.Fail(c, http.StatusBadRequest, "Cart is empty")
		}
		c.Logger().Errorf("create order failed: %v", txErr)
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":    "order_created",
		"userID":  userID,
		"orderID": order.ID,
		"total":   order.TotalAmount,
	})

	return transport.OK(c, http.StatusCreated, echo.Map{
		"order":      order,
		"orderItems": orderItems,
	})
}

func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}
	if role != "admin" {
		return echo.NewHTTPError(http.StatusForbidden, "admin rights required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid order id")
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	status, ok := ParseStatus(req.Status)
	if !ok {
		return transport.Fail(c, http.StatusBadRequest, "Unknown status: "+req.Status)
	}

	var order models.Order
	if err := h.DB.First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Order not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if !CanTransition(order.Status, status) {
		return transport.Fail(c, http.StatusBadRequest,
			fmt.Sprintf("Cannot change status from %s to %s", order.Status, status))
	}

	order.Status = status
	if err := h.DB.Save(&order).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":    "order_status_updated",
		"orderID": order.ID,
		"status":  order.Status,
	})
	return transport.OK(c, http.StatusOK, order)
}

func (h *OrderHandler) CancelOrder(c echo.Context) error {
	userID, role, err := currentUser(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid order id")
	}

	q := h.DB.Where("id = ?", id)
	if role != "admin" {
		q = q.Where("user_id = ?", userID)
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Order not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if !Cancellable(order.Status) {
		return transport.Fail(c, http.StatusBadRequest, "Order cannot be cancelled")
	}

	order.Status = models.OrderStatusCancelled
	if err := h.DB.Save(&order).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":    "order_cancelled",
		"orderID": order.ID,
	})
	return transport.OK(c, http.StatusOK, order)
}
