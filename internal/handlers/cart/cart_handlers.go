package cart

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/teewear/shop/internal/models"
	"github.com/teewear/shop/internal/mykafka"
	"github.com/teewear/shop/internal/transport"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var items []models.CartItem
	if err := h.DB.Preload("Product").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	return transport.OKCount(c, http.StatusOK, items, len(items))
}

func (h *CartHandler) AddToCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var product models.Product
	if err := h.DB.First(&product, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Product not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	var item models.CartItem
	tx := h.DB.Where("user_id = ? AND product_id = ?", userID, req.ProductID).First(&item)
	if tx.Error == nil {
		// The price snapshot taken when the row was created stays as-is.
		item.Quantity = req.Quantity
		if err := h.DB.Save(&item).Error; err != nil {
			return transport.Fail(c, http.StatusInternalServerError, "Server error")
		}
		h.publish(c, userID, map[string]any{
			"type":      "cart_item_updated",
			"userID":    userID,
			"productID": req.ProductID,
			"quantity":  item.Quantity,
		})
		return transport.OK(c, http.StatusOK, item)
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	item = models.CartItem{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Price:     product.Price,
	}
	if err := h.DB.Create(&item).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
		"price":     item.Price,
	})
	return transport.OK(c, http.StatusOK, item)
}

func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return transport.Fail(c, http.StatusBadRequest, "Invalid cart item id")
	}

	var req struct {
		Quantity uint `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Quantity < 1 {
		return transport.Fail(c, http.StatusBadRequest, "Quantity must be at least 1")
	}

	var item models.CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Cart item not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	item.Quantity = req.Quantity
	if err := h.DB.Save(&item).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":     "cart_item_updated",
		"userID":   userID,
		"itemID":   item.ID,
		"quantity": item.Quantity,
	})
	return transport.OK(c, http.StatusOK, item)
}

func (h *CartHandler) RemoveFromCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return transport.Fail(c, http.StatusBadRequest, "Invalid cart item id")
	}

	var item models.CartItem
	if err := h.DB.Where("id = ? AND user_id = ?", id, userID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Cart item not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if err := h.DB.Delete(&item).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":   "cart_item_removed",
		"userID": userID,
		"itemID": item.ID,
	})
	return transport.OKMessage(c, http.StatusOK, "Item removed from cart")
}

func (h *CartHandler) ClearCart(c echo.Context) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	if err := h.DB.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, userID, map[string]any{
		"type":   "cart_cleared",
		"userID": userID,
	})
	return transport.OKMessage(c, http.StatusOK, "Cart cleared")
}

func (h *CartHandler) publish(c echo.Context, userID uint, event map[string]any) {
	publishEvent(c, h.Producer, mykafka.TopicCartEvents, fmt.Sprint(userID), event)
}
