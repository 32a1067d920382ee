package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/teewear/shop/internal/es"
	"github.com/teewear/shop/internal/models"
	"github.com/teewear/shop/internal/mykafka"
	"github.com/teewear/shop/internal/transport"
	"github.com/teewear/shop/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
}

var productSortFields = map[string]string{
	"title":      "title",
	"price":      "price",
	"created_at": "created_at",
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func (h *ProductHandler) publish(c echo.Context, key string, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, key, event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

func (h *ProductHandler) indexProduct(c echo.Context, p models.Product) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.IndexProduct(ctx, h.ES, h.ESIndex, p); err != nil {
		c.Logger().Errorf("ES index error: %v", err)
	}
}

func (h *ProductHandler) removeFromIndex(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := es.DeleteProduct(ctx, h.ES, h.ESIndex, id); err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
	}
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	q := h.DB.Model(&models.Product{})

	if category := c.QueryParam("category"); category != "" {
		var cat models.Category
		if err := h.DB.Where("name = ?", category).First(&cat).Error; err == nil {
			q = q.Where("category_id = ?", cat.ID)
		} else {
			q = q.Where("1 = 0")
		}
	}
	if c.QueryParam("featured") == "true" {
		q = q.Where("featured = ?", true)
	}

	order := "created_at DESC"
	if sort := c.QueryParam("sort"); sort != "" {
		parts := strings.SplitN(sort, ":", 2)
		field, ok := productSortFields[parts[0]]
		if ok && len(parts) == 2 {
			switch parts[1] {
			case "asc":
				order = field + " ASC"
			case "desc":
				order = field + " DESC"
			}
		}
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	var items []models.Product
	if err := q.Preload("Category").
		Order(order).
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	return transport.OKCount(c, http.StatusOK, echo.Map{
		"products":     items,
		"total_pages":  (total + int64(limit) - 1) / int64(limit),
		"current_page": page,
	}, int(total))
}

func (h *ProductHandler) GetFeaturedProducts(c echo.Context) error {
	var items []models.Product
	if err := h.DB.Preload("Category").
		Where("featured = ?", true).
		Limit(6).
		Find(&items).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OKCount(c, http.StatusOK, items, len(items))
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid product id")
	}

	var product models.Product
	if err := h.DB.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Product not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OK(c, http.StatusOK, product)
}

type productRequest struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Price         *float64 `json:"price"`
	ImgSrc        string   `json:"img_src"`
	Size          string   `json:"size"`
	Color         string   `json:"color"`
	StockQuantity *uint    `json:"stock_quantity"`
	CategoryID    *uint    `json:"category_id"`
	Featured      *bool    `json:"featured"`
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req productRequest
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Title == "" || req.Price == nil {
		return transport.Fail(c, http.StatusBadRequest, "Title and price are required")
	}

	product := models.Product{
		Title:       req.Title,
		Description: req.Description,
		Price:       *req.Price,
		ImgSrc:      req.ImgSrc,
		Size:        req.Size,
		Color:       req.Color,
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := h.DB.Create(&product).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_created",
		"productID": product.ID,
		"title":     product.Title,
	})
	h.indexProduct(c, product)

	return transport.OK(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid product id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Product not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if req.Title != "" {
		product.Title = req.Title
	}
	if req.Description != "" {
		product.Description = req.Description
	}
	if req.Price != nil {
		product.Price = *req.Price
	}
	if req.ImgSrc != "" {
		product.ImgSrc = req.ImgSrc
	}
	if req.Size != "" {
		product.Size = req.Size
	}
	if req.Color != "" {
		product.Color = req.Color
	}
	if req.StockQuantity != nil {
		product.StockQuantity = *req.StockQuantity
	}
	if req.CategoryID != nil {
		product.CategoryID = *req.CategoryID
	}
	if req.Featured != nil {
		product.Featured = *req.Featured
	}

	if err := h.DB.Save(&product).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_updated",
		"productID": product.ID,
		"title":     product.Title,
	})
	h.indexProduct(c, product)

	return transport.OK(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid product id")
	}

	var product models.Product
	if err := h.DB.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Product not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if err := h.DB.Delete(&product).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	h.publish(c, fmt.Sprint(product.ID), map[string]any{
		"type":      "product_deleted",
		"productID": product.ID,
	})
	h.removeFromIndex(c, product.ID)

	return transport.OKMessage(c, http.StatusOK, "Product deleted")
}
