package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/teewear/shop/internal/models"
	"github.com/teewear/shop/internal/transport"
)

type CategoryHandler struct {
	DB *gorm.DB
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	var categories []models.Category
	if err := h.DB.Order("name ASC").Find(&categories).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OKCount(c, http.StatusOK, categories, len(categories))
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid category id")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Category not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OK(c, http.StatusOK, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}
	if req.Name == "" {
		return transport.Fail(c, http.StatusBadRequest, "Name is required")
	}

	category := models.Category{Name: req.Name, Description: req.Description}
	if err := h.DB.Create(&category).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OK(c, http.StatusCreated, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid category id")
	}

	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := c.Bind(&req); err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid request body")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Category not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if req.Name != "" {
		category.Name = req.Name
	}
	if req.Description != "" {
		category.Description = req.Description
	}

	if err := h.DB.Save(&category).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OK(c, http.StatusOK, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return transport.Fail(c, http.StatusBadRequest, "Invalid category id")
	}

	var category models.Category
	if err := h.DB.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return transport.Fail(c, http.StatusNotFound, "Category not found")
		}
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	if err := h.DB.Delete(&category).Error; err != nil {
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}
	return transport.OKMessage(c, http.StatusOK, "Category deleted")
}
