package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/teewear/shop/internal/models"
	"github.com/teewear/shop/internal/mykafka"
)

func newProductHandler(t *testing.T) *ProductHandler {
	return &ProductHandler{
		DB:       InitTestDB(t),
		Producer: mykafka.NewProducer(nil),
	}
}

func TestCreateProduct(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/products", map[string]any{
		"title":          "Classic Tee",
		"description":    "Plain white t-shirt",
		"price":          19.99,
		"size":           "M",
		"color":          "white",
		"stock_quantity": 25,
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)

	var product models.Product
	require.NoError(t, json.Unmarshal(env.Data, &product))
	require.Equal(t, "Classic Tee", product.Title)
	require.Equal(t, 19.99, product.Price)
	require.NotEmpty(t, product.ID)
}

func TestCreateProductMissingPrice(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/products", map[string]any{
		"title": "No price",
	})
	require.NoError(t, h.CreateProduct(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProduct(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	product := models.Product{Title: "Tee", Description: "d", Price: 10}
	require.NoError(t, h.DB.Create(&product).Error)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ID))
	require.NoError(t, h.GetProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	recMissing, cMissing := doJSONRequest(t, e, http.MethodGet, "/api/products/999", nil)
	cMissing.SetParamNames("id")
	cMissing.SetParamValues("999")
	require.NoError(t, h.GetProduct(cMissing))
	require.Equal(t, http.StatusNotFound, recMissing.Code)
}

func TestGetProductsPagination(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	for i := 0; i < 15; i++ {
		p := models.Product{Title: fmt.Sprintf("Tee %d", i), Description: "d", Price: float64(i + 1)}
		require.NoError(t, h.DB.Create(&p).Error)
	}

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/products?page=2&limit=10", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.NotNil(t, env.Count)
	require.Equal(t, 15, *env.Count)

	var data struct {
		Products    []models.Product `json:"products"`
		TotalPages  int              `json:"total_pages"`
		CurrentPage int              `json:"current_page"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data.Products, 5)
	require.Equal(t, 2, data.TotalPages)
	require.Equal(t, 2, data.CurrentPage)
}

func TestGetProductsCategoryFilter(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	cat := models.Category{Name: "hoodies"}
	require.NoError(t, h.DB.Create(&cat).Error)
	require.NoError(t, h.DB.Create(&models.Product{Title: "Hoodie", Description: "d", Price: 30, CategoryID: cat.ID}).Error)
	require.NoError(t, h.DB.Create(&models.Product{Title: "Tee", Description: "d", Price: 10}).Error)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/products?category=hoodies", nil)
	require.NoError(t, h.GetProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, 1, *env.Count)

	recNone, cNone := doJSONRequest(t, e, http.MethodGet, "/api/products?category=missing", nil)
	require.NoError(t, h.GetProducts(cNone))
	require.Equal(t, http.StatusOK, recNone.Code)
	require.Equal(t, 0, *decodeEnvelope(t, recNone).Count)
}

func TestGetFeaturedProducts(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	require.NoError(t, h.DB.Create(&models.Product{Title: "Featured", Description: "d", Price: 10, Featured: true}).Error)
	require.NoError(t, h.DB.Create(&models.Product{Title: "Plain", Description: "d", Price: 10}).Error)

	rec, c := doJSONRequest(t, e, http.MethodGet, "/api/products/featured", nil)
	require.NoError(t, h.GetFeaturedProducts(c))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.Equal(t, 1, *env.Count)

	var products []models.Product
	require.NoError(t, json.Unmarshal(env.Data, &products))
	require.Len(t, products, 1)
	require.Equal(t, "Featured", products[0].Title)
}

func TestUpdateProduct(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	product := models.Product{Title: "Tee", Description: "d", Price: 10}
	require.NoError(t, h.DB.Create(&product).Error)

	rec, c := doJSONRequest(t, e, http.MethodPut, "/api/products/1", map[string]any{
		"price":    12.5,
		"featured": true,
	})
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ID))
	require.NoError(t, h.UpdateProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, h.DB.First(&stored, product.ID).Error)
	require.Equal(t, 12.5, stored.Price)
	require.True(t, stored.Featured)
	require.Equal(t, "Tee", stored.Title)
}

func TestDeleteProduct(t *testing.T) {
	h := newProductHandler(t)
	e := echo.New()

	product := models.Product{Title: "Tee", Description: "d", Price: 10}
	require.NoError(t, h.DB.Create(&product).Error)

	rec, c := doJSONRequest(t, e, http.MethodDelete, "/api/products/1", nil)
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprint(product.ID))
	require.NoError(t, h.DeleteProduct(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var count int64
	require.NoError(t, h.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)

	recAgain, cAgain := doJSONRequest(t, e, http.MethodDelete, "/api/products/1", nil)
	cAgain.SetParamNames("id")
	cAgain.SetParamValues(fmt.Sprint(product.ID))
	require.NoError(t, h.DeleteProduct(cAgain))
	require.Equal(t, http.StatusNotFound, recAgain.Code)
}
