package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/teewear/shop/internal/models"
)

func TestCategoryCRUD(t *testing.T) {
	h := &CategoryHandler{DB: InitTestDB(t)}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/categories", map[string]string{
		"name":        "tees",
		"description": "t-shirts",
	})
	require.NoError(t, h.CreateCategory(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Category
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &created))
	require.Equal(t, "tees", created.Name)

	recList, cList := doJSONRequest(t, e, http.MethodGet, "/api/categories", nil)
	require.NoError(t, h.GetCategories(cList))
	require.Equal(t, http.StatusOK, recList.Code)
	require.Equal(t, 1, *decodeEnvelope(t, recList).Count)

	recUpd, cUpd := doJSONRequest(t, e, http.MethodPut, "/api/categories/1", map[string]string{
		"description": "all t-shirts",
	})
	cUpd.SetParamNames("id")
	cUpd.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, h.UpdateCategory(cUpd))
	require.Equal(t, http.StatusOK, recUpd.Code)

	var stored models.Category
	require.NoError(t, h.DB.First(&stored, created.ID).Error)
	require.Equal(t, "all t-shirts", stored.Description)
	require.Equal(t, "tees", stored.Name)

	recDel, cDel := doJSONRequest(t, e, http.MethodDelete, "/api/categories/1", nil)
	cDel.SetParamNames("id")
	cDel.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, h.DeleteCategory(cDel))
	require.Equal(t, http.StatusOK, recDel.Code)

	recMissing, cMissing := doJSONRequest(t, e, http.MethodGet, "/api/categories/1", nil)
	cMissing.SetParamNames("id")
	cMissing.SetParamValues(fmt.Sprint(created.ID))
	require.NoError(t, h.GetCategory(cMissing))
	require.Equal(t, http.StatusNotFound, recMissing.Code)
}

func TestCreateCategoryMissingName(t *testing.T) {
	h := &CategoryHandler{DB: InitTestDB(t)}
	e := echo.New()

	rec, c := doJSONRequest(t, e, http.MethodPost, "/api/categories", map[string]string{
		"description": "no name",
	})
	require.NoError(t, h.CreateCategory(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
