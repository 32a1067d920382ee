package handlers

import (
	"net/http"
	"strconv"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"

	"github.com/teewear/shop/internal/service/search"
	"github.com/teewear/shop/internal/transport"
	"github.com/teewear/shop/internal/util"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

func (h *SearchHandler) Search(c echo.Context) error {
	q := c.QueryParam("q")
	if q == "" {
		return transport.Fail(c, http.StatusBadRequest, "Query is required")
	}
	if h.ES == nil {
		return transport.Fail(c, http.StatusServiceUnavailable, "Search is not available")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("limit"))
	from, size := util.Calculate(page, size)

	total, products, err := search.Search(c.Request().Context(), h.ES, h.Index, q, from, size)
	if err != nil {
		c.Logger().Errorf("ES search error: %v", err)
		return transport.Fail(c, http.StatusInternalServerError, "Server error")
	}

	return transport.OKCount(c, http.StatusOK, products, int(total))
}
