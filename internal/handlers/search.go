package handlers

import (
	"net/http"
	"strconv"

	"github.com/Skotchmaster/bus_tickets/internal/service/search"
	"github.com/Skotchmaster/bus_tickets/internal/util"
	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
)

type SearchHandler struct {
	ES    *elasticsearch.Client
	Index string
}

// GET /api/trips/search?q=&page=&size=
func (h *SearchHandler) Search(c echo.Context) error {
	if h.ES == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "search is not configured")
	}

	q := c.QueryParam("q")
	if q == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query error")
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	size, _ := strconv.Atoi(c.QueryParam("size"))
	from, size := util.Calculate(page, size)

	ctx := c.Request().Context()

	total, trips, err := search.Search(ctx, h.ES, h.Index, q, from, size)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "trips": trips})
}
