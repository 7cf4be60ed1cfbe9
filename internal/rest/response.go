package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"

	"github.com/labstack/echo/v4"
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

// errorResponse maps domain errors onto HTTP statuses. Anything unrecognized
// is a 500 whose details stay in the log.
func errorResponse(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidRequest):
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.JSON(http.StatusConflict, ResponseError{Message: err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		return c.JSON(http.StatusGatewayTimeout, ResponseError{Message: "request timed out"})
	default:
		logger.Error("unhandled error", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "internal server error"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, ResponseError{Message: msg})
}

func parseID(c echo.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}

	return uint(id), true
}

// parsePage reads page and per_page. Unparseable values fall back to the
// defaults.
func parsePage(c echo.Context) domain.Page {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	perPage, _ := strconv.Atoi(c.QueryParam("per_page"))

	return domain.NewPage(page, perPage)
}

type CardListResponse struct {
	Cards       []domain.Card `json:"cards"`
	Total       int64         `json:"total"`
	Pages       int           `json:"pages"`
	CurrentPage int           `json:"current_page"`
}

func newCardListResponse(r domain.PageResult[domain.Card]) CardListResponse {
	return CardListResponse{
		Cards:       r.Items,
		Total:       r.Total,
		Pages:       r.Pages,
		CurrentPage: r.CurrentPage,
	}
}

type OrderListResponse struct {
	Orders      []domain.Order `json:"orders"`
	Total       int64          `json:"total"`
	Pages       int            `json:"pages"`
	CurrentPage int            `json:"current_page"`
}

func newOrderListResponse(r domain.PageResult[domain.Order]) OrderListResponse {
	return OrderListResponse{
		Orders:      r.Items,
		Total:       r.Total,
		Pages:       r.Pages,
		CurrentPage: r.CurrentPage,
	}
}
