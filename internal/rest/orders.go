package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"gorm.io/datatypes"
)

type (
	OrdersHandler struct {
		validate      *validator.Validate
		ordersService OrdersService
		timeout       time.Duration
	}

	OrdersService interface {
		CreateOrder(ctx context.Context, input domain.CreateOrderInput) (domain.Order, error)
		ConfirmOrder(ctx context.Context, id uint, transactionHash string) (domain.Order, error)
		SetStatus(ctx context.Context, id uint, status string) (domain.Order, error)
		CancelOrder(ctx context.Context, id uint) (domain.Order, error)
		GetOrder(ctx context.Context, id uint) (domain.Order, error)
		ListOrders(ctx context.Context, filter domain.OrderFilter, page domain.Page) (domain.PageResult[domain.Order], error)
		ListOrdersForWallet(ctx context.Context, wallet string, page domain.Page) (domain.PageResult[domain.Order], error)
	}

	OrdersInput struct {
		CardID             uint            `json:"card_id" validate:"required"`
		BuyerWalletAddress string          `json:"buyer_wallet_address" validate:"required"`
		Quantity           *int            `json:"quantity" validate:"omitempty,gte=1"`
		Email              *string         `json:"email" validate:"omitempty,email"`
		CustomerInfo       json.RawMessage `json:"customer_info"`
	}

	ConfirmInput struct {
		TransactionHash string `json:"transaction_hash" validate:"required,max=66"`
	}

	StatusInput struct {
		Status string `json:"status" validate:"required"`
	}
)

func NewOrdersHandler(ordersService OrdersService, timeout time.Duration) *OrdersHandler {
	return &OrdersHandler{
		validate:      validator.New(),
		ordersService: ordersService,
		timeout:       timeout,
	}
}

func (h *OrdersHandler) CreateOrder(c echo.Context) error {
	var request OrdersInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate order request", err)
		return badRequest(c, err.Error())
	}

	input := domain.CreateOrderInput{
		BuyerWalletAddress: request.BuyerWalletAddress,
		CardID:             request.CardID,
		Quantity:           1,
		Email:              request.Email,
	}
	if request.Quantity != nil {
		input.Quantity = *request.Quantity
	}
	if info := bytes.TrimSpace(request.CustomerInfo); len(info) > 0 && !bytes.Equal(info, []byte("null")) {
		input.CustomerInfo = datatypes.JSON(info)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CreateOrder(ctx, input)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, order)
}

func (h *OrdersHandler) GetAllOrders(c echo.Context) error {
	filter := domain.OrderFilter{
		Status: c.QueryParam("status"),
	}

	if raw := c.QueryParam("user_id"); raw != "" {
		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return badRequest(c, "invalid user_id")
		}
		filter.UserID = uint(userID)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.ordersService.ListOrders(ctx, filter, parsePage(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, newOrderListResponse(result))
}

func (h *OrdersHandler) GetOrderByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.GetOrder(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) ConfirmOrder(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}

	var request ConfirmInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate confirm request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.ConfirmOrder(ctx, id, request.TransactionHash)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}

	var request StatusInput

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate status request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.SetStatus(ctx, id, request.Status)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) CancelOrder(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid order id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	order, err := h.ordersService.CancelOrder(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, order)
}

func (h *OrdersHandler) GetOrdersByWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.ordersService.ListOrdersForWallet(ctx, c.Param("wallet_address"), parsePage(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, newOrderListResponse(result))
}
