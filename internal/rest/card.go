package rest

import (
	"context"
	"net/http"
	"time"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type CardService interface {
	ListCards(ctx context.Context, filter domain.CardFilter, page domain.Page) (domain.PageResult[domain.Card], error)
	SearchCards(ctx context.Context, q string, page domain.Page) (domain.PageResult[domain.Card], error)
	GetCardByID(ctx context.Context, id uint) (domain.Card, error)
	CreateCard(ctx context.Context, input domain.CardInput) (domain.Card, error)
	UpdateCard(ctx context.Context, id uint, patch domain.CardPatch) (domain.Card, error)
	DeactivateCard(ctx context.Context, id uint) error
	ListSets(ctx context.Context) ([]string, error)
}

type CardHandler struct {
	cardService CardService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewCardHandler(cardService CardService, timeout time.Duration) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		validator:   validator.New(),
		timeout:     timeout,
	}
}

type CreateCardRequest struct {
	Name          string           `json:"name" validate:"required,max=100"`
	Description   *string          `json:"description"`
	PriceEth      *decimal.Decimal `json:"price_eth" validate:"required"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=255"`
	Rarity        *string          `json:"rarity" validate:"omitempty,max=50"`
	SetName       *string          `json:"set_name" validate:"omitempty,max=100"`
	CardNumber    *string          `json:"card_number" validate:"omitempty,max=20"`
	Condition     *string          `json:"condition" validate:"omitempty,max=50"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
}

type UpdateCardRequest struct {
	Name          *string          `json:"name" validate:"omitempty,max=100"`
	Description   *string          `json:"description"`
	PriceEth      *decimal.Decimal `json:"price_eth"`
	ImageURL      *string          `json:"image_url" validate:"omitempty,max=255"`
	Rarity        *string          `json:"rarity" validate:"omitempty,max=50"`
	SetName       *string          `json:"set_name" validate:"omitempty,max=100"`
	CardNumber    *string          `json:"card_number" validate:"omitempty,max=20"`
	Condition     *string          `json:"condition" validate:"omitempty,max=50"`
	StockQuantity *int             `json:"stock_quantity" validate:"omitempty,gte=0"`
	IsActive      *bool            `json:"is_active"`
}

func (h *CardHandler) GetCards(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	filter := domain.CardFilter{
		Rarity:  c.QueryParam("rarity"),
		SetName: c.QueryParam("set_name"),
	}

	result, err := h.cardService.ListCards(ctx, filter, parsePage(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, newCardListResponse(result))
}

func (h *CardHandler) SearchCards(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.cardService.SearchCards(ctx, c.QueryParam("q"), parsePage(c))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, newCardListResponse(result))
}

func (h *CardHandler) GetSets(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	sets, err := h.cardService.ListSets(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"sets": sets,
	})
}

func (h *CardHandler) GetCardByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid card id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.cardService.GetCardByID(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, card)
}

func (h *CardHandler) CreateCard(c echo.Context) error {
	var req CreateCardRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate card request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.cardService.CreateCard(ctx, domain.CardInput{
		Name:          req.Name,
		Description:   req.Description,
		PriceEth:      *req.PriceEth,
		ImageURL:      req.ImageURL,
		Rarity:        req.Rarity,
		SetName:       req.SetName,
		CardNumber:    req.CardNumber,
		Condition:     req.Condition,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, card)
}

func (h *CardHandler) UpdateCard(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid card id")
	}

	var req UpdateCardRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Failed to bind request", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate card request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	card, err := h.cardService.UpdateCard(ctx, id, domain.CardPatch{
		Name:          req.Name,
		Description:   req.Description,
		PriceEth:      req.PriceEth,
		ImageURL:      req.ImageURL,
		Rarity:        req.Rarity,
		SetName:       req.SetName,
		CardNumber:    req.CardNumber,
		Condition:     req.Condition,
		StockQuantity: req.StockQuantity,
		IsActive:      req.IsActive,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, card)
}

func (h *CardHandler) DeleteCard(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid card id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.cardService.DeactivateCard(ctx, id); err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
