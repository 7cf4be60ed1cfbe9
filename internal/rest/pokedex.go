package rest

import (
	"context"
	"net/http"
	"time"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PokedexHandler struct {
		validate       *validator.Validate
		pokedexService PokedexService
		timeout        time.Duration
	}

	PokedexService interface {
		Today(ctx context.Context, wallet string) (domain.DailyPokemon, error)
		Catch(ctx context.Context, input domain.CatchInput) (domain.CatchResult, error)
		GetPokedex(ctx context.Context, wallet string) (domain.Pokedex, error)
		CheckBadges(ctx context.Context, wallet string) ([]domain.UserBadge, error)
	}

	CatchRequest struct {
		WalletAddress string `json:"wallet_address" validate:"required"`
		PokemonID     int    `json:"pokemon_id" validate:"required,min=1,max=151"`
		PokemonName   string `json:"pokemon_name" validate:"required,max=64"`
		Sprite        string `json:"sprite" validate:"required,max=255"`
	}

	CheckBadgesRequest struct {
		WalletAddress string `json:"wallet_address" validate:"required"`
	}

	BadgesResponse struct {
		Badges []domain.UserBadge `json:"badges"`
	}
)

func NewPokedexHandler(pokedexService PokedexService, timeout time.Duration) *PokedexHandler {
	return &PokedexHandler{
		validate:       validator.New(),
		pokedexService: pokedexService,
		timeout:        timeout,
	}
}

func (h *PokedexHandler) Today(c echo.Context) error {
	wallet := c.QueryParam("wallet_address")
	if wallet == "" {
		return badRequest(c, "wallet_address is required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	daily, err := h.pokedexService.Today(ctx, wallet)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, daily)
}

func (h *PokedexHandler) Catch(c echo.Context) error {
	var request CatchRequest

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		logger.Error("Failed to validate catch request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	result, err := h.pokedexService.Catch(ctx, domain.CatchInput{
		WalletAddress: request.WalletAddress,
		PokemonID:     request.PokemonID,
		PokemonName:   request.PokemonName,
		Sprite:        request.Sprite,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, result)
}

func (h *PokedexHandler) GetPokedex(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	dex, err := h.pokedexService.GetPokedex(ctx, c.Param("wallet_address"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, dex)
}

func (h *PokedexHandler) CheckBadges(c echo.Context) error {
	var request CheckBadgesRequest

	if err := c.Bind(&request); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validate.Struct(&request); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	badges, err := h.pokedexService.CheckBadges(ctx, request.WalletAddress)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, BadgesResponse{Badges: badges})
}
