package rest

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"pokePortMarket/domain"
	"pokePortMarket/pkg/logger"
	"pokePortMarket/pkg/utils"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type UserService interface {
	Authenticate(ctx context.Context, wallet string, email *string) (domain.User, error)
	GetUserByID(ctx context.Context, id uint) (domain.User, error)
	GetUserByWallet(ctx context.Context, wallet string) (domain.User, error)
	GetAllUsers(ctx context.Context) ([]domain.User, error)
	UpdateProfile(ctx context.Context, id uint, patch domain.UserPatch) (domain.User, error)
	UpdateDisplayName(ctx context.Context, wallet, name string) (domain.User, error)
	DeleteUser(ctx context.Context, id uint) error
}

type UserHandler struct {
	userService UserService
	validator   *validator.Validate
	timeout     time.Duration
}

func NewUserHandler(userService UserService, timeout time.Duration) *UserHandler {
	return &UserHandler{
		userService: userService,
		validator:   validator.New(),
		timeout:     timeout,
	}
}

type UserAuthRequest struct {
	WalletAddress string  `json:"wallet_address" validate:"required"`
	Email         *string `json:"email" validate:"omitempty,max=120"`
}

// UserAuthResponse is the user plus, when tokens are enabled, a bearer token.
type UserAuthResponse struct {
	domain.User
	Token string `json:"token,omitempty"`
}

type UserUpdateRequest struct {
	Email   *string `json:"email" validate:"omitempty,max=120"`
	IsAdmin *bool   `json:"is_admin"`
}

type DisplayNameRequest struct {
	DisplayName string `json:"display_name" validate:"required"`
}

// Auth resolves a wallet to its user, creating it on first sight.
func (h *UserHandler) Auth(c echo.Context) error {
	var req UserAuthRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate auth request", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.Authenticate(ctx, req.WalletAddress, req.Email)
	if err != nil {
		return errorResponse(c, err)
	}

	resp := UserAuthResponse{User: user}
	if utils.JWTEnabled() {
		token, err := utils.GenerateJWT(strconv.FormatUint(uint64(user.ID), 10), user.Role())
		if err != nil {
			logger.Error("Failed to generate token", err)
			return errorResponse(c, err)
		}
		resp.Token = token
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *UserHandler) GetAllUsers(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	users, err := h.userService.GetAllUsers(ctx)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUserByID(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByID(ctx, id)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) GetUserByWallet(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.GetUserByWallet(ctx, c.Param("wallet_address"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	var req UserUpdateRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		logger.Error("Failed to validate user update", err)
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.UpdateProfile(ctx, id, domain.UserPatch{
		Email:   req.Email,
		IsAdmin: req.IsAdmin,
	})
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) UpdateDisplayName(c echo.Context) error {
	var req DisplayNameRequest

	if err := c.Bind(&req); err != nil {
		logger.Error("Invalid request body", err)
		return badRequest(c, "invalid request body")
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	user, err := h.userService.UpdateDisplayName(ctx, c.Param("wallet_address"), req.DisplayName)
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, user)
}

func (h *UserHandler) DeleteUser(c echo.Context) error {
	id, ok := parseID(c, "id")
	if !ok {
		return badRequest(c, "invalid user id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	if err := h.userService.DeleteUser(ctx, id); err != nil {
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
