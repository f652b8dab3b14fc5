package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"charavault/internal/errors"
	"charavault/internal/service"
)

// UserHandler handles public user endpoints.
type UserHandler struct {
	authService    service.AuthService
	catalogService service.CatalogService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(authService service.AuthService, catalogService service.CatalogService) *UserHandler {
	return &UserHandler{authService: authService, catalogService: catalogService}
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} errors.ErrorResponse
// @Router /user/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	user, err := h.authService.GetUser(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"id":       user.ID,
		"username": user.Username,
	})
}

// GetUserCharacters godoc
// @Summary List characters owned by a user
// @Tags users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {array} model.CharacterSummary
// @Failure 400 {object} errors.ErrorResponse
// @Router /user/{id}/characters [get]
func (h *UserHandler) GetUserCharacters(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	characters, err := h.catalogService.ListByArtist(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, characters)
}
