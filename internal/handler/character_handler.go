package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"charavault/internal/errors"
	"charavault/internal/service"
)

// CharacterHandler handles character creation and catalog endpoints.
type CharacterHandler struct {
	characterService service.CharacterService
	catalogService   service.CatalogService
}

// NewCharacterHandler creates a new character handler.
func NewCharacterHandler(characterService service.CharacterService, catalogService service.CatalogService) *CharacterHandler {
	return &CharacterHandler{
		characterService: characterService,
		catalogService:   catalogService,
	}
}

// CreateCharacter godoc
// @Summary Create a character
// @Tags characters
// @Accept mpfd
// @Produce json
// @Param name formData string true "Character name (max 20 chars)"
// @Param artist_id formData int true "Artist user id"
// @Param description formData string true "Description (max 1000 chars)"
// @Param tags formData string false "Comma-separated tags (max 5)"
// @Param headshot formData file true "Headshot image"
// @Param turnaround formData file false "Turnaround images (max 8)"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /create_character [post]
func (h *CharacterHandler) CreateCharacter(c echo.Context) error {
	artistID, err := strconv.ParseUint(c.FormValue("artist_id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid artist_id")
	}

	headshot, err := c.FormFile("headshot")
	if err != nil {
		// missing file is a validation failure, not a transport error
		headshot = nil
	}

	var turnarounds []*multipart.FileHeader
	if form, err := c.MultipartForm(); err == nil && form != nil {
		turnarounds = form.File["turnaround"]
	}

	id, err := h.characterService.Create(c.Request().Context(), service.CreateCharacterInput{
		Name:        c.FormValue("name"),
		ArtistID:    uint(artistID),
		Description: c.FormValue("description"),
		RawTags:     c.FormValue("tags"),
		Headshot:    headshot,
		Turnarounds: turnarounds,
	})
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, map[string]interface{}{
		"message":      "character created successfully",
		"character_id": id,
	})
}

// ListCharacters godoc
// @Summary List or search characters
// @Tags characters
// @Produce json
// @Param search query string false "Search term"
// @Param type query string false "Search mode: name or tags" Enums(name, tags)
// @Success 200 {array} model.CharacterSummary
// @Router /characters [get]
func (h *CharacterHandler) ListCharacters(c echo.Context) error {
	term := c.QueryParam("search")
	ctx := c.Request().Context()

	if term == "" {
		characters, err := h.catalogService.ListAll(ctx)
		if err != nil {
			httpErr := errors.MapErrorToHTTP(err)
			return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
		}
		return c.JSON(http.StatusOK, characters)
	}

	characters, err := h.catalogService.Search(ctx, term, service.SearchMode(c.QueryParam("type")))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, characters)
}

// GetCharacter godoc
// @Summary Get character detail
// @Tags characters
// @Produce json
// @Param id path int true "Character ID"
// @Success 200 {object} model.CharacterDetail
// @Failure 404 {object} errors.ErrorResponse
// @Router /character/{id} [get]
func (h *CharacterHandler) GetCharacter(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	detail, err := h.catalogService.GetDetail(c.Request().Context(), uint(id))
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, detail)
}
