package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"conferenceplanner/internal/delivery/http/helpers"
	"conferenceplanner/internal/delivery/http/middleware"
	"conferenceplanner/internal/domain"
)

// ToggleResponse is the payload for POST /favorites/{eventID}/toggle.
type ToggleResponse struct {
	EventID   string `json:"event_id"`
	Favorited bool   `json:"favorited"`
}

type FavoriteController struct {
	Logger    *slog.Logger
	Favorites domain.FavoritesService
}

func NewFavoriteController(logger *slog.Logger, favorites domain.FavoritesService) *FavoriteController {
	return &FavoriteController{Logger: logger, Favorites: favorites}
}

// Toggle godoc
// @Summary Toggle a favorite
// @Description Remove the event from the caller's favorites if present, add it otherwise. Adding beyond the favorites limit fails.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains ToggleResponse"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 422 {object} helpers.APIResponse "error.code: limit_reached"
// @Router /favorites/{eventID}/toggle [post]
func (c *FavoriteController) Toggle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID := r.PathValue("eventID")

	favorited, err := c.Favorites.Toggle(r.Context(), userID, eventID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ToggleResponse{EventID: eventID, Favorited: favorited})
}

// Add godoc
// @Summary Add a favorite
// @Description Add the event to the caller's favorites. Adding an already-favorited event is a no-op success.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 422 {object} helpers.APIResponse "error.code: limit_reached"
// @Router /favorites/{eventID} [put]
func (c *FavoriteController) Add(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Favorites.Add(r.Context(), userID, r.PathValue("eventID")); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

// Remove godoc
// @Summary Remove a favorite
// @Description Remove the event from the caller's favorites. Removing a non-favorited event is a no-op success.
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Router /favorites/{eventID} [delete]
func (c *FavoriteController) Remove(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	if err := c.Favorites.Remove(r.Context(), userID, r.PathValue("eventID")); err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

// List godoc
// @Summary List the caller's favorite events
// @Tags favorites
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data contains the favorited events"
// @Router /favorites [get]
func (c *FavoriteController) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "unauthorized")
		return
	}
	events, err := c.Favorites.List(r.Context(), userID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, events)
}

func (c *FavoriteController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrFavoritesLimit):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, "limit_reached", "favorites limit reached")
	case errors.Is(err, domain.ErrVersionConflict):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "favorites were modified concurrently, retry")
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
	}
}
