package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"conferenceplanner/internal/delivery/http/helpers"
	"conferenceplanner/internal/domain"
)

// RoomRequest is the request body for POST /rooms and PUT /rooms/{id}.
type RoomRequest struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

type RoomController struct {
	Logger *slog.Logger
	Rooms  domain.RoomService
}

func NewRoomController(logger *slog.Logger, rooms domain.RoomService) *RoomController {
	return &RoomController{Logger: logger, Rooms: rooms}
}

// Create godoc
// @Summary Create a room
// @Description Create a venue. Admin only. Room names follow the A123 convention and are globally unique.
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param room body RoomRequest true "Room data"
// @Success 201 {object} helpers.APIResponse "data contains the created room"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Router /rooms [post]
func (c *RoomController) Create(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	room := domain.NewRoom(req.Name, req.Capacity)

	fieldErrs, err := c.Rooms.Create(r.Context(), room)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		helpers.WriteFieldErrors(w, fieldErrs)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, room)
}

// Update godoc
// @Summary Update a room
// @Tags rooms
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Param room body RoomRequest true "Room data"
// @Success 200 {object} helpers.APIResponse "data contains the updated room"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /rooms/{id} [put]
func (c *RoomController) Update(w http.ResponseWriter, r *http.Request) {
	var req RoomRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	room := domain.NewRoom(req.Name, req.Capacity)
	room.ID = r.PathValue("id")

	fieldErrs, err := c.Rooms.Update(r.Context(), room)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "room not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		helpers.WriteFieldErrors(w, fieldErrs)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, room)
}

// Get godoc
// @Summary Get a room
// @Tags rooms
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} helpers.APIResponse "data contains the room"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /rooms/{id} [get]
func (c *RoomController) Get(w http.ResponseWriter, r *http.Request) {
	room, err := c.Rooms.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "room not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, room)
}

// List godoc
// @Summary List rooms
// @Tags rooms
// @Produce json
// @Success 200 {object} helpers.APIResponse "data contains the rooms"
// @Router /rooms [get]
func (c *RoomController) List(w http.ResponseWriter, r *http.Request) {
	rooms, err := c.Rooms.List(r.Context())
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, rooms)
}

// Delete godoc
// @Summary Delete a room
// @Description Delete a venue. Admin only. Fails while events still reference the room.
// @Tags rooms
// @Produce json
// @Security BearerAuth
// @Param id path string true "Room ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /rooms/{id} [delete]
func (c *RoomController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Rooms.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "room not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

func (c *RoomController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}
