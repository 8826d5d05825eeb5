package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"conferenceplanner/internal/delivery/http/helpers"
	"conferenceplanner/internal/domain"
)

// EventRequest is the request body for POST /events and PUT /events/{id}.
// Scheduling rules (window, price bounds, checksum, conflicts) are enforced
// by the domain validator and reported per field; the body only has to be
// well-formed JSON.
type EventRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Speakers    []string  `json:"speakers"`
	RoomID      string    `json:"room_id"`
	StartTime   time.Time `json:"start_time"`
	BeamerCode  int       `json:"beamer_code"`
	BeamerCheck int       `json:"beamer_check"`
	Price       float64   `json:"price"`
}

// EventListResponse is the paginated payload for GET /events.
type EventListResponse struct {
	Events     []*domain.Event        `json:"events"`
	Favorites  map[string]int         `json:"favorite_counts"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

type EventController struct {
	Logger *slog.Logger
	Events domain.EventService
}

func NewEventController(logger *slog.Logger, events domain.EventService) *EventController {
	return &EventController{Logger: logger, Events: events}
}

// Create godoc
// @Summary Create a new event
// @Description Schedule a talk into a room and time slot. Admin only. Returns per-field errors when a scheduling rule is violated.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param event body EventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed, error.fields lists every violated rule"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(req.Name, req.Description, req.RoomID, req.Speakers,
		req.StartTime, req.BeamerCode, req.BeamerCheck, req.Price)

	fieldErrs, err := c.Events.Create(r.Context(), event)
	if err != nil {
		c.internalError(w, r, err)
		return
	}
	if len(fieldErrs) > 0 {
		helpers.WriteFieldErrors(w, fieldErrs)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Update godoc
// @Summary Update an event
// @Description Update a scheduled talk. Admin only. Conflict and uniqueness scans only re-run when the schedule-relevant fields changed.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param event body EventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: validation_failed"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict (concurrent modification)"
// @Router /events/{id} [put]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	var req EventRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	event := domain.NewEvent(req.Name, req.Description, req.RoomID, req.Speakers,
		req.StartTime, req.BeamerCode, req.BeamerCheck, req.Price)
	event.ID = r.PathValue("id")

	fieldErrs, err := c.Events.Update(r.Context(), event)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
		case errors.Is(err, domain.ErrVersionConflict):
			helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, "event was modified concurrently, retry")
		default:
			c.internalError(w, r, err)
		}
		return
	}
	if len(fieldErrs) > 0 {
		helpers.WriteFieldErrors(w, fieldErrs)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// Get godoc
// @Summary Get an event
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	event, err := c.Events.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, event)
}

// List godoc
// @Summary List events
// @Description List events filtered by date range, room, max price, and search text, ordered by the sort parameter.
// @Tags events
// @Produce json
// @Param date_from query string false "Inclusive lower bound (YYYY-MM-DD)"
// @Param date_to query string false "Inclusive upper bound (YYYY-MM-DD)"
// @Param room query string false "Room ID"
// @Param price_max query number false "Maximum price"
// @Param search query string false "Search in name, description, speakers"
// @Param sort query string false "name|name_desc|price|price_desc|datetime|datetime_desc|popularity"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} helpers.APIResponse "data contains EventListResponse"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	filter, err := parseEventFilter(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}

	events, err := c.Events.List(r.Context(), filter)
	if err != nil {
		c.internalError(w, r, err)
		return
	}

	ids := make([]string, 0, len(events))
	for _, e := range events {
		ids = append(ids, e.ID)
	}
	counts, err := c.Events.FavoriteCounts(r.Context(), ids)
	if err != nil {
		c.internalError(w, r, err)
		return
	}

	p := helpers.ParsePagination(r)
	total := len(events)
	page := paginate(events, p)

	helpers.WriteJSONSuccess(w, http.StatusOK, EventListResponse{
		Events:     page,
		Favorites:  counts,
		Pagination: helpers.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// Delete godoc
// @Summary Delete an event
// @Description Delete a talk. Admin only. The event is removed from every user's favorites and users who favorited it are notified.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} helpers.APIResponse
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Router /events/{id} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	if err := c.Events.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "event not found")
			return
		}
		c.internalError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, nil)
}

func (c *EventController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal error")
}

func parseEventFilter(r *http.Request) (domain.EventFilter, error) {
	q := r.URL.Query()
	filter := domain.EventFilter{
		RoomID: q.Get("room"),
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
	}
	if s := q.Get("date_from"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return filter, errors.New("invalid date_from, want YYYY-MM-DD")
		}
		filter.DateFrom = &t
	}
	if s := q.Get("date_to"); s != "" {
		t, err := time.Parse("2006-01-02", s)
		if err != nil {
			return filter, errors.New("invalid date_to, want YYYY-MM-DD")
		}
		filter.DateTo = &t
	}
	if s := q.Get("price_max"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return filter, errors.New("invalid price_max")
		}
		filter.MaxPrice = &v
	}
	return filter, nil
}

func paginate(events []*domain.Event, p domain.PaginationParams) []*domain.Event {
	start := p.Offset()
	if start >= len(events) {
		return []*domain.Event{}
	}
	end := start + p.PageSize
	if end > len(events) {
		end = len(events)
	}
	return events[start:end]
}
