package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"conferenceplanner/internal/delivery/http/helpers"
	"conferenceplanner/internal/delivery/http/middleware"
	"conferenceplanner/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFavoritesService implements domain.FavoritesService for handler tests.
type fakeFavoritesService struct {
	toggleResult bool
	toggleErr    error
	addErr       error
	removeErr    error
	listResult   []*domain.Event
	listErr      error
	lastUserID   string
	lastEventID  string
}

func (f *fakeFavoritesService) Toggle(ctx context.Context, userID, eventID string) (bool, error) {
	f.lastUserID, f.lastEventID = userID, eventID
	return f.toggleResult, f.toggleErr
}

func (f *fakeFavoritesService) Add(ctx context.Context, userID, eventID string) error {
	f.lastUserID, f.lastEventID = userID, eventID
	return f.addErr
}

func (f *fakeFavoritesService) Remove(ctx context.Context, userID, eventID string) error {
	f.lastUserID, f.lastEventID = userID, eventID
	return f.removeErr
}

func (f *fakeFavoritesService) List(ctx context.Context, userID string) ([]*domain.Event, error) {
	f.lastUserID = userID
	return f.listResult, f.listErr
}

func favoriteRequest(method, path, eventID string, authed bool) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if eventID != "" {
		req.SetPathValue("eventID", eventID)
	}
	if authed {
		req = req.WithContext(middleware.SetIdentity(req.Context(), "user-1", []string{domain.RoleUser}))
	}
	return req
}

func TestFavoriteController_Toggle(t *testing.T) {
	tests := []struct {
		name       string
		fake       *fakeFavoritesService
		authed     bool
		wantStatus int
		wantCode   string
	}{
		{
			name:       "toggled on",
			fake:       &fakeFavoritesService{toggleResult: true},
			authed:     true,
			wantStatus: http.StatusOK,
		},
		{
			name:       "no identity",
			fake:       &fakeFavoritesService{},
			wantStatus: http.StatusUnauthorized,
			wantCode:   helpers.ErrCodeUnauthorized,
		},
		{
			name:       "unknown event",
			fake:       &fakeFavoritesService{toggleErr: domain.ErrNotFound},
			authed:     true,
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "limit reached",
			fake:       &fakeFavoritesService{toggleErr: domain.ErrFavoritesLimit},
			authed:     true,
			wantStatus: http.StatusUnprocessableEntity,
			wantCode:   "limit_reached",
		},
		{
			name:       "concurrent modification",
			fake:       &fakeFavoritesService{toggleErr: domain.ErrVersionConflict},
			authed:     true,
			wantStatus: http.StatusConflict,
			wantCode:   helpers.ErrCodeConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewFavoriteController(testLogger, tt.fake)
			req := favoriteRequest(http.MethodPost, "/favorites/ev-1/toggle", "ev-1", tt.authed)
			rr := httptest.NewRecorder()

			ctrl.Toggle(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			var envelope helpers.APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			if tt.wantCode != "" {
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantCode, envelope.Error.Code)
				return
			}
			require.Nil(t, envelope.Error)
			dataBytes, err := json.Marshal(envelope.Data)
			require.NoError(t, err)
			var resp ToggleResponse
			require.NoError(t, json.Unmarshal(dataBytes, &resp))
			assert.Equal(t, "ev-1", resp.EventID)
			assert.True(t, resp.Favorited)
			assert.Equal(t, "user-1", tt.fake.lastUserID)
		})
	}
}

func TestFavoriteController_Add(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		fake := &fakeFavoritesService{}
		ctrl := NewFavoriteController(testLogger, fake)
		rr := httptest.NewRecorder()

		ctrl.Add(rr, favoriteRequest(http.MethodPut, "/favorites/ev-1", "ev-1", true))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "ev-1", fake.lastEventID)
	})

	t.Run("limit reached", func(t *testing.T) {
		ctrl := NewFavoriteController(testLogger, &fakeFavoritesService{addErr: domain.ErrFavoritesLimit})
		rr := httptest.NewRecorder()

		ctrl.Add(rr, favoriteRequest(http.MethodPut, "/favorites/ev-1", "ev-1", true))
		require.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	})

	t.Run("no identity", func(t *testing.T) {
		ctrl := NewFavoriteController(testLogger, &fakeFavoritesService{})
		rr := httptest.NewRecorder()

		ctrl.Add(rr, favoriteRequest(http.MethodPut, "/favorites/ev-1", "ev-1", false))
		require.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestFavoriteController_Remove(t *testing.T) {
	fake := &fakeFavoritesService{}
	ctrl := NewFavoriteController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.Remove(rr, favoriteRequest(http.MethodDelete, "/favorites/ev-1", "ev-1", true))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "user-1", fake.lastUserID)
	assert.Equal(t, "ev-1", fake.lastEventID)
}

func TestFavoriteController_List(t *testing.T) {
	fake := &fakeFavoritesService{listResult: []*domain.Event{
		{ID: "ev-1", Name: "Kickoff"},
	}}
	ctrl := NewFavoriteController(testLogger, fake)
	rr := httptest.NewRecorder()

	ctrl.List(rr, favoriteRequest(http.MethodGet, "/favorites", "", true))

	require.Equal(t, http.StatusOK, rr.Code)
	var envelope helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.Nil(t, envelope.Error)

	dataBytes, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var events []*domain.Event
	require.NoError(t, json.Unmarshal(dataBytes, &events))
	require.Len(t, events, 1)
	assert.Equal(t, "ev-1", events[0].ID)
}
