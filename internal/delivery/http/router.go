package http

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"conferenceplanner/internal/delivery/http/controllers"
	"conferenceplanner/internal/delivery/http/middleware"
	"conferenceplanner/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes. Event
// and room mutations are admin-only; favorites belong to the authenticated
// caller.
func NewRouter(
	verifier domain.TokenVerifier,
	events *controllers.EventController,
	rooms *controllers.RoomController,
	favorites *controllers.FavoriteController,
	auth *controllers.AuthController,
) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier)
	admin := func(h http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(domain.RoleAdmin)(h))
	}

	// Events
	mux.HandleFunc("GET /events", events.List)
	mux.HandleFunc("GET /events/{id}", events.Get)
	mux.HandleFunc("POST /events", admin(events.Create))
	mux.HandleFunc("PUT /events/{id}", admin(events.Update))
	mux.HandleFunc("DELETE /events/{id}", admin(events.Delete))

	// Rooms
	mux.HandleFunc("GET /rooms", rooms.List)
	mux.HandleFunc("GET /rooms/{id}", rooms.Get)
	mux.HandleFunc("POST /rooms", admin(rooms.Create))
	mux.HandleFunc("PUT /rooms/{id}", admin(rooms.Update))
	mux.HandleFunc("DELETE /rooms/{id}", admin(rooms.Delete))

	// Favorites
	mux.HandleFunc("GET /favorites", authed(favorites.List))
	mux.HandleFunc("POST /favorites/{eventID}/toggle", authed(favorites.Toggle))
	mux.HandleFunc("PUT /favorites/{eventID}", authed(favorites.Add))
	mux.HandleFunc("DELETE /favorites/{eventID}", authed(favorites.Remove))

	// Auth
	mux.HandleFunc("POST /auth/signup", auth.SignUp)
	mux.HandleFunc("POST /auth/login", auth.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
