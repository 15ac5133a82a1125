package router

import (
	"net/http"

	"github.com/skillswap/backend/internal/auth"
	"github.com/skillswap/backend/internal/content"
	"github.com/skillswap/backend/internal/credits"
	"github.com/skillswap/backend/internal/dashboard"
	"github.com/skillswap/backend/internal/middleware"
	"github.com/skillswap/backend/internal/notifications"
	"github.com/skillswap/backend/internal/reviews"
	"github.com/skillswap/backend/internal/sessions"
	"github.com/skillswap/backend/internal/skills"
	"github.com/skillswap/backend/internal/users"
	"github.com/skillswap/backend/internal/web"
)

// Handlers bundles the feature handlers the router wires up.
type Handlers struct {
	Auth          *auth.Handler
	Users         *users.Handler
	Skills        *skills.Handler
	Sessions      *sessions.Handler
	Reviews       *reviews.Handler
	Credits       *credits.Handler
	Content       *content.Handler
	Notifications *notifications.Handler
	Dashboard     *dashboard.Handler
	Web           *web.Handler
}

// New returns the application's http.Handler. authed wraps user-scoped
// routes; admin routes additionally pass through RequireAdmin.
func New(h Handlers, tokens middleware.TokenValidator, userLoader middleware.UserLoader) http.Handler {
	mux := http.NewServeMux()
	authed := middleware.RequireAuth(tokens, userLoader)

	handle := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, fn)
	}
	handleAuthed := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authed(fn))
	}
	handleAdmin := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, authed(middleware.RequireAdmin(fn)))
	}

	// Auth
	handle("POST /api/auth/register", h.Auth.Register)
	handle("POST /api/auth/login", h.Auth.Login)
	handleAuthed("GET /api/auth/me", h.Auth.Me)
	handle("GET /api/auth/oauth/{provider}", h.Web.OAuthPlaceholder)

	// Users
	handle("GET /api/users/{id}", h.Users.GetProfile)
	handleAuthed("PUT /api/users/{id}", h.Users.UpdateProfile)
	handle("GET /api/users/{id}/skills", h.Skills.ListUserSkills)
	handleAuthed("POST /api/users/{id}/skills", h.Skills.AddUserSkill)
	handle("GET /api/users/{id}/reviews", h.Reviews.ListForUser)
	handleAuthed("GET /api/users/{id}/transactions", h.Users.ListTransactions)

	// Skills
	handle("GET /api/skills", h.Skills.List)
	handle("GET /api/skills/{id}/teachers", h.Skills.ListTeachers)

	// Sessions
	handleAuthed("GET /api/sessions", h.Sessions.List)
	handleAuthed("POST /api/sessions", h.Sessions.Create)
	handleAuthed("GET /api/sessions/{id}", h.Sessions.Get)
	handleAuthed("PATCH /api/sessions/{id}", h.Sessions.Update)

	// Reviews
	handleAuthed("POST /api/reviews", h.Reviews.Create)

	// Credits
	handleAuthed("POST /api/credits/purchase", h.Credits.Purchase)

	// Content
	handle("GET /api/content", h.Content.List)
	handle("GET /api/content/{id}", h.Content.Get)
	handleAuthed("POST /api/content", h.Content.Create)

	// Notifications
	handleAuthed("GET /api/notifications", h.Notifications.List)
	handleAuthed("PATCH /api/notifications/{id}", h.Notifications.MarkRead)

	// Dashboard and search
	handleAuthed("GET /api/dashboard", h.Dashboard.Get)
	handle("GET /api/search", h.Dashboard.Search)

	// Admin
	handleAdmin("GET /api/admin/content/pending", h.Content.ListPending)
	handleAdmin("PATCH /api/admin/content/{id}", h.Content.Moderate)

	// HTML pages
	handle("GET /{$}", h.Web.Home)
	handle("GET /dashboard", h.Web.Dashboard)

	return mux
}
