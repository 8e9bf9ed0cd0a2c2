package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"advisorycms/internal/delivery/http/controllers"
	"advisorycms/internal/delivery/http/middleware"
	"advisorycms/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(
	eventController *controllers.EventController,
	registrationController *controllers.RegistrationController,
	calendarController *controllers.CalendarController,
	postController *controllers.PostController,
	authController *controllers.AuthController,
	verifier domain.TokenVerifier,
) *http.ServeMux {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(verifier)
	optionalAuth := middleware.OptionalAuth(verifier)
	requireEditor := middleware.RequireRole(domain.RoleAdmin, domain.RoleEditor)
	staffOnly := func(h http.HandlerFunc) http.HandlerFunc {
		return requireAuth(requireEditor(h))
	}

	// Events
	mux.HandleFunc("POST /api/events", staffOnly(eventController.CreateEvent))
	mux.HandleFunc("GET /api/events", eventController.ListEvents)
	mux.HandleFunc("GET /api/events/{eventID}", eventController.GetEvent)
	mux.HandleFunc("GET /api/events/slug/{slug}", eventController.GetEventBySlug)
	mux.HandleFunc("PATCH /api/events/{eventID}", staffOnly(eventController.UpdateEvent))
	mux.HandleFunc("DELETE /api/events/{eventID}", staffOnly(eventController.DeleteEvent))
	mux.HandleFunc("POST /api/events/{eventID}/status", staffOnly(eventController.ChangeEventStatus))

	// Registrations
	mux.HandleFunc("POST /api/events/{eventID}/registrations", optionalAuth(registrationController.Register))
	mux.HandleFunc("GET /api/events/{eventID}/registrations", requireAuth(registrationController.ListEventRegistrations))
	mux.HandleFunc("POST /api/events/{eventID}/registrations/process-waitlist", staffOnly(registrationController.ProcessWaitlist))
	mux.HandleFunc("DELETE /api/registrations/{registrationID}", requireAuth(registrationController.CancelRegistration))
	mux.HandleFunc("POST /api/registrations/check-in", staffOnly(registrationController.CheckIn))
	mux.HandleFunc("POST /api/registrations/check-out", staffOnly(registrationController.CheckOut))
	mux.HandleFunc("POST /api/registrations/{registrationID}/feedback", requireAuth(registrationController.SubmitFeedback))

	// Calendar
	mux.HandleFunc("GET /api/events/{eventID}/calendar.ics", calendarController.ExportICS)
	mux.HandleFunc("GET /api/events/{eventID}/calendar-links", calendarController.CalendarLinks)
	mux.HandleFunc("GET /api/calendar/{year}/{month}", calendarController.MonthCalendar)
	mux.HandleFunc("GET /api/calendar/conflicts", staffOnly(calendarController.CheckConflicts))

	// Posts
	mux.HandleFunc("POST /api/posts", staffOnly(postController.CreatePost))
	mux.HandleFunc("GET /api/posts", postController.ListPosts)
	mux.HandleFunc("GET /api/posts/slug/{slug}", postController.GetPostBySlug)
	mux.HandleFunc("PATCH /api/posts/{postID}", staffOnly(postController.UpdatePost))
	mux.HandleFunc("POST /api/posts/{postID}/publish", staffOnly(postController.PublishPost))
	mux.HandleFunc("DELETE /api/posts/{postID}", staffOnly(postController.DeletePost))

	// Auth
	mux.HandleFunc("POST /api/auth/signup", authController.SignUp)
	mux.HandleFunc("POST /api/auth/login", authController.Login)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	// Metrics
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
