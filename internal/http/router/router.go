package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/immobarok/mailbox-backend/internal/http/handler"
	"github.com/immobarok/mailbox-backend/internal/http/middleware"
	"github.com/immobarok/mailbox-backend/internal/http/response"
	"github.com/immobarok/mailbox-backend/internal/security"
)

type Dependencies struct {
	AuthHandler *handler.AuthHandler
	UserHandler *handler.UserHandler
	PostHandler *handler.PostHandler
	JWTManager  *security.JWTManager
	Limiter     middleware.Limiter
	LimiterMode middleware.FailureMode

	AuthRateLimitRPM int
	APIRateLimitRPM  int
}

func New(dep Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	authLimit := middleware.NewRateLimiter(dep.Limiter, dep.AuthRateLimitRPM, time.Minute, dep.LimiterMode, "auth")
	apiLimit := middleware.NewRateLimiter(dep.Limiter, dep.APIRateLimitRPM, time.Minute, dep.LimiterMode, "api")
	requireAuth := middleware.RequireAuth(dep.JWTManager)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		response.JSON(w, req, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(api chi.Router) {
		api.Route("/auth", func(auth chi.Router) {
			auth.Use(authLimit.Handler)
			auth.Post("/register", dep.AuthHandler.Register)
			auth.Post("/login", dep.AuthHandler.Login)
			auth.Get("/verify-email", dep.AuthHandler.VerifyEmail)
			auth.Post("/resend-verification", dep.AuthHandler.ResendVerification)
			auth.With(requireAuth).Get("/profile", dep.AuthHandler.Profile)
		})

		api.Group(func(protected chi.Router) {
			protected.Use(apiLimit.Handler)
			protected.Get("/posts", dep.PostHandler.List)
			protected.Get("/posts/{id}", dep.PostHandler.GetByID)

			protected.Group(func(authed chi.Router) {
				authed.Use(requireAuth)
				authed.Get("/users/me", dep.UserHandler.Me)
				authed.Get("/users/{id}", dep.UserHandler.GetByID)
				authed.Post("/posts", dep.PostHandler.Create)
				authed.Post("/uploads", dep.PostHandler.Upload)
			})
		})
	})

	return r
}
