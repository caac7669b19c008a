package api

import (
	"net/http"
	"time"

	"code_arena/internal/api/handler"
	"code_arena/internal/app/service"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	tokenAuth *jwtauth.JWTAuth,
	authService *service.AuthService,
	problemService *service.ProblemService,
	gradingService *service.GradingService,
	accountService *service.AccountService,
	badgeService *service.BadgeService,
) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the Authorization header and puts claims in context; routes
	// that require auth additionally run middleware.Authenticator.
	r.Use(jwtauth.Verifier(tokenAuth))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api/v1", func(v1 chi.Router) {
		authHandler := handler.NewAuthHandler(authService)
		v1.Route("/auth", authHandler.RegisterRoutes)

		problemHandler := handler.NewProblemHandler(problemService)
		v1.Route("/problems", problemHandler.RegisterRoutes)

		submissionHandler := handler.NewSubmissionHandler(gradingService, accountService)
		v1.Route("/submissions", submissionHandler.RegisterRoutes)

		badgeHandler := handler.NewBadgeHandler(badgeService)
		v1.Route("/badges", badgeHandler.RegisterRoutes)

		accountHandler := handler.NewAccountHandler(accountService)
		v1.Route("/accounts/me", accountHandler.RegisterRoutes)
	})

	return r
}
