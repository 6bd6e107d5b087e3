package api

import (
	"net/http"
	"time"

	"arroyo_seco_api/internal/api/handler"
	appMiddleware "arroyo_seco_api/internal/api/middleware"
	"arroyo_seco_api/internal/app/service"
	"arroyo_seco_api/internal/common"
	"arroyo_seco_api/internal/platform/config"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

func NewRouter(
	cfg config.Config,
	logger zerolog.Logger,
	auth *appMiddleware.Authenticator,
	counters appMiddleware.CounterStore,
	authService *service.AuthService,
	placeService *service.PlaceService,
) http.Handler {
	r := chi.NewRouter()

	// Base middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(appMiddleware.RequestLogger(logger))
	r.Use(appMiddleware.Recoverer(logger, cfg.IsDev()))
	r.Use(chiMiddleware.Timeout(60 * time.Second))
	r.Use(appMiddleware.SecurityHeaders)
	r.Use(appMiddleware.CORS(cfg.AllowedOrigins))
	r.Use(appMiddleware.RateLimit(counters, cfg.RateLimitMax, cfg.RateLimitWindow, logger))

	// Unknown routes still answer with the envelope.
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, common.NewNotFoundError(common.CodeEndpointNotFound, "Endpoint not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithError(w, &common.AppError{
			Code:    common.CodeMethodNotAllowed,
			Status:  http.StatusMethodNotAllowed,
			Message: "Method not allowed",
		})
	})

	// Liveness probe
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		common.RespondWithJSON(w, http.StatusOK, "OK", map[string]string{"service": cfg.ServiceName})
	})

	r.Route("/api", func(api chi.Router) {
		authHandler := handler.NewAuthHandler(authService, auth)
		api.Route("/auth", authHandler.RegisterRoutes)

		placeHandler := handler.NewPlaceHandler(placeService, auth)
		api.Route("/places", placeHandler.RegisterRoutes)

		userHandler := handler.NewUserHandler(authService, auth)
		api.Route("/users", userHandler.RegisterRoutes)
	})

	return r
}
