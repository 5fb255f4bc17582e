package router

import (
	"context"
	"net/http"
	"time"

	"animedrop/internal/microservices/http-api/handler"
	"animedrop/internal/microservices/http-api/middleware"
	"animedrop/internal/microservices/http-api/service"
	"animedrop/internal/microservices/websocket"

	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Dependencies are the services the HTTP API is built from. Hub and Limiter
// are optional: a nil Hub disables the notification socket and a nil Limiter
// leaves the auth endpoints unthrottled.
type Dependencies struct {
	Auth          service.AuthService
	Anime         service.AnimeService
	Users         service.UserService
	Notifications service.NotificationService

	Hub            *websocket.Hub
	Limiter        *middleware.IPRateLimiter
	AllowedOrigins []string
	EnableMetrics  bool

	// Ping reports storage health for /healthz. Nil means always healthy.
	Ping func(ctx context.Context) error
}

// New builds the gin engine serving every /api route.
func New(deps Dependencies) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID(), middleware.AccessLog(), middleware.Metrics())

	r.GET("/healthz", health(deps.Ping))
	if deps.EnableMetrics {
		r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	}

	requireAuth := middleware.AuthMiddleware(deps.Auth)
	limit := func(c *gin.Context) { c.Next() }
	if deps.Limiter != nil {
		limit = deps.Limiter.Middleware()
	}

	api := r.Group("/api")
	handler.NewAuthHandler(deps.Auth).RegisterRoutes(api.Group("/auth"), requireAuth, limit)
	handler.NewAnimeHandler(deps.Anime).RegisterRoutes(api.Group("/anime"), requireAuth)
	handler.NewUserHandler(deps.Users).RegisterRoutes(api.Group("/users"), requireAuth)

	notifications := api.Group("/notifications")
	if deps.Hub != nil {
		// registered ahead of the authenticated group so ?token= is honoured
		notifications.GET("/ws", middleware.TokenFromQuery(), requireAuth,
			websocket.WSHandler(deps.Hub, websocket.NewUpgrader(deps.AllowedOrigins)))
	}
	notifications.Use(requireAuth)
	handler.NewNotificationHandler(deps.Notifications).RegisterRoutes(notifications)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Route not found"})
	})
	return r
}

// WithCORS wraps h with the browser CORS policy.
func WithCORS(h http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(h)
}

func health(ping func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
