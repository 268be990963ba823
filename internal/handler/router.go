package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"tourtable/internal/handler/api"
	"tourtable/internal/handler/middleware"
	"tourtable/internal/pkg/config"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	reservationHandler *api.ReservationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	setupMiddleware(engine, cfg)
	setupRoutes(engine, authHandler, availabilityHandler, reservationHandler, authMiddleware)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.LoggingMiddleware(cfg.Log))
	engine.Use(middleware.MetricsMiddleware())
	engine.Use(middleware.ErrorHandler())
}

// Paths are kept exactly as the legacy clients call them.
func setupRoutes(
	engine *gin.Engine,
	authHandler *api.AuthHandler,
	availabilityHandler *api.AvailabilityHandler,
	reservationHandler *api.ReservationHandler,
	authMiddleware *middleware.AuthMiddleware,
) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	auth := engine.Group("/auth")
	{
		addRoutes(auth, []route{
			{Method: http.MethodPost, Path: "/register", Handler: authHandler.Register},
			{Method: http.MethodPost, Path: "/login", Handler: authHandler.Login},
		})

		authRequired := auth.Group("")
		authRequired.Use(authMiddleware.RequireAuth())
		addRoutes(authRequired, []route{
			{Method: http.MethodGet, Path: "/me", Handler: authHandler.Me},
		})
	}

	availability := engine.Group("/availability")
	{
		addRoutes(availability, []route{
			{Method: http.MethodGet, Path: "/:restaurantId/:date", Handler: availabilityHandler.GetDay},
		})

		// Custom slots only need authentication; the usecase resolves the
		// caller's own restaurant either way.
		authOnly := availability.Group("")
		authOnly.Use(authMiddleware.RequireAuth())
		addRoutes(authOnly, []route{
			{Method: http.MethodPost, Path: "/custom", Handler: availabilityHandler.AddCustomSlot},
		})

		partner := availability.Group("")
		partner.Use(authMiddleware.RequireAuth(), authMiddleware.RequirePartner())
		addRoutes(partner, []route{
			{Method: http.MethodPost, Path: "", Handler: availabilityHandler.ReplaceDay},
			{Method: http.MethodPatch, Path: "/:id/slot/:slotId", Handler: availabilityHandler.ToggleSlot},
			{Method: http.MethodPut, Path: "/:id", Handler: availabilityHandler.UpdateSlot},
			{Method: http.MethodDelete, Path: "/:id", Handler: availabilityHandler.DeleteSlot},
		})
	}

	reservations := engine.Group("/reservations")
	{
		addRoutes(reservations, []route{
			{Method: http.MethodPost, Path: "", Handler: reservationHandler.CreateReservation},
		})

		partner := reservations.Group("")
		partner.Use(authMiddleware.RequireAuth(), authMiddleware.RequirePartner())
		addRoutes(partner, []route{
			{Method: http.MethodGet, Path: "/partner", Handler: reservationHandler.ListPartnerReservations},
			{Method: http.MethodGet, Path: "/:id", Handler: reservationHandler.GetReservation},
			{Method: http.MethodPut, Path: "/:id/status", Handler: reservationHandler.UpdateStatus},
			{Method: http.MethodDelete, Path: "/:id", Handler: reservationHandler.DeleteReservation},
		})
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
