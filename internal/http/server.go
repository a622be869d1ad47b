// README: API gateway; registers routes and middleware, delegates to module services.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hail/internal/http/handlers"
	"hail/internal/http/middleware"
	"hail/internal/modules/chat"
	"hail/internal/modules/location"
	"hail/internal/modules/ride"
)

type ServerDeps struct {
	Rides     *ride.Service
	Chat      *chat.Service
	Location  *location.Service
	JWTSecret string
	Log       *slog.Logger
}

func NewRouter(deps ServerDeps) http.Handler {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.Recovery(deps.Log),
		middleware.Logging(deps.Log),
		middleware.Metrics(),
	)

	router.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	rideHandler := handlers.NewRideHandler(deps.Rides)
	chatHandler := handlers.NewChatHandler(deps.Chat)
	locationHandler := handlers.NewLocationHandler(deps.Location)

	api := router.Group("/api", middleware.Auth(deps.JWTSecret))

	api.POST("/rides/estimate", rideHandler.Estimate)
	api.POST("/rides", rideHandler.Create)
	api.GET("/rides", rideHandler.List)
	api.GET("/rides/:id", rideHandler.Get)
	api.PATCH("/rides/:id/accept", rideHandler.Accept)
	api.POST("/rides/:id/bid", rideHandler.PlaceBid)
	api.POST("/rides/:id/accept_bid", rideHandler.AcceptBid)
	api.PATCH("/rides/:id/start", rideHandler.Start)
	api.PATCH("/rides/:id/complete", rideHandler.Complete)

	api.GET("/rides/:id/messages", chatHandler.List)
	api.POST("/rides/:id/messages", chatHandler.Post)

	api.POST("/location", locationHandler.Report)
	api.GET("/location/drivers", locationHandler.List)

	return router
}
