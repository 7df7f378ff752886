// internal/app/router.go
package app

import (
	authHandler "fitcoach-service/internal/handlers/auth"
	bookingHandler "fitcoach-service/internal/handlers/booking"
	clientHandler "fitcoach-service/internal/handlers/client"
	workoutHandler "fitcoach-service/internal/handlers/workout"
	wsHandler "fitcoach-service/internal/handlers/ws"
	"fitcoach-service/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handlers struct {
	AuthHandler    *authHandler.AuthHandler
	OAuthHandler   *authHandler.OAuthHandler
	ClientHandler  *clientHandler.ClientHandler
	WorkoutHandler *workoutHandler.WorkoutHandler
	BookingHandler *bookingHandler.BookingHandler
	WSHandler      *wsHandler.WSHandler
	AuthMiddleware *middleware.AuthMiddleware
	AccessGate     *middleware.AccessGate
}

func SetupRouter(r *gin.Engine, logger *zap.Logger, h *Handlers) {
	api := r.Group("/api/v1")

	// ==================== Health Check ====================
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok", "version": "1.0.0"})
	})

	// ==================== WebSocket ====================
	r.GET("/ws", h.WSHandler.Events)

	// ==================== Public Auth Routes ====================
	authPublic := api.Group("/auth")
	{
		authPublic.POST("/signup", h.AuthHandler.SignUp)
		authPublic.POST("/signin", h.AuthHandler.SignIn)
		authPublic.POST("/signout", h.AuthHandler.SignOut)
		authPublic.POST("/refresh", h.AuthHandler.Refresh)
		authPublic.POST("/reset-password", h.AuthHandler.ResetPassword)
	}

	// ==================== OAuth Redirect Flows ====================
	oauth := api.Group("/auth")
	{
		oauth.GET("/oauth/google", h.OAuthHandler.Start("google"))
		oauth.GET("/oauth/facebook", h.OAuthHandler.Start("facebook"))
		oauth.GET("/callback/:provider", h.OAuthHandler.Callback)
	}

	// ==================== Authenticated Auth Routes ====================
	authProtected := api.Group("/auth")
	authProtected.Use(h.AuthMiddleware.Auth())
	{
		authProtected.GET("/me", h.AuthHandler.Me)
	}

	// ==================== Coached Clients ====================
	clients := api.Group("/clients")
	clients.Use(h.AuthMiddleware.TrainerOnly()...)
	{
		clients.POST("", h.ClientHandler.Create)
		clients.GET("", h.ClientHandler.List)
		clients.GET("/:id", h.ClientHandler.Get)
		clients.GET("/by-ref/:reference", h.ClientHandler.GetByReference)
		clients.PUT("/:id", h.ClientHandler.Update)
		clients.POST("/:id/archive", h.ClientHandler.Archive)
		clients.POST("/:id/reactivate", h.ClientHandler.Reactivate)
		clients.DELETE("/:id", h.ClientHandler.Delete)
	}

	// ==================== Workout Plans ====================
	workouts := api.Group("/workouts")
	workouts.Use(h.AuthMiddleware.TrainerOnly()...)
	{
		workouts.POST("", h.WorkoutHandler.Create)
		workouts.GET("", h.WorkoutHandler.List)
		workouts.GET("/:id", h.WorkoutHandler.Get)
		workouts.PUT("/:id", h.WorkoutHandler.Update)
		workouts.POST("/:id/assign", h.WorkoutHandler.Assign)
		workouts.DELETE("/:id", h.WorkoutHandler.Delete)
	}
	api.GET("/clients/:id/workouts", append(h.AuthMiddleware.TrainerOnly(), clientWorkouts(h))...)

	// ==================== Bookings ====================
	bookings := api.Group("/bookings")
	bookings.Use(h.AuthMiddleware.TrainerOnly()...)
	{
		bookings.POST("", h.BookingHandler.Create)
		bookings.GET("", h.BookingHandler.List)
		bookings.GET("/upcoming", h.BookingHandler.Upcoming)
		bookings.GET("/:id", h.BookingHandler.Get)
		bookings.PUT("/:id", h.BookingHandler.Update)
		bookings.POST("/:id/cancel", h.BookingHandler.Cancel)
		bookings.POST("/:id/complete", h.BookingHandler.Complete)
	}

	// ==================== Page Routes (Access Gate) ====================
	// Everything that is not an API or websocket route goes through the
	// gate, which decides between pass-through and login redirects.
	r.NoRoute(h.AccessGate.Handler(), func(c *gin.Context) {
		c.JSON(404, gin.H{"error": "not found"})
	})
}

// clientWorkouts adapts the nested route's param name.
func clientWorkouts(h *Handlers) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Params = append(c.Params, gin.Param{Key: "client_id", Value: c.Param("id")})
		h.WorkoutHandler.ListForClient(c)
	}
}
