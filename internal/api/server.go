package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"mooreweb/internal/availability"
	"mooreweb/internal/config"
	"mooreweb/internal/confirmation"
	"mooreweb/internal/external"
	"mooreweb/internal/handlers"
	"mooreweb/internal/logger"
	"mooreweb/internal/middleware"
	"mooreweb/internal/session"
)

// Server is the portal HTTP server.
type Server struct {
	router        *gin.Engine
	config        *config.Config
	sessions      *session.RedisStore
	confirmations *confirmation.Registry
}

// NewServer wires the portal together.
func NewServer(cfg *config.Config) *Server {
	gin.SetMode(cfg.GinMode)

	sessions, err := session.NewRedisStore(cfg.Session)
	if err != nil {
		logger.Fatal("Failed to connect to session store", "error", err)
	}

	hotel := external.NewHotelClient(cfg.Hotel)

	// Any 401 from the hotel API invalidates the session holding that
	// token, so the visitor drops back to anonymous.
	hotel.SetUnauthorizedHook(func(ctx context.Context, token string) {
		if err := sessions.ClearByToken(ctx, token); err != nil {
			logger.Get().Error("Failed to clear session after 401", "error", err)
		}
	})

	checker := availability.NewChecker(hotel, cfg.AvailabilityDebounce)
	confirmations := confirmation.NewRegistry(hotel, cfg.Confirmation)

	router := gin.New()
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.Session(sessions))
	router.Use(middleware.Logger())

	server := &Server{
		router:        router,
		config:        cfg,
		sessions:      sessions,
		confirmations: confirmations,
	}

	h := handlers.NewHandlers(hotel, sessions, checker, confirmations, cfg.Checkout)
	server.setupRoutes(h)

	return server
}

func (s *Server) setupRoutes(h *handlers.Handlers) {
	api := s.router.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.POST("/logout", h.Logout)
			auth.POST("/forgot-password", h.ForgotPassword)
			auth.GET("/verify-email", h.VerifyEmail)
		}

		rooms := api.Group("/rooms")
		{
			rooms.GET("", h.ListRooms)
			rooms.GET("/search", h.SearchRooms)
			rooms.GET("/:id", h.GetRoom)
			rooms.GET("/:id/availability", h.CheckAvailability)
		}

		chk := api.Group("/checkout")
		{
			chk.GET("/:roomId/quote", h.Quote)
			chk.POST("/:roomId", middleware.RequireAuth(), h.Checkout)
			chk.POST("/:roomId/transfer-sent", middleware.RequireAuth(), h.TransferSent)
		}

		bookings := api.Group("/bookings")
		{
			bookings.GET("/:code", h.GetBooking)
			bookings.POST("/:code/cancel", h.CancelBooking)
		}

		profile := api.Group("/profile")
		profile.Use(middleware.RequireAuth())
		{
			profile.GET("/me", h.Me)
			profile.GET("/bookings", h.MyBookings)
			profile.PATCH("/me", h.UpdateMe)
			profile.POST("/rotate-security", h.RotateSecurity)
		}
	}

	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "mooreweb",
		"version": "1.0.0",
	})
}

// GetRouter returns the router for testing
func (s *Server) GetRouter() *gin.Engine {
	return s.router
}

// Cleanup closes connections and stops background watchers
func (s *Server) Cleanup() error {
	s.confirmations.Close()
	return s.sessions.Close()
}
