package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"fitstudio/internal/auth"
	"fitstudio/internal/booking"
	"fitstudio/internal/config"
	"fitstudio/internal/email"
	"fitstudio/internal/ledger"
	"fitstudio/internal/market"
	"fitstudio/internal/studio"
	"fitstudio/internal/user"
)

type Server struct {
	router *gin.Engine
	db     *sqlx.DB
	config *config.Config
	email  *email.Service
	http   *http.Server
}

// New builds the full dependency graph: repositories over the shared db
// handle, services over the repositories, handlers over the services. All
// wiring happens here so tests can assemble the same pieces differently.
func New(db *sqlx.DB, cfg *config.Config, emailService *email.Service) *Server {
	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())
	router.Use(RequestLoggingMiddleware())
	router.Use(MetricsMiddleware())
	router.Use(RateLimitMiddleware(20, 40))

	ledgerRepo := ledger.NewRepository(db)
	studioRepo := studio.NewRepository(db)
	marketRepo := market.NewRepository(db)
	userRepo := user.NewRepository(db)
	bookingRepo := booking.NewRepository(db)

	pictures := studio.NewDiskPictureStore(cfg.PictureDir, cfg.PictureBaseURL)

	userService := user.NewService(userRepo, ledgerRepo, cfg.JWTSecret)
	studioService := studio.NewService(studioRepo, pictures)
	marketService := market.NewService(db, marketRepo, ledgerRepo)
	bookingService := booking.NewService(db, bookingRepo, studioRepo, ledgerRepo,
		marketRepo, userRepo, emailService)

	userHandler := user.NewHandler(userService)
	studioHandler := studio.NewHandler(studioService)
	marketHandler := market.NewHandler(marketService)
	ledgerHandler := ledger.NewHandler(ledgerRepo)
	bookingHandler := booking.NewHandler(bookingService)

	public := router.Group("/auth")
	{
		public.POST("/register", userHandler.Register)
		public.POST("/login", userHandler.Login)
		public.POST("/refresh", userHandler.Refresh)
	}

	authMiddleware := auth.AuthMiddleware(cfg.JWTSecret)
	protected := router.Group("/")
	protected.Use(authMiddleware)
	{
		protected.GET("/users/me", userHandler.Me)

		protected.GET("/activities", studioHandler.ListActivities)
		protected.GET("/activities/:activityID", studioHandler.GetActivity)
		protected.GET("/coaches", studioHandler.ListCoaches)
		protected.GET("/slots", studioHandler.ListTimeSlots)

		protected.POST("/bookings", bookingHandler.BookSlot)
		protected.GET("/bookings", bookingHandler.GetMyBookings)
		protected.DELETE("/bookings/:bookingID", bookingHandler.CancelBooking)
		protected.POST("/bookings/:bookingID/additions", bookingHandler.PurchaseAddition)

		protected.GET("/market/items", marketHandler.ListItems)
		protected.POST("/market/purchase", marketHandler.Purchase)

		protected.GET("/balance", ledgerHandler.GetMyBalance)
		protected.POST("/balance/topup", ledgerHandler.TopUp)
		protected.GET("/balance/entries", ledgerHandler.ListMyEntries)
	}

	adminMiddleware := auth.RequireRole("admin")
	admin := router.Group("/admin")
	admin.Use(authMiddleware, adminMiddleware)
	{
		admin.GET("/users", userHandler.ListUsers)
		admin.PUT("/users/:userID/role", userHandler.SetRole)

		admin.POST("/activities", studioHandler.CreateActivity)
		admin.GET("/activities", studioHandler.ListActivities)
		admin.PUT("/activities/:activityID", studioHandler.UpdateActivity)
		admin.DELETE("/activities/:activityID", studioHandler.DeleteActivity)

		admin.POST("/coaches", studioHandler.CreateCoach)
		admin.GET("/coaches", studioHandler.ListCoaches)
		admin.POST("/coaches/:coachID/picture", studioHandler.UploadCoachPicture)
		admin.DELETE("/coaches/:coachID", studioHandler.DeleteCoach)

		admin.POST("/slots", studioHandler.CreateTimeSlot)
		admin.GET("/slots", studioHandler.ListTimeSlots)
		admin.POST("/slots/provision", studioHandler.ProvisionTimeSlots)
		admin.GET("/slots/:slotID/bookings", bookingHandler.GetSlotRoster)
		admin.POST("/slots/:slotID/remind", bookingHandler.SendSlotReminders)

		admin.POST("/bookings", bookingHandler.AdminBookSlot)
		admin.DELETE("/bookings/:bookingID", bookingHandler.AdminCancelBooking)

		admin.POST("/market/items", marketHandler.CreateItem)
		admin.GET("/market/items", marketHandler.ListItems)
		admin.PUT("/market/items/:itemID", marketHandler.UpdateItem)
		admin.DELETE("/market/items/:itemID", marketHandler.DeleteItem)

		admin.GET("/users/:userID/balance", ledgerHandler.GetUserBalance)
		admin.POST("/users/:userID/grant", ledgerHandler.Grant)
		admin.PUT("/users/:userID/free", ledgerHandler.SetFree)

		admin.GET("/analytics/revenue/daily", ledgerHandler.GetRevenueAnalytics)
		admin.GET("/analytics/bookings/daily", bookingHandler.GetStatsByDay)
		admin.GET("/analytics/bookings/by-activity", bookingHandler.GetStatsByActivity)
	}

	if cfg.PictureDir != "" {
		router.Static(cfg.PictureBaseURL, cfg.PictureDir)
	}

	router.GET("/health", Health)
	router.GET("/metrics", Metrics())
	router.GET("/test-email", TestEmail(emailService))
	SetupSwagger(router)

	return &Server{
		router: router,
		db:     db,
		config: cfg,
		email:  emailService,
	}
}

func (s *Server) Start(port string) error {
	s.http = &http.Server{
		Addr:    ":" + port,
		Handler: s.router,
	}
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}

// Router exposes the gin engine for httptest-based tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
