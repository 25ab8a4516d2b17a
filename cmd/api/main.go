package main

import (
	"log"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/parkshare/parkshare-backend/internal/core"
	"github.com/parkshare/parkshare-backend/internal/database"
	"github.com/parkshare/parkshare-backend/internal/handlers"
	"github.com/parkshare/parkshare-backend/internal/jobs"
	"github.com/parkshare/parkshare-backend/internal/middleware"
	"github.com/parkshare/parkshare-backend/internal/services"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatal("Error loading .env file")
	}

	// Initialize database with better error handling
	db, err := database.InitDB()
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Get underlying SQL DB instance
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("Failed to get database instance: %v", err)
	}

	// Configure connection pool
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize Redis
	if err := services.InitRedis(); err != nil {
		log.Fatalf("Failed to initialize Redis: %v", err)
	}

	// Initialize Storage (S3 or local fallback)
	if err := services.InitStorage(); err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	geocoder := services.NewGeocoder()

	// Core engine: constructed once, injected everywhere
	graph := core.NewRelationshipGraph(database.NewFriendshipStore(db), database.NewGroupStore(db))
	listings := database.NewListingStore(db)
	filter := core.NewVisibilityFilter(graph, listings)
	engine := core.NewBookingEngine(database.NewBookingStore(db), listings)

	// Background completion sweep
	sweep := jobs.StartCompletionSweep(engine)
	defer sweep.Stop()

	// Initialize router
	r := gin.Default()

	// Configure CORS
	config := cors.DefaultConfig()
	config.AllowOrigins = []string{"*"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	r.Use(cors.New(config))

	// Serve locally stored uploads
	r.Static("/uploads", "/app/uploads")

	// Routes
	api := r.Group("/api")
	{
		// Public routes
		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.Register(db))
			auth.POST("/login", handlers.Login(db))
		}

		// Protected routes
		protected := api.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			// User routes
			users := protected.Group("/users")
			{
				users.GET("/profile", handlers.GetProfile(db))
				users.PUT("/profile", handlers.UpdateProfile(db))
				users.GET("/search", handlers.SearchUsers(db))
			}

			// Listing routes
			listingRoutes := protected.Group("/listings")
			{
				listingRoutes.POST("", handlers.CreateListing(db, geocoder))
				listingRoutes.GET("", handlers.GetListings(filter))
				listingRoutes.GET("/mine", handlers.GetMyListings(db))
				listingRoutes.GET("/map", handlers.GetMapMarkers(filter))
				listingRoutes.GET("/:id", handlers.GetListing(db, filter))
				listingRoutes.PUT("/:id", handlers.UpdateListing(db, geocoder))
				listingRoutes.PATCH("/:id/availability", handlers.UpdateAvailability(db))
			}

			// Friendship routes
			friends := protected.Group("/friends")
			{
				friends.POST("/requests", handlers.ProposeFriendship(graph))
				friends.GET("/requests", handlers.GetFriendRequests(db))
				friends.PATCH("/requests/:id", handlers.RespondFriendship(graph))
				friends.GET("", handlers.GetFriends(db))
				friends.DELETE("/:userId", handlers.RemoveFriendship(graph))
			}

			// Lucky group routes
			groups := protected.Group("/groups")
			{
				groups.POST("", handlers.CreateGroup(graph))
				groups.GET("", handlers.GetGroups(db))
				groups.GET("/invites", handlers.GetGroupInvites(db))
				groups.PATCH("/invites/:id", handlers.RespondGroupInvite(graph))
				groups.POST("/:id/invites", handlers.InviteToGroup(graph))
				groups.DELETE("/:id/members/:userId", handlers.RemoveGroupMember(graph))
				groups.POST("/:id/leave", handlers.LeaveGroup(graph))
			}

			// Booking routes
			bookings := protected.Group("/bookings")
			{
				bookings.POST("", handlers.CreateBooking(engine))
				bookings.GET("", handlers.GetBookings(engine))
				bookings.GET("/:id", handlers.GetBooking(engine))
				bookings.PATCH("/:id/respond", handlers.RespondToBooking(engine))
				bookings.POST("/:id/pay", handlers.PayBooking(engine))
				bookings.POST("/:id/cancel", handlers.CancelBooking(engine))
				bookings.POST("/:id/complete", handlers.CompleteBooking(engine))
			}

			// Upload routes
			uploads := protected.Group("/uploads")
			{
				uploads.POST("/listing-photo", handlers.UploadListingPhoto())
			}
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
