package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"time"

	"reviewloop/internal/auth"
	"reviewloop/internal/database"
	"reviewloop/internal/handlers"
	"reviewloop/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading environment variables directly")
	}

	// Initialize database
	if err := database.InitDB(); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	if err := auth.InitCrypto(); err != nil {
		log.Fatal("Failed to initialize token encryption:", err)
	}
	if err := auth.InitOAuth(); err != nil {
		log.Fatal("Failed to initialize OAuth:", err)
	}
	if err := services.InitMapsClient(); err != nil {
		log.Printf("Warning: Google Maps client not available: %v", err)
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	db := database.GetDB()
	store := database.NewStore(db)
	emailService := services.NewEmailService()
	scheduler := services.NewReminderScheduler(store, store)

	unsubLink := func(wheelID, userEmail string) (string, error) {
		token, err := auth.GenerateUnsubscribeToken(wheelID, userEmail)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s/unsubscribe?token=%s", baseURL, url.QueryEscape(token)), nil
	}

	hostname, _ := os.Hostname()
	processor := services.NewReminderProcessor(store, store, emailService, unsubLink, services.ProcessorConfig{
		BatchSize:    envInt("REMINDER_BATCH_SIZE", services.DefaultBatchSize),
		LockDuration: time.Duration(envInt("REMINDER_LOCK_MINUTES", 15)) * time.Minute,
		WorkerID:     hostname,
	})

	imageService, err := services.NewImageService()
	if err != nil {
		log.Printf("Warning: image uploads disabled: %v", err)
		imageService = nil
	}

	handlers.Init(handlers.Deps{
		Store:        store,
		Scheduler:    scheduler,
		Processor:    processor,
		Spins:        services.NewSpinService(db, emailService, scheduler),
		Email:        emailService,
		Search:       services.NewCustomerSearchService(db),
		Images:       imageService,
		CronSecret:   os.Getenv("CRON_SECRET"),
		SupportEmail: os.Getenv("SUPPORT_EMAIL"),
		BaseURL:      baseURL,
	})

	// Background work: trial warnings on a ticker, reminder batches on cron
	services.NewTrialWorker(emailService).Start()
	if os.Getenv("REMINDER_CRON_DISABLED") == "" {
		services.StartReminderCron(processor)
	}

	// Initialize Gin router
	router := gin.Default()

	// Configure trusted proxies
	router.SetTrustedProxies([]string{"127.0.0.1"})
	router.HandleMethodNotAllowed = true

	// Public endpoints are called from QR-code spin pages on any origin
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "PUT", "PATCH", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Cron-Secret"},
		MaxAge:          12 * time.Hour,
	}))

	// Basic routes
	router.GET("/", handlers.HomeHandler)
	router.GET("/health", handlers.HealthHandler)

	// Auth routes (no auth required)
	router.GET("/auth/login", handlers.LoginHandler)
	router.GET("/auth/callback", handlers.GoogleCallbackHandler)

	// Public widget and email-link routes
	router.GET("/public/wheels/:id", handlers.GetPublicWheel)
	router.POST("/spins", handlers.RecordSpin)
	router.GET("/r/:code", handlers.RewardRedirect)
	router.GET("/unsubscribe", handlers.Unsubscribe)
	router.POST("/contact", handlers.SubmitContact)

	// Reminder pipeline endpoints
	router.POST("/reminders/schedule", handlers.ScheduleReminder)
	router.POST("/internal/reminders/process", handlers.ProcessReminders)

	// Protected routes (auth required)
	protected := router.Group("")
	protected.Use(auth.AuthMiddleware())
	{
		protected.GET("/auth/logout", handlers.LogoutHandler)
		protected.GET("/auth/me", handlers.GetCurrentUser)
		protected.POST("/accounts/profile", handlers.CreateProfile)

		protected.POST("/wheels", handlers.CreateWheel)
		protected.GET("/wheels", handlers.GetWheels)
		protected.GET("/wheels/:id", handlers.GetWheel)
		protected.PATCH("/wheels/:id", handlers.UpdateWheel)

		protected.PUT("/business", handlers.UpsertBusiness)
		protected.GET("/business", handlers.GetBusiness)
		protected.POST("/business/logo", handlers.UploadLogo)
		protected.GET("/places/validate", handlers.ValidatePlace)

		protected.GET("/reminders", handlers.ListReminders)
		protected.GET("/customers/search", handlers.SearchCustomers)
	}

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Server starting on port %s...\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

// envInt reads an integer environment variable with a fallback
func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil {
			return value
		}
		log.Printf("Warning: invalid %s value %q, using %d", key, raw, fallback)
	}
	return fallback
}
