package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/go-co-op/gocron/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"tripatlas/internal/blob"
	"tripatlas/internal/config"
	"tripatlas/internal/database"
	"tripatlas/internal/generator"
	"tripatlas/internal/handlers"
	"tripatlas/internal/jobs"
	"tripatlas/internal/logging"
	"tripatlas/internal/middleware"
	"tripatlas/internal/services"
	"tripatlas/internal/tts"
	"tripatlas/pkg/auth"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Structured logging (JSON in production, text in dev)
	logging.Init()

	log.Println("🚀 Starting TripAtlas Server...")

	// Load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("⚠️  No .env file found or error loading it: %v", err)
	}

	cfg := config.Load()
	log.Printf("📋 Configuration loaded (Port: %s, Model: %s)", cfg.Port, cfg.GeminiModel)

	if cfg.MongoURI == "" {
		log.Fatal("❌ MONGODB_URI environment variable is required")
	}
	if cfg.GeminiAPIKey == "" {
		log.Fatal("❌ GEMINI_API_KEY environment variable is required")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("❌ JWT_SECRET environment variable is required")
	}

	// MongoDB
	mongoDB, err := database.NewMongoDB(cfg.MongoURI)
	if err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}
	defer mongoDB.Close(context.Background())

	initCtx, cancelInit := context.WithTimeout(context.Background(), 30*time.Second)
	err = mongoDB.Initialize(initCtx)
	cancelInit()
	if err != nil {
		log.Fatalf("❌ Failed to initialize MongoDB indexes: %v", err)
	}

	// Auth
	jwtAuth, err := auth.NewJWTAuth(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatalf("❌ Failed to initialize JWT auth: %v", err)
	}

	// External providers
	gemini := generator.NewGemini(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTimeout,
		generator.WithRateLimit(cfg.GeminiRPS))

	var synth services.AudioSynthesizer
	var blobStore services.BlobStore
	if cfg.ElevenLabsAPIKey != "" && cfg.SupabaseURL != "" {
		synth = tts.NewElevenLabs(cfg.ElevenLabsAPIKey, cfg.ElevenLabsVoice, cfg.TTSTimeout)
		blobStore = blob.NewSupabase(cfg.SupabaseURL, cfg.SupabaseKey, cfg.SupabaseBucket, cfg.TTSTimeout)
		log.Println("✅ Audio pipeline enabled (ElevenLabs + Supabase)")
	} else {
		log.Println("⚠️  Audio pipeline disabled: ELEVENLABS_API_KEY or SUPABASE_URL not set")
	}

	// Metrics
	metrics := services.InitMetrics()

	// Stores and services
	countryStore := services.NewMongoCountryStore(mongoDB)
	userStore := services.NewMongoUserStore(mongoDB)

	countryService := services.NewCountryService(countryStore, gemini, cfg.CountryFreshness, cfg.HotCacheTTL, metrics)
	historyService := services.NewHistoryService(userStore, cfg.SearchHistoryWindow, cfg.SearchHistoryCap)
	recommendationService := services.NewRecommendationService(userStore, gemini, cfg.RecommendationFreshness, metrics)
	userService := services.NewUserService(userStore)

	var audioService *services.AudioService
	if synth != nil {
		audioService = services.NewAudioService(countryStore, synth, blobStore, metrics)
	}

	// Background jobs
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Fatalf("❌ Failed to create job scheduler: %v", err)
	}

	trimJob := jobs.NewHistoryTrimJob(userStore, cfg.SearchHistoryCap)
	_, err = scheduler.NewJob(
		gocron.CronJob("0 3 * * *", false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
			defer cancel()
			if err := trimJob.Run(ctx); err != nil {
				log.Printf("⚠️  History trim job failed: %v", err)
			}
		}),
		gocron.WithName("history-trim"),
	)
	if err != nil {
		log.Fatalf("❌ Failed to schedule history trim job: %v", err)
	}
	scheduler.Start()
	log.Println("🕐 Background jobs: history trim (daily 3 AM UTC)")

	// Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "TripAtlas v1.0",
		ReadTimeout:  180 * time.Second,
		WriteTimeout: 180 * time.Second, // guide generation can take a while on cold cache
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(logger.New())

	// Prometheus metrics middleware
	prometheus := fiberprometheus.New("tripatlas")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)
	log.Println("📊 Prometheus metrics endpoint enabled at /metrics")

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:5173,http://localhost:3000"
		log.Println("⚠️  ALLOWED_ORIGINS not set, using development defaults")
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization",
		AllowCredentials: allowedOrigins != "*",
	}))

	// Global API rate limiter
	app.Use("/api", limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	// Handlers
	healthHandler := handlers.NewHealthHandler(mongoDB)
	countryHandler := handlers.NewCountryHandler(countryService)
	historyHandler := handlers.NewHistoryHandler(historyService)
	recommendHandler := handlers.NewRecommendHandler(recommendationService)
	userHandler := handlers.NewUserHandler(userService)

	// Routes
	app.Get("/health", healthHandler.Handle)

	api := app.Group("/api", middleware.AuthMiddleware(jwtAuth))

	api.Get("/country", countryHandler.Get)
	api.Get("/country/search", countryHandler.Search)

	if audioService != nil {
		audioHandler := handlers.NewAudioHandler(countryService, audioService)
		api.Post("/tts", audioHandler.Synthesize)
	}

	api.Get("/user/profile", userHandler.GetProfile)
	api.Put("/user/profile", userHandler.SaveProfile)
	api.Post("/user/mood", userHandler.LogMood)
	api.Get("/user/search-history", historyHandler.Recent)
	api.Post("/user/search-history", historyHandler.Record)

	api.Post("/recommend", recommendHandler.Personal)
	api.Post("/recommendations", recommendHandler.ForCriteria)

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("\n🛑 Shutting down server...")

		if err := scheduler.Shutdown(); err != nil {
			log.Printf("⚠️  Error stopping scheduler: %v", err)
		}

		if err := app.Shutdown(); err != nil {
			log.Printf("⚠️  Error shutting down server: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}
