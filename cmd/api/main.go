package main

// @title           MoMo Split API
// @version         1.0
// @description     Shared expenses, balances and mobile-money settlements for groups.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/fkhayef/momosplit/docs"
	"github.com/fkhayef/momosplit/internal/config"
	"github.com/fkhayef/momosplit/internal/database"
	"github.com/fkhayef/momosplit/internal/eventlog"
	"github.com/fkhayef/momosplit/internal/expense"
	"github.com/fkhayef/momosplit/internal/group"
	"github.com/fkhayef/momosplit/internal/notification"
	"github.com/fkhayef/momosplit/internal/seed"
	"github.com/fkhayef/momosplit/internal/settlement"
	"github.com/fkhayef/momosplit/internal/user"
	mw "github.com/fkhayef/momosplit/pkg/middleware"
)

func main() {
	// Load .env file
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Failed to read .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Activity log worker
	eventStore := eventlog.NewSQLStore(db)
	eventWorker := eventlog.NewWorker(eventStore, cfg.EventBufferSize)
	eventWorker.Start()
	defer eventWorker.Shutdown()
	eventHandler := eventlog.NewHandler(eventStore)

	// Notification feature
	notificationRepo := notification.NewRepository(db)
	notificationService := notification.NewService(notificationRepo)
	notificationHandler := notification.NewHandler(notificationService)

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	// Group feature
	groupRepo := group.NewRepository(db)
	groupService := group.NewService(groupRepo, cfg.DefaultCurrency)
	groupHandler := group.NewHandler(groupService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, groupService, notificationService, eventWorker)
	expenseHandler := expense.NewHandler(expenseService)

	// Settlement feature (balances are derived from expenses)
	settlementRepo := settlement.NewRepository(db)
	settlementService := settlement.NewService(settlementRepo, expenseService, groupService, notificationService, eventWorker)
	settlementHandler := settlement.NewHandler(settlementService)

	if cfg.SeedDemoData {
		var provider seed.Provider = seed.DemoProvider{}
		if cfg.SeedFile != "" {
			provider = seed.FileProvider{Path: cfg.SeedFile}
		}
		seeder := seed.NewSeeder(provider, userService, groupService, expenseService)
		if _, err := seeder.Seed(context.Background()); err != nil {
			log.Fatalf("Failed to seed data: %v", err)
		}
	}

	authenticate := mw.TestUserMiddleware
	if cfg.AuthMode == config.AuthModeJWT {
		authenticate = mw.AuthMiddleware([]byte(cfg.JWTSecret))
	} else {
		log.Println("AUTH_MODE=test: requests act as X-Test-User-ID (default 1)")
	}

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	docs.SwaggerInfo.Host = ""
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(authenticate)

		groupRouter := groupHandler.Routes()
		settlementHandler.MountGroupRoutes(groupRouter)

		// Mount feature routers
		r.Mount("/users", userHandler.Routes())
		r.Mount("/groups", groupRouter)
		r.Mount("/expenses", expenseHandler.Routes())
		r.Mount("/settlements", settlementHandler.Routes())
		r.Mount("/notifications", notificationHandler.Routes())
		r.Mount("/events", eventHandler.Routes())
	})

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type", "X-Test-User-ID"},
		AllowCredentials: false,
	}).Handler(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           corsHandler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	waitForShutdown(srv)
}

// waitForShutdown waits for SIGTERM or SIGINT and gracefully shuts down the server
func waitForShutdown(srv *http.Server) {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	sig := <-sigChan
	log.Printf("Received signal: %v. Shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
