package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wastenot-api/internal/cache"
	"wastenot-api/internal/config"
	"wastenot-api/internal/handler"
	"wastenot-api/internal/middleware"
	"wastenot-api/internal/repository"
	"wastenot-api/internal/router"
	"wastenot-api/internal/service"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("Starting WasteNot API...")

	// Load configuration
	cfg := config.MustLoad()
	log.Printf("Environment: %s", cfg.App.Environment)

	// Initialize the document store based on config
	var (
		inventoryRepo  repository.InventoryRepository
		itemRepo       repository.ItemRepository
		invitationRepo repository.InvitationRepository
		userRepo       repository.UserRepository
		statsProvider  repository.StatsProvider
	)

	switch cfg.Store.Type {
	case "mongodb", "mongo":
		mongoStore, err := repository.NewMongoStore(repository.MongoConfig{
			URI:         cfg.Store.MongoURI,
			Database:    cfg.Store.MongoDatabase,
			Inventories: cfg.Store.InventoryTable,
			Items:       cfg.Store.ItemsCollection,
			Invitations: cfg.Store.InvitesCollection,
			Users:       cfg.Store.UsersTable,
		})
		if err != nil {
			log.Fatalf("Failed to initialize MongoDB: %v", err)
		}
		defer mongoStore.Close()
		inventoryRepo, itemRepo, invitationRepo, userRepo = mongoStore, mongoStore, mongoStore, mongoStore
		statsProvider = mongoStore
		log.Println("MongoDB store initialized")
	case "memory":
		memStore := repository.NewMemoryStore()
		inventoryRepo, itemRepo, invitationRepo, userRepo = memStore, memStore, memStore, memStore
		statsProvider = memStore
		log.Println("In-memory store initialized")
	default: // sqlite
		sqliteStore, err := repository.NewSQLiteStore(cfg.Store.Path)
		if err != nil {
			log.Fatalf("Failed to initialize SQLite: %v", err)
		}
		defer sqliteStore.Close()
		inventoryRepo, itemRepo, invitationRepo, userRepo = sqliteStore, sqliteStore, sqliteStore, sqliteStore
		statsProvider = sqliteStore
		log.Println("SQLite store initialized")
	}

	// Optional MySQL backend for user profiles
	if cfg.UsersDB.Enabled {
		mysqlDB, err := sql.Open("mysql", cfg.UsersDB.DSN())
		if err != nil {
			log.Printf("Warning: MySQL connection failed: %v", err)
		} else {
			mysqlDB.SetMaxOpenConns(10)
			mysqlDB.SetMaxIdleConns(5)
			mysqlDB.SetConnMaxLifetime(5 * time.Minute)

			if err := mysqlDB.Ping(); err != nil {
				log.Printf("Warning: MySQL ping failed: %v", err)
				mysqlDB.Close()
			} else {
				defer mysqlDB.Close()
				mysqlUserRepo, err := repository.NewMySQLUserRepository(mysqlDB)
				if err != nil {
					log.Printf("Warning: MySQL user repository init failed: %v", err)
				} else {
					userRepo = mysqlUserRepo
					log.Println("MySQL user repository initialized")
				}
			}
		}
	}

	// Initialize Redis client
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.RedisAddress(),
		Password: cfg.Cache.RedisPassword,
		DB:       cfg.Cache.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Warning: Redis connection failed: %v", err)
		redisClient = nil
	} else {
		log.Println("Redis client initialized")
	}
	cancel()

	// Profile cache and reminder queue fall back to in-process versions
	// when Redis is unavailable.
	var profileCache cache.ProfileCache
	var reminderQueue cache.ReminderQueue
	if redisClient != nil {
		profileCache = cache.NewRedisProfileCache(redisClient, cfg.Cache.ProfileTTL)
		reminderQueue = cache.NewRedisReminderQueue(redisClient)
	} else {
		profileCache = cache.NewMemoryProfileCache(cfg.Cache.ProfileTTL)
		reminderQueue = cache.NewMemoryReminderQueue()
	}

	// Initialize services
	reminderService := service.NewReminderService(reminderQueue, inventoryRepo, service.LogNotifier{}, service.ReminderConfig{
		PollInterval: cfg.Reminders.PollInterval,
	})
	reminderService.Start()
	defer reminderService.Stop()

	inventoryService := service.NewInventoryService(inventoryRepo, userRepo, profileCache)
	invitationService := service.NewInvitationService(invitationRepo, inventoryRepo, userRepo)
	itemService := service.NewItemService(itemRepo, inventoryRepo, reminderService, cfg.Reminders.CancelOnDelete)
	userService := service.NewUserService(userRepo)

	var tokenService *service.TokenService
	if redisClient != nil {
		tokenService = service.NewTokenService(redisClient)
	}

	var summaryScheduler *service.SummaryScheduler
	if cfg.Reminders.SummaryEnabled {
		summaryScheduler = service.NewSummaryScheduler(itemRepo, inventoryRepo, service.LogNotifier{}, service.SummaryConfig{
			Interval: cfg.Reminders.SummaryInterval,
		})
		summaryScheduler.Start()
		defer summaryScheduler.Stop()
	}

	// Initialize handlers
	healthHandler := handler.New()
	itemHandler := handler.NewItemHandler(itemService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	invitationHandler := handler.NewInvitationHandler(invitationService)
	userHandler := handler.NewUserHandler(userService)
	adminHandler := handler.NewAdminHandler(statsProvider, cfg.Store.Type)

	var authHandler *handler.AuthHandler
	if tokenService != nil {
		authHandler = handler.NewAuthHandler(tokenService, userService)
	}

	// Create auth middleware with injected dependencies (NO GLOBALS!)
	authMiddleware := middleware.NewAuthMiddleware(middleware.AuthConfig{
		TokenService: tokenService,
	})

	// Create router
	r := router.New(router.Config{
		Handler:           healthHandler,
		ItemHandler:       itemHandler,
		InventoryHandler:  inventoryHandler,
		InvitationHandler: invitationHandler,
		UserHandler:       userHandler,
		AuthHandler:       authHandler,
		AdminHandler:      adminHandler,
		AuthMiddleware:    authMiddleware,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on %s", cfg.Server.Address())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel = context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
	fmt.Println("Goodbye!")
}
