package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"time"

	"depot-backend/internal/auth"
	"depot-backend/internal/cache"
	"depot-backend/internal/config"
	"depot-backend/internal/database"
	"depot-backend/internal/db"
	"depot-backend/internal/handlers"
	"depot-backend/internal/health"
	h "depot-backend/internal/http"
	"depot-backend/internal/middleware"
	"depot-backend/internal/monitoring"
	"depot-backend/internal/repositories"
	"depot-backend/internal/services"
	"depot-backend/migrations"
)

func main() {
	port := flag.Int("port", 0, "Server port (overrides config)")
	flag.Parse()

	// Load configuration
	cfg := config.Load()
	if *port != 0 {
		cfg.Server.Port = *port
	}

	// Connect to PostgreSQL
	pool := db.Connect(cfg)
	defer pool.Close()

	// Initialize Redis cache (optional - graceful fallback if unavailable)
	if err := cache.Init(); err != nil {
		log.Printf("[Redis] Cache unavailable: %v (container locks degrade to database serialization)", err)
	} else {
		log.Println("[Redis] Cache connected successfully")
	}

	// Run database migrations
	log.Println("Running database migrations...")
	migrator := database.NewMigrator(pool, migrations.FS)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := migrator.RunMigrations(ctx); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize health checker
	healthChecker := health.NewHealthChecker(pool)

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg)

	// Initialize repositories
	userRepo := repositories.NewUserRepository(pool)
	totpRepo := repositories.NewTOTPRepository(pool)
	requestRepo := repositories.NewServiceRequestRepository(pool)
	yardRepo := repositories.NewYardRepository(pool)
	repairRepo := repositories.NewRepairTicketRepository(pool)
	forkliftRepo := repositories.NewForkliftTaskRepository(pool)
	sealRepo := repositories.NewSealRepository(pool)
	invoiceRepo := repositories.NewInvoiceRepository(pool)
	priceRepo := repositories.NewPriceListRepository(pool)
	adminActionLogRepo := repositories.NewAdminActionLogRepository(pool)

	// Initialize services
	userService := services.NewUserService(userRepo, jwtManager)
	totpService := services.NewTOTPService(userRepo, totpRepo)
	userService.SetTOTPService(totpService)

	costService := services.NewCostService(priceRepo, repairRepo, forkliftRepo, sealRepo, invoiceRepo, requestRepo)
	requestService := services.NewServiceRequestService(pool, requestRepo)
	requestService.SetCostService(costService)

	yardService := services.NewYardService(yardRepo)
	forkliftService := services.NewForkliftService(forkliftRepo, requestRepo, priceRepo)
	repairService := services.NewRepairService(repairRepo, requestRepo)
	sealService := services.NewSealService(sealRepo, requestRepo)
	sealSyncService := services.NewSealSyncService(requestRepo, sealRepo)
	invoiceService := services.NewInvoiceService(invoiceRepo, requestRepo, costService)
	documentService := services.NewDocumentService(invoiceRepo, requestRepo, yardRepo, sealRepo)
	reportService := services.NewReportService(yardRepo, requestRepo, invoiceRepo)

	resolverService := services.NewStateResolverService(requestRepo, yardRepo, repairRepo)
	reconcileService := services.NewReconcileService(pool, resolverService, requestRepo, yardRepo)

	// Start monitoring dashboard and route reconciler alerts to it
	if cfg.Monitoring.Enabled {
		monitoringServer := monitoring.NewMonitoringServer(pool, cfg.Monitoring.Port)
		reconcileService.SetAlertSink(monitoringServer)
		go monitoringServer.Start()
	}

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, userRepo)
	corsMiddleware := middleware.NewCORS(cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userService)
	userHandler := handlers.NewUserHandler(userService, adminActionLogRepo)
	totpHandler := handlers.NewTOTPHandler(totpService, userService)
	requestHandler := handlers.NewServiceRequestHandler(requestService, costService, documentService, adminActionLogRepo)
	yardHandler := handlers.NewYardHandler(yardService, adminActionLogRepo)
	forkliftHandler := handlers.NewForkliftHandler(forkliftService)
	repairHandler := handlers.NewRepairHandler(repairService)
	sealHandler := handlers.NewSealHandler(sealService, sealSyncService)
	invoiceHandler := handlers.NewInvoiceHandler(invoiceService, documentService, adminActionLogRepo)
	consistencyHandler := handlers.NewConsistencyHandler(resolverService, reconcileService, adminActionLogRepo)
	reportHandler := handlers.NewReportHandler(reportService)
	priceListHandler := handlers.NewPriceListHandler(priceRepo)
	adminActionLogHandler := handlers.NewAdminActionLogHandler(adminActionLogRepo)
	healthHandler := handlers.NewHealthHandler(healthChecker)

	router := h.NewRouter(
		authHandler,
		userHandler,
		totpHandler,
		requestHandler,
		yardHandler,
		forkliftHandler,
		repairHandler,
		sealHandler,
		invoiceHandler,
		consistencyHandler,
		reportHandler,
		priceListHandler,
		adminActionLogHandler,
		healthHandler,
		authMiddleware,
	)

	handler := middleware.PanicRecovery(corsMiddleware(router))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Server running on %s", addr)
	if err := http.ListenAndServe(addr, handler); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
