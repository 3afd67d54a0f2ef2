package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/palko-app/rentmanager/internal/apiserver/database"
	"github.com/palko-app/rentmanager/internal/apiserver/handler"
	"github.com/palko-app/rentmanager/internal/apiserver/middleware"
	"github.com/palko-app/rentmanager/internal/apiserver/service"
	"github.com/palko-app/rentmanager/internal/auth/jwt"
	"github.com/palko-app/rentmanager/internal/common/config"
	"github.com/palko-app/rentmanager/internal/exchange"
	"github.com/palko-app/rentmanager/internal/notifier"
	"github.com/palko-app/rentmanager/internal/storage"
	pkglogger "github.com/palko-app/rentmanager/pkg/logger"
	"github.com/palko-app/rentmanager/pkg/metrics"
	"github.com/palko-app/rentmanager/pkg/version"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of apiserver",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("apiserver version %s\n", version.Get())
		},
	}

	setupCmd = &cobra.Command{
		Use:   "setup",
		Short: "Seed the database with initial catalog data and the super admin account",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetup()
		},
	}

	rootCmd = &cobra.Command{
		Use:   "apiserver",
		Short: "Rent Manager API Server",
		Long:  `Rent Manager API Server provides the back-office and tenant portal API for a rental property`,
		Run: func(cmd *cobra.Command, args []string) {
			run()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "conf", "apiserver.yaml", "path to configuration file")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(setupCmd)
}

func runSetup() error {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	fmt.Printf("Using configuration file: %s\n", cfgPath)

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	return database.SeedInitialData(context.Background(), db, cfg.SuperAdmin, os.Stdout)
}

func run() {
	cfg, cfgPath, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := pkglogger.NewLogger(&cfg.Logger)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting apiserver",
		zap.String("version", version.Get()),
		zap.String("config", cfgPath))

	loc, err := time.LoadLocation(cfg.App.TimeZone)
	if err != nil {
		logger.Fatal("Invalid time zone", zap.String("time_zone", cfg.App.TimeZone), zap.Error(err))
	}

	db, err := database.NewDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.Close()

	jwtService, err := jwt.NewService(jwt.Config{
		SecretKey: cfg.JWT.SecretKey,
		Duration:  cfg.JWT.Duration,
	})
	if err != nil {
		logger.Fatal("Failed to initialize JWT service", zap.Error(err))
	}

	blob, err := storage.NewStore(context.Background(), &cfg.Blob)
	if err != nil {
		logger.Fatal("Failed to initialize blob store", zap.Error(err))
	}

	converter, err := exchange.NewFixedRate(cfg.Exchange.FixedRate)
	if err != nil {
		logger.Fatal("Invalid exchange rate", zap.Error(err))
	}

	var notify notifier.Notifier = &notifier.Noop{}
	if cfg.Mail.Enabled {
		notify = notifier.NewSMTPNotifier(cfg.Mail, logger)
	}

	billingSvc := service.NewBillingService(db, loc)
	readingSvc := service.NewReadingService(db, notify, cfg.App.AdminEmail, loc, logger)

	authHandler := handler.NewAuthHandler(db, jwtService)
	adminHandler := handler.NewAdminHandler(db, blob, converter, logger)
	portalHandler := handler.NewPortalHandler(db, billingSvc, readingSvc, blob, converter, logger)

	m := metrics.New("rentmanager")

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(m.GinMiddleware())
	registerRoutes(router, db, jwtService, m, authHandler, adminHandler, portalHandler)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}
	logger.Info("Server exited")
}

func registerRoutes(
	router *gin.Engine,
	db database.Database,
	jwtService *jwt.Service,
	m *metrics.Metrics,
	authHandler *handler.AuthHandler,
	adminHandler *handler.AdminHandler,
	portalHandler *handler.PortalHandler,
) {
	router.GET("/metrics", m.Handler())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "version": version.Get()})
	})

	auth := router.Group("/api/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.GET("/me", middleware.JWTAuthMiddleware(jwtService), authHandler.CurrentUser)
		auth.POST("/change-password", middleware.JWTAuthMiddleware(jwtService), authHandler.ChangePassword)
	}

	admin := router.Group("/api/admin",
		middleware.JWTAuthMiddleware(jwtService),
		middleware.AdminOnly())
	{
		admin.GET("/users", adminHandler.ListUsers)
		admin.POST("/users", adminHandler.CreateUser)
		admin.PUT("/users/:id", adminHandler.UpdateUser)
		admin.DELETE("/users/:id", adminHandler.DeleteUser)

		admin.GET("/tenants", adminHandler.ListTenants)
		admin.PUT("/tenants/:id", adminHandler.UpdateTenant)

		admin.GET("/agreements", adminHandler.ListAgreements)
		admin.POST("/agreements", adminHandler.CreateAgreement)
		admin.PUT("/agreements/:id", adminHandler.UpdateAgreement)
		admin.DELETE("/agreements/:id", adminHandler.DeleteAgreement)

		admin.GET("/payments", adminHandler.ListPayments)
		admin.POST("/payments", adminHandler.CreatePayment)
		admin.PUT("/payments/:id", adminHandler.UpdatePayment)
		admin.DELETE("/payments/:id", adminHandler.DeletePayment)
		admin.GET("/payments/convert", adminHandler.ConvertRent)

		admin.GET("/bills", adminHandler.ListBills)
		admin.POST("/bills", adminHandler.CreateBill)
		admin.PUT("/bills/:id", adminHandler.UpdateBill)
		admin.DELETE("/bills/:id", adminHandler.DeleteBill)
		admin.POST("/bills/:id/file", adminHandler.UploadBillFile)

		admin.GET("/utility-types", adminHandler.ListUtilityTypes)
		admin.POST("/utility-types", adminHandler.CreateUtilityType)
		admin.PUT("/utility-types/:id", adminHandler.UpdateUtilityType)
		admin.DELETE("/utility-types/:id", adminHandler.DeleteUtilityType)

		admin.GET("/meter-types", adminHandler.ListMeterTypes)
		admin.POST("/meter-types", adminHandler.CreateMeterType)
		admin.PUT("/meter-types/:id", adminHandler.UpdateMeterType)
		admin.DELETE("/meter-types/:id", adminHandler.DeleteMeterType)

		admin.GET("/readings", adminHandler.ListReadings)
		admin.POST("/readings/:id/processed", adminHandler.MarkReadingProcessed)

		admin.GET("/settings", adminHandler.ListSettings)
		admin.PUT("/settings", adminHandler.UpsertSetting)
	}

	portal := router.Group("/api/portal",
		middleware.JWTAuthMiddleware(jwtService),
		middleware.TenantGate(db))
	{
		portal.GET("/dashboard", portalHandler.Dashboard)
		portal.GET("/rent", portalHandler.RentStatus)
		portal.GET("/bills", portalHandler.UtilityBills)
		portal.GET("/bills/:id/file", portalHandler.DownloadBill)
		portal.GET("/meters", portalHandler.Meters)
		portal.POST("/meters/readings", portalHandler.SubmitReading)
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
