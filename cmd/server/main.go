package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/bitfantasy/mantenix/internal/config"
	"github.com/bitfantasy/mantenix/internal/gmao/entity"
	"github.com/bitfantasy/mantenix/internal/gmao/handler"
	"github.com/bitfantasy/mantenix/internal/gmao/repository"
	"github.com/bitfantasy/mantenix/internal/gmao/service"
	"github.com/bitfantasy/mantenix/internal/middleware"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting mantenix service",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)

	db, err := initDatabase(cfg.Database)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if err := autoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to migrate database", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	if err := seedAdminUser(db, zapLogger); err != nil {
		zapLogger.Warn("Admin user seed warning", zap.Error(err))
	}

	rdb := initRedis(cfg.Redis)

	repos := repository.NewRepositories(db)

	authSvc := service.NewAuthService(repos.User, rdb, cfg.JWT)
	userSvc := service.NewUserService(repos.User)
	clientSvc := service.NewClientService(repos.Client, repos.Site)
	equipmentSvc := service.NewEquipmentService(repos.Equipment, repos.Site)
	requestSvc := service.NewRequestService(repos.Request, repos.Equipment, repos.User, repos.Novelty)
	orderSvc := service.NewOrderService(repos.Order, repos.Request, repos.Novelty)
	visitSvc := service.NewVisitService(repos.Visit, repos.Order, repos.User, repos.Novelty)
	quotationSvc := service.NewQuotationService(repos.Quotation, repos.Client, repos.Order, repos.Novelty)
	warehouseSvc := service.NewWarehouseService(repos.Warehouse, repos.Client, repos.Order, repos.Novelty)
	decommissionSvc := service.NewDecommissionService(repos.Decommission, repos.Equipment, repos.Novelty)
	noveltySvc := service.NewNoveltyService(repos.Novelty)
	dashboardSvc := service.NewDashboardService(repos)
	exportSvc := service.NewExportService(repos.Request, repos.Order, repos.Warehouse, cfg.Export.MaxRows)

	handlers := handler.NewHandlers(
		authSvc, userSvc, clientSvc, equipmentSvc,
		requestSvc, orderSvc, visitSvc, quotationSvc,
		warehouseSvc, decommissionSvc, noveltySvc, dashboardSvc, exportSvc,
	)

	var loginLimiter middleware.RateLimiter
	if cfg.RateLimit.Enabled {
		loginLimiter = middleware.NewRedisRateLimiter(rdb, "ratelimit:login", cfg.RateLimit.Limit, cfg.RateLimit.Window)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(zapLogger))
	router.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	registerRoutes(router, handlers, authSvc, repos, cfg, loginLimiter, zapLogger)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level := zap.InfoLevel
	switch cfg.Level {
	case "debug":
		level = zap.DebugLevel
	case "warn":
		level = zap.WarnLevel
	case "error":
		level = zap.ErrorLevel
	}

	if cfg.Output == "file" && cfg.FilePath != "" {
		writer := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.MaxSize,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAge,
			Compress:   cfg.Compress,
		})
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), writer, level)
		return zap.New(core, zap.AddCaller()), nil
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

func initDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	return db, nil
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Client{},
		&entity.Site{},
		&entity.Equipment{},
		&entity.Request{},
		&entity.Order{},
		&entity.Visit{},
		&entity.Quotation{},
		&entity.WarehouseRequest{},
		&entity.WarehousePart{},
		&entity.WarehouseExtra{},
		&entity.DecommissionRequest{},
		&entity.Novelty{},
	)
}

// seedAdminUser creates the bootstrap admin account on an empty usuarios
// table. The initial password comes from ADMIN_PASSWORD and must be rotated
// after first login.
func seedAdminUser(db *gorm.DB, zapLogger *zap.Logger) error {
	var count int64
	if err := db.Model(&entity.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := config.GetEnvOrDefault("ADMIN_PASSWORD", "")
	if password == "" {
		zapLogger.Warn("ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := &entity.User{
		ID:     uuid.New().String()[:32],
		Nombre: "Administrador",
		Email:  config.GetEnvOrDefault("ADMIN_EMAIL", "admin@mantenix.local"),
		Clave:  string(hash),
		Rol:    entity.RolAdmin,
		Activo: true,
	}
	if err := db.Create(admin).Error; err != nil {
		return err
	}
	zapLogger.Info("Admin user seeded", zap.String("email", admin.Email))
	return nil
}
