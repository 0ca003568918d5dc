package app

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/controller"
	"trainee_portal_backend/internal/domain/progress"
	"trainee_portal_backend/internal/repository"
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/database"
	"trainee_portal_backend/pkg/debounce"
	"trainee_portal_backend/pkg/logger"
	"trainee_portal_backend/pkg/monitoring"
	"trainee_portal_backend/pkg/security"
	"trainee_portal_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config  *config.Config
	Router  *gin.Engine
	DB      *gorm.DB
	Redis   *redis.Client
	Content *content.Store

	services *services
	limiters *limiters
	tracer   *sdktrace.TracerProvider
	cancel   context.CancelFunc
}

type repositories struct {
	store      repository.RecordStore
	cache      progressCache
	submission *repository.SubmissionRepository
	progress   *repository.ProgressRepository
	activity   *repository.ActivityRepository
}

// progressCache 本地快照缓存，同时参与健康检查
type progressCache interface {
	progress.LocalCache
	service.Pinger
}

type services struct {
	auth         *service.AuthService
	notification *service.NotificationService
	exam         *service.ExamService
	progress     *service.ProgressService
	activity     *service.ActivityService
	dashboard    *service.DashboardService
	storage      *service.StorageService
	export       *service.ExportService
	health       *service.HealthService
}

type controllers struct {
	auth      *controller.AuthController
	content   *controller.ContentController
	exam      *controller.ExamController
	progress  *controller.ProgressController
	activity  *controller.ActivityController
	dashboard *controller.DashboardController
	health    *controller.HealthController
}

type limiters struct {
	api  *security.Limiter
	gate *security.Limiter
}

func (a *App) initRepositories(store repository.RecordStore, cache progressCache) *repositories {
	tables := a.Config.Airtable
	return &repositories{
		store:      store,
		cache:      cache,
		submission: repository.NewSubmissionRepository(store, tables.SubmissionTable),
		progress:   repository.NewProgressRepository(store, tables.ProgressTable),
		activity:   repository.NewActivityRepository(store, tables.ActivityTable),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.auth = service.NewAuthService(a.Content, cfg)
	s.notification = service.NewNotificationService(service.NewSender(cfg.SMTP), cfg.Notification)
	s.exam = service.NewExamService(a.Content, repos.submission, s.notification)
	s.progress = service.NewProgressService(cfg.Sync, a.Content, repos.cache, repos.progress,
		debounce.RealClock(), cfg.Store.TimeoutSeconds)
	s.activity = service.NewActivityService(a.Content, repos.activity)
	s.dashboard = service.NewDashboardService(a.Content, repos.activity, cfg.Dashboard.RefreshSeconds)
	s.storage = service.NewStorageService(cfg)
	s.export = service.NewExportService(a.Content, s.exam, s.storage)
	s.health = service.NewHealthService(map[string]service.Pinger{
		"store": repos.store,
		"cache": repos.cache,
	})

	return s
}

func (a *App) initControllers(s *services) *controllers {
	return &controllers{
		auth:      controller.NewAuthController(s.auth),
		content:   controller.NewContentController(a.Content),
		exam:      controller.NewExamController(s.exam),
		progress:  controller.NewProgressController(s.progress),
		activity:  controller.NewActivityController(s.activity),
		dashboard: controller.NewDashboardController(s.progress, s.dashboard, s.exam, s.export, s.activity),
		health:    controller.NewHealthController(s.health),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(gin.Recovery())
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(a.limiters.api.Middleware())

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(ctx context.Context, cfg *config.Config) {
	if cfg.Dashboard.RefreshSeconds > 0 {
		go a.services.dashboard.Run(ctx, cfg.Dashboard.RefreshSeconds)
	}
	go a.limiters.api.Run(ctx.Done())
	go a.limiters.gate.Run(ctx.Done())

	if cfg.Content.Watch {
		go a.Content.Watch(ctx)
	}
}

// openRecordStore 按 store.type 选择远端记录存储
func (a *App) openRecordStore(cfg *config.Config) (repository.RecordStore, error) {
	switch cfg.Store.Type {
	case util.StoreAirtable:
		return repository.NewAirtableStore(cfg.Airtable, cfg.Store.TimeoutSeconds), nil
	case util.StoreSQL:
		db, err := database.InitDB(&cfg.Database, cfg.Server.Mode == "debug")
		if err != nil {
			return nil, fmt.Errorf("initialize database: %w", err)
		}
		a.DB = db
		return repository.NewGormStore(db), nil
	case util.StoreMemory:
		logger.Log.Warn("Using in-memory record store, data is lost on restart")
		return repository.NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown store type %q", cfg.Store.Type)
	}
}

func (a *App) openProgressCache(cfg *config.Config) (progressCache, error) {
	if !cfg.Redis.Enabled {
		return repository.NewMemoryProgressCache(), nil
	}
	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		return nil, fmt.Errorf("initialize redis: %w", err)
	}
	a.Redis = rdb
	return repository.NewRedisProgressCache(rdb, time.Duration(cfg.Redis.TTLHours)*time.Hour), nil
}

// New 组装依赖与路由，不启动 HTTP 服务
func New(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	contentStore, err := content.NewStore(cfg.Content.Path)
	if err != nil {
		return nil, fmt.Errorf("load training content: %w", err)
	}
	app.Content = contentStore

	store, err := app.openRecordStore(cfg)
	if err != nil {
		return nil, err
	}
	if cfg.MigrateOnly {
		return app, nil
	}

	cache, err := app.openProgressCache(cfg)
	if err != nil {
		return nil, err
	}

	repos := app.initRepositories(store, cache)
	app.services = app.initServices(repos, cfg)
	controllers := app.initControllers(app.services)

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	app.limiters = &limiters{
		api:  security.NewLimiter("api", cfg.RateLimit.MaxRequests, window),
		gate: security.NewLimiter("gate", cfg.RateLimit.GateMaxRequests, window),
	}

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("trainee-portal", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return nil, fmt.Errorf("initialize tracing: %w", err)
		}
		app.tracer = tp
	}

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	app.cancel = cancel
	app.startBackgroundTasks(ctx, cfg)

	return app, nil
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	app, err := New(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize application", zap.Error(err))
		log.Fatalf("Failed to initialize application: %v", err)
	}
	return app
}

// Shutdown 停止后台任务，推送未完成的进度写入并等待通知发送完毕
func (a *App) Shutdown(ctx context.Context) {
	if a.cancel != nil {
		a.cancel()
	}
	if a.services != nil {
		a.services.progress.Flush()
		a.services.notification.Wait()
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("listen", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置10秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}
	a.Shutdown(ctx)

	logger.Log.Info("Server exiting")
}
