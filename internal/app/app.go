package app

import (
	"context"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/controller"
	"edulearn_backend/internal/repository"
	"edulearn_backend/internal/service"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/configwatcher"
	"edulearn_backend/pkg/database"
	"edulearn_backend/pkg/logger"
	"edulearn_backend/pkg/monitoring"
	"edulearn_backend/pkg/security"
	"edulearn_backend/pkg/tracing"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	configCallbacks []func(*config.Config)

	// 后台协程（限流清理等）随 Close 退出
	ctx    context.Context
	cancel context.CancelFunc
}

type repositories struct {
	subject     *repository.SubjectRepository
	category    *repository.CategoryRepository
	topic       *repository.TopicRepository
	question    *repository.QuestionRepository
	session     *repository.TestSessionRepository
	progress    *repository.ProgressRepository
	recent      repository.RecentQuestionStore
	leaderboard repository.LeaderboardStore
}

type services struct {
	settings *service.QuizSettings
	storage  *service.StorageService
	subject  *service.SubjectService
	category *service.CategoryService
	topic    *service.TopicService
	question *service.QuestionService
	quiz     *service.QuizService
	progress *service.ProgressService
	seed     *service.SeedService
}

type controllers struct {
	subject  *controller.SubjectController
	category *controller.CategoryController
	topic    *controller.TopicController
	question *controller.QuestionController
	test     *controller.TestController
	progress *controller.ProgressController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// initRepositories 未启用 Redis 时近期题目由会话记录推导，排行榜停用
func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client, settings repository.QuizSettingsFunc) *repositories {
	repos := &repositories{
		subject:  repository.NewSubjectRepository(db),
		category: repository.NewCategoryRepository(db),
		topic:    repository.NewTopicRepository(db),
		question: repository.NewQuestionRepository(db),
		session:  repository.NewTestSessionRepository(db),
		progress: repository.NewProgressRepository(db),
	}

	if rdb != nil {
		repos.recent = repository.NewRecentQuestionCache(rdb, settings)
		repos.leaderboard = repository.NewLeaderboardRepository(rdb)
	} else {
		repos.recent = repository.NewSessionRecentQuestions(repos.session, settings)
	}
	return repos
}

func (a *App) initServices(repos *repositories, settings *service.QuizSettings, cfg *config.Config) *services {
	s := &services{settings: settings}
	shuffler := service.NewShuffler(0)

	s.storage = service.NewStorageService(&cfg.Storage)
	s.subject = service.NewSubjectService(repos.subject)
	s.category = service.NewCategoryService(repos.category, repos.subject)
	s.topic = service.NewTopicService(repos.topic, repos.subject, repos.category)
	s.question = service.NewQuestionService(repos.question, repos.subject, repos.category, repos.topic, s.storage, settings.Get, shuffler)
	s.quiz = service.NewQuizService(repos.question, repos.session, repos.subject, repos.topic, repos.recent, repos.leaderboard, settings.Get, shuffler)
	s.progress = service.NewProgressService(repos.progress, repos.leaderboard)
	s.seed = service.NewSeedService(s.subject, s.category, s.topic, s.question)
	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		subject:  controller.NewSubjectController(s.subject),
		category: controller.NewCategoryController(s.category),
		topic:    controller.NewTopicController(s.topic),
		question: controller.NewQuestionController(s.question),
		test:     controller.NewTestController(s.quiz),
		progress: controller.NewProgressController(s.progress),
		health:   controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, security.KeyByClientIP))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// NewApp 初始化数据库、Redis 与全部组件，失败时直接退出
func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	if cfg.MigrateOnly || cfg.ForceMigrate || cfg.Server.Mode == gin.DebugMode {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := newApp(cfg, db, rdb)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(tracing.ServiceName, cfg.Tracing.CollectorEndpoint, cfg.Tracing.SampleRatio)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	return app
}

func newApp(cfg *config.Config, db *gorm.DB, rdb *redis.Client) *App {
	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}
	app.ctx, app.cancel = context.WithCancel(context.Background())

	settings := service.NewQuizSettings(cfg.Quiz)
	repos := app.initRepositories(db, rdb, settings.Get)
	app.services = app.initServices(repos, settings, cfg)
	controllers := app.initControllers(app.services, db, rdb)

	// 监控初始化
	monitoring.Init()

	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.RegisterConfigCallback(app.applyQuizConfig)
	return app
}

// applyQuizConfig 热更新出题配置与日志级别，非法配置忽略
func (a *App) applyQuizConfig(cfg *config.Config) {
	if err := cfg.Validate(); err != nil {
		logger.Log.Warn("Ignoring invalid config", zap.Error(err))
		return
	}
	a.services.settings.Set(cfg.Quiz)
	logger.SetMode(cfg.Server.Mode)
	logger.Log.Info("Quiz settings updated",
		zap.Int("defaultQuestionCount", cfg.Quiz.DefaultQuestionCount),
		zap.Int("maxQuestionCount", cfg.Quiz.MaxQuestionCount),
		zap.Int("sessionTTLMinutes", cfg.Quiz.SessionTTLMinutes),
	)
}

func (a *App) reload(cfg *config.Config) {
	for _, cb := range a.configCallbacks {
		cb(cfg)
	}
}

// Seed 导入 YAML 题库文件
func (a *App) Seed(ctx context.Context, path string) (*service.SeedResult, error) {
	file, err := service.LoadSeedFile(path)
	if err != nil {
		return nil, err
	}
	return a.services.seed.Seed(ctx, file)
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if a.Config.Server.WatchConfig && a.Config.ConfigPath != "" {
		if err := configwatcher.Watch(ctx, a.Config.ConfigPath, a.reload); err != nil {
			logger.Log.Warn("Config hot reload disabled", zap.Error(err))
		}
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("listen failed", zap.Error(err))
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close(shutdownCtx)
	logger.Log.Info("Server exiting")
}

// Close 释放数据库、Redis 与 tracer
func (a *App) Close(ctx context.Context) {
	a.cancel()
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			logger.Log.Error("Failed to close redis", zap.Error(err))
		}
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
	_ = logger.Log.Sync()
}
