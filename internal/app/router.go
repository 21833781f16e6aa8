package app

import (
	"edulearn_backend/docs"
	"edulearn_backend/internal/config"
	"edulearn_backend/internal/middleware"
	"edulearn_backend/internal/util"
	"edulearn_backend/pkg/monitoring"
	"edulearn_backend/pkg/security"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())
	router.GET("/health", c.health.HealthCheck)

	// 1. 公共路由(无需登录)
	a.registerPublicRoutes(router, c, cfg)

	// 2. 管理员相关接口
	a.registerAdminRoutes(router, c, cfg)
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	public := router.Group("/api")
	{
		// 学科 / 分类 / 知识点
		public.GET("/subjects", c.subject.List)
		public.GET("/subjects/:id", c.subject.Get)
		public.GET("/subjects/:id/categories", c.category.ListBySubject)
		public.GET("/subjects/:id/topics", c.topic.ListBySubject)
		public.GET("/subjects/:id/leaderboard", c.progress.Leaderboard)
		public.GET("/categories", c.category.List)
		public.GET("/categories/:id", c.category.Get)
		public.GET("/topics", c.topic.List)
		public.GET("/topics/:id", c.topic.Get)

		// 题目（不含答案）
		public.GET("/questions", c.question.ListPublic)
		public.GET("/questions/random", c.question.Random)

		// 测验会话，按路由单独限流
		tests := public.Group("/tests")
		tests.Use(security.RateLimiter(a.ctx, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute, security.KeyByRoute))
		{
			tests.POST("/start", c.test.Start)
			tests.POST("/:sessionId/submit", c.test.Submit)
			tests.GET("/:sessionId", c.test.Get)
		}

		// 学习记录
		public.POST("/progress", c.progress.Save)
		users := public.Group("/users/:userId")
		{
			users.GET("/tests", c.test.ListByUser)
			users.GET("/progress", c.progress.List)
			users.GET("/progress/stats", c.progress.Stats)
			users.GET("/progress/export", c.progress.Export)
			users.DELETE("/progress/:id", c.progress.Delete)
		}
	}
}

func (a *App) registerAdminRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	admin := router.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(cfg.JWT.Secret), middleware.RoleMiddleware(util.RoleAdmin))
	{
		admin.POST("/subjects", c.subject.Create)
		admin.PUT("/subjects/:id", c.subject.Update)
		admin.DELETE("/subjects/:id", c.subject.Delete)

		admin.POST("/categories", c.category.Create)
		admin.PUT("/categories/:id", c.category.Update)
		admin.DELETE("/categories/:id", c.category.Delete)

		admin.POST("/topics", c.topic.Create)
		admin.PUT("/topics/:id", c.topic.Update)
		admin.DELETE("/topics/:id", c.topic.Delete)

		questions := admin.Group("/questions")
		{
			questions.GET("", c.question.List)
			questions.POST("", c.question.Create)
			questions.POST("/bulk", c.question.CreateBulk)
			questions.POST("/import", c.question.Import)
			questions.GET("/import/template", c.question.ImportTemplate)
			questions.GET("/stats", c.question.Stats)
			questions.GET("/:id", c.question.Get)
			questions.PUT("/:id", c.question.Update)
			questions.DELETE("/:id", c.question.Delete)
			questions.POST("/:id/image", c.question.UploadImage)
		}
	}
}
