package app

import (
	"trainee_portal_backend/docs"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/middleware"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 1. 公共路由(无需口令)
	a.registerPublicRoutes(router, c)

	// 2. 需要口令的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.RequestLogger())
	{
		authGroup.GET("/auth/session", c.auth.Session)

		content := authGroup.Group("/content")
		{
			content.GET("/modules", c.content.ListModules)
			content.GET("/modules/:moduleId", c.content.GetModule)
			content.GET("/program", c.content.GetProgram)
		}

		// 学员口令仅能访问自己的 slug
		a.registerTraineeRoutes(authGroup.Group("/trainees/:slug", middleware.RequireTraineeAccess("slug")), c)

		// 管理端接口需要主口令
		a.registerAdminRoutes(authGroup.Group("/admin", middleware.RequireMaster()), c)
	}

	// 本地存储的导出文件，支持 ?token= 下载
	if cfg.Storage.Type == util.StorageLocal {
		files := router.Group("/files", middleware.AuthMiddleware(cfg), middleware.RequireMaster())
		files.Static("/", cfg.Storage.LocalPath)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.GET("/trainees", c.content.ListTrainees)
		public.POST("/auth/gate", a.limiters.gate.Middleware(), c.auth.Gate)
	}
}

func (a *App) registerTraineeRoutes(trainee *gin.RouterGroup, c *controllers) {
	progress := trainee.Group("/progress")
	{
		progress.GET("", c.progress.Load)
		progress.POST("/items", c.progress.ToggleItem)
		progress.PUT("/notes", c.progress.UpdateNote)
		progress.POST("/reset", c.progress.Reset)
		progress.GET("/status", c.progress.Status)
	}

	trainee.GET("/modules/:moduleId/exam", c.exam.GetModuleExam)
	exams := trainee.Group("/exams/:examId")
	{
		exams.GET("", c.exam.GetExam)
		exams.GET("/attempts", c.exam.Attempts)
		exams.POST("/submissions", c.exam.Submit)
	}

	activity := trainee.Group("/activity")
	{
		activity.GET("/today", c.activity.Today)
		activity.POST("/increment", c.activity.Increment)
		activity.PUT("/metric", c.activity.Set)
		activity.GET("/week", c.activity.Week)
		activity.GET("/scorecard", c.activity.Scorecard)
	}
}

func (a *App) registerAdminRoutes(admin *gin.RouterGroup, c *controllers) {
	admin.GET("/progress", c.dashboard.ProgressOverview)
	admin.GET("/performance", c.dashboard.Performance)
	admin.GET("/exam-results", c.dashboard.ExamResults)
	admin.POST("/exam-results/export", c.dashboard.ExportResults)
	admin.GET("/exam-results/exports", c.dashboard.ListExports)
	admin.GET("/activity", c.dashboard.ActivityLog)
}
