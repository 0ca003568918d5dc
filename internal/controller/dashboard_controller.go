package controller

import (
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// DashboardController 主口令访问的管理看板
type DashboardController struct {
	Progress  *service.ProgressService
	Dashboard *service.DashboardService
	Exams     *service.ExamService
	Export    *service.ExportService
	Activity  *service.ActivityService
}

func NewDashboardController(
	progress *service.ProgressService,
	dashboard *service.DashboardService,
	exams *service.ExamService,
	export *service.ExportService,
	activity *service.ActivityService,
) *DashboardController {
	return &DashboardController{
		Progress:  progress,
		Dashboard: dashboard,
		Exams:     exams,
		Export:    export,
		Activity:  activity,
	}
}

// ProgressOverview godoc
// @Summary 全部学员进度
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.ProgressSnapshot} "远端进度"
// @Failure 403 {object} util.Response "需要主口令"
// @Router /api/admin/progress [get]
func (c *DashboardController) ProgressOverview(ctx *gin.Context) {
	list, err := c.Progress.Overview(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// Performance godoc
// @Summary 学员绩效汇总
// @Description 今日与本周综合达成率，周期刷新
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param refresh query bool false "立即重新计算"
// @Success 200 {object} util.Response{data=service.PerformanceSummary} "汇总"
// @Router /api/admin/performance [get]
func (c *DashboardController) Performance(ctx *gin.Context) {
	if ctx.Query("refresh") == "true" {
		util.Success(ctx, c.Dashboard.Refresh(ctx.Request.Context()))
		return
	}
	util.Success(ctx, c.Dashboard.Summary(ctx.Request.Context()))
}

// ExamResults godoc
// @Summary 考试成绩列表
// @Description 按学员和考试筛选，最新在前
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param trainee query string false "学员slug"
// @Param exam query string false "考试ID"
// @Success 200 {object} util.Response{data=[]model.ExamSubmission} "成绩"
// @Router /api/admin/exam-results [get]
func (c *DashboardController) ExamResults(ctx *gin.Context) {
	list, err := c.Exams.ListResults(ctx.Request.Context(), ctx.Query("trainee"), ctx.Query("exam"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// ExportResults godoc
// @Summary 导出考试成绩 CSV
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param trainee query string false "学员slug"
// @Param exam query string false "考试ID"
// @Success 201 {object} util.Response{data=service.ExportResult} "导出文件"
// @Failure 503 {object} util.Response "存储不可用"
// @Router /api/admin/exam-results/export [post]
func (c *DashboardController) ExportResults(ctx *gin.Context) {
	result, err := c.Export.ExportResults(ctx.Request.Context(), ctx.Query("trainee"), ctx.Query("exam"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, result)
}

// ListExports godoc
// @Summary 历史导出文件
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.StoredFile} "最新在前，链接有时效"
// @Router /api/admin/exam-results/exports [get]
func (c *DashboardController) ListExports(ctx *gin.Context) {
	files, err := c.Export.ListExports(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, files)
}

// ActivityLog godoc
// @Summary 活动记录列表
// @Tags 管理
// @Produce json
// @Security ApiKeyAuth
// @Param trainee query string false "学员slug"
// @Success 200 {object} util.Response{data=[]model.DailyActivity} "按日期倒序"
// @Router /api/admin/activity [get]
func (c *DashboardController) ActivityLog(ctx *gin.Context) {
	list, err := c.Activity.List(ctx.Request.Context(), ctx.Query("trainee"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, list)
}
