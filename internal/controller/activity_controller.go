package controller

import (
	"strconv"
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ActivityController struct {
	Activity *service.ActivityService
}

func NewActivityController(activity *service.ActivityService) *ActivityController {
	return &ActivityController{Activity: activity}
}

// Today godoc
// @Summary 今日活动记录
// @Tags 活动
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Success 200 {object} util.Response{data=model.DailyActivity} "今日记录，不存在时各项为 0"
// @Router /api/trainees/{slug}/activity/today [get]
func (c *ActivityController) Today(ctx *gin.Context) {
	record, err := c.Activity.Today(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Increment godoc
// @Summary 累加活动指标
// @Description amount 默认为 1，结果不能小于 0
// @Tags 活动
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param body body service.IncrementRequest true "指标"
// @Success 200 {object} util.Response{data=model.DailyActivity} "今日记录"
// @Router /api/trainees/{slug}/activity/increment [post]
func (c *ActivityController) Increment(ctx *gin.Context) {
	var req service.IncrementRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Activity.Increment(ctx.Request.Context(), ctx.Param("slug"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Set godoc
// @Summary 设置活动指标
// @Tags 活动
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param body body service.SetMetricRequest true "指标"
// @Success 200 {object} util.Response{data=model.DailyActivity} "今日记录"
// @Router /api/trainees/{slug}/activity/metric [put]
func (c *ActivityController) Set(ctx *gin.Context) {
	var req service.SetMetricRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	record, err := c.Activity.Set(ctx.Request.Context(), ctx.Param("slug"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// Week godoc
// @Summary 周活动汇总
// @Tags 活动
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param week query int false "培训周，默认当前周"
// @Success 200 {object} util.Response{data=service.WeekActivity} "周汇总"
// @Router /api/trainees/{slug}/activity/week [get]
func (c *ActivityController) Week(ctx *gin.Context) {
	var index *int
	if raw := ctx.Query("week"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "week must be an integer")
			return
		}
		index = &n
	}

	week, err := c.Activity.Week(ctx.Request.Context(), ctx.Param("slug"), index)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, week)
}

// Scorecard godoc
// @Summary 活动计分卡
// @Description 今日与本周对比标准，含转化漏斗与综合状态。漏斗中 callToBooking、bookingToMeeting、closeRate 为百分比（10 表示 10%），revenuePerUnit 为金额，分母为 0 时为 null
// @Tags 活动
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Success 200 {object} util.Response{data=activity.Scorecard} "计分卡"
// @Router /api/trainees/{slug}/activity/scorecard [get]
func (c *ActivityController) Scorecard(ctx *gin.Context) {
	card, err := c.Activity.Scorecard(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, card)
}
