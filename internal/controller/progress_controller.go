package controller

import (
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Progress *service.ProgressService
}

func NewProgressController(progress *service.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

// Load godoc
// @Summary 加载清单进度
// @Description 本地缓存与远端记录按最后更新时间对齐后返回
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Success 200 {object} util.Response{data=service.ProgressView} "进度"
// @Router /api/trainees/{slug}/progress [get]
func (c *ProgressController) Load(ctx *gin.Context) {
	view, err := c.Progress.Load(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// ToggleItem godoc
// @Summary 勾选/取消清单条目
// @Tags 进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param body body service.ToggleItemRequest true "条目"
// @Success 200 {object} util.Response{data=service.ProgressView} "进度"
// @Router /api/trainees/{slug}/progress/items [post]
func (c *ProgressController) ToggleItem(ctx *gin.Context) {
	var req service.ToggleItemRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Progress.ToggleItem(ctx.Request.Context(), ctx.Param("slug"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// UpdateNote godoc
// @Summary 更新模块笔记
// @Tags 进度
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Param body body service.UpdateNoteRequest true "笔记"
// @Success 200 {object} util.Response{data=service.ProgressView} "进度"
// @Router /api/trainees/{slug}/progress/notes [put]
func (c *ProgressController) UpdateNote(ctx *gin.Context) {
	var req service.UpdateNoteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	view, err := c.Progress.UpdateNote(ctx.Request.Context(), ctx.Param("slug"), req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Reset godoc
// @Summary 清空进度
// @Description 同步写入本地与远端，并取消尚未执行的延迟写入
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Success 200 {object} util.Response{data=service.ProgressView} "进度"
// @Failure 503 {object} util.Response "远端写入失败，已保留待同步"
// @Router /api/trainees/{slug}/progress/reset [post]
func (c *ProgressController) Reset(ctx *gin.Context) {
	view, err := c.Progress.Reset(ctx.Request.Context(), ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, view)
}

// Status godoc
// @Summary 同步状态
// @Tags 进度
// @Produce json
// @Security ApiKeyAuth
// @Param slug path string true "学员slug"
// @Success 200 {object} util.Response "synced / syncing"
// @Router /api/trainees/{slug}/progress/status [get]
func (c *ProgressController) Status(ctx *gin.Context) {
	status, err := c.Progress.Status(ctx.Param("slug"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, status)
}
