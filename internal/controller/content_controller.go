package controller

import (
	"trainee_portal_backend/internal/content"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ContentController struct {
	Content *content.Store
}

func NewContentController(contentStore *content.Store) *ContentController {
	return &ContentController{Content: contentStore}
}

// ListTrainees godoc
// @Summary 学员列表
// @Description 门禁页选择学员使用，仅返回姓名与 slug
// @Tags 内容
// @Produce json
// @Success 200 {object} util.Response "学员列表"
// @Router /api/trainees [get]
func (c *ContentController) ListTrainees(ctx *gin.Context) {
	catalog := c.Content.Current()
	list := make([]gin.H, 0, len(catalog.Trainees))
	for _, t := range catalog.Trainees {
		list = append(list, gin.H{"name": t.Name, "slug": t.Slug, "startDate": t.StartDate})
	}
	util.Success(ctx, list)
}

// ListModules godoc
// @Summary 培训模块列表
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Module} "模块列表"
// @Router /api/content/modules [get]
func (c *ContentController) ListModules(ctx *gin.Context) {
	util.Success(ctx, c.Content.Current().Modules)
}

// GetModule godoc
// @Summary 模块详情
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Param moduleId path string true "模块ID"
// @Success 200 {object} util.Response{data=model.Module} "模块详情"
// @Failure 404 {object} util.Response "模块不存在"
// @Router /api/content/modules/{moduleId} [get]
func (c *ContentController) GetModule(ctx *gin.Context) {
	module, err := c.Content.Current().Module(ctx.Param("moduleId"))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, module)
}

// GetProgram godoc
// @Summary 培训周与每日标准
// @Tags 内容
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "培训周安排"
// @Router /api/content/program [get]
func (c *ContentController) GetProgram(ctx *gin.Context) {
	catalog := c.Content.Current()
	util.Success(ctx, gin.H{
		"timezone": catalog.Location.String(),
		"weeks":    catalog.Calendar.Weeks(),
		"maxCalls": catalog.Calendar.MaxCalls(),
	})
}
