package controller

import (
	"net/http"
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type HealthController struct {
	Health *service.HealthService
}

func NewHealthController(health *service.HealthService) *HealthController {
	return &HealthController{Health: health}
}

// @Summary 健康检查
// @Description 检查记录存储与本地缓存的连通性
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response{data=service.HealthReport}
// @Failure 503 {object} util.Response{data=service.HealthReport}
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	report := c.Health.Check(ctx.Request.Context())
	if report.Status != "ok" {
		ctx.JSON(http.StatusServiceUnavailable, util.Response{
			Code:    http.StatusServiceUnavailable,
			Message: "degraded",
			Data:    report,
		})
		return
	}

	util.Success(ctx, report)
}
