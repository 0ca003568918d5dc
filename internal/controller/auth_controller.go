package controller

import (
	"trainee_portal_backend/internal/service"
	"trainee_portal_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Gate godoc
// @Summary 口令门禁
// @Description 主口令可访问全部学员与管理页；学员口令仅可访问本人页面
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.GateRequest true "口令"
// @Success 200 {object} util.Response{data=service.GateResult} "解锁成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "口令错误"
// @Failure 429 {object} util.Response "尝试过于频繁"
// @Router /api/auth/gate [post]
func (c *AuthController) Gate(ctx *gin.Context) {
	var req service.GateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.AuthService.Unlock(req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Session godoc
// @Summary 当前会话
// @Description 返回当前令牌的角色与学员
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "会话信息"
// @Failure 401 {object} util.Response "未授权"
// @Router /api/auth/session [get]
func (c *AuthController) Session(ctx *gin.Context) {
	claims := util.GetClaimsFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	util.Success(ctx, gin.H{
		"role":        claims.Role,
		"traineeSlug": claims.TraineeSlug,
		"expiresAt":   claims.ExpiresAt,
	})
}
