package middleware

import (
	"strings"
	"trainee_portal_backend/internal/config"
	"trainee_portal_backend/internal/model"
	"trainee_portal_backend/internal/util"
	"trainee_portal_backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const claimsKey = "claims"

// AuthMiddleware 校验门禁签发的 JWT；导出文件下载等场景允许 ?token=
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		if authHeader := c.GetHeader("Authorization"); authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			logger.Log.Debug("JWT rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireMaster 仅主口令可访问的管理端接口
func RequireMaster() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetClaimsFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if claims.Role != model.RoleMaster {
			util.HandleError(c, util.PermissionDeniedf("master password required"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireTraineeAccess 学员口令只能访问路径参数 param 对应的学员
func RequireTraineeAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := util.GetClaimsFromContext(c)
		if claims == nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}
		if !claims.CanAccessTrainee(c.Param(param)) {
			util.HandleError(c, util.PermissionDeniedf("trainee %q", c.Param(param)))
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequestLogger 使用 zap 记录访问日志
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if c.Writer.Status() >= 500 {
			logger.Log.Warn("Request failed",
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", c.Writer.Status()),
				zap.String("ip", c.ClientIP()))
			return
		}
		logger.Log.Debug("Request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()))
	}
}
