package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tonyliuzj/mailsy/internal/auth"
	"github.com/tonyliuzj/mailsy/internal/service"
)

// AdminCookieName 管理员登录态 Cookie 名称
const AdminCookieName = "mailsy_admin_token"

// ContextAdminUsername 管理员用户名的上下文键
const ContextAdminUsername = "adminUsername"

// AdminPathGuard 校验请求路径中的管理入口段
//
// 管理接口挂载在 /api/:adminPath 之下，入口段可在后台修改。
// 路径段不匹配当前配置时返回 404，对外表现与不存在的路由一致。
func AdminPathGuard(settings *service.SettingsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Param("adminPath") != settings.AdminPath() {
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{
				"code": http.StatusNotFound,
				"msg":  "请求的资源不存在",
			})
			return
		}
		c.Next()
	}
}

// AdminAuth 管理员 JWT 认证中间件
func AdminAuth(jwtManager *auth.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(AdminCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "请先登录",
			})
			return
		}

		claims, err := jwtManager.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "登录已失效，请重新登录",
			})
			return
		}

		c.Set(ContextAdminUsername, claims.Username)
		c.Next()
	}
}
