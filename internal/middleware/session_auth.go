package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/service"
)

// 上下文键
const (
	ContextMailbox = "mailbox"
	ContextSession = "session"
)

// SessionAuth 邮箱会话认证中间件
//
// 从 Cookie 中取出会话令牌，在数据库中换取对应邮箱。
// 令牌缺失、未知或已过期时统一返回 401，不区分具体原因。
func SessionAuth(sessions *service.SessionService, mailboxes *service.MailboxService, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(service.SessionCookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "请先登录",
			})
			return
		}

		session, err := sessions.Resolve(token)
		if err != nil {
			log.Error("resolve session failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"code": http.StatusInternalServerError,
				"msg":  "服务器内部错误，请稍后重试",
			})
			return
		}
		if session == nil {
			// 会话不存在或已过期，清除客户端 Cookie
			c.SetSameSite(http.SameSiteStrictMode)
			http.SetCookie(c.Writer, sessions.ClearCookie())
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "会话已过期，请重新登录",
			})
			return
		}

		mailbox, err := mailboxes.Get(session.MailboxID)
		if err != nil {
			log.Error("load session mailbox failed", zap.Error(err), zap.Int64("mailbox_id", session.MailboxID))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"code": http.StatusUnauthorized,
				"msg":  "会话已过期，请重新登录",
			})
			return
		}

		c.Set(ContextSession, session)
		c.Set(ContextMailbox, mailbox)
		c.Next()
	}
}
