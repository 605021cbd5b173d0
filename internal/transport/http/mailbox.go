package httptransport

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/middleware"
	"github.com/tonyliuzj/mailsy/internal/monitoring"
	"github.com/tonyliuzj/mailsy/internal/service"
	"github.com/tonyliuzj/mailsy/internal/turnstile"
)

// MailboxHandler 处理邮箱账户的创建、登录和账户操作
type MailboxHandler struct {
	mailboxes *service.MailboxService
	sessions  *service.SessionService
	settings  *service.SettingsService
	verifier  *turnstile.Verifier
	metrics   *monitoring.Metrics
	log       *zap.Logger
}

// NewMailboxHandler 创建邮箱处理器
func NewMailboxHandler(
	mailboxes *service.MailboxService,
	sessions *service.SessionService,
	settings *service.SettingsService,
	verifier *turnstile.Verifier,
	metrics *monitoring.Metrics,
	log *zap.Logger,
) *MailboxHandler {
	return &MailboxHandler{
		mailboxes: mailboxes,
		sessions:  sessions,
		settings:  settings,
		verifier:  verifier,
		metrics:   metrics,
		log:       log,
	}
}

// CheckEmailRequest 检查邮箱地址是否已被占用
type CheckEmailRequest struct {
	Address string `json:"address" binding:"required"`
}

// CheckEmail 检查邮箱地址是否可用
// POST /api/check-email
func (h *MailboxHandler) CheckEmail(c *gin.Context) {
	var req CheckEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	address := domain.NormalizeAddress(req.Address)
	if err := domain.ValidateAddress(address); err != nil {
		BadRequest(c, GetErrorMessage(err))
		return
	}

	exists, err := h.mailboxes.Exists(address)
	if err != nil {
		h.log.Error("check address failed", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}
	Success(c, gin.H{"address": address, "exists": exists})
}

// CreateEmailRequest 创建邮箱请求
type CreateEmailRequest struct {
	Type           string `json:"type" binding:"required"` // random / custom / username
	Address        string `json:"address"`
	LocalPart      string `json:"localPart"`
	DomainName     string `json:"domainName"`
	TurnstileToken string `json:"turnstileToken"`
}

// CreateEmail 创建新邮箱并建立会话
// POST /api/create-email
//
// 注册开启人机验证时必须携带有效的 Turnstile 令牌。
// 明文通行密钥只随本次响应返回一次。
func (h *MailboxHandler) CreateEmail(c *gin.Context) {
	var req CreateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	ts := h.settings.Turnstile()
	if ts.RegistrationEnabled {
		if err := h.verifier.Verify(c.Request.Context(), ts.SecretKey, req.TurnstileToken, c.ClientIP()); err != nil {
			h.respondTurnstileError(c, err)
			return
		}
	}

	mailbox, passkey, err := h.mailboxes.Create(service.CreateMailboxInput{
		Type:       service.MailboxType(strings.ToLower(req.Type)),
		Address:    req.Address,
		LocalPart:  req.LocalPart,
		DomainName: req.DomainName,
	})
	if err != nil {
		respondServiceError(c, err, h.log)
		return
	}

	session, err := h.sessions.Create(mailbox.ID)
	if err != nil {
		h.log.Error("create session failed", zap.Error(err), zap.Int64("mailbox_id", mailbox.ID))
		InternalError(c, MsgInternalError)
		return
	}

	h.metrics.MailboxesCreated.Inc()
	h.setSessionCookie(c, session)
	Created(c, gin.H{
		"mailbox": mailbox,
		"passkey": passkey,
	})
}

// LoginRequest 邮箱登录请求
type LoginRequest struct {
	Address        string `json:"address" binding:"required"`
	Passkey        string `json:"passkey" binding:"required"`
	TurnstileToken string `json:"turnstileToken"`
}

// Login 使用地址和通行密钥登录
// POST /api/login
func (h *MailboxHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	ts := h.settings.Turnstile()
	if ts.LoginEnabled {
		if err := h.verifier.Verify(c.Request.Context(), ts.SecretKey, req.TurnstileToken, c.ClientIP()); err != nil {
			h.respondTurnstileError(c, err)
			return
		}
	}

	mailbox, err := h.mailboxes.Verify(req.Address, req.Passkey)
	if err != nil {
		// 地址不存在和密钥错误返回同一消息，避免探测已注册地址
		if errors.Is(err, domain.ErrMailboxNotFound) || errors.Is(err, domain.ErrInvalidPasskey) {
			Unauthorized(c, GetErrorMessage(domain.ErrInvalidPasskey))
			return
		}
		respondServiceError(c, err, h.log)
		return
	}

	session, err := h.sessions.Create(mailbox.ID)
	if err != nil {
		h.log.Error("create session failed", zap.Error(err), zap.Int64("mailbox_id", mailbox.ID))
		InternalError(c, MsgInternalError)
		return
	}

	h.setSessionCookie(c, session)
	SuccessWithMsg(c, "登录成功", gin.H{"mailbox": mailbox})
}

// Logout 退出登录并销毁会话
// POST /api/logout
func (h *MailboxHandler) Logout(c *gin.Context) {
	if token, err := c.Cookie(service.SessionCookieName); err == nil && token != "" {
		if err := h.sessions.Destroy(token); err != nil {
			h.log.Error("destroy session failed", zap.Error(err))
		}
	}

	c.SetSameSite(http.SameSiteStrictMode)
	http.SetCookie(c.Writer, h.sessions.ClearCookie())
	SuccessWithMsg(c, "已退出登录", nil)
}

// AccountInfo 获取当前会话对应的邮箱信息
// GET /api/account/info
func (h *MailboxHandler) AccountInfo(c *gin.Context) {
	mailbox := currentMailbox(c)
	if mailbox == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}
	Success(c, gin.H{"mailbox": mailbox})
}

// RegeneratePasskey 重置通行密钥
// POST /api/account/regenerate-passkey
//
// 旧密钥立即失效，已有会话不受影响。
func (h *MailboxHandler) RegeneratePasskey(c *gin.Context) {
	mailbox := currentMailbox(c)
	if mailbox == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	passkey, err := h.mailboxes.RegeneratePasskey(mailbox.ID)
	if err != nil {
		h.log.Error("regenerate passkey failed", zap.Error(err), zap.Int64("mailbox_id", mailbox.ID))
		InternalError(c, MsgPasskeyResetFailed)
		return
	}
	SuccessWithMsg(c, "密钥已重置", gin.H{"passkey": passkey})
}

// DeleteAccount 删除当前邮箱及其所有会话
// POST /api/account/delete
func (h *MailboxHandler) DeleteAccount(c *gin.Context) {
	mailbox := currentMailbox(c)
	if mailbox == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	if err := h.mailboxes.Delete(mailbox.ID); err != nil {
		h.log.Error("delete mailbox failed", zap.Error(err), zap.Int64("mailbox_id", mailbox.ID))
		InternalError(c, MsgMailboxDeleteFailed)
		return
	}

	h.metrics.MailboxesDeleted.Inc()
	c.SetSameSite(http.SameSiteStrictMode)
	http.SetCookie(c.Writer, h.sessions.ClearCookie())
	SuccessWithMsg(c, "邮箱已删除", nil)
}

func (h *MailboxHandler) setSessionCookie(c *gin.Context, session *domain.Session) {
	c.SetSameSite(http.SameSiteStrictMode)
	http.SetCookie(c.Writer, h.sessions.NewCookie(session))
}

func (h *MailboxHandler) respondTurnstileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, turnstile.ErrMissingToken), errors.Is(err, turnstile.ErrVerificationFailed):
		BadRequest(c, GetErrorMessage(err))
	case errors.Is(err, turnstile.ErrNotConfigured):
		h.log.Warn("turnstile enabled but secret key missing")
		InternalError(c, MsgInternalError)
	default:
		h.log.Error("turnstile verification error", zap.Error(err))
		InternalError(c, MsgInternalError)
	}
}

// currentMailbox 从上下文中取出会话中间件写入的邮箱
func currentMailbox(c *gin.Context) *domain.Mailbox {
	value, ok := c.Get(middleware.ContextMailbox)
	if !ok {
		return nil
	}
	mailbox, ok := value.(*domain.Mailbox)
	if !ok {
		return nil
	}
	return mailbox
}
