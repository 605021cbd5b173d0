package httptransport

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/auth"
	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/middleware"
	"github.com/tonyliuzj/mailsy/internal/service"
)

// AdminHandler 处理管理后台接口
type AdminHandler struct {
	admins       *service.AdminService
	domains      *service.DomainService
	settings     *service.SettingsService
	jwtManager   *auth.Manager
	cookieSecure bool
	log          *zap.Logger
}

// NewAdminHandler 创建管理后台处理器
func NewAdminHandler(
	admins *service.AdminService,
	domains *service.DomainService,
	settings *service.SettingsService,
	jwtManager *auth.Manager,
	cookieSecure bool,
	log *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		admins:       admins,
		domains:      domains,
		settings:     settings,
		jwtManager:   jwtManager,
		cookieSecure: cookieSecure,
		log:          log,
	}
}

// AdminLoginRequest 管理员登录请求
type AdminLoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login 管理员登录
// POST /api/:adminPath/login
func (h *AdminHandler) Login(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	admin, err := h.admins.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			Unauthorized(c, MsgInvalidCredentials)
			return
		}
		h.log.Error("admin login failed", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	if err := h.issueToken(c, admin.Username); err != nil {
		return
	}
	SuccessWithMsg(c, "登录成功", gin.H{"username": admin.Username})
}

// Logout 管理员退出登录
// POST /api/:adminPath/logout
func (h *AdminHandler) Logout(c *gin.Context) {
	h.clearToken(c)
	SuccessWithMsg(c, "已退出登录", nil)
}

// Me 获取当前登录管理员
// GET /api/:adminPath/me
func (h *AdminHandler) Me(c *gin.Context) {
	Success(c, gin.H{"username": c.GetString(middleware.ContextAdminUsername)})
}

// ChangeUsernameRequest 修改用户名请求
type ChangeUsernameRequest struct {
	Password    string `json:"password" binding:"required"`
	NewUsername string `json:"newUsername" binding:"required"`
}

// ChangeUsername 修改管理员用户名
// POST /api/:adminPath/change-username
func (h *AdminHandler) ChangeUsername(c *gin.Context) {
	var req ChangeUsernameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	current := c.GetString(middleware.ContextAdminUsername)
	if err := h.admins.ChangeUsername(current, req.Password, req.NewUsername); err != nil {
		respondServiceError(c, err, h.log)
		return
	}

	// 用户名变了，旧令牌里的身份随之失效，换发新令牌
	if err := h.issueToken(c, req.NewUsername); err != nil {
		return
	}
	SuccessWithMsg(c, "用户名已更新", gin.H{"username": req.NewUsername})
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}

// ChangePassword 修改管理员密码
// POST /api/:adminPath/change-password
func (h *AdminHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	username := c.GetString(middleware.ContextAdminUsername)
	if err := h.admins.ChangePassword(username, req.CurrentPassword, req.NewPassword); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	SuccessWithMsg(c, "密码已更新", nil)
}

// DomainRequest 域名创建/更新请求
type DomainRequest struct {
	Name         string `json:"name" binding:"required"`
	IMAPHost     string `json:"imapHost" binding:"required"`
	IMAPPort     int    `json:"imapPort"`
	IMAPUser     string `json:"imapUser" binding:"required"`
	IMAPPassword string `json:"imapPassword"`
	IMAPTLS      *bool  `json:"imapTls"`
	IsActive     *bool  `json:"isActive"`
}

func (r *DomainRequest) toInput() service.DomainInput {
	input := service.DomainInput{
		Name:         r.Name,
		IMAPHost:     r.IMAPHost,
		IMAPPort:     r.IMAPPort,
		IMAPUser:     r.IMAPUser,
		IMAPPassword: r.IMAPPassword,
		IMAPTLS:      true,
		IsActive:     true,
	}
	if r.IMAPTLS != nil {
		input.IMAPTLS = *r.IMAPTLS
	}
	if r.IsActive != nil {
		input.IsActive = *r.IsActive
	}
	return input
}

// ListDomains 获取全部域名（含未激活）
// GET /api/:adminPath/domains
func (h *AdminHandler) ListDomains(c *gin.Context) {
	domains, err := h.domains.List()
	if err != nil {
		h.log.Error("list domains failed", zap.Error(err))
		InternalError(c, MsgDomainListFailed)
		return
	}
	Success(c, gin.H{"domains": domains})
}

// CreateDomain 新增域名
// POST /api/:adminPath/domains
func (h *AdminHandler) CreateDomain(c *gin.Context) {
	var req DomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	created, err := h.domains.Create(req.toInput())
	if err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	Created(c, gin.H{"domain": created})
}

// UpdateDomain 更新域名
// PUT /api/:adminPath/domains/:id
func (h *AdminHandler) UpdateDomain(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	var req DomainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	updated, err := h.domains.Update(id, req.toInput())
	if err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	SuccessWithMsg(c, "域名已更新", gin.H{"domain": updated})
}

// DeleteDomain 删除域名
// DELETE /api/:adminPath/domains/:id
func (h *AdminHandler) DeleteDomain(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.domains.Delete(id); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	SuccessWithMsg(c, "域名已删除", nil)
}

// GetSettings 获取站点设置
// GET /api/:adminPath/settings
func (h *AdminHandler) GetSettings(c *gin.Context) {
	Success(c, gin.H{
		"siteTitle": h.settings.SiteTitle(),
		"adminPath": h.settings.AdminPath(),
	})
}

// UpdateSettingsRequest 更新站点设置请求
type UpdateSettingsRequest struct {
	SiteTitle string `json:"siteTitle" binding:"required"`
}

// UpdateSettings 更新站点设置
// POST /api/:adminPath/settings
func (h *AdminHandler) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.settings.SetSiteTitle(req.SiteTitle); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	SuccessWithMsg(c, "设置已保存", nil)
}

// GetTurnstile 获取人机验证配置
// GET /api/:adminPath/turnstile
//
// 密钥本身不回显，只返回是否已配置。
func (h *AdminHandler) GetTurnstile(c *gin.Context) {
	ts := h.settings.Turnstile()
	Success(c, gin.H{
		"siteKey":             ts.SiteKey,
		"hasSecretKey":        ts.SecretKey != "",
		"registrationEnabled": ts.RegistrationEnabled,
		"loginEnabled":        ts.LoginEnabled,
	})
}

// UpdateTurnstileRequest 更新人机验证配置请求
type UpdateTurnstileRequest struct {
	SiteKey             string `json:"siteKey"`
	SecretKey           string `json:"secretKey"`
	RegistrationEnabled bool   `json:"registrationEnabled"`
	LoginEnabled        bool   `json:"loginEnabled"`
}

// UpdateTurnstile 更新人机验证配置
// POST /api/:adminPath/turnstile
func (h *AdminHandler) UpdateTurnstile(c *gin.Context) {
	var req UpdateTurnstileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	// 留空密钥表示沿用已保存的值
	secretKey := req.SecretKey
	if secretKey == "" {
		secretKey = h.settings.Turnstile().SecretKey
	}

	err := h.settings.SetTurnstile(domain.TurnstileConfig{
		SiteKey:             req.SiteKey,
		SecretKey:           secretKey,
		RegistrationEnabled: req.RegistrationEnabled,
		LoginEnabled:        req.LoginEnabled,
	})
	if err != nil {
		h.log.Error("save turnstile settings failed", zap.Error(err))
		InternalError(c, MsgSettingsSaveFailed)
		return
	}
	SuccessWithMsg(c, "设置已保存", nil)
}

// GetAdminPath 获取管理入口路径
// GET /api/:adminPath/config-path
func (h *AdminHandler) GetAdminPath(c *gin.Context) {
	Success(c, gin.H{"adminPath": h.settings.AdminPath()})
}

// UpdateAdminPathRequest 修改管理入口路径请求
type UpdateAdminPathRequest struct {
	AdminPath string `json:"adminPath" binding:"required"`
}

// UpdateAdminPath 修改管理入口路径
// POST /api/:adminPath/config-path
//
// 修改即时生效，旧路径随后返回 404。
func (h *AdminHandler) UpdateAdminPath(c *gin.Context) {
	var req UpdateAdminPathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if err := h.settings.SetAdminPath(req.AdminPath); err != nil {
		respondServiceError(c, err, h.log)
		return
	}
	SuccessWithMsg(c, "管理入口已更新", gin.H{"adminPath": h.settings.AdminPath()})
}

// issueToken 签发管理员 JWT 并写入 Cookie，失败时已响应 500
func (h *AdminHandler) issueToken(c *gin.Context, username string) error {
	token, expiresAt, err := h.jwtManager.Generate(username)
	if err != nil {
		h.log.Error("generate admin token failed", zap.Error(err))
		InternalError(c, MsgInternalError)
		return err
	}

	c.SetSameSite(http.SameSiteStrictMode)
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
	return nil
}

func (h *AdminHandler) clearToken(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     middleware.AdminCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	})
}
