package httptransport

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/service"
)

// PublicHandler 处理无需认证的公开接口
type PublicHandler struct {
	domains  *service.DomainService
	settings *service.SettingsService
	log      *zap.Logger
}

// NewPublicHandler 创建公开接口处理器
func NewPublicHandler(domains *service.DomainService, settings *service.SettingsService, log *zap.Logger) *PublicHandler {
	return &PublicHandler{domains: domains, settings: settings, log: log}
}

// SiteInfo 站点公开信息
type SiteInfo struct {
	SiteTitle     string                `json:"siteTitle"`
	DefaultDomain string                `json:"defaultDomain,omitempty"`
	Turnstile     PublicTurnstileInfo   `json:"turnstile"`
	Domains       []domain.PublicDomain `json:"domains"`
}

// PublicTurnstileInfo 人机验证的公开配置（不含密钥）
type PublicTurnstileInfo struct {
	SiteKey             string `json:"siteKey"`
	RegistrationEnabled bool   `json:"registrationEnabled"`
	LoginEnabled        bool   `json:"loginEnabled"`
}

// GetInfo 获取站点信息
// GET /api/info
func (h *PublicHandler) GetInfo(c *gin.Context) {
	info := SiteInfo{
		SiteTitle: h.settings.SiteTitle(),
		Domains:   []domain.PublicDomain{},
	}

	ts := h.settings.Turnstile()
	info.Turnstile = PublicTurnstileInfo{
		SiteKey:             ts.SiteKey,
		RegistrationEnabled: ts.RegistrationEnabled,
		LoginEnabled:        ts.LoginEnabled,
	}

	active, err := h.domains.ListActive()
	if err != nil {
		h.log.Error("list active domains failed", zap.Error(err))
		InternalError(c, MsgDomainListFailed)
		return
	}
	for i := range active {
		info.Domains = append(info.Domains, active[i].Public())
	}
	if len(active) > 0 {
		info.DefaultDomain = active[0].Name
	}

	Success(c, info)
}

// ListDomains 获取可用域名列表
// GET /api/domains
func (h *PublicHandler) ListDomains(c *gin.Context) {
	active, err := h.domains.ListActive()
	if err != nil {
		h.log.Error("list active domains failed", zap.Error(err))
		InternalError(c, MsgDomainListFailed)
		return
	}

	result := make([]domain.PublicDomain, 0, len(active))
	for i := range active {
		result = append(result, active[i].Public())
	}
	Success(c, result)
}

// respondServiceError 按业务错误映射响应，未识别的错误归为 500
func respondServiceError(c *gin.Context, err error, log *zap.Logger) {
	switch {
	case errors.Is(err, domain.ErrMailboxNotFound),
		errors.Is(err, domain.ErrDomainNotFound):
		NotFound(c, GetErrorMessage(err))
	case errors.Is(err, domain.ErrDuplicateAddress),
		errors.Is(err, domain.ErrDuplicateDomain),
		errors.Is(err, domain.ErrUsernameTaken):
		Conflict(c, GetErrorMessage(err))
	case errors.Is(err, domain.ErrInvalidAddress),
		errors.Is(err, domain.ErrAddressTooLong),
		errors.Is(err, domain.ErrInvalidLocalPart),
		errors.Is(err, domain.ErrLocalPartTooLong),
		errors.Is(err, domain.ErrNoActiveDomain),
		errors.Is(err, service.ErrInvalidMailboxType),
		errors.Is(err, service.ErrCustomAddressRequired),
		errors.Is(err, service.ErrDomainNameRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrUsernameRequired),
		errors.Is(err, service.ErrSiteTitleRequired),
		errors.Is(err, service.ErrAdminPathTooShort):
		BadRequest(c, GetErrorMessage(err))
	case errors.Is(err, domain.ErrInvalidPasskey),
		errors.Is(err, domain.ErrInvalidCredentials):
		Unauthorized(c, GetErrorMessage(err))
	default:
		log.Error("unhandled service error", zap.Error(err))
		InternalError(c, MsgInternalError)
	}
}
