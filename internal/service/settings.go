package service

import (
	"errors"
	"strings"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage"
)

var (
	// ErrSiteTitleRequired 站点标题不能为空
	ErrSiteTitleRequired = errors.New("site title is required")
	// ErrAdminPathTooShort 管理路径至少 3 个字符
	ErrAdminPathTooShort = errors.New("admin path must be at least 3 characters")
)

// SettingsService 封装站点设置的读写。
//
// settings 表是字符串 KV 存储，布尔标志以 '0'/'1' 保存。
type SettingsService struct {
	settings storage.SettingRepository
}

// NewSettingsService 创建站点设置服务。
func NewSettingsService(settings storage.SettingRepository) *SettingsService {
	return &SettingsService{settings: settings}
}

// EnsureDefaults 在首次启动时写入缺失的默认设置。
func (s *SettingsService) EnsureDefaults() error {
	defaults := map[string]string{
		domain.SettingSiteTitle:                    domain.DefaultSiteTitle,
		domain.SettingAdminPath:                    domain.DefaultAdminPath,
		domain.SettingTurnstileSiteKey:             "",
		domain.SettingTurnstileSecretKey:           "",
		domain.SettingTurnstileRegistrationEnabled: "0",
		domain.SettingTurnstileLoginEnabled:        "0",
	}
	for key, value := range defaults {
		if _, err := s.settings.GetSetting(key); err == nil {
			continue
		} else if !errors.Is(err, domain.ErrSettingNotFound) {
			return err
		}
		if err := s.settings.SetSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}

// SiteTitle 返回站点标题，缺失时回落到默认值。
func (s *SettingsService) SiteTitle() string {
	return s.getOrDefault(domain.SettingSiteTitle, domain.DefaultSiteTitle)
}

// SetSiteTitle 更新站点标题。
func (s *SettingsService) SetSiteTitle(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrSiteTitleRequired
	}
	return s.settings.SetSetting(domain.SettingSiteTitle, title)
}

// AdminPath 返回管理后台的路径段，缺失时回落到默认值。
func (s *SettingsService) AdminPath() string {
	return s.getOrDefault(domain.SettingAdminPath, domain.DefaultAdminPath)
}

// SetAdminPath 更新管理后台路径段。
func (s *SettingsService) SetAdminPath(path string) error {
	path = strings.Trim(strings.TrimSpace(path), "/")
	if len(path) < 3 {
		return ErrAdminPathTooShort
	}
	return s.settings.SetSetting(domain.SettingAdminPath, path)
}

// Turnstile 返回 Turnstile 配置。
func (s *SettingsService) Turnstile() domain.TurnstileConfig {
	return domain.TurnstileConfig{
		SiteKey:             s.getOrDefault(domain.SettingTurnstileSiteKey, ""),
		SecretKey:           s.getOrDefault(domain.SettingTurnstileSecretKey, ""),
		RegistrationEnabled: parseFlag(s.getOrDefault(domain.SettingTurnstileRegistrationEnabled, "0")),
		LoginEnabled:        parseFlag(s.getOrDefault(domain.SettingTurnstileLoginEnabled, "0")),
	}
}

// SetTurnstile 更新 Turnstile 配置。
func (s *SettingsService) SetTurnstile(cfg domain.TurnstileConfig) error {
	values := map[string]string{
		domain.SettingTurnstileSiteKey:             cfg.SiteKey,
		domain.SettingTurnstileSecretKey:           cfg.SecretKey,
		domain.SettingTurnstileRegistrationEnabled: formatFlag(cfg.RegistrationEnabled),
		domain.SettingTurnstileLoginEnabled:        formatFlag(cfg.LoginEnabled),
	}
	for key, value := range values {
		if err := s.settings.SetSetting(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (s *SettingsService) getOrDefault(key, fallback string) string {
	value, err := s.settings.GetSetting(key)
	if err != nil || value == "" {
		return fallback
	}
	return value
}

// parseFlag 宽松解析布尔标志，兼容 '1'/'true'/'yes'/'on'。
func parseFlag(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func formatFlag(value bool) string {
	if value {
		return "1"
	}
	return "0"
}
