package domain

// 站点设置键。settings 表是通用的字符串 KV 存储，
// 布尔值以 '0'/'1' 字符串形式保存。
const (
	SettingSiteTitle = "site_title"
	SettingAdminPath = "admin_path"

	SettingTurnstileSiteKey             = "turnstile_site_key"
	SettingTurnstileSecretKey           = "turnstile_secret_key"
	SettingTurnstileRegistrationEnabled = "turnstile_registration_enabled"
	SettingTurnstileLoginEnabled        = "turnstile_login_enabled"
)

// 站点设置默认值。
const (
	DefaultSiteTitle = "Mailsy"
	DefaultAdminPath = "admin"
)

// TurnstileConfig 汇总 Cloudflare Turnstile 的站点配置。
type TurnstileConfig struct {
	SiteKey             string `json:"siteKey"`
	SecretKey           string `json:"-"` // 不返回给前端
	RegistrationEnabled bool   `json:"registrationEnabled"`
	LoginEnabled        bool   `json:"loginEnabled"`
}
