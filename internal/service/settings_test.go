package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage/memory"
)

func TestSettingsService_Defaults(t *testing.T) {
	store := memory.NewStore()
	service := NewSettingsService(store)

	// 播种前读取也能拿到默认值
	assert.Equal(t, domain.DefaultSiteTitle, service.SiteTitle())
	assert.Equal(t, domain.DefaultAdminPath, service.AdminPath())

	require.NoError(t, service.EnsureDefaults())

	title, err := store.GetSetting(domain.SettingSiteTitle)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultSiteTitle, title)

	ts := service.Turnstile()
	assert.Empty(t, ts.SiteKey)
	assert.False(t, ts.RegistrationEnabled)
	assert.False(t, ts.LoginEnabled)
}

func TestSettingsService_EnsureDefaultsKeepsExisting(t *testing.T) {
	store := memory.NewStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetSiteTitle("My Mail"))
	require.NoError(t, service.EnsureDefaults())

	assert.Equal(t, "My Mail", service.SiteTitle())
}

func TestSettingsService_SiteTitle(t *testing.T) {
	store := memory.NewStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetSiteTitle("  Inbox  "))
	assert.Equal(t, "Inbox", service.SiteTitle())

	assert.ErrorIs(t, service.SetSiteTitle("   "), ErrSiteTitleRequired)
}

func TestSettingsService_AdminPath(t *testing.T) {
	store := memory.NewStore()
	service := NewSettingsService(store)

	t.Run("合法路径保存成功", func(t *testing.T) {
		require.NoError(t, service.SetAdminPath("backoffice"))
		assert.Equal(t, "backoffice", service.AdminPath())
	})

	t.Run("首尾斜杠被剥掉", func(t *testing.T) {
		require.NoError(t, service.SetAdminPath("/panel/"))
		assert.Equal(t, "panel", service.AdminPath())
	})

	t.Run("太短的路径被拒绝", func(t *testing.T) {
		assert.ErrorIs(t, service.SetAdminPath("ab"), ErrAdminPathTooShort)
		assert.ErrorIs(t, service.SetAdminPath("/a/"), ErrAdminPathTooShort)
	})
}

func TestSettingsService_Turnstile(t *testing.T) {
	store := memory.NewStore()
	service := NewSettingsService(store)

	require.NoError(t, service.SetTurnstile(domain.TurnstileConfig{
		SiteKey:             "site-key",
		SecretKey:           "secret-key",
		RegistrationEnabled: true,
		LoginEnabled:        false,
	}))

	ts := service.Turnstile()
	assert.Equal(t, "site-key", ts.SiteKey)
	assert.Equal(t, "secret-key", ts.SecretKey)
	assert.True(t, ts.RegistrationEnabled)
	assert.False(t, ts.LoginEnabled)

	// 布尔标志以 '0'/'1' 字符串落库
	raw, err := store.GetSetting(domain.SettingTurnstileRegistrationEnabled)
	require.NoError(t, err)
	assert.Equal(t, "1", raw)
}

func TestParseFlag(t *testing.T) {
	assert.True(t, parseFlag("1"))
	assert.True(t, parseFlag("true"))
	assert.True(t, parseFlag(" Yes "))
	assert.True(t, parseFlag("on"))
	assert.False(t, parseFlag("0"))
	assert.False(t, parseFlag(""))
	assert.False(t, parseFlag("nope"))
}
