package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage/memory"
)

func TestAdminService_Seed(t *testing.T) {
	store := memory.NewStore()
	service := NewAdminService(store)

	t.Run("空表播种默认账户", func(t *testing.T) {
		require.NoError(t, service.Seed("admin", "changeme"))

		admin, err := store.GetAdminByUsername("admin")
		require.NoError(t, err)
		assert.Equal(t, "admin", admin.Username)
		assert.NotEqual(t, "changeme", admin.PasswordHash)
	})

	t.Run("已有账户时播种是空操作", func(t *testing.T) {
		require.NoError(t, service.Seed("other", "password"))

		_, err := store.GetAdminByUsername("other")
		assert.ErrorIs(t, err, domain.ErrAdminNotFound)
	})
}

func TestAdminService_Login(t *testing.T) {
	store := memory.NewStore()
	service := NewAdminService(store)
	require.NoError(t, service.Seed("admin", "secret-password"))

	t.Run("正确凭证登录成功", func(t *testing.T) {
		admin, err := service.Login("admin", "secret-password")

		assert.NoError(t, err)
		assert.Equal(t, "admin", admin.Username)
	})

	t.Run("错误密码返回统一错误", func(t *testing.T) {
		_, err := service.Login("admin", "wrong")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("未知用户名返回统一错误", func(t *testing.T) {
		// 和密码错误不可区分，避免枚举用户名
		_, err := service.Login("nobody", "secret-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})
}

func TestAdminService_ChangeUsername(t *testing.T) {
	store := memory.NewStore()
	service := NewAdminService(store)
	require.NoError(t, service.Seed("admin", "secret-password"))

	t.Run("密码正确时改名成功", func(t *testing.T) {
		require.NoError(t, service.ChangeUsername("admin", "secret-password", "root"))

		_, err := service.Login("root", "secret-password")
		assert.NoError(t, err)
	})

	t.Run("密码错误时拒绝改名", func(t *testing.T) {
		err := service.ChangeUsername("root", "wrong", "other")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("新用户名不能为空", func(t *testing.T) {
		err := service.ChangeUsername("root", "secret-password", "  ")
		assert.ErrorIs(t, err, ErrUsernameRequired)
	})
}

func TestAdminService_ChangePassword(t *testing.T) {
	store := memory.NewStore()
	service := NewAdminService(store)
	require.NoError(t, service.Seed("admin", "secret-password"))

	t.Run("旧密码正确时修改成功", func(t *testing.T) {
		require.NoError(t, service.ChangePassword("admin", "secret-password", "new-password"))

		_, err := service.Login("admin", "new-password")
		assert.NoError(t, err)

		_, err = service.Login("admin", "secret-password")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("旧密码错误时拒绝", func(t *testing.T) {
		err := service.ChangePassword("admin", "wrong", "whatever-long")
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	})

	t.Run("新密码太短被拒绝", func(t *testing.T) {
		err := service.ChangePassword("admin", "new-password", "abc")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})
}

func TestAdminService_ResetCredentials(t *testing.T) {
	store := memory.NewStore()
	service := NewAdminService(store)
	require.NoError(t, service.Seed("admin", "lost-password"))

	require.NoError(t, service.ResetCredentials("recovered", "new-password"))

	_, err := service.Login("recovered", "new-password")
	assert.NoError(t, err)
}
