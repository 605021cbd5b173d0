package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage/memory"
)

func newTestMailboxService(t *testing.T) (*MailboxService, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	require.NoError(t, store.CreateDomain(&domain.Domain{
		Name:     "temp.mail",
		IMAPHost: "imap.temp.mail",
		IMAPPort: 993,
		IMAPUser: "catchall@temp.mail",
		IMAPTLS:  true,
		IsActive: true,
	}))
	return NewMailboxService(store, store), store
}

func TestMailboxService_Create(t *testing.T) {
	service, _ := newTestMailboxService(t)

	t.Run("创建随机邮箱成功", func(t *testing.T) {
		mailbox, passkey, err := service.Create(CreateMailboxInput{Type: MailboxTypeRandom})

		assert.NoError(t, err)
		assert.NotNil(t, mailbox)
		assert.NotZero(t, mailbox.ID)
		assert.True(t, strings.HasSuffix(mailbox.Address, "@temp.mail"))
		assert.Equal(t, "temp.mail", mailbox.DomainName)
		assert.Len(t, passkey, 16)
		// 数据库里只有哈希，不会出现明文密钥
		assert.NotEqual(t, passkey, mailbox.PasskeyHash)
		assert.NotContains(t, mailbox.PasskeyHash, passkey)
	})

	t.Run("创建自定义地址邮箱成功", func(t *testing.T) {
		mailbox, _, err := service.Create(CreateMailboxInput{
			Type:    MailboxTypeCustom,
			Address: "My.Inbox@Temp.Mail",
		})

		assert.NoError(t, err)
		assert.Equal(t, "my.inbox@temp.mail", mailbox.Address)
	})

	t.Run("创建用户名邮箱成功", func(t *testing.T) {
		mailbox, _, err := service.Create(CreateMailboxInput{
			Type:       MailboxTypeUsername,
			LocalPart:  "alice",
			DomainName: "temp.mail",
		})

		assert.NoError(t, err)
		assert.Equal(t, "alice@temp.mail", mailbox.Address)
	})

	t.Run("重复地址返回冲突错误", func(t *testing.T) {
		_, _, err := service.Create(CreateMailboxInput{
			Type:    MailboxTypeCustom,
			Address: "dup@temp.mail",
		})
		require.NoError(t, err)

		_, _, err = service.Create(CreateMailboxInput{
			Type:    MailboxTypeCustom,
			Address: "dup@temp.mail",
		})
		assert.ErrorIs(t, err, domain.ErrDuplicateAddress)
	})

	t.Run("自定义地址域名必须已配置", func(t *testing.T) {
		_, _, err := service.Create(CreateMailboxInput{
			Type:    MailboxTypeCustom,
			Address: "user@unknown.example",
		})
		assert.ErrorIs(t, err, domain.ErrDomainNotFound)
	})

	t.Run("非法本地部分被拒绝", func(t *testing.T) {
		_, _, err := service.Create(CreateMailboxInput{
			Type:       MailboxTypeUsername,
			LocalPart:  "bad local",
			DomainName: "temp.mail",
		})
		assert.ErrorIs(t, err, domain.ErrInvalidLocalPart)
	})

	t.Run("未知创建方式被拒绝", func(t *testing.T) {
		_, _, err := service.Create(CreateMailboxInput{Type: "magic"})
		assert.ErrorIs(t, err, ErrInvalidMailboxType)
	})
}

func TestMailboxService_Verify(t *testing.T) {
	service, _ := newTestMailboxService(t)

	created, passkey, err := service.Create(CreateMailboxInput{
		Type:    MailboxTypeCustom,
		Address: "verify@temp.mail",
	})
	require.NoError(t, err)

	t.Run("正确密钥验证通过", func(t *testing.T) {
		mailbox, err := service.Verify("verify@temp.mail", passkey)

		assert.NoError(t, err)
		assert.Equal(t, created.ID, mailbox.ID)
	})

	t.Run("地址大小写不影响验证", func(t *testing.T) {
		mailbox, err := service.Verify("VERIFY@Temp.Mail", passkey)

		assert.NoError(t, err)
		assert.Equal(t, created.ID, mailbox.ID)
	})

	t.Run("错误密钥返回 ErrInvalidPasskey", func(t *testing.T) {
		_, err := service.Verify("verify@temp.mail", "wrong-passkey-123")
		assert.ErrorIs(t, err, domain.ErrInvalidPasskey)
	})

	t.Run("未知地址返回 ErrMailboxNotFound", func(t *testing.T) {
		_, err := service.Verify("nobody@temp.mail", passkey)
		assert.ErrorIs(t, err, domain.ErrMailboxNotFound)
	})
}

func TestMailboxService_RegeneratePasskey(t *testing.T) {
	service, _ := newTestMailboxService(t)

	mailbox, oldPasskey, err := service.Create(CreateMailboxInput{
		Type:    MailboxTypeCustom,
		Address: "rotate@temp.mail",
	})
	require.NoError(t, err)

	newPasskey, err := service.RegeneratePasskey(mailbox.ID)
	require.NoError(t, err)
	assert.Len(t, newPasskey, 16)
	assert.NotEqual(t, oldPasskey, newPasskey)

	// 旧密钥立即失效，新密钥可用
	_, err = service.Verify("rotate@temp.mail", oldPasskey)
	assert.ErrorIs(t, err, domain.ErrInvalidPasskey)

	verified, err := service.Verify("rotate@temp.mail", newPasskey)
	assert.NoError(t, err)
	assert.Equal(t, mailbox.ID, verified.ID)
}

func TestMailboxService_Exists(t *testing.T) {
	service, _ := newTestMailboxService(t)

	_, _, err := service.Create(CreateMailboxInput{
		Type:    MailboxTypeCustom,
		Address: "taken@temp.mail",
	})
	require.NoError(t, err)

	exists, err := service.Exists("taken@temp.mail")
	assert.NoError(t, err)
	assert.True(t, exists)

	exists, err = service.Exists("free@temp.mail")
	assert.NoError(t, err)
	assert.False(t, exists)
}

func TestRandomAlias(t *testing.T) {
	alias, err := RandomAlias()
	require.NoError(t, err)

	parts := strings.Split(alias, ".")
	require.Len(t, parts, 2)
	assert.NotEmpty(t, parts[0])
	assert.NotEmpty(t, parts[1])
	assert.NoError(t, domain.ValidateLocalPart(alias))
}
