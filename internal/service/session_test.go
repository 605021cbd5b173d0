package service

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage/memory"
)

func TestSessionService_CreateAndResolve(t *testing.T) {
	store := memory.NewStore()
	service := NewSessionService(store, time.Hour, false)

	session, err := service.Create(42)
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.NotEmpty(t, session.Token)
	assert.Equal(t, int64(42), session.MailboxID)
	assert.True(t, session.ExpiresAt.After(time.Now()))

	resolved, err := service.Resolve(session.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, session.ID, resolved.ID)
	assert.Equal(t, int64(42), resolved.MailboxID)
}

func TestSessionService_ResolveUnknownToken(t *testing.T) {
	store := memory.NewStore()
	service := NewSessionService(store, time.Hour, false)

	// 未知令牌不是异常，返回双 nil
	resolved, err := service.Resolve("no-such-token")
	assert.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestSessionService_ExpiredSessionRemoved(t *testing.T) {
	store := memory.NewStore()
	// 负 TTL 让会话一出生就过期
	service := NewSessionService(store, -time.Minute, false)

	session, err := service.Create(7)
	require.NoError(t, err)

	// 第一次解析：过期视同不存在，顺手删除存量记录
	resolved, err := service.Resolve(session.Token)
	assert.NoError(t, err)
	assert.Nil(t, resolved)

	// 记录已被删除，直接查存储也找不到
	_, err = store.GetSessionByToken(session.Token)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// 第二次解析结果一致
	resolved, err = service.Resolve(session.Token)
	assert.NoError(t, err)
	assert.Nil(t, resolved)
}

func TestSessionService_Destroy(t *testing.T) {
	store := memory.NewStore()
	service := NewSessionService(store, time.Hour, false)

	session, err := service.Create(1)
	require.NoError(t, err)

	require.NoError(t, service.Destroy(session.Token))

	resolved, err := service.Resolve(session.Token)
	assert.NoError(t, err)
	assert.Nil(t, resolved)

	// 销毁不存在的会话同样视为成功
	assert.NoError(t, service.Destroy(session.Token))
}

func TestSessionService_Cookies(t *testing.T) {
	store := memory.NewStore()
	service := NewSessionService(store, time.Hour, true)

	session, err := service.Create(1)
	require.NoError(t, err)

	cookie := service.NewCookie(session)
	assert.Equal(t, SessionCookieName, cookie.Name)
	assert.Equal(t, session.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)

	cleared := service.ClearCookie()
	assert.Equal(t, SessionCookieName, cleared.Name)
	assert.Empty(t, cleared.Value)
	assert.Negative(t, cleared.MaxAge)
}

func TestSessionService_RegenerateKeepsSessions(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, store.CreateDomain(&domain.Domain{
		Name: "temp.mail", IMAPHost: "imap.temp.mail", IMAPPort: 993, IsActive: true,
	}))
	mailboxes := NewMailboxService(store, store)
	sessions := NewSessionService(store, time.Hour, false)

	mailbox, oldPasskey, err := mailboxes.Create(CreateMailboxInput{
		Type:    MailboxTypeCustom,
		Address: "keep@temp.mail",
	})
	require.NoError(t, err)

	session, err := sessions.Create(mailbox.ID)
	require.NoError(t, err)

	// 重置密钥不影响已发放的会话
	_, err = mailboxes.RegeneratePasskey(mailbox.ID)
	require.NoError(t, err)

	resolved, err := sessions.Resolve(session.Token)
	require.NoError(t, err)
	require.NotNil(t, resolved)
	assert.Equal(t, mailbox.ID, resolved.MailboxID)

	_, err = mailboxes.Verify("keep@temp.mail", oldPasskey)
	assert.ErrorIs(t, err, domain.ErrInvalidPasskey)
}
