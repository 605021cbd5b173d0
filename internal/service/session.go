package service

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage"
)

// SessionCookieName 会话 Cookie 名称
const SessionCookieName = "mailsy_session"

// 令牌为 32 字节随机数的 base64url 编码，约 256 位熵。
const sessionTokenBytes = 32

// SessionService 负责签发、解析和销毁服务端会话。
//
// 令牌是不透明随机串，真实状态只存在 sessions 表里，随时可吊销。
type SessionService struct {
	sessions     storage.SessionRepository
	ttl          time.Duration
	cookieSecure bool
}

// NewSessionService 创建会话服务。
func NewSessionService(sessions storage.SessionRepository, ttl time.Duration, cookieSecure bool) *SessionService {
	return &SessionService{
		sessions:     sessions,
		ttl:          ttl,
		cookieSecure: cookieSecure,
	}
}

// Create 为邮箱签发新会话，有效期在创建时固定，不做滑动续期。
func (s *SessionService) Create(mailboxID int64) (*domain.Session, error) {
	token, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("generating session token: %w", err)
	}

	now := storage.Now()
	session := &domain.Session{
		ID:        uuid.New().String(),
		MailboxID: mailboxID,
		Token:     token,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.CreateSession(session); err != nil {
		return nil, err
	}
	return session, nil
}

// Resolve 按令牌解析会话。
//
// 令牌不存在或已过期都返回 (nil, nil)：无会话不是异常，由调用方转成 401。
// 过期行在首次被查到时顺手删除（惰性过期，没有后台清扫）。
func (s *SessionService) Resolve(token string) (*domain.Session, error) {
	if token == "" {
		return nil, nil
	}

	session, err := s.sessions.GetSessionByToken(token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if session.Expired(storage.Now()) {
		if err := s.sessions.DeleteSession(token); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
			return nil, err
		}
		return nil, nil
	}
	return session, nil
}

// Destroy 销毁会话。令牌不存在时视为已销毁。
func (s *SessionService) Destroy(token string) error {
	err := s.sessions.DeleteSession(token)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return err
	}
	return nil
}

// NewCookie 构造携带会话令牌的 HTTP-only Cookie。
func (s *SessionService) NewCookie(session *domain.Session) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

// ClearCookie 构造立即过期的清除 Cookie。
func (s *SessionService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   s.cookieSecure,
		SameSite: http.SameSiteStrictMode,
	}
}

// randomToken 生成 base64url 编码的随机令牌。
func randomToken() (string, error) {
	buf := make([]byte, sessionTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
