package domain

import "time"

// Session 表示一条服务端会话记录。
//
// Token 是不透明的随机字符串，通过 HTTP-only Cookie 下发；
// 过期判定是惰性的：首次在过期后被查询时删除该行。
type Session struct {
	ID        string    `json:"id" db:"id"`
	MailboxID int64     `json:"mailboxId" db:"mailbox_id"`
	Token     string    `json:"-" db:"token"` // 不返回给前端
	ExpiresAt time.Time `json:"expiresAt" db:"expires_at"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Expired 判断会话在给定时刻是否已过期。
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
