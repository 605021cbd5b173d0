package sqlite

import (
	"fmt"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// CreateSession 插入会话记录。
func (s *Store) CreateSession(session *domain.Session) error {
	_, err := s.db.Exec(
		`INSERT INTO sessions (id, mailbox_id, token, expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		session.ID, session.MailboxID, session.Token,
		session.ExpiresAt, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// GetSessionByToken 按令牌查询会话。过期判定由调用方负责。
func (s *Store) GetSessionByToken(token string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.Get(&session, `SELECT * FROM sessions WHERE token = ?`, token)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("querying session: %w", err)
	}
	return &session, nil
}

// DeleteSession 按令牌删除会话。
func (s *Store) DeleteSession(token string) error {
	result, err := s.db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrSessionNotFound
	}
	return nil
}
