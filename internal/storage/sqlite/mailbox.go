package sqlite

import (
	"fmt"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// CreateMailbox 插入新邮箱记录，地址冲突时返回 ErrDuplicateAddress。
func (s *Store) CreateMailbox(mailbox *domain.Mailbox) error {
	result, err := s.db.Exec(
		`INSERT INTO mailboxes (address, passkey_hash, domain_name, created_at)
		 VALUES (?, ?, ?, ?)`,
		mailbox.Address, mailbox.PasskeyHash, mailbox.DomainName, mailbox.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateAddress
		}
		return fmt.Errorf("inserting mailbox: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading mailbox id: %w", err)
	}
	mailbox.ID = id
	return nil
}

// GetMailbox 按 ID 查询邮箱。
func (s *Store) GetMailbox(id int64) (*domain.Mailbox, error) {
	var mailbox domain.Mailbox
	err := s.db.Get(&mailbox, `SELECT * FROM mailboxes WHERE id = ?`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrMailboxNotFound
		}
		return nil, fmt.Errorf("querying mailbox %d: %w", id, err)
	}
	return &mailbox, nil
}

// GetMailboxByAddress 按地址查询邮箱。
func (s *Store) GetMailboxByAddress(address string) (*domain.Mailbox, error) {
	var mailbox domain.Mailbox
	err := s.db.Get(&mailbox, `SELECT * FROM mailboxes WHERE address = ?`, address)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrMailboxNotFound
		}
		return nil, fmt.Errorf("querying mailbox %q: %w", address, err)
	}
	return &mailbox, nil
}

// UpdatePasskeyHash 覆盖邮箱的通行密钥哈希。
func (s *Store) UpdatePasskeyHash(id int64, passkeyHash string) error {
	result, err := s.db.Exec(
		`UPDATE mailboxes SET passkey_hash = ? WHERE id = ?`, passkeyHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating passkey hash: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrMailboxNotFound
	}
	return nil
}

// DeleteMailbox 删除邮箱，关联会话由外键级联删除。
func (s *Store) DeleteMailbox(id int64) error {
	result, err := s.db.Exec(`DELETE FROM mailboxes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting mailbox: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrMailboxNotFound
	}
	return nil
}
