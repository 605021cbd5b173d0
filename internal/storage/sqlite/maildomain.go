package sqlite

import (
	"fmt"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// CreateDomain 插入域名记录，名称冲突时返回 ErrDuplicateDomain。
func (s *Store) CreateDomain(d *domain.Domain) error {
	result, err := s.db.Exec(
		`INSERT INTO domains (name, imap_host, imap_port, imap_user, imap_password, imap_tls, is_active)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Name, d.IMAPHost, d.IMAPPort, d.IMAPUser, d.IMAPPassword, d.IMAPTLS, d.IsActive,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDomain
		}
		return fmt.Errorf("inserting domain: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading domain id: %w", err)
	}
	d.ID = id
	return nil
}

// GetDomain 按 ID 查询域名。
func (s *Store) GetDomain(id int64) (*domain.Domain, error) {
	var d domain.Domain
	err := s.db.Get(&d, `SELECT * FROM domains WHERE id = ?`, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrDomainNotFound
		}
		return nil, fmt.Errorf("querying domain %d: %w", id, err)
	}
	return &d, nil
}

// GetDomainByName 按名称查询域名。
func (s *Store) GetDomainByName(name string) (*domain.Domain, error) {
	var d domain.Domain
	err := s.db.Get(&d, `SELECT * FROM domains WHERE name = ?`, name)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrDomainNotFound
		}
		return nil, fmt.Errorf("querying domain %q: %w", name, err)
	}
	return &d, nil
}

// ListDomains 返回全部域名。
func (s *Store) ListDomains() ([]domain.Domain, error) {
	var domains []domain.Domain
	if err := s.db.Select(&domains, `SELECT * FROM domains ORDER BY id`); err != nil {
		return nil, fmt.Errorf("listing domains: %w", err)
	}
	return domains, nil
}

// ListActiveDomains 返回全部已激活的域名。
func (s *Store) ListActiveDomains() ([]domain.Domain, error) {
	var domains []domain.Domain
	err := s.db.Select(&domains, `SELECT * FROM domains WHERE is_active = 1 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("listing active domains: %w", err)
	}
	return domains, nil
}

// UpdateDomain 覆盖域名记录的全部可编辑字段。
func (s *Store) UpdateDomain(d *domain.Domain) error {
	result, err := s.db.Exec(
		`UPDATE domains SET
			name = ?, imap_host = ?, imap_port = ?, imap_user = ?,
			imap_password = ?, imap_tls = ?, is_active = ?
		 WHERE id = ?`,
		d.Name, d.IMAPHost, d.IMAPPort, d.IMAPUser,
		d.IMAPPassword, d.IMAPTLS, d.IsActive, d.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateDomain
		}
		return fmt.Errorf("updating domain: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrDomainNotFound
	}
	return nil
}

// DeleteDomain 删除域名记录。邮箱对域名的引用是软引用，不做级联。
func (s *Store) DeleteDomain(id int64) error {
	result, err := s.db.Exec(`DELETE FROM domains WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting domain: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrDomainNotFound
	}
	return nil
}
