package sqlite

import (
	"fmt"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// CreateAdmin 插入管理员记录，用户名冲突时返回 ErrUsernameTaken。
func (s *Store) CreateAdmin(admin *domain.Admin) error {
	result, err := s.db.Exec(
		`INSERT INTO admins (username, password_hash) VALUES (?, ?)`,
		admin.Username, admin.PasswordHash,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("inserting admin: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading admin id: %w", err)
	}
	admin.ID = id
	return nil
}

// GetAdminByUsername 按用户名查询管理员。
func (s *Store) GetAdminByUsername(username string) (*domain.Admin, error) {
	var admin domain.Admin
	err := s.db.Get(&admin, `SELECT * FROM admins WHERE username = ?`, username)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, fmt.Errorf("querying admin %q: %w", username, err)
	}
	return &admin, nil
}

// UpdateAdminUsername 修改管理员用户名。
func (s *Store) UpdateAdminUsername(id int64, username string) error {
	result, err := s.db.Exec(
		`UPDATE admins SET username = ? WHERE id = ?`, username, id,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("updating admin username: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

// UpdateAdminPassword 覆盖管理员密码哈希。
func (s *Store) UpdateAdminPassword(id int64, passwordHash string) error {
	result, err := s.db.Exec(
		`UPDATE admins SET password_hash = ? WHERE id = ?`, passwordHash, id,
	)
	if err != nil {
		return fmt.Errorf("updating admin password: %w", err)
	}
	if rows, _ := result.RowsAffected(); rows == 0 {
		return domain.ErrAdminNotFound
	}
	return nil
}

// CountAdmins 返回管理员数量，用于首次启动播种判断。
func (s *Store) CountAdmins() (int, error) {
	var count int
	if err := s.db.Get(&count, `SELECT COUNT(*) FROM admins`); err != nil {
		return 0, fmt.Errorf("counting admins: %w", err)
	}
	return count, nil
}
