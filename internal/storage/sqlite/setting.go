package sqlite

import (
	"fmt"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// GetSetting 读取设置项的值。
func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.Get(&value, `SELECT value FROM settings WHERE key = ?`, key)
	if err != nil {
		if isNoRows(err) {
			return "", domain.ErrSettingNotFound
		}
		return "", fmt.Errorf("querying setting %q: %w", key, err)
	}
	return value, nil
}

// SetSetting 写入设置项，已存在时覆盖。
func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing setting %q: %w", key, err)
	}
	return nil
}
