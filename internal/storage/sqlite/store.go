// Package sqlite 基于单个本地 SQLite 文件实现 storage.Store。
package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // SQLite driver (cgo-free)
)

// Store SQLite 存储实现
type Store struct {
	db *sqlx.DB
}

// schema 在打开数据库时幂等地创建全部表。
// 布尔值存为 INTEGER 0/1，时间存为 TIMESTAMP 文本。
const schema = `
CREATE TABLE IF NOT EXISTS domains (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	name          TEXT    NOT NULL UNIQUE,
	imap_host     TEXT    NOT NULL DEFAULT '',
	imap_port     INTEGER NOT NULL DEFAULT 993,
	imap_user     TEXT    NOT NULL DEFAULT '',
	imap_password TEXT    NOT NULL DEFAULT '',
	imap_tls      INTEGER NOT NULL DEFAULT 1,
	is_active     INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS mailboxes (
	id           INTEGER   PRIMARY KEY AUTOINCREMENT,
	address      TEXT      NOT NULL UNIQUE,
	passkey_hash TEXT      NOT NULL,
	domain_name  TEXT      NOT NULL,
	created_at   TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT      PRIMARY KEY,
	mailbox_id INTEGER   NOT NULL REFERENCES mailboxes(id) ON DELETE CASCADE,
	token      TEXT      NOT NULL UNIQUE,
	expires_at TIMESTAMP NOT NULL,
	created_at TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_sessions_mailbox ON sessions(mailbox_id);

CREATE TABLE IF NOT EXISTS admins (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	username      TEXT    NOT NULL UNIQUE,
	password_hash TEXT    NOT NULL
);

CREATE TABLE IF NOT EXISTS settings (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// NewStore 打开（或创建）指定路径的 SQLite 数据库并初始化表结构。
//
// 级联删除依赖外键支持，必须开启 foreign_keys。
func NewStore(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	// foreign_keys 和 busy_timeout 是连接级 PRAGMA，必须写进 DSN，
	// 连接池新建的每个连接才会带上；journal_mode=WAL 持久化在数据库
	// 文件上，打开时执行一次即可。
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close 关闭数据库连接
func (s *Store) Close() error {
	return s.db.Close()
}

// Health 检查数据库健康状态
func (s *Store) Health() error {
	return s.db.Ping()
}

// isUniqueViolation 判断是否为唯一约束冲突。
// modernc.org/sqlite 没有导出专用错误类型，按约束错误文本判断。
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// isNoRows 判断是否为查询无结果。
func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
