package storage

import (
	"time"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// MailboxRepository 定义邮箱数据存取操作。
type MailboxRepository interface {
	CreateMailbox(mailbox *domain.Mailbox) error
	GetMailbox(id int64) (*domain.Mailbox, error)
	GetMailboxByAddress(address string) (*domain.Mailbox, error)
	UpdatePasskeyHash(id int64, passkeyHash string) error
	DeleteMailbox(id int64) error // 级联删除关联会话
}

// SessionRepository 定义会话数据存取操作。
type SessionRepository interface {
	CreateSession(session *domain.Session) error
	GetSessionByToken(token string) (*domain.Session, error)
	DeleteSession(token string) error
}

// DomainRepository 定义域名数据存取操作。
type DomainRepository interface {
	CreateDomain(d *domain.Domain) error
	GetDomain(id int64) (*domain.Domain, error)
	GetDomainByName(name string) (*domain.Domain, error)
	ListDomains() ([]domain.Domain, error)
	ListActiveDomains() ([]domain.Domain, error)
	UpdateDomain(d *domain.Domain) error
	DeleteDomain(id int64) error
}

// AdminRepository 定义管理员数据存取操作。
type AdminRepository interface {
	CreateAdmin(admin *domain.Admin) error
	GetAdminByUsername(username string) (*domain.Admin, error)
	UpdateAdminUsername(id int64, username string) error
	UpdateAdminPassword(id int64, passwordHash string) error
	CountAdmins() (int, error)
}

// SettingRepository 定义站点设置数据存取操作。
type SettingRepository interface {
	GetSetting(key string) (string, error)
	SetSetting(key, value string) error
}

// Store 聚合所有存储接口。
//
// 由 cmd/server 显式构造并注入各业务组件，
// 生命周期（打开/建表/关闭）由应用启动和停机流程控制。
type Store interface {
	MailboxRepository
	SessionRepository
	DomainRepository
	AdminRepository
	SettingRepository

	Health() error
	Close() error
}

// Now 返回统一的 UTC 时间，保证跨存储实现的时间语义一致。
func Now() time.Time {
	return time.Now().UTC()
}
