// Package memory 提供 storage.Store 的内存实现，用于测试和本地开发。
package memory

import (
	"sync"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// Store 内存存储实现，带互斥锁保护。
type Store struct {
	mu sync.RWMutex

	mailboxes     map[int64]*domain.Mailbox
	sessions      map[string]*domain.Session // token -> session
	domains       map[int64]*domain.Domain
	admins        map[int64]*domain.Admin
	settings      map[string]string
	nextMailboxID int64
	nextDomainID  int64
	nextAdminID   int64
}

// NewStore 创建内存存储。
func NewStore() *Store {
	return &Store{
		mailboxes:     make(map[int64]*domain.Mailbox),
		sessions:      make(map[string]*domain.Session),
		domains:       make(map[int64]*domain.Domain),
		admins:        make(map[int64]*domain.Admin),
		settings:      make(map[string]string),
		nextMailboxID: 1,
		nextDomainID:  1,
		nextAdminID:   1,
	}
}

// Health 内存存储永远健康。
func (s *Store) Health() error { return nil }

// Close 内存存储无需释放资源。
func (s *Store) Close() error { return nil }

// ========== Mailbox Repository ==========

func (s *Store) CreateMailbox(mailbox *domain.Mailbox) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.mailboxes {
		if existing.Address == mailbox.Address {
			return domain.ErrDuplicateAddress
		}
	}

	mailbox.ID = s.nextMailboxID
	s.nextMailboxID++
	clone := *mailbox
	s.mailboxes[mailbox.ID] = &clone
	return nil
}

func (s *Store) GetMailbox(id int64) (*domain.Mailbox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	mailbox, ok := s.mailboxes[id]
	if !ok {
		return nil, domain.ErrMailboxNotFound
	}
	clone := *mailbox
	return &clone, nil
}

func (s *Store) GetMailboxByAddress(address string) (*domain.Mailbox, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, mailbox := range s.mailboxes {
		if mailbox.Address == address {
			clone := *mailbox
			return &clone, nil
		}
	}
	return nil, domain.ErrMailboxNotFound
}

func (s *Store) UpdatePasskeyHash(id int64, passkeyHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mailbox, ok := s.mailboxes[id]
	if !ok {
		return domain.ErrMailboxNotFound
	}
	mailbox.PasskeyHash = passkeyHash
	return nil
}

func (s *Store) DeleteMailbox(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.mailboxes[id]; !ok {
		return domain.ErrMailboxNotFound
	}
	delete(s.mailboxes, id)

	// 模拟外键级联删除
	for token, session := range s.sessions {
		if session.MailboxID == id {
			delete(s.sessions, token)
		}
	}
	return nil
}

// ========== Session Repository ==========

func (s *Store) CreateSession(session *domain.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *session
	s.sessions[session.Token] = &clone
	return nil
}

func (s *Store) GetSessionByToken(token string) (*domain.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[token]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := *session
	return &clone, nil
}

func (s *Store) DeleteSession(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[token]; !ok {
		return domain.ErrSessionNotFound
	}
	delete(s.sessions, token)
	return nil
}

// ========== Domain Repository ==========

func (s *Store) CreateDomain(d *domain.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.domains {
		if existing.Name == d.Name {
			return domain.ErrDuplicateDomain
		}
	}

	d.ID = s.nextDomainID
	s.nextDomainID++
	clone := *d
	s.domains[d.ID] = &clone
	return nil
}

func (s *Store) GetDomain(id int64) (*domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	d, ok := s.domains[id]
	if !ok {
		return nil, domain.ErrDomainNotFound
	}
	clone := *d
	return &clone, nil
}

func (s *Store) GetDomainByName(name string) (*domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.domains {
		if d.Name == name {
			clone := *d
			return &clone, nil
		}
	}
	return nil, domain.ErrDomainNotFound
}

func (s *Store) ListDomains() ([]domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectDomains(func(*domain.Domain) bool { return true }), nil
}

func (s *Store) ListActiveDomains() ([]domain.Domain, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.collectDomains(func(d *domain.Domain) bool { return d.IsActive }), nil
}

// collectDomains 按 ID 升序收集满足条件的域名，调用方必须持有读锁。
func (s *Store) collectDomains(keep func(*domain.Domain) bool) []domain.Domain {
	result := make([]domain.Domain, 0, len(s.domains))
	for id := int64(1); id < s.nextDomainID; id++ {
		if d, ok := s.domains[id]; ok && keep(d) {
			result = append(result, *d)
		}
	}
	return result
}

func (s *Store) UpdateDomain(d *domain.Domain) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.domains[d.ID]
	if !ok {
		return domain.ErrDomainNotFound
	}
	for _, other := range s.domains {
		if other.ID != d.ID && other.Name == d.Name {
			return domain.ErrDuplicateDomain
		}
	}
	*existing = *d
	return nil
}

func (s *Store) DeleteDomain(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.domains[id]; !ok {
		return domain.ErrDomainNotFound
	}
	delete(s.domains, id)
	return nil
}

// ========== Admin Repository ==========

func (s *Store) CreateAdmin(admin *domain.Admin) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.admins {
		if existing.Username == admin.Username {
			return domain.ErrUsernameTaken
		}
	}

	admin.ID = s.nextAdminID
	s.nextAdminID++
	clone := *admin
	s.admins[admin.ID] = &clone
	return nil
}

func (s *Store) GetAdminByUsername(username string) (*domain.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, admin := range s.admins {
		if admin.Username == username {
			clone := *admin
			return &clone, nil
		}
	}
	return nil, domain.ErrAdminNotFound
}

func (s *Store) UpdateAdminUsername(id int64, username string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[id]
	if !ok {
		return domain.ErrAdminNotFound
	}
	for _, other := range s.admins {
		if other.ID != id && other.Username == username {
			return domain.ErrUsernameTaken
		}
	}
	admin.Username = username
	return nil
}

func (s *Store) UpdateAdminPassword(id int64, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	admin, ok := s.admins[id]
	if !ok {
		return domain.ErrAdminNotFound
	}
	admin.PasswordHash = passwordHash
	return nil
}

func (s *Store) CountAdmins() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.admins), nil
}

// ========== Setting Repository ==========

func (s *Store) GetSetting(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.settings[key]
	if !ok {
		return "", domain.ErrSettingNotFound
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}
