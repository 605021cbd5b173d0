package service

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage"
)

var (
	// ErrInvalidMailboxType 未知的邮箱创建方式
	ErrInvalidMailboxType = errors.New("invalid mailbox type")
	// ErrCustomAddressRequired 自定义方式缺少完整地址
	ErrCustomAddressRequired = errors.New("custom email address is required")
)

// 通行密钥为 16 位字母数字随机串，随创建和重置返回一次明文。
const (
	passkeyLength   = 16
	passkeyAlphabet = "abcdefghijklmnopqrstuvwxyz" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// MailboxType 邮箱地址的生成方式
type MailboxType string

const (
	// MailboxTypeRandom 随机词组地址，落在第一个激活域名上
	MailboxTypeRandom MailboxType = "random"
	// MailboxTypeCustom 调用方给出完整地址
	MailboxTypeCustom MailboxType = "custom"
	// MailboxTypeUsername 调用方给出本地部分，和指定域名拼接
	MailboxTypeUsername MailboxType = "username"
)

// MailboxService 封装邮箱账户相关业务操作。
type MailboxService struct {
	mailboxes storage.MailboxRepository
	domains   storage.DomainRepository
}

// NewMailboxService 创建邮箱业务服务。
func NewMailboxService(mailboxes storage.MailboxRepository, domains storage.DomainRepository) *MailboxService {
	return &MailboxService{
		mailboxes: mailboxes,
		domains:   domains,
	}
}

// CreateMailboxInput 定义创建邮箱所需的输入。
type CreateMailboxInput struct {
	Type       MailboxType
	Address    string // Type == custom 时的完整地址
	LocalPart  string // Type == username 时的本地部分
	DomainName string // Type == username 时的域名
}

// Create 创建新邮箱，返回记录和仅此一次可见的明文通行密钥。
//
// 地址冲突返回 domain.ErrDuplicateAddress，数据库里只保存密钥哈希。
func (s *MailboxService) Create(input CreateMailboxInput) (*domain.Mailbox, string, error) {
	address, domainName, err := s.resolveAddress(input)
	if err != nil {
		return nil, "", err
	}

	if err := domain.ValidateAddress(address); err != nil {
		return nil, "", err
	}

	passkey, err := randomString(passkeyLength, passkeyAlphabet)
	if err != nil {
		return nil, "", fmt.Errorf("generating passkey: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passkey), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("hashing passkey: %w", err)
	}

	mailbox := &domain.Mailbox{
		Address:     address,
		PasskeyHash: string(hash),
		DomainName:  domainName,
		CreatedAt:   storage.Now(),
	}
	if err := s.mailboxes.CreateMailbox(mailbox); err != nil {
		return nil, "", err
	}
	return mailbox, passkey, nil
}

// resolveAddress 根据创建方式得出最终地址和所属域名。
func (s *MailboxService) resolveAddress(input CreateMailboxInput) (string, string, error) {
	switch input.Type {
	case MailboxTypeRandom:
		active, err := s.firstActiveDomain()
		if err != nil {
			return "", "", err
		}
		alias, err := RandomAlias()
		if err != nil {
			return "", "", err
		}
		return alias + "@" + active.Name, active.Name, nil

	case MailboxTypeCustom:
		if input.Address == "" {
			return "", "", ErrCustomAddressRequired
		}
		address := domain.NormalizeAddress(input.Address)
		_, name, found := strings.Cut(address, "@")
		if !found {
			return "", "", domain.ErrInvalidAddress
		}
		if _, err := s.domains.GetDomainByName(name); err != nil {
			return "", "", err
		}
		return address, name, nil

	case MailboxTypeUsername:
		local := strings.ToLower(strings.TrimSpace(input.LocalPart))
		if err := domain.ValidateLocalPart(local); err != nil {
			return "", "", err
		}
		if _, err := s.domains.GetDomainByName(input.DomainName); err != nil {
			return "", "", err
		}
		return local + "@" + input.DomainName, input.DomainName, nil

	default:
		return "", "", ErrInvalidMailboxType
	}
}

// Verify 校验地址和通行密钥。
//
// 地址不存在返回 ErrMailboxNotFound，密钥不匹配返回 ErrInvalidPasskey。
// 这里刻意不做失败锁定或限流。
func (s *MailboxService) Verify(address, passkey string) (*domain.Mailbox, error) {
	mailbox, err := s.mailboxes.GetMailboxByAddress(domain.NormalizeAddress(address))
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(mailbox.PasskeyHash), []byte(passkey)) != nil {
		return nil, domain.ErrInvalidPasskey
	}
	return mailbox, nil
}

// Get 按 ID 查询邮箱。
func (s *MailboxService) Get(id int64) (*domain.Mailbox, error) {
	return s.mailboxes.GetMailbox(id)
}

// Exists 查询地址是否已被占用。
func (s *MailboxService) Exists(address string) (bool, error) {
	_, err := s.mailboxes.GetMailboxByAddress(domain.NormalizeAddress(address))
	if err != nil {
		if errors.Is(err, domain.ErrMailboxNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// RegeneratePasskey 生成并替换通行密钥，返回新的明文密钥。
//
// 旧密钥立即失效；已发放的会话不受影响，密钥轮换独立于会话生命周期。
func (s *MailboxService) RegeneratePasskey(id int64) (string, error) {
	if _, err := s.mailboxes.GetMailbox(id); err != nil {
		return "", err
	}

	passkey, err := randomString(passkeyLength, passkeyAlphabet)
	if err != nil {
		return "", fmt.Errorf("generating passkey: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(passkey), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing passkey: %w", err)
	}

	if err := s.mailboxes.UpdatePasskeyHash(id, string(hash)); err != nil {
		return "", err
	}
	return passkey, nil
}

// Delete 删除邮箱，关联会话由存储层级联删除。
func (s *MailboxService) Delete(id int64) error {
	return s.mailboxes.DeleteMailbox(id)
}

// firstActiveDomain 返回第一个激活域名。
func (s *MailboxService) firstActiveDomain() (*domain.Domain, error) {
	active, err := s.domains.ListActiveDomains()
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, domain.ErrNoActiveDomain
	}
	return &active[0], nil
}

// randomString 用 crypto/rand 从字母表生成定长随机串。
func randomString(length int, alphabet string) (string, error) {
	max := big.NewInt(int64(len(alphabet)))
	result := make([]byte, length)
	for i := range result {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		result[i] = alphabet[n.Int64()]
	}
	return string(result), nil
}
