package service

import (
	"errors"
	"strings"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage"
)

// ErrDomainNameRequired 缺少域名名称
var ErrDomainNameRequired = errors.New("domain name is required")

// DomainService 封装邮件域名的管理操作。
type DomainService struct {
	domains storage.DomainRepository
}

// NewDomainService 创建域名业务服务。
func NewDomainService(domains storage.DomainRepository) *DomainService {
	return &DomainService{domains: domains}
}

// DomainInput 定义创建/更新域名的输入。
type DomainInput struct {
	Name         string
	IMAPHost     string
	IMAPPort     int
	IMAPUser     string
	IMAPPassword string
	IMAPTLS      bool
	IsActive     bool
}

// Create 新增域名，名称冲突返回 ErrDuplicateDomain。
func (s *DomainService) Create(input DomainInput) (*domain.Domain, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, ErrDomainNameRequired
	}

	d := &domain.Domain{
		Name:         name,
		IMAPHost:     input.IMAPHost,
		IMAPPort:     portOrDefault(input.IMAPPort),
		IMAPUser:     input.IMAPUser,
		IMAPPassword: input.IMAPPassword,
		IMAPTLS:      input.IMAPTLS,
		IsActive:     input.IsActive,
	}
	if err := s.domains.CreateDomain(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Update 覆盖域名的全部可编辑字段。
// 密码留空表示沿用已保存的值。
func (s *DomainService) Update(id int64, input DomainInput) (*domain.Domain, error) {
	name := strings.ToLower(strings.TrimSpace(input.Name))
	if name == "" {
		return nil, ErrDomainNameRequired
	}

	password := input.IMAPPassword
	if password == "" {
		existing, err := s.domains.GetDomain(id)
		if err != nil {
			return nil, err
		}
		password = existing.IMAPPassword
	}

	d := &domain.Domain{
		ID:           id,
		Name:         name,
		IMAPHost:     input.IMAPHost,
		IMAPPort:     portOrDefault(input.IMAPPort),
		IMAPUser:     input.IMAPUser,
		IMAPPassword: password,
		IMAPTLS:      input.IMAPTLS,
		IsActive:     input.IsActive,
	}
	if err := s.domains.UpdateDomain(d); err != nil {
		return nil, err
	}
	return d, nil
}

// Delete 删除域名。
func (s *DomainService) Delete(id int64) error {
	return s.domains.DeleteDomain(id)
}

// List 返回全部域名（管理端视图）。
func (s *DomainService) List() ([]domain.Domain, error) {
	return s.domains.ListDomains()
}

// ListActive 返回激活域名（公开视图由 handler 过滤字段）。
func (s *DomainService) ListActive() ([]domain.Domain, error) {
	return s.domains.ListActiveDomains()
}

// GetByName 按名称查询域名。
func (s *DomainService) GetByName(name string) (*domain.Domain, error) {
	return s.domains.GetDomainByName(name)
}

// FirstActive 返回第一个激活域名，没有则返回 ErrNoActiveDomain。
func (s *DomainService) FirstActive() (*domain.Domain, error) {
	active, err := s.domains.ListActiveDomains()
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return nil, domain.ErrNoActiveDomain
	}
	return &active[0], nil
}

// portOrDefault 端口缺省取 IMAPS 的 993。
func portOrDefault(port int) int {
	if port <= 0 || port > 65535 {
		return 993
	}
	return port
}
