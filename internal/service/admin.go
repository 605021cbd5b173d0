package service

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/storage"
)

var (
	// ErrPasswordTooShort 管理员密码至少 6 个字符
	ErrPasswordTooShort = errors.New("password must be at least 6 characters")
	// ErrUsernameRequired 用户名不能为空
	ErrUsernameRequired = errors.New("username is required")
)

// AdminService 封装管理员账户的认证和维护。
type AdminService struct {
	admins storage.AdminRepository
}

// NewAdminService 创建管理员业务服务。
func NewAdminService(admins storage.AdminRepository) *AdminService {
	return &AdminService{admins: admins}
}

// Seed 在管理员表为空时播种默认账户，幂等。
func (s *AdminService) Seed(username, password string) error {
	count, err := s.admins.CountAdmins()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing seed password: %w", err)
	}
	return s.admins.CreateAdmin(&domain.Admin{
		Username:     username,
		PasswordHash: string(hash),
	})
}

// Login 校验管理员凭证。
//
// 用户名不存在和密码错误统一返回 ErrInvalidCredentials，
// 避免枚举有效用户名。
func (s *AdminService) Login(username, password string) (*domain.Admin, error) {
	admin, err := s.admins.GetAdminByUsername(strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrAdminNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return admin, nil
}

// ChangeUsername 修改管理员用户名，需要先验证当前密码。
func (s *AdminService) ChangeUsername(currentUsername, password, newUsername string) error {
	admin, err := s.Login(currentUsername, password)
	if err != nil {
		return err
	}

	newUsername = strings.TrimSpace(newUsername)
	if newUsername == "" {
		return ErrUsernameRequired
	}
	return s.admins.UpdateAdminUsername(admin.ID, newUsername)
}

// ChangePassword 修改管理员密码，需要先验证当前密码。
func (s *AdminService) ChangePassword(username, currentPassword, newPassword string) error {
	admin, err := s.Login(username, currentPassword)
	if err != nil {
		return err
	}

	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing new password: %w", err)
	}
	return s.admins.UpdateAdminPassword(admin.ID, string(hash))
}

// ResetCredentials 无条件覆盖管理员凭证，供 cmd/create-admin 使用。
func (s *AdminService) ResetCredentials(username, password string) error {
	if strings.TrimSpace(username) == "" {
		return ErrUsernameRequired
	}
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	admin, err := s.admins.GetAdminByUsername(username)
	if err == nil {
		return s.admins.UpdateAdminPassword(admin.ID, string(hash))
	}
	if !errors.Is(err, domain.ErrAdminNotFound) {
		return err
	}
	return s.admins.CreateAdmin(&domain.Admin{
		Username:     username,
		PasswordHash: string(hash),
	})
}
