package domain

import "errors"

// 业务错误定义。handler 层在边界处用 errors.Is 翻译为 HTTP 状态码。
var (
	// ErrMailboxNotFound 邮箱不存在
	ErrMailboxNotFound = errors.New("mailbox not found")
	// ErrDuplicateAddress 邮箱地址已被占用
	ErrDuplicateAddress = errors.New("address already exists")
	// ErrInvalidPasskey 通行密钥校验失败
	ErrInvalidPasskey = errors.New("invalid passkey")

	// ErrSessionNotFound 会话不存在或已过期
	ErrSessionNotFound = errors.New("session not found")

	// ErrDomainNotFound 域名不存在
	ErrDomainNotFound = errors.New("domain not found")
	// ErrDuplicateDomain 域名已存在
	ErrDuplicateDomain = errors.New("domain already exists")
	// ErrNoActiveDomain 没有可用的激活域名
	ErrNoActiveDomain = errors.New("no active domain configured")

	// ErrAdminNotFound 管理员不存在
	ErrAdminNotFound = errors.New("admin not found")
	// ErrInvalidCredentials 用户名或密码错误
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken 用户名已被占用
	ErrUsernameTaken = errors.New("username already taken")

	// ErrSettingNotFound 设置项不存在
	ErrSettingNotFound = errors.New("setting not found")
)
