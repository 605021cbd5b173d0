package httptransport

import (
	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/service"
	"github.com/tonyliuzj/mailsy/internal/turnstile"
)

// 错误消息映射表（业务错误 -> 中文消息）
var errorMessages = map[error]string{
	// Mailbox 错误
	domain.ErrMailboxNotFound:        "邮箱不存在",
	domain.ErrDuplicateAddress:       "该邮箱地址已被占用",
	domain.ErrInvalidPasskey:         "邮箱地址或密钥错误",
	domain.ErrInvalidAddress:         "邮箱地址格式无效",
	domain.ErrAddressTooLong:         "邮箱地址过长",
	domain.ErrInvalidLocalPart:       "邮箱前缀格式无效",
	domain.ErrLocalPartTooLong:       "邮箱前缀过长",
	service.ErrInvalidMailboxType:    "邮箱创建类型无效",
	service.ErrCustomAddressRequired: "自定义邮箱地址不能为空",

	// Domain 错误
	domain.ErrDomainNotFound:      "域名不存在",
	domain.ErrDuplicateDomain:     "域名已存在",
	domain.ErrNoActiveDomain:      "暂无可用域名，请联系管理员",
	service.ErrDomainNameRequired: "域名不能为空",

	// Admin 错误
	domain.ErrInvalidCredentials: "用户名或密码错误",
	domain.ErrUsernameTaken:      "用户名已被占用",
	service.ErrPasswordTooShort:  "密码长度至少为 6 位",
	service.ErrUsernameRequired:  "用户名不能为空",

	// 设置错误
	service.ErrSiteTitleRequired: "站点标题不能为空",
	service.ErrAdminPathTooShort: "管理入口路径至少为 3 个字符",

	// 人机验证错误
	turnstile.ErrMissingToken:       "请完成人机验证",
	turnstile.ErrVerificationFailed: "人机验证未通过，请重试",
}

// GetErrorMessage 获取错误的中文消息
func GetErrorMessage(err error) string {
	if msg, ok := errorMessages[err]; ok {
		return msg
	}
	return err.Error()
}

// 通用错误消息
const (
	// 请求相关
	MsgInvalidRequest = "请求参数格式错误"

	// 认证相关
	MsgAuthRequired       = "请先登录"
	MsgInvalidCredentials = "用户名或密码错误"
	MsgNotMailboxOwner    = "无权访问该邮箱"

	// 邮箱相关
	MsgMailboxCreateFailed = "创建邮箱失败"
	MsgMailboxDeleteFailed = "删除邮箱失败"
	MsgPasskeyResetFailed  = "重置密钥失败"

	// 邮件相关
	MsgInboxFetchFailed = "获取邮件失败，请稍后重试"

	// 域名相关
	MsgDomainListFailed   = "获取域名列表失败"
	MsgDomainCreateFailed = "添加域名失败"
	MsgDomainUpdateFailed = "更新域名失败"
	MsgDomainDeleteFailed = "删除域名失败"

	// 设置相关
	MsgSettingsGetFailed  = "获取设置失败"
	MsgSettingsSaveFailed = "保存设置失败"

	// 服务器错误
	MsgInternalError = "服务器内部错误，请稍后重试"
)
