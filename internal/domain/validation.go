package domain

import (
	"errors"
	"net/mail"
	"strings"
)

// 输入校验错误
var (
	ErrInvalidAddress   = errors.New("invalid email address format")
	ErrAddressTooLong   = errors.New("email address too long")
	ErrInvalidLocalPart = errors.New("invalid local part format")
	ErrLocalPartTooLong = errors.New("local part too long (max 64 chars)")
)

// RFC 5322 长度限制
const (
	MaxAddressLength   = 254
	MaxLocalPartLength = 64
)

// ValidateLocalPart 校验邮箱地址 @ 前面的本地部分。
//
// 允许字母、数字和 . _ - 三种分隔符，首尾必须是字母或数字，
// 不允许空格和 @。
func ValidateLocalPart(local string) error {
	local = strings.TrimSpace(local)
	if local == "" || len(local) > MaxLocalPartLength {
		return ErrLocalPartTooLong
	}

	for i, r := range local {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '_' || r == '-':
			if i == 0 || i == len(local)-1 {
				return ErrInvalidLocalPart
			}
		default:
			return ErrInvalidLocalPart
		}
	}
	return nil
}

// ValidateAddress 校验完整邮箱地址。
func ValidateAddress(address string) error {
	address = strings.TrimSpace(address)
	if len(address) > MaxAddressLength {
		return ErrAddressTooLong
	}

	if _, err := mail.ParseAddress(address); err != nil {
		return ErrInvalidAddress
	}

	local, _, found := strings.Cut(address, "@")
	if !found {
		return ErrInvalidAddress
	}
	return ValidateLocalPart(local)
}

// NormalizeAddress 将地址规整为小写并去除首尾空白。
func NormalizeAddress(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}
