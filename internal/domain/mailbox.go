package domain

import "time"

// Mailbox 表示一个由通行密钥保护的临时邮箱账户。
//
// 地址在全系统内唯一；PasskeyHash 保存通行密钥的单向哈希，
// 明文密钥只在创建和重置时返回一次。
type Mailbox struct {
	ID          int64     `json:"id" db:"id"`
	Address     string    `json:"address" db:"address"`
	PasskeyHash string    `json:"-" db:"passkey_hash"` // 不返回给前端
	DomainName  string    `json:"domainName" db:"domain_name"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
