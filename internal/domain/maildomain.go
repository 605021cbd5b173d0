package domain

// Domain 表示一个可用的邮件域名及其 IMAP 接入配置。
//
// 域名由管理员维护；IMAP 凭证属于共享收件账户，
// 任何对外接口都不得暴露 IMAPUser / IMAPPassword。
type Domain struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	IMAPHost     string `json:"imapHost" db:"imap_host"`
	IMAPPort     int    `json:"imapPort" db:"imap_port"`
	IMAPUser     string `json:"imapUser" db:"imap_user"`
	IMAPPassword string `json:"-" db:"imap_password"` // 不返回给前端
	IMAPTLS      bool   `json:"imapTls" db:"imap_tls"`
	IsActive     bool   `json:"isActive" db:"is_active"`
}

// PublicDomain 是域名的对外视图，只包含可公开的字段。
type PublicDomain struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Public 返回域名的对外视图。
func (d *Domain) Public() PublicDomain {
	return PublicDomain{ID: d.ID, Name: d.Name}
}
