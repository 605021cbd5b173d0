package domain

import "time"

// Message 表示从 IMAP 服务器取回并解析后的一封邮件。
//
// UID 来自 IMAP 服务器，在同一收件账户内唯一，
// 客户端以它为去重键。
type Message struct {
	UID     uint32    `json:"uid"`
	Subject string    `json:"subject"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	Date    time.Time `json:"date"`
	Text    string    `json:"text"`
	HTML    string    `json:"html,omitempty"`
}
