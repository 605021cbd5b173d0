package imap

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	goimap "github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"
	"github.com/jaytaylor/html2text"

	"github.com/tonyliuzj/mailsy/internal/domain"
)

// parseMessage 把取回的报文缓冲解析为结构化邮件。
//
// 信封提供 UID、主题、发件人和日期；正文走 MIME 解析，
// 纯文本部分缺失时由 HTML 部分转换补上。
func parseMessage(buf *imapclient.FetchMessageBuffer, section *goimap.FetchItemBodySection) (domain.Message, error) {
	if buf.Envelope == nil {
		return domain.Message{}, fmt.Errorf("message %d has no envelope", buf.UID)
	}

	message := domain.Message{
		UID:     uint32(buf.UID),
		Subject: buf.Envelope.Subject,
		From:    formatSender(buf.Envelope.From),
		To:      formatRecipients(buf.Envelope.To),
		Date:    buf.Envelope.Date,
	}

	raw := buf.FindBodySection(section)
	if len(raw) == 0 {
		return message, nil
	}

	text, html, err := extractBodies(raw)
	if err != nil {
		return domain.Message{}, err
	}

	if text == "" && html != "" {
		if converted, err := html2text.FromString(html); err == nil {
			text = converted
		}
	}
	message.Text = text
	message.HTML = html
	return message, nil
}

// extractBodies 从原始 RFC 5322 报文中抽取 text/plain 和 text/html 部分。
func extractBodies(raw []byte) (text, html string, err error) {
	reader, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		// 整体解析失败时按纯文本兜底
		return string(raw), "", nil
	}
	defer reader.Close()

	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", "", fmt.Errorf("reading mime part: %w", err)
		}

		header, ok := part.Header.(*mail.InlineHeader)
		if !ok {
			continue // 附件不进收件视图
		}

		contentType, _, _ := header.ContentType()
		body, readErr := io.ReadAll(part.Body)
		if readErr != nil {
			continue
		}

		switch {
		case strings.HasPrefix(contentType, "text/plain") && text == "":
			text = string(body)
		case strings.HasPrefix(contentType, "text/html") && html == "":
			html = string(body)
		}
	}
	return text, html, nil
}

// formatSender 按显示名优先格式化第一个发件人。
func formatSender(from []goimap.Address) string {
	if len(from) == 0 {
		return ""
	}
	sender := from[0]
	if sender.Name != "" {
		return fmt.Sprintf("%s <%s>", sender.Name, sender.Addr())
	}
	return sender.Addr()
}

// formatRecipients 把收件人列表拼成逗号分隔的地址串。
func formatRecipients(recipients []goimap.Address) string {
	addrs := make([]string, 0, len(recipients))
	for _, r := range recipients {
		addrs = append(addrs, r.Addr())
	}
	return strings.Join(addrs, ", ")
}
