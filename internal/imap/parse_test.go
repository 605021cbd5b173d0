package imap

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goimap "github.com/emersion/go-imap/v2"
)

const multipartRaw = "From: Alice <alice@example.com>\r\n" +
	"To: inbox@temp.mail\r\n" +
	"Subject: Hello\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: multipart/alternative; boundary=\"frontier\"\r\n" +
	"\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/plain; charset=utf-8\r\n" +
	"\r\n" +
	"plain body\r\n" +
	"--frontier\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>html <b>body</b></p>\r\n" +
	"--frontier--\r\n"

const htmlOnlyRaw = "From: bob@example.com\r\n" +
	"To: inbox@temp.mail\r\n" +
	"Subject: HTML only\r\n" +
	"MIME-Version: 1.0\r\n" +
	"Content-Type: text/html; charset=utf-8\r\n" +
	"\r\n" +
	"<p>only html here</p>\r\n"

func TestExtractBodies_Multipart(t *testing.T) {
	text, html, err := extractBodies([]byte(multipartRaw))

	require.NoError(t, err)
	assert.Equal(t, "plain body", strings.TrimSpace(text))
	assert.Contains(t, html, "<b>body</b>")
}

func TestExtractBodies_HTMLOnly(t *testing.T) {
	text, html, err := extractBodies([]byte(htmlOnlyRaw))

	require.NoError(t, err)
	assert.Empty(t, strings.TrimSpace(text))
	assert.Contains(t, html, "only html here")
}

func TestExtractBodies_UnparsableFallsBackToRaw(t *testing.T) {
	raw := "not an rfc5322 message at all"

	text, html, err := extractBodies([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, raw, text)
	assert.Empty(t, html)
}

func TestExtractBodies_SkipsAttachments(t *testing.T) {
	raw := "From: carol@example.com\r\n" +
		"To: inbox@temp.mail\r\n" +
		"Subject: With attachment\r\n" +
		"MIME-Version: 1.0\r\n" +
		"Content-Type: multipart/mixed; boundary=\"frontier\"\r\n" +
		"\r\n" +
		"--frontier\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"see attachment\r\n" +
		"--frontier\r\n" +
		"Content-Type: application/octet-stream\r\n" +
		"Content-Disposition: attachment; filename=\"blob.bin\"\r\n" +
		"\r\n" +
		"BINARYDATA\r\n" +
		"--frontier--\r\n"

	text, html, err := extractBodies([]byte(raw))

	require.NoError(t, err)
	assert.Equal(t, "see attachment", strings.TrimSpace(text))
	assert.Empty(t, html)
	assert.NotContains(t, text, "BINARYDATA")
}

func TestFormatSender(t *testing.T) {
	assert.Equal(t, "", formatSender(nil))

	withName := []goimap.Address{{Name: "Alice", Mailbox: "alice", Host: "example.com"}}
	assert.Equal(t, "Alice <alice@example.com>", formatSender(withName))

	bare := []goimap.Address{{Mailbox: "bob", Host: "example.com"}}
	assert.Equal(t, "bob@example.com", formatSender(bare))
}

func TestFormatRecipients(t *testing.T) {
	recipients := []goimap.Address{
		{Mailbox: "one", Host: "temp.mail"},
		{Mailbox: "two", Host: "temp.mail"},
	}
	assert.Equal(t, "one@temp.mail, two@temp.mail", formatRecipients(recipients))
	assert.Equal(t, "", formatRecipients(nil))
}
