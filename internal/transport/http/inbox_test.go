package httptransport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/imap"
	"github.com/tonyliuzj/mailsy/internal/middleware"
	"github.com/tonyliuzj/mailsy/internal/monitoring"
	"github.com/tonyliuzj/mailsy/internal/service"
	"github.com/tonyliuzj/mailsy/internal/storage/memory"
)

type stubGateway struct {
	messages []domain.Message
	err      error
}

func (s *stubGateway) FetchInbox(ctx context.Context, address string, cfg *domain.Domain) ([]domain.Message, error) {
	return s.messages, s.err
}

var testMetrics = monitoring.NewMetrics()

func newInboxRouter(t *testing.T, gateway imap.InboxFetcher) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := memory.NewStore()
	require.NoError(t, store.CreateDomain(&domain.Domain{
		Name:     "temp.mail",
		IMAPHost: "imap.internal.example",
		IMAPPort: 993,
		IMAPUser: "catchall@temp.mail",
		IsActive: true,
	}))
	mailbox := &domain.Mailbox{Address: "user@temp.mail", DomainName: "temp.mail"}
	require.NoError(t, store.CreateMailbox(mailbox))

	handler := NewInboxHandler(service.NewDomainService(store), gateway, testMetrics, zap.NewNop())

	router := gin.New()
	router.POST("/api/emails", func(c *gin.Context) {
		// 测试里直接注入会话解析结果
		c.Set(middleware.ContextMailbox, mailbox)
		c.Next()
	}, handler.FetchEmails)
	return router
}

func TestInboxHandler_FetchEmails(t *testing.T) {
	gateway := &stubGateway{messages: []domain.Message{
		{UID: 7, Subject: "hi", From: "alice@example.com", Date: time.Now()},
	}}
	router := newInboxRouter(t, gateway)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/emails",
		strings.NewReader(`{"address":"user@temp.mail"}`))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"hi"`)
}

func TestInboxHandler_RejectsForeignAddress(t *testing.T) {
	router := newInboxRouter(t, &stubGateway{})

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/emails",
		strings.NewReader(`{"address":"someone-else@temp.mail"}`))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusForbidden, recorder.Code)
}

func TestInboxHandler_UpstreamFailureStaysGeneric(t *testing.T) {
	// 上游故障信息里带着主机名，不能进响应体
	gateway := &stubGateway{
		err: &imap.ConnectError{Err: errors.New("dial tcp imap.internal.example:993: connection refused")},
	}
	router := newInboxRouter(t, gateway)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/api/emails",
		strings.NewReader(`{"address":"user@temp.mail"}`))
	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "imap.internal.example")
	assert.NotContains(t, recorder.Body.String(), "connection refused")
	assert.Contains(t, recorder.Body.String(), MsgInboxFetchFailed)
}
