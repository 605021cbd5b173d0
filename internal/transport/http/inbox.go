package httptransport

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tonyliuzj/mailsy/internal/domain"
	"github.com/tonyliuzj/mailsy/internal/imap"
	"github.com/tonyliuzj/mailsy/internal/monitoring"
	"github.com/tonyliuzj/mailsy/internal/service"
)

// InboxHandler 处理收件箱拉取
type InboxHandler struct {
	domains *service.DomainService
	gateway imap.InboxFetcher
	metrics *monitoring.Metrics
	log     *zap.Logger
}

// NewInboxHandler 创建收件箱处理器
func NewInboxHandler(domains *service.DomainService, gateway imap.InboxFetcher, metrics *monitoring.Metrics, log *zap.Logger) *InboxHandler {
	return &InboxHandler{domains: domains, gateway: gateway, metrics: metrics, log: log}
}

// FetchEmailsRequest 拉取收件箱请求
type FetchEmailsRequest struct {
	Address string `json:"address" binding:"required"`
}

// FetchEmails 拉取当前邮箱的收件箱
// POST /api/emails
//
// 只允许拉取会话所属邮箱的地址；上游 IMAP 故障统一返回
// 通用错误，不向客户端暴露主机名和凭证信息。
func (h *InboxHandler) FetchEmails(c *gin.Context) {
	mailbox := currentMailbox(c)
	if mailbox == nil {
		Unauthorized(c, MsgAuthRequired)
		return
	}

	var req FetchEmailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, MsgInvalidRequest)
		return
	}

	if domain.NormalizeAddress(req.Address) != mailbox.Address {
		Forbidden(c, MsgNotMailboxOwner)
		return
	}

	mailDomain, err := h.domains.GetByName(mailbox.DomainName)
	if err != nil {
		if errors.Is(err, domain.ErrDomainNotFound) {
			h.log.Warn("mailbox references missing domain",
				zap.String("address", mailbox.Address),
				zap.String("domain", mailbox.DomainName),
			)
			NotFound(c, GetErrorMessage(err))
			return
		}
		h.log.Error("load domain failed", zap.Error(err))
		InternalError(c, MsgInternalError)
		return
	}

	start := time.Now()
	messages, err := h.gateway.FetchInbox(c.Request.Context(), mailbox.Address, mailDomain)
	if err != nil {
		h.metrics.RecordIMAPFetch("error", time.Since(start))
		h.logFetchError(mailbox.Address, err)
		InternalError(c, MsgInboxFetchFailed)
		return
	}
	h.metrics.RecordIMAPFetch("success", time.Since(start))

	if messages == nil {
		messages = []domain.Message{}
	}
	Success(c, gin.H{"messages": messages})
}

// logFetchError 记录 IMAP 故障的具体阶段，日志中不含凭证
func (h *InboxHandler) logFetchError(address string, err error) {
	var (
		connectErr *imap.ConnectError
		searchErr  *imap.SearchError
		fetchErr   *imap.FetchError
	)
	switch {
	case errors.As(err, &connectErr):
		h.log.Error("imap connect failed", zap.String("address", address), zap.Error(err))
	case errors.As(err, &searchErr):
		h.log.Error("imap search failed", zap.String("address", address), zap.Error(err))
	case errors.As(err, &fetchErr):
		h.log.Error("imap fetch failed", zap.String("address", address), zap.Error(err))
	default:
		h.log.Error("inbox fetch failed", zap.String("address", address), zap.Error(err))
	}
}
