package imap

import "fmt"

// ConnectError 无法连接或登录 IMAP 服务器。
//
// 错误详情只进服务端日志，对外一律映射为通用 500，
// 不能泄露主机名和凭证。
type ConnectError struct {
	Err error
}

func (e *ConnectError) Error() string {
	return fmt.Sprintf("imap connect: %v", e.Err)
}

func (e *ConnectError) Unwrap() error { return e.Err }

// SearchError 搜索阶段的协议错误。
type SearchError struct {
	Err error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("imap search: %v", e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// FetchError 拉取阶段的协议错误。
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("imap fetch: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
