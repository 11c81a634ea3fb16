package masstransit

import (
	"errors"
	"fmt"
)

var (
	// errors
	ErrRequestTimeout      = errors.New("masstransit: request timed out")
	ErrRequestCanceled     = errors.New("masstransit: request canceled")
	ErrNoAcceptedTypes     = errors.New("masstransit: no accepted reply types")
	ErrDuplicateAcceptType = errors.New("masstransit: duplicate accept type")
	ErrClientClosed        = errors.New("masstransit: client closed")
	ErrChannelDisposed     = errors.New("masstransit: channel context disposed")
)

// FaultError 处理方显式返回的异常响应，与超时无关
type FaultError struct {
	URN     string // 异常消息类型
	Message string
	Body    []byte // 原始消息体
}

func (e *FaultError) Error() string {
	if e.URN == "" {
		return fmt.Sprintf("masstransit: fault: %s", e.Message)
	}
	return fmt.Sprintf("masstransit: fault [%s]: %s", e.URN, e.Message)
}
