package masstransit

import (
	"errors"
)

const (
	REQUEST = string(rune(iota + 1)) // 请求包
	REPLY                            // 响应包，与 request 对应的回复
	FAULT                            // 处理方显式返回的异常包
)

const (
	CORRELATIONID = "__correlation_id__" // 请求与响应的关联 id
	ACCEPTTYPE    = "__accept_type__"    // 请求方声明可接收的响应类型
	MESSAGETYPE   = "__message_type__"   // 消息体类型 urn
	STAGE         = "__stage__"          // 消息所处阶段
	REPLYTO       = "__reply_to__"       // 响应投递队列
)

var (
	ErrNoCorrelationID = errors.New("masstransit: envelope: no correlation id")
)

type Header map[string][]string

func (h Header) Set(key, value string) {
	h[key] = []string{value}
}

func (h Header) Add(key, value string) {
	h[key] = append(h[key], value)
}

func (h Header) Get(key string) string {
	if len(h[key]) == 0 {
		return ""
	}
	return h[key][0]
}

func (h Header) Has(key string) bool {
	_, ok := h[key]
	return ok
}

// Envelope 出站消息：由上层提供已序列化的消息体，本层只负责补齐头部
type Envelope struct {
	Exchange    string
	RoutingKey  string
	ReplyTo     string
	Stage       string
	MessageURN  string
	ContentType string
	Header      Header
	Body        []byte
}

func (e *Envelope) Set(key, value string) {
	if e.Header == nil {
		e.Header = make(Header)
	}
	e.Header.Set(key, value)
}

func (e *Envelope) Get(key string) string {
	if e.Header == nil {
		return ""
	}
	return e.Header.Get(key)
}

func (e *Envelope) SetCorrelationID(id string) {
	e.Set(CORRELATIONID, id)
}

func (e *Envelope) CorrelationID() string {
	return e.Get(CORRELATIONID)
}

// SetAcceptTypes 在头部声明可接收的响应类型（旧的消费方可以忽略该头部）
func (e *Envelope) SetAcceptTypes(urns []string) {
	e.Set(ACCEPTTYPE, EncodeAcceptTypes(urns))
}

// Delivery 入站消息：反序列化之前的响应/异常包
type Delivery struct {
	Stage         string
	MessageURN    string
	CorrelationID string
	Header        Header
	Body          []byte
	Tag           uint64 // broker 侧的投递标记，用于 ack/nack
}

func (d *Delivery) Get(key string) string {
	if d.Header == nil {
		return ""
	}
	return d.Header.Get(key)
}
