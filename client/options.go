package client

import (
	"time"

	masstransit "github.com/rafaela2/MassTransit"
)

type Option func(opt *options)

type options struct {
	Serializer     masstransit.Serializer
	Logger         masstransit.Logger
	WorkPoolSize   int           // 入站分发工作池大小
	DefaultTimeout time.Duration // Send 未指定时的超时
	Prefetch       int           // 预取数量，0 表示不设置
	ReplyQueue     string        // 响应队列名，空则由 broker 生成
}

// WithSerializer 设置消息体编解码
func WithSerializer(s masstransit.Serializer) Option {
	return func(opt *options) {
		opt.Serializer = s
	}
}

// WithLogger 设置 logger
func WithLogger(logger masstransit.Logger) Option {
	return func(opt *options) {
		opt.Logger = logger
	}
}

// WithWorkPoolSize 设置入站分发工作池大小
func WithWorkPoolSize(size int) Option {
	return func(opt *options) {
		opt.WorkPoolSize = size
	}
}

// WithDefaultTimeout 设置默认请求超时
func WithDefaultTimeout(t time.Duration) Option {
	return func(opt *options) {
		opt.DefaultTimeout = t
	}
}

// WithPrefetch 设置响应队列预取数量
func WithPrefetch(n int) Option {
	return func(opt *options) {
		opt.Prefetch = n
	}
}

// WithReplyQueue 指定响应队列名（不同客户端不能相同）
func WithReplyQueue(name string) Option {
	return func(opt *options) {
		opt.ReplyQueue = name
	}
}
