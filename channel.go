package masstransit

import (
	"context"
	"sync"

	"github.com/hunyxv/utils/spinlock"
)

// ChannelOps broker channel 的能力集合。
// 只描述 AMQP 协议级别的操作，不涉及具体 broker 的管理扩展，
// 换一个 broker 只需要实现一次绑定
type ChannelOps interface {
	// ExchangeDeclare 声明 exchange
	ExchangeDeclare(ctx context.Context, name, kind string, durable, autoDelete bool) error
	// QueueDeclare 声明队列，name 为空时由 broker 生成队列名
	QueueDeclare(ctx context.Context, name string, durable, autoDelete, exclusive bool) (string, error)
	// QueueBind 绑定队列
	QueueBind(ctx context.Context, queue, key, exchange string) error
	// QueuePurge 清空队列，返回清除的消息数
	QueuePurge(ctx context.Context, queue string) (int, error)
	// Qos 设置预取数量
	Qos(ctx context.Context, prefetch int) error
	// Publish 发布消息
	Publish(ctx context.Context, env *Envelope) error
	// Consume 注册消费者
	Consume(ctx context.Context, queue string) (<-chan Delivery, error)
	// Ack 确认消息
	Ack(ctx context.Context, tag uint64) error
	// Nack 否定确认
	Nack(ctx context.Context, tag uint64, requeue bool) error
}

var _ ChannelOps = (*SerialChannel)(nil)

// SerialChannel 对底层 channel 的所有调用做互斥。
// 物理 channel 不允许多个借用方交错执行结构性操作
// （declare/bind/注册消费者/ack），这里在委托调用外侧串行化；
// 响应匹配在上层进行，不在锁内
type SerialChannel struct {
	ch   ChannelOps
	lock sync.Locker
}

func NewSerialChannel(ch ChannelOps) *SerialChannel {
	return &SerialChannel{
		ch:   ch,
		lock: spinlock.NewSpinLock(),
	}
}

func (s *SerialChannel) ExchangeDeclare(ctx context.Context, name, kind string, durable, autoDelete bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.ExchangeDeclare(ctx, name, kind, durable, autoDelete)
}

func (s *SerialChannel) QueueDeclare(ctx context.Context, name string, durable, autoDelete, exclusive bool) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.QueueDeclare(ctx, name, durable, autoDelete, exclusive)
}

func (s *SerialChannel) QueueBind(ctx context.Context, queue, key, exchange string) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.QueueBind(ctx, queue, key, exchange)
}

func (s *SerialChannel) QueuePurge(ctx context.Context, queue string) (int, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.QueuePurge(ctx, queue)
}

func (s *SerialChannel) Qos(ctx context.Context, prefetch int) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.Qos(ctx, prefetch)
}

func (s *SerialChannel) Publish(ctx context.Context, env *Envelope) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.Publish(ctx, env)
}

func (s *SerialChannel) Consume(ctx context.Context, queue string) (<-chan Delivery, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.Consume(ctx, queue)
}

func (s *SerialChannel) Ack(ctx context.Context, tag uint64) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.Ack(ctx, tag)
}

func (s *SerialChannel) Nack(ctx context.Context, tag uint64, requeue bool) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.ch.Nack(ctx, tag, requeue)
}
