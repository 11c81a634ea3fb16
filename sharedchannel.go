package masstransit

import (
	"context"
	"sync"
)

var _ ChannelOps = (*SharedChannelContext)(nil)

// SharedChannelContext 让多个逻辑借用方复用同一个 channel。
// 所有操作透传给底层 channel，唯一的行为差异是 cancellation：
// 转发时一律使用借用方自己的 context（忽略调用时传入的），
// 这样取消一个借用方不会影响共用 channel 的其他借用方。
// channel 的生命周期归属其创建者，这里只是借用
type SharedChannelContext struct {
	ch  ChannelOps
	ctx context.Context // 借用方的 context

	completed chan struct{}
	once      sync.Once
}

func NewSharedChannel(borrower context.Context, ch ChannelOps) *SharedChannelContext {
	if borrower == nil {
		borrower = context.Background()
	}
	return &SharedChannelContext{
		ch:        ch,
		ctx:       borrower,
		completed: make(chan struct{}),
	}
}

// Dispose 释放借用，幂等；首次调用触发完成信号
func (sc *SharedChannelContext) Dispose() {
	sc.once.Do(func() {
		close(sc.completed)
	})
}

// Completed channel 的真正持有者在关闭底层 channel 之前，
// 等待所有借用方的完成信号
func (sc *SharedChannelContext) Completed() <-chan struct{} {
	return sc.completed
}

func (sc *SharedChannelContext) alive() error {
	select {
	case <-sc.completed:
		return ErrChannelDisposed
	default:
		return nil
	}
}

func (sc *SharedChannelContext) ExchangeDeclare(_ context.Context, name, kind string, durable, autoDelete bool) error {
	if err := sc.alive(); err != nil {
		return err
	}
	return sc.ch.ExchangeDeclare(sc.ctx, name, kind, durable, autoDelete)
}

func (sc *SharedChannelContext) QueueDeclare(_ context.Context, name string, durable, autoDelete, exclusive bool) (string, error) {
	if err := sc.alive(); err != nil {
		return "", err
	}
	return sc.ch.QueueDeclare(sc.ctx, name, durable, autoDelete, exclusive)
}

func (sc *SharedChannelContext) QueueBind(_ context.Context, queue, key, exchange string) error {
	if err := sc.alive(); err != nil {
		return err
	}
	return sc.ch.QueueBind(sc.ctx, queue, key, exchange)
}

func (sc *SharedChannelContext) QueuePurge(_ context.Context, queue string) (int, error) {
	if err := sc.alive(); err != nil {
		return 0, err
	}
	return sc.ch.QueuePurge(sc.ctx, queue)
}

func (sc *SharedChannelContext) Qos(_ context.Context, prefetch int) error {
	if err := sc.alive(); err != nil {
		return err
	}
	return sc.ch.Qos(sc.ctx, prefetch)
}

func (sc *SharedChannelContext) Publish(_ context.Context, env *Envelope) error {
	if err := sc.alive(); err != nil {
		return err
	}
	return sc.ch.Publish(sc.ctx, env)
}

func (sc *SharedChannelContext) Consume(_ context.Context, queue string) (<-chan Delivery, error) {
	if err := sc.alive(); err != nil {
		return nil, err
	}
	return sc.ch.Consume(sc.ctx, queue)
}

func (sc *SharedChannelContext) Ack(_ context.Context, tag uint64) error {
	if err := sc.alive(); err != nil {
		return err
	}
	return sc.ch.Ack(sc.ctx, tag)
}

func (sc *SharedChannelContext) Nack(_ context.Context, tag uint64, requeue bool) error {
	if err := sc.alive(); err != nil {
		return err
	}
	return sc.ch.Nack(sc.ctx, tag, requeue)
}
