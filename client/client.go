package client

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	masstransit "github.com/rafaela2/MassTransit"
)

// RequestClient 请求/响应关联层：
// 发出请求后登记在途表，入站响应/异常按关联 id 路由回等待方，
// deadline 到期未终结的请求以超时收尾
type RequestClient struct {
	shared     *masstransit.SharedChannelContext
	serializer masstransit.Serializer
	logger     masstransit.Logger
	table      *pendingTable
	pool       *ants.Pool
	replyQueue string
	opts       *options

	cancel   context.CancelFunc
	c        chan struct{}
	isClosed int32
}

// New 基于一个已打开的 channel 创建客户端。
// channel 由调用方建立并持有；多个借用方共用同一物理 channel 时，
// 传入同一个 SerialChannel 实例
func New(ctx context.Context, ch masstransit.ChannelOps, opts ...Option) (*RequestClient, error) {
	defOpts := &options{
		Serializer:     masstransit.NewMsgpackSerializer(),
		Logger:         masstransit.DefaultLogger(),
		WorkPoolSize:   runtime.NumCPU(),
		DefaultTimeout: 30 * time.Second,
	}
	for _, f := range opts {
		f(defOpts)
	}

	cctx, cancel := context.WithCancel(ctx)
	shared := masstransit.NewSharedChannel(cctx, ch)

	pool, err := ants.NewPool(defOpts.WorkPoolSize)
	if err != nil {
		cancel()
		return nil, err
	}

	if defOpts.Prefetch > 0 {
		if err := shared.Qos(cctx, defOpts.Prefetch); err != nil {
			pool.Release()
			cancel()
			return nil, err
		}
	}

	// 响应投递队列：独占、断开自动删除
	queue, err := shared.QueueDeclare(cctx, defOpts.ReplyQueue, false, true, true)
	if err != nil {
		pool.Release()
		cancel()
		return nil, err
	}

	deliveries, err := shared.Consume(cctx, queue)
	if err != nil {
		pool.Release()
		cancel()
		return nil, err
	}

	cli := &RequestClient{
		shared:     shared,
		serializer: defOpts.Serializer,
		logger:     defOpts.Logger,
		table:      &pendingTable{},
		pool:       pool,
		replyQueue: queue,
		opts:       defOpts,
		cancel:     cancel,
		c:          make(chan struct{}),
	}
	go cli.dispatcher(deliveries)
	return cli, nil
}

// ReplyQueue 响应投递队列名
func (cli *RequestClient) ReplyQueue() string {
	return cli.replyQueue
}

// Completed 本客户端对 channel 的借用释放信号，
// channel 持有者关闭底层 channel 前等待它
func (cli *RequestClient) Completed() <-chan struct{} {
	return cli.shared.Completed()
}

// Send 发出请求，返回等待终态的 Future。
// 在途条目在 publish 之前登记，避免响应先于登记返回；
// publish 失败同步返回错误，不留下在途条目
func (cli *RequestClient) Send(ctx context.Context, exchange, routingKey string, msg any,
	accepted []masstransit.MessageType, timeout time.Duration) (*Future, error) {
	if atomic.LoadInt32(&cli.isClosed) == 1 {
		return nil, masstransit.ErrClientClosed
	}
	if len(accepted) == 0 {
		return nil, masstransit.ErrNoAcceptedTypes
	}
	urns := make([]string, 0, len(accepted))
	for _, mt := range accepted {
		for _, seen := range urns {
			if seen == mt.URN {
				return nil, errors.WithMessage(masstransit.ErrDuplicateAcceptType, mt.URN)
			}
		}
		urns = append(urns, mt.URN)
	}
	if timeout <= 0 {
		timeout = cli.opts.DefaultTimeout
	}

	body, err := cli.serializer.Marshal(msg)
	if err != nil {
		return nil, errors.WithMessage(err, "masstransit: marshal request")
	}

	correlationID := masstransit.NewCorrelationID()
	env := &masstransit.Envelope{
		Exchange:    exchange,
		RoutingKey:  routingKey,
		ReplyTo:     cli.replyQueue,
		Stage:       masstransit.REQUEST,
		MessageURN:  masstransit.URNOfValue(msg),
		ContentType: cli.serializer.ContentType(),
		Header:      make(masstransit.Header),
		Body:        body,
	}
	env.SetCorrelationID(correlationID)
	env.SetAcceptTypes(urns)
	env.Set(masstransit.REPLYTO, cli.replyQueue)

	tctx, span := masstransit.StartSpan(ctx, "request "+env.MessageURN)
	masstransit.InjectTrace(tctx, env.Header)

	p := newPendingRequest(correlationID, accepted, cli.table)
	p.scheduleDeadline(timeout)
	if err := cli.table.insert(p); err != nil {
		p.abandon()
		span.End()
		return nil, err
	}
	if p.isResolved() {
		// deadline 在登记完成前就已到期
		cli.table.remove(correlationID)
		span.End()
		return p.future, nil
	}

	if err := cli.shared.Publish(ctx, env); err != nil {
		p.abandon()
		span.End()
		return nil, errors.WithMessagef(err, "correlation id %s", correlationID)
	}

	go func() {
		select {
		case <-p.future.Done():
		case <-ctx.Done():
			p.resolve(nil, errors.WithMessage(masstransit.ErrRequestCanceled, ctx.Err().Error()))
		case <-cli.c:
			p.resolve(nil, masstransit.ErrClientClosed)
		}
		span.End()
	}()
	return p.future, nil
}

func (cli *RequestClient) dispatcher(deliveries <-chan masstransit.Delivery) {
	for {
		select {
		case <-cli.c:
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			if err := cli.pool.Submit(func() { cli.dispatch(d) }); err != nil {
				cli.logger.Warnf("masstransit: dispatch submit: %v", err)
				cli.dispatch(d)
			}
		}
	}
}

// dispatch 无论结局如何都 ack：迟到/未知/不匹配的消息丢弃即可，
// 绝不留下未确认消息触发重投
func (cli *RequestClient) dispatch(d masstransit.Delivery) {
	defer cli.ack(d)

	if d.CorrelationID == "" {
		cli.logger.Warnf("%v, dropped", masstransit.ErrNoCorrelationID)
		return
	}
	p, ok := cli.table.load(d.CorrelationID)
	if !ok {
		// 已终结或未知的关联 id
		cli.logger.Debugf("masstransit: unknown correlation id %s, dropped", d.CorrelationID)
		return
	}

	switch d.Stage {
	case masstransit.FAULT:
		cli.onFault(p, d)
	default:
		cli.onReply(p, d)
	}
}

func (cli *RequestClient) onReply(p *pendingRequest, d masstransit.Delivery) {
	mt, ok := p.accepts(d.MessageURN)
	if !ok {
		// 不在声明类型之内，丢弃；请求继续等到 deadline
		cli.logger.Debugf("masstransit: reply type %s not accepted for %s, dropped",
			d.MessageURN, p.correlationID)
		return
	}

	payload := mt.New()
	if err := cli.serializer.Unmarshal(d.Body, payload); err != nil {
		p.resolve(nil, errors.WithMessagef(err, "masstransit: unmarshal reply %s", mt.URN))
		return
	}
	p.resolve(&Response{urn: mt.URN, header: d.Header, payload: payload}, nil)
}

func (cli *RequestClient) onFault(p *pendingRequest, d masstransit.Delivery) {
	var message string
	if err := cli.serializer.Unmarshal(d.Body, &message); err != nil {
		message = string(d.Body)
	}
	p.resolve(nil, &masstransit.FaultError{
		URN:     d.MessageURN,
		Message: message,
		Body:    d.Body,
	})
}

func (cli *RequestClient) ack(d masstransit.Delivery) {
	if err := cli.shared.Ack(context.Background(), d.Tag); err != nil {
		cli.logger.Debugf("masstransit: ack %d: %v", d.Tag, err)
	}
}

// Close 终结所有在途请求并释放对 channel 的借用。
// 不关闭底层 channel，那是其持有者的事
func (cli *RequestClient) Close() error {
	if !atomic.CompareAndSwapInt32(&cli.isClosed, 0, 1) {
		return nil
	}
	close(cli.c)
	cli.table.each(func(p *pendingRequest) {
		p.resolve(nil, masstransit.ErrClientClosed)
	})
	cli.pool.Release()
	cli.shared.Dispose()
	cli.cancel()
	return nil
}

// Request2 二元便捷封装：两个声明类型的成对解构。
// 三个以上声明类型请使用 Send + As
func Request2[A, B any](ctx context.Context, cli *RequestClient, exchange, routingKey string,
	msg any, timeout time.Duration) (*A, *B, error) {
	f, err := cli.Send(ctx, exchange, routingKey, msg,
		[]masstransit.MessageType{masstransit.TypeOf[A](), masstransit.TypeOf[B]()}, timeout)
	if err != nil {
		return nil, nil, err
	}
	resp, err := f.Wait(ctx)
	if err != nil {
		return nil, nil, err
	}
	a, b := Destructure2[A, B](resp)
	return a, b, nil
}
