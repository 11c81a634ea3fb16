package client

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	masstransit "github.com/rafaela2/MassTransit"
)

const (
	statePending int32 = iota
	stateResolved
)

// pendingRequest 一次在途请求。
// 响应到达、fault 到达、超时、调用方取消四个生产者并发竞争终态，
// CAS 成功者胜出，失败者静默放弃自己的事件
type pendingRequest struct {
	correlationID string
	accepted      []masstransit.MessageType // 顺序即声明顺序
	future        *Future
	table         *pendingTable
	timer         *time.Timer // 注册时设定，终结时停止
	state         int32
}

func newPendingRequest(correlationID string, accepted []masstransit.MessageType, table *pendingTable) *pendingRequest {
	return &pendingRequest{
		correlationID: correlationID,
		accepted:      accepted,
		future:        newFuture(),
		table:         table,
	}
}

// accepts 按声明顺序匹配响应类型，urn 全等才算命中
func (p *pendingRequest) accepts(urn string) (masstransit.MessageType, bool) {
	for _, mt := range p.accepted {
		if mt.URN == urn {
			return mt, true
		}
	}
	return masstransit.MessageType{}, false
}

// resolve 原子地完成请求：从表中摘除、停掉 deadline 定时器、
// 交付结果。重复的终结事件在这里被吸收，不向上传播
func (p *pendingRequest) resolve(resp *Response, err error) bool {
	if !atomic.CompareAndSwapInt32(&p.state, statePending, stateResolved) {
		return false
	}
	if p.timer != nil {
		p.timer.Stop()
	}
	p.table.remove(p.correlationID)
	p.future.complete(resp, err)
	return true
}

// scheduleDeadline 每个在途请求一个可取消的定时器。
// 必须在请求进入并发可见状态之前调用
func (p *pendingRequest) scheduleDeadline(timeout time.Duration) {
	p.timer = time.AfterFunc(timeout, func() {
		p.resolve(nil, errors.WithMessagef(masstransit.ErrRequestTimeout,
			"correlation id %s", p.correlationID))
	})
}

func (p *pendingRequest) isResolved() bool {
	return atomic.LoadInt32(&p.state) == stateResolved
}

func (p *pendingRequest) abandon() {
	if p.timer != nil {
		p.timer.Stop()
	}
	p.table.remove(p.correlationID)
}

// pendingTable 关联 id 到在途请求的并发映射。
// 存活条目的关联 id 不会重复
type pendingTable struct {
	m sync.Map // correlation id : *pendingRequest
}

func (t *pendingTable) insert(p *pendingRequest) error {
	if _, loaded := t.m.LoadOrStore(p.correlationID, p); loaded {
		return errors.Errorf("masstransit: correlation id %s already pending", p.correlationID)
	}
	return nil
}

func (t *pendingTable) load(correlationID string) (*pendingRequest, bool) {
	v, ok := t.m.Load(correlationID)
	if !ok {
		return nil, false
	}
	return v.(*pendingRequest), true
}

func (t *pendingTable) remove(correlationID string) {
	t.m.Delete(correlationID)
}

func (t *pendingTable) each(f func(p *pendingRequest)) {
	t.m.Range(func(_, v any) bool {
		f(v.(*pendingRequest))
		return true
	})
}
