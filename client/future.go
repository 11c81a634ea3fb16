package client

import (
	"context"
	"sync"
)

// Future 一次请求的最终结果。
// 四种终态（响应、fault、超时、取消）都只通过这里交付，
// 且只交付一次
type Future struct {
	done chan struct{}
	resp *Response
	err  error

	once sync.Once
}

func newFuture() *Future {
	return &Future{
		done: make(chan struct{}),
	}
}

func (f *Future) complete(resp *Response, err error) {
	f.once.Do(func() {
		f.resp = resp
		f.err = err
		close(f.done)
	})
}

// Done 结果就绪时关闭，可用于 select
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait 阻塞等待结果
func (f *Future) Wait(ctx context.Context) (*Response, error) {
	select {
	case <-f.done:
		return f.resp, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Result 非阻塞取结果，未就绪时 done 为 false
func (f *Future) Result() (resp *Response, err error, done bool) {
	select {
	case <-f.done:
		return f.resp, f.err, true
	default:
		return nil, nil, false
	}
}
