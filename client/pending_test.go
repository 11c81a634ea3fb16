package client

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	masstransit "github.com/rafaela2/MassTransit"
)

func TestResolveExactlyOnce(t *testing.T) {
	table := &pendingTable{}
	p := newPendingRequest(masstransit.NewCorrelationID(), []masstransit.MessageType{
		masstransit.TypeOf[orderCanceled](),
	}, table)
	if err := table.insert(p); err != nil {
		t.Fatal(err)
	}

	// 响应、fault、超时、取消并发抢终态，恰好一个胜出
	outcomes := []func() bool{
		func() bool { return p.resolve(&Response{urn: p.accepted[0].URN}, nil) },
		func() bool { return p.resolve(nil, &masstransit.FaultError{Message: "boom"}) },
		func() bool { return p.resolve(nil, masstransit.ErrRequestTimeout) },
		func() bool { return p.resolve(nil, masstransit.ErrRequestCanceled) },
	}

	var wins int32
	var wg sync.WaitGroup
	for _, f := range outcomes {
		for i := 0; i < 8; i++ {
			wg.Add(1)
			f := f
			go func() {
				defer wg.Done()
				if f() {
					atomic.AddInt32(&wins, 1)
				}
			}()
		}
	}
	wg.Wait()

	if wins != 1 {
		t.Fatalf("expected exactly one winner, got %d", wins)
	}
	select {
	case <-p.future.Done():
	default:
		t.Fatal("future not completed")
	}
	if _, ok := table.load(p.correlationID); ok {
		t.Fatal("resolved entry still in table")
	}
}

func TestDeadlineResolvesTimeout(t *testing.T) {
	table := &pendingTable{}
	p := newPendingRequest(masstransit.NewCorrelationID(), []masstransit.MessageType{
		masstransit.TypeOf[orderCanceled](),
	}, table)
	p.scheduleDeadline(20 * time.Millisecond)
	if err := table.insert(p); err != nil {
		t.Fatal(err)
	}

	resp, err := p.future.Wait(testCtx(t))
	if resp != nil {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if !errors.Is(err, masstransit.ErrRequestTimeout) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestDeadlineCanceledOnResolve(t *testing.T) {
	table := &pendingTable{}
	p := newPendingRequest(masstransit.NewCorrelationID(), []masstransit.MessageType{
		masstransit.TypeOf[orderCanceled](),
	}, table)
	p.scheduleDeadline(30 * time.Millisecond)
	if err := table.insert(p); err != nil {
		t.Fatal(err)
	}

	if !p.resolve(&Response{urn: p.accepted[0].URN, payload: &orderCanceled{OrderID: 1}}, nil) {
		t.Fatal("resolve lost with no competitor")
	}

	// 定时器已停止：等过 deadline，结果仍是已交付的响应
	time.Sleep(60 * time.Millisecond)
	resp, err, done := p.future.Result()
	if !done || err != nil || resp == nil {
		t.Fatalf("outcome changed after deadline: resp=%v err=%v done=%v", resp, err, done)
	}
}

func TestTableRejectsDuplicateID(t *testing.T) {
	table := &pendingTable{}
	p := newPendingRequest("dup", nil, table)
	if err := table.insert(p); err != nil {
		t.Fatal(err)
	}
	q := newPendingRequest("dup", nil, table)
	if err := table.insert(q); err == nil {
		t.Fatal("duplicate correlation id accepted")
	}
}
