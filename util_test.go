package masstransit

import (
	"sync"
	"testing"
	"time"
)

func TestCorrelationID(t *testing.T) {
	now := time.Now()
	id := NewCorrelationID()
	cost := time.Since(now)
	if len(id) != 27 {
		t.Fatalf("unexpected id length: %d", len(id))
	}
	t.Log(id, cost)
}

func BenchmarkCorrelationID(b *testing.B) {
	var m sync.Map

	b.RunParallel(func(p *testing.PB) {
		for p.Next() {
			id := NewCorrelationID()
			if _, loaded := m.LoadOrStore(id, struct{}{}); loaded {
				b.Fatal()
			}
		}
	})
}
