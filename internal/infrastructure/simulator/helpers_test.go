package simulator_test

import (
	"context"
	"sync"
	"time"
)

// fixedRandom devuelve siempre los mismos valores.
type fixedRandom struct {
	f float64
	i int
}

func (r fixedRandom) Float64() float64 { return r.f }
func (r fixedRandom) IntN(n int) int   { return r.i % n }

// recordingSleeper no espera; guarda las duraciones pedidas.
type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return ctx.Err()
}

func (s *recordingSleeper) last() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.waits) == 0 {
		return 0
	}
	return s.waits[len(s.waits)-1]
}

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

const sampleInvoice = `<fe:Invoice xmlns:fe="urn:dian:fe"><cbc:ID xmlns:cbc="urn:cbc">FE1001</cbc:ID><cbc:PayableAmount xmlns:cbc="urn:cbc">119000.00</cbc:PayableAmount></fe:Invoice>`
