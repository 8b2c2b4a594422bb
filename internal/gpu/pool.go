package gpu

import (
	"sync"
	"sync/atomic"
)

// pool is a persistent set of worker goroutines. Spawning goroutines per
// pass dominates the cost of the small passes late in a bitonic stage, so
// workers are created once per backend and reused for every launch.
type pool struct {
	numWorkers int
	workC      chan workItem
	closeOnce  sync.Once
	closed     atomic.Bool
}

type workItem struct {
	fn      func()
	barrier *sync.WaitGroup
}

func newPool(numWorkers int) *pool {
	p := &pool{
		numWorkers: numWorkers,
		workC:      make(chan workItem, numWorkers*2),
	}
	for range numWorkers {
		go p.worker()
	}
	return p
}

func (p *pool) worker() {
	for item := range p.workC {
		item.fn()
		item.barrier.Done()
	}
}

func (p *pool) close() {
	p.closeOnce.Do(func() {
		p.closed.Store(true)
		close(p.workC)
	})
}

// parallelFor splits [0, n) into one contiguous chunk per worker and blocks
// until every chunk is done.
func (p *pool) parallelFor(n int, fn func(start, end int)) {
	if n <= 0 {
		return
	}

	workers := min(p.numWorkers, n)
	if workers == 1 || p.closed.Load() {
		fn(0, n)
		return
	}

	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := range workers {
		start := i * chunkSize
		end := min(start+chunkSize, n)
		if start >= n {
			wg.Done()
			continue
		}
		p.workC <- workItem{
			fn: func() {
				fn(start, end)
			},
			barrier: &wg,
		}
	}
	wg.Wait()
}
