package worker

import (
	"context"
	"sync"
	"time"
)

// periodic runs fn on every tick of interval until stopped.
type periodic struct {
	interval time.Duration
	fn       func(context.Context)

	wg     sync.WaitGroup
	cancel context.CancelFunc
	mu     sync.Mutex
}

// Start launches the loop. A second Start without Stop is a no-op.
func (p *periodic) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	p.cancel = cancel

	p.wg.Add(1)
	go p.loop(runCtx)
}

// Stop cancels the loop and waits for the running tick to finish.
func (p *periodic) Stop() {
	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.mu.Unlock()

	p.wg.Wait()
}

func (p *periodic) loop(ctx context.Context) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.fn(ctx)
		}
	}
}
