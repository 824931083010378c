package notelens

import (
	"context"
	"log"
	"sync"
	"time"
)

// BackgroundRunner runs named tasks in goroutines until it is shut down.
// Panics in a task are recovered and logged.
type BackgroundRunner struct {
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewBackgroundRunner creates a runner whose tasks stop when ctx is done or
// Shutdown is called.
func NewBackgroundRunner(ctx context.Context) *BackgroundRunner {
	cctx, cancel := context.WithCancel(ctx)
	return &BackgroundRunner{
		ctx:    cctx,
		cancel: cancel,
	}
}

// Every runs fn immediately and then once per interval.
func (br *BackgroundRunner) Every(name string, interval time.Duration, fn func(ctx context.Context) error) {
	br.start(name, func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		br.run(name, fn)
		for {
			select {
			case <-br.ctx.Done():
				log.Printf("Background task '%s' stopping", name)
				return
			case <-ticker.C:
				br.run(name, fn)
			}
		}
	})
}

// Go runs fn once.
func (br *BackgroundRunner) Go(name string, fn func(ctx context.Context) error) {
	br.start(name, func() {
		br.run(name, fn)
	})
}

func (br *BackgroundRunner) start(name string, loop func()) {
	br.wg.Add(1)
	go func() {
		defer br.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				log.Printf("Recovered from panic in task %s: %v", name, r)
			}
		}()

		loop()
	}()
}

func (br *BackgroundRunner) run(name string, fn func(ctx context.Context) error) {
	if err := fn(br.ctx); err != nil {
		log.Printf("Background task '%s' error: %v", name, err)
	}
}

// Shutdown stops all tasks and waits for them to return.
func (br *BackgroundRunner) Shutdown() {
	br.cancel()
	br.wg.Wait()
}
