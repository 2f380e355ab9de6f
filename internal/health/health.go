// Package health periodically probes the language model and remembers
// whether the last probe succeeded.
package health

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/globaltalk/internal/llm"
)

// ProbePrompt is sent on every check.
const ProbePrompt = "Test"

// Checker is safe for concurrent use. A new Checker reports the backend as
// available until the first probe says otherwise.
type Checker struct {
	gen      llm.Generator
	interval time.Duration
	timeout  time.Duration
	logger   *zap.SugaredLogger

	available atomic.Bool
	mu        sync.Mutex
	lastCheck time.Time
	lastErr   error
}

func New(gen llm.Generator, interval time.Duration, logger *zap.SugaredLogger) *Checker {
	if interval <= 0 {
		interval = time.Hour
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	c := &Checker{gen: gen, interval: interval, timeout: 30 * time.Second, logger: logger}
	c.available.Store(true)
	return c
}

// Run probes immediately and then on every interval until ctx is done.
func (c *Checker) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.Check(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			c.Check(ctx)
		}
	}
}

// Check runs one probe and returns its error.
func (c *Checker) Check(ctx context.Context) error {
	probeCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	_, err := c.gen.Generate(probeCtx, ProbePrompt)
	ok := err == nil
	was := c.available.Swap(ok)

	c.mu.Lock()
	c.lastCheck = time.Now()
	c.lastErr = err
	c.mu.Unlock()

	switch {
	case ok && !was:
		c.logger.Infow("language model is available again")
	case !ok && was:
		c.logger.Warnw("language model is unavailable", "error", err)
	case !ok:
		c.logger.Debugw("language model still unavailable", "error", err)
	}
	return err
}

// Available reports the outcome of the last probe.
func (c *Checker) Available() bool {
	return c.available.Load()
}

// Last returns the time and error of the last probe. The time is zero
// before the first probe.
func (c *Checker) Last() (time.Time, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastCheck, c.lastErr
}
