// Package broadcast delivers a batch of messages concurrently with a bound
// on in-flight sends.
package broadcast

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Message is one delivery.
type Message struct {
	ChatID int64
	Text   string
}

// SendFunc delivers a single message.
type SendFunc func(ctx context.Context, chatID int64, text string) error

type Config struct {
	Concurrency int           `mapstructure:"concurrency"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type Result struct {
	Succeeded int
	Failed    int
	Errors    []error
}

type Broadcaster struct {
	send   SendFunc
	config Config
}

func New(send SendFunc, config Config) *Broadcaster {
	if config.Concurrency <= 0 {
		config.Concurrency = 8
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}
	return &Broadcaster{send: send, config: config}
}

// Send delivers every message and reports the outcome. It returns early
// only when ctx is cancelled; undelivered messages then count as failed.
func (b *Broadcaster) Send(ctx context.Context, msgs []Message) *Result {
	result := &Result{Errors: make([]error, 0)}

	type outcome struct {
		chatID int64
		err    error
	}

	outcomes := make(chan outcome, len(msgs))
	sem := make(chan struct{}, b.config.Concurrency)

	var wg sync.WaitGroup
	for _, msg := range msgs {
		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			outcomes <- outcome{chatID: msg.ChatID, err: ctx.Err()}
			continue
		}

		wg.Add(1)
		go func(m Message) {
			defer wg.Done()
			defer func() { <-sem }()

			sendCtx, cancel := context.WithTimeout(ctx, b.config.Timeout)
			defer cancel()

			outcomes <- outcome{chatID: m.ChatID, err: b.send(sendCtx, m.ChatID, m.Text)}
		}(msg)
	}

	go func() {
		wg.Wait()
		close(outcomes)
	}()

	for o := range outcomes {
		if o.err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("chat %d: %w", o.chatID, o.err))
			result.Failed++
		} else {
			result.Succeeded++
		}
	}

	return result
}
