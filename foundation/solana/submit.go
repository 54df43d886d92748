package solana

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/blocto/solana-go-sdk/types"
)

// Retrier applies a bounded retry policy with exponential backoff to a
// send function. Only transient submit failures are retried, anything
// else returns immediately.
type Retrier struct {
	MaxRetries int
	Base       time.Duration
	Max        time.Duration
	Ev         EventHandler
}

// Send executes the send function until it succeeds, the error is not
// transient, the attempts are exhausted, or the context is canceled.
func (r Retrier) Send(ctx context.Context, send func(context.Context) (string, error)) (string, error) {
	maxRetries := r.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	delay := r.Base
	if delay <= 0 {
		delay = 500 * time.Millisecond
	}

	ev := r.Ev
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		sig, err := send(ctx)
		if err == nil {
			return sig, nil
		}

		if !retryable(err) {
			return "", err
		}
		lastErr = err

		ev("solana: submit: attempt %d of %d failed: %s", attempt, maxRetries, err)

		if attempt == maxRetries {
			break
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}

		delay *= 2
		if r.Max > 0 && delay > r.Max {
			delay = r.Max
		}
	}

	return "", fmt.Errorf("retries exhausted after %d attempts: %w", maxRetries, lastErr)
}

// Submit sends a signed transaction through the retry policy and returns
// the transaction signature.
func (c *Client) Submit(ctx context.Context, tx types.Transaction) (string, error) {
	retrier := Retrier{
		MaxRetries: c.cfg.MaxRetries,
		Base:       c.cfg.RetryBase,
		Max:        c.cfg.RetryMax,
		Ev:         c.ev,
	}

	sig, err := retrier.Send(ctx, func(ctx context.Context) (string, error) {
		return c.send(ctx, tx)
	})
	if err != nil {
		return "", fmt.Errorf("send transaction: %w", err)
	}

	return sig, nil
}

// SubmitAndConfirm sends a signed transaction and waits for the cluster
// to confirm the signature at the configured commitment.
func (c *Client) SubmitAndConfirm(ctx context.Context, tx types.Transaction) (string, error) {
	sig, err := c.Submit(ctx, tx)
	if err != nil {
		return "", err
	}

	c.ev("solana: submitted tx=%s waiting for confirmation", sig)

	if err := c.Confirm(ctx, sig); err != nil {
		return sig, fmt.Errorf("confirm %s: %w", sig, err)
	}

	return sig, nil
}

// retryable reports whether a submit failure is worth retrying. The RPC
// layer reports these conditions as error text, there is no structured
// code to branch on.
func retryable(err error) bool {
	msg := strings.ToLower(err.Error())

	transient := []string{
		"429",
		"too many requests",
		"rate limit",
		"exceeded limit",
		"blockhash not found",
		"node is behind",
		"timeout",
		"timed out",
		"connection reset",
		"connection refused",
		"temporary failure",
	}

	for _, s := range transient {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}
