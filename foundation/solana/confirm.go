package solana

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
)

// errSocketUnavailable marks a confirmation failure caused by the
// websocket endpoint rather than the transaction, which means polling
// can still answer the question.
var errSocketUnavailable = errors.New("websocket unavailable")

// Confirm waits until the signature reaches the configured commitment.
// The pubsub signatureSubscribe API answers fastest, with a polling
// fallback when the websocket endpoint is unreachable.
func (c *Client) Confirm(ctx context.Context, signature string) error {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.ConfirmTimeout)
	defer cancel()

	err := c.confirmSocket(ctx, signature)
	if err == nil {
		return nil
	}

	if !errors.Is(err, errSocketUnavailable) {
		return err
	}

	c.ev("solana: confirm: websocket unavailable, polling signature statuses")

	return c.confirmPoll(ctx, signature)
}

// wsEnvelope covers both the subscription acknowledgment and the
// notification frames of the pubsub protocol.
type wsEnvelope struct {
	ID     json.RawMessage `json:"id,omitempty"`
	Result json.RawMessage `json:"result,omitempty"`
	Method string          `json:"method,omitempty"`
	Params *struct {
		Result struct {
			Value struct {
				Err any `json:"err"`
			} `json:"value"`
		} `json:"result"`
		Subscription int64 `json:"subscription"`
	} `json:"params,omitempty"`
	Error *rpcError `json:"error,omitempty"`
}

// confirmSocket subscribes to signature notifications over the pubsub
// websocket endpoint and waits for the single notification the cluster
// sends once the commitment is reached.
func (c *Client) confirmSocket(ctx context.Context, signature string) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}

	conn, _, err := dialer.DialContext(ctx, c.cfg.WSURL, nil)
	if err != nil {
		return fmt.Errorf("%w: dial %s: %s", errSocketUnavailable, c.cfg.WSURL, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		conn.SetReadDeadline(deadline)
		conn.SetWriteDeadline(deadline)
	}

	sub := map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "signatureSubscribe",
		"params": []any{
			signature,
			map[string]any{"commitment": c.cfg.Commitment},
		},
	}
	if err := conn.WriteJSON(sub); err != nil {
		return fmt.Errorf("%w: subscribe: %s", errSocketUnavailable, err)
	}

	var subscription int64

	for {
		var msg wsEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			return fmt.Errorf("%w: read: %s", errSocketUnavailable, err)
		}

		if msg.Error != nil {
			return fmt.Errorf("signature subscribe: rpc error code=%d message=%s", msg.Error.Code, msg.Error.Message)
		}

		// Acknowledgment frame carrying the subscription number.
		if msg.ID != nil {
			if err := json.Unmarshal(msg.Result, &subscription); err != nil {
				return fmt.Errorf("signature subscribe: unexpected ack: %w", err)
			}
			continue
		}

		if msg.Method != "signatureNotification" || msg.Params == nil {
			continue
		}

		// Best effort, the subscription is single shot either way.
		unsub := map[string]any{
			"jsonrpc": "2.0",
			"id":      2,
			"method":  "signatureUnsubscribe",
			"params":  []any{subscription},
		}
		conn.WriteJSON(unsub)

		if chainErr := msg.Params.Result.Value.Err; chainErr != nil {
			return fmt.Errorf("transaction failed on chain: %v", chainErr)
		}

		return nil
	}
}

// confirmPoll asks for the signature status on an interval until the
// commitment is reached or the context expires.
func (c *Client) confirmPoll(ctx context.Context, signature string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		done, err := c.SignatureStatus(ctx, signature)
		if err != nil {
			return err
		}
		if done {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("confirmation timed out: %w", ctx.Err())
		case <-ticker.C:
		}
	}
}
