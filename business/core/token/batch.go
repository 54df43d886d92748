package token

import (
	"context"
	"fmt"
)

// BatchItem reports the outcome for one owner in a batch operation.
type BatchItem struct {
	Owner     string `json:"owner"`
	Signature string `json:"signature,omitempty"`
	Error     string `json:"error,omitempty"`
}

// BatchResult aggregates the per-owner outcomes of a batch operation.
type BatchResult struct {
	Items     []BatchItem `json:"items"`
	Succeeded int         `json:"succeeded"`
	Failed    int         `json:"failed"`
}

// BatchFreeze freezes the token account of every owner in the list. A
// failing owner is recorded and the scan continues, so one bad address
// cannot stop the rest of the batch.
func (c *Core) BatchFreeze(ctx context.Context, mint string, owners []string) (BatchResult, error) {
	return c.batchFreezeThaw(ctx, mint, owners, true)
}

// BatchThaw thaws the token account of every owner in the list with the
// same isolation rules as BatchFreeze.
func (c *Core) BatchThaw(ctx context.Context, mint string, owners []string) (BatchResult, error) {
	return c.batchFreezeThaw(ctx, mint, owners, false)
}

func (c *Core) batchFreezeThaw(ctx context.Context, mint string, owners []string, freeze bool) (BatchResult, error) {
	op := "thaw"
	if freeze {
		op = "freeze"
	}

	if len(owners) == 0 {
		return BatchResult{}, fmt.Errorf("batch %s: no owners specified", op)
	}

	var result BatchResult

	for i, owner := range owners {
		if err := ctx.Err(); err != nil {
			return result, fmt.Errorf("batch %s stopped at item %d: %w", op, i+1, err)
		}

		p := FreezeParams{Mint: mint, Owner: owner}

		var res Result
		var err error
		if freeze {
			res, err = c.Freeze(ctx, p)
		} else {
			res, err = c.Thaw(ctx, p)
		}

		item := BatchItem{Owner: owner}
		switch {
		case err != nil:
			item.Error = err.Error()
			result.Failed++
			c.ev("token: batch %s: item %d of %d owner %s failed: %s", op, i+1, len(owners), owner, err)
		default:
			item.Signature = res.Signature
			result.Succeeded++
			c.ev("token: batch %s: item %d of %d owner %s tx %s", op, i+1, len(owners), owner, res.Signature)
		}

		result.Items = append(result.Items, item)
	}

	if result.Failed > 0 {
		return result, fmt.Errorf("batch %s: %d of %d items failed", op, result.Failed, len(owners))
	}

	return result, nil
}
