package solana_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/tokenforge/tokenforge/foundation/solana"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestRetrier(t *testing.T) {
	t.Log("Given the need to retry transient submit failures.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the failure clears before the attempts run out.", testID)
		{
			retrier := solana.Retrier{MaxRetries: 5, Base: time.Millisecond, Max: 4 * time.Millisecond}

			var calls int
			send := func(ctx context.Context) (string, error) {
				calls++
				if calls < 3 {
					return "", errors.New("429 too many requests")
				}
				return "SIG", nil
			}

			sig, err := retrier.Send(context.Background(), send)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to send the transaction: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to send the transaction.", success, testID)

			if sig != "SIG" {
				t.Fatalf("\t%s\tTest %d:\tShould get the signature back: got %q", failed, testID, sig)
			}
			t.Logf("\t%s\tTest %d:\tShould get the signature back.", success, testID)

			if calls != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould try three times: got %d", failed, testID, calls)
			}
			t.Logf("\t%s\tTest %d:\tShould try three times.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the failure is not transient.", testID)
		{
			retrier := solana.Retrier{MaxRetries: 5, Base: time.Millisecond}

			sentinel := errors.New("invalid instruction data")
			var calls int
			send := func(ctx context.Context) (string, error) {
				calls++
				return "", sentinel
			}

			if _, err := retrier.Send(context.Background(), send); !errors.Is(err, sentinel) {
				t.Fatalf("\t%s\tTest %d:\tShould return the error unchanged: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould return the error unchanged.", success, testID)

			if calls != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould only try once: got %d", failed, testID, calls)
			}
			t.Logf("\t%s\tTest %d:\tShould only try once.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the attempts run out.", testID)
		{
			retrier := solana.Retrier{MaxRetries: 3, Base: time.Millisecond}

			var calls int
			send := func(ctx context.Context) (string, error) {
				calls++
				return "", errors.New("blockhash not found")
			}

			_, err := retrier.Send(context.Background(), send)
			if err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould report the exhausted retries.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould report the exhausted retries.", success, testID)

			if !strings.Contains(err.Error(), "retries exhausted after 3 attempts") {
				t.Fatalf("\t%s\tTest %d:\tShould name the attempt count in the error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould name the attempt count in the error.", success, testID)

			if calls != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould try exactly three times: got %d", failed, testID, calls)
			}
			t.Logf("\t%s\tTest %d:\tShould try exactly three times.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the context is canceled while waiting.", testID)
		{
			retrier := solana.Retrier{MaxRetries: 5, Base: time.Minute}

			ctx, cancel := context.WithCancel(context.Background())

			send := func(ctx context.Context) (string, error) {
				cancel()
				return "", errors.New("connection reset")
			}

			if _, err := retrier.Send(ctx, send); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest %d:\tShould return the context error: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould return the context error.", success, testID)
		}
	}
}
