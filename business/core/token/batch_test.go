package token_test

import (
	"context"
	"strings"
	"testing"

	sdktypes "github.com/blocto/solana-go-sdk/types"
)

func TestBatchFreeze(t *testing.T) {
	t.Log("Given the need to freeze many owners in one run.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen every owner is valid.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			owners := []string{
				sdktypes.NewAccount().PublicKey.ToBase58(),
				sdktypes.NewAccount().PublicKey.ToBase58(),
				sdktypes.NewAccount().PublicKey.ToBase58(),
			}

			result, err := core.BatchFreeze(context.Background(), mint, owners)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould freeze the whole batch: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould freeze the whole batch.", success, testID)

			if result.Succeeded != 3 || result.Failed != 0 {
				t.Fatalf("\t%s\tTest %d:\tShould count three successes: %+v", failed, testID, result)
			}
			t.Logf("\t%s\tTest %d:\tShould count three successes.", success, testID)

			if clt.submits != 3 {
				t.Fatalf("\t%s\tTest %d:\tShould submit one transaction per owner: got %d", failed, testID, clt.submits)
			}
			t.Logf("\t%s\tTest %d:\tShould submit one transaction per owner.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen one owner is a malformed address.", testID)
		{
			clt := newFakeClient()
			core := newTestCore(clt, 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			owners := []string{
				sdktypes.NewAccount().PublicKey.ToBase58(),
				"not-an-address",
				sdktypes.NewAccount().PublicKey.ToBase58(),
			}

			result, err := core.BatchFreeze(context.Background(), mint, owners)
			if err == nil || !strings.Contains(err.Error(), "1 of 3 items failed") {
				t.Fatalf("\t%s\tTest %d:\tShould report the failed item count: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould report the failed item count.", success, testID)

			if result.Succeeded != 2 || result.Failed != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould keep processing after the failure: %+v", failed, testID, result)
			}
			t.Logf("\t%s\tTest %d:\tShould keep processing after the failure.", success, testID)

			if result.Items[1].Error == "" || result.Items[1].Signature != "" {
				t.Fatalf("\t%s\tTest %d:\tShould record the error on the failed item: %+v", failed, testID, result.Items[1])
			}
			t.Logf("\t%s\tTest %d:\tShould record the error on the failed item.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the owner list is empty.", testID)
		{
			core := newTestCore(newFakeClient(), 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()

			if _, err := core.BatchThaw(context.Background(), mint, nil); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject an empty batch.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject an empty batch.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the context is already canceled.", testID)
		{
			core := newTestCore(newFakeClient(), 0)

			mint := sdktypes.NewAccount().PublicKey.ToBase58()
			owners := []string{sdktypes.NewAccount().PublicKey.ToBase58()}

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := core.BatchFreeze(ctx, mint, owners); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould stop on the canceled context.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould stop on the canceled context.", success, testID)
		}
	}
}
