package solana_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tokenforge/tokenforge/foundation/solana"
)

func TestEndpoints(t *testing.T) {
	t.Log("Given the need to resolve network names and websocket endpoints.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen resolving the supported network names.", testID)
		{
			for _, network := range []string{solana.NetworkMainnet, solana.NetworkDevnet, solana.NetworkTestnet, solana.NetworkLocalnet} {
				if _, err := solana.Endpoint(network); err != nil {
					t.Fatalf("\t%s\tTest %d:\tShould resolve %q: %v", failed, testID, network, err)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould resolve every supported network.", success, testID)

			if _, err := solana.Endpoint("moonnet"); err == nil {
				t.Fatalf("\t%s\tTest %d:\tShould reject an unknown network.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject an unknown network.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen deriving the websocket endpoint.", testID)
		{
			tt := []struct{ in, want string }{
				{"https://api.devnet.solana.com", "wss://api.devnet.solana.com"},
				{"http://localhost:8899", "ws://localhost:8899"},
			}

			for _, tst := range tt {
				if got := solana.WebsocketEndpoint(tst.in); got != tst.want {
					t.Fatalf("\t%s\tTest %d:\tShould derive %q from %q: got %q", failed, testID, tst.want, tst.in, got)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould derive ws endpoints from http endpoints.", success, testID)
		}
	}
}

func TestFormatSOL(t *testing.T) {
	t.Log("Given the need to render lamport amounts as SOL.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen formatting lamport amounts.", testID)
		{
			tt := []struct {
				lamports uint64
				want     string
			}{
				{0, "0.000000000"},
				{1, "0.000000001"},
				{solana.LamportsPerSOL, "1.000000000"},
				{2_500_000_000, "2.500000000"},
			}

			for _, tst := range tt {
				if got := solana.FormatSOL(tst.lamports); got != tst.want {
					t.Fatalf("\t%s\tTest %d:\tShould format %d as %q: got %q", failed, testID, tst.lamports, tst.want, got)
				}
			}
			t.Logf("\t%s\tTest %d:\tShould format lamports with nine decimals.", success, testID)
		}
	}
}

func TestTokenAccountsByOwner(t *testing.T) {
	t.Log("Given the need to list the token accounts held by an owner.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the cluster reports parsed accounts.", testID)
		{
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				var req struct {
					ID     string `json:"id"`
					Method string `json:"method"`
				}
				json.NewDecoder(r.Body).Decode(&req)

				result := map[string]any{
					"value": []any{
						map[string]any{
							"pubkey": "ATA111",
							"account": map[string]any{
								"data": map[string]any{
									"parsed": map[string]any{
										"info": map[string]any{
											"mint":  "MINT111",
											"owner": "OWNER111",
											"state": "frozen",
											"tokenAmount": map[string]any{
												"amount":   "1500",
												"decimals": 6,
											},
										},
									},
								},
							},
						},
					},
				}
				json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
			}))
			defer srv.Close()

			clt, err := solana.New(solana.Config{RPCURL: srv.URL})
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to construct the client: %v", failed, testID, err)
			}

			accounts, err := clt.TokenAccountsByOwner(context.Background(), "OWNER111")
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to query the accounts: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to query the accounts.", success, testID)

			if len(accounts) != 1 {
				t.Fatalf("\t%s\tTest %d:\tShould get one account: got %d", failed, testID, len(accounts))
			}

			acct := accounts[0]
			if acct.Address != "ATA111" || acct.Mint != "MINT111" || acct.Amount != "1500" || acct.Decimals != 6 || acct.State != "frozen" {
				t.Fatalf("\t%s\tTest %d:\tShould parse the account fields: %+v", failed, testID, acct)
			}
			t.Logf("\t%s\tTest %d:\tShould parse the account fields.", success, testID)
		}
	}
}
