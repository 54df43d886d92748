package nameservice_test

import (
	"testing"

	"github.com/tokenforge/tokenforge/foundation/keystore"
	"github.com/tokenforge/tokenforge/foundation/nameservice"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestNameService(t *testing.T) {
	t.Log("Given the need to name the addresses found in the keys folder.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen the folder holds keypair files.", testID)
		{
			folder := t.TempDir()

			payer := keystore.Generate()
			treasury := keystore.Generate()

			if err := keystore.Save(keystore.Path(folder, "payer"), payer); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save a keypair: %v", failed, testID, err)
			}
			if err := keystore.Save(keystore.Path(folder, "treasury"), treasury); err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to save a keypair: %v", failed, testID, err)
			}

			ns, err := nameservice.New(folder)
			if err != nil {
				t.Fatalf("\t%s\tTest %d:\tShould be able to build the name service: %v", failed, testID, err)
			}
			t.Logf("\t%s\tTest %d:\tShould be able to build the name service.", success, testID)

			if got := ns.Lookup(payer.PublicKey.ToBase58()); got != "payer" {
				t.Fatalf("\t%s\tTest %d:\tShould resolve the payer address: got %q", failed, testID, got)
			}
			if got := ns.Lookup(treasury.PublicKey.ToBase58()); got != "treasury" {
				t.Fatalf("\t%s\tTest %d:\tShould resolve the treasury address: got %q", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould resolve every saved keypair to its file name.", success, testID)

			unknown := keystore.Generate().PublicKey.ToBase58()
			if got := ns.Lookup(unknown); got != unknown {
				t.Fatalf("\t%s\tTest %d:\tShould return an unknown address unchanged: got %q", failed, testID, got)
			}
			t.Logf("\t%s\tTest %d:\tShould return an unknown address unchanged.", success, testID)

			if len(ns.Copy()) != 2 {
				t.Fatalf("\t%s\tTest %d:\tShould copy both entries: got %d", failed, testID, len(ns.Copy()))
			}
			t.Logf("\t%s\tTest %d:\tShould copy both entries.", success, testID)
		}
	}
}
