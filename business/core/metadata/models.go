package metadata

import "fmt"

// On-chain bounds enforced by the metadata program. Checked before
// submit so a bad value fails locally instead of costing a fee.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
	MaxURILength    = 200
)

// checkBounds enforces the metadata program's limits in bytes. The
// validator max tags count runes, the program counts bytes, so a
// multibyte value needs this second check.
func checkBounds(name string, symbol string, uri string) error {
	if len(name) > MaxNameLength {
		return fmt.Errorf("name is %d bytes, the program limit is %d", len(name), MaxNameLength)
	}
	if len(symbol) > MaxSymbolLength {
		return fmt.Errorf("symbol is %d bytes, the program limit is %d", len(symbol), MaxSymbolLength)
	}
	if len(uri) > MaxURILength {
		return fmt.Errorf("uri is %d bytes, the program limit is %d", len(uri), MaxURILength)
	}

	return nil
}

// CreateParams is the input for creating the metadata account of a mint.
type CreateParams struct {
	Mint                 string `json:"mint" validate:"required"`
	Name                 string `json:"name" validate:"required,max=32"`
	Symbol               string `json:"symbol" validate:"required,max=10"`
	URI                  string `json:"uri" validate:"required,max=200"`
	SellerFeeBasisPoints uint16 `json:"seller_fee_basis_points" validate:"lte=10000"`
	Immutable            bool   `json:"immutable"`
}

// UpdateParams is the input for replacing the metadata of a mint and/or
// handing the update authority to another key. The metadata program
// replaces the data as a whole, so all three fields travel together.
type UpdateParams struct {
	Mint                 string `json:"mint" validate:"required"`
	Name                 string `json:"name" validate:"required,max=32"`
	Symbol               string `json:"symbol" validate:"required,max=10"`
	URI                  string `json:"uri" validate:"required,max=200"`
	SellerFeeBasisPoints uint16 `json:"seller_fee_basis_points" validate:"lte=10000"`
	NewUpdateAuthority   string `json:"new_update_authority"`
}

// Result reports the metadata account and the transaction signature.
type Result struct {
	Metadata  string `json:"metadata"`
	Signature string `json:"signature"`
}
