package token

// CreateMintParams is the input for creating a new SPL mint.
type CreateMintParams struct {
	Decimals      uint8  `json:"decimals" validate:"lte=9"`
	EnableFreeze  bool   `json:"enable_freeze"`
	InitialSupply uint64 `json:"initial_supply"`
}

// CreateMintResult reports the new mint and the transaction that made it.
type CreateMintResult struct {
	Mint      string `json:"mint"`
	Signature string `json:"signature"`
}

// MintParams is the input for minting tokens to an owner.
type MintParams struct {
	Mint   string `json:"mint" validate:"required"`
	Owner  string `json:"owner" validate:"required"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

// TransferParams is the input for transferring tokens from the fee payer
// to another owner.
type TransferParams struct {
	Mint   string `json:"mint" validate:"required"`
	To     string `json:"to" validate:"required"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

// BurnParams is the input for burning tokens from the fee payer's account.
type BurnParams struct {
	Mint   string `json:"mint" validate:"required"`
	Amount uint64 `json:"amount" validate:"required,gt=0"`
}

// FreezeParams is the input for freezing or thawing one owner's token
// account for a mint.
type FreezeParams struct {
	Mint  string `json:"mint" validate:"required"`
	Owner string `json:"owner" validate:"required"`
}

// Authority type names accepted by SetAuthority.
const (
	AuthorityMint   = "mint"
	AuthorityFreeze = "freeze"
)

// SetAuthorityParams is the input for changing a mint's authority. An
// empty NewAuthority revokes the authority permanently.
type SetAuthorityParams struct {
	Mint         string `json:"mint" validate:"required"`
	Authority    string `json:"authority" validate:"required,oneof=mint freeze"`
	NewAuthority string `json:"new_authority"`
}

// CloseAccountParams is the input for closing an empty token account and
// reclaiming its rent.
type CloseAccountParams struct {
	Account string `json:"account" validate:"required"`
}

// Result reports the signature of a submitted operation.
type Result struct {
	Signature string `json:"signature"`
}
