// Package keystore maintains ed25519 keypair files on disk in the format
// produced by solana-keygen, a JSON array of 64 byte values.
package keystore

import (
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/blocto/solana-go-sdk/types"
	"github.com/mr-tron/base58"
)

// KeyExtension is the file extension used for keypair files.
const KeyExtension = ".json"

// ErrKeyExists is returned by Save when the target file is already present.
var ErrKeyExists = errors.New("keypair file already exists")

// Generate creates a new random ed25519 keypair.
func Generate() types.Account {
	return types.NewAccount()
}

// Path joins a keys folder and a keypair name, appending the keypair
// file extension when missing.
func Path(folder string, name string) string {
	if !strings.HasSuffix(name, KeyExtension) {
		name += KeyExtension
	}

	return filepath.Join(folder, name)
}

// Save writes the keypair to disk as a JSON byte array. An existing file
// is never overwritten.
func Save(path string, account types.Account) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: %s", ErrKeyExists, path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating keys folder: %w", err)
	}

	// The JSON encoder emits a byte slice as a base64 string, so the key
	// goes through an int slice to get the [u8;64] array solana-keygen reads.
	ints := make([]int, len(account.PrivateKey))
	for i, b := range account.PrivateKey {
		ints[i] = int(b)
	}

	data, err := json.Marshal(ints)
	if err != nil {
		return fmt.Errorf("marshal keypair: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("write keypair file: %w", err)
	}

	return nil
}

// Load reads a keypair file from disk. Both the JSON byte array form and a
// base58 encoded secret are accepted.
func Load(path string) (types.Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Account{}, fmt.Errorf("read keypair file: %w", err)
	}

	return ParseSecret(string(data))
}

// ParseSecret restores a keypair from either a JSON array of byte values
// or a base58 encoded 64 byte secret.
func ParseSecret(secret string) (types.Account, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return types.Account{}, errors.New("secret is empty")
	}

	key, err := decodeSecret(secret)
	if err != nil {
		return types.Account{}, err
	}

	account, err := types.AccountFromBytes(key)
	if err != nil {
		return types.Account{}, fmt.Errorf("restore keypair: %w", err)
	}

	return account, nil
}

// EncodeSecret returns the base58 encoding of the keypair's secret key.
func EncodeSecret(account types.Account) string {
	return base58.Encode(account.PrivateKey)
}

// Mask shortens an address or signature for log output, keeping the first
// and last four characters.
func Mask(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= 10 {
		return s
	}

	return s[:4] + "***" + s[len(s)-4:]
}

// decodeSecret produces the raw 64 byte secret from the supported encodings.
// The JSON form allows any integer array for compatibility with keys written
// by older tooling.
func decodeSecret(secret string) ([]byte, error) {
	if strings.HasPrefix(secret, "[") {
		var ints []int
		if err := json.Unmarshal([]byte(secret), &ints); err != nil {
			return nil, fmt.Errorf("unmarshal keypair json: %w", err)
		}

		if len(ints) != ed25519.PrivateKeySize {
			return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(ints), ed25519.PrivateKeySize)
		}

		key := make([]byte, len(ints))
		for i, v := range ints {
			if v < 0 || v > 255 {
				return nil, fmt.Errorf("byte out of range at index %d: %d", i, v)
			}
			key[i] = byte(v)
		}

		return key, nil
	}

	key, err := base58.Decode(secret)
	if err != nil {
		return nil, fmt.Errorf("decode base58 secret: %w", err)
	}

	if len(key) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("unexpected secret key length: got %d, want %d", len(key), ed25519.PrivateKeySize)
	}

	return key, nil
}
