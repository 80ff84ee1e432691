// Package credential implements the mnemonic-based registration and login
// credential flow (spec §4.5): 24-word BIP39 phrases, single-use and
// time-limited, validated and consumed atomically.
package credential

import (
	"fmt"

	"github.com/cosmos/go-bip39"
)

// mnemonicEntropyBits yields a 24-word phrase (256 bits entropy + 8-bit
// checksum, spec §4.5).
const mnemonicEntropyBits = 256

// Generate returns a fresh 24-word BIP39 English mnemonic drawn from a
// cryptographically strong random source.
func Generate() (string, error) {
	entropy, err := bip39.NewEntropy(mnemonicEntropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	phrase, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("generate mnemonic: %w", err)
	}
	return phrase, nil
}
