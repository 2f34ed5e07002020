package domain

import (
	"fmt"
	"strings"

	"filippo.io/edwards25519"
	"github.com/mr-tron/base58"
)

// TokenIdentifier is a base58-encoded Solana mint address.
// Equality is exact string match.
type TokenIdentifier string

const (
	// MinIdentifierLen and MaxIdentifierLen bound the base58 text form
	// of a 32-byte address.
	MinIdentifierLen = 32
	MaxIdentifierLen = 44
)

// base58Alphabet excludes 0, O, I and l.
const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

// ParseIdentifier validates s as a token identifier: base58 text of
// 32-44 characters decoding to exactly 32 bytes.
func ParseIdentifier(s string) (TokenIdentifier, error) {
	if len(s) < MinIdentifierLen || len(s) > MaxIdentifierLen {
		return "", fmt.Errorf("identifier length %d out of range [%d, %d]", len(s), MinIdentifierLen, MaxIdentifierLen)
	}

	raw, err := base58.Decode(s)
	if err != nil {
		return "", fmt.Errorf("decode identifier: %w", err)
	}
	if len(raw) != 32 {
		return "", fmt.Errorf("identifier decodes to %d bytes, want 32", len(raw))
	}

	return TokenIdentifier(s), nil
}

// IsOnCurve reports whether the decoded identifier is a valid ed25519
// point. Mint accounts are keypair-derived and sit on the curve;
// program-derived addresses do not.
func (id TokenIdentifier) IsOnCurve() bool {
	raw, err := base58.Decode(string(id))
	if err != nil || len(raw) != 32 {
		return false
	}
	_, err = new(edwards25519.Point).SetBytes(raw)
	return err == nil
}

// String returns the base58 text form.
func (id TokenIdentifier) String() string { return string(id) }

// ScanIdentifiers extracts unique token identifiers from free text,
// in order of first appearance. Used by the manual/scanner origin.
func ScanIdentifiers(text string) []TokenIdentifier {
	var (
		out  []TokenIdentifier
		seen = make(map[TokenIdentifier]struct{})
		run  strings.Builder
	)

	flush := func() {
		if run.Len() == 0 {
			return
		}
		candidate := run.String()
		run.Reset()
		id, err := ParseIdentifier(candidate)
		if err != nil {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	for _, r := range text {
		if strings.ContainsRune(base58Alphabet, r) {
			run.WriteRune(r)
			continue
		}
		flush()
	}
	flush()

	return out
}
