// Package textproc implements the text-mangling stages that run before a passage is
// handed to the rewrite model: fingerprinting, lexical simplification, sentence
// segmentation, length balancing and the redundancy/fragment injectors.
//
// Every stage is pure with respect to its inputs. Probabilistic stages take an explicit
// *rand.Rand so callers (and tests) control the seed.
package textproc

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// Fingerprint identifies a passage's trimmed content. It is a lookup key only.
type Fingerprint string

// FingerprintOf returns the SHA-256 digest (lowercase hex) of text with leading and
// trailing whitespace removed.
func FingerprintOf(text string) Fingerprint {
	sum := sha256.Sum256([]byte(strings.TrimSpace(text)))
	return Fingerprint(hex.EncodeToString(sum[:]))
}

// Short returns a 12-character prefix suitable for log lines.
func (f Fingerprint) Short() string {
	if len(f) <= 12 {
		return string(f)
	}
	return string(f[:12])
}

func (f Fingerprint) String() string { return string(f) }
