package internal

import (
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"

	"github.com/zeebo/blake3"

	"github.com/airmon/assetgz"
)

var ErrUnknownHashAlgorithm = errors.New("internal: unknown hash algorithm")

// HashAlgorithm selects the digest behind content hashes. SHA-1 is the
// default so rebuilt pages keep the tokens they already shipped with.
type HashAlgorithm string

const (
	HashSHA1   HashAlgorithm = "sha1"
	HashSHA256 HashAlgorithm = "sha256"
	HashBLAKE3 HashAlgorithm = "blake3"
)

func ParseHashAlgorithm(name string) (HashAlgorithm, error) {
	switch alg := HashAlgorithm(name); alg {
	case "":
		return HashSHA1, nil
	case HashSHA1, HashSHA256, HashBLAKE3:
		return alg, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownHashAlgorithm, name)
	}
}

func (a HashAlgorithm) hasher() hash.Hash {
	switch a {
	case HashSHA256:
		return sha256.New()
	case HashBLAKE3:
		return blake3.New()
	default:
		return sha1.New()
	}
}

// Sum returns the full hex digest of data.
func (a HashAlgorithm) Sum(data []byte) string {
	h := a.hasher()
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// ContentHash returns the short cache-busting token for data. It is the
// first assetgz.HashLength hex characters of the digest, which is plenty to
// tell two builds apart and is not meant to resist collisions.
func (a HashAlgorithm) ContentHash(data []byte) string {
	return a.Sum(data)[:assetgz.HashLength]
}

// ContentHash hashes data with the default algorithm.
func ContentHash(data []byte) string {
	return HashSHA1.ContentHash(data)
}
