package project

import (
	"crypto/sha256"
	"encoding/hex"
)

// Digest - фиксированный 256 битный хеш (совместим с source.File.Hash)
type Digest [32]byte

// Combine строит ключ: H( content || part1 || part2 ... ).
// Порядок частей должен быть детерминированным.
func Combine(content Digest, parts ...[]byte) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, p := range parts {
		_, _ = h.Write(p)
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) IsZero() bool {
	return d == Digest{}
}
