package hash

import "github.com/ethereum/go-ethereum/crypto"

// keccak256Hasher reuses go-ethereum's Keccak-256, grounded on the
// ledger's go-ethereum dependency rather than hand-rolling Keccak.
type keccak256Hasher struct{}

// NewKeccak256 returns the Keccak-256 Hasher.
func NewKeccak256() Hasher { return keccak256Hasher{} }

func (keccak256Hasher) Algorithm() Algorithm { return Keccak256 }

func (h keccak256Hasher) Hash(data []byte) Digest {
	sum := crypto.Keccak256(data)
	d := make(Digest, 0, 1+len(sum))
	d = append(d, byte(Keccak256))
	return append(d, sum...)
}

func (h keccak256Hasher) Verify(d Digest, data []byte) bool {
	alg, err := d.Algorithm()
	if err != nil || alg != Keccak256 {
		return false
	}
	return h.Hash(data).Equal(d)
}
