package hash

import "golang.org/x/crypto/blake2b"

// blake2b256Hasher reuses golang.org/x/crypto's BLAKE2b-256.
type blake2b256Hasher struct{}

// NewBlake2b256 returns the BLAKE2b-256 Hasher.
func NewBlake2b256() Hasher { return blake2b256Hasher{} }

func (blake2b256Hasher) Algorithm() Algorithm { return Blake2b256 }

func (h blake2b256Hasher) Hash(data []byte) Digest {
	sum := blake2b.Sum256(data)
	d := make(Digest, 0, 1+len(sum))
	d = append(d, byte(Blake2b256))
	return append(d, sum[:]...)
}

func (h blake2b256Hasher) Verify(d Digest, data []byte) bool {
	alg, err := d.Algorithm()
	if err != nil || alg != Blake2b256 {
		return false
	}
	return h.Hash(data).Equal(d)
}
