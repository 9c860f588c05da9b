package hash

import "testing"

func TestHashersAreDeterministicAndVerify(t *testing.T) {
	hashers := []Hasher{NewSHA256(), NewKeccak256(), NewBlake2b256()}
	data := []byte("merkle sorted tree")

	for _, h := range hashers {
		d1 := h.Hash(data)
		d2 := h.Hash(data)
		if !d1.Equal(d2) {
			t.Fatalf("%s: hash is not deterministic", h.Algorithm())
		}
		if !h.Verify(d1, data) {
			t.Fatalf("%s: Verify rejected its own digest", h.Algorithm())
		}
		if h.Verify(d1, []byte("tampered")) {
			t.Fatalf("%s: Verify accepted tampered data", h.Algorithm())
		}
		alg, err := d1.Algorithm()
		if err != nil || alg != h.Algorithm() {
			t.Fatalf("%s: digest does not self-describe its algorithm", h.Algorithm())
		}
	}
}

func TestRegistryLookupAndFor(t *testing.T) {
	r := DefaultRegistry()

	h, err := r.Lookup(Keccak256)
	if err != nil {
		t.Fatalf("Lookup(Keccak256): %v", err)
	}
	d := h.Hash([]byte("x"))

	resolved, err := r.For(d)
	if err != nil {
		t.Fatalf("For: %v", err)
	}
	if resolved.Algorithm() != Keccak256 {
		t.Fatalf("For resolved the wrong hasher: %s", resolved.Algorithm())
	}
}

func TestRegistryLookupUnknown(t *testing.T) {
	r := NewRegistry(NewSHA256())
	if _, err := r.Lookup(Keccak256); err == nil {
		t.Fatal("expected Lookup to fail for an unregistered algorithm")
	}
}

func TestCrossAlgorithmVerifyFails(t *testing.T) {
	data := []byte("x")
	sha := NewSHA256().Hash(data)
	if NewKeccak256().Verify(sha, data) {
		t.Fatal("Verify must not accept a digest tagged for a different algorithm")
	}
}
