package password

import (
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
)

// лёгкие параметры, чтобы тесты не жгли CPU
func newTestHasher() *Hasher {
	return New(&argon2id.Params{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	})
}

func TestHashVerify(t *testing.T) {
	h := newTestHasher()

	encoded, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !strings.HasPrefix(encoded, "$argon2id$") {
		t.Fatalf("unexpected hash format: %q", encoded)
	}

	ok, err := h.Verify("password1", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !ok {
		t.Fatal("correct password rejected")
	}

	ok, err = h.Verify("wrong", encoded)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if ok {
		t.Fatal("wrong password accepted")
	}
}

func TestHashSaltsDiffer(t *testing.T) {
	h := newTestHasher()

	a, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	b, err := h.Hash("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if a == b {
		t.Fatal("two hashes of the same password are identical")
	}
}
