package signature_test

import (
	"testing"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

func Test_Hash(t *testing.T) {
	value := struct {
		Name string
	}{
		Name: "Bill",
	}
	hash := "0x0f6887ac85101d6d6425a617edf35bd721b5f619fb92c36c3d2224e3bdb0ee5a"

	h := signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the right hash: %s", h[:6])
	}

	h = signature.Hash(value)
	if h != hash {
		t.Logf("got: %s", h)
		t.Logf("exp: %s", hash)
		t.Fatalf("Should get back the same hash twice.")
	}
}

func Test_SealHash(t *testing.T) {
	body := []byte(`{"index":1}`)

	h1 := signature.SealHash(body, 7)
	h2 := signature.SealHash(body, 7)
	if h1 != h2 {
		t.Fatalf("Should get back the same seal hash for the same nonce.")
	}

	if h3 := signature.SealHash(body, 8); h3 == h1 {
		t.Fatalf("Should get back a different seal hash for a different nonce.")
	}

	if len(h1) != len(signature.ZeroHash) {
		t.Fatalf("Should get back a 32 byte hex encoded hash, got %d chars.", len(h1))
	}
}

func Test_IsHashSolved(t *testing.T) {
	tt := []struct {
		name       string
		hash       string
		difficulty uint32
		exp        bool
	}{
		{"zero-prefix", "0x0000ffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff", 4, true},
		{"max-prefix", "0xffff000000000000000000000000000000000000000000000000000000000000", 1, false},
		{"below-target", "0x3332000000000000000000000000000000000000000000000000000000000000", 4, true},
		{"at-target", "0x3333000000000000000000000000000000000000000000000000000000000000", 4, false},
		{"short", "0x0000", 4, false},
		{"not-hex", "zzzz", 4, false},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			got := signature.IsHashSolved(tst.difficulty, tst.hash)
			if got != tst.exp {
				t.Fatalf("Should get %v for hash %s at difficulty %d, got %v.", tst.exp, tst.hash[:6], tst.difficulty, got)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Verify(t *testing.T) {
	data := []byte("KTR1:KTR2:100")
	proof := []byte(signature.HashBytes(data))

	if !signature.Verify(data, proof) {
		t.Fatalf("Should be able to verify a matching proof.")
	}

	if signature.Verify([]byte("KTR1:KTR2:101"), proof) {
		t.Fatalf("Should not verify a proof for different data.")
	}
}
