package sha_test

import (
	"testing"

	"github.com/Dhushyanthcpu/lib/foundation/blockchain/oracle/sha"
	"github.com/Dhushyanthcpu/lib/foundation/blockchain/signature"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func TestFindNonce(t *testing.T) {
	body := []byte(`{"index":1,"timestamp":1704067260,"transactions":[],"previous_hash":"0x00","difficulty":4}`)

	t.Log("Given the need to search for a nonce deterministically.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen searching with enough iterations.", testID)
		{
			orc := sha.New()

			res := orc.FindNonce(body, 4, 1000)
			if !res.Success {
				t.Fatalf("\t%s\tTest %d:\tShould find a nonce.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find a nonce: %s", success, testID, res)

			if signature.SealHash(body, res.Nonce) != res.Hash || !signature.IsHashSolved(4, res.Hash) {
				t.Fatalf("\t%s\tTest %d:\tShould return a hash that seals the body.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould return a hash that seals the body.", success, testID)

			again := orc.FindNonce(body, 4, 1000)
			if again.Nonce != res.Nonce || again.Hash != res.Hash {
				t.Fatalf("\t%s\tTest %d:\tShould find the same nonce every time.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould find the same nonce every time.", success, testID)
		}

		testID++
		t.Logf("\tTest %d:\tWhen the iterations run out.", testID)
		{
			res := sha.New().FindNonce(body, 4, 0)
			if res.Success {
				t.Fatalf("\t%s\tTest %d:\tShould fail to find a nonce.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould fail to find a nonce.", success, testID)
		}
	}
}

func TestVerify(t *testing.T) {
	t.Log("Given the need to verify proofs.")
	{
		testID := 0
		t.Logf("\tTest %d:\tWhen checking a proof against data.", testID)
		{
			orc := sha.New()
			data := []byte("kontour")
			proof := []byte(signature.HashBytes(data))

			if !orc.Verify(data, proof) {
				t.Fatalf("\t%s\tTest %d:\tShould accept the hash of the data.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould accept the hash of the data.", success, testID)

			if orc.Verify([]byte("other"), proof) {
				t.Fatalf("\t%s\tTest %d:\tShould reject a proof for other data.", failed, testID)
			}
			t.Logf("\t%s\tTest %d:\tShould reject a proof for other data.", success, testID)
		}
	}
}
