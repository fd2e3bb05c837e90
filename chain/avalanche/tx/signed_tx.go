package tx

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	xc "github.com/cordialsys/crosschain-avax"
)

// SignedTx is an unsigned tx plus one credential per input.  Immutable.
type SignedTx struct {
	unsignedBytes []byte
	credentials   []Credential
	signedBytes   []byte
	id            ids.ID
}

var _ xc.Tx = &SignedTx{}

func newSignedTx(unsignedBytes []byte, creds []Credential) (*SignedTx, error) {
	p := newPacker()
	p.PackFixedBytes(unsignedBytes)
	p.PackInt(uint32(len(creds)))
	for i := range creds {
		creds[i].pack(p)
	}
	signedBytes, err := finish(p)
	if err != nil {
		return nil, err
	}
	return &SignedTx{
		unsignedBytes: unsignedBytes,
		credentials:   creds,
		signedBytes:   signedBytes,
		id:            ids.ID(hashing.ComputeHash256Array(signedBytes)),
	}, nil
}

// Hash returns the cb58 tx id
func (tx *SignedTx) Hash() xc.TxHash {
	return xc.TxHash(tx.id.String())
}

func (tx *SignedTx) ID() ids.ID {
	return tx.id
}

func (tx *SignedTx) Serialize() ([]byte, error) {
	return tx.signedBytes, nil
}

func (tx *SignedTx) UnsignedBytes() []byte {
	return tx.unsignedBytes
}

func (tx *SignedTx) Credentials() []Credential {
	return tx.credentials
}

// sighashes returns one request per required signature, input by input.
func sighashes(unsignedBytes []byte, slots [][]xc.Address) []*xc.SignatureRequest {
	payload := hashing.ComputeHash256(unsignedBytes)
	requests := []*xc.SignatureRequest{}
	for _, signers := range slots {
		for _, signer := range signers {
			requests = append(requests, xc.NewSignatureRequest(payload, signer))
		}
	}
	return requests
}

// credentials groups flat responses back into one credential per input.
func credentials(slots [][]xc.Address, responses []*xc.SignatureResponse) ([]Credential, error) {
	expected := 0
	for _, signers := range slots {
		expected += len(signers)
	}
	if len(responses) != expected {
		return nil, fmt.Errorf("expected %d signatures, got %d", expected, len(responses))
	}
	creds := make([]Credential, len(slots))
	next := 0
	for i, signers := range slots {
		creds[i].Sigs = make([][SignatureLen]byte, len(signers))
		for j, signer := range signers {
			resp := responses[next]
			next++
			if resp == nil || len(resp.Signature) != SignatureLen {
				return nil, fmt.Errorf("signature %d for input %d must be %d bytes", j, i, SignatureLen)
			}
			if resp.Address != "" && resp.Address != signer {
				return nil, fmt.Errorf("input %d expects a signature from %s, got %s", i, signer, resp.Address)
			}
			copy(creds[i].Sigs[j][:], resp.Signature)
		}
	}
	return creds, nil
}
