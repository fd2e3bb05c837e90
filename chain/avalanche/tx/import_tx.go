package tx

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
)

// ImportTx consumes UTXOs from SourceChain's atomic memory into the P-Chain.
type ImportTx struct {
	NetworkID      uint32               `json:"networkID"`
	BlockchainID   ids.ID               `json:"blockchainID"`
	Outs           []TransferableOutput `json:"outputs"`
	Ins            []TransferableInput  `json:"inputs"`
	Memo           []byte               `json:"memo"`
	SourceChain    ids.ID               `json:"sourceChain"`
	ImportedInputs []TransferableInput  `json:"importedInputs"`

	// Owner required for each signature index of each imported input.  Not serialized.
	InputSigners [][]ids.ShortID `json:"-"`
}

var _ xc.UnsignedTx = &ImportTx{}

func (tx *ImportTx) Bytes() ([]byte, error) {
	p := newPacker()
	packHeader(p, PlatformImportTxTypeID)
	p.PackInt(tx.NetworkID)
	packID(p, tx.BlockchainID)
	p.PackInt(uint32(len(tx.Outs)))
	for i := range tx.Outs {
		tx.Outs[i].pack(p)
	}
	p.PackInt(uint32(len(tx.Ins)))
	for i := range tx.Ins {
		tx.Ins[i].pack(p)
	}
	p.PackBytes(tx.Memo)
	packID(p, tx.SourceChain)
	p.PackInt(uint32(len(tx.ImportedInputs)))
	for i := range tx.ImportedInputs {
		tx.ImportedInputs[i].pack(p)
	}
	return finish(p)
}

func (tx *ImportTx) slots() ([][]xc.Address, error) {
	if len(tx.InputSigners) != len(tx.ImportedInputs) {
		return nil, fmt.Errorf("signers known for %d of %d imported inputs", len(tx.InputSigners), len(tx.ImportedInputs))
	}
	hrp := address.HRP(tx.NetworkID)
	slots := make([][]xc.Address, len(tx.ImportedInputs))
	for i, in := range tx.ImportedInputs {
		signers := tx.InputSigners[i]
		if len(signers) != len(in.In.SigIndices) {
			return nil, fmt.Errorf("input %d has %d signature indices but %d signers", i, len(in.In.SigIndices), len(signers))
		}
		for _, signer := range signers {
			addr, err := address.FormatBech32(xc.AliasP, hrp, signer)
			if err != nil {
				return nil, err
			}
			slots[i] = append(slots[i], xc.Address(addr))
		}
	}
	return slots, nil
}

// Sighashes returns one request per signature index of each imported input, in input order.
func (tx *ImportTx) Sighashes() ([]*xc.SignatureRequest, error) {
	bz, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	slots, err := tx.slots()
	if err != nil {
		return nil, err
	}
	return sighashes(bz, slots), nil
}

func (tx *ImportTx) Sign(responses ...*xc.SignatureResponse) (xc.Tx, error) {
	bz, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	slots, err := tx.slots()
	if err != nil {
		return nil, err
	}
	creds, err := credentials(slots, responses)
	if err != nil {
		return nil, err
	}
	return newSignedTx(bz, creds)
}

