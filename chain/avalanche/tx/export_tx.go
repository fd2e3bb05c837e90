package tx

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/holiman/uint256"
)

// Gas schedule of C-Chain atomic txs.
const (
	TxBytesGas           uint64 = 1
	CostPerSignature     uint64 = 1000
	AtomicTxIntrinsicGas uint64 = 10_000
)

// ExportTx moves funds out of C-Chain accounts into the atomic memory of DestinationChain.
type ExportTx struct {
	NetworkID        uint32               `json:"networkID"`
	BlockchainID     ids.ID               `json:"blockchainID"`
	DestinationChain ids.ID               `json:"destinationChain"`
	Ins              []EVMInput           `json:"inputs"`
	ExportedOutputs  []TransferableOutput `json:"exportedOutputs"`
}

var _ xc.UnsignedTx = &ExportTx{}

// Bytes returns the unsigned serialization, which is what gets signed.
func (tx *ExportTx) Bytes() ([]byte, error) {
	p := newPacker()
	packHeader(p, AtomicExportTxTypeID)
	p.PackInt(tx.NetworkID)
	packID(p, tx.BlockchainID)
	packID(p, tx.DestinationChain)
	p.PackInt(uint32(len(tx.Ins)))
	for i := range tx.Ins {
		tx.Ins[i].pack(p)
	}
	p.PackInt(uint32(len(tx.ExportedOutputs)))
	for i := range tx.ExportedOutputs {
		tx.ExportedOutputs[i].pack(p)
	}
	return finish(p)
}

// GasUsed is bytes + signatures + the fixed atomic tx cost.
func (tx *ExportTx) GasUsed() (uint64, error) {
	bz, err := tx.Bytes()
	if err != nil {
		return 0, err
	}
	gas := uint256.NewInt(uint64(len(bz)))
	gas.Mul(gas, uint256.NewInt(TxBytesGas))
	sigCost := uint256.NewInt(uint64(len(tx.Ins)))
	sigCost.Mul(sigCost, uint256.NewInt(CostPerSignature))
	gas.Add(gas, sigCost)
	gas.Add(gas, uint256.NewInt(AtomicTxIntrinsicGas))
	if !gas.IsUint64() {
		return 0, fmt.Errorf("gas overflows uint64")
	}
	return gas.Uint64(), nil
}

// Burned is inputs minus outputs of the asset, i.e. the fee paid.
func (tx *ExportTx) Burned(assetID ids.ID) (uint64, error) {
	in := new(uint256.Int)
	for _, input := range tx.Ins {
		if input.AssetID == assetID {
			in.Add(in, uint256.NewInt(input.Amount))
		}
	}
	out := new(uint256.Int)
	for _, output := range tx.ExportedOutputs {
		if output.AssetID == assetID {
			out.Add(out, uint256.NewInt(output.Out.Amt))
		}
	}
	if in.Lt(out) {
		return 0, fmt.Errorf("outputs exceed inputs")
	}
	burned := new(uint256.Int).Sub(in, out)
	if !burned.IsUint64() {
		return 0, fmt.Errorf("burned amount overflows uint64")
	}
	return burned.Uint64(), nil
}

func (tx *ExportTx) slots() [][]xc.Address {
	slots := make([][]xc.Address, len(tx.Ins))
	for i, in := range tx.Ins {
		slots[i] = []xc.Address{xc.Address(address.FormatHex(in.Address))}
	}
	return slots
}

// Sighashes returns one request per EVM input, signed by the debited account.
func (tx *ExportTx) Sighashes() ([]*xc.SignatureRequest, error) {
	bz, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	return sighashes(bz, tx.slots()), nil
}

func (tx *ExportTx) Sign(responses ...*xc.SignatureResponse) (xc.Tx, error) {
	bz, err := tx.Bytes()
	if err != nil {
		return nil, err
	}
	creds, err := credentials(tx.slots(), responses)
	if err != nil {
		return nil, err
	}
	return newSignedTx(bz, creds)
}
