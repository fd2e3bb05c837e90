package tx

import (
	"bytes"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// OutputOwners is a threshold of addresses that may spend once Locktime has passed.
type OutputOwners struct {
	Locktime  uint64        `json:"locktime"`
	Threshold uint32        `json:"threshold"`
	Addrs     []ids.ShortID `json:"addresses"`
}

func (o *OutputOwners) pack(p *wrappers.Packer) {
	p.PackLong(o.Locktime)
	p.PackInt(o.Threshold)
	p.PackInt(uint32(len(o.Addrs)))
	for _, addr := range o.Addrs {
		packShortID(p, addr)
	}
}

func (o *OutputOwners) unpack(p *wrappers.Packer) {
	o.Locktime = p.UnpackLong()
	o.Threshold = p.UnpackInt()
	n := unpackLen(p, shortIDLen)
	o.Addrs = make([]ids.ShortID, n)
	for i := range o.Addrs {
		o.Addrs[i] = unpackShortID(p)
	}
}

// SpendIndices returns the owner indices controlled by keys, up to the threshold.
// ok is false if the owners cannot be satisfied by keys at time now.
func (o *OutputOwners) SpendIndices(keys []ids.ShortID, now uint64) (indices []uint32, ok bool) {
	if o.Locktime > now {
		return nil, false
	}
	for i, addr := range o.Addrs {
		if uint32(len(indices)) == o.Threshold {
			break
		}
		for _, key := range keys {
			if key == addr {
				indices = append(indices, uint32(i))
				break
			}
		}
	}
	return indices, uint32(len(indices)) == o.Threshold
}

type TransferOutput struct {
	Amt uint64 `json:"amount"`
	OutputOwners
}

func (out *TransferOutput) pack(p *wrappers.Packer) {
	p.PackInt(TransferOutputTypeID)
	p.PackLong(out.Amt)
	out.OutputOwners.pack(p)
}

func (out *TransferOutput) unpack(p *wrappers.Packer) error {
	typeID := p.UnpackInt()
	if p.Errored() {
		return p.Err
	}
	if typeID != TransferOutputTypeID {
		return fmt.Errorf("%w: type id %d", ErrUnsupportedOutput, typeID)
	}
	out.Amt = p.UnpackLong()
	out.OutputOwners.unpack(p)
	return p.Err
}

type TransferableOutput struct {
	AssetID ids.ID         `json:"assetID"`
	Out     TransferOutput `json:"output"`
}

func (out *TransferableOutput) pack(p *wrappers.Packer) {
	packID(p, out.AssetID)
	out.Out.pack(p)
}

type TransferInput struct {
	Amt        uint64   `json:"amount"`
	SigIndices []uint32 `json:"signatureIndices"`
}

type UTXOID struct {
	TxID        ids.ID `json:"txID"`
	OutputIndex uint32 `json:"outputIndex"`
}

// Compare orders by tx id, then output index.
func (id UTXOID) Compare(other UTXOID) int {
	if c := bytes.Compare(id.TxID[:], other.TxID[:]); c != 0 {
		return c
	}
	switch {
	case id.OutputIndex < other.OutputIndex:
		return -1
	case id.OutputIndex > other.OutputIndex:
		return 1
	}
	return 0
}

func (id UTXOID) String() string {
	return fmt.Sprintf("%s:%d", id.TxID, id.OutputIndex)
}

type TransferableInput struct {
	UTXOID
	AssetID ids.ID        `json:"assetID"`
	In      TransferInput `json:"input"`
}

func (in *TransferableInput) pack(p *wrappers.Packer) {
	packID(p, in.TxID)
	p.PackInt(in.OutputIndex)
	packID(p, in.AssetID)
	p.PackInt(TransferInputTypeID)
	p.PackLong(in.In.Amt)
	p.PackInt(uint32(len(in.In.SigIndices)))
	for _, idx := range in.In.SigIndices {
		p.PackInt(idx)
	}
}

// EVMInput debits an account on the C-Chain.
type EVMInput struct {
	Address ids.ShortID `json:"address"`
	Amount  uint64      `json:"amount"`
	AssetID ids.ID      `json:"assetID"`
	Nonce   uint64      `json:"nonce"`
}

func (in *EVMInput) pack(p *wrappers.Packer) {
	packShortID(p, in.Address)
	p.PackLong(in.Amount)
	packID(p, in.AssetID)
	p.PackLong(in.Nonce)
}

// Credential holds the signatures for one input, ordered like its signature indices.
type Credential struct {
	Sigs [][SignatureLen]byte `json:"signatures"`
}

func (c *Credential) pack(p *wrappers.Packer) {
	p.PackInt(CredentialTypeID)
	p.PackInt(uint32(len(c.Sigs)))
	for _, sig := range c.Sigs {
		p.PackFixedBytes(sig[:])
	}
}
