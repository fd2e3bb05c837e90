package tx

import (
	"fmt"
	"sort"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

// UTXO is a transfer output sitting in a chain's atomic memory or UTXO set.
type UTXO struct {
	UTXOID
	AssetID ids.ID         `json:"assetID"`
	Out     TransferOutput `json:"output"`
}

func (u *UTXO) Amount() uint64 {
	return u.Out.Amt
}

// Bytes is the codec serialization, the form returned by the node's UTXO queries.
func (u *UTXO) Bytes() ([]byte, error) {
	p := newPacker()
	p.PackShort(CodecVersion)
	packID(p, u.TxID)
	p.PackInt(u.OutputIndex)
	packID(p, u.AssetID)
	u.Out.pack(p)
	return finish(p)
}

// ParseUTXO decodes a codec serialized UTXO.  Outputs other than secp256k1 transfer
// outputs (e.g. stakeable locks) return ErrUnsupportedOutput.
func ParseUTXO(bz []byte) (*UTXO, error) {
	p := &wrappers.Packer{Bytes: bz}
	version := p.UnpackShort()
	if p.Errored() {
		return nil, p.Err
	}
	if version != CodecVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCodecVersion, version)
	}
	u := &UTXO{}
	u.TxID = unpackID(p)
	u.OutputIndex = p.UnpackInt()
	u.AssetID = unpackID(p)
	if p.Errored() {
		return nil, p.Err
	}
	if err := u.Out.unpack(p); err != nil {
		return nil, err
	}
	if p.Offset != len(p.Bytes) {
		return nil, ErrTrailingBytes
	}
	return u, nil
}

// SortUTXOs sorts into the canonical input order.
func SortUTXOs(utxos []*UTXO) {
	sort.SliceStable(utxos, func(i, j int) bool {
		return utxos[i].UTXOID.Compare(utxos[j].UTXOID) < 0
	})
}

// IsSortedAndUnique reports whether utxos are in strictly increasing canonical order.
func IsSortedAndUnique(utxos []*UTXO) bool {
	for i := 1; i < len(utxos); i++ {
		if utxos[i-1].UTXOID.Compare(utxos[i].UTXOID) >= 0 {
			return false
		}
	}
	return true
}
