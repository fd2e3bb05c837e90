package tx

import (
	"errors"
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/formatting"
	"github.com/ava-labs/avalanchego/utils/wrappers"
)

const CodecVersion uint16 = 0

// Type IDs registered by the C-Chain atomic codec and the P-Chain codec.
// The secp256k1fx IDs are shared by both.
const (
	AtomicImportTxTypeID   uint32 = 0
	AtomicExportTxTypeID   uint32 = 1
	TransferInputTypeID    uint32 = 5
	TransferOutputTypeID   uint32 = 7
	CredentialTypeID       uint32 = 9
	PlatformImportTxTypeID uint32 = 17
)

const (
	SignatureLen = 65
	idLen        = 32
	shortIDLen   = 20
	maxTxSize    = 1 << 20
)

var (
	ErrUnsupportedOutput   = errors.New("unsupported output type")
	ErrTrailingBytes       = errors.New("trailing bytes after decoding")
	ErrUnknownCodecVersion = errors.New("unknown codec version")
	errTooManyElements     = errors.New("slice length exceeds remaining bytes")
)

func newPacker() *wrappers.Packer {
	return &wrappers.Packer{MaxSize: maxTxSize}
}

func packHeader(p *wrappers.Packer, typeID uint32) {
	p.PackShort(CodecVersion)
	p.PackInt(typeID)
}

func packID(p *wrappers.Packer, id ids.ID) {
	p.PackFixedBytes(id[:])
}

func packShortID(p *wrappers.Packer, id ids.ShortID) {
	p.PackFixedBytes(id[:])
}

func unpackID(p *wrappers.Packer) ids.ID {
	var id ids.ID
	copy(id[:], p.UnpackFixedBytes(idLen))
	return id
}

func unpackShortID(p *wrappers.Packer) ids.ShortID {
	var id ids.ShortID
	copy(id[:], p.UnpackFixedBytes(shortIDLen))
	return id
}

// unpackLen reads a slice length and checks that at least elemSize*len bytes remain.
func unpackLen(p *wrappers.Packer, elemSize int) int {
	n := p.UnpackInt()
	if p.Errored() {
		return 0
	}
	remaining := len(p.Bytes) - p.Offset
	if elemSize > 0 && uint64(n)*uint64(elemSize) > uint64(remaining) {
		p.Add(errTooManyElements)
		return 0
	}
	return int(n)
}

func finish(p *wrappers.Packer) ([]byte, error) {
	if p.Errored() {
		return nil, p.Err
	}
	return p.Bytes, nil
}

// EncodeHex renders bytes the way the node's "hex" encoding expects: 0x-prefixed with a 4 byte checksum.
func EncodeHex(bz []byte) (string, error) {
	return formatting.Encode(formatting.Hex, bz)
}

func DecodeHex(str string) ([]byte, error) {
	bz, err := formatting.Decode(formatting.Hex, str)
	if err != nil {
		return nil, fmt.Errorf("could not decode hex payload: %w", err)
	}
	return bz, nil
}
