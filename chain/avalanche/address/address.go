package address

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/constants"
	"github.com/btcsuite/btcd/btcutil/bech32"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160"
)

const addressSep = "-"

var (
	ErrInvalidHex      = errors.New("invalid hex address")
	ErrInvalidChecksum = errors.New("hex address checksum mismatch")
	ErrInvalidBech32   = errors.New("invalid bech32 address")
)

// HRP returns the bech32 human readable part for a network ID.
func HRP(networkID uint32) string {
	return constants.GetHRP(networkID)
}

// FormatHex renders the 20 bytes as an EIP-55 checksummed, 0x-prefixed string.
func FormatHex(addr ids.ShortID) string {
	return common.BytesToAddress(addr[:]).Hex()
}

// ParseHex accepts all-lowercase, all-uppercase, or correctly checksummed hex.
func ParseHex(addr string) (ids.ShortID, error) {
	if !common.IsHexAddress(addr) || !strings.HasPrefix(addr, "0x") {
		return ids.ShortEmpty, fmt.Errorf("%w: %q", ErrInvalidHex, addr)
	}
	body := addr[2:]
	parsed := common.HexToAddress(addr)
	if body != strings.ToLower(body) && body != strings.ToUpper(body) {
		if parsed.Hex() != addr {
			return ids.ShortEmpty, fmt.Errorf("%w: %q", ErrInvalidChecksum, addr)
		}
	}
	return ids.ShortID(parsed), nil
}

// FormatBech32 renders "<alias>-<hrp>1...", e.g. P-fuji1....
func FormatBech32(alias string, hrp string, addr ids.ShortID) (string, error) {
	converted, err := bech32.ConvertBits(addr[:], 8, 5, true)
	if err != nil {
		return "", err
	}
	encoded, err := bech32.Encode(hrp, converted)
	if err != nil {
		return "", err
	}
	if alias == "" {
		return encoded, nil
	}
	return alias + addressSep + encoded, nil
}

// ParseBech32 splits "<alias>-<hrp>1..." into its parts.  The alias is optional.
func ParseBech32(addr string) (alias string, hrp string, short ids.ShortID, err error) {
	encoded := addr
	if idx := strings.Index(addr, addressSep); idx >= 0 {
		alias = addr[:idx]
		encoded = addr[idx+1:]
		if alias == "" {
			return "", "", ids.ShortEmpty, fmt.Errorf("%w: empty chain alias in %q", ErrInvalidBech32, addr)
		}
	}
	hrp, data, err := bech32.Decode(encoded)
	if err != nil {
		return "", "", ids.ShortEmpty, fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	raw, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return "", "", ids.ShortEmpty, fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	short, err = ids.ToShortID(raw)
	if err != nil {
		return "", "", ids.ShortEmpty, fmt.Errorf("%w: %v", ErrInvalidBech32, err)
	}
	return alias, hrp, short, nil
}

// Parse decodes either textual encoding.
func Parse(addr xc.Address) (ids.ShortID, error) {
	s := strings.TrimSpace(string(addr))
	if strings.HasPrefix(s, "0x") {
		return ParseHex(s)
	}
	_, _, short, err := ParseBech32(s)
	return short, err
}

// ParseOnChain decodes a bech32 address and checks it belongs to the given chain alias and hrp.
func ParseOnChain(addr xc.Address, alias string, hrp string) (ids.ShortID, error) {
	gotAlias, gotHrp, short, err := ParseBech32(string(addr))
	if err != nil {
		return ids.ShortEmpty, err
	}
	if gotAlias == "" {
		return ids.ShortEmpty, fmt.Errorf("address %s has no chain alias, expected %s-", addr, alias)
	}
	if gotAlias != alias {
		return ids.ShortEmpty, fmt.Errorf("address %s is not on chain %s", addr, alias)
	}
	if gotHrp != hrp {
		return ids.ShortEmpty, fmt.Errorf("address %s has hrp %q, expected %q", addr, gotHrp, hrp)
	}
	return short, nil
}

// SortShortIDs sorts in place into the canonical owner order used by output owners.
func SortShortIDs(addrs []ids.ShortID) {
	sort.Slice(addrs, func(i, j int) bool {
		return bytes.Compare(addrs[i][:], addrs[j][:]) < 0
	})
}

// ShortIDFromPublicKey is ripemd160(sha256(compressed public key)), the P/X-Chain key hash.
func ShortIDFromPublicKey(publicKey []byte) (ids.ShortID, error) {
	pub, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return ids.ShortEmpty, err
	}
	sha := sha256.Sum256(pub.SerializeCompressed())
	hasher := ripemd160.New()
	_, _ = hasher.Write(sha[:])
	return ids.ToShortID(hasher.Sum(nil))
}

// EthAddressFromPublicKey is the last 20 bytes of keccak256 of the uncompressed key, the C-Chain account.
func EthAddressFromPublicKey(publicKey []byte) (ids.ShortID, error) {
	pub, err := secp256k1.ParsePubKey(publicKey)
	if err != nil {
		return ids.ShortEmpty, err
	}
	return ids.ShortID(crypto.PubkeyToAddress(*pub.ToECDSA())), nil
}

type AddressBuilder struct {
	format xc.AddressFormat
	alias  string
	hrp    string
}

var _ xc.AddressBuilder = AddressBuilder{}

// NewHexAddressBuilder derives C-Chain addresses.
func NewHexAddressBuilder() AddressBuilder {
	return AddressBuilder{format: xc.AddressFormatHex}
}

// NewBech32AddressBuilder derives P or X-Chain addresses for the given network.
func NewBech32AddressBuilder(alias string, networkID uint32) AddressBuilder {
	return AddressBuilder{
		format: xc.AddressFormatBech32,
		alias:  alias,
		hrp:    HRP(networkID),
	}
}

func (ab AddressBuilder) GetAddressFromPublicKey(publicKeyBytes []byte) (xc.Address, error) {
	switch ab.format {
	case xc.AddressFormatHex:
		addr, err := EthAddressFromPublicKey(publicKeyBytes)
		if err != nil {
			return "", err
		}
		return xc.Address(FormatHex(addr)), nil
	default:
		short, err := ShortIDFromPublicKey(publicKeyBytes)
		if err != nil {
			return "", err
		}
		formatted, err := FormatBech32(ab.alias, ab.hrp, short)
		return xc.Address(formatted), err
	}
}
