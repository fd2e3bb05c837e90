package signer

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ava-labs/avalanchego/ids"
	"github.com/ava-labs/avalanchego/utils/hashing"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
	"github.com/mr-tron/base58"
)

// Signs sha256 payloads with a recoverable secp256k1 signature, laid out [r || s || v].
type Signer struct {
	privateKey *secp256k1.PrivateKey
	publicKey  PublicKey
	shortID    ids.ShortID
	ethAddress ids.ShortID
}

// PublicKey is a 33 byte compressed public key
type PublicKey []byte

const EnvPrivateKey = "XC_PRIVATE_KEY"

// Prefix of cb58 encoded private keys, as exported by avalanche wallets.
const PrivateKeyPrefix = "PrivateKey-"

const (
	privateKeyLen = 32
	checksumLen   = 4
	// recovery code offset of compact signatures, inherited from bitcoin
	compactSigMagicOffset = 27
)

var (
	ErrInvalidPrivateKey = errors.New("invalid private key")
	ErrInvalidSignature  = errors.New("invalid signature")
)

func ReadPrivateKeyEnv() string {
	val := os.Getenv(EnvPrivateKey)
	if val != "" {
		return val
	}
	// fallback to old PRIVATE_KEY
	return os.Getenv("PRIVATE_KEY")
}

func fromString(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if strings.HasPrefix(secret, PrivateKeyPrefix) {
		decoded, err := base58.Decode(strings.TrimPrefix(secret, PrivateKeyPrefix))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
		}
		if len(decoded) < checksumLen {
			return nil, fmt.Errorf("%w: cb58 payload too short", ErrInvalidPrivateKey)
		}
		payload := decoded[:len(decoded)-checksumLen]
		if !bytes.Equal(hashing.Checksum(payload, checksumLen), decoded[len(payload):]) {
			return nil, fmt.Errorf("%w: bad cb58 checksum", ErrInvalidPrivateKey)
		}
		return payload, nil
	}
	bz, err := hex.DecodeString(strings.TrimPrefix(secret, "0x"))
	if err != nil {
		return nil, fmt.Errorf("%w: expected hex or %s<cb58>", ErrInvalidPrivateKey, PrivateKeyPrefix)
	}
	return bz, nil
}

// New parses a hex (optionally 0x prefixed) or PrivateKey-<cb58> secret.
func New(secret string) (*Signer, error) {
	secretBz, err := fromString(secret)
	if err != nil {
		return nil, err
	}
	if len(secretBz) != privateKeyLen {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidPrivateKey, privateKeyLen, len(secretBz))
	}
	var scalar secp256k1.ModNScalar
	if overflow := scalar.SetByteSlice(secretBz); overflow || scalar.IsZero() {
		return nil, fmt.Errorf("%w: not a valid secp256k1 scalar", ErrInvalidPrivateKey)
	}
	privateKey := secp256k1.NewPrivateKey(&scalar)
	publicKey := privateKey.PubKey().SerializeCompressed()

	shortID, err := address.ShortIDFromPublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	ethAddress, err := address.EthAddressFromPublicKey(publicKey)
	if err != nil {
		return nil, err
	}
	return &Signer{
		privateKey: privateKey,
		publicKey:  publicKey,
		shortID:    shortID,
		ethAddress: ethAddress,
	}, nil
}

// Sign signs a 32 byte digest.
func (s *Signer) Sign(data xc.TxDataToSign) (xc.TxSignature, error) {
	if len(data) != 32 {
		return nil, fmt.Errorf("expected a 32 byte digest, got %d bytes", len(data))
	}
	// [v || r || s] -> [r || s || v]
	compact := ecdsa.SignCompact(s.privateKey, data, false)
	sig := make([]byte, len(compact))
	copy(sig, compact[1:])
	sig[len(sig)-1] = compact[0] - compactSigMagicOffset
	return xc.TxSignature(sig), nil
}

func (s *Signer) PublicKey() PublicKey {
	return append(PublicKey{}, s.publicKey...)
}

// ShortID is the key hash that owns P and X-Chain outputs.
func (s *Signer) ShortID() ids.ShortID {
	return s.shortID
}

// EthAddress is the C-Chain account controlled by the key.
func (s *Signer) EthAddress() ids.ShortID {
	return s.ethAddress
}

func (s *Signer) CAddress() xc.Address {
	return xc.Address(address.FormatHex(s.ethAddress))
}

// Address returns the bech32 address of the key on a P or X-Chain of the given network.
func (s *Signer) Address(alias string, networkID uint32) (xc.Address, error) {
	return address.NewBech32AddressBuilder(alias, networkID).GetAddressFromPublicKey(s.publicKey)
}

// Controls reports whether addr, in either encoding, belongs to this key.
// Bech32 addresses match on the key hash regardless of chain alias or hrp.
func (s *Signer) Controls(addr xc.Address) bool {
	str := strings.TrimSpace(string(addr))
	if strings.HasPrefix(str, "0x") {
		eth, err := address.ParseHex(str)
		return err == nil && eth == s.ethAddress
	}
	_, _, short, err := address.ParseBech32(str)
	return err == nil && short == s.shortID
}

// RecoverPublicKey returns the compressed public key that produced sig over digest.
func RecoverPublicKey(digest []byte, sig []byte) (PublicKey, error) {
	if len(sig) != 65 {
		return nil, fmt.Errorf("%w: expected 65 bytes, got %d", ErrInvalidSignature, len(sig))
	}
	compact := make([]byte, len(sig))
	compact[0] = sig[len(sig)-1] + compactSigMagicOffset
	copy(compact[1:], sig[:len(sig)-1])
	pub, compressed, err := ecdsa.RecoverCompact(compact, digest)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if compressed {
		return nil, fmt.Errorf("%w: unexpected compressed recovery code", ErrInvalidSignature)
	}
	return pub.SerializeCompressed(), nil
}
