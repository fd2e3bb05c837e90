package crosschain

// Address is an address on the blockchain, either sender or recipient.
// C-Chain addresses are checksummed hex, P/X-Chain addresses are bech32 with a chain alias prefix.
type Address string

// AddressFormat selects which textual encoding to derive
type AddressFormat string

const (
	// 0x-prefixed EIP-55 hex, used on the C-Chain
	AddressFormatHex AddressFormat = "hex"
	// <alias>-<hrp>1..., used on the P-Chain and X-Chain
	AddressFormatBech32 AddressFormat = "bech32"
)

// AddressBuilder is the interface for building addresses
type AddressBuilder interface {
	GetAddressFromPublicKey(publicKeyBytes []byte) (Address, error)
}
