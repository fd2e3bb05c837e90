package crosschain

import (
	"encoding/json"
	"fmt"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// AVAX is denominated in nAVAX on the P-Chain and in atomic tx amounts,
// and in wei (18 decimals) for C-Chain EVM balances and gas prices.
const (
	NanoAvaxDecimals int32 = 9
	WeiDecimals      int32 = 18
)

// AmountBlockchain is a big integer amount as blockchain expects it for tx.
type AmountBlockchain big.Int

// AmountHumanReadable is a decimal amount as a human expects it for readability.
type AmountHumanReadable decimal.Decimal

func (amount AmountBlockchain) String() string {
	bigInt := big.Int(amount)
	return bigInt.String()
}

// Int converts an AmountBlockchain into *bit.Int
func (amount AmountBlockchain) Int() *big.Int {
	bigInt := big.Int(amount)
	return &bigInt
}

// Uint64 converts an AmountBlockchain into uint64
func (amount AmountBlockchain) Uint64() uint64 {
	bigInt := big.Int(amount)
	return bigInt.Uint64()
}

// IsUint64 reports whether the amount fits an on-chain uint64 field.
func (amount AmountBlockchain) IsUint64() bool {
	bigInt := big.Int(amount)
	return bigInt.IsUint64()
}

// Use the underlying big.Int.Cmp()
func (amount *AmountBlockchain) Cmp(other *AmountBlockchain) int {
	return amount.Int().Cmp(other.Int())
}

// Use the underlying big.Int.Add()
func (amount *AmountBlockchain) Add(x *AmountBlockchain) AmountBlockchain {
	sum := new(big.Int)
	sum.Set((*big.Int)(amount))
	return AmountBlockchain(*sum.Add(sum, x.Int()))
}

// Use the underlying big.Int.Sub()
func (amount *AmountBlockchain) Sub(x *AmountBlockchain) AmountBlockchain {
	diff := new(big.Int)
	diff.Set((*big.Int)(amount))
	return AmountBlockchain(*diff.Sub(diff, x.Int()))
}

// Use the underlying big.Int.Mul()
func (amount *AmountBlockchain) Mul(x *AmountBlockchain) AmountBlockchain {
	prod := new(big.Int)
	prod.Set((*big.Int)(amount))
	return AmountBlockchain(*prod.Mul(prod, x.Int()))
}

// Use the underlying big.Int.Div()
func (amount *AmountBlockchain) Div(x *AmountBlockchain) AmountBlockchain {
	quot := new(big.Int)
	quot.Set((*big.Int)(amount))
	return AmountBlockchain(*quot.Div(quot, x.Int()))
}

// CeilDiv divides and rounds any remainder up.
func (amount *AmountBlockchain) CeilDiv(x *AmountBlockchain) AmountBlockchain {
	quot, rem := new(big.Int).QuoRem((*big.Int)(amount), x.Int(), new(big.Int))
	if rem.Sign() > 0 {
		quot.Add(quot, big.NewInt(1))
	}
	return AmountBlockchain(*quot)
}

var zero = big.NewInt(0)

func (amount *AmountBlockchain) IsZero() bool {
	return amount.Int().Cmp(zero) == 0
}

func (amount *AmountBlockchain) ToHuman(decimals int32) AmountHumanReadable {
	dec := decimal.NewFromBigInt(amount.Int(), -decimals)
	return AmountHumanReadable(dec)
}

func (amount AmountBlockchain) ApplyGasPriceMultiplier(chain *ChainConfig) AmountBlockchain {
	multiplier := chain.GasMultiplier()
	if multiplier == 1 {
		return amount
	}
	return MultiplyByFloat(amount, multiplier)
}

func MultiplyByFloat(amount AmountBlockchain, multiplier float64) AmountBlockchain {
	if amount.IsZero() {
		return amount
	}
	// (precision * multiplier * amount) / precision, rounded up
	precision := uint64(1000000)
	multBig := NewAmountBlockchainFromUint64(uint64(float64(precision) * multiplier))
	divBig := NewAmountBlockchainFromUint64(precision)
	product := multBig.Mul(&amount)
	return product.CeilDiv(&divBig)
}

// NewAmountBlockchainFromUint64 creates a new AmountBlockchain from a uint64
func NewAmountBlockchainFromUint64(u64 uint64) AmountBlockchain {
	bigInt := new(big.Int).SetUint64(u64)
	return AmountBlockchain(*bigInt)
}

// NewAmountBlockchainFromStr creates a new AmountBlockchain from a string
func NewAmountBlockchainFromStr(str string) AmountBlockchain {
	bigInt, ok := new(big.Int).SetString(str, 0)
	if !ok {
		return NewAmountBlockchainFromUint64(0)
	}
	return AmountBlockchain(*bigInt)
}

// NewAmountHumanReadableFromStr creates a new AmountHumanReadable from a string
func NewAmountHumanReadableFromStr(str string) (AmountHumanReadable, error) {
	decimal, err := decimal.NewFromString(str)
	return AmountHumanReadable(decimal), err
}

func (amount AmountHumanReadable) Decimal() decimal.Decimal {
	return decimal.Decimal(amount)
}

// ToBlockchain scales by 10^decimals.  Digits beyond the precision are truncated.
func (amount AmountHumanReadable) ToBlockchain(decimals int32) AmountBlockchain {
	factor := decimal.NewFromInt32(10).Pow(decimal.NewFromInt32(decimals))
	raised := ((decimal.Decimal)(amount)).Mul(factor)
	return AmountBlockchain(*raised.BigInt())
}

func (amount AmountHumanReadable) String() string {
	return decimal.Decimal(amount).String()
}

var _ json.Marshaler = AmountHumanReadable{}
var _ json.Unmarshaler = &AmountHumanReadable{}
var _ yaml.Unmarshaler = &AmountHumanReadable{}
var _ yaml.Marshaler = AmountHumanReadable{}
var _ yaml.IsZeroer = AmountHumanReadable{}

func (b AmountHumanReadable) MarshalYAML() (interface{}, error) {
	return b.String(), nil
}

func (b AmountHumanReadable) IsZero() bool {
	return decimal.Decimal(b).IsZero()
}

func (b *AmountHumanReadable) UnmarshalYAML(node *yaml.Node) error {
	value := strings.TrimSpace(node.Value)
	value = strings.Trim(value, "\"")
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return fmt.Errorf("invalid decimal amount: %v", err)
	}
	*b = AmountHumanReadable(dec)
	return nil
}

func (b AmountHumanReadable) MarshalJSON() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *AmountHumanReadable) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	decimal, err := decimal.NewFromString(str)
	if err != nil {
		return err
	}
	*b = AmountHumanReadable(decimal)
	return nil
}

var _ json.Marshaler = AmountBlockchain{}
var _ json.Unmarshaler = &AmountBlockchain{}

func (b AmountBlockchain) MarshalJSON() ([]byte, error) {
	return []byte("\"" + b.String() + "\""), nil
}

func (b *AmountBlockchain) UnmarshalJSON(p []byte) error {
	if string(p) == "null" {
		return nil
	}
	str := strings.Trim(string(p), "\"")
	var z big.Int
	_, ok := z.SetString(str, 0)
	if !ok {
		return fmt.Errorf("not a valid big integer: %s", p)
	}
	*b = AmountBlockchain(z)
	return nil
}
