package crosschain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// GasFeePriority scales the fetched C-Chain base fee, either by name or as a decimal.
type GasFeePriority string

var Low GasFeePriority = "low"
var Market GasFeePriority = "market"
var Aggressive GasFeePriority = "aggressive"
var VeryAggressive GasFeePriority = "very-aggressive"

func NewPriority(input string) (GasFeePriority, error) {
	p := GasFeePriority(input)
	if p.IsEnum() {
		return p, nil
	}
	_, err := p.AsCustom()
	return p, err
}

func (p GasFeePriority) IsEnum() bool {
	switch p {
	case Low, Market, Aggressive, VeryAggressive:
		return true
	}
	return false
}

func (p GasFeePriority) AsCustom() (decimal.Decimal, error) {
	if p.IsEnum() {
		return decimal.Decimal{}, errors.New("not a custom enum")
	}
	dec, err := decimal.NewFromString(string(p))
	if err != nil {
		return dec, fmt.Errorf("invalid decimal: %v", err)
	}
	if !dec.IsPositive() {
		return dec, fmt.Errorf("priority must be positive: %s", dec)
	}
	return dec, nil
}

// GetDefault returns the multiplier of the priority.
func (p GasFeePriority) GetDefault() (decimal.Decimal, error) {
	switch p {
	case Low:
		// never below the current base fee
		return decimal.NewFromInt(1), nil
	case Market:
		return decimal.NewFromFloat(1.1), nil
	case Aggressive:
		return decimal.NewFromFloat(1.5), nil
	case VeryAggressive:
		return decimal.NewFromInt(2), nil
	}
	return p.AsCustom()
}

// CheckFeeLimit protects against fee griefing: a fee in nAVAX above limit (in AVAX) is refused.
// A zero limit disables the check.
func CheckFeeLimit(fee uint64, limit AmountHumanReadable) error {
	if limit.IsZero() {
		return nil
	}
	limitNano := limit.ToBlockchain(NanoAvaxDecimals)
	feeAmount := NewAmountBlockchainFromUint64(fee)
	if feeAmount.Cmp(&limitNano) <= 0 {
		return nil
	}
	return fmt.Errorf(
		"transaction fee may cost up to %s AVAX, which is greater than the current limit of %s AVAX",
		feeAmount.ToHuman(NanoAvaxDecimals).String(),
		limit.String(),
	)
}
