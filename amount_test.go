package crosschain_test

import (
	. "github.com/cordialsys/crosschain-avax"
	"github.com/shopspring/decimal"
)

func (s *CrosschainTestSuite) TestNewAmountBlockchainFromUint64() {
	require := s.Require()
	amount := NewAmountBlockchainFromUint64(123)
	require.NotNil(amount)
	require.Equal(amount.Uint64(), uint64(123))
	require.Equal(amount.String(), "123")
}

func (s *CrosschainTestSuite) TestAmountHumanReadable() {
	require := s.Require()
	amountDec, _ := decimal.NewFromString("10.3")
	amount := AmountHumanReadable(amountDec)
	require.Equal(amount.String(), "10.3")
	require.Equal("10300000000", amount.ToBlockchain(NanoAvaxDecimals).String())
}

func (s *CrosschainTestSuite) TestNewAmountHumanReadableFromStr() {
	require := s.Require()
	amount, err := NewAmountHumanReadableFromStr("10.3")
	require.NoError(err)
	require.Equal(amount.String(), "10.3")

	amount, err = NewAmountHumanReadableFromStr("0")
	require.NoError(err)
	require.Equal(amount.String(), "0")

	_, err = NewAmountHumanReadableFromStr("")
	require.Error(err)

	_, err = NewAmountHumanReadableFromStr("invalid")
	require.Error(err)
}

func (s *CrosschainTestSuite) TestNewBlockchainAmountStr() {
	require := s.Require()
	amount := NewAmountBlockchainFromStr("10")
	require.EqualValues(amount.Uint64(), 10)

	amount = NewAmountBlockchainFromStr("10.1")
	require.EqualValues(amount.Uint64(), 0)

	amount = NewAmountBlockchainFromStr("0x10")
	require.EqualValues(amount.Uint64(), 16)
}

func (s *CrosschainTestSuite) TestCeilDiv() {
	require := s.Require()
	vectors := []struct {
		num, den, expected uint64
	}{
		{0, 1_000_000_000, 0},
		{1, 1_000_000_000, 1},
		{1_000_000_000, 1_000_000_000, 1},
		{1_000_000_001, 1_000_000_000, 2},
		{25_000_000_000, 1_000_000_000, 25},
	}
	for _, v := range vectors {
		num := NewAmountBlockchainFromUint64(v.num)
		den := NewAmountBlockchainFromUint64(v.den)
		require.EqualValues(v.expected, num.CeilDiv(&den).Uint64(), "%d/%d", v.num, v.den)
	}
}

func (s *CrosschainTestSuite) TestGasMultiplier() {
	require := s.Require()

	// Multiplier should default to 1
	require.EqualValues(
		1000,
		NewAmountBlockchainFromUint64(1000).ApplyGasPriceMultiplier(&ChainConfig{}).Uint64(),
	)
	require.EqualValues(
		1200,
		NewAmountBlockchainFromUint64(1000).ApplyGasPriceMultiplier(&ChainConfig{ChainGasMultiplier: 1.2}).Uint64(),
	)
	require.EqualValues(
		500,
		NewAmountBlockchainFromUint64(1000).ApplyGasPriceMultiplier(&ChainConfig{ChainGasMultiplier: .5}).Uint64(),
	)
	require.EqualValues(
		1500,
		NewAmountBlockchainFromUint64(1000).ApplyGasPriceMultiplier(&ChainConfig{ChainGasMultiplier: 1.5}).Uint64(),
	)
}
