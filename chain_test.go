package crosschain_test

import (
	"time"

	. "github.com/cordialsys/crosschain-avax"
	"golang.org/x/time/rate"
)

func (s *CrosschainTestSuite) TestConfigureDefaults() {
	require := s.Require()
	cfg := NewChainConfig("http://127.0.0.1:9650", Local)
	require.Equal(DefaultMaxImportInputs, cfg.MaxImportInputs)
	require.Equal(DefaultRequestTimeout, cfg.Timeout)
	require.NotNil(cfg.Limiter)
	require.Equal(rate.Inf, cfg.Limiter.Limit())
	require.Equal(MaxUtxoPageSize, cfg.UtxoPageSize)
	require.NoError(cfg.Validate())
}

func (s *CrosschainTestSuite) TestUtxoPageLimit() {
	vectors := []struct {
		size  int
		limit int
	}{
		{0, MaxUtxoPageSize},
		{-1, MaxUtxoPageSize},
		{2, 2},
		{MaxUtxoPageSize, MaxUtxoPageSize},
		{2048, MaxUtxoPageSize},
	}
	for _, v := range vectors {
		cfg := &ChainConfig{URL: "x", UtxoPageSize: v.size}
		s.Require().Equal(v.limit, cfg.UtxoPageLimit(), "size %d", v.size)
		cfg.Configure()
		s.Require().Equal(v.limit, cfg.UtxoPageSize, "size %d", v.size)
	}
}

func (s *CrosschainTestSuite) TestLimiter() {
	require := s.Require()
	cfg := &ChainConfig{URL: "x", RateLimit: 5, Burst: 2}
	cfg.Configure()
	require.EqualValues(5, cfg.Limiter.Limit())
	require.Equal(2, cfg.Limiter.Burst())

	cfg = &ChainConfig{URL: "x", PeriodLimit: time.Second}
	cfg.Configure()
	require.EqualValues(1, cfg.Limiter.Limit())
}

func (s *CrosschainTestSuite) TestImportFeeOverride() {
	require := s.Require()
	cfg := NewChainConfig("x", Fuji)
	_, ok := cfg.ImportFeeOverride()
	require.False(ok)

	fee, err := NewAmountHumanReadableFromStr("0.001")
	require.NoError(err)
	cfg.WithImportFee(fee)
	nano, ok := cfg.ImportFeeOverride()
	require.True(ok)
	require.EqualValues(1_000_000, nano)
}

func (s *CrosschainTestSuite) TestValidate() {
	require := s.Require()
	require.Error((&ChainConfig{}).Validate())
	require.Error((&ChainConfig{URL: "x", Network: "devnet"}).Validate())

	cfg, ok := DefaultChainConfig(Fuji)
	require.True(ok)
	require.Equal("https://api.avax-test.network", cfg.URL)
	require.NoError(cfg.Validate())
	// the shared default is not mutated
	cfg.URL = "changed"
	require.Equal("https://api.avax-test.network", DefaultChainConfigs[Fuji].URL)

	_, ok = DefaultChainConfig("devnet")
	require.False(ok)
}

func (s *CrosschainTestSuite) TestNetworkID() {
	require := s.Require()
	for network, expected := range map[Network]uint32{Mainnet: 1, Fuji: 5, Local: 12345} {
		id, ok := network.ID()
		require.True(ok)
		require.Equal(expected, id)
	}
	_, ok := Network("devnet").ID()
	require.False(ok)
}
