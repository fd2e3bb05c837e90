package crosschain

import (
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// Network selects the Avalanche network a node serves.
type Network string

const (
	Mainnet Network = "mainnet"
	Fuji    Network = "fuji"
	Local   Network = "local"
)

// ID returns the network ID used in txs and to select the bech32 HRP.
func (n Network) ID() (uint32, bool) {
	switch n {
	case Mainnet:
		return 1, true
	case Fuji:
		return 5, true
	case Local:
		return 12345, true
	}
	return 0, false
}

// Default P-Chain import fee in nAVAX when the node does not report one.
const DefaultImportFee uint64 = 1_000_000

// The P-Chain rejects standard txs larger than 64 KiB; 256 inputs keeps an
// import comfortably under that.
const DefaultMaxImportInputs = 256

const DefaultRequestTimeout = 30 * time.Second

// Most UTXOs platform.getUTXOs returns per page; larger limits are cut to this.
const MaxUtxoPageSize = 1024

// Chain aliases used on the node's HTTP routes and in bech32 addresses.
const (
	AliasC = "C"
	AliasP = "P"
	AliasX = "X"
)

// ChainConfig is the explicit configuration of one Avalanche node endpoint.
type ChainConfig struct {
	// Base URI of the node, e.g. https://api.avax-test.network (no /ext suffix)
	URL     string  `yaml:"url,omitempty"`
	Network Network `yaml:"network,omitempty"`

	// Per request timeout applied by the RPC client
	Timeout time.Duration `yaml:"timeout,omitempty"`

	// A local multiplier applied to the fetched C-Chain base fee.
	ChainGasMultiplier float64 `yaml:"chain_gas_multiplier,omitempty"`
	// Named or decimal priority, applied on top of chain_gas_multiplier.
	FeePriority GasFeePriority `yaml:"fee_priority,omitempty"`
	// Largest fee, in AVAX, a single export or import may burn.  Unset means no limit.
	FeeLimit AmountHumanReadable `yaml:"fee_limit,omitempty"`
	// Override of the P-Chain import fee, in AVAX.  When unset the node's `info.getTxFee` is used.
	ImportFee AmountHumanReadable `yaml:"import_fee,omitempty"`
	// Inputs per import tx; more located UTXOs are split into several imports.
	MaxImportInputs int `yaml:"max_import_inputs,omitempty"`
	// Page size of `platform.getUTXOs`
	UtxoPageSize int `yaml:"utxo_page_size,omitempty"`

	// Rate limit setting on RPC requests for client, in requests/second.
	RateLimit rate.Limit `yaml:"rate_limit,omitempty"`
	// Period between requests (alternative to `rate_limit`)
	PeriodLimit time.Duration `yaml:"period_limit,omitempty"`
	// Number of requests to permit in burst
	Burst int `yaml:"burst,omitempty"`

	// Rate limiter configured from `rate_limit`, `period_limit`, `burst` (requires calling .Configure after loading from config)
	Limiter *rate.Limiter `yaml:"-" mapstructure:"-"`
}

func NewChainConfig(url string, network Network) *ChainConfig {
	cfg := &ChainConfig{
		URL:     url,
		Network: network,
	}
	cfg.Configure()
	return cfg
}

func (chain *ChainConfig) WithGasPriceMultiplier(multiplier float64) *ChainConfig {
	chain.ChainGasMultiplier = multiplier
	return chain
}

func (chain *ChainConfig) WithFeePriority(priority GasFeePriority) *ChainConfig {
	chain.FeePriority = priority
	return chain
}

func (chain *ChainConfig) WithFeeLimit(limit AmountHumanReadable) *ChainConfig {
	chain.FeeLimit = limit
	return chain
}

func (chain *ChainConfig) WithImportFee(fee AmountHumanReadable) *ChainConfig {
	chain.ImportFee = fee
	return chain
}

func (chain *ChainConfig) WithMaxImportInputs(max int) *ChainConfig {
	chain.MaxImportInputs = max
	return chain
}

func (chain *ChainConfig) NewClientLimiter() *rate.Limiter {
	// default no limit
	burst := chain.Burst
	if burst == 0 {
		burst = 1
	}
	var limiter = rate.NewLimiter(rate.Inf, burst)
	if chain.PeriodLimit != 0 {
		limiter = rate.NewLimiter(rate.Every(chain.PeriodLimit), burst)
	}
	if chain.RateLimit != 0 {
		limiter = rate.NewLimiter(chain.RateLimit, burst)
	}
	return limiter
}

// Configure fills defaults and builds the limiter.  Call after loading from config.
func (chain *ChainConfig) Configure() {
	if chain.Timeout == 0 {
		chain.Timeout = DefaultRequestTimeout
	}
	if chain.MaxImportInputs <= 0 {
		chain.MaxImportInputs = DefaultMaxImportInputs
	}
	chain.UtxoPageSize = chain.UtxoPageLimit()
	chain.Limiter = chain.NewClientLimiter()
}

func (chain *ChainConfig) Validate() error {
	if chain.URL == "" {
		return fmt.Errorf("chain url is not set")
	}
	switch chain.Network {
	case Mainnet, Fuji, Local, "":
	default:
		return fmt.Errorf("unknown network %q", chain.Network)
	}
	if !chain.ImportFee.IsZero() && chain.ImportFee.Decimal().IsNegative() {
		return fmt.Errorf("import_fee must not be negative")
	}
	if !chain.FeeLimit.IsZero() && chain.FeeLimit.Decimal().IsNegative() {
		return fmt.Errorf("fee_limit must not be negative")
	}
	if chain.FeePriority != "" {
		if _, err := chain.FeePriority.GetDefault(); err != nil {
			return fmt.Errorf("invalid fee_priority: %v", err)
		}
	}
	return nil
}

// GasMultiplier is chain_gas_multiplier (default 1) times the fee priority's multiplier.
func (chain *ChainConfig) GasMultiplier() float64 {
	multiplier := 1.0
	if chain.ChainGasMultiplier > 0.01 {
		multiplier = chain.ChainGasMultiplier
	}
	if chain.FeePriority != "" {
		if priority, err := chain.FeePriority.GetDefault(); err == nil {
			multiplier *= priority.InexactFloat64()
		}
	}
	return multiplier
}

// UtxoPageLimit is utxo_page_size bounded to (0, MaxUtxoPageSize].  A short page only
// means the end of the set when the limit is one the node honours.
func (chain *ChainConfig) UtxoPageLimit() int {
	if chain.UtxoPageSize <= 0 || chain.UtxoPageSize > MaxUtxoPageSize {
		return MaxUtxoPageSize
	}
	return chain.UtxoPageSize
}

func (chain *ChainConfig) CheckFeeLimit(fee uint64) error {
	return CheckFeeLimit(fee, chain.FeeLimit)
}

// ImportFeeOverride returns the configured import fee in nAVAX, if any.
func (chain *ChainConfig) ImportFeeOverride() (uint64, bool) {
	if chain.ImportFee.IsZero() {
		return 0, false
	}
	fee := chain.ImportFee.ToBlockchain(NanoAvaxDecimals)
	if !fee.IsUint64() {
		return 0, false
	}
	return fee.Uint64(), true
}

// Endpoint returns the node route for a chain alias, e.g. /ext/bc/P.
func (chain *ChainConfig) Endpoint(path string) string {
	return chain.URL + path
}

func (c ChainConfig) String() string {
	return fmt.Sprintf("ChainConfig(url=%s, network=%s, max_import_inputs=%d, import_fee=%s)",
		c.URL, c.Network, c.MaxImportInputs, c.ImportFee.String())
}

// Default public endpoints per network.
var DefaultChainConfigs = map[Network]*ChainConfig{
	Mainnet: {URL: "https://api.avax.network", Network: Mainnet},
	Fuji:    {URL: "https://api.avax-test.network", Network: Fuji},
	Local:   {URL: "http://127.0.0.1:9650", Network: Local},
}

// DefaultChainConfig returns a configured copy of the network's default.
func DefaultChainConfig(network Network) (*ChainConfig, bool) {
	def, ok := DefaultChainConfigs[network]
	if !ok {
		return nil, false
	}
	cfg := *def
	cfg.Configure()
	return &cfg, true
}
