package config

import (
	"fmt"
	"time"

	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/signer"
	"github.com/cordialsys/crosschain-avax/transfer"
)

// Section of the config file read by the xc command.
const Section = "avax"

// Config is the `avax:` section of config.yaml.
//
//	avax:
//	  chain:
//	    url: https://api.avax-test.network
//	    network: fuji
//	  transfer:
//	    c_address: "0x8db97C7cEcE249c2b98bDC0226Cc4C2A57BF52FC"
//	    p_addresses: [P-fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4t]
//	    private_keys: [env:XC_PRIVATE_KEY]
type Config struct {
	Chain    *xc.ChainConfig `yaml:"chain,omitempty"`
	Transfer TransferConfig  `yaml:"transfer,omitempty"`
}

type TransferConfig struct {
	CAddress   xc.Address   `yaml:"c_address,omitempty"`
	PAddresses []xc.Address `yaml:"p_addresses,omitempty"`
	// Credited by imports instead of p_addresses
	ImportTo []xc.Address `yaml:"import_to,omitempty"`
	// Secret references, e.g. env:XC_PRIVATE_KEY or gsm:project,secret
	PrivateKeys []Secret `yaml:"private_keys,omitempty"`

	MaxImportInputs int `yaml:"max_import_inputs,omitempty"`
	// AVAX; overrides the chain's fee_limit
	FeeLimit xc.AmountHumanReadable `yaml:"fee_limit,omitempty"`

	ConfirmInterval time.Duration `yaml:"confirm_interval,omitempty"`
	ConfirmTimeout  time.Duration `yaml:"confirm_timeout,omitempty"`
}

// DefaultConfig is used when no config file is found.
func DefaultConfig(network xc.Network) *Config {
	chain, ok := xc.DefaultChainConfig(network)
	if !ok {
		chain, _ = xc.DefaultChainConfig(xc.Fuji)
	}
	return &Config{
		Chain: chain,
		Transfer: TransferConfig{
			PrivateKeys:     []Secret{Secret(fmt.Sprintf("%s:%s", Env, signer.EnvPrivateKey))},
			ConfirmInterval: 2 * time.Second,
			ConfirmTimeout:  transfer.DefaultConfirmTimeout,
		},
	}
}

// Load reads the avax section, falling back to the defaults of network.
func Load(path string, network xc.Network) (*Config, error) {
	cfg := &Config{}
	var err error
	if path != "" {
		err = RequireConfigFile(path, Section, cfg, DefaultConfig(network))
	} else {
		err = RequireConfig(Section, cfg, DefaultConfig(network))
	}
	if err != nil {
		return nil, err
	}
	if cfg.Chain == nil {
		cfg.Chain = DefaultConfig(network).Chain
	}
	cfg.Chain.Configure()
	return cfg, nil
}

// Signers loads every configured private key.  References that resolve to nothing are skipped.
func (cfg *TransferConfig) Signers() (*signer.Collection, error) {
	collection := signer.NewCollection()
	for i, ref := range cfg.PrivateKeys {
		secret, err := ref.Load()
		if err != nil {
			return nil, fmt.Errorf("could not load private key %d: %v", i, err)
		}
		if secret == "" {
			continue
		}
		s, err := signer.New(secret)
		if err != nil {
			return nil, fmt.Errorf("private key %d: %v", i, err)
		}
		collection.AddSigner(s)
	}
	return collection, nil
}

// TransferConfig derives the transfer configuration, defaulting addresses to those of the first key.
func (cfg *Config) TransferConfig(signers *signer.Collection) (transfer.Config, error) {
	out := transfer.Config{
		CAddress:        cfg.Transfer.CAddress,
		PAddresses:      cfg.Transfer.PAddresses,
		ImportTo:        cfg.Transfer.ImportTo,
		Signers:         signers,
		MaxImportInputs: cfg.Transfer.MaxImportInputs,
		FeeLimit:        cfg.Transfer.FeeLimit,
		ConfirmInterval: cfg.Transfer.ConfirmInterval,
		ConfirmTimeout:  cfg.Transfer.ConfirmTimeout,
	}
	if cfg.Chain != nil {
		if out.MaxImportInputs == 0 {
			out.MaxImportInputs = cfg.Chain.MaxImportInputs
		}
		if out.FeeLimit.IsZero() {
			out.FeeLimit = cfg.Chain.FeeLimit
		}
	}
	if signers != nil && signers.Len() > 0 {
		first := signers.Signers()[0]
		if out.CAddress == "" {
			out.CAddress = first.CAddress()
		}
		if len(out.PAddresses) == 0 && cfg.Chain != nil {
			if networkID, ok := cfg.Chain.Network.ID(); ok {
				addr, err := first.Address(xc.AliasP, networkID)
				if err != nil {
					return out, err
				}
				out.PAddresses = []xc.Address{addr}
			}
		}
	}
	return out, out.Validate()
}
