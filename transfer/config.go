package transfer

import (
	"time"

	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/cordialsys/crosschain-avax/signer"
)

// Config is everything a Transferer needs besides the node.  Nothing is read from the environment.
type Config struct {
	// C-Chain account debited by exports, 0x hex
	CAddress xc.Address
	// P-Chain addresses that own exported outputs, and whose atomic UTXOs are imported
	PAddresses []xc.Address
	// P-Chain addresses credited by imports; defaults to PAddresses
	ImportTo []xc.Address
	Signers  *signer.Collection

	// Inputs per import tx; defaults to xc.DefaultMaxImportInputs
	MaxImportInputs int
	// Largest fee, in AVAX, one tx may burn.  Zero means no limit.
	FeeLimit xc.AmountHumanReadable

	// How often ExportThenImport polls for the export to be accepted before importing.
	// Zero imports right away.
	ConfirmInterval time.Duration
	// Upper bound on that wait; defaults to two minutes
	ConfirmTimeout time.Duration
}

const DefaultConfirmTimeout = 2 * time.Minute

// Validate checks the configuration without any network access.
func (cfg *Config) Validate() error {
	if cfg.CAddress == "" {
		return xcerrors.Configurationf("C-Chain address is not set")
	}
	if _, err := address.ParseHex(string(cfg.CAddress)); err != nil {
		return xcerrors.Wrap(xcerrors.ConfigurationError, err, "invalid C-Chain address")
	}
	if len(cfg.PAddresses) == 0 {
		return xcerrors.Configurationf("no P-Chain addresses")
	}
	if err := validatePAddresses(cfg.PAddresses); err != nil {
		return err
	}
	if err := validatePAddresses(cfg.ImportTo); err != nil {
		return err
	}
	if cfg.Signers == nil || cfg.Signers.Len() == 0 {
		return xcerrors.Configurationf("no private keys")
	}
	if !cfg.FeeLimit.IsZero() && cfg.FeeLimit.Decimal().IsNegative() {
		return xcerrors.Configurationf("fee limit must not be negative")
	}
	if cfg.MaxImportInputs < 0 {
		return xcerrors.Configurationf("max import inputs must not be negative")
	}
	return nil
}

// validatePAddresses requires the P- prefix, which platform.getUTXOs needs.
func validatePAddresses(addrs []xc.Address) error {
	for _, addr := range addrs {
		alias, _, _, err := address.ParseBech32(string(addr))
		if err != nil {
			return xcerrors.Wrap(xcerrors.ConfigurationError, err, "invalid P-Chain address")
		}
		if alias != xc.AliasP {
			return xcerrors.Configurationf("P-Chain address %s must start with %s-", addr, xc.AliasP)
		}
	}
	return nil
}

func (cfg *Config) importTo() []xc.Address {
	if len(cfg.ImportTo) == 0 {
		return cfg.PAddresses
	}
	return cfg.ImportTo
}

func (cfg *Config) maxImportInputs() int {
	if cfg.MaxImportInputs <= 0 {
		return xc.DefaultMaxImportInputs
	}
	return cfg.MaxImportInputs
}

func (cfg *Config) confirmTimeout() time.Duration {
	if cfg.ConfirmTimeout <= 0 {
		return DefaultConfirmTimeout
	}
	return cfg.ConfirmTimeout
}
