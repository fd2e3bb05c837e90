package commands

import (
	"encoding/json"
	"fmt"

	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/cordialsys/crosschain-avax/config"
	"github.com/cordialsys/crosschain-avax/signer"
	"github.com/cordialsys/crosschain-avax/transfer"
	"github.com/spf13/cobra"
)

func asJson(data any) string {
	bz, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		panic(err)
	}
	return string(bz)
}

// parseAmount reads a decimal AVAX amount into nAVAX.
func parseAmount(amountHuman string) (uint64, error) {
	human, err := xc.NewAmountHumanReadableFromStr(amountHuman)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %v", amountHuman, err)
	}
	if !human.Decimal().IsPositive() {
		return 0, fmt.Errorf("amount must be positive")
	}
	amount := human.ToBlockchain(xc.NanoAvaxDecimals)
	if !amount.IsUint64() {
		return 0, fmt.Errorf("amount %s is too large", amountHuman)
	}
	if !human.Decimal().Shift(xc.NanoAvaxDecimals).IsInteger() {
		return 0, fmt.Errorf("amount %s has more than %d decimals", amountHuman, xc.NanoAvaxDecimals)
	}
	return amount.Uint64(), nil
}

func addKeyFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("key", nil, fmt.Sprintf("Private key reference, repeatable.  Overrides the configured keys (default env:%s).", signer.EnvPrivateKey))
}

func addImportToFlag(cmd *cobra.Command) {
	cmd.Flags().StringArray("to", nil, "P-Chain address credited by the import, repeatable.  Defaults to the configured p_addresses.")
}

func loadSigners(cmd *cobra.Command) (*config.Config, *signer.Collection, error) {
	cfg := setup.UnwrapConfig(cmd.Context())
	keyRefs, _ := cmd.Flags().GetStringArray("key")
	transferCfg := cfg.Transfer
	if len(keyRefs) > 0 {
		transferCfg.PrivateKeys = make([]config.Secret, len(keyRefs))
		for i, ref := range keyRefs {
			if !config.HasTypePrefix(ref) {
				return nil, nil, fmt.Errorf("--key must be a secret reference such as env:%s, not a key", signer.EnvPrivateKey)
			}
			transferCfg.PrivateKeys[i] = config.Secret(ref)
		}
	}
	signers, err := transferCfg.Signers()
	if err != nil {
		return nil, nil, err
	}
	if signers.Len() == 0 {
		return nil, nil, fmt.Errorf("no private key loaded; set %s or configure avax.transfer.private_keys", signer.EnvPrivateKey)
	}
	return cfg, signers, nil
}

func newTransferer(cmd *cobra.Command) (*transfer.Transferer, error) {
	cfg, signers, err := loadSigners(cmd)
	if err != nil {
		return nil, err
	}
	if to, _ := cmd.Flags().GetStringArray("to"); len(to) > 0 {
		cfg.Transfer.ImportTo = make([]xc.Address, len(to))
		for i, addr := range to {
			cfg.Transfer.ImportTo[i] = xc.Address(addr)
		}
	}
	transferCfg, err := cfg.TransferConfig(signers)
	if err != nil {
		return nil, err
	}
	return transfer.NewTransferer(transferCfg, setup.UnwrapClient(cmd.Context()))
}
