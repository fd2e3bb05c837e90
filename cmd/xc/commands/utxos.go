package commands

import (
	"fmt"

	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/spf13/cobra"
)

type utxoInfo struct {
	ID        string       `json:"id"`
	Amount    uint64       `json:"amount"`
	AssetID   string       `json:"asset_id"`
	Locktime  uint64       `json:"locktime,omitempty"`
	Threshold uint32       `json:"threshold"`
	Owners    []xc.Address `json:"owners"`
}

type utxosInfo struct {
	Source string     `json:"source"`
	UTXOs  []utxoInfo `json:"utxos"`
	// Sum of the AVAX utxos, nAVAX
	Total uint64 `json:"total"`
}

func CmdUtxos() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "utxos [p-address ...]",
		Short: "List atomic UTXOs exported to the P-Chain and not yet imported.  Defaults to the configured P-Chain addresses.",
		RunE: func(cmd *cobra.Command, args []string) error {
			client := setup.UnwrapClient(cmd.Context())
			cfg := setup.UnwrapConfig(cmd.Context())

			owners := cfg.Transfer.PAddresses
			if len(args) > 0 {
				owners = make([]xc.Address, len(args))
				for i, arg := range args {
					owners[i] = xc.Address(arg)
				}
			}
			if len(owners) == 0 {
				return fmt.Errorf("pass a P-Chain address or configure avax.transfer.p_addresses")
			}

			chainCtx, err := client.FetchContext(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not resolve context: %v", err)
			}
			for _, owner := range owners {
				if _, err := address.ParseOnChain(owner, xc.AliasP, chainCtx.HRP); err != nil {
					return err
				}
			}
			sourceID, err := chainCtx.ChainID(source)
			if err != nil {
				return err
			}
			utxos, err := client.FetchAtomicUTXOs(cmd.Context(), sourceID, owners)
			if err != nil {
				return fmt.Errorf("could not fetch utxos: %v", err)
			}

			info := utxosInfo{Source: source, UTXOs: []utxoInfo{}}
			for _, utxo := range utxos {
				entry, err := describeUtxo(utxo, chainCtx.HRP)
				if err != nil {
					return err
				}
				if utxo.AssetID == chainCtx.AVAXAssetID {
					info.Total += utxo.Amount()
				}
				info.UTXOs = append(info.UTXOs, entry)
			}
			fmt.Println(asJson(info))
			return nil
		},
	}
	cmd.Flags().StringVar(&source, "source", xc.AliasC, "Chain the UTXOs were exported from.")
	return cmd
}

func describeUtxo(utxo *tx.UTXO, hrp string) (utxoInfo, error) {
	entry := utxoInfo{
		ID:        utxo.UTXOID.String(),
		Amount:    utxo.Amount(),
		AssetID:   utxo.AssetID.String(),
		Locktime:  utxo.Out.Locktime,
		Threshold: utxo.Out.Threshold,
	}
	for _, owner := range utxo.Out.Addrs {
		addr, err := address.FormatBech32(xc.AliasP, hrp, owner)
		if err != nil {
			return entry, err
		}
		entry.Owners = append(entry.Owners, xc.Address(addr))
	}
	return entry, nil
}
