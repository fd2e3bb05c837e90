package commands

import (
	"fmt"
	"time"

	xc "github.com/cordialsys/crosschain-avax"
	xclient "github.com/cordialsys/crosschain-avax/client"
	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/cordialsys/crosschain-avax/transfer"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// printResult shows the result even on failure, so txs issued before the error are not lost.
func printResult(result any, err error) error {
	if result != nil {
		fmt.Println(asJson(result))
	}
	return err
}

func CmdExport() *cobra.Command {
	var destination string
	cmd := &cobra.Command{
		Use:   "export <amount>",
		Short: "Export a decimal AVAX amount from the C-Chain account into the destination chain's atomic memory.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			transferer, err := newTransferer(cmd)
			if err != nil {
				return err
			}
			result, err := transferer.Export(cmd.Context(), transfer.ExportArgs{
				Amount:           amount,
				DestinationChain: destination,
			})
			return printResult(result, err)
		},
	}
	cmd.Flags().StringVar(&destination, "destination", xc.AliasP, "Destination chain alias.")
	addKeyFlag(cmd)
	return cmd
}

func CmdImport() *cobra.Command {
	var source string
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import every atomic UTXO exported to the configured P-Chain addresses, crediting them or --to.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			transferer, err := newTransferer(cmd)
			if err != nil {
				return err
			}
			result, err := transferer.Import(cmd.Context(), transfer.ImportArgs{SourceChain: source})
			return printResult(result, err)
		},
	}
	cmd.Flags().StringVar(&source, "source", xc.AliasC, "Source chain alias.")
	addImportToFlag(cmd)
	addKeyFlag(cmd)
	return cmd
}

func CmdTransfer() *cobra.Command {
	var wait bool
	cmd := &cobra.Command{
		Use:     "transfer <amount>",
		Aliases: []string{"tf"},
		Short:   "Export a decimal AVAX amount from the C-Chain and import it on the P-Chain.",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseAmount(args[0])
			if err != nil {
				return err
			}
			cfg := setup.UnwrapConfig(cmd.Context())
			if !wait {
				cfg.Transfer.ConfirmInterval = 0
			} else if cfg.Transfer.ConfirmInterval <= 0 {
				cfg.Transfer.ConfirmInterval = 2 * time.Second
			}
			transferer, err := newTransferer(cmd)
			if err != nil {
				return err
			}
			if setup.UnwrapArgs(cmd.Context()).DryRun {
				logrus.Warn("dry run: the import will only see utxos that are already exported")
			}
			saga, err := transferer.ExportThenImport(cmd.Context(), amount)
			return printResult(saga, err)
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", true, "Wait for the export to be accepted before importing.")
	addImportToFlag(cmd)
	addKeyFlag(cmd)
	return cmd
}

func CmdTxStatus() *cobra.Command {
	var wait bool
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:     "status <chain> <tx-id>",
		Aliases: []string{"tx"},
		Short:   "Check the status of an atomic tx on the C-Chain (C) or P-Chain (P).",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := setup.UnwrapClient(cmd.Context())
			chain, hash := args[0], xc.TxHash(args[1])
			if chain != xc.AliasC && chain != xc.AliasP {
				return fmt.Errorf("chain must be %s or %s", xc.AliasC, xc.AliasP)
			}
			var status *xclient.TxStatusInfo
			var err error
			if wait {
				status, err = transfer.WaitForTx(cmd.Context(), client, chain, hash, time.Second, timeout)
			} else {
				status, err = client.FetchTxStatus(cmd.Context(), chain, hash)
			}
			if err != nil {
				return fmt.Errorf("could not fetch tx status: %v", err)
			}
			fmt.Println(asJson(status))
			return nil
		},
	}
	cmd.Flags().BoolVar(&wait, "wait", false, "Poll until the tx is accepted or dropped.")
	cmd.Flags().DurationVar(&timeout, "wait-timeout", transfer.DefaultConfirmTimeout, "How long to poll with --wait.")
	return cmd
}
