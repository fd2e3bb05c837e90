package commands

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/builder"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx_input"
	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// Any owner gives the same size; amounts and addresses are fixed width.
var typicalOwner = ids.ShortID{1}

type feeInfo struct {
	// nAVAX per unit of gas, after the configured multiplier
	BaseFee uint64 `json:"base_fee"`
	// Fee of a typical export, nAVAX and AVAX
	ExportFee      uint64                 `json:"export_fee"`
	ExportFeeHuman xc.AmountHumanReadable `json:"export_fee_avax"`
	ImportFee      uint64                 `json:"import_fee"`
	ImportFeeHuman xc.AmountHumanReadable `json:"import_fee_avax"`
}

func CmdFees() *cobra.Command {
	return &cobra.Command{
		Use:   "fees",
		Short: "Show the current C-Chain base fee, the fee of a single-owner export and the P-Chain import fee.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := setup.UnwrapClient(cmd.Context())
			info := feeInfo{}
			var chainCtx tx_input.Context

			group, ctx := errgroup.WithContext(cmd.Context())
			group.Go(func() (err error) {
				chainCtx, err = client.FetchContext(ctx)
				return err
			})
			group.Go(func() (err error) {
				info.BaseFee, err = client.FetchBaseFee(ctx)
				return err
			})
			group.Go(func() (err error) {
				info.ImportFee, err = client.FetchImportFee(ctx)
				return err
			})
			if err := group.Wait(); err != nil {
				return fmt.Errorf("could not fetch fees: %v", err)
			}

			exportFee, err := builder.NewTxBuilder().EstimateExportFee(builder.ExportArgs{
				Amount:           1,
				DestinationChain: chainCtx.PChainID,
				From:             typicalOwner,
				To:               []ids.ShortID{typicalOwner},
			}, &tx_input.ExportInput{Context: chainCtx, BaseFee: info.BaseFee})
			if err != nil {
				return err
			}
			info.ExportFee = exportFee
			exportFeeAmount := xc.NewAmountBlockchainFromUint64(exportFee)
			info.ExportFeeHuman = exportFeeAmount.ToHuman(xc.NanoAvaxDecimals)
			importFeeAmount := xc.NewAmountBlockchainFromUint64(info.ImportFee)
			info.ImportFeeHuman = importFeeAmount.ToHuman(xc.NanoAvaxDecimals)
			fmt.Println(asJson(info))
			return nil
		},
	}
}
