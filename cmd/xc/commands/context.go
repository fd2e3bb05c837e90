package commands

import (
	"fmt"

	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/spf13/cobra"
)

func CmdContext() *cobra.Command {
	return &cobra.Command{
		Use:   "context",
		Short: "Resolve the network ID, chain IDs and AVAX asset ID from the node.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := setup.UnwrapClient(cmd.Context())
			chainCtx, err := client.FetchContext(cmd.Context())
			if err != nil {
				return fmt.Errorf("could not resolve context: %v", err)
			}
			fmt.Println(asJson(chainCtx))
			return nil
		},
	}
}
