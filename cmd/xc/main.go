package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cordialsys/crosschain-avax/cmd/xc/commands"
	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/spf13/cobra"
)

func CmdXc() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "xc",
		Short:        "Move AVAX from the C-Chain to the P-Chain with atomic export and import txs",
		Args:         cobra.ExactArgs(0),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			args, err := setup.RpcArgsFromCmd(cmd)
			if err != nil {
				return err
			}
			setup.ConfigureLogger(args)

			cfg, err := setup.LoadConfig(args)
			if err != nil {
				return err
			}
			client, err := setup.NewClient(cfg, args)
			if err != nil {
				return err
			}
			cmd.SetContext(setup.CreateContext(cmd.Context(), cfg, client, args))
			return nil
		},
	}
	setup.AddRpcArgs(cmd)

	cmd.AddCommand(commands.CmdContext())
	cmd.AddCommand(commands.CmdAddress())
	cmd.AddCommand(commands.CmdFees())
	cmd.AddCommand(commands.CmdUtxos())
	cmd.AddCommand(commands.CmdExport())
	cmd.AddCommand(commands.CmdImport())
	cmd.AddCommand(commands.CmdTransfer())
	cmd.AddCommand(commands.CmdTxStatus())

	return cmd
}

func main() {
	// interrupting cancels in-flight requests; a cancelled submit is reported as indeterminate
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	rootCmd := CmdXc()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
