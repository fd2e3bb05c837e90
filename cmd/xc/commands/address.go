package commands

import (
	"fmt"

	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/cmd/xc/setup"
	"github.com/spf13/cobra"
)

type addressInfo struct {
	CAddress xc.Address `json:"c_address"`
	PAddress xc.Address `json:"p_address"`
	XAddress xc.Address `json:"x_address"`
	ShortID  string     `json:"short_id"`
}

func CmdAddress() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address",
		Short: "Derive the C-Chain, P-Chain and X-Chain addresses of the loaded keys.",
		Args:  cobra.ExactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, signers, err := loadSigners(cmd)
			if err != nil {
				return err
			}
			networkID, ok := cfg.Chain.Network.ID()
			if !ok {
				// ask the node
				chainCtx, err := setup.UnwrapClient(cmd.Context()).FetchContext(cmd.Context())
				if err != nil {
					return fmt.Errorf("could not resolve network: %v", err)
				}
				networkID = chainCtx.NetworkID
			}

			infos := []addressInfo{}
			for _, s := range signers.Signers() {
				pAddress, err := s.Address(xc.AliasP, networkID)
				if err != nil {
					return err
				}
				xAddress, err := s.Address(xc.AliasX, networkID)
				if err != nil {
					return err
				}
				infos = append(infos, addressInfo{
					CAddress: s.CAddress(),
					PAddress: pAddress,
					XAddress: xAddress,
					ShortID:  s.ShortID().String(),
				})
			}
			fmt.Println(asJson(infos))
			return nil
		},
	}
	addKeyFlag(cmd)
	return cmd
}
