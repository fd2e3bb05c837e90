package setup

import (
	"context"
	"fmt"
	"io"

	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	xclient "github.com/cordialsys/crosschain-avax/client"
	"github.com/sirupsen/logrus"
)

// DryRunClient reads from the node but prints signed txs instead of issuing them.
type DryRunClient struct {
	xclient.Client
	out io.Writer
}

var _ xclient.Client = &DryRunClient{}

func NewDryRunClient(client xclient.Client, out io.Writer) *DryRunClient {
	return &DryRunClient{Client: client, out: out}
}

func (c *DryRunClient) SubmitTx(ctx context.Context, chain string, signed xc.Tx) (xc.TxHash, error) {
	bz, err := signed.Serialize()
	if err != nil {
		return "", err
	}
	encoded, err := tx.EncodeHex(bz)
	if err != nil {
		return "", err
	}
	logrus.WithField("chain", chain).WithField("hash", signed.Hash()).Warn("dry run, not submitting tx")
	fmt.Fprintf(c.out, "%s-Chain tx %s\n%s\n", chain, signed.Hash(), encoded)
	return signed.Hash(), nil
}

// Nothing was issued, so nothing will be accepted.
func (c *DryRunClient) FetchTxStatus(ctx context.Context, chain string, hash xc.TxHash) (*xclient.TxStatusInfo, error) {
	return &xclient.TxStatusInfo{Hash: hash, Chain: chain, Status: xclient.TxStatusAccepted, Reason: "dry run"}, nil
}
