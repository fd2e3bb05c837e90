package transfer

import (
	"context"
	"time"

	xc "github.com/cordialsys/crosschain-avax"
	xclient "github.com/cordialsys/crosschain-avax/client"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/sirupsen/logrus"
)

// ExportThenImport exports amount from the C-Chain to the P-Chain and imports it.
//
// The two txs are not atomic.  If the import fails after the export was issued, the funds
// sit in the P-Chain's atomic memory, owned by the configured P-Chain addresses, and are
// recovered by running Import again.
func (t *Transferer) ExportThenImport(ctx context.Context, amount uint64) (*SagaResult, error) {
	saga := &SagaResult{}
	exported, err := t.Export(ctx, ExportArgs{Amount: amount, DestinationChain: xc.AliasP})
	saga.Export = exported
	if err != nil {
		return saga, err
	}
	exportID := exported.TxIDs[0]

	if t.cfg.ConfirmInterval > 0 {
		status, err := t.WaitForTx(ctx, xc.AliasC, exportID)
		if err != nil {
			return saga, parked(exportID, err)
		}
		if status.Status != xclient.TxStatusAccepted {
			return saga, parked(exportID, xcerrors.Errorf(xcerrors.TransactionFailure, "export was %s: %s", status.Status, status.Reason))
		}
	}

	imported, err := t.Import(ctx, ImportArgs{SourceChain: xc.AliasC})
	saga.Import = imported
	if err != nil {
		return saga, parked(exportID, err)
	}
	return saga, nil
}

func parked(exportID xc.TxHash, err error) error {
	return xcerrors.Wrap(xcerrors.StatusOf(err), err,
		"export %s was issued but the import did not complete; the funds are held in the P-Chain atomic memory and can be recovered by re-running the import", exportID)
}

// WaitForTx polls the tx status every ConfirmInterval until it is final or ConfirmTimeout passes.
func (t *Transferer) WaitForTx(ctx context.Context, chain string, hash xc.TxHash) (*xclient.TxStatusInfo, error) {
	return WaitForTx(ctx, t.client, chain, hash, t.cfg.ConfirmInterval, t.cfg.confirmTimeout())
}

// WaitForTx polls client every interval (default one second) until the tx status is final.
// A tx still pending after timeout is Indeterminate.
func WaitForTx(ctx context.Context, client xclient.StatusClient, chain string, hash xc.TxHash, interval time.Duration, timeout time.Duration) (*xclient.TxStatusInfo, error) {
	if interval <= 0 {
		interval = time.Second
	}
	if timeout <= 0 {
		timeout = DefaultConfirmTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logrus.WithFields(logrus.Fields{"chain": chain, "tx_id": hash})
	for {
		status, err := client.FetchTxStatus(ctx, chain, hash)
		if err == nil && status.Status.Final() {
			log.WithField("status", status.Status).Info("tx final")
			return status, nil
		}
		if err != nil {
			log.WithError(err).Debug("could not fetch tx status")
		} else {
			log.WithField("status", status.Status).Debug("waiting for tx")
		}
		select {
		case <-ctx.Done():
			return nil, xcerrors.Wrap(xcerrors.Indeterminate, ctx.Err(), "tx %s did not become final", hash)
		case <-ticker.C:
		}
	}
}
