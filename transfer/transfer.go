package transfer

import (
	"context"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/builder"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx_input"
	xclient "github.com/cordialsys/crosschain-avax/client"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/sirupsen/logrus"
)

// ExportArgs moves Amount nAVAX out of the C-Chain account.
type ExportArgs struct {
	Amount uint64
	// Alias of the destination chain; defaults to P
	DestinationChain string
}

// ImportArgs imports every atomic UTXO exported to the P-Chain from SourceChain.
type ImportArgs struct {
	// Alias of the source chain; defaults to C
	SourceChain string
}

// Transferer drives export and import transfers through their states.  It holds no
// mutable state and may be shared between goroutines.
type Transferer struct {
	cfg     Config
	client  xclient.Client
	builder builder.TxBuilder
	now     func() time.Time
}

func NewTransferer(cfg Config, client xclient.Client) (*Transferer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if client == nil {
		return nil, xcerrors.Configurationf("no node client")
	}
	return &Transferer{
		cfg:     cfg,
		client:  client,
		builder: builder.NewTxBuilder(),
		now:     time.Now,
	}, nil
}

func (t *Transferer) WithClock(now func() time.Time) *Transferer {
	t.now = now
	return t
}

func (t *Transferer) transition(log *logrus.Entry, result *Result, state State) {
	log.WithField("from", result.State).WithField("to", state).Debug("transition")
	result.State = state
}

func (t *Transferer) failed(log *logrus.Entry, result *Result, err error) (*Result, error) {
	result.fail()
	log.WithError(err).WithFields(logrus.Fields{
		"failed_in": result.FailedIn,
		"status":    xcerrors.StatusOf(err),
		"tx_ids":    result.TxIDs,
	}).Error("transfer failed")
	return result, err
}

// fetchErr marks a failed read as a TransportFailure unless it already has a status.
func fetchErr(err error, what string) error {
	if xcerrors.StatusOf(err) != xcerrors.UnknownError {
		return err
	}
	return xcerrors.Wrap(xcerrors.TransportFailure, err, "could not fetch %s", what)
}

// pOwners decodes the configured P-Chain addresses for the context's network.
func (t *Transferer) pOwners(chainCtx tx_input.Context) ([]ids.ShortID, error) {
	return parseOwners(chainCtx, t.cfg.PAddresses)
}

func parseOwners(chainCtx tx_input.Context, addrs []xc.Address) ([]ids.ShortID, error) {
	owners := make([]ids.ShortID, len(addrs))
	for i, addr := range addrs {
		short, err := address.ParseOnChain(addr, xc.AliasP, chainCtx.HRP)
		if err != nil {
			return nil, xcerrors.Wrap(xcerrors.ConfigurationError, err, "P-Chain address does not match network %d", chainCtx.NetworkID)
		}
		owners[i] = short
	}
	return owners, nil
}

// Export moves funds from the C-Chain account into the destination chain's atomic memory.
func (t *Transferer) Export(ctx context.Context, args ExportArgs) (*Result, error) {
	result := &Result{State: StateInit, TxIDs: []xc.TxHash{}}
	destination := args.DestinationChain
	if destination == "" {
		destination = xc.AliasP
	}
	log := logrus.WithFields(logrus.Fields{
		"op":          "export",
		"amount":      args.Amount,
		"destination": destination,
		"from":        t.cfg.CAddress,
	})
	from, err := address.ParseHex(string(t.cfg.CAddress))
	if err != nil {
		return t.failed(log, result, xcerrors.Wrap(xcerrors.ConfigurationError, err, "invalid C-Chain address"))
	}

	chainCtx, err := t.client.FetchContext(ctx)
	if err != nil {
		return t.failed(log, result, fetchErr(err, "chain context"))
	}
	t.transition(log, result, StateContextResolved)

	destinationID, err := chainCtx.ChainID(destination)
	if err != nil {
		return t.failed(log, result, xcerrors.Wrap(xcerrors.ConfigurationError, err, "invalid destination chain"))
	}
	to, err := t.pOwners(chainCtx)
	if err != nil {
		return t.failed(log, result, err)
	}
	baseFee, err := t.client.FetchBaseFee(ctx)
	if err != nil {
		return t.failed(log, result, fetchErr(err, "base fee"))
	}
	nonce, err := t.client.FetchNonce(ctx, t.cfg.CAddress)
	if err != nil {
		return t.failed(log, result, fetchErr(err, "nonce"))
	}

	input := &tx_input.ExportInput{Context: chainCtx, BaseFee: baseFee, Nonce: nonce}
	exportTx, err := t.builder.Export(builder.ExportArgs{
		Amount:           args.Amount,
		DestinationChain: destinationID,
		From:             from,
		To:               to,
	}, input)
	if err != nil {
		return t.failed(log, result, err)
	}
	fee, err := exportTx.Burned(chainCtx.AVAXAssetID)
	if err != nil {
		return t.failed(log, result, err)
	}
	result.Amount = args.Amount
	result.Fee = fee
	log = log.WithFields(logrus.Fields{"fee": fee, "nonce": nonce, "base_fee": baseFee})
	if err := t.checkFeeLimit(fee); err != nil {
		return t.failed(log, result, err)
	}
	t.transition(log, result, StateBuilt)

	signed, err := t.cfg.Signers.SignTx(exportTx)
	if err != nil {
		return t.failed(log, result, err)
	}
	t.transition(log, result, StateSigned)

	t.transition(log, result, StateBroadcast)
	hash, err := t.client.SubmitTx(ctx, xc.AliasC, signed)
	if err != nil {
		return t.failed(log, result, err)
	}
	result.TxIDs = append(result.TxIDs, hash)
	t.transition(log, result, StateConfirmed)
	log.WithField("tx_id", hash).Info("export issued")
	return result, nil
}

// Import moves every AVAX UTXO the configured P-Chain addresses own in the P-Chain's
// atomic memory from the source chain to the ImportTo addresses.  More UTXOs than MaxImportInputs are imported in several txs,
// one after another; the result lists the txs issued before any failure.
func (t *Transferer) Import(ctx context.Context, args ImportArgs) (*Result, error) {
	result := &Result{State: StateInit, TxIDs: []xc.TxHash{}}
	source := args.SourceChain
	if source == "" {
		source = xc.AliasC
	}
	log := logrus.WithFields(logrus.Fields{
		"op":     "import",
		"source": source,
		"to":     t.cfg.importTo(),
	})

	chainCtx, err := t.client.FetchContext(ctx)
	if err != nil {
		return t.failed(log, result, fetchErr(err, "chain context"))
	}
	t.transition(log, result, StateContextResolved)

	sourceID, err := chainCtx.ChainID(source)
	if err != nil || sourceID == chainCtx.PChainID {
		return t.failed(log, result, xcerrors.Configurationf("invalid source chain %q", source))
	}
	owners, err := t.pOwners(chainCtx)
	if err != nil {
		return t.failed(log, result, err)
	}
	to, err := parseOwners(chainCtx, t.cfg.importTo())
	if err != nil {
		return t.failed(log, result, err)
	}
	utxos, err := t.client.FetchAtomicUTXOs(ctx, sourceID, t.cfg.PAddresses)
	if err != nil {
		return t.failed(log, result, fetchErr(err, "atomic utxos"))
	}
	fee, err := t.client.FetchImportFee(ctx)
	if err != nil {
		return t.failed(log, result, fetchErr(err, "import fee"))
	}

	input := &tx_input.ImportInput{
		Context:     chainCtx,
		SourceChain: sourceID,
		UTXOs:       t.spendable(log, chainCtx, owners, utxos),
		Fee:         fee,
		Time:        uint64(t.now().Unix()),
	}
	if len(input.UTXOs) == 0 {
		return t.failed(log, result, xcerrors.InsufficientFundsf("no spendable atomic utxos from chain %s", source))
	}
	// every batch burns the same flat fee
	if err := t.checkFeeLimit(fee); err != nil {
		return t.failed(log, result, err)
	}
	batches := input.Batches(t.cfg.maxImportInputs())
	log = log.WithFields(logrus.Fields{"utxos": len(input.UTXOs), "batches": len(batches), "fee": fee})

	// built, signed and issued one at a time
	for i, batch := range batches {
		batchLog := log.WithField("batch", i)
		batchInput := *input
		batchInput.UTXOs = batch
		importTx, err := t.builder.Import(builder.ImportArgs{
			SourceChain: sourceID,
			From:        owners,
			To:          to,
		}, &batchInput)
		if err != nil {
			return t.failed(batchLog, result, batchErr(err, i, len(batches)))
		}
		t.transition(batchLog, result, StateBuilt)

		signed, err := t.cfg.Signers.SignTx(importTx)
		if err != nil {
			return t.failed(batchLog, result, batchErr(err, i, len(batches)))
		}
		t.transition(batchLog, result, StateSigned)

		t.transition(batchLog, result, StateBroadcast)
		hash, err := t.client.SubmitTx(ctx, xc.AliasP, signed)
		if err != nil {
			return t.failed(batchLog, result, batchErr(err, i, len(batches)))
		}
		result.TxIDs = append(result.TxIDs, hash)
		result.Amount += importTx.Outs[0].Out.Amt
		result.Fee += fee
		batchLog.WithField("tx_id", hash).WithField("credited", importTx.Outs[0].Out.Amt).Info("import issued")
	}
	t.transition(log, result, StateConfirmed)
	return result, nil
}

func (t *Transferer) checkFeeLimit(fee uint64) error {
	if err := xc.CheckFeeLimit(fee, t.cfg.FeeLimit); err != nil {
		return xcerrors.Errorf(xcerrors.FeeLimitExceeded, "%v", err)
	}
	return nil
}

func batchErr(err error, i int, n int) error {
	if n == 1 {
		return err
	}
	return xcerrors.Wrap(xcerrors.StatusOf(err), err, "import %d of %d", i+1, n)
}

// spendable keeps the AVAX UTXOs the owners can spend now, in their canonical order.
func (t *Transferer) spendable(log *logrus.Entry, chainCtx tx_input.Context, owners []ids.ShortID, utxos []*tx.UTXO) []*tx.UTXO {
	now := uint64(t.now().Unix())
	kept := make([]*tx.UTXO, 0, len(utxos))
	for _, utxo := range utxos {
		if utxo.AssetID != chainCtx.AVAXAssetID {
			log.WithField("utxo", utxo.UTXOID).WithField("asset", utxo.AssetID).Warn("skipping utxo of another asset")
			continue
		}
		if _, ok := utxo.Out.SpendIndices(owners, now); !ok {
			log.WithField("utxo", utxo.UTXOID).Warn("skipping utxo that is locked or not owned by the configured addresses")
			continue
		}
		kept = append(kept, utxo)
	}
	tx.SortUTXOs(kept)
	return kept
}
