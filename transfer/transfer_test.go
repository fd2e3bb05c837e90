package transfer_test

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx_input"
	xclient "github.com/cordialsys/crosschain-avax/client"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/cordialsys/crosschain-avax/signer"
	"github.com/cordialsys/crosschain-avax/testutil"
	"github.com/cordialsys/crosschain-avax/transfer"
	"github.com/stretchr/testify/require"
)

var (
	ewoq   = testutil.ShortID(testutil.EwoqShortID)
	other  = testutil.ShortID(testutil.OtherShortID)
	asset  = testutil.ID(0xaa)
	cChain = testutil.ID(0xcc)
)

type submission struct {
	chain string
	tx    *tx.SignedTx
}

type fakeClient struct {
	lock       sync.Mutex
	chainCtx   tx_input.Context
	ctxErr     error
	baseFee    uint64
	feeErr     error
	nonce      uint64
	utxos      []*tx.UTXO
	importFee  uint64
	submitErrs []error
	statuses   []xclient.TxStatus
	submitted  []submission
	utxoQuery  []xc.Address
}

var _ xclient.Client = &fakeClient{}

func newFakeClient() *fakeClient {
	return &fakeClient{
		chainCtx: tx_input.Context{
			NetworkID:   5,
			HRP:         "fuji",
			CChainID:    cChain,
			PChainID:    ids.Empty,
			XChainID:    testutil.ID(0xdd),
			AVAXAssetID: asset,
		},
		baseFee:   1_000_000,
		nonce:     3,
		importFee: 1_000_000,
	}
}

func (c *fakeClient) FetchContext(ctx context.Context) (tx_input.Context, error) {
	if err := ctx.Err(); err != nil {
		return tx_input.Context{}, err
	}
	return c.chainCtx, c.ctxErr
}
func (c *fakeClient) FetchBaseFee(ctx context.Context) (uint64, error) {
	return c.baseFee, c.feeErr
}
func (c *fakeClient) FetchImportFee(ctx context.Context) (uint64, error) {
	return c.importFee, nil
}
func (c *fakeClient) FetchNonce(ctx context.Context, address xc.Address) (uint64, error) {
	return c.nonce, nil
}
func (c *fakeClient) FetchAtomicUTXOs(ctx context.Context, sourceChain ids.ID, owners []xc.Address) ([]*tx.UTXO, error) {
	c.utxoQuery = owners
	return c.utxos, nil
}
func (c *fakeClient) SubmitTx(ctx context.Context, chain string, signed xc.Tx) (xc.TxHash, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	i := len(c.submitted)
	c.submitted = append(c.submitted, submission{chain: chain, tx: signed.(*tx.SignedTx)})
	if i < len(c.submitErrs) && c.submitErrs[i] != nil {
		return "", c.submitErrs[i]
	}
	return signed.Hash(), nil
}
func (c *fakeClient) FetchTxStatus(ctx context.Context, chain string, txHash xc.TxHash) (*xclient.TxStatusInfo, error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	status := xclient.TxStatusUnknown
	if len(c.statuses) > 0 {
		status = c.statuses[0]
		if len(c.statuses) > 1 {
			c.statuses = c.statuses[1:]
		}
	}
	return &xclient.TxStatusInfo{Hash: txHash, Chain: chain, Status: status}, nil
}

func mustSigner(t *testing.T, secret string) *signer.Signer {
	s, err := signer.New(secret)
	require.NoError(t, err)
	return s
}

func mustAmount(human string) xc.AmountHumanReadable {
	amount, err := xc.NewAmountHumanReadableFromStr(human)
	if err != nil {
		panic(err)
	}
	return amount
}

func newConfig(t *testing.T) transfer.Config {
	return transfer.Config{
		CAddress:   testutil.EwoqCAddress,
		PAddresses: []xc.Address{testutil.EwoqPAddressFuji},
		Signers:    signer.NewCollection(mustSigner(t, testutil.EwoqPrivateKeyHex)),
	}
}

func newTransferer(t *testing.T, cfg transfer.Config, client *fakeClient) *transfer.Transferer {
	transferer, err := transfer.NewTransferer(cfg, client)
	require.NoError(t, err)
	return transferer.WithClock(func() time.Time { return time.Unix(1_700_000_000, 0) })
}

func utxo(txid byte, amount uint64, owners ...ids.ShortID) *tx.UTXO {
	return &tx.UTXO{
		UTXOID:  tx.UTXOID{TxID: testutil.ID(txid)},
		AssetID: asset,
		Out: tx.TransferOutput{
			Amt:          amount,
			OutputOwners: tx.OutputOwners{Threshold: 1, Addrs: owners},
		},
	}
}

func TestConfigValidate(t *testing.T) {
	vectors := []struct {
		name   string
		modify func(*transfer.Config)
	}{
		{"no c address", func(c *transfer.Config) { c.CAddress = "" }},
		{"bech32 c address", func(c *transfer.Config) { c.CAddress = testutil.EwoqPAddressFuji }},
		{"no p address", func(c *transfer.Config) { c.PAddresses = nil }},
		{"hex p address", func(c *transfer.Config) { c.PAddresses = []xc.Address{testutil.EwoqCAddress} }},
		{"no keys", func(c *transfer.Config) { c.Signers = nil }},
		{"empty keys", func(c *transfer.Config) { c.Signers = signer.NewCollection() }},
		{"negative batch", func(c *transfer.Config) { c.MaxImportInputs = -1 }},
		{"p address without alias", func(c *transfer.Config) {
			c.PAddresses = []xc.Address{"fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4t"}
		}},
		{"x-chain p address", func(c *transfer.Config) {
			c.PAddresses = []xc.Address{"X-fuji18jma8ppw3nhx5r4ap8clazz0dps7rv5u6wmu4t"}
		}},
		{"hex import destination", func(c *transfer.Config) { c.ImportTo = []xc.Address{testutil.EwoqCAddress} }},
		{"import destination without alias", func(c *transfer.Config) {
			c.ImportTo = []xc.Address{"fuji1l3e9pgs3mmwuwrh95fecme0s0qtn2880s6mdum"}
		}},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			cfg := newConfig(t)
			v.modify(&cfg)
			_, err := transfer.NewTransferer(cfg, newFakeClient())
			require.Equal(t, xcerrors.ConfigurationError, xcerrors.StatusOf(err))
		})
	}
	_, err := transfer.NewTransferer(newConfig(t), nil)
	require.Equal(t, xcerrors.ConfigurationError, xcerrors.StatusOf(err))
}

func TestExport(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	result, err := newTransferer(t, newConfig(t), client).Export(context.Background(), transfer.ExportArgs{Amount: 100_000_000})
	require.NoError(err)
	require.Equal(transfer.StateConfirmed, result.State)
	require.Len(result.TxIDs, 1)
	require.EqualValues(100_000_000, result.Amount)
	require.EqualValues(11_230*1_000_000, result.Fee)

	require.Len(client.submitted, 1)
	require.Equal(xc.AliasC, client.submitted[0].chain)
	require.Equal(result.TxIDs[0], client.submitted[0].tx.Hash())
	require.Len(client.submitted[0].tx.Credentials(), 1)
}

func TestExportFailures(t *testing.T) {
	vectors := []struct {
		name     string
		modify   func(*transfer.Config, *fakeClient)
		status   xcerrors.Status
		failedIn transfer.State
		submits  int
	}{
		{
			name:     "context",
			modify:   func(_ *transfer.Config, c *fakeClient) { c.ctxErr = errors.New("connection refused") },
			status:   xcerrors.TransportFailure,
			failedIn: transfer.StateInit,
		},
		{
			name:     "base fee",
			modify:   func(_ *transfer.Config, c *fakeClient) { c.feeErr = errors.New("eof") },
			status:   xcerrors.TransportFailure,
			failedIn: transfer.StateContextResolved,
		},
		{
			name: "wrong network",
			modify: func(cfg *transfer.Config, _ *fakeClient) {
				cfg.PAddresses = []xc.Address{testutil.EwoqPAddressMain}
			},
			status:   xcerrors.ConfigurationError,
			failedIn: transfer.StateContextResolved,
		},
		{
			name:     "fee overflow",
			modify:   func(_ *transfer.Config, c *fakeClient) { c.baseFee = 1 << 62 },
			status:   xcerrors.InvalidArgument,
			failedIn: transfer.StateContextResolved,
		},
		{
			name: "fee limit",
			modify: func(cfg *transfer.Config, _ *fakeClient) {
				cfg.FeeLimit = mustAmount("10")
			},
			status:   xcerrors.FeeLimitExceeded,
			failedIn: transfer.StateContextResolved,
		},
		{
			name: "missing key",
			modify: func(cfg *transfer.Config, _ *fakeClient) {
				cfg.CAddress = testutil.OtherCAddress
			},
			status:   xcerrors.MissingKey,
			failedIn: transfer.StateBuilt,
		},
		{
			name: "stale",
			modify: func(_ *transfer.Config, c *fakeClient) {
				c.submitErrs = []error{xcerrors.Errorf(xcerrors.StaleInput, "invalid nonce")}
			},
			status:   xcerrors.StaleInput,
			failedIn: transfer.StateBroadcast,
			submits:  1,
		},
		{
			name: "indeterminate",
			modify: func(_ *transfer.Config, c *fakeClient) {
				c.submitErrs = []error{xcerrors.Wrap(xcerrors.Indeterminate, context.DeadlineExceeded, "timeout")}
			},
			status:   xcerrors.Indeterminate,
			failedIn: transfer.StateBroadcast,
			submits:  1,
		},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			cfg := newConfig(t)
			client := newFakeClient()
			v.modify(&cfg, client)

			result, err := newTransferer(t, cfg, client).Export(context.Background(), transfer.ExportArgs{Amount: 100_000_000})
			require.Equal(t, v.status, xcerrors.StatusOf(err))
			require.Equal(t, transfer.StateFailed, result.State)
			require.Equal(t, v.failedIn, result.FailedIn)
			require.Empty(t, result.TxIDs)
			require.Len(t, client.submitted, v.submits)
		})
	}
}

func TestExportCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := newTransferer(t, newConfig(t), newFakeClient()).Export(ctx, transfer.ExportArgs{Amount: 1})
	require.Equal(t, xcerrors.TransportFailure, xcerrors.StatusOf(err))
	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, transfer.StateFailed, result.State)
}

func TestImport(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	client.utxos = []*tx.UTXO{utxo(0x11, 50_000_000, ewoq), utxo(0x22, 30_000_000, ewoq)}

	result, err := newTransferer(t, newConfig(t), client).Import(context.Background(), transfer.ImportArgs{})
	require.NoError(err)
	require.Equal(transfer.StateConfirmed, result.State)
	require.Len(result.TxIDs, 1)
	require.EqualValues(79_000_000, result.Amount)
	require.EqualValues(1_000_000, result.Fee)
	require.Equal([]xc.Address{testutil.EwoqPAddressFuji}, client.utxoQuery)

	require.Len(client.submitted, 1)
	require.Equal(xc.AliasP, client.submitted[0].chain)
	require.Len(client.submitted[0].tx.Credentials(), 2)
}

func TestImportToOtherOwners(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	client.utxos = []*tx.UTXO{utxo(0x11, 50_000_000, ewoq)}
	cfg := newConfig(t)
	cfg.ImportTo = []xc.Address{testutil.OtherPAddressFuji}

	result, err := newTransferer(t, cfg, client).Import(context.Background(), transfer.ImportArgs{})
	require.NoError(err)
	require.EqualValues(49_000_000, result.Amount)
	// utxos are still located and signed for by the configured owners
	require.Equal([]xc.Address{testutil.EwoqPAddressFuji}, client.utxoQuery)
	require.Len(client.submitted, 1)
	require.Len(client.submitted[0].tx.Credentials(), 1)

	unsigned := client.submitted[0].tx.UnsignedBytes()
	require.True(bytes.Contains(unsigned, other[:]))
	require.False(bytes.Contains(unsigned, ewoq[:]))
}

func TestImportToWrongNetwork(t *testing.T) {
	client := newFakeClient()
	client.utxos = []*tx.UTXO{utxo(0x11, 50_000_000, ewoq)}
	cfg := newConfig(t)
	cfg.ImportTo = []xc.Address{testutil.EwoqPAddressMain}

	result, err := newTransferer(t, cfg, client).Import(context.Background(), transfer.ImportArgs{})
	require.Equal(t, xcerrors.ConfigurationError, xcerrors.StatusOf(err))
	require.Equal(t, transfer.StateFailed, result.State)
	require.Empty(t, client.submitted)
}

func TestImportBatches(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	for i := byte(1); i <= 5; i++ {
		client.utxos = append(client.utxos, utxo(i, 10_000_000, ewoq))
	}
	cfg := newConfig(t)
	cfg.MaxImportInputs = 2

	result, err := newTransferer(t, cfg, client).Import(context.Background(), transfer.ImportArgs{SourceChain: xc.AliasC})
	require.NoError(err)
	require.Equal(transfer.StateConfirmed, result.State)
	require.Len(result.TxIDs, 3)
	require.EqualValues(2*19_000_000+9_000_000, result.Amount)
	require.EqualValues(3_000_000, result.Fee)
	require.Len(client.submitted[0].tx.Credentials(), 2)
	require.Len(client.submitted[2].tx.Credentials(), 1)
}

func TestImportBatchFailure(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	for i := byte(1); i <= 5; i++ {
		client.utxos = append(client.utxos, utxo(i, 10_000_000, ewoq))
	}
	client.submitErrs = []error{nil, xcerrors.Errorf(xcerrors.StaleInput, "utxo not found")}
	cfg := newConfig(t)
	cfg.MaxImportInputs = 2

	result, err := newTransferer(t, cfg, client).Import(context.Background(), transfer.ImportArgs{})
	require.Equal(xcerrors.StaleInput, xcerrors.StatusOf(err))
	require.ErrorContains(err, "import 2 of 3")
	require.Equal(transfer.StateFailed, result.State)
	require.Equal(transfer.StateBroadcast, result.FailedIn)
	require.Len(result.TxIDs, 1)
	require.Len(client.submitted, 2)
}

func TestImportNothingSpendable(t *testing.T) {
	require := require.New(t)
	otherAsset := utxo(0x11, 50_000_000, ewoq)
	otherAsset.AssetID = testutil.ID(0x01)
	locked := utxo(0x22, 50_000_000, ewoq)
	locked.Out.Locktime = 2_000_000_000

	client := newFakeClient()
	client.utxos = []*tx.UTXO{otherAsset, locked, utxo(0x33, 50_000_000, other)}

	result, err := newTransferer(t, newConfig(t), client).Import(context.Background(), transfer.ImportArgs{})
	require.Equal(xcerrors.InsufficientFunds, xcerrors.StatusOf(err))
	require.Equal(transfer.StateFailed, result.State)
	require.Empty(client.submitted)
}

func TestImportFeeLimit(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	client.utxos = []*tx.UTXO{utxo(0x11, 50_000_000, ewoq)}
	cfg := newConfig(t)
	cfg.FeeLimit = mustAmount("0.0005")

	result, err := newTransferer(t, cfg, client).Import(context.Background(), transfer.ImportArgs{})
	require.Equal(xcerrors.FeeLimitExceeded, xcerrors.StatusOf(err))
	require.Equal(transfer.StateFailed, result.State)
	require.Empty(client.submitted)

	cfg.FeeLimit = mustAmount("0.001")
	client = newFakeClient()
	client.utxos = []*tx.UTXO{utxo(0x11, 50_000_000, ewoq)}
	_, err = newTransferer(t, cfg, client).Import(context.Background(), transfer.ImportArgs{})
	require.NoError(err)
}

func TestImportErrors(t *testing.T) {
	vectors := []struct {
		name   string
		args   transfer.ImportArgs
		utxos  []*tx.UTXO
		status xcerrors.Status
	}{
		{"fee not covered", transfer.ImportArgs{}, []*tx.UTXO{utxo(0x11, 1_000_000, ewoq)}, xcerrors.InsufficientFunds},
		{"from destination", transfer.ImportArgs{SourceChain: xc.AliasP}, []*tx.UTXO{utxo(0x11, 50_000_000, ewoq)}, xcerrors.ConfigurationError},
		{"unknown source", transfer.ImportArgs{SourceChain: "Q"}, []*tx.UTXO{utxo(0x11, 50_000_000, ewoq)}, xcerrors.ConfigurationError},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			client := newFakeClient()
			client.utxos = v.utxos
			result, err := newTransferer(t, newConfig(t), client).Import(context.Background(), v.args)
			require.Equal(t, v.status, xcerrors.StatusOf(err))
			require.Equal(t, transfer.StateFailed, result.State)
			require.Empty(t, client.submitted)
		})
	}
}

func TestExportThenImport(t *testing.T) {
	require := require.New(t)
	client := newFakeClient()
	client.utxos = []*tx.UTXO{utxo(0x11, 100_000_000, ewoq)}
	client.statuses = []xclient.TxStatus{xclient.TxStatusProcessing, xclient.TxStatusAccepted}
	cfg := newConfig(t)
	cfg.ConfirmInterval = time.Millisecond

	saga, err := newTransferer(t, cfg, client).ExportThenImport(context.Background(), 100_000_000)
	require.NoError(err)
	require.Equal(transfer.StateConfirmed, saga.Export.State)
	require.Equal(transfer.StateConfirmed, saga.Import.State)
	require.EqualValues(99_000_000, saga.Import.Amount)
	require.Len(client.submitted, 2)
	require.Equal(xc.AliasC, client.submitted[0].chain)
	require.Equal(xc.AliasP, client.submitted[1].chain)
}

func TestExportThenImportParksFunds(t *testing.T) {
	vectors := []struct {
		name     string
		statuses []xclient.TxStatus
		interval time.Duration
		status   xcerrors.Status
	}{
		{"import fails", nil, 0, xcerrors.StaleInput},
		{"export dropped", []xclient.TxStatus{xclient.TxStatusDropped}, time.Millisecond, xcerrors.TransactionFailure},
	}
	for _, v := range vectors {
		t.Run(v.name, func(t *testing.T) {
			client := newFakeClient()
			client.utxos = []*tx.UTXO{utxo(0x11, 100_000_000, ewoq)}
			client.statuses = v.statuses
			client.submitErrs = []error{nil, xcerrors.Errorf(xcerrors.StaleInput, "utxo not found")}
			cfg := newConfig(t)
			cfg.ConfirmInterval = v.interval

			saga, err := newTransferer(t, cfg, client).ExportThenImport(context.Background(), 100_000_000)
			require.Equal(t, v.status, xcerrors.StatusOf(err))
			require.ErrorContains(t, err, "re-running the import")
			require.ErrorContains(t, err, string(saga.Export.TxIDs[0]))
			require.Equal(t, transfer.StateConfirmed, saga.Export.State)
		})
	}
}

func TestExportThenImportExportFails(t *testing.T) {
	client := newFakeClient()
	client.submitErrs = []error{xcerrors.Errorf(xcerrors.TransactionFailure, "insufficient funds")}
	saga, err := newTransferer(t, newConfig(t), client).ExportThenImport(context.Background(), 100_000_000)
	require.Equal(t, xcerrors.TransactionFailure, xcerrors.StatusOf(err))
	require.NotContains(t, err.Error(), "re-running")
	require.Nil(t, saga.Import)
	require.Equal(t, transfer.StateFailed, saga.Export.State)
}

func TestWaitForTxTimeout(t *testing.T) {
	client := newFakeClient()
	client.statuses = []xclient.TxStatus{xclient.TxStatusProcessing}
	cfg := newConfig(t)
	cfg.ConfirmInterval = time.Millisecond
	cfg.ConfirmTimeout = 20 * time.Millisecond

	_, err := newTransferer(t, cfg, client).WaitForTx(context.Background(), xc.AliasC, "abc")
	require.Equal(t, xcerrors.Indeterminate, xcerrors.StatusOf(err))
}
