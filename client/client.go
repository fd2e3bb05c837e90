package client

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx_input"
)

// ContextResolver fetches the network and chain identifiers from a node.
type ContextResolver interface {
	FetchContext(ctx context.Context) (tx_input.Context, error)
}

// FeeOracle reports current fees in nAVAX.
type FeeOracle interface {
	// C-Chain base fee per unit of gas, converted from wei and rounded up
	FetchBaseFee(ctx context.Context) (uint64, error)
	// Flat fee of a P-Chain import
	FetchImportFee(ctx context.Context) (uint64, error)
}

type NonceClient interface {
	FetchNonce(ctx context.Context, address xc.Address) (uint64, error)
}

// UTXOLocator finds atomic UTXOs exported to the P-Chain from sourceChain.
// Results are best effort and returned in canonical order.
type UTXOLocator interface {
	FetchAtomicUTXOs(ctx context.Context, sourceChain ids.ID, owners []xc.Address) ([]*tx.UTXO, error)
}

// Broadcaster submits a signed tx to the chain with the given alias and returns its id.
type Broadcaster interface {
	SubmitTx(ctx context.Context, chain string, tx xc.Tx) (xc.TxHash, error)
}

type StatusClient interface {
	FetchTxStatus(ctx context.Context, chain string, txHash xc.TxHash) (*TxStatusInfo, error)
}

// Client is a client that can fetch data and submit atomic txs to an Avalanche node
type Client interface {
	ContextResolver
	FeeOracle
	NonceClient
	UTXOLocator
	Broadcaster
	StatusClient
}

type TxStatus string

// The tx is final (C-Chain "Accepted", P-Chain "Committed")
const TxStatusAccepted TxStatus = "Accepted"

const TxStatusProcessing TxStatus = "Processing"

// The tx was rejected or dropped from the mempool
const TxStatusDropped TxStatus = "Dropped"

const TxStatusUnknown TxStatus = "Unknown"

func (s TxStatus) Final() bool {
	return s == TxStatusAccepted || s == TxStatusDropped
}

type TxStatusInfo struct {
	Hash   xc.TxHash `json:"hash"`
	Chain  string    `json:"chain"`
	Status TxStatus  `json:"status"`
	// Reason reported for a dropped tx, if any
	Reason string `json:"reason,omitempty"`
}
