package client

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"syscall"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	xclient "github.com/cordialsys/crosschain-avax/client"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/cordialsys/crosschain-avax/utils"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

type issueTxArgs struct {
	Tx       string `json:"tx"`
	Encoding string `json:"encoding"`
}

type issueTxReply struct {
	TxID ids.ID `json:"txID"`
}

type txStatusArgs struct {
	TxID string `json:"txID"`
}

type txStatusReply struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

// Rejections meaning an input was consumed (or the account moved on) after it was read.
var staleInputMarkers = []string{
	"already spent",
	"consumed",
	"conflict",
	"missing utxo",
	"failed to get utxo",
	"shared memory",
	"invalid nonce",
	"nonce too low",
}

var existsMarkers = []string{
	"already exists",
	"duplicate",
	"already issued",
	"already known",
}

// SubmitTx issues a signed tx on the C-Chain ("C") or P-Chain ("P").
func (client *Client) SubmitTx(ctx context.Context, chain string, signed xc.Tx) (xc.TxHash, error) {
	rpcClient, err := client.chainClient(chain)
	if err != nil {
		return "", err
	}
	bz, err := signed.Serialize()
	if err != nil {
		return "", xcerrors.Wrap(xcerrors.InvalidArgument, err, "could not serialize tx")
	}
	encoded, err := tx.EncodeHex(bz)
	if err != nil {
		return "", xcerrors.Wrap(xcerrors.InvalidArgument, err, "could not encode tx")
	}
	if err := ctx.Err(); err != nil {
		return "", xcerrors.Wrap(xcerrors.TransportFailure, err, "tx %s was not submitted", signed.Hash())
	}

	log := logrus.WithFields(logrus.Fields{
		"chain": chain,
		"hash":  signed.Hash(),
		"size":  len(bz),
	})
	log.Debug("submitting tx")

	method := issueMethod(chain)
	var reply issueTxReply
	if err := client.call(ctx, rpcClient, &reply, method, issueTxArgs{Tx: encoded, Encoding: hexEncoding}); err != nil {
		classified := ClassifySubmitError(ctx, err)
		log.WithError(err).WithField("status", xcerrors.StatusOf(classified)).Warn("submit failed")
		return "", classified
	}

	hash := signed.Hash()
	if reply.TxID != ids.Empty && xc.TxHash(reply.TxID.String()) != hash {
		log.WithField("node_tx_id", reply.TxID).Warn("node reported a different tx id")
		hash = xc.TxHash(reply.TxID.String())
	}
	log.Info("submitted tx")
	return hash, nil
}

func issueMethod(chain string) string {
	if chain == xc.AliasC {
		return "avax.issueTx"
	}
	return "platform.issueTx"
}

// ClassifySubmitError maps a failed issueTx call to an error status.
//
// Timeouts, cancellation and a connection dropped after the request was sent are
// Indeterminate: the node may have accepted the tx.  Consumed inputs are StaleInput; the same tx submitted
// twice is TransactionExists; any other rejection is TransactionFailure and any other
// transport error is TransportFailure.
func ClassifySubmitError(ctx context.Context, err error) error {
	if ctx.Err() != nil || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return xcerrors.Wrap(xcerrors.Indeterminate, err, "broadcast outcome unknown")
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return xcerrors.Wrap(xcerrors.Indeterminate, err, "broadcast outcome unknown")
	}
	if droppedAfterSend(err) {
		return xcerrors.Wrap(xcerrors.Indeterminate, err, "connection lost, broadcast outcome unknown")
	}

	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		msg := strings.ToLower(rpcErr.Error())
		switch {
		case isStaleInput(msg):
			return xcerrors.Wrap(xcerrors.StaleInput, err, "an input was already consumed")
		case containsAny(msg, existsMarkers):
			return xcerrors.Wrap(xcerrors.TransactionExists, err, "tx already submitted")
		default:
			return xcerrors.Wrap(xcerrors.TransactionFailure, err, "tx rejected")
		}
	}
	return xcerrors.Wrap(xcerrors.TransportFailure, err, "could not reach node")
}

func droppedAfterSend(err error) bool {
	var readErr *utils.ResponseReadError
	return errors.As(err, &readErr) ||
		errors.Is(err, io.EOF) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE)
}

func isStaleInput(msg string) bool {
	if strings.Contains(msg, "not found") && strings.Contains(msg, "utxo") {
		return true
	}
	return containsAny(msg, staleInputMarkers)
}

func containsAny(msg string, markers []string) bool {
	for _, marker := range markers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// FetchTxStatus queries avax.getAtomicTxStatus on the C-Chain or platform.getTxStatus on the P-Chain.
func (client *Client) FetchTxStatus(ctx context.Context, chain string, txHash xc.TxHash) (*xclient.TxStatusInfo, error) {
	rpcClient, err := client.chainClient(chain)
	if err != nil {
		return nil, err
	}
	method := "platform.getTxStatus"
	if chain == xc.AliasC {
		method = "avax.getAtomicTxStatus"
	}
	var reply txStatusReply
	if err := client.fetch(ctx, rpcClient, &reply, method, txStatusArgs{TxID: string(txHash)}); err != nil {
		return nil, err
	}
	return &xclient.TxStatusInfo{
		Hash:   txHash,
		Chain:  chain,
		Status: ParseTxStatus(reply.Status),
		Reason: reply.Reason,
	}, nil
}

func ParseTxStatus(status string) xclient.TxStatus {
	switch strings.ToLower(status) {
	case "accepted", "committed":
		return xclient.TxStatusAccepted
	case "processing":
		return xclient.TxStatusProcessing
	case "dropped", "rejected", "aborted":
		return xclient.TxStatusDropped
	}
	return xclient.TxStatusUnknown
}
