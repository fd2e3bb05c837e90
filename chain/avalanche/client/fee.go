package client

import (
	"context"
	"errors"
	"math/big"

	avajson "github.com/ava-labs/avalanchego/utils/json"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/sirupsen/logrus"
)

// Wei per nAVAX
var weiPerNanoAvax = xc.NewAmountBlockchainFromUint64(1_000_000_000)

type getTxFeeReply struct {
	TxFee avajson.Uint64 `json:"txFee"`
}

// WeiToNanoAvax converts a per gas price in wei to nAVAX, rounding any fraction up.
func WeiToNanoAvax(wei xc.AmountBlockchain) (uint64, error) {
	if wei.Int().Sign() < 0 {
		return 0, xcerrors.InvalidArgumentf("negative base fee %s", wei.String())
	}
	nano := wei.CeilDiv(&weiPerNanoAvax)
	if !nano.IsUint64() {
		return 0, xcerrors.InvalidArgumentf("base fee %s wei overflows", wei.String())
	}
	return nano.Uint64(), nil
}

// FetchBaseFee returns the C-Chain base fee in nAVAX per gas, after the configured multiplier.
func (client *Client) FetchBaseFee(ctx context.Context) (uint64, error) {
	var result hexutil.Big
	if err := client.fetch(ctx, client.cEvm, &result, "eth_baseFee"); err != nil {
		return 0, err
	}
	wei := xc.AmountBlockchain(*(*big.Int)(&result))
	adjusted := wei.ApplyGasPriceMultiplier(client.cfg)
	baseFee, err := WeiToNanoAvax(adjusted)
	if err != nil {
		return 0, err
	}
	logrus.WithFields(logrus.Fields{
		"base_fee_wei": wei.String(),
		"multiplier":   client.cfg.ChainGasMultiplier,
		"base_fee":     baseFee,
	}).Debug("fetched base fee")
	return baseFee, nil
}

// FetchImportFee returns the configured import fee, or the node's tx fee, or the default.
func (client *Client) FetchImportFee(ctx context.Context) (uint64, error) {
	if fee, ok := client.cfg.ImportFeeOverride(); ok {
		return fee, nil
	}
	var reply getTxFeeReply
	err := client.call(ctx, client.info, &reply, "info.getTxFee")
	if err != nil {
		var rpcErr rpc.Error
		if errors.As(err, &rpcErr) {
			logrus.WithError(err).WithField("fee", xc.DefaultImportFee).Warn("node does not report a tx fee, using default")
			return xc.DefaultImportFee, nil
		}
		return 0, xcerrors.Wrap(xcerrors.TransportFailure, err, "info.getTxFee")
	}
	if reply.TxFee == 0 {
		return xc.DefaultImportFee, nil
	}
	return uint64(reply.TxFee), nil
}

// FetchNonce returns the account nonce of a C-Chain hex address at the latest block.
func (client *Client) FetchNonce(ctx context.Context, addr xc.Address) (uint64, error) {
	account, err := address.ParseHex(string(addr))
	if err != nil {
		return 0, xcerrors.Wrap(xcerrors.ConfigurationError, err, "invalid C-Chain address")
	}
	ctx, cancel := context.WithTimeout(ctx, client.cfg.Timeout)
	defer cancel()
	nonce, err := client.EthClient.NonceAt(ctx, common.Address(account), nil)
	if err != nil {
		return 0, xcerrors.Wrap(xcerrors.TransportFailure, err, "eth_getTransactionCount")
	}
	return nonce, nil
}
