package client

import (
	"context"

	"github.com/ava-labs/avalanchego/ids"
	avajson "github.com/ava-labs/avalanchego/utils/json"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx_input"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/sirupsen/logrus"
)

const avaxSymbol = "AVAX"

type getNetworkIDReply struct {
	NetworkID avajson.Uint32 `json:"networkID"`
}

type getBlockchainIDArgs struct {
	Alias string `json:"alias"`
}

type getBlockchainIDReply struct {
	BlockchainID ids.ID `json:"blockchainID"`
}

type getAssetDescriptionArgs struct {
	AssetID string `json:"assetID"`
}

type getAssetDescriptionReply struct {
	AssetID ids.ID `json:"assetID"`
	Name    string `json:"name"`
	Symbol  string `json:"symbol"`
}

// FetchContext resolves the network ID, the C, P and X-Chain IDs and the AVAX asset ID.
func (client *Client) FetchContext(ctx context.Context) (tx_input.Context, error) {
	var networkReply getNetworkIDReply
	var cReply, pReply, xReply getBlockchainIDReply
	var assetReply getAssetDescriptionReply

	if err := client.fetch(ctx, client.info, &networkReply, "info.getNetworkID"); err != nil {
		return tx_input.Context{}, err
	}
	for _, chain := range []struct {
		alias string
		reply *getBlockchainIDReply
	}{{xc.AliasC, &cReply}, {xc.AliasP, &pReply}, {xc.AliasX, &xReply}} {
		if err := client.fetch(ctx, client.info, chain.reply, "info.getBlockchainID", getBlockchainIDArgs{Alias: chain.alias}); err != nil {
			return tx_input.Context{}, err
		}
	}
	if err := client.fetch(ctx, client.xChain, &assetReply, "avm.getAssetDescription", getAssetDescriptionArgs{AssetID: avaxSymbol}); err != nil {
		return tx_input.Context{}, err
	}

	networkID := uint32(networkReply.NetworkID)
	chainCtx := tx_input.Context{
		NetworkID:   networkID,
		HRP:         address.HRP(networkID),
		CChainID:    cReply.BlockchainID,
		PChainID:    pReply.BlockchainID,
		XChainID:    xReply.BlockchainID,
		AVAXAssetID: assetReply.AssetID,
	}
	if err := chainCtx.Validate(); err != nil {
		return tx_input.Context{}, xcerrors.Wrap(xcerrors.TransportFailure, err, "node returned an incomplete chain context")
	}
	logrus.WithFields(logrus.Fields{
		"network_id": networkID,
		"hrp":        chainCtx.HRP,
		"c_chain":    chainCtx.CChainID,
		"asset":      chainCtx.AVAXAssetID,
	}).Debug("resolved chain context")
	return chainCtx, nil
}
