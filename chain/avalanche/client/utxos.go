package client

import (
	"context"
	"errors"

	"github.com/ava-labs/avalanchego/ids"
	avajson "github.com/ava-labs/avalanchego/utils/json"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/sirupsen/logrus"
)

const hexEncoding = "hex"

type utxoIndex struct {
	Address string `json:"address"`
	UTXO    string `json:"utxo"`
}

type getUTXOsArgs struct {
	Addresses   []string       `json:"addresses"`
	SourceChain string         `json:"sourceChain"`
	Limit       avajson.Uint32 `json:"limit"`
	StartIndex  *utxoIndex     `json:"startIndex,omitempty"`
	Encoding    string         `json:"encoding"`
}

type getUTXOsReply struct {
	NumFetched avajson.Uint64 `json:"numFetched"`
	UTXOs      []string       `json:"utxos"`
	EndIndex   utxoIndex      `json:"endIndex"`
	Encoding   string         `json:"encoding"`
}

// FetchAtomicUTXOs pages through platform.getUTXOs for the owners' UTXOs exported from sourceChain.
// Duplicates and outputs other than plain transfers are dropped; the result is sorted by UTXO ID.
func (client *Client) FetchAtomicUTXOs(ctx context.Context, sourceChain ids.ID, owners []xc.Address) ([]*tx.UTXO, error) {
	if len(owners) == 0 {
		return nil, xcerrors.Configurationf("no P-Chain addresses to locate utxos for")
	}
	addresses := make([]string, len(owners))
	for i, owner := range owners {
		addresses[i] = string(owner)
	}
	limit := client.cfg.UtxoPageLimit()
	args := getUTXOsArgs{
		Addresses:   addresses,
		SourceChain: sourceChain.String(),
		Limit:       avajson.Uint32(limit),
		Encoding:    hexEncoding,
	}

	seen := map[tx.UTXOID]bool{}
	utxos := []*tx.UTXO{}
	for page := 0; ; page++ {
		var reply getUTXOsReply
		if err := client.fetch(ctx, client.pChain, &reply, "platform.getUTXOs", args); err != nil {
			return nil, err
		}
		for _, encoded := range reply.UTXOs {
			bz, err := tx.DecodeHex(encoded)
			if err != nil {
				return nil, xcerrors.Wrap(xcerrors.TransportFailure, err, "could not decode utxo")
			}
			utxo, err := tx.ParseUTXO(bz)
			if errors.Is(err, tx.ErrUnsupportedOutput) {
				logrus.WithError(err).Debug("skipping utxo")
				continue
			}
			if err != nil {
				return nil, xcerrors.Wrap(xcerrors.TransportFailure, err, "could not parse utxo")
			}
			if seen[utxo.UTXOID] {
				continue
			}
			seen[utxo.UTXOID] = true
			utxos = append(utxos, utxo)
		}
		logrus.WithFields(logrus.Fields{
			"page":    page,
			"fetched": len(reply.UTXOs),
			"source":  sourceChain,
		}).Debug("fetched utxos")

		if len(reply.UTXOs) < limit {
			break
		}
		next := &utxoIndex{Address: reply.EndIndex.Address, UTXO: reply.EndIndex.UTXO}
		if next.UTXO == "" || (args.StartIndex != nil && *args.StartIndex == *next) {
			break
		}
		args.StartIndex = next
	}
	tx.SortUTXOs(utxos)
	return utxos, nil
}
