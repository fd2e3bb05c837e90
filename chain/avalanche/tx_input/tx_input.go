package tx_input

import (
	"fmt"

	"github.com/ava-labs/avalanchego/ids"
	xc "github.com/cordialsys/crosschain-avax"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
)

// Context identifies the network, chains and fee asset.  Resolved once per operation and passed by value.
type Context struct {
	NetworkID   uint32 `json:"network_id"`
	HRP         string `json:"hrp"`
	CChainID    ids.ID `json:"c_chain_id"`
	PChainID    ids.ID `json:"p_chain_id"`
	XChainID    ids.ID `json:"x_chain_id"`
	AVAXAssetID ids.ID `json:"avax_asset_id"`
}

// ChainID resolves a chain alias.
func (c Context) ChainID(alias string) (ids.ID, error) {
	switch alias {
	case xc.AliasC:
		return c.CChainID, nil
	case xc.AliasP:
		return c.PChainID, nil
	case xc.AliasX:
		return c.XChainID, nil
	}
	return ids.Empty, fmt.Errorf("unknown chain alias %q", alias)
}

// Alias is the inverse of ChainID.
func (c Context) Alias(chainID ids.ID) (string, bool) {
	switch chainID {
	case c.CChainID:
		return xc.AliasC, true
	case c.PChainID:
		return xc.AliasP, true
	case c.XChainID:
		return xc.AliasX, true
	}
	return "", false
}

func (c Context) FormatAddress(alias string, addr ids.ShortID) (xc.Address, error) {
	formatted, err := address.FormatBech32(alias, c.HRP, addr)
	return xc.Address(formatted), err
}

func (c Context) Validate() error {
	if c.NetworkID == 0 {
		return fmt.Errorf("network id is not set")
	}
	if c.HRP == "" {
		return fmt.Errorf("hrp is not set")
	}
	if c.CChainID == ids.Empty {
		return fmt.Errorf("c-chain id is not set")
	}
	if c.AVAXAssetID == ids.Empty {
		return fmt.Errorf("avax asset id is not set")
	}
	return nil
}

// ExportInput is everything fetched from the node to build a C-Chain export.
type ExportInput struct {
	Context Context `json:"context"`
	// Base fee in nAVAX per unit of gas
	BaseFee uint64 `json:"base_fee"`
	Nonce   uint64 `json:"nonce"`
}

func (input *ExportInput) String() string {
	return fmt.Sprintf("ExportInput(network=%d, base_fee=%d, nonce=%d)", input.Context.NetworkID, input.BaseFee, input.Nonce)
}

// ImportInput is everything fetched from the node to build a P-Chain import.
type ImportInput struct {
	Context Context `json:"context"`
	// Chain whose atomic memory the UTXOs were read from
	SourceChain ids.ID `json:"source_chain"`
	// Atomic UTXOs exported to the P-Chain, in canonical order
	UTXOs []*tx.UTXO `json:"utxos"`
	// Flat import fee in nAVAX
	Fee uint64 `json:"fee"`
	// Unix time used to evaluate UTXO locktimes
	Time uint64 `json:"time"`
}

// Batches splits the UTXOs into groups of at most max, preserving order.
func (input *ImportInput) Batches(max int) [][]*tx.UTXO {
	if max <= 0 {
		max = xc.DefaultMaxImportInputs
	}
	batches := [][]*tx.UTXO{}
	for start := 0; start < len(input.UTXOs); start += max {
		end := start + max
		if end > len(input.UTXOs) {
			end = len(input.UTXOs)
		}
		batches = append(batches, input.UTXOs[start:end])
	}
	return batches
}

