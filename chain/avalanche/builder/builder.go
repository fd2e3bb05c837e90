package builder

import (
	"github.com/ava-labs/avalanchego/ids"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/address"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx"
	"github.com/cordialsys/crosschain-avax/chain/avalanche/tx_input"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
	"github.com/holiman/uint256"
)

// ExportArgs describes a C-Chain export.
type ExportArgs struct {
	Amount           uint64
	DestinationChain ids.ID
	// C-Chain account debited for amount + fee
	From ids.ShortID
	// Owners of the exported output on the destination chain
	To []ids.ShortID
}

// ImportArgs describes a P-Chain import of atomic UTXOs.
type ImportArgs struct {
	SourceChain ids.ID
	// Keys that control the UTXOs being imported
	From []ids.ShortID
	// Owners of the imported output
	To []ids.ShortID
}

// TxBuilder builds unsigned atomic txs.  It performs no I/O and is deterministic.
type TxBuilder struct {
}

func NewTxBuilder() TxBuilder {
	return TxBuilder{}
}

// Export debits Amount + fee from the account and creates one output of Amount for To on the destination chain.
func (txBuilder TxBuilder) Export(args ExportArgs, input *tx_input.ExportInput) (*tx.ExportTx, error) {
	if err := input.Context.Validate(); err != nil {
		return nil, xcerrors.InvalidArgumentf("invalid chain context: %v", err)
	}
	if args.Amount == 0 {
		return nil, xcerrors.InvalidArgumentf("export amount must be greater than zero")
	}
	if args.From == ids.ShortEmpty {
		return nil, xcerrors.InvalidArgumentf("source account is not set")
	}
	if args.DestinationChain == input.Context.CChainID {
		return nil, xcerrors.InvalidArgumentf("cannot export to the source chain")
	}
	if _, ok := input.Context.Alias(args.DestinationChain); !ok {
		return nil, xcerrors.InvalidArgumentf("unknown destination chain %s", args.DestinationChain)
	}
	to, err := outputOwners(args.To)
	if err != nil {
		return nil, err
	}

	assetID := input.Context.AVAXAssetID
	exportTx := &tx.ExportTx{
		NetworkID:        input.Context.NetworkID,
		BlockchainID:     input.Context.CChainID,
		DestinationChain: args.DestinationChain,
		Ins: []tx.EVMInput{{
			Address: args.From,
			Amount:  args.Amount,
			AssetID: assetID,
			Nonce:   input.Nonce,
		}},
		ExportedOutputs: []tx.TransferableOutput{{
			AssetID: assetID,
			Out: tx.TransferOutput{
				Amt:          args.Amount,
				OutputOwners: tx.OutputOwners{Threshold: 1, Addrs: to},
			},
		}},
	}

	// amounts are fixed width, so the size (and gas) is known before the fee is added
	gas, err := exportTx.GasUsed()
	if err != nil {
		return nil, err
	}
	fee, err := ExportFee(gas, input.BaseFee)
	if err != nil {
		return nil, err
	}
	debit, overflow := new(uint256.Int).AddOverflow(uint256.NewInt(args.Amount), uint256.NewInt(fee))
	if overflow || !debit.IsUint64() {
		return nil, xcerrors.InvalidArgumentf("amount plus fee overflows")
	}
	exportTx.Ins[0].Amount = debit.Uint64()
	return exportTx, nil
}

// EstimateExportFee returns the fee in nAVAX that Export would charge.
func (txBuilder TxBuilder) EstimateExportFee(args ExportArgs, input *tx_input.ExportInput) (uint64, error) {
	exportTx, err := txBuilder.Export(args, input)
	if err != nil {
		return 0, err
	}
	return exportTx.Burned(input.Context.AVAXAssetID)
}

// Import consumes every UTXO of the input, in the given order, and credits the sum minus the fee to To.
func (txBuilder TxBuilder) Import(args ImportArgs, input *tx_input.ImportInput) (*tx.ImportTx, error) {
	if err := input.Context.Validate(); err != nil {
		return nil, xcerrors.InvalidArgumentf("invalid chain context: %v", err)
	}
	if len(input.UTXOs) == 0 {
		return nil, xcerrors.InvalidArgumentf("no utxos to import")
	}
	if input.SourceChain != args.SourceChain {
		return nil, xcerrors.InvalidArgumentf("utxos were read from chain %s, not %s", input.SourceChain, args.SourceChain)
	}
	if args.SourceChain == input.Context.PChainID {
		return nil, xcerrors.InvalidArgumentf("cannot import from the destination chain")
	}
	if len(args.From) == 0 {
		return nil, xcerrors.InvalidArgumentf("no source owners")
	}
	if !tx.IsSortedAndUnique(input.UTXOs) {
		return nil, xcerrors.InvalidArgumentf("utxos must be unique and in canonical order")
	}
	to, err := outputOwners(args.To)
	if err != nil {
		return nil, err
	}

	assetID := input.Context.AVAXAssetID
	total := new(uint256.Int)
	importedInputs := make([]tx.TransferableInput, len(input.UTXOs))
	signers := make([][]ids.ShortID, len(input.UTXOs))
	for i, utxo := range input.UTXOs {
		if utxo.AssetID != assetID {
			return nil, xcerrors.InvalidArgumentf("utxo %s holds asset %s, expected %s", utxo.UTXOID, utxo.AssetID, assetID)
		}
		indices, ok := utxo.Out.SpendIndices(args.From, input.Time)
		if !ok {
			return nil, xcerrors.InvalidArgumentf("utxo %s is not spendable by the source owners", utxo.UTXOID)
		}
		importedInputs[i] = tx.TransferableInput{
			UTXOID:  utxo.UTXOID,
			AssetID: assetID,
			In: tx.TransferInput{
				Amt:        utxo.Amount(),
				SigIndices: indices,
			},
		}
		for _, idx := range indices {
			signers[i] = append(signers[i], utxo.Out.Addrs[idx])
		}
		total.Add(total, uint256.NewInt(utxo.Amount()))
	}

	fee := uint256.NewInt(input.Fee)
	if total.Cmp(fee) <= 0 {
		return nil, xcerrors.InsufficientFundsf("utxos total %s does not cover the import fee %d", total.Dec(), input.Fee)
	}
	credit := new(uint256.Int).Sub(total, fee)
	if !credit.IsUint64() {
		return nil, xcerrors.InvalidArgumentf("imported amount overflows")
	}

	return &tx.ImportTx{
		NetworkID:    input.Context.NetworkID,
		BlockchainID: input.Context.PChainID,
		Outs: []tx.TransferableOutput{{
			AssetID: assetID,
			Out: tx.TransferOutput{
				Amt:          credit.Uint64(),
				OutputOwners: tx.OutputOwners{Threshold: 1, Addrs: to},
			},
		}},
		SourceChain:    args.SourceChain,
		ImportedInputs: importedInputs,
		InputSigners:   signers,
	}, nil
}

// ExportFee is gas * baseFee, exact.
func ExportFee(gas uint64, baseFee uint64) (uint64, error) {
	fee, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(gas), uint256.NewInt(baseFee))
	if overflow || !fee.IsUint64() {
		return 0, xcerrors.InvalidArgumentf("fee overflows: gas %d at base fee %d", gas, baseFee)
	}
	return fee.Uint64(), nil
}

// outputOwners copies and sorts owners, rejecting empty or duplicate sets.
func outputOwners(owners []ids.ShortID) ([]ids.ShortID, error) {
	if len(owners) == 0 {
		return nil, xcerrors.InvalidArgumentf("no destination owners")
	}
	sorted := append([]ids.ShortID{}, owners...)
	address.SortShortIDs(sorted)
	for i := range sorted {
		if sorted[i] == ids.ShortEmpty {
			return nil, xcerrors.InvalidArgumentf("empty destination owner")
		}
		if i > 0 && sorted[i] == sorted[i-1] {
			return nil, xcerrors.InvalidArgumentf("duplicate destination owner %s", sorted[i])
		}
	}
	return sorted, nil
}
