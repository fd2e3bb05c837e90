package transfer

import (
	xc "github.com/cordialsys/crosschain-avax"
)

// State of one transfer operation:
// INIT -> CONTEXT_RESOLVED -> BUILT -> SIGNED -> BROADCAST -> CONFIRMED, or FAILED from any state.
// An import of several batches repeats BUILT -> SIGNED -> BROADCAST for each batch.
type State string

const (
	StateInit            State = "INIT"
	StateContextResolved State = "CONTEXT_RESOLVED"
	StateBuilt           State = "BUILT"
	StateSigned          State = "SIGNED"
	StateBroadcast       State = "BROADCAST"
	StateConfirmed       State = "CONFIRMED"
	StateFailed          State = "FAILED"
)

// Result is returned with every error, so txs that were issued before a failure stay visible.
type Result struct {
	State State `json:"state"`
	// State reached before failing, if failed
	FailedIn State       `json:"failed_in,omitempty"`
	TxIDs    []xc.TxHash `json:"tx_ids"`
	// nAVAX moved: exported amount, or credited by imports
	Amount uint64 `json:"amount"`
	// nAVAX burned in fees
	Fee uint64 `json:"fee"`
}

func (r *Result) fail() {
	if r.State != StateFailed {
		r.FailedIn = r.State
	}
	r.State = StateFailed
}

// SagaResult of an export followed by an import.
type SagaResult struct {
	Export *Result `json:"export"`
	Import *Result `json:"import,omitempty"`
}
