package crosschain

import "encoding/hex"

// TxHash is a tx hash or id
type TxHash string

// TxDataToSign is the payload that Signer needs to sign, when "signing a tx". It's sometimes called a sighash.
type TxDataToSign []byte

func (data TxDataToSign) String() string {
	return hex.EncodeToString(data)
}

// TxSignature is a tx signature
type TxSignature []byte

// SignatureRequest is one authorization slot of a transaction: the payload and
// the address whose key must sign it.
type SignatureRequest struct {
	Payload TxDataToSign
	Signer  Address
}

func NewSignatureRequest(payload []byte, signer Address) *SignatureRequest {
	return &SignatureRequest{
		Payload: payload,
		Signer:  signer,
	}
}

type SignatureResponse struct {
	Signature TxSignature
	PublicKey []byte
	Address   Address
}

// Tx is a transaction ready for broadcast.
type Tx interface {
	Hash() TxHash
	Serialize() ([]byte, error)
}

// UnsignedTx is a transaction awaiting authorization.
//
// Sighashes returns one request per authorization slot, in input order.
// Sign takes one response per request, in the same order, and returns a new
// signed transaction; the receiver is not modified.
type UnsignedTx interface {
	Sighashes() ([]*SignatureRequest, error)
	Sign(...*SignatureResponse) (Tx, error)
}
