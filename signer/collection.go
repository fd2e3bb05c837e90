package signer

import (
	xc "github.com/cordialsys/crosschain-avax"
	xcerrors "github.com/cordialsys/crosschain-avax/client/errors"
)

// A set of keys that can authorize the slots of a transaction, looked up by address.
type Collection struct {
	signers []*Signer
}

func NewCollection(signers ...*Signer) *Collection {
	return &Collection{signers: signers}
}

func (s *Collection) AddSigner(signer *Signer) {
	s.signers = append(s.signers, signer)
}

func (s *Collection) Len() int {
	return len(s.signers)
}

func (s *Collection) Signers() []*Signer {
	return append([]*Signer{}, s.signers...)
}

func (s *Collection) GetSigner(address xc.Address) (*Signer, bool) {
	for _, signer := range s.signers {
		if signer.Controls(address) {
			return signer, true
		}
	}
	return nil, false
}

// SignTx authorizes every slot of the tx and returns the signed tx.
// Every slot must have a key before anything is signed; otherwise MissingKey and no tx.
func (s *Collection) SignTx(unsigned xc.UnsignedTx) (xc.Tx, error) {
	requests, err := unsigned.Sighashes()
	if err != nil {
		return nil, err
	}
	signers := make([]*Signer, len(requests))
	for i, request := range requests {
		signer, ok := s.GetSigner(request.Signer)
		if !ok {
			return nil, xcerrors.MissingKeyf("no key for signature %d, owner '%s'", i, request.Signer)
		}
		signers[i] = signer
	}

	responses := make([]*xc.SignatureResponse, len(requests))
	for i, request := range requests {
		responses[i], err = sign(signers[i], request)
		if err != nil {
			return nil, err
		}
	}
	return unsigned.Sign(responses...)
}

func sign(signer *Signer, request *xc.SignatureRequest) (*xc.SignatureResponse, error) {
	signature, err := signer.Sign(request.Payload)
	if err != nil {
		return nil, err
	}
	return &xc.SignatureResponse{
		Signature: signature,
		PublicKey: signer.PublicKey(),
		Address:   request.Signer,
	}, nil
}
