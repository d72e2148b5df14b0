package host

import (
	"context"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/pkg/crypto"
)

// Invocation describes one externally invoked contract operation.
type Invocation struct {
	Contract common.Address
	Method   string
	Args     []string
	Auth     []Proof
}

// Proof is a capability proof: Signer signed the invocation with Nonce.
type Proof struct {
	Signer    common.Address `json:"signer"`
	Nonce     uint64         `json:"nonce"`
	Signature string         `json:"signature"`
}

// SigningMessage returns the message a signer signs to authorize inv with nonce.
//
//	network \n contract \n method \n len(arg1):arg1 \n ... \n len(argN):argN \n nonce
//
// Arguments are length-prefixed (in bytes) so that arguments containing
// newlines can't be re-split into a different argument list.
func SigningMessage(network common.Network, inv Invocation, nonce uint64) string {
	parts := make([]string, 0, len(inv.Args)+4)
	parts = append(parts, network.String(), inv.Contract.String(), inv.Method)
	for _, arg := range inv.Args {
		parts = append(parts, strconv.Itoa(len(arg))+":"+arg)
	}
	parts = append(parts, strconv.FormatUint(nonce, 10))
	return strings.Join(parts, "\n")
}

// Sign creates the proof of signer for inv.
func Sign(signer *crypto.Client, network common.Network, inv Invocation, nonce uint64) (Proof, error) {
	signature, err := signer.Sign(SigningMessage(network, inv, nonce))
	if err != nil {
		return Proof{}, errors.Wrap(err, "can't sign invocation")
	}
	return Proof{
		Signer:    common.Address(signer.PublicKey()),
		Nonce:     nonce,
		Signature: signature,
	}, nil
}

// Verifier checks that signature is a valid signature of message by signer.
type Verifier interface {
	Verify(ctx context.Context, signer common.Address, message string, signature string) error
}

type VerifierFunc func(ctx context.Context, signer common.Address, message string, signature string) error

func (f VerifierFunc) Verify(ctx context.Context, signer common.Address, message string, signature string) error {
	return f(ctx, signer, message, signature)
}

// ECDSAVerifier verifies secp256k1 ECDSA signatures of account addresses.
type ECDSAVerifier struct{}

func (ECDSAVerifier) Verify(_ context.Context, signer common.Address, message string, signature string) error {
	pubKey, err := signer.PublicKey()
	if err != nil {
		return errors.Wrap(err, "signer can't sign")
	}
	ok, err := crypto.Verify(message, signature, pubKey)
	if err != nil {
		return errors.Wrap(err, "malformed signature")
	}
	if !ok {
		return errors.New("signature mismatch")
	}
	return nil
}
