// Package ticketpayment processes ticket payments of registered events. It keeps
// the buyer funds in custody until the payment is confirmed or failed.
package ticketpayment

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/datagateway"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/repository/kv"
	"github.com/gaze-network/uint128"
)

const (
	Version     = "v0.1.0"
	DefaultName = "ticket_payment"

	// MaxFeePercent is 100% in basis points.
	MaxFeePercent uint32 = feeDenominator
)

// Invocation method names. The invocation args of each method are its
// parameters in declaration order.
const (
	MethodInitialize     = "initialize"
	MethodProcessPayment = "process_payment"
	MethodConfirmPayment = "confirm_payment"
	MethodFailPayment    = "fail_payment"
)

type Ledger struct {
	env         *host.Env
	address     common.Address
	registry    datagateway.EventRegistryReader
	dataGateway datagateway.TicketPaymentDataGateway
}

// New creates the ledger contract name deployed on env. Event payment info is
// read from registry.
func New(env *host.Env, name string, registry datagateway.EventRegistryReader) *Ledger {
	address := env.ContractAddress(name)
	return &Ledger{
		env:         env,
		address:     address,
		registry:    registry,
		dataGateway: kv.NewRepository(address),
	}
}

// Address returns the contract address of the ledger. Funds in custody are
// held by this address.
func (l *Ledger) Address() common.Address {
	return l.address
}

func (l *Ledger) invocation(method string, auth []host.Proof, args ...string) host.Invocation {
	return host.Invocation{
		Contract: l.address,
		Method:   method,
		Args:     args,
		Auth:     auth,
	}
}

func (l *Ledger) transfer(c *host.Call, token string, from, to common.Address, amount uint128.Uint128) error {
	err := c.Transfer(token, from, to, amount)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, host.ErrInsufficientBalance):
		return errors.Mark(errors.Wrapf(err, "transfer %s from %s", amount, from), ErrInsufficientBalance)
	default:
		return errors.Mark(errors.Wrapf(err, "transfer %s from %s to %s", amount, from, to), ErrTransferFailed)
	}
}
