package host

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/core/storage"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gaze-network/uint128"
)

// Call is the execution context of one invocation. It is only valid inside the
// function passed to Env.Invoke or Env.View.
type Call struct {
	ctx        context.Context
	env        *Env
	tx         storage.Tx
	invocation Invocation
	timestamp  uint64
	authorized map[common.Address]struct{}
	events     []notification.Event
}

func (c *Call) Context() context.Context {
	return c.ctx
}

// Contract returns the address of the invoked contract.
func (c *Call) Contract() common.Address {
	return c.invocation.Contract
}

func (c *Call) Method() string {
	return c.invocation.Method
}

func (c *Call) Network() common.Network {
	return c.env.network
}

// Timestamp returns the ledger time of the invocation in unix seconds.
func (c *Call) Timestamp() uint64 {
	return c.timestamp
}

// Storage returns the storage view of namespace ns.
func (c *Call) Storage(ns common.Address) *Storage {
	return c.storage(ns.String())
}

// RequireAuth fails with ErrUnauthorized unless addr supplied a valid proof
// for this invocation. A proof is checked at most once per call.
func (c *Call) RequireAuth(addr common.Address) error {
	if _, ok := c.authorized[addr]; ok {
		return nil
	}
	if addr.IsZero() {
		return errors.Wrap(ErrUnauthorized, "empty signer")
	}
	for _, proof := range c.invocation.Auth {
		if proof.Signer != addr {
			continue
		}
		if err := c.verify(proof); err != nil {
			return errors.WithStack(err)
		}
		c.authorized[addr] = struct{}{}
		logger.DebugContext(c.ctx, "signer authorized", slogx.Signer(addr))
		return nil
	}
	return errors.Wrapf(ErrUnauthorized, "missing proof of %s", addr)
}

// RequireAnyAuth succeeds with the first of addrs that authorized the
// invocation.
func (c *Call) RequireAnyAuth(addrs ...common.Address) (common.Address, error) {
	for _, addr := range addrs {
		if _, ok := c.authorized[addr]; ok {
			return addr, nil
		}
	}
	var lastErr error
	for _, addr := range addrs {
		if !c.hasProof(addr) {
			continue
		}
		if err := c.RequireAuth(addr); err != nil {
			lastErr = err
			continue
		}
		return addr, nil
	}
	if lastErr != nil {
		return "", lastErr
	}
	return "", errors.Wrap(ErrUnauthorized, "none of the required signers supplied a proof")
}

func (c *Call) storage(ns string) *Storage {
	return &Storage{ctx: c.ctx, tx: c.tx, namespace: ns}
}

func (c *Call) hasProof(addr common.Address) bool {
	for _, proof := range c.invocation.Auth {
		if proof.Signer == addr {
			return true
		}
	}
	return false
}

func (c *Call) verify(proof Proof) error {
	hostStorage := c.storage(hostNamespace)
	lastNonce := uint64(0)
	value, ok, err := hostStorage.Get(nonceKey(proof.Signer))
	if err != nil {
		return errors.Wrap(err, "failed to get nonce")
	}
	if ok {
		lastNonce, err = strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return errors.Wrapf(err, "corrupted nonce of %s", proof.Signer)
		}
	}
	if proof.Nonce <= lastNonce {
		return errors.Wrapf(ErrUnauthorized, "nonce %d of %s already used", proof.Nonce, proof.Signer)
	}

	message := SigningMessage(c.env.network, c.invocation, proof.Nonce)
	if err := c.env.verifier.Verify(c.ctx, proof.Signer, message, proof.Signature); err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid proof of %s", proof.Signer), ErrUnauthorized)
	}

	if err := hostStorage.Set(nonceKey(proof.Signer), []byte(strconv.FormatUint(proof.Nonce, 10))); err != nil {
		return errors.Wrap(err, "failed to set nonce")
	}
	return nil
}

// Transfer moves amount of token from one address to another. from must be the
// invoked contract or an address that authorized the invocation.
func (c *Call) Transfer(token string, from, to common.Address, amount uint128.Uint128) error {
	if from != c.Contract() {
		if _, ok := c.authorized[from]; !ok {
			return errors.Wrapf(ErrTransferFailed, "%s didn't authorize the transfer", from)
		}
	}
	if err := to.Validate(); err != nil {
		return errors.Mark(errors.Wrap(err, "invalid recipient"), ErrTransferFailed)
	}
	return transfer(c.storage(tokenNamespace(token)), from, to, amount)
}

func (c *Call) Balance(token string, addr common.Address) (uint128.Uint128, error) {
	return getBalance(c.storage(tokenNamespace(token)), addr)
}

// Emit buffers a notification of the invoked contract. Buffered notifications
// are dispatched only if the invocation commits.
func (c *Call) Emit(topic string, payload any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrapf(err, "can't encode %s payload", topic)
	}
	c.events = append(c.events, notification.Event{
		Contract:  c.Contract(),
		Topic:     topic,
		Timestamp: c.timestamp,
		Payload:   b,
	})
	return nil
}
