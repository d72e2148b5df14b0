// Package host is the execution environment of the ledger contracts.
//
// Every invocation is serialized and runs in a single storage transaction. Capability
// proofs, token balances, ledger time and notifications are provided through Call.
package host

import (
	"context"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/core/storage"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
	"github.com/gaze-network/ticket-ledger/pkg/metrics"
	"github.com/gaze-network/uint128"
)

const (
	ledgerTimeKey = "ledger_time"
	genesisKey    = "genesis"
)

type Env struct {
	mu sync.Mutex

	network  common.Network
	store    storage.Store
	verifier Verifier
	clock    Clock
	notifier notification.Notifier
	metrics  *metrics.Metrics
}

type Option func(*Env)

func WithVerifier(verifier Verifier) Option {
	return func(e *Env) {
		e.verifier = verifier
	}
}

func WithClock(clock Clock) Option {
	return func(e *Env) {
		e.clock = clock
	}
}

func WithNotifier(notifier notification.Notifier) Option {
	return func(e *Env) {
		e.notifier = notifier
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Env) {
		e.metrics = m
	}
}

func New(network common.Network, store storage.Store, opts ...Option) *Env {
	e := &Env{
		network:  network,
		store:    store,
		verifier: ECDSAVerifier{},
		clock:    SystemClock{},
		notifier: notification.Nop,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) Network() common.Network {
	return e.network
}

// ContractAddress returns the address of the contract name on this environment's network.
func (e *Env) ContractAddress(name string) common.Address {
	return common.NewContractAddress(e.network, name)
}

// Invoke runs fn as one atomic invocation of inv. All state written by fn is
// committed only if fn returns nil. Notifications emitted by fn are dispatched
// after commit.
func (e *Env) Invoke(ctx context.Context, inv Invocation, fn func(*Call) error) (err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ctx = logger.WithContext(ctx,
		slogx.Contract(inv.Contract),
		slogx.Method(inv.Method),
	)
	start := time.Now()
	defer func() {
		e.metrics.ObserveInvocation(inv.Contract.String(), inv.Method, err, time.Since(start))
		if err != nil {
			logger.WarnContext(ctx, "invocation failed", slogx.Error(err))
			return
		}
		logger.DebugContext(ctx, "invocation committed", slogx.Duration("duration", time.Since(start)))
	}()

	events, err := e.run(ctx, inv, true, fn)
	if err != nil {
		return errors.WithStack(err)
	}
	e.dispatch(ctx, events)
	return nil
}

// View runs fn against the current state. Anything fn writes is discarded.
func (e *Env) View(ctx context.Context, contract common.Address, fn func(*Call) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.run(ctx, Invocation{Contract: contract}, false, fn)
	return errors.WithStack(err)
}

func (e *Env) run(ctx context.Context, inv Invocation, commit bool, fn func(*Call) error) ([]notification.Event, error) {
	tx, err := e.store.Begin(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "failed to begin transaction")
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to rollback transaction", slogx.Error(err))
		}
	}()

	call := &Call{
		ctx:        ctx,
		env:        e,
		tx:         tx,
		invocation: inv,
		authorized: make(map[common.Address]struct{}),
	}
	call.timestamp, err = e.ledgerTime(call, commit)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := fn(call); err != nil {
		return nil, err
	}
	if !commit {
		return nil, nil
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, errors.Wrap(err, "failed to commit transaction")
	}
	return call.events, nil
}

// ledgerTime never goes backwards, even if the clock does.
func (e *Env) ledgerTime(call *Call, persist bool) (uint64, error) {
	s := call.storage(hostNamespace)
	now := e.clock.Now()
	value, ok, err := s.Get(ledgerTimeKey)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get ledger time")
	}
	if ok {
		last, err := strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "corrupted ledger time")
		}
		now = max(now, last)
	}
	if persist {
		if err := s.Set(ledgerTimeKey, []byte(strconv.FormatUint(now, 10))); err != nil {
			return 0, errors.Wrap(err, "failed to set ledger time")
		}
	}
	return now, nil
}

func (e *Env) dispatch(ctx context.Context, events []notification.Event) {
	if len(events) == 0 {
		return
	}
	if err := e.notifier.Notify(ctx, events); err != nil {
		e.metrics.IncNotificationFailure("host")
		logger.ErrorContext(ctx, "failed to dispatch notifications", slogx.Error(err), slog.Int("count", len(events)))
		return
	}
	for _, event := range events {
		e.metrics.IncNotification(event.Topic)
	}
}

// Ping checks that the backing store is reachable.
func (e *Env) Ping(ctx context.Context) error {
	return errors.WithStack(e.store.Ping(ctx))
}

// Balance returns the balance of addr in token.
func (e *Env) Balance(ctx context.Context, token string, addr common.Address) (balance uint128.Uint128, err error) {
	err = e.View(ctx, "", func(c *Call) error {
		balance, err = c.Balance(token, addr)
		return err
	})
	return balance, errors.WithStack(err)
}

// Mint credits amount of token to addr outside of any contract.
func (e *Env) Mint(ctx context.Context, token string, to common.Address, amount uint128.Uint128) error {
	if err := to.Validate(); err != nil {
		return errors.WithStack(err)
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.run(ctx, Invocation{Method: "mint"}, true, func(c *Call) error {
		return mint(c.storage(tokenNamespace(token)), to, amount)
	})
	return errors.WithStack(err)
}

type GenesisBalance struct {
	Address common.Address
	Amount  uint128.Uint128
}

type Genesis struct {
	Token    string
	Balances []GenesisBalance
}

// ApplyGenesis mints the genesis balances once. Later calls are no-ops.
func (e *Env) ApplyGenesis(ctx context.Context, genesis Genesis) (applied bool, err error) {
	if genesis.Token == "" || len(genesis.Balances) == 0 {
		return false, nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err = e.run(ctx, Invocation{Method: "genesis"}, true, func(c *Call) error {
		s := c.storage(hostNamespace)
		done, err := s.Has(genesisKey)
		if err != nil {
			return errors.WithStack(err)
		}
		if done {
			return nil
		}
		tokenStorage := c.storage(tokenNamespace(genesis.Token))
		for _, b := range genesis.Balances {
			if err := b.Address.Validate(); err != nil {
				return errors.Wrapf(err, "invalid genesis address %q", b.Address)
			}
			if err := mint(tokenStorage, b.Address, b.Amount); err != nil {
				return errors.WithStack(err)
			}
		}
		applied = true
		return s.Set(genesisKey, []byte(genesis.Token))
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return applied, nil
}
