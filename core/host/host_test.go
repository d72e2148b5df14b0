package host_test

import (
	"context"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/host/hosttest"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/internal/storage/memory"
	"github.com/gaze-network/uint128"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testToken = "XLM"

func TestInvokeRollbackOnError(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	contract := env.ContractAddress("test")

	errBoom := errors.New("boom")
	err := env.Invoke(ctx, host.Invocation{Contract: contract, Method: "set"}, func(c *host.Call) error {
		require.NoError(t, c.Storage(contract).Set("key", []byte("value")))
		require.NoError(t, c.Emit("test.set", map[string]string{"key": "value"}))
		return errBoom
	})
	require.True(t, errors.Is(err, errBoom))
	assert.Empty(t, env.Notifications.Events())

	err = env.View(ctx, contract, func(c *host.Call) error {
		ok, err := c.Storage(contract).Has("key")
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	})
	require.NoError(t, err)
}

func TestInvokeCommitDispatchesNotifications(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	contract := env.ContractAddress("test")

	err := env.Invoke(ctx, host.Invocation{Contract: contract, Method: "set"}, func(c *host.Call) error {
		if err := c.Storage(contract).Set("key", []byte("value")); err != nil {
			return err
		}
		return c.Emit("test.set", map[string]string{"key": "value"})
	})
	require.NoError(t, err)

	events := env.Notifications.Events()
	require.Len(t, events, 1)
	assert.Equal(t, contract, events[0].Contract)
	assert.Equal(t, "test.set", events[0].Topic)
	assert.Equal(t, hosttest.StartTime, events[0].Timestamp)
	assert.JSONEq(t, `{"key":"value"}`, string(events[0].Payload))

	err = env.View(ctx, contract, func(c *host.Call) error {
		value, ok, err := c.Storage(contract).Get("key")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, []byte("value"), value)
		return nil
	})
	require.NoError(t, err)
}

func TestNotifierFailureDoesNotFailInvocation(t *testing.T) {
	ctx := context.Background()
	failing := notification.NotifierFunc(func(context.Context, []notification.Event) error {
		return errors.New("broker down")
	})
	env := hosttest.NewEnv(t, host.WithNotifier(failing))
	contract := env.ContractAddress("test")

	err := env.Invoke(ctx, host.Invocation{Contract: contract, Method: "emit"}, func(c *host.Call) error {
		return c.Emit("test.emit", nil)
	})
	require.NoError(t, err)
}

func TestLedgerTimeNeverGoesBackwards(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	contract := env.ContractAddress("test")

	timestamp := func() uint64 {
		var ts uint64
		require.NoError(t, env.Invoke(ctx, host.Invocation{Contract: contract, Method: "now"}, func(c *host.Call) error {
			ts = c.Timestamp()
			return nil
		}))
		return ts
	}

	assert.Equal(t, hosttest.StartTime, timestamp())
	env.Clock.Advance(time.Minute)
	assert.Equal(t, hosttest.StartTime+60, timestamp())
	env.Clock.Set(hosttest.StartTime)
	assert.Equal(t, hosttest.StartTime+60, timestamp())
}

func TestRequireAuth(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	contract := env.ContractAddress("test")
	alice := hosttest.NewSigner(t)
	bob := hosttest.NewSigner(t)

	requireAuth := func(proofs []host.Proof, addr common.Address) error {
		return env.Invoke(ctx, host.Invocation{Contract: contract, Method: "auth", Auth: proofs}, func(c *host.Call) error {
			return c.RequireAuth(addr)
		})
	}

	t.Run("missing proof", func(t *testing.T) {
		err := requireAuth(nil, alice.Address())
		assert.True(t, errors.Is(err, host.ErrUnauthorized))
	})
	t.Run("proof of someone else", func(t *testing.T) {
		err := requireAuth(bob.Auth(), alice.Address())
		assert.True(t, errors.Is(err, host.ErrUnauthorized))
	})
	t.Run("replayed nonce", func(t *testing.T) {
		proofs := alice.Auth()
		require.NoError(t, requireAuth(proofs, alice.Address()))
		err := requireAuth(proofs, alice.Address())
		assert.True(t, errors.Is(err, host.ErrUnauthorized))
	})
	t.Run("rejected call doesn't burn nonce", func(t *testing.T) {
		proofs := alice.Auth()
		err := env.Invoke(ctx, host.Invocation{Contract: contract, Method: "auth", Auth: proofs}, func(c *host.Call) error {
			if err := c.RequireAuth(alice.Address()); err != nil {
				return err
			}
			return errors.New("rejected")
		})
		require.Error(t, err)
		require.NoError(t, requireAuth(proofs, alice.Address()))
	})
	t.Run("any of", func(t *testing.T) {
		err := env.Invoke(ctx, host.Invocation{Contract: contract, Method: "auth", Auth: bob.Auth()}, func(c *host.Call) error {
			addr, err := c.RequireAnyAuth(alice.Address(), bob.Address())
			if err != nil {
				return err
			}
			assert.Equal(t, bob.Address(), addr)
			return nil
		})
		require.NoError(t, err)
	})
}

func TestECDSAVerifier(t *testing.T) {
	ctx := context.Background()
	env := host.New(common.NetworkDevnet, memory.New())
	contract := env.ContractAddress("test")
	alice := hosttest.NewSigner(t)

	inv := host.Invocation{Contract: contract, Method: "auth", Args: []string{"a", "b"}}
	invoke := func(inv host.Invocation) error {
		return env.Invoke(ctx, inv, func(c *host.Call) error {
			return c.RequireAuth(alice.Address())
		})
	}

	signed := inv
	signed.Auth = []host.Proof{alice.Sign(t, env.Network(), inv)}
	require.NoError(t, invoke(signed))

	// signature doesn't cover different args
	tampered := signed
	tampered.Args = []string{"a", "c"}
	tampered.Auth = []host.Proof{alice.Sign(t, env.Network(), inv)}
	assert.True(t, errors.Is(invoke(tampered), host.ErrUnauthorized))

	unsigned := inv
	unsigned.Auth = alice.Auth()
	assert.True(t, errors.Is(invoke(unsigned), host.ErrUnauthorized))
}

func TestTransfer(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	contract := env.ContractAddress("test")
	alice := hosttest.NewSigner(t)
	bob := hosttest.NewSigner(t)

	require.NoError(t, env.Mint(ctx, testToken, alice.Address(), uint128.From64(100)))

	transfer := func(proofs []host.Proof, from, to common.Address, amount uint64) error {
		return env.Invoke(ctx, host.Invocation{Contract: contract, Method: "transfer", Auth: proofs}, func(c *host.Call) error {
			if len(proofs) > 0 {
				if err := c.RequireAuth(proofs[0].Signer); err != nil {
					return err
				}
			}
			return c.Transfer(testToken, from, to, uint128.From64(amount))
		})
	}
	balance := func(addr common.Address) uint64 {
		b, err := env.Balance(ctx, testToken, addr)
		require.NoError(t, err)
		return b.Uint64()
	}

	require.NoError(t, transfer(alice.Auth(), alice.Address(), contract, 40))
	assert.Equal(t, uint64(60), balance(alice.Address()))
	assert.Equal(t, uint64(40), balance(contract))

	// the invoked contract can move its own funds
	require.NoError(t, transfer(nil, contract, bob.Address(), 15))
	assert.Equal(t, uint64(25), balance(contract))
	assert.Equal(t, uint64(15), balance(bob.Address()))

	err := transfer(alice.Auth(), alice.Address(), bob.Address(), 61)
	assert.True(t, errors.Is(err, host.ErrInsufficientBalance))
	assert.Equal(t, uint64(60), balance(alice.Address()))

	err = transfer(nil, alice.Address(), bob.Address(), 1)
	assert.True(t, errors.Is(err, host.ErrTransferFailed))

	err = transfer(alice.Auth(), alice.Address(), "not-an-address", 1)
	assert.True(t, errors.Is(err, host.ErrTransferFailed))
}

func TestApplyGenesis(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	alice := hosttest.NewSigner(t)

	genesis := host.Genesis{
		Token: testToken,
		Balances: []host.GenesisBalance{
			{Address: alice.Address(), Amount: uint128.From64(1_000)},
		},
	}
	applied, err := env.ApplyGenesis(ctx, genesis)
	require.NoError(t, err)
	assert.True(t, applied)

	applied, err = env.ApplyGenesis(ctx, genesis)
	require.NoError(t, err)
	assert.False(t, applied)

	balance, err := env.Balance(ctx, testToken, alice.Address())
	require.NoError(t, err)
	assert.Equal(t, uint128.From64(1_000), balance)
}

func TestSigningMessage(t *testing.T) {
	inv := host.Invocation{
		Contract: "Cabc",
		Method:   "register_event",
		Args:     []string{"EVT-1", "02aa"},
	}
	assert.Equal(t, "devnet\nCabc\nregister_event\n5:EVT-1\n4:02aa\n7", host.SigningMessage(common.NetworkDevnet, inv, 7))

	t.Run("NewlineInArgs", func(t *testing.T) {
		a := host.Invocation{
			Contract: "Cabc",
			Method:   "process_payment",
			Args:     []string{"02bb", "evt1", "vip\ngold", "100"},
		}
		b := host.Invocation{
			Contract: "Cabc",
			Method:   "process_payment",
			Args:     []string{"02bb", "evt1\nvip", "gold", "100"},
		}
		assert.NotEqual(t, host.SigningMessage(common.NetworkDevnet, a, 1), host.SigningMessage(common.NetworkDevnet, b, 1))
	})

	t.Run("EmptyArgs", func(t *testing.T) {
		a := host.Invocation{Contract: "Cabc", Method: "fail_payment", Args: []string{"PAY-1", ""}}
		b := host.Invocation{Contract: "Cabc", Method: "fail_payment", Args: []string{"PAY-1"}}
		assert.NotEqual(t, host.SigningMessage(common.NetworkDevnet, a, 1), host.SigningMessage(common.NetworkDevnet, b, 1))
	})
}
