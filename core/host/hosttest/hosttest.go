// Package hosttest provides an in-memory host environment and test signers.
package hosttest

import (
	"context"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/internal/storage/memory"
	"github.com/gaze-network/ticket-ledger/pkg/crypto"
	"github.com/stretchr/testify/require"
)

// StartTime is the initial ledger time of NewEnv.
const StartTime uint64 = 1_700_000_000

// AllowAll accepts every signature. Nonces are still enforced by the host.
var AllowAll host.Verifier = host.VerifierFunc(func(context.Context, common.Address, string, string) error {
	return nil
})

type Env struct {
	*host.Env
	Store         *memory.Store
	Clock         *host.ManualClock
	Notifications *notification.Recorder
}

// NewEnv returns a devnet environment backed by a memory store that accepts
// every signature. opts override the defaults.
func NewEnv(t testing.TB, opts ...host.Option) *Env {
	t.Helper()
	env := &Env{
		Store:         memory.New(),
		Clock:         host.NewManualClock(StartTime),
		Notifications: &notification.Recorder{},
	}
	env.Env = host.New(common.NetworkDevnet, env.Store, append([]host.Option{
		host.WithVerifier(AllowAll),
		host.WithClock(env.Clock),
		host.WithNotifier(env.Notifications),
	}, opts...)...)
	return env
}

// Signer is a test account that produces capability proofs with increasing nonces.
type Signer struct {
	client *crypto.Client
	nonce  uint64
}

func NewSigner(t testing.TB) *Signer {
	t.Helper()
	privateKey, err := btcec.NewPrivateKey()
	require.NoError(t, err)
	return &Signer{client: crypto.NewFromKey(privateKey)}
}

func (s *Signer) Address() common.Address {
	return common.Address(s.client.PublicKey())
}

// Auth returns an unsigned proof with the next nonce. It is only accepted by AllowAll.
func (s *Signer) Auth() []host.Proof {
	s.nonce++
	return []host.Proof{{Signer: s.Address(), Nonce: s.nonce}}
}

// Sign returns a signed proof of inv with the next nonce.
func (s *Signer) Sign(t testing.TB, network common.Network, inv host.Invocation) host.Proof {
	t.Helper()
	s.nonce++
	proof, err := host.Sign(s.client, network, inv, s.nonce)
	require.NoError(t, err)
	return proof
}
