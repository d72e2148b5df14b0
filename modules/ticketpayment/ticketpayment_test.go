package ticketpayment

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/host/hosttest"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/datagateway/mocks"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const testToken = "USDC"

type testSuite struct {
	env       *hosttest.Env
	registry  *eventregistry.Registry
	ledger    *Ledger
	admin     *hosttest.Signer
	wallet    *hosttest.Signer
	organizer *hosttest.Signer
	payee     *hosttest.Signer
	buyer     *hosttest.Signer
}

// newTestSuite deploys an initialized registry and ledger with an active 5% fee event "evt1".
func newTestSuite(t *testing.T) *testSuite {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	registry := eventregistry.New(env.Env, eventregistry.DefaultName)
	s := &testSuite{
		env:       env,
		registry:  registry,
		ledger:    New(env.Env, DefaultName, registry),
		admin:     hosttest.NewSigner(t),
		wallet:    hosttest.NewSigner(t),
		organizer: hosttest.NewSigner(t),
		payee:     hosttest.NewSigner(t),
		buyer:     hosttest.NewSigner(t),
	}

	require.NoError(t, registry.Initialize(ctx, s.admin.Address(), s.wallet.Address(), 500))
	require.NoError(t, registry.RegisterEvent(ctx, s.organizer.Auth(), "evt1", s.organizer.Address(), s.payee.Address()))
	require.NoError(t, s.ledger.Initialize(ctx, InitializeParams{
		AdminAddress:          s.admin.Address(),
		Token:                 testToken,
		PlatformFeePercent:    250,
		PlatformWalletAddress: s.wallet.Address(),
		EventRegistryAddress:  registry.Address(),
	}))
	require.NoError(t, env.Mint(ctx, testToken, s.buyer.Address(), uint128.From64(1_000_000_000)))
	env.Notifications.Reset()
	return s
}

func (s *testSuite) balance(t *testing.T, addr common.Address) uint64 {
	balance, err := s.env.Balance(context.Background(), testToken, addr)
	require.NoError(t, err)
	return balance.Uint64()
}

func (s *testSuite) process(t *testing.T, amount int64) *entity.Payment {
	payment, err := s.ledger.ProcessPayment(context.Background(), s.buyer.Auth(), s.buyer.Address(), "evt1", "vip", big.NewInt(amount))
	require.NoError(t, err)
	return payment
}

func TestInitializeTwice(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	err := s.ledger.Initialize(ctx, InitializeParams{
		AdminAddress:          s.buyer.Address(),
		Token:                 "OTHER",
		PlatformWalletAddress: s.buyer.Address(),
		EventRegistryAddress:  s.registry.Address(),
	})
	assert.True(t, errors.Is(err, ErrAlreadyInitialized))

	config, err := s.ledger.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, &entity.PaymentConfig{
		AdminAddress:          s.admin.Address(),
		Token:                 testToken,
		PlatformFeePercent:    250,
		PlatformWalletAddress: s.wallet.Address(),
		EventRegistryAddress:  s.registry.Address(),
	}, config)
}

func TestInitializeInvalid(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	registry := eventregistry.New(env.Env, eventregistry.DefaultName)
	ledger := New(env.Env, DefaultName, registry)
	admin := hosttest.NewSigner(t)

	valid := InitializeParams{
		AdminAddress:          admin.Address(),
		Token:                 testToken,
		PlatformFeePercent:    250,
		PlatformWalletAddress: admin.Address(),
		EventRegistryAddress:  registry.Address(),
	}

	invalidFee := valid
	invalidFee.PlatformFeePercent = 10_001
	assert.True(t, errors.Is(ledger.Initialize(ctx, invalidFee), ErrInvalidFeePercent))

	invalidWallet := valid
	invalidWallet.PlatformWalletAddress = "wallet"
	assert.True(t, errors.Is(ledger.Initialize(ctx, invalidWallet), ErrInvalidAddress))

	selfAdmin := valid
	selfAdmin.AdminAddress = ledger.Address()
	assert.True(t, errors.Is(ledger.Initialize(ctx, selfAdmin), ErrInvalidAddress))

	_, err := ledger.GetConfig(ctx)
	assert.True(t, errors.Is(err, ErrNotInitialized))

	require.NoError(t, ledger.Initialize(ctx, valid))
	assert.Equal(t, []string{notification.TopicPaymentInitialized}, env.Notifications.Topics())

	var payload InitializedPayload
	require.NoError(t, json.Unmarshal(env.Notifications.Events()[0].Payload, &payload))
	assert.Equal(t, InitializedPayload{
		Token:                 testToken,
		PlatformWalletAddress: admin.Address(),
		EventRegistryAddress:  registry.Address(),
	}, payload)
}

func TestPaymentLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	payment := s.process(t, 100_000_000)
	assert.Equal(t, uint128.From64(5_000_000), payment.PlatformFee)
	assert.Equal(t, uint128.From64(95_000_000), payment.OrganizerAmount)
	assert.Equal(t, entity.PaymentStatusPending, payment.Status)
	assert.Equal(t, hosttest.StartTime, payment.CreatedAt)
	assert.Zero(t, payment.ConfirmedAt)
	assert.Equal(t, "vip", payment.TicketTierID)

	// buyer funds are in custody
	assert.Equal(t, uint64(900_000_000), s.balance(t, s.buyer.Address()))
	assert.Equal(t, uint64(100_000_000), s.balance(t, s.ledger.Address()))

	stored, err := s.ledger.GetPayment(ctx, payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, payment, stored)

	eventPayments, err := s.ledger.GetEventPayments(ctx, "evt1")
	require.NoError(t, err)
	assert.Equal(t, []string{payment.PaymentID}, eventPayments)

	buyerPayments, err := s.ledger.GetBuyerPayments(ctx, s.buyer.Address())
	require.NoError(t, err)
	assert.Equal(t, []string{payment.PaymentID}, buyerPayments)

	s.env.Clock.Set(hosttest.StartTime + 30)
	confirmed, err := s.ledger.ConfirmPayment(ctx, s.admin.Auth(), payment.PaymentID, "txhash")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusConfirmed, confirmed.Status)
	assert.Equal(t, hosttest.StartTime+30, confirmed.ConfirmedAt)
	assert.Equal(t, "txhash", confirmed.TransactionHash)

	assert.Equal(t, uint64(0), s.balance(t, s.ledger.Address()))
	assert.Equal(t, uint64(95_000_000), s.balance(t, s.payee.Address()))
	assert.Equal(t, uint64(5_000_000), s.balance(t, s.wallet.Address()))

	assert.Equal(t, []string{
		notification.TopicPaymentProcessed,
		notification.TopicPaymentConfirmed,
	}, s.env.Notifications.Topics())
}

func TestFeeSplitInvariant(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	for _, fee := range []uint32{0, 1, 333, 500, 9_999, 10_000} {
		require.NoError(t, s.registry.SetPlatformFee(ctx, s.admin.Auth(), fee))
		// the event fee is fixed at registration
		eventID := fmt.Sprintf("evt-fee-%d", fee)
		require.NoError(t, s.registry.RegisterEvent(ctx, s.organizer.Auth(), eventID, s.organizer.Address(), s.payee.Address()))

		for _, amount := range []int64{1, 7, 9_999, 10_001, 123_456_789} {
			payment, err := s.ledger.ProcessPayment(ctx, s.buyer.Auth(), s.buyer.Address(), eventID, "", big.NewInt(amount))
			require.NoError(t, err)
			expectedFee := uint64(amount) * uint64(fee) / 10_000
			assert.Equal(t, expectedFee, payment.PlatformFee.Uint64())
			assert.Equal(t, uint128.From64(uint64(amount)), payment.PlatformFee.Add(payment.OrganizerAmount))
		}
	}
}

func TestProcessPaymentInactiveEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)
	require.NoError(t, s.registry.UpdateEventStatus(ctx, s.organizer.Auth(), "evt1", false))
	s.env.Notifications.Reset()

	_, err := s.ledger.ProcessPayment(ctx, s.buyer.Auth(), s.buyer.Address(), "evt1", "", big.NewInt(1_000))
	assert.True(t, errors.Is(err, ErrEventRegistryError))
	assert.True(t, errors.Is(err, eventregistry.ErrEventInactive))

	eventPayments, err := s.ledger.GetEventPayments(ctx, "evt1")
	require.NoError(t, err)
	assert.Empty(t, eventPayments)
	buyerPayments, err := s.ledger.GetBuyerPayments(ctx, s.buyer.Address())
	require.NoError(t, err)
	assert.Empty(t, buyerPayments)
	assert.Equal(t, uint64(1_000_000_000), s.balance(t, s.buyer.Address()))
	assert.Empty(t, s.env.Notifications.Events())
}

func TestProcessPaymentInvalid(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)
	stranger := hosttest.NewSigner(t)

	testCases := []struct {
		name     string
		auth     *hosttest.Signer
		eventID  string
		amount   *big.Int
		expected []error
	}{
		{"zero amount", s.buyer, "evt1", big.NewInt(0), []error{ErrInvalidAmount}},
		{"negative amount", s.buyer, "evt1", big.NewInt(-5), []error{ErrInvalidAmount}},
		{"amount over signed 128-bit", s.buyer, "evt1", new(big.Int).Lsh(big.NewInt(1), 127), []error{ErrInvalidAmount}},
		{"empty event id", s.buyer, "", big.NewInt(10), []error{ErrInvalidEventID}},
		{"unknown event", s.buyer, "missing", big.NewInt(10), []error{ErrEventRegistryError, eventregistry.ErrEventNotFound}},
		{"not the buyer", stranger, "evt1", big.NewInt(10), []error{ErrUnauthorized}},
		{"insufficient balance", s.buyer, "evt1", big.NewInt(1_000_000_001), []error{ErrInsufficientBalance}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := s.ledger.ProcessPayment(ctx, tc.auth.Auth(), s.buyer.Address(), tc.eventID, "", tc.amount)
			for _, expected := range tc.expected {
				assert.True(t, errors.Is(err, expected), "expected %v, got %v", expected, err)
			}
		})
	}

	buyerPayments, err := s.ledger.GetBuyerPayments(ctx, s.buyer.Address())
	require.NoError(t, err)
	assert.Empty(t, buyerPayments)
	assert.Equal(t, uint64(1_000_000_000), s.balance(t, s.buyer.Address()))
	assert.Empty(t, s.env.Notifications.Events())
}

func TestConfirmPaymentTerminal(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)
	payment := s.process(t, 10_000)

	confirmed, err := s.ledger.ConfirmPayment(ctx, s.admin.Auth(), payment.PaymentID, "first")
	require.NoError(t, err)

	s.env.Clock.Set(hosttest.StartTime + 100)
	_, err = s.ledger.ConfirmPayment(ctx, s.admin.Auth(), payment.PaymentID, "second")
	assert.True(t, errors.Is(err, ErrPaymentAlreadyConfirmed))

	_, err = s.ledger.FailPayment(ctx, s.admin.Auth(), payment.PaymentID, "too late")
	assert.True(t, errors.Is(err, ErrPaymentAlreadyConfirmed))

	stored, err := s.ledger.GetPayment(ctx, payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, confirmed.ConfirmedAt, stored.ConfirmedAt)
	assert.Equal(t, "first", stored.TransactionHash)
	assert.Equal(t, entity.PaymentStatusConfirmed, stored.Status)
}

func TestConfirmPaymentUnauthorized(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)
	payment := s.process(t, 10_000)

	_, err := s.ledger.ConfirmPayment(ctx, s.buyer.Auth(), payment.PaymentID, "txhash")
	assert.True(t, errors.Is(err, ErrUnauthorized))

	stored, err := s.ledger.GetPayment(ctx, payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusPending, stored.Status)
}

func TestConfirmPaymentOfDeactivatedEvent(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)
	payment := s.process(t, 10_000)
	require.NoError(t, s.registry.UpdateEventStatus(ctx, s.admin.Auth(), "evt1", false))

	_, err := s.ledger.ConfirmPayment(ctx, s.admin.Auth(), payment.PaymentID, "txhash")
	require.NoError(t, err)
	assert.Equal(t, uint64(9_500), s.balance(t, s.payee.Address()))
}

func TestUnknownPayment(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	payment, err := s.ledger.GetPayment(ctx, "PAY-0000000000000000")
	require.NoError(t, err)
	assert.Nil(t, payment)

	_, err = s.ledger.ConfirmPayment(ctx, s.admin.Auth(), "PAY-0000000000000000", "txhash")
	assert.True(t, errors.Is(err, ErrPaymentNotFound))

	_, err = s.ledger.FailPayment(ctx, s.admin.Auth(), "PAY-0000000000000000", "reason")
	assert.True(t, errors.Is(err, ErrPaymentNotFound))

	paymentIDs, err := s.ledger.GetEventPayments(ctx, "unknown")
	require.NoError(t, err)
	assert.Empty(t, paymentIDs)
}

func TestProcessPaymentSkipsTakenID(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	// occupy the id of the first sequence number
	taken := entity.Payment{
		PaymentID:       newPaymentID("evt1", s.buyer.Address(), 1),
		EventID:         "evt1",
		BuyerAddress:    s.buyer.Address(),
		Amount:          uint128.From64(1),
		OrganizerAmount: uint128.From64(1),
		Status:          entity.PaymentStatusPending,
	}
	err := s.env.Invoke(ctx, host.Invocation{Contract: s.ledger.Address(), Method: "seed"}, func(c *host.Call) error {
		return s.ledger.dataGateway.SetPayment(c, taken)
	})
	require.NoError(t, err)

	payment := s.process(t, 1_000)
	assert.Equal(t, newPaymentID("evt1", s.buyer.Address(), 2), payment.PaymentID)

	stored, err := s.ledger.GetPayment(ctx, taken.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, &taken, stored)
}

func TestProcessPaymentUsesEventFee(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	config, err := s.ledger.GetConfig(ctx)
	require.NoError(t, err)
	require.Equal(t, uint32(250), config.PlatformFeePercent)

	// the event was registered with the registry fee of 5%
	payment := s.process(t, 10_000)
	assert.Equal(t, uint128.From64(500), payment.PlatformFee)
}

func TestFailPaymentRefunds(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)
	payment := s.process(t, 40_000)
	assert.Equal(t, uint64(999_960_000), s.balance(t, s.buyer.Address()))

	failed, err := s.ledger.FailPayment(ctx, s.admin.Auth(), payment.PaymentID, "card declined")
	require.NoError(t, err)
	assert.Equal(t, entity.PaymentStatusFailed, failed.Status)
	assert.Equal(t, "card declined", failed.FailureReason)
	assert.Equal(t, hosttest.StartTime, failed.FailedAt)

	assert.Equal(t, uint64(1_000_000_000), s.balance(t, s.buyer.Address()))
	assert.Equal(t, uint64(0), s.balance(t, s.ledger.Address()))

	// the record is kept
	stored, err := s.ledger.GetPayment(ctx, payment.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, failed, stored)
}

func TestPaymentIndexOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestSuite(t)

	var expected []string
	for i := 0; i < 5; i++ {
		expected = append(expected, s.process(t, 1_000).PaymentID)
	}
	assert.Len(t, lo.Uniq(expected), 5)

	paymentIDs, err := s.ledger.GetEventPayments(ctx, "evt1")
	require.NoError(t, err)
	assert.Equal(t, expected, paymentIDs)
}

func TestProcessPaymentWithRegistryReader(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	admin := hosttest.NewSigner(t)
	buyer := hosttest.NewSigner(t)
	payee := hosttest.NewSigner(t)
	registryAddress := env.ContractAddress("registry")

	registry := mocks.NewEventRegistryReader(t)
	registry.EXPECT().Address().Return(registryAddress)

	ledger := New(env.Env, DefaultName, registry)
	require.NoError(t, ledger.Initialize(ctx, InitializeParams{
		AdminAddress:          admin.Address(),
		Token:                 testToken,
		PlatformWalletAddress: admin.Address(),
		EventRegistryAddress:  registryAddress,
	}))
	require.NoError(t, env.Mint(ctx, testToken, buyer.Address(), uint128.From64(1_000)))

	t.Run("fee from registry", func(t *testing.T) {
		registry.EXPECT().ReadEventPaymentInfo(mock.Anything, "evt1").Return(eventregistry.PaymentInfo{
			PaymentAddress:     payee.Address(),
			PlatformFeePercent: 1_000,
		}, nil).Once()

		payment, err := ledger.ProcessPayment(ctx, buyer.Auth(), buyer.Address(), "evt1", "", big.NewInt(500))
		require.NoError(t, err)
		assert.Equal(t, uint128.From64(50), payment.PlatformFee)
		assert.Equal(t, payee.Address(), payment.PaymentAddress)
	})
	t.Run("registry error", func(t *testing.T) {
		registry.EXPECT().ReadEventPaymentInfo(mock.Anything, "evt2").Return(eventregistry.PaymentInfo{}, errors.WithStack(eventregistry.ErrEventNotFound)).Once()

		_, err := ledger.ProcessPayment(ctx, buyer.Auth(), buyer.Address(), "evt2", "", big.NewInt(500))
		assert.True(t, errors.Is(err, ErrEventRegistryError))
		assert.True(t, errors.Is(err, eventregistry.ErrEventNotFound))
	})
}

func TestProcessPaymentRegistryMismatch(t *testing.T) {
	ctx := context.Background()
	env := hosttest.NewEnv(t)
	admin := hosttest.NewSigner(t)
	buyer := hosttest.NewSigner(t)

	registry := mocks.NewEventRegistryReader(t)
	registry.EXPECT().Address().Return(env.ContractAddress("other_registry"))

	ledger := New(env.Env, DefaultName, registry)
	require.NoError(t, ledger.Initialize(ctx, InitializeParams{
		AdminAddress:          admin.Address(),
		Token:                 testToken,
		PlatformWalletAddress: admin.Address(),
		EventRegistryAddress:  env.ContractAddress("registry"),
	}))

	_, err := ledger.ProcessPayment(ctx, buyer.Auth(), buyer.Address(), "evt1", "", big.NewInt(500))
	assert.True(t, errors.Is(err, ErrEventRegistryError))
	registry.AssertNotCalled(t, "ReadEventPaymentInfo", mock.Anything, mock.Anything)
}
