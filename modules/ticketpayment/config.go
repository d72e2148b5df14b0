package ticketpayment

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
)

type InitializedPayload struct {
	Token                 string         `json:"token"`
	PlatformWalletAddress common.Address `json:"platform_wallet"`
	EventRegistryAddress  common.Address `json:"event_registry"`
}

type InitializeParams struct {
	AdminAddress          common.Address
	Token                 string
	PlatformFeePercent    uint32
	PlatformWalletAddress common.Address
	EventRegistryAddress  common.Address
}

// Initialize creates the ledger config. It can only succeed once.
func (l *Ledger) Initialize(ctx context.Context, params InitializeParams) error {
	inv := l.invocation(MethodInitialize, nil,
		params.AdminAddress.String(),
		params.Token,
		strconv.FormatUint(uint64(params.PlatformFeePercent), 10),
		params.PlatformWalletAddress.String(),
		params.EventRegistryAddress.String(),
	)
	return l.env.Invoke(ctx, inv, func(c *host.Call) error {
		return l.initialize(c, params)
	})
}

func (l *Ledger) initialize(c *host.Call, params InitializeParams) error {
	config, err := l.dataGateway.GetConfig(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if config != nil {
		return errors.WithStack(ErrAlreadyInitialized)
	}
	if params.PlatformFeePercent > MaxFeePercent {
		return errors.Wrapf(ErrInvalidFeePercent, "got %d", params.PlatformFeePercent)
	}
	if params.Token == "" {
		return errors.Wrap(ErrInvalidAddress, "token is required")
	}
	if params.AdminAddress == l.address {
		return errors.Wrap(ErrInvalidAddress, "admin can't be the ledger itself")
	}
	for _, addr := range []struct {
		name  string
		value common.Address
	}{
		{"admin", params.AdminAddress},
		{"platform wallet", params.PlatformWalletAddress},
		{"event registry", params.EventRegistryAddress},
	} {
		if err := addr.value.Validate(); err != nil {
			return errors.Mark(errors.Wrapf(err, "invalid %s address", addr.name), ErrInvalidAddress)
		}
	}

	config = &entity.PaymentConfig{
		AdminAddress:          params.AdminAddress,
		Token:                 params.Token,
		PlatformFeePercent:    params.PlatformFeePercent,
		PlatformWalletAddress: params.PlatformWalletAddress,
		EventRegistryAddress:  params.EventRegistryAddress,
	}
	if err := l.dataGateway.SetConfig(c, *config); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Emit(notification.TopicPaymentInitialized, InitializedPayload{
		Token:                 config.Token,
		PlatformWalletAddress: config.PlatformWalletAddress,
		EventRegistryAddress:  config.EventRegistryAddress,
	}))
}

// GetConfig returns the ledger config or ErrNotInitialized.
func (l *Ledger) GetConfig(ctx context.Context) (config *entity.PaymentConfig, err error) {
	err = l.env.View(ctx, l.address, func(c *host.Call) error {
		config, err = l.getConfig(c)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return config, nil
}

func (l *Ledger) getConfig(c *host.Call) (*entity.PaymentConfig, error) {
	config, err := l.dataGateway.GetConfig(c)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if config == nil {
		return nil, errors.WithStack(ErrNotInitialized)
	}
	return config, nil
}
