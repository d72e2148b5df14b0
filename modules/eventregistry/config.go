package eventregistry

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
)

type InitializedPayload struct {
	AdminAddress              common.Address `json:"admin_address"`
	PlatformWalletAddress     common.Address `json:"platform_wallet_address"`
	DefaultPlatformFeePercent uint32         `json:"default_platform_fee_percent"`
}

// Initialize creates the registry config. It can only succeed once.
func (r *Registry) Initialize(ctx context.Context, admin, platformWallet common.Address, defaultFeePercent uint32) error {
	inv := r.invocation(MethodInitialize, nil, admin.String(), platformWallet.String(), strconv.FormatUint(uint64(defaultFeePercent), 10))
	return r.env.Invoke(ctx, inv, func(c *host.Call) error {
		return r.initialize(c, admin, platformWallet, defaultFeePercent)
	})
}

func (r *Registry) initialize(c *host.Call, admin, platformWallet common.Address, defaultFeePercent uint32) error {
	config, err := r.dataGateway.GetConfig(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if config != nil {
		return errors.WithStack(ErrAlreadyInitialized)
	}
	if admin == r.address {
		return errors.Wrap(ErrInvalidAddress, "admin can't be the registry itself")
	}
	if err := validateAddress(admin, "admin"); err != nil {
		return errors.WithStack(err)
	}
	if err := validateAddress(platformWallet, "platform wallet"); err != nil {
		return errors.WithStack(err)
	}
	if err := validateFeePercent(defaultFeePercent); err != nil {
		return errors.WithStack(err)
	}
	// TODO: zero is a valid fee elsewhere, decide whether a zero default should stay zero.
	if defaultFeePercent == 0 {
		defaultFeePercent = DefaultFeePercent
	}

	config = &entity.RegistryConfig{
		AdminAddress:              admin,
		PlatformWalletAddress:     platformWallet,
		DefaultPlatformFeePercent: defaultFeePercent,
	}
	if err := r.dataGateway.SetConfig(c, *config); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Emit(notification.TopicRegistryInitialized, InitializedPayload{
		AdminAddress:              config.AdminAddress,
		PlatformWalletAddress:     config.PlatformWalletAddress,
		DefaultPlatformFeePercent: config.DefaultPlatformFeePercent,
	}))
}

// SetPlatformFee changes the default fee of newly registered events. It requires admin authorization.
func (r *Registry) SetPlatformFee(ctx context.Context, auth []host.Proof, feePercent uint32) error {
	inv := r.invocation(MethodSetPlatformFee, auth, strconv.FormatUint(uint64(feePercent), 10))
	return r.env.Invoke(ctx, inv, func(c *host.Call) error {
		return r.setPlatformFee(c, feePercent)
	})
}

func (r *Registry) setPlatformFee(c *host.Call, feePercent uint32) error {
	config, err := r.getConfig(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := c.RequireAuth(config.AdminAddress); err != nil {
		return errors.Mark(errors.Wrap(err, "admin authorization required"), ErrUnauthorized)
	}
	if err := validateFeePercent(feePercent); err != nil {
		return errors.WithStack(err)
	}
	config.DefaultPlatformFeePercent = feePercent
	return errors.WithStack(r.dataGateway.SetConfig(c, *config))
}

// GetConfig returns the registry config or ErrNotInitialized.
func (r *Registry) GetConfig(ctx context.Context) (config *entity.RegistryConfig, err error) {
	err = r.env.View(ctx, r.address, func(c *host.Call) error {
		config, err = r.getConfig(c)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return config, nil
}

func (r *Registry) GetPlatformFee(ctx context.Context) (uint32, error) {
	config, err := r.GetConfig(ctx)
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return config.DefaultPlatformFeePercent, nil
}

func (r *Registry) GetAdmin(ctx context.Context) (common.Address, error) {
	config, err := r.GetConfig(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return config.AdminAddress, nil
}

func (r *Registry) GetPlatformWallet(ctx context.Context) (common.Address, error) {
	config, err := r.GetConfig(ctx)
	if err != nil {
		return "", errors.WithStack(err)
	}
	return config.PlatformWalletAddress, nil
}

func (r *Registry) getConfig(c *host.Call) (*entity.RegistryConfig, error) {
	config, err := r.dataGateway.GetConfig(c)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if config == nil {
		return nil, errors.WithStack(ErrNotInitialized)
	}
	return config, nil
}

func validateFeePercent(feePercent uint32) error {
	if feePercent > MaxFeePercent {
		return errors.Wrapf(ErrInvalidFeePercent, "got %d", feePercent)
	}
	return nil
}

func validateAddress(addr common.Address, name string) error {
	if err := addr.Validate(); err != nil {
		return errors.Mark(errors.Wrapf(err, "invalid %s address", name), ErrInvalidAddress)
	}
	return nil
}
