package eventregistry

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
)

// PaymentInfo is what a payment ledger needs to settle a ticket payment of an event.
type PaymentInfo struct {
	PaymentAddress     common.Address `json:"payment_address"`
	PlatformFeePercent uint32         `json:"platform_fee_percent"`
}

// GetEventPaymentInfo returns the payment info of an active event.
func (r *Registry) GetEventPaymentInfo(ctx context.Context, eventID string) (info PaymentInfo, err error) {
	err = r.env.View(ctx, r.address, func(c *host.Call) error {
		info, err = r.ReadEventPaymentInfo(c, eventID)
		return err
	})
	if err != nil {
		return PaymentInfo{}, errors.WithStack(err)
	}
	return info, nil
}

// ReadEventPaymentInfo is GetEventPaymentInfo inside another contract's invocation.
// It fails with ErrEventNotFound or ErrEventInactive.
func (r *Registry) ReadEventPaymentInfo(c *host.Call, eventID string) (PaymentInfo, error) {
	event, err := r.dataGateway.GetEvent(c, eventID)
	if err != nil {
		return PaymentInfo{}, errors.WithStack(err)
	}
	if event == nil {
		return PaymentInfo{}, errors.Wrapf(ErrEventNotFound, "event %q", eventID)
	}
	if !event.IsActive {
		return PaymentInfo{}, errors.Wrapf(ErrEventInactive, "event %q", eventID)
	}
	return PaymentInfo{
		PaymentAddress:     event.PaymentAddress,
		PlatformFeePercent: event.PlatformFeePercent,
	}, nil
}
