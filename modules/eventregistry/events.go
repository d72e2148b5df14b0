package eventregistry

import (
	"context"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
)

type EventRegisteredPayload struct {
	EventID            string         `json:"event_id"`
	OrganizerAddress   common.Address `json:"organizer_address"`
	PaymentAddress     common.Address `json:"payment_address"`
	PlatformFeePercent uint32         `json:"platform_fee_percent"`
	CreatedAt          uint64         `json:"created_at"`
}

type EventStatusUpdatedPayload struct {
	EventID   string         `json:"event_id"`
	IsActive  bool           `json:"is_active"`
	UpdatedBy common.Address `json:"updated_by"`
}

// RegisterEvent creates an active event owned by organizer with the current
// default platform fee. It requires organizer authorization.
func (r *Registry) RegisterEvent(ctx context.Context, auth []host.Proof, eventID string, organizer, paymentAddress common.Address) error {
	inv := r.invocation(MethodRegisterEvent, auth, eventID, organizer.String(), paymentAddress.String())
	return r.env.Invoke(ctx, inv, func(c *host.Call) error {
		return r.registerEvent(c, eventID, organizer, paymentAddress)
	})
}

func (r *Registry) registerEvent(c *host.Call, eventID string, organizer, paymentAddress common.Address) error {
	if eventID == "" {
		return errors.WithStack(ErrInvalidEventID)
	}
	if err := validateAddress(organizer, "organizer"); err != nil {
		return errors.WithStack(err)
	}
	config, err := r.getConfig(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := c.RequireAuth(organizer); err != nil {
		return errors.Mark(errors.Wrap(err, "organizer authorization required"), ErrUnauthorized)
	}
	exists, err := r.dataGateway.EventExists(c, eventID)
	if err != nil {
		return errors.WithStack(err)
	}
	if exists {
		return errors.Wrapf(ErrEventAlreadyExists, "event %q", eventID)
	}
	if err := validateAddress(paymentAddress, "payment"); err != nil {
		return errors.WithStack(err)
	}

	event := entity.EventInfo{
		EventID:            eventID,
		OrganizerAddress:   organizer,
		PaymentAddress:     paymentAddress,
		PlatformFeePercent: config.DefaultPlatformFeePercent,
		IsActive:           true,
		CreatedAt:          c.Timestamp(),
	}
	if err := r.dataGateway.SetEvent(c, event); err != nil {
		return errors.WithStack(err)
	}
	if err := r.dataGateway.AppendOrganizerEvent(c, organizer, eventID); err != nil {
		return errors.WithStack(err)
	}
	logger.InfoContext(c.Context(), "Event registered", slogx.EventID(eventID), slogx.Stringer("organizer", organizer))
	return errors.WithStack(c.Emit(notification.TopicEventRegistered, EventRegisteredPayload{
		EventID:            event.EventID,
		OrganizerAddress:   event.OrganizerAddress,
		PaymentAddress:     event.PaymentAddress,
		PlatformFeePercent: event.PlatformFeePercent,
		CreatedAt:          event.CreatedAt,
	}))
}

// StoreEvent writes event as is, replacing any existing record. It requires
// admin authorization.
func (r *Registry) StoreEvent(ctx context.Context, auth []host.Proof, event entity.EventInfo) error {
	inv := r.invocation(MethodStoreEvent, auth,
		event.EventID,
		event.OrganizerAddress.String(),
		event.PaymentAddress.String(),
		strconv.FormatUint(uint64(event.PlatformFeePercent), 10),
		strconv.FormatBool(event.IsActive),
		strconv.FormatUint(event.CreatedAt, 10),
	)
	return r.env.Invoke(ctx, inv, func(c *host.Call) error {
		return r.storeEvent(c, event)
	})
}

func (r *Registry) storeEvent(c *host.Call, event entity.EventInfo) error {
	if event.EventID == "" {
		return errors.WithStack(ErrInvalidEventID)
	}
	config, err := r.getConfig(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := c.RequireAuth(config.AdminAddress); err != nil {
		return errors.Mark(errors.Wrap(err, "admin authorization required"), ErrUnauthorized)
	}
	if err := validateFeePercent(event.PlatformFeePercent); err != nil {
		return errors.WithStack(err)
	}
	if err := validateAddress(event.OrganizerAddress, "organizer"); err != nil {
		return errors.WithStack(err)
	}
	if err := validateAddress(event.PaymentAddress, "payment"); err != nil {
		return errors.WithStack(err)
	}

	existing, err := r.dataGateway.GetEvent(c, event.EventID)
	if err != nil {
		return errors.WithStack(err)
	}
	if err := r.dataGateway.SetEvent(c, event); err != nil {
		return errors.WithStack(err)
	}
	if existing == nil {
		return errors.WithStack(r.dataGateway.AppendOrganizerEvent(c, event.OrganizerAddress, event.EventID))
	}
	return nil
}

// GetEvent returns nil if the event doesn't exist.
func (r *Registry) GetEvent(ctx context.Context, eventID string) (event *entity.EventInfo, err error) {
	err = r.env.View(ctx, r.address, func(c *host.Call) error {
		event, err = r.dataGateway.GetEvent(c, eventID)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return event, nil
}

func (r *Registry) EventExists(ctx context.Context, eventID string) (exists bool, err error) {
	err = r.env.View(ctx, r.address, func(c *host.Call) error {
		exists, err = r.dataGateway.EventExists(c, eventID)
		return err
	})
	if err != nil {
		return false, errors.WithStack(err)
	}
	return exists, nil
}

// GetOrganizerEvents returns the event ids of organizer in registration order.
func (r *Registry) GetOrganizerEvents(ctx context.Context, organizer common.Address) (eventIDs []string, err error) {
	err = r.env.View(ctx, r.address, func(c *host.Call) error {
		eventIDs, err = r.dataGateway.GetOrganizerEvents(c, organizer)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return eventIDs, nil
}

// UpdateEventStatus activates or deactivates an event. It requires
// authorization of the admin or of the event organizer.
func (r *Registry) UpdateEventStatus(ctx context.Context, auth []host.Proof, eventID string, isActive bool) error {
	inv := r.invocation(MethodUpdateEventStatus, auth, eventID, strconv.FormatBool(isActive))
	return r.env.Invoke(ctx, inv, func(c *host.Call) error {
		return r.updateEventStatus(c, eventID, isActive)
	})
}

func (r *Registry) updateEventStatus(c *host.Call, eventID string, isActive bool) error {
	event, err := r.dataGateway.GetEvent(c, eventID)
	if err != nil {
		return errors.WithStack(err)
	}
	if event == nil {
		return errors.Wrapf(ErrEventNotFound, "event %q", eventID)
	}

	signers := []common.Address{event.OrganizerAddress}
	config, err := r.dataGateway.GetConfig(c)
	if err != nil {
		return errors.WithStack(err)
	}
	if config != nil {
		signers = append([]common.Address{config.AdminAddress}, signers...)
	}
	signer, err := c.RequireAnyAuth(signers...)
	if err != nil {
		return errors.Mark(errors.Wrap(err, "admin or organizer authorization required"), ErrUnauthorized)
	}

	event.IsActive = isActive
	if err := r.dataGateway.SetEvent(c, *event); err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(c.Emit(notification.TopicEventStatusUpdated, EventStatusUpdatedPayload{
		EventID:   eventID,
		IsActive:  isActive,
		UpdatedBy: signer,
	}))
}
