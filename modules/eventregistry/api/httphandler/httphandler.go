package httphandler

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
)

type HttpHandler struct {
	registry *eventregistry.Registry
}

func New(registry *eventregistry.Registry) *HttpHandler {
	return &HttpHandler{
		registry: registry,
	}
}

type authRequest struct {
	Auth []host.Proof `json:"auth"`
}

type eventResult struct {
	EventId            string         `json:"eventId"`
	OrganizerAddress   common.Address `json:"organizerAddress"`
	PaymentAddress     common.Address `json:"paymentAddress"`
	PlatformFeePercent uint32         `json:"platformFeePercent"`
	IsActive           bool           `json:"isActive"`
	CreatedAt          uint64         `json:"createdAt"` // unix timestamp
}

func mapEventResult(event *entity.EventInfo) *eventResult {
	return &eventResult{
		EventId:            event.EventID,
		OrganizerAddress:   event.OrganizerAddress,
		PaymentAddress:     event.PaymentAddress,
		PlatformFeePercent: event.PlatformFeePercent,
		IsActive:           event.IsActive,
		CreatedAt:          event.CreatedAt,
	}
}

func parseAddress(s string, field string) (common.Address, error) {
	addr, err := common.ParseAddress(s)
	if err != nil {
		return "", errs.Validationf("'%s' is not a valid address", field)
	}
	return addr, nil
}
