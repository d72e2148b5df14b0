package httphandler

import (
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type eventParams struct {
	EventId string `params:"eventId"`
}

func (p *eventParams) Validate() error {
	eventId, err := url.PathUnescape(p.EventId)
	if err != nil || eventId == "" {
		return errs.Validationf("'eventId' is not valid")
	}
	p.EventId = eventId
	return nil
}

func parseEventParams(ctx *fiber.Ctx) (eventParams, error) {
	var params eventParams
	if err := ctx.ParamsParser(&params); err != nil {
		return params, errors.WithStack(err)
	}
	if err := params.Validate(); err != nil {
		return params, errors.WithStack(err)
	}
	return params, nil
}

type getEventResponse = common.HttpResponse[eventResult]

type registerEventRequest struct {
	authRequest
	EventId          string `json:"eventId"`
	OrganizerAddress string `json:"organizerAddress"`
	PaymentAddress   string `json:"paymentAddress"`
}

func (h *HttpHandler) RegisterEvent(ctx *fiber.Ctx) (err error) {
	var req registerEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.EventId == "" {
		return errs.Validationf("'eventId' is required")
	}
	organizer, err := parseAddress(req.OrganizerAddress, "organizerAddress")
	if err != nil {
		return errors.WithStack(err)
	}
	paymentAddress, err := parseAddress(req.PaymentAddress, "paymentAddress")
	if err != nil {
		return errors.WithStack(err)
	}

	if err := h.registry.RegisterEvent(ctx.UserContext(), req.Auth, req.EventId, organizer, paymentAddress); err != nil {
		return toHTTPError(err, "error during RegisterEvent")
	}
	return h.respondEvent(ctx.Status(fiber.StatusCreated), req.EventId)
}

type storeEventRequest struct {
	authRequest
	OrganizerAddress   string `json:"organizerAddress"`
	PaymentAddress     string `json:"paymentAddress"`
	PlatformFeePercent uint32 `json:"platformFeePercent"`
	IsActive           bool   `json:"isActive"`
	CreatedAt          uint64 `json:"createdAt"`
}

func (h *HttpHandler) StoreEvent(ctx *fiber.Ctx) (err error) {
	params, err := parseEventParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req storeEventRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	organizer, err := parseAddress(req.OrganizerAddress, "organizerAddress")
	if err != nil {
		return errors.WithStack(err)
	}
	paymentAddress, err := parseAddress(req.PaymentAddress, "paymentAddress")
	if err != nil {
		return errors.WithStack(err)
	}

	event := entity.EventInfo{
		EventID:            params.EventId,
		OrganizerAddress:   organizer,
		PaymentAddress:     paymentAddress,
		PlatformFeePercent: req.PlatformFeePercent,
		IsActive:           req.IsActive,
		CreatedAt:          req.CreatedAt,
	}
	if err := h.registry.StoreEvent(ctx.UserContext(), req.Auth, event); err != nil {
		return toHTTPError(err, "error during StoreEvent")
	}
	return h.respondEvent(ctx, params.EventId)
}

func (h *HttpHandler) GetEvent(ctx *fiber.Ctx) (err error) {
	params, err := parseEventParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	return h.respondEvent(ctx, params.EventId)
}

func (h *HttpHandler) respondEvent(ctx *fiber.Ctx, eventId string) error {
	event, err := h.registry.GetEvent(ctx.UserContext(), eventId)
	if err != nil {
		return toHTTPError(err, "error during GetEvent")
	}
	if event == nil {
		return errors.WithStack(ctx.JSON(fiber.Map{"error": nil, "result": nil}))
	}
	return errors.WithStack(ctx.JSON(getEventResponse{
		Result: mapEventResult(event),
	}))
}

type paymentInfoResult struct {
	PaymentAddress     common.Address `json:"paymentAddress"`
	PlatformFeePercent uint32         `json:"platformFeePercent"`
}

type getEventPaymentInfoResponse = common.HttpResponse[paymentInfoResult]

func (h *HttpHandler) GetEventPaymentInfo(ctx *fiber.Ctx) (err error) {
	params, err := parseEventParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	info, err := h.registry.GetEventPaymentInfo(ctx.UserContext(), params.EventId)
	if err != nil {
		return toHTTPError(err, "error during GetEventPaymentInfo")
	}
	return errors.WithStack(ctx.JSON(getEventPaymentInfoResponse{
		Result: &paymentInfoResult{
			PaymentAddress:     info.PaymentAddress,
			PlatformFeePercent: info.PlatformFeePercent,
		},
	}))
}

type updateEventStatusRequest struct {
	authRequest
	IsActive *bool `json:"isActive"`
}

func (h *HttpHandler) UpdateEventStatus(ctx *fiber.Ctx) (err error) {
	params, err := parseEventParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req updateEventStatusRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.IsActive == nil {
		return errs.Validationf("'isActive' is required")
	}

	if err := h.registry.UpdateEventStatus(ctx.UserContext(), req.Auth, params.EventId, *req.IsActive); err != nil {
		return toHTTPError(err, "error during UpdateEventStatus")
	}
	return h.respondEvent(ctx, params.EventId)
}

type getOrganizerEventsRequest struct {
	Address string `params:"address"`
}

type getOrganizerEventsResult struct {
	List []string `json:"list"`
}

type getOrganizerEventsResponse = common.HttpResponse[getOrganizerEventsResult]

func (h *HttpHandler) GetOrganizerEvents(ctx *fiber.Ctx) (err error) {
	var req getOrganizerEventsRequest
	if err := ctx.ParamsParser(&req); err != nil {
		return errors.WithStack(err)
	}
	organizer, err := parseAddress(req.Address, "address")
	if err != nil {
		return errors.WithStack(err)
	}

	eventIds, err := h.registry.GetOrganizerEvents(ctx.UserContext(), organizer)
	if err != nil {
		return toHTTPError(err, "error during GetOrganizerEvents")
	}
	return errors.WithStack(ctx.JSON(getOrganizerEventsResponse{
		Result: &getOrganizerEventsResult{List: eventIds},
	}))
}
