package httphandler

import (
	"math/big"
	"net/url"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
	"github.com/gofiber/fiber/v2"
)

type getPaymentResponse = common.HttpResponse[paymentResult]

type listPaymentsResult struct {
	List []string `json:"list"`
}

type listPaymentsResponse = common.HttpResponse[listPaymentsResult]

type processPaymentRequest struct {
	authRequest
	BuyerAddress string `json:"buyerAddress"`
	EventId      string `json:"eventId"`
	TicketTierId string `json:"ticketTierId"`
	// Amount is in the token smallest unit.
	Amount string `json:"amount"`
}

func (r processPaymentRequest) Validate() (*big.Int, error) {
	var errList []error
	if r.EventId == "" {
		errList = append(errList, errors.New("'eventId' is required"))
	}
	amount, ok := new(big.Int).SetString(r.Amount, 10)
	if !ok {
		errList = append(errList, errors.New("'amount' must be an integer"))
	}
	if err := errors.Join(errList...); err != nil {
		return nil, errs.WithPublicMessage(err, "validation error")
	}
	return amount, nil
}

func (h *HttpHandler) ProcessPayment(ctx *fiber.Ctx) (err error) {
	var req processPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	amount, err := req.Validate()
	if err != nil {
		return errors.WithStack(err)
	}
	buyer, err := parseAddress(req.BuyerAddress, "buyerAddress")
	if err != nil {
		return errors.WithStack(err)
	}

	payment, err := h.ledger.ProcessPayment(ctx.UserContext(), req.Auth, buyer, req.EventId, req.TicketTierId, amount)
	if err != nil {
		return toHTTPError(err, "error during ProcessPayment")
	}
	return h.respondPayment(ctx.Status(fiber.StatusCreated), payment)
}

type paymentParams struct {
	PaymentId string `params:"paymentId"`
}

func parsePaymentParams(ctx *fiber.Ctx) (string, error) {
	var params paymentParams
	if err := ctx.ParamsParser(&params); err != nil {
		return "", errors.WithStack(err)
	}
	paymentId, err := url.PathUnescape(params.PaymentId)
	if err != nil || paymentId == "" {
		return "", errs.Validationf("'paymentId' is not valid")
	}
	return paymentId, nil
}

func (h *HttpHandler) GetPayment(ctx *fiber.Ctx) (err error) {
	paymentId, err := parsePaymentParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	payment, err := h.ledger.GetPayment(ctx.UserContext(), paymentId)
	if err != nil {
		return toHTTPError(err, "error during GetPayment")
	}
	if payment == nil {
		// unknown ids are an empty result, not an error
		return errors.WithStack(ctx.JSON(fiber.Map{"error": nil, "result": nil}))
	}
	return h.respondPayment(ctx, payment)
}

type confirmPaymentRequest struct {
	authRequest
	TransactionHash string `json:"transactionHash"`
}

func (h *HttpHandler) ConfirmPayment(ctx *fiber.Ctx) (err error) {
	paymentId, err := parsePaymentParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req confirmPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}
	if req.TransactionHash == "" {
		return errs.Validationf("'transactionHash' is required")
	}

	payment, err := h.ledger.ConfirmPayment(ctx.UserContext(), req.Auth, paymentId, req.TransactionHash)
	if err != nil {
		return toHTTPError(err, "error during ConfirmPayment")
	}
	return h.respondPayment(ctx, payment)
}

type failPaymentRequest struct {
	authRequest
	Reason string `json:"reason"`
}

func (h *HttpHandler) FailPayment(ctx *fiber.Ctx) (err error) {
	paymentId, err := parsePaymentParams(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	var req failPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errors.WithStack(err)
	}

	payment, err := h.ledger.FailPayment(ctx.UserContext(), req.Auth, paymentId, req.Reason)
	if err != nil {
		return toHTTPError(err, "error during FailPayment")
	}
	return h.respondPayment(ctx, payment)
}

func (h *HttpHandler) respondPayment(ctx *fiber.Ctx, payment *entity.Payment) error {
	return errors.WithStack(ctx.JSON(getPaymentResponse{
		Result: h.mapPaymentResult(payment),
	}))
}

func (h *HttpHandler) GetEventPayments(ctx *fiber.Ctx) (err error) {
	eventId, err := url.PathUnescape(ctx.Params("eventId"))
	if err != nil || eventId == "" {
		return errs.Validationf("'eventId' is not valid")
	}
	paymentIds, err := h.ledger.GetEventPayments(ctx.UserContext(), eventId)
	if err != nil {
		return toHTTPError(err, "error during GetEventPayments")
	}
	return errors.WithStack(ctx.JSON(listPaymentsResponse{
		Result: &listPaymentsResult{List: paymentIds},
	}))
}

func (h *HttpHandler) GetBuyerPayments(ctx *fiber.Ctx) (err error) {
	buyer, err := parseAddress(ctx.Params("address"), "address")
	if err != nil {
		return errors.WithStack(err)
	}
	paymentIds, err := h.ledger.GetBuyerPayments(ctx.UserContext(), buyer)
	if err != nil {
		return toHTTPError(err, "error during GetBuyerPayments")
	}
	return errors.WithStack(ctx.JSON(listPaymentsResponse{
		Result: &listPaymentsResult{List: paymentIds},
	}))
}
