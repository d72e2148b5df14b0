package httphandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment"
	"github.com/gofiber/fiber/v2"
)

type errorStatus struct {
	err    ticketpayment.Error
	status int
}

var errorStatuses = []errorStatus{
	{ticketpayment.ErrUnauthorized, http.StatusUnauthorized},
	{ticketpayment.ErrPaymentNotFound, http.StatusNotFound},
	{ticketpayment.ErrNotInitialized, http.StatusNotFound},
	{ticketpayment.ErrAlreadyInitialized, http.StatusConflict},
	{ticketpayment.ErrPaymentAlreadyConfirmed, http.StatusConflict},
	{ticketpayment.ErrEventRegistryError, http.StatusUnprocessableEntity},
	{ticketpayment.ErrInsufficientBalance, http.StatusUnprocessableEntity},
	{ticketpayment.ErrTransferFailed, http.StatusUnprocessableEntity},
	{ticketpayment.ErrOverflow, http.StatusUnprocessableEntity},
	{ticketpayment.ErrInvalidAmount, http.StatusBadRequest},
	{ticketpayment.ErrInvalidEventID, http.StatusBadRequest},
	{ticketpayment.ErrInvalidAddress, http.StatusBadRequest},
	{ticketpayment.ErrInvalidFeePercent, http.StatusBadRequest},
}

// toHTTPError converts ledger errors into fiber errors, others are wrapped with msg.
func toHTTPError(err error, msg string) error {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			message := e.err.Error()
			// keep the registry reason, e.g. inactive event
			if cause := errors.UnwrapAll(err); e.err == ticketpayment.ErrEventRegistryError && cause != error(e.err) {
				message += ": " + cause.Error()
			}
			return errors.WithStack(fiber.NewError(e.status, message))
		}
	}
	return errors.Wrap(err, msg)
}
