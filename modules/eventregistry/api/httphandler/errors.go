package httphandler

import (
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gofiber/fiber/v2"
)

type errorStatus struct {
	err    eventregistry.Error
	status int
}

var errorStatuses = []errorStatus{
	{eventregistry.ErrUnauthorized, http.StatusUnauthorized},
	{eventregistry.ErrEventNotFound, http.StatusNotFound},
	{eventregistry.ErrNotInitialized, http.StatusNotFound},
	{eventregistry.ErrEventAlreadyExists, http.StatusConflict},
	{eventregistry.ErrAlreadyInitialized, http.StatusConflict},
	{eventregistry.ErrEventInactive, http.StatusUnprocessableEntity},
	{eventregistry.ErrInvalidAddress, http.StatusBadRequest},
	{eventregistry.ErrInvalidFeePercent, http.StatusBadRequest},
	{eventregistry.ErrInvalidEventID, http.StatusBadRequest},
}

// toHTTPError converts registry errors into fiber errors, others are wrapped with msg.
func toHTTPError(err error, msg string) error {
	for _, e := range errorStatuses {
		if errors.Is(err, e.err) {
			return errors.WithStack(fiber.NewError(e.status, e.err.Error()))
		}
	}
	return errors.Wrap(err, msg)
}
