package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/payments/v1")

	r.Post("/initialize", h.Initialize)
	r.Get("/config", h.GetConfig)
	r.Post("/payments", h.ProcessPayment)
	r.Get("/payments/:paymentId", h.GetPayment)
	r.Post("/payments/:paymentId/confirm", h.ConfirmPayment)
	r.Post("/payments/:paymentId/fail", h.FailPayment)
	r.Get("/events/:eventId/payments", h.GetEventPayments)
	r.Get("/buyers/:address/payments", h.GetBuyerPayments)
	return nil
}
