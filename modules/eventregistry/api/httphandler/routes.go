package httphandler

import (
	"github.com/gofiber/fiber/v2"
)

func (h *HttpHandler) Mount(router fiber.Router) error {
	r := router.Group("/registry/v1")

	r.Post("/initialize", h.Initialize)
	r.Get("/config", h.GetConfig)
	r.Put("/config/fee", h.SetPlatformFee)
	r.Post("/events", h.RegisterEvent)
	r.Put("/events/:eventId", h.StoreEvent)
	r.Get("/events/:eventId", h.GetEvent)
	r.Get("/events/:eventId/payment-info", h.GetEventPaymentInfo)
	r.Patch("/events/:eventId/status", h.UpdateEventStatus)
	r.Get("/organizers/:address/events", h.GetOrganizerEvents)
	return nil
}
