package datagateway

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
)

// TicketPaymentDataGateway reads and writes ledger state inside an invocation.
type TicketPaymentDataGateway interface {
	// GetConfig returns nil if the ledger is not initialized.
	GetConfig(call *host.Call) (*entity.PaymentConfig, error)
	SetConfig(call *host.Call, config entity.PaymentConfig) error

	// GetPayment returns nil if the payment doesn't exist.
	GetPayment(call *host.Call, paymentID string) (*entity.Payment, error)
	SetPayment(call *host.Call, payment entity.Payment) error

	GetEventPayments(call *host.Call, eventID string) ([]string, error)
	AppendEventPayment(call *host.Call, eventID string, paymentID string) error
	GetBuyerPayments(call *host.Call, buyer common.Address) ([]string, error)
	AppendBuyerPayment(call *host.Call, buyer common.Address, paymentID string) error

	// NextPaymentSequence increments and returns the payment counter.
	NextPaymentSequence(call *host.Call) (uint64, error)
}

// EventRegistryReader is the read-only view of the event registry used by the ledger.
type EventRegistryReader interface {
	// Address returns the contract address of the registry.
	Address() common.Address

	// ReadEventPaymentInfo fails with eventregistry.ErrEventNotFound or eventregistry.ErrEventInactive.
	ReadEventPaymentInfo(call *host.Call, eventID string) (eventregistry.PaymentInfo, error)
}
