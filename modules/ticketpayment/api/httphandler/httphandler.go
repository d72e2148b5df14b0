package httphandler

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/common/errs"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
	"github.com/gaze-network/ticket-ledger/pkg/decimals"
	"github.com/gaze-network/uint128"
	"github.com/shopspring/decimal"
)

type HttpHandler struct {
	ledger        *ticketpayment.Ledger
	tokenDecimals uint16
}

// New creates the handler. Amounts are additionally rendered with tokenDecimals.
func New(ledger *ticketpayment.Ledger, tokenDecimals uint16) *HttpHandler {
	return &HttpHandler{
		ledger:        ledger,
		tokenDecimals: tokenDecimals,
	}
}

type authRequest struct {
	Auth []host.Proof `json:"auth"`
}

type amount struct {
	Value   string          `json:"value"` // base units
	Decimal decimal.Decimal `json:"decimal"`
}

type paymentResult struct {
	PaymentId       string         `json:"paymentId"`
	EventId         string         `json:"eventId"`
	BuyerAddress    common.Address `json:"buyerAddress"`
	PaymentAddress  common.Address `json:"paymentAddress"`
	TicketTierId    string         `json:"ticketTierId"`
	Amount          amount         `json:"amount"`
	PlatformFee     amount         `json:"platformFee"`
	OrganizerAmount amount         `json:"organizerAmount"`
	Status          string         `json:"status"`
	TransactionHash string         `json:"transactionHash,omitempty"`
	CreatedAt       uint64         `json:"createdAt"`             // unix timestamp
	ConfirmedAt     *uint64        `json:"confirmedAt,omitempty"` // unix timestamp
	FailureReason   string         `json:"failureReason,omitempty"`
	FailedAt        *uint64        `json:"failedAt,omitempty"` // unix timestamp
}

func (h *HttpHandler) mapPaymentResult(payment *entity.Payment) *paymentResult {
	toAmount := func(v uint128.Uint128) amount {
		return amount{
			Value:   v.String(),
			Decimal: decimals.ToDecimal(v, h.tokenDecimals),
		}
	}
	result := &paymentResult{
		PaymentId:       payment.PaymentID,
		EventId:         payment.EventID,
		BuyerAddress:    payment.BuyerAddress,
		PaymentAddress:  payment.PaymentAddress,
		TicketTierId:    payment.TicketTierID,
		Amount:          toAmount(payment.Amount),
		PlatformFee:     toAmount(payment.PlatformFee),
		OrganizerAmount: toAmount(payment.OrganizerAmount),
		Status:          payment.Status.String(),
		TransactionHash: payment.TransactionHash,
		CreatedAt:       payment.CreatedAt,
		FailureReason:   payment.FailureReason,
	}
	if payment.ConfirmedAt != 0 {
		result.ConfirmedAt = &payment.ConfirmedAt
	}
	if payment.FailedAt != 0 {
		result.FailedAt = &payment.FailedAt
	}
	return result
}

func parseAddress(s string, field string) (common.Address, error) {
	addr, err := common.ParseAddress(s)
	if err != nil {
		return "", errs.Validationf("'%s' is not a valid address", field)
	}
	return addr, nil
}
