package ticketpayment

import (
	"context"
	"math/big"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/core/notification"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
	"github.com/gaze-network/ticket-ledger/pkg/logger"
	"github.com/gaze-network/ticket-ledger/pkg/logger/slogx"
)

type PaymentProcessedPayload struct {
	PaymentID          string         `json:"payment_id"`
	EventID            string         `json:"event_id"`
	BuyerAddress       common.Address `json:"buyer_address"`
	TicketTierID       string         `json:"ticket_tier_id,omitempty"`
	Amount             string         `json:"amount"`
	PlatformFee        string         `json:"platform_fee"`
	OrganizerAmount    string         `json:"organizer_amount"`
	PlatformFeePercent uint32         `json:"platform_fee_percent"`
	CreatedAt          uint64         `json:"created_at"`
}

type PaymentConfirmedPayload struct {
	PaymentID       string `json:"payment_id"`
	EventID         string `json:"event_id"`
	TransactionHash string `json:"transaction_hash"`
	ConfirmedAt     uint64 `json:"confirmed_at"`
}

type PaymentFailedPayload struct {
	PaymentID    string         `json:"payment_id"`
	EventID      string         `json:"event_id"`
	BuyerAddress common.Address `json:"buyer_address"`
	RefundAmount string         `json:"refund_amount"`
	Reason       string         `json:"reason"`
	FailedAt     uint64         `json:"failed_at"`
}

// ProcessPayment creates a pending payment of amount for a ticket of an
// active event and moves amount from buyer into the ledger custody. It
// requires buyer authorization.
func (l *Ledger) ProcessPayment(ctx context.Context, auth []host.Proof, buyer common.Address, eventID string, ticketTierID string, amount *big.Int) (payment *entity.Payment, err error) {
	inv := l.invocation(MethodProcessPayment, auth, buyer.String(), eventID, ticketTierID, amountArg(amount))
	err = l.env.Invoke(ctx, inv, func(c *host.Call) error {
		payment, err = l.processPayment(c, buyer, eventID, ticketTierID, amount)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return payment, nil
}

func (l *Ledger) processPayment(c *host.Call, buyer common.Address, eventID string, ticketTierID string, rawAmount *big.Int) (*entity.Payment, error) {
	amount, err := parseAmount(rawAmount)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if eventID == "" {
		return nil, errors.WithStack(ErrInvalidEventID)
	}
	config, err := l.getConfig(c)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if err := buyer.Validate(); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "invalid buyer address"), ErrInvalidAddress)
	}
	if err := c.RequireAuth(buyer); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "buyer authorization required"), ErrUnauthorized)
	}

	if l.registry.Address() != config.EventRegistryAddress {
		return nil, errors.Wrapf(ErrEventRegistryError, "registry %s is not the configured registry %s", l.registry.Address(), config.EventRegistryAddress)
	}
	info, err := l.registry.ReadEventPaymentInfo(c, eventID)
	if err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "can't get payment info of event %q", eventID), ErrEventRegistryError)
	}

	platformFee, organizerAmount, err := splitFee(amount, info.PlatformFeePercent)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	paymentID, err := l.nextPaymentID(c, eventID, buyer)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	payment := entity.Payment{
		PaymentID:       paymentID,
		EventID:         eventID,
		BuyerAddress:    buyer,
		PaymentAddress:  info.PaymentAddress,
		TicketTierID:    ticketTierID,
		Amount:          amount,
		PlatformFee:     platformFee,
		OrganizerAmount: organizerAmount,
		Status:          entity.PaymentStatusPending,
		CreatedAt:       c.Timestamp(),
	}
	if err := l.dataGateway.SetPayment(c, payment); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := l.dataGateway.AppendEventPayment(c, eventID, payment.PaymentID); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := l.dataGateway.AppendBuyerPayment(c, buyer, payment.PaymentID); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := l.transfer(c, config.Token, buyer, l.address, amount); err != nil {
		return nil, errors.WithStack(err)
	}

	err = c.Emit(notification.TopicPaymentProcessed, PaymentProcessedPayload{
		PaymentID:          payment.PaymentID,
		EventID:            payment.EventID,
		BuyerAddress:       payment.BuyerAddress,
		TicketTierID:       payment.TicketTierID,
		Amount:             payment.Amount.String(),
		PlatformFee:        payment.PlatformFee.String(),
		OrganizerAmount:    payment.OrganizerAmount.String(),
		PlatformFeePercent: info.PlatformFeePercent,
		CreatedAt:          payment.CreatedAt,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.InfoContext(c.Context(), "Payment processed",
		slogx.PaymentID(payment.PaymentID),
		slogx.EventID(payment.EventID),
		slogx.String("amount", payment.Amount.String()),
	)
	return &payment, nil
}

// ConfirmPayment settles a pending payment. The organizer amount goes to the
// event payment address and the platform fee to the platform wallet. It
// requires admin authorization.
func (l *Ledger) ConfirmPayment(ctx context.Context, auth []host.Proof, paymentID string, transactionHash string) (payment *entity.Payment, err error) {
	inv := l.invocation(MethodConfirmPayment, auth, paymentID, transactionHash)
	err = l.env.Invoke(ctx, inv, func(c *host.Call) error {
		payment, err = l.confirmPayment(c, paymentID, transactionHash)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return payment, nil
}

func (l *Ledger) confirmPayment(c *host.Call, paymentID string, transactionHash string) (*entity.Payment, error) {
	config, payment, err := l.getPendingPayment(c, paymentID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	payment.Status = entity.PaymentStatusConfirmed
	payment.ConfirmedAt = c.Timestamp()
	payment.TransactionHash = transactionHash
	if err := l.dataGateway.SetPayment(c, *payment); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := l.transfer(c, config.Token, l.address, payment.PaymentAddress, payment.OrganizerAmount); err != nil {
		return nil, errors.WithStack(err)
	}
	if err := l.transfer(c, config.Token, l.address, config.PlatformWalletAddress, payment.PlatformFee); err != nil {
		return nil, errors.WithStack(err)
	}

	err = c.Emit(notification.TopicPaymentConfirmed, PaymentConfirmedPayload{
		PaymentID:       payment.PaymentID,
		EventID:         payment.EventID,
		TransactionHash: payment.TransactionHash,
		ConfirmedAt:     payment.ConfirmedAt,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.InfoContext(c.Context(), "Payment confirmed", slogx.PaymentID(payment.PaymentID), slogx.EventID(payment.EventID))
	return payment, nil
}

// FailPayment marks a pending payment as failed and refunds the buyer. It
// requires admin authorization.
func (l *Ledger) FailPayment(ctx context.Context, auth []host.Proof, paymentID string, reason string) (payment *entity.Payment, err error) {
	inv := l.invocation(MethodFailPayment, auth, paymentID, reason)
	err = l.env.Invoke(ctx, inv, func(c *host.Call) error {
		payment, err = l.failPayment(c, paymentID, reason)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return payment, nil
}

func (l *Ledger) failPayment(c *host.Call, paymentID string, reason string) (*entity.Payment, error) {
	config, payment, err := l.getPendingPayment(c, paymentID)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	payment.Status = entity.PaymentStatusFailed
	payment.FailedAt = c.Timestamp()
	payment.FailureReason = reason
	if err := l.dataGateway.SetPayment(c, *payment); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := l.transfer(c, config.Token, l.address, payment.BuyerAddress, payment.Amount); err != nil {
		return nil, errors.WithStack(err)
	}

	err = c.Emit(notification.TopicPaymentFailed, PaymentFailedPayload{
		PaymentID:    payment.PaymentID,
		EventID:      payment.EventID,
		BuyerAddress: payment.BuyerAddress,
		RefundAmount: payment.Amount.String(),
		Reason:       reason,
		FailedAt:     payment.FailedAt,
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	logger.InfoContext(c.Context(), "Payment failed, buyer refunded",
		slogx.PaymentID(payment.PaymentID),
		slogx.EventID(payment.EventID),
		slogx.String("reason", reason),
	)
	return payment, nil
}

// getPendingPayment checks admin authorization and returns a payment that can still be settled.
func (l *Ledger) getPendingPayment(c *host.Call, paymentID string) (*entity.PaymentConfig, *entity.Payment, error) {
	config, err := l.getConfig(c)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if err := c.RequireAuth(config.AdminAddress); err != nil {
		return nil, nil, errors.Mark(errors.Wrap(err, "admin authorization required"), ErrUnauthorized)
	}
	payment, err := l.dataGateway.GetPayment(c, paymentID)
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}
	if payment == nil {
		return nil, nil, errors.Wrapf(ErrPaymentNotFound, "payment %q", paymentID)
	}
	if payment.Status.IsTerminal() {
		return nil, nil, errors.Wrapf(ErrPaymentAlreadyConfirmed, "payment %q is %s", paymentID, payment.Status)
	}
	return config, payment, nil
}

// GetPayment returns nil if the payment doesn't exist.
func (l *Ledger) GetPayment(ctx context.Context, paymentID string) (payment *entity.Payment, err error) {
	err = l.env.View(ctx, l.address, func(c *host.Call) error {
		payment, err = l.dataGateway.GetPayment(c, paymentID)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return payment, nil
}

// GetEventPayments returns the payment ids of an event in processing order.
func (l *Ledger) GetEventPayments(ctx context.Context, eventID string) (paymentIDs []string, err error) {
	err = l.env.View(ctx, l.address, func(c *host.Call) error {
		paymentIDs, err = l.dataGateway.GetEventPayments(c, eventID)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return paymentIDs, nil
}

// GetBuyerPayments returns the payment ids of a buyer in processing order.
func (l *Ledger) GetBuyerPayments(ctx context.Context, buyer common.Address) (paymentIDs []string, err error) {
	err = l.env.View(ctx, l.address, func(c *host.Call) error {
		paymentIDs, err = l.dataGateway.GetBuyerPayments(c, buyer)
		return err
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return paymentIDs, nil
}

func amountArg(amount *big.Int) string {
	if amount == nil {
		return ""
	}
	return amount.String()
}
