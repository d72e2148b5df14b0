package kv

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
	"github.com/gaze-network/uint128"
)

type paymentConfigModel struct {
	AdminAddress          string `json:"admin_address"`
	Token                 string `json:"token"`
	PlatformFeePercent    uint32 `json:"platform_fee_percent"`
	PlatformWalletAddress string `json:"platform_wallet_address"`
	EventRegistryAddress  string `json:"event_registry_address"`
}

// amounts are base-10 strings
type paymentModel struct {
	PaymentID       string `json:"payment_id"`
	EventID         string `json:"event_id"`
	BuyerAddress    string `json:"buyer_address"`
	PaymentAddress  string `json:"payment_address"`
	TicketTierID    string `json:"ticket_tier_id"`
	Amount          string `json:"amount"`
	PlatformFee     string `json:"platform_fee"`
	OrganizerAmount string `json:"organizer_amount"`
	Status          string `json:"status"`
	TransactionHash string `json:"transaction_hash,omitempty"`
	CreatedAt       uint64 `json:"created_at"`
	ConfirmedAt     uint64 `json:"confirmed_at,omitempty"`
	FailureReason   string `json:"failure_reason,omitempty"`
	FailedAt        uint64 `json:"failed_at,omitempty"`
}

func mapPaymentConfigModelToEntity(src paymentConfigModel) *entity.PaymentConfig {
	return &entity.PaymentConfig{
		AdminAddress:          common.Address(src.AdminAddress),
		Token:                 src.Token,
		PlatformFeePercent:    src.PlatformFeePercent,
		PlatformWalletAddress: common.Address(src.PlatformWalletAddress),
		EventRegistryAddress:  common.Address(src.EventRegistryAddress),
	}
}

func mapPaymentConfigEntityToModel(src entity.PaymentConfig) paymentConfigModel {
	return paymentConfigModel{
		AdminAddress:          src.AdminAddress.String(),
		Token:                 src.Token,
		PlatformFeePercent:    src.PlatformFeePercent,
		PlatformWalletAddress: src.PlatformWalletAddress.String(),
		EventRegistryAddress:  src.EventRegistryAddress.String(),
	}
}

func mapPaymentModelToEntity(src paymentModel) (*entity.Payment, error) {
	amount, err := uint128.FromString(src.Amount)
	if err != nil {
		return nil, errors.Wrap(err, "invalid amount")
	}
	platformFee, err := uint128.FromString(src.PlatformFee)
	if err != nil {
		return nil, errors.Wrap(err, "invalid platform fee")
	}
	organizerAmount, err := uint128.FromString(src.OrganizerAmount)
	if err != nil {
		return nil, errors.Wrap(err, "invalid organizer amount")
	}
	return &entity.Payment{
		PaymentID:       src.PaymentID,
		EventID:         src.EventID,
		BuyerAddress:    common.Address(src.BuyerAddress),
		PaymentAddress:  common.Address(src.PaymentAddress),
		TicketTierID:    src.TicketTierID,
		Amount:          amount,
		PlatformFee:     platformFee,
		OrganizerAmount: organizerAmount,
		Status:          entity.PaymentStatus(src.Status),
		TransactionHash: src.TransactionHash,
		CreatedAt:       src.CreatedAt,
		ConfirmedAt:     src.ConfirmedAt,
		FailureReason:   src.FailureReason,
		FailedAt:        src.FailedAt,
	}, nil
}

func mapPaymentEntityToModel(src entity.Payment) paymentModel {
	return paymentModel{
		PaymentID:       src.PaymentID,
		EventID:         src.EventID,
		BuyerAddress:    src.BuyerAddress.String(),
		PaymentAddress:  src.PaymentAddress.String(),
		TicketTierID:    src.TicketTierID,
		Amount:          src.Amount.String(),
		PlatformFee:     src.PlatformFee.String(),
		OrganizerAmount: src.OrganizerAmount.String(),
		Status:          src.Status.String(),
		TransactionHash: src.TransactionHash,
		CreatedAt:       src.CreatedAt,
		ConfirmedAt:     src.ConfirmedAt,
		FailureReason:   src.FailureReason,
		FailedAt:        src.FailedAt,
	}
}
