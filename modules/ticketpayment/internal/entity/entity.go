package entity

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/uint128"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusConfirmed PaymentStatus = "confirmed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusConfirmed || s == PaymentStatusFailed
}

func (s PaymentStatus) String() string {
	return string(s)
}

type PaymentConfig struct {
	AdminAddress          common.Address
	Token                 string
	PlatformFeePercent    uint32
	PlatformWalletAddress common.Address
	EventRegistryAddress  common.Address
}

// Payment is a ticket payment. Amount always equals PlatformFee + OrganizerAmount.
type Payment struct {
	PaymentID       string
	EventID         string
	BuyerAddress    common.Address
	PaymentAddress  common.Address // event payment address at the time of the payment
	TicketTierID    string
	Amount          uint128.Uint128
	PlatformFee     uint128.Uint128
	OrganizerAmount uint128.Uint128
	Status          PaymentStatus
	TransactionHash string
	CreatedAt       uint64
	ConfirmedAt     uint64
	FailureReason   string
	FailedAt        uint64
}
