package entity

import "github.com/gaze-network/ticket-ledger/common"

type RegistryConfig struct {
	AdminAddress              common.Address
	PlatformWalletAddress     common.Address
	DefaultPlatformFeePercent uint32
}

type EventInfo struct {
	EventID            string
	OrganizerAddress   common.Address
	PaymentAddress     common.Address
	PlatformFeePercent uint32
	IsActive           bool
	CreatedAt          uint64
}
