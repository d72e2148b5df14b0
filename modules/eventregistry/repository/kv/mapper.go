package kv

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
)

type registryConfigModel struct {
	AdminAddress              string `json:"admin_address"`
	PlatformWalletAddress     string `json:"platform_wallet_address"`
	DefaultPlatformFeePercent uint32 `json:"default_platform_fee_percent"`
}

type eventInfoModel struct {
	EventID            string `json:"event_id"`
	OrganizerAddress   string `json:"organizer_address"`
	PaymentAddress     string `json:"payment_address"`
	PlatformFeePercent uint32 `json:"platform_fee_percent"`
	IsActive           bool   `json:"is_active"`
	CreatedAt          uint64 `json:"created_at"`
}

func mapRegistryConfigModelToEntity(src registryConfigModel) *entity.RegistryConfig {
	return &entity.RegistryConfig{
		AdminAddress:              common.Address(src.AdminAddress),
		PlatformWalletAddress:     common.Address(src.PlatformWalletAddress),
		DefaultPlatformFeePercent: src.DefaultPlatformFeePercent,
	}
}

func mapRegistryConfigEntityToModel(src entity.RegistryConfig) registryConfigModel {
	return registryConfigModel{
		AdminAddress:              src.AdminAddress.String(),
		PlatformWalletAddress:     src.PlatformWalletAddress.String(),
		DefaultPlatformFeePercent: src.DefaultPlatformFeePercent,
	}
}

func mapEventInfoModelToEntity(src eventInfoModel) *entity.EventInfo {
	return &entity.EventInfo{
		EventID:            src.EventID,
		OrganizerAddress:   common.Address(src.OrganizerAddress),
		PaymentAddress:     common.Address(src.PaymentAddress),
		PlatformFeePercent: src.PlatformFeePercent,
		IsActive:           src.IsActive,
		CreatedAt:          src.CreatedAt,
	}
}

func mapEventInfoEntityToModel(src entity.EventInfo) eventInfoModel {
	return eventInfoModel{
		EventID:            src.EventID,
		OrganizerAddress:   src.OrganizerAddress.String(),
		PaymentAddress:     src.PaymentAddress.String(),
		PlatformFeePercent: src.PlatformFeePercent,
		IsActive:           src.IsActive,
		CreatedAt:          src.CreatedAt,
	}
}
