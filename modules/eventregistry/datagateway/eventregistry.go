package datagateway

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
)

// EventRegistryDataGateway reads and writes registry state inside an invocation.
type EventRegistryDataGateway interface {
	// GetConfig returns nil if the registry is not initialized.
	GetConfig(call *host.Call) (*entity.RegistryConfig, error)
	SetConfig(call *host.Call, config entity.RegistryConfig) error

	// GetEvent returns nil if the event doesn't exist.
	GetEvent(call *host.Call, eventID string) (*entity.EventInfo, error)
	SetEvent(call *host.Call, event entity.EventInfo) error
	EventExists(call *host.Call, eventID string) (bool, error)

	GetOrganizerEvents(call *host.Call, organizer common.Address) ([]string, error)
	AppendOrganizerEvent(call *host.Call, organizer common.Address, eventID string) error
}
