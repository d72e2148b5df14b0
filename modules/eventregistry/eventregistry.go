// Package eventregistry manages event registration together with the per-event
// fee and ownership metadata.
package eventregistry

import (
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/datagateway"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/repository/kv"
)

const (
	Version     = "v0.1.0"
	DefaultName = "event_registry"

	// MaxFeePercent is 100% in basis points.
	MaxFeePercent uint32 = 10_000

	// DefaultFeePercent replaces a zero default fee at initialization.
	DefaultFeePercent uint32 = 500
)

// Invocation method names. The invocation args of each method are its
// parameters in declaration order.
const (
	MethodInitialize        = "initialize"
	MethodSetPlatformFee    = "set_platform_fee"
	MethodRegisterEvent     = "register_event"
	MethodStoreEvent        = "store_event"
	MethodUpdateEventStatus = "update_event_status"
)

type Registry struct {
	env         *host.Env
	address     common.Address
	dataGateway datagateway.EventRegistryDataGateway
}

// New creates the registry contract name deployed on env.
func New(env *host.Env, name string) *Registry {
	address := env.ContractAddress(name)
	return &Registry{
		env:         env,
		address:     address,
		dataGateway: kv.NewRepository(address),
	}
}

// Address returns the contract address of the registry. It is also the
// storage namespace of the registry.
func (r *Registry) Address() common.Address {
	return r.address
}

func (r *Registry) invocation(method string, auth []host.Proof, args ...string) host.Invocation {
	return host.Invocation{
		Contract: r.address,
		Method:   method,
		Args:     args,
		Auth:     auth,
	}
}
