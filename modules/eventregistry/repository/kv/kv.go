package kv

import (
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/datagateway"
	"github.com/gaze-network/ticket-ledger/modules/eventregistry/internal/entity"
)

const (
	keyRegistryConfig  = "registry_config"
	keyPrefixEvent     = "event:"
	keyPrefixOrganizer = "organizer_events:"
)

var _ datagateway.EventRegistryDataGateway = (*Repository)(nil)

// Repository stores registry state in the namespace of the registry contract.
type Repository struct {
	namespace common.Address
}

func NewRepository(namespace common.Address) *Repository {
	return &Repository{namespace: namespace}
}

func (r *Repository) GetConfig(call *host.Call) (*entity.RegistryConfig, error) {
	var m registryConfigModel
	ok, err := call.Storage(r.namespace).GetJSON(keyRegistryConfig, &m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get registry config")
	}
	if !ok {
		return nil, nil
	}
	return mapRegistryConfigModelToEntity(m), nil
}

func (r *Repository) SetConfig(call *host.Call, config entity.RegistryConfig) error {
	err := call.Storage(r.namespace).SetJSON(keyRegistryConfig, mapRegistryConfigEntityToModel(config))
	return errors.Wrap(err, "failed to set registry config")
}

func (r *Repository) GetEvent(call *host.Call, eventID string) (*entity.EventInfo, error) {
	var m eventInfoModel
	ok, err := call.Storage(r.namespace).GetJSON(keyPrefixEvent+eventID, &m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get event %q", eventID)
	}
	if !ok {
		return nil, nil
	}
	return mapEventInfoModelToEntity(m), nil
}

func (r *Repository) SetEvent(call *host.Call, event entity.EventInfo) error {
	err := call.Storage(r.namespace).SetJSON(keyPrefixEvent+event.EventID, mapEventInfoEntityToModel(event))
	return errors.Wrapf(err, "failed to set event %q", event.EventID)
}

func (r *Repository) EventExists(call *host.Call, eventID string) (bool, error) {
	ok, err := call.Storage(r.namespace).Has(keyPrefixEvent + eventID)
	return ok, errors.Wrapf(err, "failed to check event %q", eventID)
}

func (r *Repository) GetOrganizerEvents(call *host.Call, organizer common.Address) ([]string, error) {
	eventIDs := make([]string, 0)
	_, err := call.Storage(r.namespace).GetJSON(keyPrefixOrganizer+organizer.String(), &eventIDs)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get events of organizer %s", organizer)
	}
	return eventIDs, nil
}

func (r *Repository) AppendOrganizerEvent(call *host.Call, organizer common.Address, eventID string) error {
	eventIDs, err := r.GetOrganizerEvents(call, organizer)
	if err != nil {
		return errors.WithStack(err)
	}
	eventIDs = append(eventIDs, eventID)
	err = call.Storage(r.namespace).SetJSON(keyPrefixOrganizer+organizer.String(), eventIDs)
	return errors.Wrapf(err, "failed to append event of organizer %s", organizer)
}
