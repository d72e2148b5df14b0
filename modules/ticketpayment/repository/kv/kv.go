package kv

import (
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/datagateway"
	"github.com/gaze-network/ticket-ledger/modules/ticketpayment/internal/entity"
)

const (
	keyPaymentConfig       = "payment_config"
	keyPaymentSequence     = "payment_seq"
	keyPrefixPayment       = "payment:"
	keyPrefixEventPayments = "event_payments:"
	keyPrefixBuyerPayments = "buyer_payments:"
)

var _ datagateway.TicketPaymentDataGateway = (*Repository)(nil)

// Repository stores ledger state in the namespace of the ledger contract.
type Repository struct {
	namespace common.Address
}

func NewRepository(namespace common.Address) *Repository {
	return &Repository{namespace: namespace}
}

func (r *Repository) GetConfig(call *host.Call) (*entity.PaymentConfig, error) {
	var m paymentConfigModel
	ok, err := call.Storage(r.namespace).GetJSON(keyPaymentConfig, &m)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get payment config")
	}
	if !ok {
		return nil, nil
	}
	return mapPaymentConfigModelToEntity(m), nil
}

func (r *Repository) SetConfig(call *host.Call, config entity.PaymentConfig) error {
	err := call.Storage(r.namespace).SetJSON(keyPaymentConfig, mapPaymentConfigEntityToModel(config))
	return errors.Wrap(err, "failed to set payment config")
}

func (r *Repository) GetPayment(call *host.Call, paymentID string) (*entity.Payment, error) {
	var m paymentModel
	ok, err := call.Storage(r.namespace).GetJSON(keyPrefixPayment+paymentID, &m)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get payment %q", paymentID)
	}
	if !ok {
		return nil, nil
	}
	payment, err := mapPaymentModelToEntity(m)
	if err != nil {
		return nil, errors.Wrapf(err, "corrupted payment %q", paymentID)
	}
	return payment, nil
}

func (r *Repository) SetPayment(call *host.Call, payment entity.Payment) error {
	err := call.Storage(r.namespace).SetJSON(keyPrefixPayment+payment.PaymentID, mapPaymentEntityToModel(payment))
	return errors.Wrapf(err, "failed to set payment %q", payment.PaymentID)
}

func (r *Repository) GetEventPayments(call *host.Call, eventID string) ([]string, error) {
	paymentIDs, err := r.getIndex(call, keyPrefixEventPayments+eventID)
	return paymentIDs, errors.Wrapf(err, "failed to get payments of event %q", eventID)
}

func (r *Repository) AppendEventPayment(call *host.Call, eventID string, paymentID string) error {
	err := r.appendIndex(call, keyPrefixEventPayments+eventID, paymentID)
	return errors.Wrapf(err, "failed to append payment of event %q", eventID)
}

func (r *Repository) GetBuyerPayments(call *host.Call, buyer common.Address) ([]string, error) {
	paymentIDs, err := r.getIndex(call, keyPrefixBuyerPayments+buyer.String())
	return paymentIDs, errors.Wrapf(err, "failed to get payments of buyer %s", buyer)
}

func (r *Repository) AppendBuyerPayment(call *host.Call, buyer common.Address, paymentID string) error {
	err := r.appendIndex(call, keyPrefixBuyerPayments+buyer.String(), paymentID)
	return errors.Wrapf(err, "failed to append payment of buyer %s", buyer)
}

func (r *Repository) NextPaymentSequence(call *host.Call) (uint64, error) {
	s := call.Storage(r.namespace)
	var seq uint64
	value, ok, err := s.Get(keyPaymentSequence)
	if err != nil {
		return 0, errors.Wrap(err, "failed to get payment sequence")
	}
	if ok {
		seq, err = strconv.ParseUint(string(value), 10, 64)
		if err != nil {
			return 0, errors.Wrap(err, "corrupted payment sequence")
		}
	}
	seq++
	if err := s.Set(keyPaymentSequence, []byte(strconv.FormatUint(seq, 10))); err != nil {
		return 0, errors.Wrap(err, "failed to set payment sequence")
	}
	return seq, nil
}

func (r *Repository) getIndex(call *host.Call, key string) ([]string, error) {
	ids := make([]string, 0)
	if _, err := call.Storage(r.namespace).GetJSON(key, &ids); err != nil {
		return nil, errors.WithStack(err)
	}
	return ids, nil
}

func (r *Repository) appendIndex(call *host.Call, key string, id string) error {
	ids, err := r.getIndex(call, key)
	if err != nil {
		return errors.WithStack(err)
	}
	return errors.WithStack(call.Storage(r.namespace).SetJSON(key, append(ids, id)))
}
