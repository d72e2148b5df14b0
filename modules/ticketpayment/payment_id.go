package ticketpayment

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/cockroachdb/errors"
	"github.com/gaze-network/ticket-ledger/common"
	"github.com/gaze-network/ticket-ledger/core/host"
)

const paymentIDPrefix = "PAY-"

// newPaymentID derives a payment id from the event, the buyer and the ledger payment sequence.
func newPaymentID(eventID string, buyer common.Address, seq uint64) string {
	preimage := strings.Join([]string{eventID, buyer.String(), strconv.FormatUint(seq, 10)}, "|")
	hash := chainhash.DoubleHashB([]byte(preimage))
	return paymentIDPrefix + hex.EncodeToString(hash[:8])
}

// nextPaymentID returns an id that no stored payment uses. The sequence is
// advanced again when a derived id is already taken.
func (l *Ledger) nextPaymentID(c *host.Call, eventID string, buyer common.Address) (string, error) {
	for {
		seq, err := l.dataGateway.NextPaymentSequence(c)
		if err != nil {
			return "", errors.WithStack(err)
		}
		paymentID := newPaymentID(eventID, buyer, seq)
		existing, err := l.dataGateway.GetPayment(c, paymentID)
		if err != nil {
			return "", errors.WithStack(err)
		}
		if existing == nil {
			return paymentID, nil
		}
	}
}
