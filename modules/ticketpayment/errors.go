package ticketpayment

import "strconv"

// Error is a failure of a payment ledger operation.
type Error uint32

const (
	ErrInvalidAmount Error = iota + 1
	ErrInsufficientBalance
	ErrPaymentNotFound
	ErrPaymentAlreadyConfirmed
	ErrInvalidEventID
	ErrEventRegistryError
	ErrTransferFailed
	ErrOverflow
	ErrUnauthorized
	ErrAlreadyInitialized
	ErrNotInitialized
	ErrInvalidAddress
	ErrInvalidFeePercent
)

var errorMessages = map[Error]string{
	ErrInvalidAmount:           "Amount must be positive and fit a signed 128-bit integer",
	ErrInsufficientBalance:     "Insufficient balance",
	ErrPaymentNotFound:         "Payment not found",
	ErrPaymentAlreadyConfirmed: "Payment already settled",
	ErrInvalidEventID:          "Event id must not be empty",
	ErrEventRegistryError:      "Event registry rejected the event",
	ErrTransferFailed:          "Token transfer failed",
	ErrOverflow:                "Arithmetic overflow",
	ErrUnauthorized:            "Caller not authorized for action",
	ErrAlreadyInitialized:      "Contract already initialized",
	ErrNotInitialized:          "Contract not initialized",
	ErrInvalidAddress:          "Invalid address",
	ErrInvalidFeePercent:       "Fee percent must be between 0 and 10000",
}

func (e Error) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return "ticket payment error " + strconv.FormatUint(uint64(e), 10)
}

// Code returns the numeric error code.
func (e Error) Code() uint32 {
	return uint32(e)
}
