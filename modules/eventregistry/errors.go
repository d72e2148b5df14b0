package eventregistry

import "strconv"

// Error is a failure of a registry operation.
type Error uint32

const (
	ErrEventAlreadyExists Error = iota + 1
	ErrEventNotFound
	ErrUnauthorized
	ErrInvalidAddress
	ErrInvalidFeePercent
	ErrEventInactive
	ErrNotInitialized
	ErrAlreadyInitialized
	ErrInvalidEventID
)

var errorMessages = map[Error]string{
	ErrEventAlreadyExists: "Event already exists",
	ErrEventNotFound:      "Event not found",
	ErrUnauthorized:       "Caller not authorized for action",
	ErrInvalidAddress:     "Invalid address",
	ErrInvalidFeePercent:  "Fee percent must be between 0 and 10000",
	ErrEventInactive:      "Trying to interact with inactive event",
	ErrNotInitialized:     "Contract not initialized",
	ErrAlreadyInitialized: "Contract already initialized",
	ErrInvalidEventID:     "Event id must not be empty",
}

func (e Error) Error() string {
	if msg, ok := errorMessages[e]; ok {
		return msg
	}
	return "event registry error " + strconv.FormatUint(uint64(e), 10)
}

// Code returns the numeric error code.
func (e Error) Code() uint32 {
	return uint32(e)
}
