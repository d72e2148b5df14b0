package common

// HttpResponse is the envelope of every API response. Error is null on
// success and Result is omitted on failure.
type HttpResponse[T any] struct {
	Error  *string `json:"error"`
	Result *T      `json:"result,omitempty"`
}
