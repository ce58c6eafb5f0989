package network

import "fmt"

// ErrUnexpectedStatus is returned when the API answers with an unexpected status code
type ErrUnexpectedStatus struct {
	StatusCode int
	Message    string
}

func (e *ErrUnexpectedStatus) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Message)
}

// ErrRequestQueueFull is returned when too many score requests are pending
type ErrRequestQueueFull struct{}

func (e *ErrRequestQueueFull) Error() string {
	return "score request queue is full"
}
