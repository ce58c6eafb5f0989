package ui

import "errors"

// ActionableError is an error the player can act on, such as a rejected
// score submission. Its message is shown as is.
type ActionableError struct {
	Message string
}

func (e *ActionableError) Error() string {
	return e.Message
}

// MessageFor returns the message of an ActionableError in err's chain, or
// fallback for any other error.
func MessageFor(err error, fallback string) string {
	var actionableErr *ActionableError
	if errors.As(err, &actionableErr) {
		return actionableErr.Message
	}
	return fallback
}
