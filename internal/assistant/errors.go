package assistant

import (
	"errors"
	"fmt"
)

// TransportError reports a failure to reach the assistant or read its reply.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("assistant: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError reports a reply the assistant produced but that signals
// failure: success=false, a non-2xx status, or an undecodable payload.
type ServiceError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("assistant: %s: status %d: %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("assistant: %s: %s", e.Op, e.Message)
}

// IsRemote reports whether err came from talking to the assistant.
func IsRemote(err error) bool {
	var te *TransportError
	var se *ServiceError
	return errors.As(err, &te) || errors.As(err, &se)
}
