package predictor

import "fmt"

// ValidationError reports a form input that is not a valid number.
// No request is built when it is returned.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %q is not a valid number", e.Field, e.Value)
}

// ErrorKind says at which step a service call failed.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport" // connection refused, timeout, network error
	KindStatus    ErrorKind = "status"    // non-2xx response
	KindDecode    ErrorKind = "decode"    // 2xx response with an unusable body
)

// ServiceError reports a failed call to the classification service. The
// kinds are distinguished for logs only; users see one connectivity message.
type ServiceError struct {
	Kind       ErrorKind
	StatusCode int
	Err        error
}

func (e *ServiceError) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("service returned status %d", e.StatusCode)
	case KindDecode:
		return fmt.Sprintf("failed to decode service response: %v", e.Err)
	default:
		return fmt.Sprintf("service request failed: %v", e.Err)
	}
}

func (e *ServiceError) Unwrap() error { return e.Err }
