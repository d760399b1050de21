package model

import (
	"errors"
	"fmt"
)

// Invocation failures. All of them are terminal for the invocation.
var (
	ErrUnsupportedTriggerKind   = errors.New("unsupported trigger kind")
	ErrMalformedTriggerEnvelope = errors.New("malformed trigger envelope")
	ErrMalformedPayload         = errors.New("malformed payload")
	ErrComputationFailed        = errors.New("computation failed")
	ErrSerializationFailed      = errors.New("serialization failed")
)

// ComputationError carries the free-text reason reported by an external computation.
type ComputationError struct {
	Reason string
}

// NewComputationError builds a ComputationError from a formatted reason.
func NewComputationError(format string, args ...interface{}) *ComputationError {
	return &ComputationError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrComputationFailed, e.Reason)
}

func (e *ComputationError) Is(target error) bool {
	return target == ErrComputationFailed
}

// AsComputationError normalizes err so that every computation failure is a *ComputationError.
func AsComputationError(err error) error {
	if err == nil {
		return nil
	}
	var compErr *ComputationError
	if errors.As(err, &compErr) {
		return err
	}
	return &ComputationError{Reason: err.Error()}
}

// Error kinds used in records, metrics and HTTP responses.
const (
	KindOK                       = "ok"
	KindUnsupportedTriggerKind   = "unsupported_trigger_kind"
	KindMalformedTriggerEnvelope = "malformed_trigger_envelope"
	KindMalformedPayload         = "malformed_payload"
	KindComputationFailed        = "computation_failed"
	KindSerializationFailed      = "serialization_failed"
	KindInternal                 = "internal"
)

// ErrorKind classifies err into the flat failure taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrUnsupportedTriggerKind):
		return KindUnsupportedTriggerKind
	case errors.Is(err, ErrMalformedTriggerEnvelope):
		return KindMalformedTriggerEnvelope
	case errors.Is(err, ErrMalformedPayload):
		return KindMalformedPayload
	case errors.Is(err, ErrComputationFailed):
		return KindComputationFailed
	case errors.Is(err, ErrSerializationFailed):
		return KindSerializationFailed
	default:
		return KindInternal
	}
}
