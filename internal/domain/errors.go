package domain

import (
	"errors"
	"fmt"
)

// ErrCaptureUnavailable indicates no media source or stream exists to record.
var ErrCaptureUnavailable = errors.New("vitallens: capture unavailable")

// ErrAlreadyRecording indicates a recording is already in progress.
var ErrAlreadyRecording = errors.New("vitallens: recording already in progress")

// ErrMalformedResponse indicates the prediction service answered with a
// success status but a body that does not carry the expected metrics.
var ErrMalformedResponse = errors.New("vitallens: malformed prediction response")

// ErrFaceNotDetected indicates the face gate rejected a measurement request.
var ErrFaceNotDetected = errors.New("vitallens: no face detected")

// ErrMeasurementInProgress indicates a measurement request arrived while a
// session was already running.
var ErrMeasurementInProgress = errors.New("vitallens: measurement already in progress")

// NetworkError wraps a transport-level failure talking to the prediction
// service, including timeouts.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("prediction request failed: %v", e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// ServerError carries the message the prediction service returned alongside a
// non-success status.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string { return e.Message }
