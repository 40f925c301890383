package domain

import (
	"errors"
	"fmt"
)

// LoadError is returned when the flight dataset cannot be retrieved or parsed.
type LoadError struct {
	Source string
	Err    error
}

func (e LoadError) Error() string {
	switch {
	case e.Source != "" && e.Err != nil:
		return fmt.Sprintf("load dataset from %s: %v", e.Source, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("load dataset: %v", e.Err)
	default:
		return "load dataset failed"
	}
}

func (e LoadError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e ValidationError) Error() string {
	if e.Msg != "" && e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	if e.Msg != "" {
		return e.Msg
	}
	if e.Field != "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return "validation error"
}

func (e ValidationError) Unwrap() error { return e.Err }

// ScannerUnavailableError reports a missing decoder or camera capability.
// No scanner state is touched when it is returned.
type ScannerUnavailableError struct {
	Capability string
}

func (e ScannerUnavailableError) Error() string {
	if e.Capability == "" {
		return "scanner unavailable"
	}
	return fmt.Sprintf("scanner unavailable: %s missing", e.Capability)
}

// CameraErrorKind classifies why the decoder could not open the camera.
type CameraErrorKind string

const (
	CameraPermission CameraErrorKind = "permission_denied"
	CameraNotFound   CameraErrorKind = "not_found"
	CameraBusy       CameraErrorKind = "busy"
	CameraGeneric    CameraErrorKind = "generic"
)

type CameraError struct {
	Kind CameraErrorKind
	Err  error
}

func (e CameraError) Error() string {
	kind := e.Kind
	if kind == "" {
		kind = CameraGeneric
	}
	if e.Err == nil {
		return fmt.Sprintf("camera open failed (%s)", kind)
	}
	return fmt.Sprintf("camera open failed (%s): %v", kind, e.Err)
}

func (e CameraError) Unwrap() error { return e.Err }

// StopError wraps a decoder stop failure. It is logged, never shown.
type StopError struct {
	SessionID string
	Err       error
}

func (e StopError) Error() string {
	return fmt.Sprintf("stop scanner session %s: %v", e.SessionID, e.Err)
}

func (e StopError) Unwrap() error { return e.Err }

func IsLoad(err error) bool {
	var target LoadError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsScannerUnavailable(err error) bool {
	var target ScannerUnavailableError
	return errors.As(err, &target)
}

// CameraKind returns the camera failure kind carried by err, if any.
func CameraKind(err error) (CameraErrorKind, bool) {
	var target CameraError
	if !errors.As(err, &target) {
		return "", false
	}
	if target.Kind == "" {
		return CameraGeneric, true
	}
	return target.Kind, true
}
