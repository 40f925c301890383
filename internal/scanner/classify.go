package scanner

import (
	"errors"
	"fmt"
	"os"

	"flightdesk/internal/domain"
)

// OpenError is what a decoder reports when the camera cannot be opened.
// Name carries the media error name (NotAllowedError, NotFoundError, ...).
type OpenError struct {
	Name string
	Err  error
}

func (e *OpenError) Error() string {
	if e.Err == nil {
		return e.Name
	}
	return fmt.Sprintf("%s: %v", e.Name, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// Classify maps a decoder open failure onto a camera error kind.
func Classify(err error) domain.CameraErrorKind {
	var oe *OpenError
	if errors.As(err, &oe) {
		switch oe.Name {
		case "NotAllowedError", "PermissionDeniedError":
			return domain.CameraPermission
		case "NotFoundError", "DevicesNotFoundError":
			return domain.CameraNotFound
		case "NotReadableError", "TrackStartError":
			return domain.CameraBusy
		}
	}
	switch {
	case errors.Is(err, os.ErrPermission):
		return domain.CameraPermission
	case errors.Is(err, os.ErrNotExist):
		return domain.CameraNotFound
	}
	return domain.CameraGeneric
}
