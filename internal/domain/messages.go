package domain

import (
	"errors"
	"time"
)

// Message is a transient banner line shown to the kiosk user.
type Message struct {
	Text    string        `json:"text"`
	Timeout time.Duration `json:"-"`
}

// TimeoutMS is the auto-dismiss delay as exposed to the page.
func (m Message) TimeoutMS() int64 {
	return m.Timeout.Milliseconds()
}

const DefaultMessageTimeout = 3 * time.Second

const (
	CapabilityDecoder = "decoder"
	CapabilityCamera  = "camera"
)

var (
	MsgLoadFailed        = Message{Text: "❌ Failed to load flight data, please check that database.json is present next to the page", Timeout: 6 * time.Second}
	MsgNotFound          = Message{Text: "No flight found for this date.", Timeout: 4 * time.Second}
	MsgDecoderMissing    = Message{Text: "⚠️ QR scanning library failed to load, please refresh the page", Timeout: 4 * time.Second}
	MsgCameraUnsupported = Message{Text: "❌ This browser does not support the camera, please use Chrome, Edge or Safari", Timeout: 5 * time.Second}
	MsgCameraPermission  = Message{Text: "❌ Please allow the browser to access the camera", Timeout: 5 * time.Second}
	MsgCameraNotFound    = Message{Text: "❌ No camera device detected", Timeout: 5 * time.Second}
	MsgCameraBusy        = Message{Text: "❌ The camera is in use by another application", Timeout: 5 * time.Second}
	MsgCameraGeneric     = Message{Text: "❌ Unable to start the camera", Timeout: 5 * time.Second}
	MsgGenericFailure    = Message{Text: "❌ Something went wrong, please try again", Timeout: DefaultMessageTimeout}

	PromptMissingInput = "Please enter a flight number and a date"
)

// ScanSuccessMessage confirms a decoded QR code.
func ScanSuccessMessage(text string) Message {
	return Message{Text: "✅ QR code recognised: " + text, Timeout: 2500 * time.Millisecond}
}

// MessageFor converts any error produced by lookup or scanning into the banner line for it.
func MessageFor(err error) Message {
	if err == nil {
		return Message{}
	}
	switch {
	case IsLoad(err):
		return MsgLoadFailed
	case IsNotFound(err):
		return MsgNotFound
	}
	var su ScannerUnavailableError
	if errors.As(err, &su) {
		if su.Capability == CapabilityCamera {
			return MsgCameraUnsupported
		}
		return MsgDecoderMissing
	}
	if kind, ok := CameraKind(err); ok {
		switch kind {
		case CameraPermission:
			return MsgCameraPermission
		case CameraNotFound:
			return MsgCameraNotFound
		case CameraBusy:
			return MsgCameraBusy
		default:
			return MsgCameraGeneric
		}
	}
	return MsgGenericFailure
}
