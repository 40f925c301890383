package services

import (
	"flightdesk/internal/domain"
	"flightdesk/internal/utils"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	minQRSize = 64
	maxQRSize = 1024
)

// QRService encodes flight codes as QR images the kiosk scanner can read back.
type QRService struct{}

// FlightQR encodes the normalized flight code as a PNG of size x size pixels.
func (QRService) FlightQR(code string, size int) ([]byte, error) {
	code = utils.NormalizeFlightCode(code)
	if code == "" {
		return nil, domain.ValidationError{Field: "code", Msg: "flight code is required"}
	}
	if size < minQRSize {
		size = minQRSize
	}
	if size > maxQRSize {
		size = maxQRSize
	}
	return qrcode.Encode(code, qrcode.Medium, size)
}
