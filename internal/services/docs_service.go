package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"flightdesk/internal/domain/models"
	"flightdesk/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// DocsService renders a printable flight slip for a looked-up flight.
type DocsService struct {
	Lookup    FlightLookupService
	QR        QRService
	RequestID string
	// Loader replaces the lookup in tests.
	Loader func(ctx context.Context, flightNumber, date string) (models.DisplayRecord, error)
	Now    func() time.Time
}

// GenerateSlip returns the PDF bytes and a download filename.
func (s DocsService) GenerateSlip(ctx context.Context, flightNumber, date string) ([]byte, string, error) {
	rec, err := s.load(ctx, flightNumber, date)
	if err != nil {
		return nil, "", err
	}
	utils.LogEvent(s.RequestID, "docs", "generate_slip", fmt.Sprintf("flight=%s date=%s", rec.Flight.IATA, rec.Flight.Date))

	qrPNG, err := s.QR.FlightQR(rec.Flight.IATA, 256)
	if err != nil {
		return nil, "", err
	}
	return buildFlightSlipPDF(rec, qrPNG, s.now())
}

func (s DocsService) load(ctx context.Context, flightNumber, date string) (models.DisplayRecord, error) {
	if s.Loader != nil {
		return s.Loader(ctx, flightNumber, date)
	}
	lookup := s.Lookup
	if lookup.RequestID == "" {
		lookup.RequestID = s.RequestID
	}
	return lookup.Lookup(ctx, flightNumber, date)
}

func (s DocsService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func buildFlightSlipPDF(d models.DisplayRecord, qrPNG []byte, printedAt time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A5", "")
	pdf.SetTitle("Flight Slip", false)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "FLIGHT SLIP")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Flight")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	lines := []string{
		fmt.Sprintf("Flight number     : %s", safe(d.Flight.IATA, "-")),
		fmt.Sprintf("Date              : %s", safe(d.Flight.Date, "-")),
		fmt.Sprintf("From              : %s", safe(d.Flight.Departure, "-")),
		fmt.Sprintf("To                : %s", safe(d.Flight.Arrival, "-")),
		fmt.Sprintf("Scheduled depart. : %s", safe(timeHM(d.Flight.Scheduled), "-")),
		fmt.Sprintf("Scheduled arrival : %s", safe(timeHM(d.Flight.ArrivalScheduled), "-")),
		fmt.Sprintf("Status            : %s", safe(d.StatusLabel, string(d.Status))),
	}
	for _, s := range lines {
		pdf.Cell(0, 6, s)
		pdf.Ln(6)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Baggage")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 6, fmt.Sprintf("Baggage status    : %s", safe(d.Baggage, "-")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Baggage claim     : %s", safe(d.BaggageClaim, "-")))
	pdf.Ln(10)

	if len(qrPNG) > 0 {
		name := "qr-" + safeFilenamePart(d.Flight.IATA)
		opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(qrPNG))
		pdf.ImageOptions(name, pdf.GetX(), pdf.GetY(), 40, 40, true, opts, 0, "")
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Scan the code at a kiosk to look this flight up again. Status printed at "+utils.FormatDateTime(printedAt)+".", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("FLIGHT_%s_%s.pdf", safeFilenamePart(d.Flight.IATA), safeFilenamePart(d.Flight.Date))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func timeHM(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 5 {
		return v[:5]
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
