package models

// FlightInfo is the schedule part of a dataset entry.
type FlightInfo struct {
	IATA             string `json:"iata"`
	Date             string `json:"date"`      // YYYY-MM-DD
	Departure        string `json:"departure"`
	Arrival          string `json:"arrival"`
	Scheduled        string `json:"scheduled"` // HH:MM
	ArrivalScheduled string `json:"arrival_scheduled"`
}

// FlightRecord is one entry of the flight dataset.
type FlightRecord struct {
	Flight       FlightInfo `json:"flight"`
	Baggage      string     `json:"baggage"`
	BaggageClaim string     `json:"baggage_claim"`
}

// Dataset mirrors the database.json document.
type Dataset struct {
	Data []FlightRecord `json:"data"`
}

// DisplayStatus is derived per query and never stored.
type DisplayStatus string

const (
	StatusArrived   DisplayStatus = "ARRIVED"
	StatusScheduled DisplayStatus = "SCHEDULED"
)

// Label is the text shown in the result panel.
func (s DisplayStatus) Label() string {
	switch s {
	case StatusArrived:
		return "Arrived"
	case StatusScheduled:
		return "Scheduled"
	default:
		return string(s)
	}
}

// DisplayRecord is what the result panels render.
type DisplayRecord struct {
	Flight       FlightInfo    `json:"flight"`
	Status       DisplayStatus `json:"status"`
	StatusLabel  string        `json:"status_label"`
	Baggage      string        `json:"baggage"`
	BaggageClaim string        `json:"baggage_claim"`
}

func NewDisplayRecord(rec FlightRecord, status DisplayStatus) DisplayRecord {
	return DisplayRecord{
		Flight:       rec.Flight,
		Status:       status,
		StatusLabel:  status.Label(),
		Baggage:      rec.Baggage,
		BaggageClaim: rec.BaggageClaim,
	}
}
