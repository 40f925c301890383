package services

import (
	"context"
	"fmt"
	"time"

	"flightdesk/internal/domain"
	"flightdesk/internal/domain/models"
	"flightdesk/internal/repositories"
	"flightdesk/internal/utils"
)

// FlightLookupService finds one flight by number and date and derives its display status.
// The dataset is loaded again on every call.
type FlightLookupService struct {
	Source    repositories.DatasetSource
	Now       func() time.Time
	RequestID string
}

// Lookup returns the first record in dataset order whose date equals date and whose
// code, with or without the carrier letters, equals the normalized flight number.
// Callers reject empty input before calling.
func (s FlightLookupService) Lookup(ctx context.Context, flightNumber, date string) (models.DisplayRecord, error) {
	if s.Source == nil {
		return models.DisplayRecord{}, domain.LoadError{Err: fmt.Errorf("no dataset source configured")}
	}

	ds, err := s.Source.Load(ctx)
	if err != nil {
		utils.LogError(s.RequestID, "lookup", "load_dataset", err)
		return models.DisplayRecord{}, err
	}

	input := utils.NormalizeFlightCode(flightNumber)
	rec, ok := FindFlight(ds, input, date)
	if !ok {
		utils.LogEvent(s.RequestID, "lookup", "not_found", fmt.Sprintf("flight=%s date=%s", input, date))
		return models.DisplayRecord{}, domain.NotFoundError{Resource: fmt.Sprintf("flight %s on %s", input, date)}
	}

	status := DeriveStatus(rec, s.now())
	utils.LogEvent(s.RequestID, "lookup", "found", fmt.Sprintf("flight=%s date=%s status=%s", rec.Flight.IATA, date, status))
	return models.NewDisplayRecord(rec, status), nil
}

func (s FlightLookupService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// FindFlight applies the matching rule to an already normalized input.
func FindFlight(ds models.Dataset, normalizedInput, date string) (models.FlightRecord, bool) {
	for _, rec := range ds.Data {
		if rec.Flight.Date != date {
			continue
		}
		iata := utils.NormalizeFlightCode(rec.Flight.IATA)
		if iata == normalizedInput || utils.StripCarrierPrefix(iata) == normalizedInput {
			return rec, true
		}
	}
	return models.FlightRecord{}, false
}

// DeriveStatus is ARRIVED when the flight date is before today, or is today and the
// scheduled time is not after now. Today and the scheduled instant use now's location.
func DeriveStatus(rec models.FlightRecord, now time.Time) models.DisplayStatus {
	today := utils.FormatDate(now)
	recDate := rec.Flight.Date

	if recDate < today {
		return models.StatusArrived
	}
	if recDate == today {
		scheduled, err := utils.CombineDateHM(recDate, rec.Flight.Scheduled, now.Location())
		if err == nil && !scheduled.After(now) {
			return models.StatusArrived
		}
	}
	return models.StatusScheduled
}
