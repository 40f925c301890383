package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"flightdesk/internal/db"
	"flightdesk/internal/domain"
	"flightdesk/internal/domain/models"
)

const flightsTable = "flights"

// FlightRepository serves the dataset from a MySQL flights table.
// Row order (by id) is the dataset order used for first-match selection.
// Older schemas without the schedule or baggage columns are tolerated.
type FlightRepository struct {
	DB *sql.DB
}

func (r FlightRepository) Name() string { return "mysql:" + flightsTable }

func (r FlightRepository) Load(ctx context.Context) (models.Dataset, error) {
	if r.DB == nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: fmt.Errorf("database not connected")}
	}
	if !db.HasTable(ctx, r.DB, flightsTable) {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: fmt.Errorf("table %s missing", flightsTable)}
	}

	rows, err := r.DB.QueryContext(ctx, r.selectQuery(ctx))
	if err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}
	defer rows.Close()

	ds := models.Dataset{Data: []models.FlightRecord{}}
	for rows.Next() {
		var rec models.FlightRecord
		if err := rows.Scan(
			&rec.Flight.IATA,
			&rec.Flight.Date,
			&rec.Flight.Departure,
			&rec.Flight.Arrival,
			&rec.Flight.Scheduled,
			&rec.Flight.ArrivalScheduled,
			&rec.Baggage,
			&rec.BaggageClaim,
		); err != nil {
			return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
		}
		ds.Data = append(ds.Data, rec)
	}
	if err := rows.Err(); err != nil {
		return models.Dataset{}, domain.LoadError{Source: r.Name(), Err: err}
	}
	return ds, nil
}

// selectQuery formats flight_date in SQL so the driver's parseTime setting
// does not change the string compared against the requested date.
func (r FlightRepository) selectQuery(ctx context.Context) string {
	cols := []string{
		"iata",
		"DATE_FORMAT(flight_date, '%Y-%m-%d')",
		"COALESCE(departure,'')",
		"COALESCE(arrival,'')",
		db.OptionalString(ctx, r.DB, flightsTable, "scheduled"),
		db.OptionalString(ctx, r.DB, flightsTable, "arrival_scheduled"),
		db.OptionalString(ctx, r.DB, flightsTable, "baggage"),
		db.OptionalString(ctx, r.DB, flightsTable, "baggage_claim"),
	}
	return `SELECT ` + strings.Join(cols, ", ") + ` FROM ` + flightsTable + ` ORDER BY id`
}
