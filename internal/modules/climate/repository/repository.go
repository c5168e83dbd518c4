package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"

	"climate-server/internal/db"
	"climate-server/internal/modules/climate/types"
)

//go:embed sql/get-precipitation.sql
var getPrecipitationSQL string

//go:embed sql/get-stations.sql
var getStationsSQL string

//go:embed sql/get-temperatures.sql
var getTemperaturesSQL string

//go:embed sql/get-temperature-summary.sql
var getTemperatureSummarySQL string

//go:embed sql/get-temperature-summary-range.sql
var getTemperatureSummaryRangeSQL string

//go:embed sql/get-most-active-station.sql
var getMostActiveStationSQL string

//go:embed sql/get-latest-date.sql
var getLatestDateSQL string

// ErrStoreUnavailable is returned when no connection could be taken from the pool.
var ErrStoreUnavailable = errors.New("store unavailable")

// ClimateRepository is the read-only data access for stations and measurements.
// Date arguments are passed through untouched and compared lexically.
type ClimateRepository interface {
	GetPrecipitation(ctx context.Context) ([]types.Precipitation, error)
	GetStations(ctx context.Context) ([]string, error)
	GetTemperatures(ctx context.Context, station string, since string) ([]types.TemperatureObservation, error)
	GetTemperatureSummary(ctx context.Context, start string) (types.TemperatureSummary, error)
	GetTemperatureSummaryRange(ctx context.Context, start string, end string) (types.TemperatureSummary, error)
	// GetMostActiveStation returns "" when there are no measurements.
	GetMostActiveStation(ctx context.Context) (string, error)
	// GetLatestDate returns "" when there are no measurements.
	GetLatestDate(ctx context.Context) (string, error)
}

type queries struct {
	precipitation           string
	stations                string
	temperatures            string
	temperatureSummary      string
	temperatureSummaryRange string
	mostActiveStation       string
	latestDate              string
}

type repositoryImpl struct {
	db *sql.DB
	q  queries
}

// NewRepository binds the embedded queries to driverName's placeholder style.
func NewRepository(pool *sql.DB, driverName string) ClimateRepository {
	return &repositoryImpl{
		db: pool,
		q: queries{
			precipitation:           db.Rebind(driverName, getPrecipitationSQL),
			stations:                db.Rebind(driverName, getStationsSQL),
			temperatures:            db.Rebind(driverName, getTemperaturesSQL),
			temperatureSummary:      db.Rebind(driverName, getTemperatureSummarySQL),
			temperatureSummaryRange: db.Rebind(driverName, getTemperatureSummaryRangeSQL),
			mostActiveStation:       db.Rebind(driverName, getMostActiveStationSQL),
			latestDate:              db.Rebind(driverName, getLatestDateSQL),
		},
	}
}

// acquire takes a dedicated connection from the pool for one query. Callers
// must release it on every path.
func (r *repositoryImpl) acquire(ctx context.Context) (*sql.Conn, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStoreUnavailable, err)
	}
	return conn, nil
}

func release(conn *sql.Conn) {
	if err := conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		slog.Error("release connection", "error", err)
	}
}

func closeRows(rows *sql.Rows, what string) {
	if err := rows.Close(); err != nil {
		slog.Error("close "+what+" rows", "error", err)
	}
}

func (r *repositoryImpl) GetPrecipitation(ctx context.Context) ([]types.Precipitation, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release(conn)

	rows, err := conn.QueryContext(ctx, r.q.precipitation)
	if err != nil {
		return nil, fmt.Errorf("query precipitation: %w", err)
	}
	defer closeRows(rows, "precipitation")

	out := make([]types.Precipitation, 0)
	for rows.Next() {
		var date string
		var prcp sql.NullFloat64
		if err := rows.Scan(&date, &prcp); err != nil {
			return nil, fmt.Errorf("scan precipitation: %w", err)
		}
		out = append(out, types.Precipitation{Date: date, Prcp: floatPtr(prcp)})
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetStations(ctx context.Context) ([]string, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release(conn)

	rows, err := conn.QueryContext(ctx, r.q.stations)
	if err != nil {
		return nil, fmt.Errorf("query stations: %w", err)
	}
	defer closeRows(rows, "stations")

	out := make([]string, 0)
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		out = append(out, code)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatures(ctx context.Context, station string, since string) ([]types.TemperatureObservation, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release(conn)

	rows, err := conn.QueryContext(ctx, r.q.temperatures, station, since)
	if err != nil {
		return nil, fmt.Errorf("query temperatures: %w", err)
	}
	defer closeRows(rows, "temperatures")

	out := make([]types.TemperatureObservation, 0)
	for rows.Next() {
		var date string
		var tobs sql.NullFloat64
		if err := rows.Scan(&date, &tobs); err != nil {
			return nil, fmt.Errorf("scan temperature: %w", err)
		}
		out = append(out, types.TemperatureObservation{Date: date, Temperature: floatPtr(tobs)})
	}
	return out, rows.Err()
}

func (r *repositoryImpl) GetTemperatureSummary(ctx context.Context, start string) (types.TemperatureSummary, error) {
	return r.summary(ctx, r.q.temperatureSummary, start)
}

func (r *repositoryImpl) GetTemperatureSummaryRange(ctx context.Context, start string, end string) (types.TemperatureSummary, error) {
	return r.summary(ctx, r.q.temperatureSummaryRange, start, end)
}

// summary runs an aggregate query. Aggregates always produce exactly one row;
// over zero matching rows every column is NULL.
func (r *repositoryImpl) summary(ctx context.Context, query string, args ...any) (types.TemperatureSummary, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return types.TemperatureSummary{}, err
	}
	defer release(conn)

	var maxT, minT, avgT sql.NullFloat64
	if err := conn.QueryRowContext(ctx, query, args...).Scan(&maxT, &minT, &avgT); err != nil {
		return types.TemperatureSummary{}, fmt.Errorf("query temperature summary: %w", err)
	}
	return types.TemperatureSummary{
		Maximum: floatPtr(maxT),
		Minimum: floatPtr(minT),
		Average: floatPtr(avgT),
	}, nil
}

func (r *repositoryImpl) GetMostActiveStation(ctx context.Context) (string, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release(conn)

	var station string
	err = conn.QueryRowContext(ctx, r.q.mostActiveStation).Scan(&station)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("query most active station: %w", err)
	}
	return station, nil
}

func (r *repositoryImpl) GetLatestDate(ctx context.Context) (string, error) {
	conn, err := r.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer release(conn)

	var latest sql.NullString
	if err := conn.QueryRowContext(ctx, r.q.latestDate).Scan(&latest); err != nil {
		return "", fmt.Errorf("query latest date: %w", err)
	}
	return latest.String, nil
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
