package service

import (
	"context"
	"fmt"
	"time"

	"climate-server/internal/modules/climate/repository"
	"climate-server/internal/modules/climate/types"
)

const (
	// MostActiveStation is the station with the most measurement rows in the
	// shipped hawaii dataset.
	MostActiveStation = "USC00519281"
	// MostRecentYearStart is one year before the last date in that dataset.
	MostRecentYearStart = "2016-08-23"

	WindowStatic  = "static"
	WindowDynamic = "dynamic"

	dateLayout = "2006-01-02"
)

type Options struct {
	// Window is WindowStatic or WindowDynamic. Empty means static.
	Window string
	// Station and Since override the static constants when set.
	Station string
	Since   string
}

type Service struct {
	repository repository.ClimateRepository
	opts       Options
}

func NewService(repository repository.ClimateRepository, opts Options) *Service {
	return &Service{repository: repository, opts: opts}
}

func (s *Service) Precipitation(ctx context.Context) ([]types.Precipitation, error) {
	return s.repository.GetPrecipitation(ctx)
}

func (s *Service) Stations(ctx context.Context) ([]string, error) {
	return s.repository.GetStations(ctx)
}

// RecentWindow resolves the station and cutoff used by RecentTemperatures.
// ok is false when the dynamic window has nothing to look at.
func (s *Service) RecentWindow(ctx context.Context) (types.Window, bool, error) {
	if s.opts.Window != WindowDynamic {
		w := types.Window{Station: MostActiveStation, Since: MostRecentYearStart}
		if s.opts.Station != "" {
			w.Station = s.opts.Station
		}
		if s.opts.Since != "" {
			w.Since = s.opts.Since
		}
		return w, true, nil
	}

	station, err := s.repository.GetMostActiveStation(ctx)
	if err != nil {
		return types.Window{}, false, err
	}
	latest, err := s.repository.GetLatestDate(ctx)
	if err != nil {
		return types.Window{}, false, err
	}
	if station == "" || latest == "" {
		return types.Window{}, false, nil
	}

	// some drivers render DATE columns with a time suffix
	if len(latest) > len(dateLayout) {
		latest = latest[:len(dateLayout)]
	}
	last, err := time.Parse(dateLayout, latest)
	if err != nil {
		return types.Window{}, false, fmt.Errorf("parse latest date %q: %w", latest, err)
	}
	return types.Window{
		Station: station,
		Since:   last.AddDate(-1, 0, 0).Format(dateLayout),
	}, true, nil
}

func (s *Service) RecentTemperatures(ctx context.Context) ([]types.TemperatureObservation, error) {
	w, ok, err := s.RecentWindow(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []types.TemperatureObservation{}, nil
	}
	return s.repository.GetTemperatures(ctx, w.Station, w.Since)
}

// Summary returns MAX/MIN/AVG of tobs from start onwards as a one-element list.
func (s *Service) Summary(ctx context.Context, start string) ([]types.TemperatureSummary, error) {
	sum, err := s.repository.GetTemperatureSummary(ctx, start)
	if err != nil {
		return nil, err
	}
	return []types.TemperatureSummary{sum}, nil
}

// SummaryRange is Summary bounded by end, inclusive.
func (s *Service) SummaryRange(ctx context.Context, start, end string) ([]types.TemperatureSummary, error) {
	sum, err := s.repository.GetTemperatureSummaryRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return []types.TemperatureSummary{sum}, nil
}
