package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"climate-server/internal/modules/climate/types"
)

type mockRepo struct {
	temperatures    []types.TemperatureObservation
	summary         types.TemperatureSummary
	mostActive      string
	latest          string
	err             error
	gotStation      string
	gotSince        string
	temperatureCall int
}

func (m *mockRepo) GetPrecipitation(context.Context) ([]types.Precipitation, error) {
	return []types.Precipitation{}, m.err
}

func (m *mockRepo) GetStations(context.Context) ([]string, error) {
	return []string{}, m.err
}

func (m *mockRepo) GetTemperatures(_ context.Context, station string, since string) ([]types.TemperatureObservation, error) {
	m.temperatureCall++
	m.gotStation, m.gotSince = station, since
	return m.temperatures, m.err
}

func (m *mockRepo) GetTemperatureSummary(context.Context, string) (types.TemperatureSummary, error) {
	return m.summary, m.err
}

func (m *mockRepo) GetTemperatureSummaryRange(context.Context, string, string) (types.TemperatureSummary, error) {
	return m.summary, m.err
}

func (m *mockRepo) GetMostActiveStation(context.Context) (string, error) {
	return m.mostActive, m.err
}

func (m *mockRepo) GetLatestDate(context.Context) (string, error) {
	return m.latest, m.err
}

func TestRecentWindow_staticDefaults(t *testing.T) {
	svc := NewService(&mockRepo{}, Options{})

	w, ok, err := svc.RecentWindow(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.Window{Station: "USC00519281", Since: "2016-08-23"}, w)
}

func TestRecentWindow_staticOverrides(t *testing.T) {
	svc := NewService(&mockRepo{}, Options{Window: WindowStatic, Station: "USC00513117", Since: "2015-01-01"})

	w, ok, err := svc.RecentWindow(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, types.Window{Station: "USC00513117", Since: "2015-01-01"}, w)
}

func TestRecentWindow_dynamic(t *testing.T) {
	tests := []struct {
		name   string
		latest string
		since  string
	}{
		{name: "plain date", latest: "2017-08-23", since: "2016-08-23"},
		{name: "timestamp suffix", latest: "2017-08-23T00:00:00Z", since: "2016-08-23"},
		{name: "leap day", latest: "2016-02-29", since: "2015-03-01"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&mockRepo{mostActive: "USC00519397", latest: tt.latest}, Options{Window: WindowDynamic})

			w, ok, err := svc.RecentWindow(context.Background())
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, types.Window{Station: "USC00519397", Since: tt.since}, w)
		})
	}
}

func TestRecentWindow_dynamicBadDate(t *testing.T) {
	svc := NewService(&mockRepo{mostActive: "USC00519397", latest: "yesterday"}, Options{Window: WindowDynamic})

	_, _, err := svc.RecentWindow(context.Background())
	assert.Error(t, err)
}

func TestRecentTemperatures_usesWindow(t *testing.T) {
	repo := &mockRepo{temperatures: []types.TemperatureObservation{{Date: "2016-08-23"}}}
	svc := NewService(repo, Options{})

	got, err := svc.RecentTemperatures(context.Background())
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, MostActiveStation, repo.gotStation)
	assert.Equal(t, MostRecentYearStart, repo.gotSince)
}

func TestRecentTemperatures_dynamicEmptyStore(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, Options{Window: WindowDynamic})

	got, err := svc.RecentTemperatures(context.Background())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, repo.temperatureCall)
}

func TestRecentTemperatures_error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&mockRepo{err: boom}, Options{Window: WindowDynamic})

	_, err := svc.RecentTemperatures(context.Background())
	assert.ErrorIs(t, err, boom)
}

func TestSummary_oneElement(t *testing.T) {
	v := 77.0
	repo := &mockRepo{summary: types.TemperatureSummary{Maximum: &v, Minimum: &v, Average: &v}}
	svc := NewService(repo, Options{})

	got, err := svc.Summary(context.Background(), "2016-08-23")
	require.NoError(t, err)
	assert.Equal(t, []types.TemperatureSummary{repo.summary}, got)

	got, err = svc.SummaryRange(context.Background(), "2016-08-23", "2016-12-31")
	require.NoError(t, err)
	assert.Equal(t, []types.TemperatureSummary{repo.summary}, got)
}

func TestSummary_nullWhenEmpty(t *testing.T) {
	svc := NewService(&mockRepo{}, Options{})

	got, err := svc.Summary(context.Background(), "2099-01-01")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].Maximum)
}

func TestSummary_error(t *testing.T) {
	boom := errors.New("boom")
	svc := NewService(&mockRepo{err: boom}, Options{})

	_, err := svc.Summary(context.Background(), "2016-08-23")
	assert.ErrorIs(t, err, boom)
	_, err = svc.SummaryRange(context.Background(), "2016-08-23", "2017-01-01")
	assert.ErrorIs(t, err, boom)
}
