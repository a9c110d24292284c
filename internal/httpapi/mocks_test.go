package httpapi_test

import (
	"context"

	"staffing/internal/domain"
	"staffing/internal/service"
)

type mockStaffingService struct {
	availabilityFn    func(ctx context.Context, request service.AvailabilityRequest) ([]domain.PersonAvailability, error)
	forecastFn        func(ctx context.Context, weeks *int) ([]domain.CapacityForecastWeek, error)
	forecastSummaryFn func(ctx context.Context, weeks *int) (domain.ForecastSummary, error)
	importFn          func(ctx context.Context, raw []byte) error
	exportFn          func(ctx context.Context) ([]byte, error)
}

func (m *mockStaffingService) Availability(ctx context.Context, request service.AvailabilityRequest) ([]domain.PersonAvailability, error) {
	if m.availabilityFn != nil {
		return m.availabilityFn(ctx, request)
	}
	return []domain.PersonAvailability{}, nil
}

func (m *mockStaffingService) Forecast(ctx context.Context, weeks *int) ([]domain.CapacityForecastWeek, error) {
	if m.forecastFn != nil {
		return m.forecastFn(ctx, weeks)
	}
	return []domain.CapacityForecastWeek{}, nil
}

func (m *mockStaffingService) ForecastSummary(ctx context.Context, weeks *int) (domain.ForecastSummary, error) {
	if m.forecastSummaryFn != nil {
		return m.forecastSummaryFn(ctx, weeks)
	}
	return domain.ForecastSummary{}, nil
}

func (m *mockStaffingService) ImportSnapshot(ctx context.Context, raw []byte) error {
	if m.importFn != nil {
		return m.importFn(ctx, raw)
	}
	return nil
}

func (m *mockStaffingService) ExportSnapshot(ctx context.Context) ([]byte, error) {
	if m.exportFn != nil {
		return m.exportFn(ctx)
	}
	return []byte(`{"people":[]}`), nil
}
