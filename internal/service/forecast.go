package service

import (
	"context"
	"fmt"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

// Forecast returns one entry per week starting with the current week. A nil
// weeks value uses the configured default horizon.
func (s *Service) Forecast(ctx context.Context, weeks *int) (result []domain.CapacityForecastWeek, err error) {
	started := s.now()
	defer func() {
		s.instrument("forecast.compute", started, err, map[string]string{"weeks": itoa(len(result))})
	}()

	horizon, err := s.resolveWeeks(weeks)
	if err != nil {
		return nil, err
	}
	return s.forecast(ctx, horizon)
}

func (s *Service) ForecastSummary(ctx context.Context, weeks *int) (summary domain.ForecastSummary, err error) {
	started := s.now()
	defer func() {
		s.instrument("forecast.summary", started, err, nil)
	}()

	horizon, err := s.resolveWeeks(weeks)
	if err != nil {
		return domain.ForecastSummary{}, err
	}
	forecast, err := s.forecast(ctx, horizon)
	if err != nil {
		return domain.ForecastSummary{}, err
	}
	return domain.SummarizeForecast(forecast), nil
}

func (s *Service) forecast(ctx context.Context, horizon int) ([]domain.CapacityForecastWeek, error) {
	now := s.now()
	windows := domain.ForecastWindows(now, horizon)
	if len(windows) == 0 {
		return []domain.CapacityForecastWeek{}, nil
	}

	people, err := s.repo.ListPeople(ctx, ports.PeopleFilter{
		Statuses:           []string{domain.PersonStatusActive},
		AllocationStatuses: []string{domain.AllocationStatusConfirmed},
		AllocationsFrom:    domain.FormatDate(windows[0].Start),
		AllocationsTo:      domain.FormatDate(windows[len(windows)-1].End),
	})
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}

	result, err := domain.ForecastCapacity(ctx, people, horizon, now)
	if err != nil {
		return nil, err
	}
	s.log.Debugw("forecast computed", map[string]any{
		"anchor": domain.FormatDate(windows[0].Start),
		"weeks":  horizon,
		"people": len(people),
	})
	return result, nil
}
