package service

import (
	"context"
	"fmt"
	"strings"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

// AvailabilityRequest carries the raw filters of an availability query.
// Dates use YYYY-MM-DD; empty dates fall back to the default window.
type AvailabilityRequest struct {
	StartDate  string
	EndDate    string
	SkillIDs   []string
	RoleID     string
	PracticeID string
	MinHours   *int
}

func (s *Service) Availability(ctx context.Context, request AvailabilityRequest) (result []domain.PersonAvailability, err error) {
	started := s.now()
	defer func() {
		s.instrument("availability.resolve", started, err, map[string]string{"people": itoa(len(result))})
	}()

	query, err := s.availabilityQuery(request)
	if err != nil {
		return nil, err
	}

	window := query.Window(started)
	people, err := s.repo.ListPeople(ctx, ports.PeopleFilter{
		Statuses:           []string{domain.PersonStatusActive},
		AllocationStatuses: []string{domain.AllocationStatusConfirmed},
		AllocationsFrom:    domain.FormatDate(window.Start),
		AllocationsTo:      domain.FormatDate(window.End),
	})
	if err != nil {
		return nil, fmt.Errorf("load people: %w", err)
	}

	result = domain.ResolveAvailability(people, query, started)
	s.log.Debugw("availability resolved", map[string]any{
		"start":   domain.FormatDate(window.Start),
		"end":     domain.FormatDate(window.End),
		"fetched": len(people),
		"matched": len(result),
	})
	return result, nil
}

func (s *Service) availabilityQuery(request AvailabilityRequest) (domain.AvailabilityQuery, error) {
	start, err := parseOptionalDate("start date", request.StartDate)
	if err != nil {
		return domain.AvailabilityQuery{}, err
	}
	end, err := parseOptionalDate("end date", request.EndDate)
	if err != nil {
		return domain.AvailabilityQuery{}, err
	}
	if start.IsZero() {
		start = s.now()
	}
	if end.IsZero() {
		end = start.AddDate(0, 0, s.engine.AvailabilityWindowDays)
	}

	query := domain.AvailabilityQuery{
		Start:      start,
		End:        end,
		RoleID:     strings.TrimSpace(request.RoleID),
		PracticeID: strings.TrimSpace(request.PracticeID),
		SkillIDs:   normalizeIDs(request.SkillIDs),
		MinHours:   request.MinHours,
	}
	window := query.Window(start)
	if window.End.Before(window.Start) {
		return domain.AvailabilityQuery{}, fmt.Errorf("end date before start date: %w", domain.ErrValidation)
	}
	if query.MinHours != nil && *query.MinHours < 0 {
		return domain.AvailabilityQuery{}, fmt.Errorf("min hours must not be negative: %w", domain.ErrValidation)
	}
	return query, nil
}
