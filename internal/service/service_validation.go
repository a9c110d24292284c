package service

import (
	"fmt"
	"strings"
	"time"

	"staffing/internal/domain"
)

func parseOptionalDate(field, value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	parsed, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %v: %w", field, err, domain.ErrValidation)
	}
	return parsed, nil
}

func normalizeIDs(ids []string) []string {
	normalized := make([]string, 0, len(ids))
	seen := map[string]struct{}{}
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, exists := seen[id]; exists {
			continue
		}
		seen[id] = struct{}{}
		normalized = append(normalized, id)
	}
	return normalized
}

// resolveWeeks applies the default horizon and rejects values outside
// [0, MaxForecastWeeks].
func (s *Service) resolveWeeks(weeks *int) (int, error) {
	if weeks == nil {
		return s.engine.DefaultForecastWeeks, nil
	}
	if *weeks < 0 || *weeks > s.engine.MaxForecastWeeks {
		return 0, fmt.Errorf("weeks must be within [0, %d], got %d: %w", s.engine.MaxForecastWeeks, *weeks, domain.ErrValidation)
	}
	return *weeks, nil
}
