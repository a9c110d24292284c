package domain

import (
	"sort"
	"strings"
	"time"
)

// Window resolves the effective availability window. A missing start
// defaults to now, a missing end to DefaultAvailabilityWindowDays after start.
func (q AvailabilityQuery) Window(now time.Time) Interval {
	start := q.Start
	if start.IsZero() {
		start = now
	}
	end := q.End
	if end.IsZero() {
		end = dateOnly(start).AddDate(0, 0, DefaultAvailabilityWindowDays)
	}
	return Interval{Start: dateOnly(start), End: dateOnly(end)}
}

// ResolveAvailability returns one record per active person matching the
// query, ordered by available hours descending. Ties keep input order.
func ResolveAvailability(people []Person, query AvailabilityQuery, now time.Time) []PersonAvailability {
	window := query.Window(now)
	filter := newPersonFilter(query)

	result := make([]PersonAvailability, 0, len(people))
	for _, person := range people {
		if !person.IsActive() || !filter.matches(person) {
			continue
		}

		entry := availabilityFor(person, window)
		if query.MinHours != nil && entry.AvailableHours < float64(*query.MinHours) {
			continue
		}
		result = append(result, entry)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].AvailableHours > result[j].AvailableHours
	})
	return result
}

func availabilityFor(person Person, window Interval) PersonAvailability {
	capacity := PersonCapacity(person, window.Start, window.End)
	allocated, slices := AllocatedHours(person, window)
	available := availableHours(capacity, allocated)

	entry := PersonAvailability{
		PersonID:        person.ID,
		Name:            person.Name,
		Type:            person.Type,
		Role:            person.Role.Name,
		Skills:          make([]string, 0, len(person.Skills)),
		TotalCapacity:   capacity,
		AllocatedHours:  allocated,
		AvailableHours:  available,
		AvailabilityPct: ratio(available, capacity),
		Allocations:     slices,
	}
	if practice, ok := person.PrimaryPractice(); ok {
		name := practice.PracticeName
		entry.Practice = &name
	}
	for _, skill := range person.Skills {
		entry.Skills = append(entry.Skills, skill.Name)
	}
	return entry
}

type personFilter struct {
	roleID     string
	practiceID string
	skillIDs   map[string]bool
}

func newPersonFilter(query AvailabilityQuery) personFilter {
	filter := personFilter{
		roleID:     strings.TrimSpace(query.RoleID),
		practiceID: strings.TrimSpace(query.PracticeID),
	}
	for _, id := range query.SkillIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if filter.skillIDs == nil {
			filter.skillIDs = map[string]bool{}
		}
		filter.skillIDs[id] = true
	}
	return filter
}

func (f personFilter) matches(person Person) bool {
	if f.roleID != "" && person.Role.ID != f.roleID {
		return false
	}
	if f.practiceID != "" && !hasPractice(person, f.practiceID) {
		return false
	}
	if len(f.skillIDs) > 0 && !hasAnySkill(person, f.skillIDs) {
		return false
	}
	return true
}

func hasPractice(person Person, practiceID string) bool {
	for _, membership := range person.Practices {
		if membership.PracticeID == practiceID {
			return true
		}
	}
	return false
}

func hasAnySkill(person Person, skillIDs map[string]bool) bool {
	for _, skill := range person.Skills {
		if skillIDs[skill.ID] {
			return true
		}
	}
	return false
}
