package domain

import (
	"context"
	"fmt"
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const businessDaysPerForecastWeek = 5

// WeekAnchor returns the Monday of the week containing now. Sunday belongs to
// the week that started six days earlier.
func WeekAnchor(now time.Time) time.Time {
	day := dateOnly(now)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// ForecastWindows lists the Monday to Friday windows of the forecast horizon.
func ForecastWindows(now time.Time, weeksAhead int) []Interval {
	if weeksAhead <= 0 {
		return []Interval{}
	}
	anchor := WeekAnchor(now)
	windows := make([]Interval, weeksAhead)
	for week := range windows {
		start := anchor.AddDate(0, 0, 7*week)
		windows[week] = Interval{Start: start, End: start.AddDate(0, 0, businessDaysPerForecastWeek-1)}
	}
	return windows
}

// ForecastCapacity computes one entry per forecast week for all active
// people. Weeks are computed concurrently and returned in ascending order.
func ForecastCapacity(ctx context.Context, people []Person, weeksAhead int, now time.Time) ([]CapacityForecastWeek, error) {
	windows := ForecastWindows(now, weeksAhead)
	if len(windows) == 0 {
		return []CapacityForecastWeek{}, nil
	}

	active := make([]Person, 0, len(people))
	for _, person := range people {
		if person.IsActive() {
			active = append(active, person)
		}
	}

	weeks := make([]CapacityForecastWeek, len(windows))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))
	for idx, window := range windows {
		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}
			weeks[idx] = forecastWeek(active, window)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return weeks, nil
}

type practiceTotals struct {
	name string
	PracticeCapacity
}

func forecastWeek(people []Person, window Interval) CapacityForecastWeek {
	week := CapacityForecastWeek{WeekStart: FormatDate(window.Start)}
	byPracticeID := map[string]*practiceTotals{}

	for _, person := range people {
		capacity := PersonCapacity(person, window.Start, window.End)
		allocated, _ := AllocatedHours(person, window)
		available := availableHours(capacity, allocated)

		practiceID, practiceName := "", UnassignedPractice
		if practice, ok := person.PrimaryPractice(); ok {
			practiceID = practice.PracticeID
			practiceName = practice.PracticeName
			if practiceName == "" {
				practiceName = practice.PracticeID
			}
		}

		totals, ok := byPracticeID[practiceID]
		if !ok {
			totals = &practiceTotals{name: practiceName}
			byPracticeID[practiceID] = totals
		}
		totals.Capacity += capacity
		totals.Allocated += allocated
		totals.Available += available

		week.TotalCapacity += capacity
		week.AllocatedHours += allocated
		week.AvailableHours += available
	}

	week.UtilizationPct = ratio(week.AllocatedHours, week.TotalCapacity)
	week.ByPractice = practiceDisplayMap(byPracticeID)
	return week
}

// practiceDisplayMap keys buckets by display name. Names held by a single
// practice, and the unassigned bucket, keep the bare name. Distinct practices
// sharing a name are suffixed with their id, and a suffixed key that is
// already taken gets a counter, so buckets never merge.
func practiceDisplayMap(byPracticeID map[string]*practiceTotals) map[string]PracticeCapacity {
	nameCounts := make(map[string]int, len(byPracticeID))
	for _, totals := range byPracticeID {
		nameCounts[totals.name]++
	}

	ids := make([]string, 0, len(byPracticeID))
	for id := range byPracticeID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	result := make(map[string]PracticeCapacity, len(byPracticeID))
	suffixed := make([]string, 0)
	for _, id := range ids {
		totals := byPracticeID[id]
		if nameCounts[totals.name] > 1 && id != "" {
			suffixed = append(suffixed, id)
			continue
		}
		result[totals.name] = totals.PracticeCapacity
	}

	for _, id := range suffixed {
		totals := byPracticeID[id]
		key := fmt.Sprintf("%s (%s)", totals.name, id)
		for n := 2; ; n++ {
			if _, taken := result[key]; !taken {
				break
			}
			key = fmt.Sprintf("%s (%s #%d)", totals.name, id, n)
		}
		result[key] = totals.PracticeCapacity
	}
	return result
}
