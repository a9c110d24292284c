package domain

import (
	"time"
)

// nominalWorkingDaysPerWeek converts weekly hours into a daily rate.
// A person's individual working-day pattern is not taken into account.
const nominalWorkingDaysPerWeek = 5

const secondsPerDay = 24 * 60 * 60

type Interval struct {
	Start time.Time
	End   time.Time
}

func (i Interval) WorkingDays() int {
	return WorkingDays(i.Start, i.End)
}

// WorkingDays counts Monday to Friday dates in [start, end], both inclusive.
// Only the calendar date of each bound is used. An inverted range yields 0.
func WorkingDays(start, end time.Time) int {
	start = dateOnly(start)
	end = dateOnly(end)
	if start.After(end) {
		return 0
	}

	totalDays := int((end.Unix()-start.Unix())/secondsPerDay) + 1
	count := (totalDays / 7) * 5
	weekday := start.Weekday()
	for remaining := totalDays % 7; remaining > 0; remaining-- {
		if !isWeekend(weekday) {
			count++
		}
		weekday = (weekday + 1) % 7
	}

	return count
}

func isWeekend(day time.Weekday) bool {
	return day == time.Saturday || day == time.Sunday
}

// ClipInterval intersects an allocation range with a window.
func ClipInterval(allocStart, allocEnd, windowStart, windowEnd time.Time) (Interval, bool) {
	start := laterOf(dateOnly(allocStart), dateOnly(windowStart))
	end := earlierOf(dateOnly(allocEnd), dateOnly(windowEnd))
	if start.After(end) {
		return Interval{}, false
	}
	return Interval{Start: start, End: end}, true
}

func PersonHoursPerDay(person Person) float64 {
	if person.DefaultHoursPerWeek <= 0 {
		return 0
	}
	return person.DefaultHoursPerWeek / nominalWorkingDaysPerWeek
}

func PersonCapacity(person Person, start, end time.Time) float64 {
	return float64(WorkingDays(start, end)) * PersonHoursPerDay(person)
}

// AllocatedHours sums confirmed allocation hours inside the window. The
// returned slices list contributing allocations that reference a project.
func AllocatedHours(person Person, window Interval) (float64, []AllocationSlice) {
	total := 0.0
	slices := make([]AllocationSlice, 0)
	for _, allocation := range person.Allocations {
		if allocation.Status != AllocationStatusConfirmed {
			continue
		}
		start, err := ParseDate(allocation.StartDate)
		if err != nil {
			continue
		}
		end, err := ParseDate(allocation.EndDate)
		if err != nil {
			continue
		}

		clipped, ok := ClipInterval(start, end, window.Start, window.End)
		if !ok {
			continue
		}
		total += float64(clipped.WorkingDays()) * allocation.HoursPerDay

		if allocation.Project == nil {
			continue
		}
		slices = append(slices, AllocationSlice{
			AllocationID: allocation.ID,
			ProjectID:    allocation.Project.ID,
			ProjectName:  allocation.Project.Name,
			HoursPerDay:  allocation.HoursPerDay,
			StartDate:    FormatDate(clipped.Start),
			EndDate:      FormatDate(clipped.End),
		})
	}

	return total, slices
}

func availableHours(capacity, allocated float64) float64 {
	if allocated >= capacity {
		return 0
	}
	return capacity - allocated
}

func ratio(numerator, denominator float64) float64 {
	if denominator <= 0 {
		return 0
	}
	return numerator / denominator
}

func dateOnly(value time.Time) time.Time {
	year, month, day := value.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
