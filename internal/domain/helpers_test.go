package domain

import (
	"testing"
	"time"
)

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return parsed
}

func testPerson(id string, hoursPerWeek float64, allocations ...Allocation) Person {
	return Person{
		ID:                  id,
		Name:                "Person " + id,
		Type:                "EMPLOYEE",
		Status:              PersonStatusActive,
		DefaultHoursPerWeek: hoursPerWeek,
		Role:                Role{ID: "role-dev", Name: "Developer"},
		Allocations:         allocations,
	}
}

func confirmed(id, projectID string, hoursPerDay float64, start, end string) Allocation {
	allocation := Allocation{
		ID:          id,
		StartDate:   start,
		EndDate:     end,
		HoursPerDay: hoursPerDay,
		Status:      AllocationStatusConfirmed,
	}
	if projectID != "" {
		allocation.Project = &ProjectRef{ID: projectID, Name: "Project " + projectID}
	}
	return allocation
}

func withPractice(person Person, id, name string) Person {
	person.Practices = append(person.Practices, PracticeMembership{PracticeID: id, PracticeName: name, IsPrimary: true})
	return person
}
