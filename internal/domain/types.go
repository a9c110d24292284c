package domain

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

const DateLayout = "2006-01-02"

const (
	PersonStatusActive   = "ACTIVE"
	PersonStatusInactive = "INACTIVE"
)

const (
	AllocationStatusConfirmed = "CONFIRMED"
	AllocationStatusTentative = "TENTATIVE"
	AllocationStatusCompleted = "COMPLETED"
)

// UnassignedPractice is the forecast bucket for people without a primary practice.
const UnassignedPractice = "Unassigned"

const (
	DefaultForecastWeeks          = 12
	DefaultAvailabilityWindowDays = 28
	maxHoursPerDay                = 24
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Skill struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PracticeMembership struct {
	PracticeID   string `json:"practiceId"`
	PracticeName string `json:"practiceName"`
	IsPrimary    bool   `json:"isPrimary"`
}

type ProjectRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Allocation struct {
	ID          string      `json:"id"`
	Project     *ProjectRef `json:"project,omitempty"`
	StartDate   string      `json:"startDate"`
	EndDate     string      `json:"endDate"`
	HoursPerDay float64     `json:"hoursPerDay"`
	Status      string      `json:"status"`
}

type Person struct {
	ID                  string               `json:"id"`
	Name                string               `json:"name"`
	Type                string               `json:"type"`
	Status              string               `json:"status"`
	DefaultHoursPerWeek float64              `json:"defaultHoursPerWeek"`
	Role                Role                 `json:"role"`
	Practices           []PracticeMembership `json:"practices,omitempty"`
	Skills              []Skill              `json:"skills,omitempty"`
	CostRate            float64              `json:"costRate,omitempty"`
	Allocations         []Allocation         `json:"allocations,omitempty"`
}

func (p Person) IsActive() bool {
	return p.Status == PersonStatusActive
}

// PrimaryPractice returns the membership flagged as primary, if any.
func (p Person) PrimaryPractice() (PracticeMembership, bool) {
	for _, membership := range p.Practices {
		if membership.IsPrimary {
			return membership, true
		}
	}
	return PracticeMembership{}, false
}

// Snapshot is the materialized object graph the engine computes over.
type Snapshot struct {
	People []Person `json:"people"`
}

// AvailabilityQuery selects people and the window for availability resolution.
// A zero Start or End means the default applies.
type AvailabilityQuery struct {
	Start      time.Time
	End        time.Time
	RoleID     string
	PracticeID string
	SkillIDs   []string
	MinHours   *int
}

type AllocationSlice struct {
	AllocationID string  `json:"allocationId"`
	ProjectID    string  `json:"projectId"`
	ProjectName  string  `json:"projectName"`
	HoursPerDay  float64 `json:"hoursPerDay"`
	StartDate    string  `json:"startDate"`
	EndDate      string  `json:"endDate"`
}

type PersonAvailability struct {
	PersonID        string            `json:"personId"`
	Name            string            `json:"name"`
	Type            string            `json:"type"`
	Role            string            `json:"role"`
	Practice        *string           `json:"practice"`
	Skills          []string          `json:"skills"`
	TotalCapacity   float64           `json:"totalCapacity"`
	AllocatedHours  float64           `json:"allocatedHours"`
	AvailableHours  float64           `json:"availableHours"`
	AvailabilityPct float64           `json:"availabilityPct"`
	Allocations     []AllocationSlice `json:"allocations"`
}

type PracticeCapacity struct {
	Capacity  float64 `json:"capacity"`
	Allocated float64 `json:"allocated"`
	Available float64 `json:"available"`
}

type CapacityForecastWeek struct {
	WeekStart      string                      `json:"weekStart"`
	TotalCapacity  float64                     `json:"totalCapacity"`
	AllocatedHours float64                     `json:"allocatedHours"`
	AvailableHours float64                     `json:"availableHours"`
	UtilizationPct float64                     `json:"utilizationPct"`
	ByPractice     map[string]PracticeCapacity `json:"byPractice"`
}

func ValidateDate(value string) (string, error) {
	parsed, err := time.Parse(DateLayout, value)
	if err != nil {
		return "", err
	}

	return parsed.Format(DateLayout), nil
}

// ParseDate parses a YYYY-MM-DD value into midnight UTC.
func ParseDate(value string) (time.Time, error) {
	return time.Parse(DateLayout, strings.TrimSpace(value))
}

func FormatDate(value time.Time) string {
	return value.Format(DateLayout)
}

func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrValidation
	}

	return nil
}

func ValidatePersonStatus(value string) error {
	if strings.TrimSpace(value) == "" {
		return ErrValidation
	}
	return nil
}

func ValidateAllocationStatus(value string) error {
	switch value {
	case AllocationStatusConfirmed, AllocationStatusTentative, AllocationStatusCompleted:
		return nil
	default:
		return ErrValidation
	}
}

func ValidateHoursPerDay(value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 || value > maxHoursPerDay {
		return ErrValidation
	}
	return nil
}

func ValidatePerson(person Person) error {
	if strings.TrimSpace(person.ID) == "" {
		return fmt.Errorf("person id is required: %w", ErrValidation)
	}
	if err := ValidateName(person.Name); err != nil {
		return fmt.Errorf("person %s: name is required: %w", person.ID, err)
	}
	if err := ValidatePersonStatus(person.Status); err != nil {
		return fmt.Errorf("person %s: status is required: %w", person.ID, err)
	}
	weekly := person.DefaultHoursPerWeek
	if math.IsNaN(weekly) || math.IsInf(weekly, 0) || weekly < 0 || weekly > 7*maxHoursPerDay {
		return fmt.Errorf("person %s: invalid default hours per week %v: %w", person.ID, weekly, ErrValidation)
	}

	primaryCount := 0
	practiceIDs := make(map[string]struct{}, len(person.Practices))
	for _, membership := range person.Practices {
		practiceID := strings.TrimSpace(membership.PracticeID)
		if practiceID == "" {
			return fmt.Errorf("person %s: practice id is required: %w", person.ID, ErrValidation)
		}
		if _, exists := practiceIDs[practiceID]; exists {
			return fmt.Errorf("person %s: duplicate practice %s: %w", person.ID, practiceID, ErrValidation)
		}
		practiceIDs[practiceID] = struct{}{}
		if membership.IsPrimary {
			primaryCount++
		}
	}
	if primaryCount > 1 {
		return fmt.Errorf("person %s: more than one primary practice: %w", person.ID, ErrValidation)
	}

	skillIDs := make(map[string]struct{}, len(person.Skills))
	for _, skill := range person.Skills {
		skillID := strings.TrimSpace(skill.ID)
		if _, exists := skillIDs[skillID]; exists {
			return fmt.Errorf("person %s: duplicate skill %q: %w", person.ID, skillID, ErrValidation)
		}
		skillIDs[skillID] = struct{}{}
	}

	for _, allocation := range person.Allocations {
		if err := ValidateAllocation(allocation); err != nil {
			return fmt.Errorf("person %s: %w", person.ID, err)
		}
	}
	return nil
}

func ValidateAllocation(allocation Allocation) error {
	if strings.TrimSpace(allocation.ID) == "" {
		return fmt.Errorf("allocation id is required: %w", ErrValidation)
	}
	start, err := ParseDate(allocation.StartDate)
	if err != nil {
		return fmt.Errorf("allocation %s: start date: %v: %w", allocation.ID, err, ErrValidation)
	}
	end, err := ParseDate(allocation.EndDate)
	if err != nil {
		return fmt.Errorf("allocation %s: end date: %v: %w", allocation.ID, err, ErrValidation)
	}
	if end.Before(start) {
		return fmt.Errorf("allocation %s: end date before start date: %w", allocation.ID, ErrValidation)
	}
	if err := ValidateHoursPerDay(allocation.HoursPerDay); err != nil {
		return fmt.Errorf("allocation %s: hours per day must be in (0, 24]: %w", allocation.ID, err)
	}
	if err := ValidateAllocationStatus(allocation.Status); err != nil {
		return fmt.Errorf("allocation %s: unknown status %q: %w", allocation.ID, allocation.Status, err)
	}
	return nil
}
