package ports

import (
	"context"
	"time"

	"staffing/internal/domain"
)

type Telemetry interface {
	Record(name string, attributes map[string]string)
	Observe(name string, elapsed time.Duration)
}

type ImportExport interface {
	Import(ctx context.Context, raw []byte) error
	Export(ctx context.Context) ([]byte, error)
}

// PeopleFilter narrows a snapshot fetch. Empty fields impose no constraint.
// Allocation bounds trim each person's allocation list, not the people list.
type PeopleFilter struct {
	Statuses           []string
	AllocationStatuses []string
	AllocationsFrom    string
	AllocationsTo      string
}

func (f PeopleFilter) MatchesPerson(person domain.Person) bool {
	return len(f.Statuses) == 0 || contains(f.Statuses, person.Status)
}

// MatchesAllocation reports whether the allocation survives the filter.
// Dates compare lexically, which is chronological for YYYY-MM-DD.
func (f PeopleFilter) MatchesAllocation(allocation domain.Allocation) bool {
	if len(f.AllocationStatuses) > 0 && !contains(f.AllocationStatuses, allocation.Status) {
		return false
	}
	if f.AllocationsFrom != "" && allocation.EndDate < f.AllocationsFrom {
		return false
	}
	if f.AllocationsTo != "" && allocation.StartDate > f.AllocationsTo {
		return false
	}
	return true
}

// SnapshotRepository supplies fully materialized people for one computation.
type SnapshotRepository interface {
	ListPeople(ctx context.Context, filter PeopleFilter) ([]domain.Person, error)
}

// SnapshotStore replaces or reads back the whole snapshot.
type SnapshotStore interface {
	SnapshotRepository
	ReplaceSnapshot(ctx context.Context, snapshot domain.Snapshot) error
	Snapshot(ctx context.Context) (domain.Snapshot, error)
}

func contains(values []string, target string) bool {
	for _, value := range values {
		if value == target {
			return true
		}
	}
	return false
}
