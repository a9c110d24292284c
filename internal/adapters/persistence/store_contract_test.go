package persistence

import (
	"context"
	"reflect"
	"testing"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

func sampleSnapshot() domain.Snapshot {
	return domain.Snapshot{People: []domain.Person{
		{
			ID:                  "p-zoe",
			Name:                "Zoe",
			Type:                "EMPLOYEE",
			Status:              domain.PersonStatusActive,
			DefaultHoursPerWeek: 40,
			Role:                domain.Role{ID: "role-dev", Name: "Developer"},
			Practices: []domain.PracticeMembership{
				{PracticeID: "pr-eng", PracticeName: "Engineering", IsPrimary: true},
				{PracticeID: "pr-ux", PracticeName: "Experience"},
			},
			Skills:   []domain.Skill{{ID: "s-go", Name: "Go"}, {ID: "s-sql", Name: "SQL"}},
			CostRate: 95.5,
			Allocations: []domain.Allocation{
				{ID: "a-1", Project: &domain.ProjectRef{ID: "pr-1", Name: "Billing"}, StartDate: "2026-01-05", EndDate: "2026-01-30", HoursPerDay: 4, Status: domain.AllocationStatusConfirmed},
				{ID: "a-2", StartDate: "2026-03-02", EndDate: "2026-03-06", HoursPerDay: 2.5, Status: domain.AllocationStatusTentative},
			},
		},
		{
			ID:                  "p-adam",
			Name:                "Adam",
			Type:                "CONTRACTOR",
			Status:              domain.PersonStatusInactive,
			DefaultHoursPerWeek: 20,
			Role:                domain.Role{ID: "role-pm", Name: "Manager"},
			Practices:           []domain.PracticeMembership{},
			Skills:              []domain.Skill{},
			Allocations:         []domain.Allocation{},
		},
	}}
}

// exerciseSnapshotStore runs the behaviour every SnapshotStore must share.
func exerciseSnapshotStore(t *testing.T, store ports.SnapshotStore) {
	t.Helper()
	ctx := context.Background()

	empty, err := store.ListPeople(ctx, ports.PeopleFilter{})
	if err != nil {
		t.Fatalf("list empty store: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("expected empty store, got %d people", len(empty))
	}

	snapshot := sampleSnapshot()
	if err := store.ReplaceSnapshot(ctx, snapshot); err != nil {
		t.Fatalf("replace snapshot: %v", err)
	}

	stored, err := store.Snapshot(ctx)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !reflect.DeepEqual(stored, snapshot) {
		t.Fatalf("snapshot mismatch:\nwant %+v\ngot  %+v", snapshot, stored)
	}

	active, err := store.ListPeople(ctx, ports.PeopleFilter{
		Statuses:           []string{domain.PersonStatusActive},
		AllocationStatuses: []string{domain.AllocationStatusConfirmed},
	})
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(active) != 1 || active[0].ID != "p-zoe" {
		t.Fatalf("expected only p-zoe, got %+v", active)
	}
	if len(active[0].Allocations) != 1 || active[0].Allocations[0].ID != "a-1" {
		t.Fatalf("expected only confirmed allocation, got %+v", active[0].Allocations)
	}
	if len(active[0].Skills) != 2 || len(active[0].Practices) != 2 {
		t.Fatalf("expected relations to survive filtering, got %+v", active[0])
	}

	windowed, err := store.ListPeople(ctx, ports.PeopleFilter{AllocationsFrom: "2026-02-01", AllocationsTo: "2026-03-31"})
	if err != nil {
		t.Fatalf("list windowed: %v", err)
	}
	if len(windowed) != 2 {
		t.Fatalf("allocation bounds must not drop people, got %d", len(windowed))
	}
	if len(windowed[0].Allocations) != 1 || windowed[0].Allocations[0].ID != "a-2" {
		t.Fatalf("expected only a-2 inside window, got %+v", windowed[0].Allocations)
	}

	replacement := domain.Snapshot{People: []domain.Person{{
		ID:                  "p-new",
		Name:                "New",
		Status:              domain.PersonStatusActive,
		DefaultHoursPerWeek: 32,
		Practices:           []domain.PracticeMembership{},
		Skills:              []domain.Skill{},
		Allocations:         []domain.Allocation{},
	}}}
	if err := store.ReplaceSnapshot(ctx, replacement); err != nil {
		t.Fatalf("replace again: %v", err)
	}
	people, err := store.ListPeople(ctx, ports.PeopleFilter{})
	if err != nil {
		t.Fatalf("list after replace: %v", err)
	}
	if len(people) != 1 || people[0].ID != "p-new" {
		t.Fatalf("expected replacement to drop earlier people, got %+v", people)
	}
}
