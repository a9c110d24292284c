package impexp

import (
	"context"
	"errors"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

// SnapshotCodec moves whole snapshots in and out of a store as JSON.
type SnapshotCodec struct {
	store ports.SnapshotStore
	newID func() string
}

var _ ports.ImportExport = (*SnapshotCodec)(nil)

func NewSnapshotCodec(store ports.SnapshotStore) *SnapshotCodec {
	return &SnapshotCodec{store: store, newID: uuid.NewString}
}

// Import decodes, normalizes and validates a snapshot document and replaces
// the stored snapshot with it. Nothing is written when any record is invalid.
func (c *SnapshotCodec) Import(ctx context.Context, raw []byte) error {
	if len(strings.TrimSpace(string(raw))) == 0 {
		return fmt.Errorf("%w: empty snapshot document", domain.ErrValidation)
	}

	var snapshot domain.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return fmt.Errorf("%w: decode snapshot: %v", domain.ErrValidation, err)
	}

	normalized, err := c.normalize(snapshot)
	if err != nil {
		return err
	}
	return c.store.ReplaceSnapshot(ctx, normalized)
}

func (c *SnapshotCodec) Export(ctx context.Context) ([]byte, error) {
	snapshot, err := c.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.People == nil {
		snapshot.People = []domain.Person{}
	}
	return json.MarshalIndent(snapshot, "", "  ")
}

func (c *SnapshotCodec) normalize(snapshot domain.Snapshot) (domain.Snapshot, error) {
	people := make([]domain.Person, 0, len(snapshot.People))
	personIDs := map[string]struct{}{}
	allocationIDs := map[string]struct{}{}
	var errs []error

	for idx, person := range snapshot.People {
		person = c.normalizePerson(person)
		if err := domain.ValidatePerson(person); err != nil {
			errs = append(errs, fmt.Errorf("people[%d]: %w", idx, err))
			continue
		}
		if _, exists := personIDs[person.ID]; exists {
			errs = append(errs, fmt.Errorf("people[%d]: %w: duplicate person id %s", idx, domain.ErrValidation, person.ID))
			continue
		}
		personIDs[person.ID] = struct{}{}
		for _, allocation := range person.Allocations {
			if _, exists := allocationIDs[allocation.ID]; exists {
				errs = append(errs, fmt.Errorf("people[%d]: %w: duplicate allocation id %s", idx, domain.ErrValidation, allocation.ID))
			}
			allocationIDs[allocation.ID] = struct{}{}
		}
		people = append(people, person)
	}

	if len(errs) > 0 {
		return domain.Snapshot{}, errors.Join(errs...)
	}
	return domain.Snapshot{People: people}, nil
}

func (c *SnapshotCodec) normalizePerson(person domain.Person) domain.Person {
	person.ID = strings.TrimSpace(person.ID)
	if person.ID == "" {
		person.ID = c.newID()
	}
	person.Name = strings.TrimSpace(person.Name)
	person.Status = strings.ToUpper(strings.TrimSpace(person.Status))
	if person.Practices == nil {
		person.Practices = []domain.PracticeMembership{}
	}
	if person.Skills == nil {
		person.Skills = []domain.Skill{}
	}

	allocations := make([]domain.Allocation, 0, len(person.Allocations))
	for _, allocation := range person.Allocations {
		allocation.ID = strings.TrimSpace(allocation.ID)
		if allocation.ID == "" {
			allocation.ID = c.newID()
		}
		allocation.Status = strings.ToUpper(strings.TrimSpace(allocation.Status))
		allocation.StartDate = strings.TrimSpace(allocation.StartDate)
		allocation.EndDate = strings.TrimSpace(allocation.EndDate)
		allocations = append(allocations, allocation)
	}
	person.Allocations = allocations
	return person
}
