package persistence

import (
	"strconv"
	"strings"

	"staffing/internal/domain"
	"staffing/internal/ports"
)

// schemaStatements is portable between sqlite and postgres. Ordinal columns
// keep the snapshot order so ranking ties resolve the same way on every backend.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS people (
		id TEXT PRIMARY KEY,
		ordinal INTEGER NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		default_hours_per_week DOUBLE PRECISION NOT NULL,
		role_id TEXT NOT NULL DEFAULT '',
		role_name TEXT NOT NULL DEFAULT '',
		cost_rate DOUBLE PRECISION NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS person_practices (
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		practice_id TEXT NOT NULL,
		practice_name TEXT NOT NULL DEFAULT '',
		is_primary BOOLEAN NOT NULL DEFAULT FALSE,
		PRIMARY KEY (person_id, practice_id)
	)`,
	`CREATE TABLE IF NOT EXISTS person_skills (
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		skill_id TEXT NOT NULL,
		skill_name TEXT NOT NULL DEFAULT '',
		PRIMARY KEY (person_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS allocations (
		id TEXT PRIMARY KEY,
		person_id TEXT NOT NULL REFERENCES people(id) ON DELETE CASCADE,
		ordinal INTEGER NOT NULL,
		project_id TEXT,
		project_name TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		hours_per_day DOUBLE PRECISION NOT NULL,
		status TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_allocations_person_dates ON allocations(person_id, start_date, end_date)`,
	`CREATE INDEX IF NOT EXISTS idx_people_status ON people(status)`,
}

var clearStatements = []string{
	`DELETE FROM allocations`,
	`DELETE FROM person_skills`,
	`DELETE FROM person_practices`,
	`DELETE FROM people`,
}

type placeholderFunc func(n int) string

func questionPlaceholder(int) string {
	return "?"
}

func dollarPlaceholder(n int) string {
	return "$" + strconv.Itoa(n)
}

type sqlQuery struct {
	text string
	args []any
}

// rowScanner is the common subset of *sql.Rows and pgx.Rows.
type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func peopleQuery(filter ports.PeopleFilter, ph placeholderFunc) sqlQuery {
	query := sqlQuery{text: `SELECT id, name, type, status, default_hours_per_week, role_id, role_name, cost_rate FROM people`}
	if len(filter.Statuses) > 0 {
		query.text += " WHERE status IN (" + query.bind(ph, filter.Statuses) + ")"
	}
	query.text += " ORDER BY ordinal"
	return query
}

func allocationsQuery(filter ports.PeopleFilter, ph placeholderFunc) sqlQuery {
	query := sqlQuery{text: `SELECT person_id, id, project_id, project_name, start_date, end_date, hours_per_day, status FROM allocations`}
	var clauses []string
	if len(filter.AllocationStatuses) > 0 {
		clauses = append(clauses, "status IN ("+query.bind(ph, filter.AllocationStatuses)+")")
	}
	if filter.AllocationsFrom != "" {
		clauses = append(clauses, "end_date >= "+query.bind(ph, []string{filter.AllocationsFrom}))
	}
	if filter.AllocationsTo != "" {
		clauses = append(clauses, "start_date <= "+query.bind(ph, []string{filter.AllocationsTo}))
	}
	if len(clauses) > 0 {
		query.text += " WHERE " + strings.Join(clauses, " AND ")
	}
	query.text += " ORDER BY person_id, ordinal"
	return query
}

const (
	practicesQuery = `SELECT person_id, practice_id, practice_name, is_primary FROM person_practices ORDER BY person_id, ordinal`
	skillsQuery    = `SELECT person_id, skill_id, skill_name FROM person_skills ORDER BY person_id, ordinal`
)

func (q *sqlQuery) bind(ph placeholderFunc, values []string) string {
	marks := make([]string, 0, len(values))
	for _, value := range values {
		q.args = append(q.args, value)
		marks = append(marks, ph(len(q.args)))
	}
	return strings.Join(marks, ", ")
}

// insertStatements flattens a snapshot into ordered insert statements.
func insertStatements(snapshot domain.Snapshot, ph placeholderFunc) []sqlQuery {
	marks := func(n int) string {
		values := make([]string, n)
		for idx := range values {
			values[idx] = ph(idx + 1)
		}
		return strings.Join(values, ", ")
	}

	var statements []sqlQuery
	for personIdx, person := range snapshot.People {
		statements = append(statements, sqlQuery{
			text: `INSERT INTO people (id, ordinal, name, type, status, default_hours_per_week, role_id, role_name, cost_rate) VALUES (` + marks(9) + `)`,
			args: []any{person.ID, personIdx, person.Name, person.Type, person.Status, person.DefaultHoursPerWeek, person.Role.ID, person.Role.Name, person.CostRate},
		})
		for idx, membership := range person.Practices {
			statements = append(statements, sqlQuery{
				text: `INSERT INTO person_practices (person_id, ordinal, practice_id, practice_name, is_primary) VALUES (` + marks(5) + `)`,
				args: []any{person.ID, idx, membership.PracticeID, membership.PracticeName, membership.IsPrimary},
			})
		}
		for idx, skill := range person.Skills {
			statements = append(statements, sqlQuery{
				text: `INSERT INTO person_skills (person_id, ordinal, skill_id, skill_name) VALUES (` + marks(4) + `)`,
				args: []any{person.ID, idx, skill.ID, skill.Name},
			})
		}
		for idx, allocation := range person.Allocations {
			var projectID, projectName *string
			if allocation.Project != nil {
				projectID = &allocation.Project.ID
				projectName = &allocation.Project.Name
			}
			statements = append(statements, sqlQuery{
				text: `INSERT INTO allocations (id, person_id, ordinal, project_id, project_name, start_date, end_date, hours_per_day, status) VALUES (` + marks(9) + `)`,
				args: []any{allocation.ID, person.ID, idx, projectID, projectName, allocation.StartDate, allocation.EndDate, allocation.HoursPerDay, allocation.Status},
			})
		}
	}
	return statements
}

// snapshotAssembler rebuilds people from the flat table rows, keeping the
// order in which people were added.
type snapshotAssembler struct {
	order []string
	byID  map[string]*domain.Person
}

func newSnapshotAssembler() *snapshotAssembler {
	return &snapshotAssembler{byID: map[string]*domain.Person{}}
}

func (a *snapshotAssembler) scanPeople(rows rowScanner) error {
	for rows.Next() {
		var person domain.Person
		if err := rows.Scan(&person.ID, &person.Name, &person.Type, &person.Status, &person.DefaultHoursPerWeek, &person.Role.ID, &person.Role.Name, &person.CostRate); err != nil {
			return err
		}
		person.Practices = []domain.PracticeMembership{}
		person.Skills = []domain.Skill{}
		person.Allocations = []domain.Allocation{}
		a.order = append(a.order, person.ID)
		a.byID[person.ID] = &person
	}
	return rows.Err()
}

func (a *snapshotAssembler) scanPractices(rows rowScanner) error {
	for rows.Next() {
		var personID string
		var membership domain.PracticeMembership
		if err := rows.Scan(&personID, &membership.PracticeID, &membership.PracticeName, &membership.IsPrimary); err != nil {
			return err
		}
		if person, ok := a.byID[personID]; ok {
			person.Practices = append(person.Practices, membership)
		}
	}
	return rows.Err()
}

func (a *snapshotAssembler) scanSkills(rows rowScanner) error {
	for rows.Next() {
		var personID string
		var skill domain.Skill
		if err := rows.Scan(&personID, &skill.ID, &skill.Name); err != nil {
			return err
		}
		if person, ok := a.byID[personID]; ok {
			person.Skills = append(person.Skills, skill)
		}
	}
	return rows.Err()
}

func (a *snapshotAssembler) scanAllocations(rows rowScanner) error {
	for rows.Next() {
		var personID string
		var projectID, projectName *string
		var allocation domain.Allocation
		if err := rows.Scan(&personID, &allocation.ID, &projectID, &projectName, &allocation.StartDate, &allocation.EndDate, &allocation.HoursPerDay, &allocation.Status); err != nil {
			return err
		}
		if projectID != nil {
			allocation.Project = &domain.ProjectRef{ID: *projectID}
			if projectName != nil {
				allocation.Project.Name = *projectName
			}
		}
		if person, ok := a.byID[personID]; ok {
			person.Allocations = append(person.Allocations, allocation)
		}
	}
	return rows.Err()
}

func (a *snapshotAssembler) people() []domain.Person {
	people := make([]domain.Person, 0, len(a.order))
	for _, id := range a.order {
		people = append(people, *a.byID[id])
	}
	return people
}

func clonePerson(person domain.Person) domain.Person {
	person.Practices = append([]domain.PracticeMembership{}, person.Practices...)
	person.Skills = append([]domain.Skill{}, person.Skills...)
	allocations := make([]domain.Allocation, 0, len(person.Allocations))
	for _, allocation := range person.Allocations {
		if allocation.Project != nil {
			project := *allocation.Project
			allocation.Project = &project
		}
		allocations = append(allocations, allocation)
	}
	person.Allocations = allocations
	return person
}

func cloneSnapshot(snapshot domain.Snapshot) domain.Snapshot {
	people := make([]domain.Person, 0, len(snapshot.People))
	for _, person := range snapshot.People {
		people = append(people, clonePerson(person))
	}
	return domain.Snapshot{People: people}
}

// filterPeople applies the filter in memory and returns independent copies.
func filterPeople(people []domain.Person, filter ports.PeopleFilter) []domain.Person {
	result := make([]domain.Person, 0, len(people))
	for _, person := range people {
		if !filter.MatchesPerson(person) {
			continue
		}
		person = clonePerson(person)
		allocations := person.Allocations[:0]
		for _, allocation := range person.Allocations {
			if filter.MatchesAllocation(allocation) {
				allocations = append(allocations, allocation)
			}
		}
		person.Allocations = allocations
		result = append(result, person)
	}
	return result
}
