package core

import "context"

// SnapshotStore finds snapshots for reports.
// Results must come back in the order given by the query's Sort.
type SnapshotStore interface {
	FindSnapshots(ctx context.Context, q SnapshotQuery) ([]Snapshot, error)
}

// SurveyStore resolves survey definitions.
// GetSurvey returns an error wrapping ErrNotFound for unknown ids.
type SurveyStore interface {
	GetSurvey(ctx context.Context, id int64) (SurveyDefinition, error)
}

// StaticPropertyProvider lists the labels shown in every organization/family
// report regardless of survey.
type StaticPropertyProvider interface {
	StaticPropertyNames() []string
}

// StaticProperties is a fixed StaticPropertyProvider.
type StaticProperties []string

// StaticPropertyNames implements StaticPropertyProvider.
func (p StaticProperties) StaticPropertyNames() []string {
	out := make([]string, len(p))
	copy(out, p)
	return out
}

// FamilyStore persists families.
// Get* methods return an error wrapping ErrNotFound when nothing matches.
type FamilyStore interface {
	GetFamily(ctx context.Context, id int64) (Family, error)
	GetFamilyByCode(ctx context.Context, code string) (Family, error)
	ListFamilies(ctx context.Context, q FamilyQuery) ([]Family, error)
	CountFamilies(ctx context.Context, f FamilyFilter) (int64, error)
	CreateFamily(ctx context.Context, f Family) (Family, error)
	UpdateFamily(ctx context.Context, f Family) (Family, error)
	SetFamilyActive(ctx context.Context, id int64, active bool) error
	ListFamiliesWithSnapshotsByUser(ctx context.Context, userID int64) ([]Family, error)
}

// OrganizationStore persists organizations.
type OrganizationStore interface {
	GetOrganization(ctx context.Context, id int64) (Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)
	CreateOrganization(ctx context.Context, o Organization) (Organization, error)
	UpdateOrganization(ctx context.Context, o Organization) (Organization, error)
	DeleteOrganization(ctx context.Context, id int64) error
}

// ApplicationStore persists applications.
type ApplicationStore interface {
	GetApplication(ctx context.Context, id int64) (Application, error)
	ListApplications(ctx context.Context) ([]Application, error)
	CreateApplication(ctx context.Context, a Application) (Application, error)
	UpdateApplication(ctx context.Context, a Application) (Application, error)
	DeleteApplication(ctx context.Context, id int64) error
}

// Stores bundles the collaborators a Service needs.
type Stores struct {
	Snapshots     SnapshotStore
	Surveys       SurveyStore
	Families      FamilyStore
	Organizations OrganizationStore
	Applications  ApplicationStore
}
