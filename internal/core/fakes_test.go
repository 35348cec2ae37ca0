package core

import (
	"context"
	"fmt"
	"sort"
	"strings"
)

// fakeSnapshots filters and sorts an in-memory snapshot list the way the
// Postgres store does.
type fakeSnapshots struct {
	snapshots []Snapshot
	queries   []SnapshotQuery
	err       error
}

func (f *fakeSnapshots) FindSnapshots(_ context.Context, q SnapshotQuery) ([]Snapshot, error) {
	f.queries = append(f.queries, q)
	if f.err != nil {
		return nil, f.err
	}

	var out []Snapshot
	for _, s := range f.snapshots {
		if !matchSnapshot(q.Filter, s) {
			continue
		}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		for _, spec := range q.Sort {
			c := compareSnapshots(spec.Column, out[i], out[j])
			if spec.Dir == "desc" {
				c = -c
			}
			if c != 0 {
				return c < 0
			}
		}
		return false
	})
	return out, nil
}

func matchSnapshot(f SnapshotFilter, s Snapshot) bool {
	if f.ApplicationID != nil && (s.ApplicationID == nil || *s.ApplicationID != *f.ApplicationID) {
		return false
	}
	if f.OrganizationID != nil && (s.OrganizationID == nil || *s.OrganizationID != *f.OrganizationID) {
		return false
	}
	if f.SurveyID != nil && s.SurveyID != *f.SurveyID {
		return false
	}
	if f.FamilyID != nil && s.FamilyID != *f.FamilyID {
		return false
	}
	if f.DateFrom != nil && s.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && s.CreatedAt.After(*f.DateTo) {
		return false
	}
	return true
}

func compareSnapshots(column string, a, b Snapshot) int {
	switch column {
	case SortOrganizationName:
		return strings.Compare(a.OrganizationName, b.OrganizationName)
	case SortFamilyName:
		return strings.Compare(a.FamilyName, b.FamilyName)
	case SortCreatedAt:
		return a.CreatedAt.Compare(b.CreatedAt)
	}
	return 0
}

type fakeSurveys struct {
	surveys map[int64]SurveyDefinition
	calls   int
}

func (f *fakeSurveys) GetSurvey(_ context.Context, id int64) (SurveyDefinition, error) {
	f.calls++
	sv, ok := f.surveys[id]
	if !ok {
		return SurveyDefinition{}, fmt.Errorf("survey %d: %w", id, ErrNotFound)
	}
	return sv, nil
}

type fakeFamilies struct {
	families  map[int64]Family
	nextID    int64
	byUser    map[int64][]Family
	lastQuery FamilyQuery
	lastCount FamilyFilter
}

func newFakeFamilies(families ...Family) *fakeFamilies {
	f := &fakeFamilies{families: make(map[int64]Family), nextID: 100, byUser: make(map[int64][]Family)}
	for _, fam := range families {
		f.families[fam.ID] = fam
	}
	return f
}

func (f *fakeFamilies) GetFamily(_ context.Context, id int64) (Family, error) {
	fam, ok := f.families[id]
	if !ok {
		return Family{}, fmt.Errorf("family %d: %w", id, ErrNotFound)
	}
	return fam, nil
}

func (f *fakeFamilies) GetFamilyByCode(_ context.Context, code string) (Family, error) {
	for _, fam := range f.families {
		if fam.Code == code {
			return fam, nil
		}
	}
	return Family{}, fmt.Errorf("family %s: %w", code, ErrNotFound)
}

func (f *fakeFamilies) ListFamilies(_ context.Context, q FamilyQuery) ([]Family, error) {
	f.lastQuery = q
	var out []Family
	for _, fam := range f.families {
		if q.Filter.OrganizationID != nil && (fam.OrganizationID == nil || *fam.OrganizationID != *q.Filter.OrganizationID) {
			continue
		}
		if q.Filter.ApplicationID != nil && (fam.ApplicationID == nil || *fam.ApplicationID != *q.Filter.ApplicationID) {
			continue
		}
		out = append(out, fam)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].OrganizationName != out[j].OrganizationName {
			return out[i].OrganizationName < out[j].OrganizationName
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (f *fakeFamilies) CountFamilies(_ context.Context, filter FamilyFilter) (int64, error) {
	f.lastCount = filter
	return int64(len(f.families)), nil
}

func (f *fakeFamilies) CreateFamily(_ context.Context, fam Family) (Family, error) {
	f.nextID++
	fam.ID = f.nextID
	f.families[fam.ID] = fam
	return fam, nil
}

func (f *fakeFamilies) UpdateFamily(_ context.Context, fam Family) (Family, error) {
	if _, ok := f.families[fam.ID]; !ok {
		return Family{}, fmt.Errorf("family %d: %w", fam.ID, ErrNotFound)
	}
	f.families[fam.ID] = fam
	return fam, nil
}

func (f *fakeFamilies) SetFamilyActive(_ context.Context, id int64, active bool) error {
	fam, ok := f.families[id]
	if !ok {
		return fmt.Errorf("family %d: %w", id, ErrNotFound)
	}
	fam.Active = active
	f.families[id] = fam
	return nil
}

func (f *fakeFamilies) ListFamiliesWithSnapshotsByUser(_ context.Context, userID int64) ([]Family, error) {
	return f.byUser[userID], nil
}

type fakeOrganizations struct {
	orgs    map[int64]Organization
	nextID  int64
	deleted []int64
}

func newFakeOrganizations(orgs ...Organization) *fakeOrganizations {
	f := &fakeOrganizations{orgs: make(map[int64]Organization), nextID: 50}
	for _, o := range orgs {
		f.orgs[o.ID] = o
	}
	return f
}

func (f *fakeOrganizations) GetOrganization(_ context.Context, id int64) (Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return Organization{}, fmt.Errorf("organization %d: %w", id, ErrNotFound)
	}
	return o, nil
}

func (f *fakeOrganizations) ListOrganizations(_ context.Context) ([]Organization, error) {
	out := make([]Organization, 0, len(f.orgs))
	for _, o := range f.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeOrganizations) CreateOrganization(_ context.Context, o Organization) (Organization, error) {
	f.nextID++
	o.ID = f.nextID
	f.orgs[o.ID] = o
	return o, nil
}

func (f *fakeOrganizations) UpdateOrganization(_ context.Context, o Organization) (Organization, error) {
	f.orgs[o.ID] = o
	return o, nil
}

func (f *fakeOrganizations) DeleteOrganization(_ context.Context, id int64) error {
	delete(f.orgs, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeApplications struct {
	apps   map[int64]Application
	nextID int64
}

func newFakeApplications(apps ...Application) *fakeApplications {
	f := &fakeApplications{apps: make(map[int64]Application), nextID: 10}
	for _, a := range apps {
		f.apps[a.ID] = a
	}
	return f
}

func (f *fakeApplications) GetApplication(_ context.Context, id int64) (Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return Application{}, fmt.Errorf("application %d: %w", id, ErrNotFound)
	}
	return a, nil
}

func (f *fakeApplications) ListApplications(_ context.Context) ([]Application, error) {
	out := make([]Application, 0, len(f.apps))
	for _, a := range f.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeApplications) CreateApplication(_ context.Context, a Application) (Application, error) {
	f.nextID++
	a.ID = f.nextID
	f.apps[a.ID] = a
	return a, nil
}

func (f *fakeApplications) UpdateApplication(_ context.Context, a Application) (Application, error) {
	f.apps[a.ID] = a
	return a, nil
}

func (f *fakeApplications) DeleteApplication(_ context.Context, id int64) error {
	delete(f.apps, id)
	return nil
}

func ptr[T any](v T) *T { return &v }
