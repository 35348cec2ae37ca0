package web

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// snapshotFake returns its snapshots in stored order, filtered like the
// Postgres store.
type snapshotFake struct {
	snapshots []core.Snapshot
}

func (f *snapshotFake) FindSnapshots(ctx context.Context, q core.SnapshotQuery) ([]core.Snapshot, error) {
	var out []core.Snapshot
	for _, s := range f.snapshots {
		flt := q.Filter
		switch {
		case flt.SurveyID != nil && s.SurveyID != *flt.SurveyID,
			flt.FamilyID != nil && s.FamilyID != *flt.FamilyID,
			flt.OrganizationID != nil && (s.OrganizationID == nil || *s.OrganizationID != *flt.OrganizationID),
			flt.DateFrom != nil && s.CreatedAt.Before(*flt.DateFrom),
			flt.DateTo != nil && s.CreatedAt.After(*flt.DateTo):
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

type surveyFake map[int64]core.SurveyDefinition

func (f surveyFake) GetSurvey(ctx context.Context, id int64) (core.SurveyDefinition, error) {
	sv, ok := f[id]
	if !ok {
		return core.SurveyDefinition{}, fmt.Errorf("survey %d: %w", id, core.ErrNotFound)
	}
	return sv, nil
}

type familyFake struct {
	families map[int64]core.Family
	byUser   map[int64][]int64
	nextID   int64
}

func newFamilyFake(families ...core.Family) *familyFake {
	f := &familyFake{families: map[int64]core.Family{}, byUser: map[int64][]int64{}, nextID: 100}
	for _, fam := range families {
		f.families[fam.ID] = fam
	}
	return f
}

func (f *familyFake) GetFamily(ctx context.Context, id int64) (core.Family, error) {
	fam, ok := f.families[id]
	if !ok {
		return core.Family{}, fmt.Errorf("family %d: %w", id, core.ErrNotFound)
	}
	return fam, nil
}

func (f *familyFake) GetFamilyByCode(ctx context.Context, code string) (core.Family, error) {
	for _, fam := range f.families {
		if fam.Code == code {
			return fam, nil
		}
	}
	return core.Family{}, fmt.Errorf("family %s: %w", code, core.ErrNotFound)
}

func (f *familyFake) ListFamilies(ctx context.Context, q core.FamilyQuery) ([]core.Family, error) {
	var out []core.Family
	for _, fam := range f.families {
		if q.Filter.ApplicationID != nil && (fam.ApplicationID == nil || *fam.ApplicationID != *q.Filter.ApplicationID) {
			continue
		}
		if q.Filter.Name != "" && !strings.Contains(strings.ToLower(fam.Name), strings.ToLower(q.Filter.Name)) {
			continue
		}
		out = append(out, fam)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *familyFake) CountFamilies(ctx context.Context, filter core.FamilyFilter) (int64, error) {
	list, err := f.ListFamilies(ctx, core.FamilyQuery{Filter: filter})
	return int64(len(list)), err
}

func (f *familyFake) CreateFamily(ctx context.Context, fam core.Family) (core.Family, error) {
	f.nextID++
	fam.ID = f.nextID
	f.families[fam.ID] = fam
	return fam, nil
}

func (f *familyFake) UpdateFamily(ctx context.Context, fam core.Family) (core.Family, error) {
	if _, ok := f.families[fam.ID]; !ok {
		return core.Family{}, fmt.Errorf("family %d: %w", fam.ID, core.ErrNotFound)
	}
	f.families[fam.ID] = fam
	return fam, nil
}

func (f *familyFake) SetFamilyActive(ctx context.Context, id int64, active bool) error {
	fam, ok := f.families[id]
	if !ok {
		return fmt.Errorf("family %d: %w", id, core.ErrNotFound)
	}
	fam.Active = active
	f.families[id] = fam
	return nil
}

func (f *familyFake) ListFamiliesWithSnapshotsByUser(ctx context.Context, userID int64) ([]core.Family, error) {
	var out []core.Family
	for _, id := range f.byUser[userID] {
		out = append(out, f.families[id])
	}
	return out, nil
}

// organizationFake refuses to delete organizations listed in referenced.
type organizationFake struct {
	orgs       map[int64]core.Organization
	referenced map[int64]bool
	nextID     int64
}

func newOrganizationFake(orgs ...core.Organization) *organizationFake {
	f := &organizationFake{orgs: map[int64]core.Organization{}, referenced: map[int64]bool{}, nextID: 50}
	for _, o := range orgs {
		f.orgs[o.ID] = o
	}
	return f
}

func (f *organizationFake) GetOrganization(ctx context.Context, id int64) (core.Organization, error) {
	o, ok := f.orgs[id]
	if !ok {
		return core.Organization{}, fmt.Errorf("organization %d: %w", id, core.ErrNotFound)
	}
	return o, nil
}

func (f *organizationFake) ListOrganizations(ctx context.Context) ([]core.Organization, error) {
	var out []core.Organization
	for _, o := range f.orgs {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *organizationFake) CreateOrganization(ctx context.Context, o core.Organization) (core.Organization, error) {
	f.nextID++
	o.ID = f.nextID
	f.orgs[o.ID] = o
	return o, nil
}

func (f *organizationFake) UpdateOrganization(ctx context.Context, o core.Organization) (core.Organization, error) {
	f.orgs[o.ID] = o
	return o, nil
}

func (f *organizationFake) DeleteOrganization(ctx context.Context, id int64) error {
	if f.referenced[id] {
		return fmt.Errorf("organization %d is still referenced: %w", id, core.ErrInvalidArgument)
	}
	delete(f.orgs, id)
	return nil
}

type applicationFake struct {
	apps   map[int64]core.Application
	nextID int64
}

func (f *applicationFake) GetApplication(ctx context.Context, id int64) (core.Application, error) {
	a, ok := f.apps[id]
	if !ok {
		return core.Application{}, fmt.Errorf("application %d: %w", id, core.ErrNotFound)
	}
	return a, nil
}

func (f *applicationFake) ListApplications(ctx context.Context) ([]core.Application, error) {
	var out []core.Application
	for _, a := range f.apps {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *applicationFake) CreateApplication(ctx context.Context, a core.Application) (core.Application, error) {
	f.nextID++
	a.ID = f.nextID
	f.apps[a.ID] = a
	return a, nil
}

func (f *applicationFake) UpdateApplication(ctx context.Context, a core.Application) (core.Application, error) {
	f.apps[a.ID] = a
	return a, nil
}

func (f *applicationFake) DeleteApplication(ctx context.Context, id int64) error {
	delete(f.apps, id)
	return nil
}
