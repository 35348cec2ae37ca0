package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func newTestService(t *testing.T, stores Stores, static ...string) *Service {
	t.Helper()
	svc, err := NewService(stores, Options{StaticProperties: StaticProperties(static)})
	if err != nil {
		t.Fatalf("NewService() error = %v", err)
	}
	return svc
}

func sampleSnapshots() []Snapshot {
	return []Snapshot{
		{
			ID: 1, SurveyID: 1, SurveyTitle: "Stoplight", FamilyID: 10, FamilyCode: "F10", FamilyName: "Perez",
			OrganizationID: ptr(int64(2)), OrganizationName: "Beta", ApplicationID: ptr(int64(1)),
			CreatedAt: date(2024, 3, 1), Indicators: SurveyDataOf("income", "GREEN"),
		},
		{
			ID: 2, SurveyID: 1, SurveyTitle: "Stoplight", FamilyID: 10, FamilyCode: "F10", FamilyName: "Perez",
			OrganizationID: ptr(int64(2)), OrganizationName: "Beta", ApplicationID: ptr(int64(1)),
			CreatedAt: date(2024, 1, 15), Indicators: SurveyDataOf("income", "RED", "phone", "YELLOW"),
		},
		{
			ID: 3, SurveyID: 2, SurveyTitle: "Health", FamilyID: 11, FamilyCode: "F11", FamilyName: "Acosta",
			OrganizationID: ptr(int64(1)), OrganizationName: "Alpha", ApplicationID: ptr(int64(1)),
			CreatedAt: date(2024, 2, 10), Indicators: SurveyDataOf("healthPost", "NONE"),
		},
		{
			ID: 4, SurveyID: 2, SurveyTitle: "Health", FamilyID: 10, FamilyCode: "F10", FamilyName: "Perez",
			OrganizationID: ptr(int64(2)), OrganizationName: "Beta", ApplicationID: ptr(int64(1)),
			CreatedAt: date(2024, 2, 20), Indicators: SurveyDataOf("healthPost", "GREEN"),
		},
	}
}

func fullRange() SnapshotFilter {
	return SnapshotFilter{DateFrom: ptr(date(2024, 1, 1)), DateTo: ptr(date(2024, 12, 31))}
}

func TestNewService_RequiresReportStores(t *testing.T) {
	if _, err := NewService(Stores{Snapshots: &fakeSnapshots{}}, Options{}); err == nil {
		t.Error("expected error without survey store")
	}
	if _, err := NewService(Stores{Surveys: &fakeSurveys{}}, Options{}); err == nil {
		t.Error("expected error without snapshot store")
	}
}

func TestBuildFamilyListingReport(t *testing.T) {
	snaps := &fakeSnapshots{snapshots: sampleSnapshots()}
	svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}}, "Income")

	got, err := svc.BuildFamilyListingReport(context.Background(), fullRange())
	if err != nil {
		t.Fatalf("BuildFamilyListingReport() error = %v", err)
	}

	want := Report{
		Headers: []string{
			"Organization Name", "Family Code", "Family Name", "Created At",
			"Income", "Health Post", "Phone",
		},
		Rows: [][]string{
			{"Alpha", "F11", "Acosta", "2024-02-10", "", "0", ""},
			{"Beta", "F10", "Perez", "2024-01-15", "1", "", "2"},
			{"Beta", "F10", "Perez", "2024-02-20", "", "3", ""},
			{"Beta", "F10", "Perez", "2024-03-01", "3", "", ""},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	if len(snaps.queries) != 1 {
		t.Fatalf("expected 1 query, got %d", len(snaps.queries))
	}
	if diff := cmp.Diff(byOrganizationFamilyDate, snaps.queries[0].Sort); diff != "" {
		t.Errorf("sort mismatch (-want +got):\n%s", diff)
	}
	if snaps.queries[0].Filter.SurveyID != nil {
		t.Error("family listing should not filter by survey")
	}
}

func TestBuildFamilyListingReport_NoDatesSkipsQuery(t *testing.T) {
	tests := []struct {
		name   string
		filter SnapshotFilter
	}{
		{"no dates", SnapshotFilter{}},
		{"only from", SnapshotFilter{DateFrom: ptr(date(2024, 1, 1))}},
		{"only to", SnapshotFilter{DateTo: ptr(date(2024, 1, 1))}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snaps := &fakeSnapshots{snapshots: sampleSnapshots()}
			svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}}, "Income")

			got, err := svc.BuildFamilyListingReport(context.Background(), tt.filter)
			if err != nil {
				t.Fatalf("BuildFamilyListingReport() error = %v", err)
			}
			if len(snaps.queries) != 0 {
				t.Errorf("expected no store query, got %d", len(snaps.queries))
			}
			want := Report{
				Headers: []string{"Organization Name", "Family Code", "Family Name", "Created At", "Income"},
				Rows:    [][]string{},
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("report mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildFamilyListingReport_StoreError(t *testing.T) {
	snaps := &fakeSnapshots{err: errors.New("connection refused")}
	svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}})

	_, err := svc.BuildFamilyListingReport(context.Background(), fullRange())
	if err == nil || MapError(err).Code != "DB004" {
		t.Errorf("expected wrapped connection error, got %v", err)
	}
}

func TestBuildSurveyCsvReport(t *testing.T) {
	snaps := &fakeSnapshots{snapshots: sampleSnapshots()}
	surveys := &fakeSurveys{surveys: map[int64]SurveyDefinition{
		1: {ID: 1, Title: "Stoplight", EconomicFields: []string{"phone"}, IndicatorFields: []string{"income"}},
	}}
	svc := newTestService(t, Stores{Snapshots: snaps, Surveys: surveys}, "Static Only")

	filter := fullRange()
	filter.SurveyID = ptr(int64(1))

	got, err := svc.BuildSurveyCsvReport(context.Background(), filter)
	if err != nil {
		t.Fatalf("BuildSurveyCsvReport() error = %v", err)
	}

	want := Report{
		Headers: []string{"Organization Name", "Family Code", "Family Name", "Created At", "Phone", "Income"},
		Rows: [][]string{
			{"Beta", "F10", "Perez", "2024-01-15", "2", "1"},
			{"Beta", "F10", "Perez", "2024-03-01", "", "3"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("report mismatch (-want +got):\n%s", diff)
	}

	wantCsv := "Organization Name,Family Code,Family Name,Created At,Phone,Income\n" +
		"Beta,F10,Perez,2024-01-15,2,1\n" +
		"Beta,F10,Perez,2024-03-01,,3\n"
	if csv := svc.RenderCsv(got); csv != wantCsv {
		t.Errorf("RenderCsv() = %q, want %q", csv, wantCsv)
	}
}

func TestBuildSurveyCsvReport_Errors(t *testing.T) {
	t.Run("missing survey id", func(t *testing.T) {
		snaps := &fakeSnapshots{}
		svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}})

		_, err := svc.BuildSurveyCsvReport(context.Background(), fullRange())
		if !errors.Is(err, ErrInvalidFilter) {
			t.Errorf("expected ErrInvalidFilter, got %v", err)
		}
		if len(snaps.queries) != 0 {
			t.Error("store should not be queried")
		}
	})

	t.Run("unknown survey", func(t *testing.T) {
		snaps := &fakeSnapshots{}
		svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}})

		filter := fullRange()
		filter.SurveyID = ptr(int64(99))
		_, err := svc.BuildSurveyCsvReport(context.Background(), filter)
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if len(snaps.queries) != 0 {
			t.Error("store should not be queried")
		}
	})

	t.Run("unknown survey without dates", func(t *testing.T) {
		svc := newTestService(t, Stores{Snapshots: &fakeSnapshots{}, Surveys: &fakeSurveys{}})

		_, err := svc.BuildSurveyCsvReport(context.Background(), SnapshotFilter{SurveyID: ptr(int64(99))})
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestBuildSurveyCsvReport_NoDatesHeaderOnly(t *testing.T) {
	snaps := &fakeSnapshots{snapshots: sampleSnapshots()}
	surveys := &fakeSurveys{surveys: map[int64]SurveyDefinition{
		2: {ID: 2, Title: "Health", IndicatorFields: []string{"healthPost"}},
	}}
	svc := newTestService(t, Stores{Snapshots: snaps, Surveys: surveys})

	got, err := svc.BuildSurveyCsvReport(context.Background(), SnapshotFilter{SurveyID: ptr(int64(2))})
	if err != nil {
		t.Fatalf("BuildSurveyCsvReport() error = %v", err)
	}
	if len(snaps.queries) != 0 {
		t.Errorf("expected no store query, got %d", len(snaps.queries))
	}
	if csv := RenderCsv(got); csv != "Organization Name,Family Code,Family Name,Created At,Health Post\n" {
		t.Errorf("RenderCsv() = %q", csv)
	}
}

func TestListSnapshotsByFamily(t *testing.T) {
	snaps := &fakeSnapshots{snapshots: sampleSnapshots()}
	svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}}, "Income")

	filter := fullRange()
	filter.FamilyID = ptr(int64(10))

	got, err := svc.ListSnapshotsByFamily(context.Background(), filter)
	if err != nil {
		t.Fatalf("ListSnapshotsByFamily() error = %v", err)
	}

	want := []FamilySnapshots{
		{
			FamilyID:    10,
			SurveyTitle: "Stoplight",
			Snapshots: Report{
				Headers: []string{"Created At", "Income", "Phone"},
				Rows: [][]string{
					{"2024-01-15", "1", "2"},
					{"2024-03-01", "3", ""},
				},
			},
		},
		{
			FamilyID:    10,
			SurveyTitle: "Health",
			Snapshots: Report{
				Headers: []string{"Created At", "Income", "Health Post"},
				Rows:    [][]string{{"2024-02-20", "", "3"}},
			},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListSnapshotsByFamily() mismatch (-want +got):\n%s", diff)
	}
}

func TestListSnapshotsByFamily_RequiresFamilyAndDates(t *testing.T) {
	snaps := &fakeSnapshots{snapshots: sampleSnapshots()}
	svc := newTestService(t, Stores{Snapshots: snaps, Surveys: &fakeSurveys{}})

	for _, filter := range []SnapshotFilter{fullRange(), {FamilyID: ptr(int64(10))}} {
		got, err := svc.ListSnapshotsByFamily(context.Background(), filter)
		if err != nil {
			t.Fatalf("ListSnapshotsByFamily() error = %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil result, got %v", got)
		}
	}
	if len(snaps.queries) != 0 {
		t.Errorf("expected no store query, got %d", len(snaps.queries))
	}
}

func TestListFamiliesByOrganization(t *testing.T) {
	families := newFakeFamilies(
		Family{ID: 1, Name: "Perez", OrganizationID: ptr(int64(2)), OrganizationName: "Beta"},
		Family{ID: 2, Name: "Acosta", OrganizationID: ptr(int64(1)), OrganizationName: "Alpha"},
		Family{ID: 3, Name: "Benitez", OrganizationID: ptr(int64(2)), OrganizationName: "Beta"},
		Family{ID: 4, Name: "Orphan"},
	)
	orgs := newFakeOrganizations(
		Organization{ID: 1, Name: "Alpha", Code: "A", Active: true},
		Organization{ID: 2, Name: "Beta", Code: "B", Description: "second"},
	)
	svc := newTestService(t, Stores{
		Snapshots:     &fakeSnapshots{},
		Surveys:       &fakeSurveys{},
		Families:      families,
		Organizations: orgs,
	})

	got, err := svc.ListFamiliesByOrganization(context.Background(), fullRange())
	if err != nil {
		t.Fatalf("ListFamiliesByOrganization() error = %v", err)
	}

	want := []OrganizationFamilies{
		{Name: "Alpha", Code: "A", Active: true, Families: []Family{families.families[2]}},
		{Name: "Beta", Code: "B", Description: "second", Families: []Family{families.families[3], families.families[1]}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ListFamiliesByOrganization() mismatch (-want +got):\n%s", diff)
	}

	if families.lastQuery.Filter.DateFrom == nil || families.lastQuery.Filter.DateTo == nil {
		t.Error("date range not passed to family store")
	}
}

func TestListFamiliesByOrganization_UnknownOrganization(t *testing.T) {
	families := newFakeFamilies(Family{ID: 1, Name: "Perez", OrganizationID: ptr(int64(9))})
	svc := newTestService(t, Stores{
		Snapshots:     &fakeSnapshots{},
		Surveys:       &fakeSurveys{},
		Families:      families,
		Organizations: newFakeOrganizations(),
	})

	_, err := svc.ListFamiliesByOrganization(context.Background(), fullRange())
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
