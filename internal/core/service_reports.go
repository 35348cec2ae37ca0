package core

import (
	"context"
	"fmt"
	"time"

	"github.com/JonMunkholm/stoplight/internal/logging"
)

// byOrganizationFamilyDate groups report rows by organization, then family,
// oldest snapshot first. Row order in the rendered report follows it.
var byOrganizationFamilyDate = []SortSpec{
	{Column: SortOrganizationName, Dir: "asc"},
	{Column: SortFamilyName, Dir: "asc"},
	{Column: SortCreatedAt, Dir: "asc"},
}

var byCreatedAt = []SortSpec{{Column: SortCreatedAt, Dir: "asc"}}

// BuildFamilyListingReport builds the organization/family report for all
// snapshots created in the filter's date range, optionally narrowed by
// application and organization.
//
// Headers are the default prefix, the static property labels, and every
// answer key found in the snapshots in first-seen order. Without a complete
// date range the report has headers only.
func (s *Service) BuildFamilyListingReport(ctx context.Context, filter SnapshotFilter) (Report, error) {
	var snapshots []Snapshot

	if filter.hasDateRange() {
		release, err := s.reserve(ctx)
		if err != nil {
			return Report{}, err
		}
		defer release()

		q := SnapshotQuery{
			Filter: SnapshotFilter{
				ApplicationID:  filter.ApplicationID,
				OrganizationID: filter.OrganizationID,
				DateFrom:       filter.DateFrom,
				DateTo:         filter.DateTo,
			},
			Sort: byOrganizationFamilyDate,
		}

		snapshots, err = s.snapshots.FindSnapshots(ctx, q)
		if err != nil {
			return Report{}, fmt.Errorf("find snapshots: %w", err)
		}
	}

	report := buildReport(reportShape{
		prefix: DefaultHeaders,
		static: s.static.StaticPropertyNames(),
		inject: s.familyContext,
	}, snapshots)

	logging.FromContext(ctx).Debug("family listing report built",
		"headers", len(report.Headers),
		"rows", len(report.Rows),
	)

	return report, nil
}

// BuildSurveyCsvReport builds the export for one survey definition. Columns
// follow the survey's personal, economic and indicator field order.
//
// The survey id is required and must resolve; an unknown survey aborts the
// report. Without a complete date range the report has headers only.
func (s *Service) BuildSurveyCsvReport(ctx context.Context, filter SnapshotFilter) (Report, error) {
	if filter.SurveyID == nil {
		return Report{}, fmt.Errorf("survey id is required: %w", ErrInvalidFilter)
	}

	survey, err := s.surveys.GetSurvey(ctx, *filter.SurveyID)
	if err != nil {
		return Report{}, fmt.Errorf("survey %d: %w", *filter.SurveyID, err)
	}

	var snapshots []Snapshot
	if filter.hasDateRange() {
		release, err := s.reserve(ctx)
		if err != nil {
			return Report{}, err
		}
		defer release()

		q := SnapshotQuery{
			Filter: SnapshotFilter{
				ApplicationID:  filter.ApplicationID,
				OrganizationID: filter.OrganizationID,
				SurveyID:       filter.SurveyID,
				DateFrom:       filter.DateFrom,
				DateTo:         filter.DateTo,
			},
			Sort: byOrganizationFamilyDate,
		}

		snapshots, err = s.snapshots.FindSnapshots(ctx, q)
		if err != nil {
			return Report{}, fmt.Errorf("find snapshots: %w", err)
		}
	}

	report := buildReport(reportShape{
		prefix: DefaultHeaders,
		schema: &survey,
		inject: s.familyContext,
	}, snapshots)

	logging.FromContext(ctx).Debug("survey report built",
		"survey_id", survey.ID,
		"headers", len(report.Headers),
		"rows", len(report.Rows),
	)

	return report, nil
}

// ListSnapshotsByFamily returns one history report per survey the family
// answered in the date range, oldest snapshot first. Surveys appear in the
// order of their first snapshot. Without a family id and complete date
// range the result is empty.
func (s *Service) ListSnapshotsByFamily(ctx context.Context, filter SnapshotFilter) ([]FamilySnapshots, error) {
	result := []FamilySnapshots{}
	if filter.FamilyID == nil || !filter.hasDateRange() {
		return result, nil
	}

	release, err := s.reserve(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	snapshots, err := s.snapshots.FindSnapshots(ctx, SnapshotQuery{
		Filter: SnapshotFilter{
			FamilyID: filter.FamilyID,
			DateFrom: filter.DateFrom,
			DateTo:   filter.DateTo,
		},
		Sort: byCreatedAt,
	})
	if err != nil {
		return nil, fmt.Errorf("find snapshots: %w", err)
	}

	type surveyGroup struct {
		title     string
		snapshots []Snapshot
	}
	var order []int64
	groups := make(map[int64]*surveyGroup)
	for _, snap := range snapshots {
		g, ok := groups[snap.SurveyID]
		if !ok {
			g = &surveyGroup{title: snap.SurveyTitle}
			groups[snap.SurveyID] = g
			order = append(order, snap.SurveyID)
		}
		g.snapshots = append(g.snapshots, snap)
	}

	shape := reportShape{
		prefix: historyHeaders,
		static: s.static.StaticPropertyNames(),
		inject: s.historyContext,
	}
	for _, id := range order {
		g := groups[id]
		result = append(result, FamilySnapshots{
			FamilyID:    *filter.FamilyID,
			SurveyTitle: g.title,
			Snapshots:   buildReport(shape, g.snapshots),
		})
	}

	return result, nil
}

// ListFamiliesByOrganization returns the families created in the date range
// grouped under their organization, organizations in name order. Families
// without an organization are left out.
func (s *Service) ListFamiliesByOrganization(ctx context.Context, filter SnapshotFilter) ([]OrganizationFamilies, error) {
	if s.families == nil {
		return nil, errNoFamilyStore
	}

	families, err := s.families.ListFamilies(ctx, FamilyQuery{
		Filter: FamilyFilter{
			ApplicationID:  filter.ApplicationID,
			OrganizationID: filter.OrganizationID,
			DateFrom:       filter.DateFrom,
			DateTo:         filter.DateTo,
		},
		Sort: []SortSpec{
			{Column: SortOrganizationName, Dir: "asc"},
			{Column: SortFamilyName, Dir: "asc"},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}

	result := []OrganizationFamilies{}
	index := make(map[int64]int)
	for _, f := range families {
		if f.OrganizationID == nil {
			continue
		}
		i, ok := index[*f.OrganizationID]
		if !ok {
			org, err := s.organization(ctx, *f.OrganizationID)
			if err != nil {
				return nil, err
			}
			result = append(result, OrganizationFamilies{
				Name:        org.Name,
				Code:        org.Code,
				Description: org.Description,
				Active:      org.Active,
				Families:    []Family{},
			})
			i = len(result) - 1
			index[*f.OrganizationID] = i
		}
		result[i].Families = append(result[i].Families, f)
	}

	return result, nil
}

// organization resolves an organization for grouping.
func (s *Service) organization(ctx context.Context, id int64) (Organization, error) {
	if s.organizations == nil {
		return Organization{ID: id}, nil
	}
	org, err := s.organizations.GetOrganization(ctx, id)
	if err != nil {
		return Organization{}, fmt.Errorf("organization %d: %w", id, err)
	}
	return org, nil
}

// RenderCsv renders a report as delimited text.
func (s *Service) RenderCsv(report Report) string {
	return RenderCsv(report)
}

// familyContext injects the organization and family columns.
func (s *Service) familyContext(snap Snapshot) []contextField {
	return []contextField{
		{key: keyOrganizationName, value: snap.OrganizationName},
		{key: keyFamilyCode, value: snap.FamilyCode},
		{key: keyFamilyName, value: snap.FamilyName},
		{key: keyCreatedAt, value: s.formatDate(snap.CreatedAt)},
	}
}

// historyContext injects the creation date only.
func (s *Service) historyContext(snap Snapshot) []contextField {
	return []contextField{
		{key: keyCreatedAt, value: s.formatDate(snap.CreatedAt)},
	}
}

func (s *Service) formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(s.dateLayout)
}
