package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/stoplight/internal/core"
)

const snapshotSelect = `SELECT s.id, s.survey_id, sv.title, s.family_id, f.code, f.name,
		f.organization_id, o.name, f.application_id, s.user_id, s.created_at, s.indicators
	FROM snapshots s
	JOIN surveys sv ON sv.id = s.survey_id
	JOIN families f ON f.id = s.family_id
	LEFT JOIN organizations o ON o.id = f.organization_id`

var snapshotSortColumns = map[string]sortColumn{
	core.SortOrganizationName: {alias: "o", column: "name"},
	core.SortFamilyName:       {alias: "f", column: "name"},
	core.SortCreatedAt:        {alias: "s", column: "created_at"},
}

// FindSnapshots implements core.SnapshotStore.
func (s *Store) FindSnapshots(ctx context.Context, q core.SnapshotQuery) ([]core.Snapshot, error) {
	f := q.Filter

	wb := NewWhereBuilder()
	wb.Add("f.application_id", f.ApplicationID)
	wb.Add("f.organization_id", f.OrganizationID)
	wb.Add("s.survey_id", f.SurveyID)
	wb.Add("s.family_id", f.FamilyID)
	wb.AddTimestampRange("s.created_at", f.DateFrom, f.DateTo)
	whereClause, args := wb.Build()

	query := snapshotSelect + whereClause + orderBy(q.Sort, snapshotSortColumns, "s.id")

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]core.Snapshot, 0)
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read snapshots: %w", err)
	}

	return snapshots, nil
}

// scanSnapshot maps one snapshotSelect row.
func scanSnapshot(row pgx.Row) (core.Snapshot, error) {
	var (
		snap    core.Snapshot
		orgName pgtype.Text
		answers []byte
	)
	err := row.Scan(
		&snap.ID,
		&snap.SurveyID,
		&snap.SurveyTitle,
		&snap.FamilyID,
		&snap.FamilyCode,
		&snap.FamilyName,
		&snap.OrganizationID,
		&orgName,
		&snap.ApplicationID,
		&snap.UserID,
		&snap.CreatedAt,
		&answers,
	)
	if err != nil {
		return core.Snapshot{}, fmt.Errorf("scan snapshot: %w", err)
	}
	if orgName.Valid {
		snap.OrganizationName = orgName.String
	}

	data := core.NewSurveyData()
	if err := json.Unmarshal(answers, data); err != nil {
		return core.Snapshot{}, fmt.Errorf("snapshot %d answers: %w", snap.ID, err)
	}
	snap.Indicators = data

	return snap, nil
}
