package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/JonMunkholm/stoplight/internal/core"
)

const familySelect = `SELECT f.id, f.code, f.name, f.organization_id, o.name, f.application_id,
		f.person_id, f.country, f.city, f.location_gps, f.active, f.created_at
	FROM families f
	LEFT JOIN organizations o ON o.id = f.organization_id`

var familySortColumns = map[string]sortColumn{
	core.SortOrganizationName: {alias: "o", column: "name"},
	core.SortFamilyName:       {alias: "f", column: "name"},
	core.SortCreatedAt:        {alias: "f", column: "created_at"},
}

// GetFamily implements core.FamilyStore.
func (s *Store) GetFamily(ctx context.Context, id int64) (core.Family, error) {
	f, err := scanFamily(s.db.QueryRow(ctx, familySelect+" WHERE f.id = $1", id))
	if err != nil {
		return core.Family{}, notFound(err, "family", id)
	}
	return f, nil
}

// GetFamilyByCode implements core.FamilyStore.
func (s *Store) GetFamilyByCode(ctx context.Context, code string) (core.Family, error) {
	f, err := scanFamily(s.db.QueryRow(ctx, familySelect+" WHERE f.code = $1", code))
	if err != nil {
		return core.Family{}, notFound(err, "family", code)
	}
	return f, nil
}

// familyWhere translates a family filter.
func familyWhere(f core.FamilyFilter) *WhereBuilder {
	wb := NewWhereBuilder()
	wb.Add("f.application_id", f.ApplicationID)
	wb.Add("f.organization_id", f.OrganizationID)
	wb.AddSearch(f.Name, "f.name", "f.code")
	wb.AddTimestampRange("f.created_at", f.DateFrom, f.DateTo)
	if f.ActiveOnly {
		wb.AddRaw("f.active")
	}
	return wb
}

// ListFamilies implements core.FamilyStore.
func (s *Store) ListFamilies(ctx context.Context, q core.FamilyQuery) ([]core.Family, error) {
	whereClause, args := familyWhere(q.Filter).Build()
	query := familySelect + whereClause + orderBy(q.Sort, familySortColumns, "f.id")
	return s.queryFamilies(ctx, query, args...)
}

// CountFamilies implements core.FamilyStore.
func (s *Store) CountFamilies(ctx context.Context, filter core.FamilyFilter) (int64, error) {
	whereClause, args := familyWhere(filter).Build()
	var n int64
	err := s.db.QueryRow(ctx, "SELECT COUNT(*) FROM families f"+whereClause, args...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count families: %w", err)
	}
	return n, nil
}

// CreateFamily implements core.FamilyStore.
func (s *Store) CreateFamily(ctx context.Context, f core.Family) (core.Family, error) {
	var id int64
	err := s.db.QueryRow(ctx,
		`INSERT INTO families (code, name, organization_id, application_id, person_id,
			country, city, location_gps, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		f.Code, f.Name, f.OrganizationID, f.ApplicationID, f.PersonID,
		f.Country, f.City, f.LocationGPS, f.Active,
	).Scan(&id)
	if err != nil {
		return core.Family{}, fmt.Errorf("insert family: %w", err)
	}
	return s.GetFamily(ctx, id)
}

// UpdateFamily implements core.FamilyStore.
func (s *Store) UpdateFamily(ctx context.Context, f core.Family) (core.Family, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE families SET code = $2, name = $3, organization_id = $4, application_id = $5,
			person_id = $6, country = $7, city = $8, location_gps = $9, active = $10
		WHERE id = $1`,
		f.ID, f.Code, f.Name, f.OrganizationID, f.ApplicationID,
		f.PersonID, f.Country, f.City, f.LocationGPS, f.Active,
	)
	if err != nil {
		return core.Family{}, fmt.Errorf("update family: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Family{}, fmt.Errorf("family %d: %w", f.ID, core.ErrNotFound)
	}
	return s.GetFamily(ctx, f.ID)
}

// SetFamilyActive implements core.FamilyStore.
func (s *Store) SetFamilyActive(ctx context.Context, id int64, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE families SET active = $2 WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("update family: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("family %d: %w", id, core.ErrNotFound)
	}
	return nil
}

// ListFamiliesWithSnapshotsByUser implements core.FamilyStore.
func (s *Store) ListFamiliesWithSnapshotsByUser(ctx context.Context, userID int64) ([]core.Family, error) {
	query := familySelect + `
	WHERE EXISTS (SELECT 1 FROM snapshots s WHERE s.family_id = f.id AND s.user_id = $1)
	ORDER BY f.name, f.id`
	return s.queryFamilies(ctx, query, userID)
}

func (s *Store) queryFamilies(ctx context.Context, query string, args ...interface{}) ([]core.Family, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query families: %w", err)
	}
	defer rows.Close()

	families := make([]core.Family, 0)
	for rows.Next() {
		f, err := scanFamily(rows)
		if err != nil {
			return nil, fmt.Errorf("scan family: %w", err)
		}
		families = append(families, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read families: %w", err)
	}
	return families, nil
}

// scanFamily maps one familySelect row. Errors are returned unwrapped so
// callers can detect pgx.ErrNoRows.
func scanFamily(row pgx.Row) (core.Family, error) {
	var (
		f       core.Family
		orgName pgtype.Text
	)
	err := row.Scan(
		&f.ID,
		&f.Code,
		&f.Name,
		&f.OrganizationID,
		&orgName,
		&f.ApplicationID,
		&f.PersonID,
		&f.Country,
		&f.City,
		&f.LocationGPS,
		&f.Active,
		&f.CreatedAt,
	)
	if err != nil {
		return core.Family{}, err
	}
	if orgName.Valid {
		f.OrganizationName = orgName.String
	}
	return f, nil
}
