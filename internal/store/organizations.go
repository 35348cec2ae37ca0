package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/stoplight/internal/core"
)

const organizationSelect = `SELECT id, application_id, name, code, description, active, created_at
	FROM organizations`

// GetOrganization implements core.OrganizationStore.
func (s *Store) GetOrganization(ctx context.Context, id int64) (core.Organization, error) {
	o, err := scanOrganization(s.db.QueryRow(ctx, organizationSelect+" WHERE id = $1", id))
	if err != nil {
		return core.Organization{}, notFound(err, "organization", id)
	}
	return o, nil
}

// ListOrganizations implements core.OrganizationStore.
func (s *Store) ListOrganizations(ctx context.Context) ([]core.Organization, error) {
	rows, err := s.db.Query(ctx, organizationSelect+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("query organizations: %w", err)
	}
	defer rows.Close()

	orgs := make([]core.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, fmt.Errorf("scan organization: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read organizations: %w", err)
	}
	return orgs, nil
}

// CreateOrganization implements core.OrganizationStore.
func (s *Store) CreateOrganization(ctx context.Context, o core.Organization) (core.Organization, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO organizations (application_id, name, code, description, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`,
		o.ApplicationID, o.Name, o.Code, o.Description, o.Active,
	).Scan(&o.ID, &o.CreatedAt)
	if err != nil {
		return core.Organization{}, fmt.Errorf("insert organization: %w", err)
	}
	return o, nil
}

// UpdateOrganization implements core.OrganizationStore.
func (s *Store) UpdateOrganization(ctx context.Context, o core.Organization) (core.Organization, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE organizations SET application_id = $2, name = $3, code = $4,
			description = $5, active = $6
		WHERE id = $1`,
		o.ID, o.ApplicationID, o.Name, o.Code, o.Description, o.Active,
	)
	if err != nil {
		return core.Organization{}, fmt.Errorf("update organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Organization{}, fmt.Errorf("organization %d: %w", o.ID, core.ErrNotFound)
	}
	return o, nil
}

// DeleteOrganization implements core.OrganizationStore.
func (s *Store) DeleteOrganization(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM organizations WHERE id = $1`, id)
	if err != nil {
		if stillReferenced(err) {
			return fmt.Errorf("organization %d still has families: %w", id, core.ErrInvalidArgument)
		}
		return fmt.Errorf("delete organization: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("organization %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanOrganization(row pgx.Row) (core.Organization, error) {
	var o core.Organization
	err := row.Scan(&o.ID, &o.ApplicationID, &o.Name, &o.Code, &o.Description, &o.Active, &o.CreatedAt)
	return o, err
}
