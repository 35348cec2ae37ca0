package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JonMunkholm/stoplight/internal/core"
)

const applicationSelect = `SELECT id, name, code, description, active, created_at
	FROM applications`

// GetApplication implements core.ApplicationStore.
func (s *Store) GetApplication(ctx context.Context, id int64) (core.Application, error) {
	a, err := scanApplication(s.db.QueryRow(ctx, applicationSelect+" WHERE id = $1", id))
	if err != nil {
		return core.Application{}, notFound(err, "application", id)
	}
	return a, nil
}

// ListApplications implements core.ApplicationStore.
func (s *Store) ListApplications(ctx context.Context) ([]core.Application, error) {
	rows, err := s.db.Query(ctx, applicationSelect+" ORDER BY name, id")
	if err != nil {
		return nil, fmt.Errorf("query applications: %w", err)
	}
	defer rows.Close()

	apps := make([]core.Application, 0)
	for rows.Next() {
		a, err := scanApplication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan application: %w", err)
		}
		apps = append(apps, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read applications: %w", err)
	}
	return apps, nil
}

// CreateApplication implements core.ApplicationStore.
func (s *Store) CreateApplication(ctx context.Context, a core.Application) (core.Application, error) {
	err := s.db.QueryRow(ctx,
		`INSERT INTO applications (name, code, description, active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`,
		a.Name, a.Code, a.Description, a.Active,
	).Scan(&a.ID, &a.CreatedAt)
	if err != nil {
		return core.Application{}, fmt.Errorf("insert application: %w", err)
	}
	return a, nil
}

// UpdateApplication implements core.ApplicationStore.
func (s *Store) UpdateApplication(ctx context.Context, a core.Application) (core.Application, error) {
	tag, err := s.db.Exec(ctx,
		`UPDATE applications SET name = $2, code = $3, description = $4, active = $5
		WHERE id = $1`,
		a.ID, a.Name, a.Code, a.Description, a.Active,
	)
	if err != nil {
		return core.Application{}, fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.Application{}, fmt.Errorf("application %d: %w", a.ID, core.ErrNotFound)
	}
	return a, nil
}

// DeleteApplication implements core.ApplicationStore.
func (s *Store) DeleteApplication(ctx context.Context, id int64) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM applications WHERE id = $1`, id)
	if err != nil {
		if stillReferenced(err) {
			return fmt.Errorf("application %d still has organizations or families: %w", id, core.ErrInvalidArgument)
		}
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("application %d: %w", id, core.ErrNotFound)
	}
	return nil
}

func scanApplication(row pgx.Row) (core.Application, error) {
	var a core.Application
	err := row.Scan(&a.ID, &a.Name, &a.Code, &a.Description, &a.Active, &a.CreatedAt)
	return a, err
}
