// Package store implements the core store interfaces on PostgreSQL via pgx.
//
// Snapshot answers live in a json column rather than jsonb: json keeps the
// document text as written, so the key order reports rely on survives the
// round trip.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// DBTX is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the stores use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// Store implements every core store interface against one database.
type Store struct {
	db DBTX
}

// New returns a Store using db.
func New(db DBTX) *Store {
	return &Store{db: db}
}

// Stores returns the core collaborators backed by s. Survey lookups go
// through surveys when non-nil, so callers can put a cache in front.
func (s *Store) Stores(surveys core.SurveyStore) core.Stores {
	if surveys == nil {
		surveys = s
	}
	return core.Stores{
		Snapshots:     s,
		Surveys:       surveys,
		Families:      s,
		Organizations: s,
		Applications:  s,
	}
}

// Postgres error codes the stores translate.
const (
	pgForeignKeyViolation = "23503"
)

// notFound converts pgx.ErrNoRows into core.ErrNotFound.
func notFound(err error, kind string, id interface{}) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %v: %w", kind, id, core.ErrNotFound)
	}
	return err
}

// stillReferenced reports whether err is a foreign key violation, which on
// delete means other rows still point at the record.
func stillReferenced(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

// sortColumn is a sortable column qualified by its table alias.
type sortColumn struct {
	alias  string
	column string
}

// orderBy builds an ORDER BY clause from specs, ignoring unknown columns.
// tiebreak is always appended so results are deterministic.
func orderBy(specs []core.SortSpec, columns map[string]sortColumn, tiebreak string) string {
	parts := make([]string, 0, len(specs)+1)
	for _, spec := range specs {
		col, ok := columns[spec.Column]
		if !ok {
			continue
		}
		dir := strings.ToLower(spec.Dir)
		if dir != "asc" && dir != "desc" {
			dir = "asc"
		}
		parts = append(parts, fmt.Sprintf("%s.%s %s", col.alias, quoteIdentifier(col.column), dir))
	}
	parts = append(parts, tiebreak)
	return " ORDER BY " + strings.Join(parts, ", ")
}
