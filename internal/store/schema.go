package store

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/stoplight/internal/logging"
)

// schema creates the reporting tables. Statements are idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS applications (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL,
		code        TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS organizations (
		id             BIGSERIAL PRIMARY KEY,
		application_id BIGINT REFERENCES applications(id),
		name           TEXT NOT NULL,
		code           TEXT NOT NULL DEFAULT '',
		description    TEXT NOT NULL DEFAULT '',
		active         BOOLEAN NOT NULL DEFAULT TRUE,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS families (
		id              BIGSERIAL PRIMARY KEY,
		code            TEXT NOT NULL UNIQUE,
		name            TEXT NOT NULL,
		organization_id BIGINT REFERENCES organizations(id),
		application_id  BIGINT REFERENCES applications(id),
		person_id       BIGINT,
		country         TEXT NOT NULL DEFAULT '',
		city            TEXT NOT NULL DEFAULT '',
		location_gps    TEXT NOT NULL DEFAULT '',
		active          BOOLEAN NOT NULL DEFAULT TRUE,
		created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS surveys (
		id               BIGSERIAL PRIMARY KEY,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		personal_fields  TEXT[] NOT NULL DEFAULT '{}',
		economic_fields  TEXT[] NOT NULL DEFAULT '{}',
		indicator_fields TEXT[] NOT NULL DEFAULT '{}',
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	// json, not jsonb: key order must survive.
	`CREATE TABLE IF NOT EXISTS snapshots (
		id         BIGSERIAL PRIMARY KEY,
		survey_id  BIGINT NOT NULL REFERENCES surveys(id),
		family_id  BIGINT NOT NULL REFERENCES families(id),
		user_id    BIGINT,
		indicators JSON NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS snapshots_created_at_idx ON snapshots (created_at)`,
	`CREATE INDEX IF NOT EXISTS snapshots_family_id_idx ON snapshots (family_id)`,
	`CREATE INDEX IF NOT EXISTS snapshots_user_id_idx ON snapshots (user_id)`,
	`CREATE INDEX IF NOT EXISTS families_organization_id_idx ON families (organization_id)`,
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db DBTX) error {
	for i, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	logging.FromContext(ctx).Info("schema ready", "statements", len(schema))
	return nil
}
