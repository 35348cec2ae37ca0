package store

import (
	"context"

	"github.com/JonMunkholm/stoplight/internal/core"
)

// GetSurvey implements core.SurveyStore.
func (s *Store) GetSurvey(ctx context.Context, id int64) (core.SurveyDefinition, error) {
	var sv core.SurveyDefinition
	err := s.db.QueryRow(ctx,
		`SELECT id, title, description, personal_fields, economic_fields, indicator_fields
		FROM surveys WHERE id = $1`, id,
	).Scan(&sv.ID, &sv.Title, &sv.Description, &sv.PersonalFields, &sv.EconomicFields, &sv.IndicatorFields)
	if err != nil {
		return core.SurveyDefinition{}, notFound(err, "survey", id)
	}
	return sv, nil
}
