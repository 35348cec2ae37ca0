package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/stoplight/internal/logging"
)

var errNoApplicationStore = errors.New("application store not configured")

// AddApplication stores a new application.
func (s *Service) AddApplication(ctx context.Context, a Application) (Application, error) {
	if s.applications == nil {
		return Application{}, errNoApplicationStore
	}
	if a.Name == "" {
		return Application{}, fmt.Errorf("application name is required: %w", ErrInvalidArgument)
	}

	created, err := s.applications.CreateApplication(ctx, a)
	if err != nil {
		return Application{}, fmt.Errorf("create application: %w", err)
	}

	logging.FromContext(ctx).Debug("application created", "application_id", created.ID, "code", created.Code)
	return created, nil
}

// GetApplication returns an application by id.
func (s *Service) GetApplication(ctx context.Context, id int64) (Application, error) {
	if s.applications == nil {
		return Application{}, errNoApplicationStore
	}
	if err := checkID("application", id); err != nil {
		return Application{}, err
	}
	app, err := s.applications.GetApplication(ctx, id)
	if err != nil {
		return Application{}, fmt.Errorf("application %d: %w", id, err)
	}
	return app, nil
}

// ListApplications returns every application.
func (s *Service) ListApplications(ctx context.Context) ([]Application, error) {
	if s.applications == nil {
		return nil, errNoApplicationStore
	}
	apps, err := s.applications.ListApplications(ctx)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	return apps, nil
}

// UpdateApplication replaces the editable fields of an existing application.
func (s *Service) UpdateApplication(ctx context.Context, id int64, changes Application) (Application, error) {
	existing, err := s.GetApplication(ctx, id)
	if err != nil {
		return Application{}, err
	}

	existing.Name = changes.Name
	existing.Code = changes.Code
	existing.Description = changes.Description
	existing.Active = changes.Active

	saved, err := s.applications.UpdateApplication(ctx, existing)
	if err != nil {
		return Application{}, fmt.Errorf("update application %d: %w", id, err)
	}
	return saved, nil
}

// DeleteApplication removes an application.
func (s *Service) DeleteApplication(ctx context.Context, id int64) error {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return err
	}
	if err := s.applications.DeleteApplication(ctx, id); err != nil {
		return fmt.Errorf("delete application %d: %w", id, err)
	}
	logging.FromContext(ctx).Info("application deleted", "application_id", id)
	return nil
}
