package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/JonMunkholm/stoplight/internal/logging"
)

var errNoOrganizationStore = errors.New("organization store not configured")

// AddOrganization stores a new organization.
func (s *Service) AddOrganization(ctx context.Context, o Organization) (Organization, error) {
	if s.organizations == nil {
		return Organization{}, errNoOrganizationStore
	}
	if o.Name == "" {
		return Organization{}, fmt.Errorf("organization name is required: %w", ErrInvalidArgument)
	}

	created, err := s.organizations.CreateOrganization(ctx, o)
	if err != nil {
		return Organization{}, fmt.Errorf("create organization: %w", err)
	}

	logging.FromContext(ctx).Debug("organization created", "organization_id", created.ID, "code", created.Code)
	return created, nil
}

// GetOrganization returns an organization by id.
func (s *Service) GetOrganization(ctx context.Context, id int64) (Organization, error) {
	if s.organizations == nil {
		return Organization{}, errNoOrganizationStore
	}
	if err := checkID("organization", id); err != nil {
		return Organization{}, err
	}
	return s.organization(ctx, id)
}

// ListOrganizations returns every organization.
func (s *Service) ListOrganizations(ctx context.Context) ([]Organization, error) {
	if s.organizations == nil {
		return nil, errNoOrganizationStore
	}
	orgs, err := s.organizations.ListOrganizations(ctx)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

// UpdateOrganization replaces the editable fields of an existing organization.
func (s *Service) UpdateOrganization(ctx context.Context, id int64, changes Organization) (Organization, error) {
	existing, err := s.GetOrganization(ctx, id)
	if err != nil {
		return Organization{}, err
	}

	existing.ApplicationID = changes.ApplicationID
	existing.Name = changes.Name
	existing.Code = changes.Code
	existing.Description = changes.Description
	existing.Active = changes.Active

	saved, err := s.organizations.UpdateOrganization(ctx, existing)
	if err != nil {
		return Organization{}, fmt.Errorf("update organization %d: %w", id, err)
	}
	return saved, nil
}

// DeleteOrganization removes an organization.
func (s *Service) DeleteOrganization(ctx context.Context, id int64) error {
	if _, err := s.GetOrganization(ctx, id); err != nil {
		return err
	}
	if err := s.organizations.DeleteOrganization(ctx, id); err != nil {
		return fmt.Errorf("delete organization %d: %w", id, err)
	}
	logging.FromContext(ctx).Info("organization deleted", "organization_id", id)
	return nil
}
