package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/stoplight/internal/logging"
)

// Economic survey keys read when a family is created from its first snapshot.
const (
	keyFamilyCountry   = "familyCountry"
	keyFamilyCity      = "familyCity"
	keyFamilyUbication = "familyUbication"
)

// familyCodeDateLayout is the birthdate part of a family code.
const familyCodeDateLayout = "20060102"

var errNoFamilyStore = errors.New("family store not configured")

// AddFamily stores a new family.
func (s *Service) AddFamily(ctx context.Context, f Family) (Family, error) {
	if s.families == nil {
		return Family{}, errNoFamilyStore
	}
	if f.Name == "" {
		return Family{}, fmt.Errorf("family name is required: %w", ErrInvalidArgument)
	}
	created, err := s.families.CreateFamily(ctx, f)
	if err != nil {
		return Family{}, fmt.Errorf("create family: %w", err)
	}
	return created, nil
}

// GetFamily returns a family by id.
func (s *Service) GetFamily(ctx context.Context, id int64) (Family, error) {
	if s.families == nil {
		return Family{}, errNoFamilyStore
	}
	if err := checkID("family", id); err != nil {
		return Family{}, err
	}
	f, err := s.families.GetFamily(ctx, id)
	if err != nil {
		return Family{}, fmt.Errorf("family %d: %w", id, err)
	}
	return f, nil
}

// ListFamilies returns every family.
func (s *Service) ListFamilies(ctx context.Context) ([]Family, error) {
	if s.families == nil {
		return nil, errNoFamilyStore
	}
	families, err := s.families.ListFamilies(ctx, FamilyQuery{})
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	return families, nil
}

// UpdateFamily replaces the editable fields of an existing family.
func (s *Service) UpdateFamily(ctx context.Context, id int64, changes Family) (Family, error) {
	existing, err := s.GetFamily(ctx, id)
	if err != nil {
		return Family{}, err
	}

	updated := applyFamilyChanges(existing, changes)
	saved, err := s.families.UpdateFamily(ctx, updated)
	if err != nil {
		return Family{}, fmt.Errorf("update family %d: %w", id, err)
	}

	logging.FromContext(ctx).Debug("family updated", "family_id", id, "code", saved.Code)
	return saved, nil
}

// applyFamilyChanges copies the editable fields from changes onto existing.
// Identity and creation time are never taken from the request.
func applyFamilyChanges(existing, changes Family) Family {
	existing.Code = changes.Code
	existing.Name = changes.Name
	existing.OrganizationID = changes.OrganizationID
	existing.ApplicationID = changes.ApplicationID
	existing.PersonID = changes.PersonID
	existing.Country = changes.Country
	existing.City = changes.City
	existing.LocationGPS = changes.LocationGPS
	existing.Active = changes.Active
	return existing
}

// DeleteFamily deactivates a family. Families are never removed because
// snapshots keep referring to them.
func (s *Service) DeleteFamily(ctx context.Context, id int64) error {
	if _, err := s.GetFamily(ctx, id); err != nil {
		return err
	}
	if err := s.families.SetFamilyActive(ctx, id, false); err != nil {
		return fmt.Errorf("deactivate family %d: %w", id, err)
	}
	logging.FromContext(ctx).Debug("family deactivated", "family_id", id)
	return nil
}

// ListFamiliesForUser lists families visible to user. The user's
// application always applies; their organization replaces the filter's
// organization when set.
func (s *Service) ListFamiliesForUser(ctx context.Context, filter FamilyFilter, user UserDetails) ([]Family, error) {
	if s.families == nil {
		return nil, errNoFamilyStore
	}
	scopeToUser(&filter, user)
	families, err := s.families.ListFamilies(ctx, FamilyQuery{Filter: filter})
	if err != nil {
		return nil, fmt.Errorf("list families: %w", err)
	}
	return families, nil
}

// CountFamiliesForUser counts the families visible to user.
func (s *Service) CountFamiliesForUser(ctx context.Context, user UserDetails) (int64, error) {
	var filter FamilyFilter
	scopeToUser(&filter, user)
	return s.CountFamilies(ctx, filter)
}

// CountFamilies counts the families matching filter.
func (s *Service) CountFamilies(ctx context.Context, filter FamilyFilter) (int64, error) {
	if s.families == nil {
		return 0, errNoFamilyStore
	}
	n, err := s.families.CountFamilies(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count families: %w", err)
	}
	return n, nil
}

func scopeToUser(filter *FamilyFilter, user UserDetails) {
	filter.ApplicationID = user.ApplicationID
	if user.OrganizationID != nil {
		filter.OrganizationID = user.OrganizationID
	}
}

// GenerateFamilyCode builds the family code for the head of a family:
// country of birth, initials and birthdate, e.g. "PY.JP.19800102".
func GenerateFamilyCode(p Person) (string, error) {
	if p.FirstName == "" || p.LastName == "" || p.CountryOfBirth == "" || p.Birthdate.IsZero() {
		return "", fmt.Errorf("person needs names, country of birth and birthdate: %w", ErrInvalidArgument)
	}
	return fmt.Sprintf("%s.%s%s.%s",
		p.CountryOfBirth,
		initial(p.FirstName),
		initial(p.LastName),
		p.Birthdate.Format(familyCodeDateLayout),
	), nil
}

func initial(name string) string {
	r, _ := utf8.DecodeRuneInString(name)
	return strings.ToUpper(string(r))
}

// GetOrCreateFamily returns the family whose code matches the person, or
// creates it from the person and the snapshot's economic answers.
func (s *Service) GetOrCreateFamily(ctx context.Context, user UserDetails, nf NewFamily) (Family, error) {
	if s.families == nil {
		return Family{}, errNoFamilyStore
	}
	code, err := GenerateFamilyCode(nf.Person)
	if err != nil {
		return Family{}, err
	}

	existing, err := s.families.GetFamilyByCode(ctx, code)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return Family{}, fmt.Errorf("family %s: %w", code, err)
	}

	f := Family{
		Code:          code,
		Name:          nf.Person.FirstName + " " + nf.Person.LastName,
		ApplicationID: user.ApplicationID,
		Country:       nf.EconomicData.GetString(keyFamilyCountry),
		City:          nf.EconomicData.GetString(keyFamilyCity),
		LocationGPS:   nf.EconomicData.GetString(keyFamilyUbication),
		Active:        true,
	}
	if nf.Person.ID > 0 {
		id := nf.Person.ID
		f.PersonID = &id
	}

	if nf.OrganizationID != nil {
		org, err := s.organization(ctx, *nf.OrganizationID)
		if err != nil {
			return Family{}, err
		}
		orgID := org.ID
		f.OrganizationID = &orgID
		f.OrganizationName = org.Name
		f.ApplicationID = org.ApplicationID
	}

	created, err := s.families.CreateFamily(ctx, f)
	if err != nil {
		return Family{}, fmt.Errorf("create family %s: %w", code, err)
	}

	logging.FromContext(ctx).Info("family created from snapshot", "family_id", created.ID, "code", code)
	return created, nil
}

// SearchFamiliesByUser returns the distinct families user has taken
// snapshots of whose name or code contains term, ignoring case.
// An empty term matches every family.
func (s *Service) SearchFamiliesByUser(ctx context.Context, user UserDetails, term string) ([]Family, error) {
	if s.families == nil {
		return nil, errNoFamilyStore
	}
	if err := checkID("user", user.UserID); err != nil {
		return nil, err
	}

	families, err := s.families.ListFamiliesWithSnapshotsByUser(ctx, user.UserID)
	if err != nil {
		return nil, fmt.Errorf("families of user %d: %w", user.UserID, err)
	}

	term = strings.ToLower(term)
	seen := make(map[int64]bool)
	result := []Family{}
	for _, f := range families {
		if seen[f.ID] {
			continue
		}
		if strings.Contains(strings.ToLower(f.Name), term) || strings.Contains(strings.ToLower(f.Code), term) {
			seen[f.ID] = true
			result = append(result, f)
		}
	}
	return result, nil
}
