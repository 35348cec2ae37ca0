package core

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// DefaultDateLayout formats snapshot creation dates in reports.
const DefaultDateLayout = "2006-01-02"

// Options configures a Service.
type Options struct {
	// StaticProperties lists labels shown in every organization/family report.
	StaticProperties StaticPropertyProvider

	// DateLayout formats the "Created At" column (default: DefaultDateLayout).
	DateLayout string

	// MaxConcurrentReports bounds reports assembled at once
	// (default: DefaultMaxConcurrentReports).
	MaxConcurrentReports int

	// ReportWait is how long a report waits for a free slot
	// (default: DefaultReportWait).
	ReportWait time.Duration
}

// Service provides the core business logic: report assembly and the CRUD
// operations behind families, organizations and applications.
type Service struct {
	snapshots     SnapshotStore
	surveys       SurveyStore
	families      FamilyStore
	organizations OrganizationStore
	applications  ApplicationStore

	static     StaticPropertyProvider
	dateLayout string
	limiter    *ReportLimiter
}

// NewService creates a new Service instance.
func NewService(stores Stores, opts Options) (*Service, error) {
	if stores.Snapshots == nil || stores.Surveys == nil {
		return nil, errors.New("snapshot and survey stores are required")
	}

	static := opts.StaticProperties
	if static == nil {
		static = StaticProperties(nil)
	}

	layout := opts.DateLayout
	if layout == "" {
		layout = DefaultDateLayout
	}

	return &Service{
		snapshots:     stores.Snapshots,
		surveys:       stores.Surveys,
		families:      stores.Families,
		organizations: stores.Organizations,
		applications:  stores.Applications,
		static:        static,
		dateLayout:    layout,
		limiter:       NewReportLimiter(opts.MaxConcurrentReports, opts.ReportWait),
	}, nil
}

// reserve takes a report slot. The returned func releases it.
func (s *Service) reserve(ctx context.Context) (func(), error) {
	if err := s.limiter.Acquire(ctx); err != nil {
		return nil, fmt.Errorf("reserve report slot: %w", err)
	}
	return s.limiter.Release, nil
}

// WaitForReports blocks until in-flight reports finish or ctx ends.
func (s *Service) WaitForReports(ctx context.Context) error {
	return s.limiter.WaitForDrain(ctx)
}

// checkID rejects ids that can never exist.
func checkID(kind string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s id %d must be positive: %w", kind, id, ErrInvalidArgument)
	}
	return nil
}
