package core

import (
	"time"
)

// Application is a tenant-like grouping of organizations.
type Application struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Code        string    `json:"code"`
	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Organization belongs to an application and owns families.
type Organization struct {
	ID            int64     `json:"id"`
	ApplicationID *int64    `json:"applicationId,omitempty"`
	Name          string    `json:"name"`
	Code          string    `json:"code"`
	Description   string    `json:"description,omitempty"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Person is the head of a family as captured by the first survey.
type Person struct {
	ID             int64     `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Birthdate      time.Time `json:"birthdate"`
	CountryOfBirth string    `json:"countryOfBirth"` // ISO 3166 alpha-2
}

// Family is a surveyed household.
type Family struct {
	ID               int64     `json:"id"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	OrganizationID   *int64    `json:"organizationId,omitempty"`
	OrganizationName string    `json:"organizationName,omitempty"`
	ApplicationID    *int64    `json:"applicationId,omitempty"`
	PersonID         *int64    `json:"personId,omitempty"`
	Country          string    `json:"country,omitempty"`
	City             string    `json:"city,omitempty"`
	LocationGPS      string    `json:"locationGps,omitempty"`
	Active           bool      `json:"active"`
	CreatedAt        time.Time `json:"createdAt"`
}

// SurveyDefinition is the subset of a survey's UI schema used for reporting:
// the canonical column order of each field group.
type SurveyDefinition struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description,omitempty"`
	PersonalFields  []string `json:"personalFields"`
	EconomicFields  []string `json:"economicFields"`
	IndicatorFields []string `json:"indicatorFields"`
}

// Snapshot is one filled survey for one family at one point in time.
// Family and organization fields are denormalized for reporting.
type Snapshot struct {
	ID               int64
	SurveyID         int64
	SurveyTitle      string
	FamilyID         int64
	FamilyCode       string
	FamilyName       string
	OrganizationID   *int64
	OrganizationName string
	ApplicationID    *int64
	UserID           *int64
	CreatedAt        time.Time
	Indicators       *SurveyData
}

// UserDetails identifies the caller and the tenant scope they belong to.
type UserDetails struct {
	UserID         int64  `json:"userId"`
	Username       string `json:"username"`
	ApplicationID  *int64 `json:"applicationId,omitempty"`
	OrganizationID *int64 `json:"organizationId,omitempty"`
}

// SnapshotFilter selects snapshots or families for a report.
// Nil fields match everything.
type SnapshotFilter struct {
	ApplicationID  *int64
	OrganizationID *int64
	SurveyID       *int64
	FamilyID       *int64
	DateFrom       *time.Time
	DateTo         *time.Time
}

// hasDateRange reports whether both ends of the date range are set.
func (f SnapshotFilter) hasDateRange() bool {
	return f.DateFrom != nil && f.DateTo != nil
}

// FamilyFilter narrows a family listing.
type FamilyFilter struct {
	ApplicationID  *int64
	OrganizationID *int64
	Name           string // case-insensitive substring of name or code
	DateFrom       *time.Time
	DateTo         *time.Time
	ActiveOnly     bool
}

// Sortable columns understood by the stores.
const (
	SortOrganizationName = "organization_name"
	SortFamilyName       = "family_name"
	SortCreatedAt        = "created_at"
)

// SortSpec represents a single sort column and direction.
type SortSpec struct {
	Column string // One of the Sort* constants
	Dir    string // "asc" or "desc"
}

// SnapshotQuery is what the report assembler asks the snapshot store for.
type SnapshotQuery struct {
	Filter SnapshotFilter
	Sort   []SortSpec
}

// FamilyQuery is what the family listings ask the family store for.
type FamilyQuery struct {
	Filter FamilyFilter
	Sort   []SortSpec
}

// Report is a tabular report: ordered headers and positional rows.
type Report struct {
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// FamilySnapshots is the snapshot history of one family for one survey.
type FamilySnapshots struct {
	FamilyID    int64  `json:"familyId"`
	SurveyTitle string `json:"surveyTitle"`
	Snapshots   Report `json:"snapshots"`
}

// OrganizationFamilies groups families under their organization.
type OrganizationFamilies struct {
	Name        string   `json:"name"`
	Code        string   `json:"code"`
	Description string   `json:"description,omitempty"`
	Active      bool     `json:"active"`
	Families    []Family `json:"families"`
}

// NewFamily carries what a new snapshot knows about the family it belongs to.
type NewFamily struct {
	Person         Person
	OrganizationID *int64
	EconomicData   *SurveyData
}
