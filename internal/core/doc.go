// Package core provides the business logic for family survey reporting.
//
// This package turns stored survey snapshots into tabular reports, independent
// of any UI or transport layer. It can be used by web handlers, the CLI, or
// tests without modification.
//
// # Architecture
//
// The package is organized around several key concepts:
//
//   - Survey Data: [SurveyData] is an ordered bag of answers. Key order is the
//     order the survey was filled in and drives column order in reports.
//   - Naming: [HeaderFromKey] and [KeyFromHeader] convert between camelCase
//     answer keys and the "Title Case" labels used as column headers.
//   - Stoplight: [TranscodeIndicator] replaces RED, YELLOW, GREEN and NONE
//     with their numeric codes in report cells.
//   - Service: The main entry point for reports and for the family,
//     organization and application records they group by.
//
// # Reports
//
// A [Report] is a header list plus positional rows. Two shapes exist:
//
//   - Organization/family listing: fixed context columns, the configured
//     static properties, then every answer key seen in the snapshots.
//   - Survey export: fixed context columns, then the survey definition's
//     personal, economic and indicator fields in declared order.
//
// Both shapes return headers only when the date range is incomplete:
//
//	report, err := svc.BuildSurveyCsvReport(ctx, core.SnapshotFilter{
//	    SurveyID: &surveyID,
//	    DateFrom: &from,
//	    DateTo:   &to,
//	})
//	csv := core.RenderCsv(report)
//
// # Error Handling
//
// Failures wrap [ErrNotFound], [ErrInvalidFilter] or [ErrInvalidArgument].
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - DB001-DB006: Database errors (duplicates, constraints, connections)
//   - RPT001-RPT003: Report filter errors and report capacity
//   - RES001-RES002: Unknown records and invalid ids
//   - REQ001-REQ002: Cancelled or timed out requests
package core
