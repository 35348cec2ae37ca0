package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/stoplight/internal/core"
	"github.com/JonMunkholm/stoplight/internal/logging"
)

// flagDateLayout is the layout of --from and --to.
const flagDateLayout = "2006-01-02"

// reportFlags are shared by the export subcommands.
type reportFlags struct {
	from   string
	to     string
	app    int64
	org    int64
	survey int64
	family int64
	out    string
	escape bool
}

func (f *reportFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.from, "from", "", "first day of the range, YYYY-MM-DD (required)")
	fl.StringVar(&f.to, "to", "", "last day of the range, inclusive, YYYY-MM-DD (required)")
	fl.Int64Var(&f.app, "app", 0, "only this application id")
	fl.Int64Var(&f.org, "org", 0, "only this organization id")
	fl.StringVarP(&f.out, "out", "o", "", "write to this file instead of stdout")
	fl.BoolVar(&f.escape, "escape", false, "quote cells containing commas, quotes or newlines (default from REPORT_CSV_ESCAPE)")
	cmd.MarkFlagRequired("from")
	cmd.MarkFlagRequired("to")
}

// filter converts the flags into a report filter. Zero ids mean unset.
func (f *reportFlags) filter() (core.SnapshotFilter, error) {
	from, err := time.Parse(flagDateLayout, strings.TrimSpace(f.from))
	if err != nil {
		return core.SnapshotFilter{}, fmt.Errorf("--from %q: invalid date: %w", f.from, core.ErrInvalidArgument)
	}
	to, err := time.Parse(flagDateLayout, strings.TrimSpace(f.to))
	if err != nil {
		return core.SnapshotFilter{}, fmt.Errorf("--to %q: invalid date: %w", f.to, core.ErrInvalidArgument)
	}
	if to.Before(from) {
		return core.SnapshotFilter{}, fmt.Errorf("--to is before --from: %w", core.ErrInvalidFilter)
	}
	to = to.AddDate(0, 0, 1).Add(-time.Microsecond)

	return core.SnapshotFilter{
		ApplicationID:  optionalID(f.app),
		OrganizationID: optionalID(f.org),
		SurveyID:       optionalID(f.survey),
		FamilyID:       optionalID(f.family),
		DateFrom:       &from,
		DateTo:         &to,
	}, nil
}

func optionalID(id int64) *int64 {
	if id <= 0 {
		return nil
	}
	return &id
}

// buildFunc produces the report a subcommand exports.
type buildFunc func(ctx context.Context, svc *core.Service, filter core.SnapshotFilter) (core.Report, error)

func newSnapshotsCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "Export every snapshot in the range, one row per snapshot",
		Long: `Export every snapshot in the range, one row per snapshot, grouped by
organization and family.

With --family the export is that family's history instead: every survey
it answered, oldest snapshot first, with the survey title in the first column.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.family > 0 {
				return runExport(cmd, fmt.Sprintf("family_%d", flags.family), &flags, func(ctx context.Context, svc *core.Service, f core.SnapshotFilter) (core.Report, error) {
					history, err := svc.ListSnapshotsByFamily(ctx, f)
					if err != nil {
						return core.Report{}, err
					}
					return historyReport(history), nil
				})
			}
			return runExport(cmd, "snapshots", &flags, func(ctx context.Context, svc *core.Service, f core.SnapshotFilter) (core.Report, error) {
				return svc.BuildFamilyListingReport(ctx, f)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&flags.family, "family", 0, "export this family's snapshot history")
	return cmd
}

func newSurveyCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "survey",
		Short: "Export the snapshots of one survey in the survey's column order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, fmt.Sprintf("survey_%d", flags.survey), &flags, func(ctx context.Context, svc *core.Service, f core.SnapshotFilter) (core.Report, error) {
				return svc.BuildSurveyCsvReport(ctx, f)
			})
		},
	}
	flags.register(cmd)
	cmd.Flags().Int64Var(&flags.survey, "survey", 0, "survey id (required)")
	cmd.MarkFlagRequired("survey")
	return cmd
}

func newFamiliesCmd() *cobra.Command {
	var flags reportFlags
	cmd := &cobra.Command{
		Use:   "families",
		Short: "Export the families created in the range, grouped by organization",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd, "families", &flags, func(ctx context.Context, svc *core.Service, f core.SnapshotFilter) (core.Report, error) {
				groups, err := svc.ListFamiliesByOrganization(ctx, f)
				if err != nil {
					return core.Report{}, err
				}
				return familiesReport(groups), nil
			})
		},
	}
	flags.register(cmd)
	return cmd
}

// familiesHeaders are the columns of the families export.
var familiesHeaders = []string{"Organization Name", "Organization Code", "Family Code", "Family Name", "Country", "City", "Active"}

// familiesReport flattens organization groups into one row per family.
func familiesReport(groups []core.OrganizationFamilies) core.Report {
	report := core.Report{Headers: familiesHeaders, Rows: [][]string{}}
	for _, g := range groups {
		for _, f := range g.Families {
			report.Rows = append(report.Rows, []string{
				g.Name, g.Code, f.Code, f.Name, f.Country, f.City, fmt.Sprint(f.Active),
			})
		}
	}
	return report
}

// historyReport merges per-survey histories into one report. Columns are
// the union of the survey reports' headers in first-seen order; cells a
// survey does not have stay empty.
func historyReport(history []core.FamilySnapshots) core.Report {
	headers := []string{"Survey"}
	index := map[string]int{}
	for _, h := range history {
		for _, name := range h.Snapshots.Headers {
			if _, ok := index[name]; !ok {
				index[name] = len(headers)
				headers = append(headers, name)
			}
		}
	}

	report := core.Report{Headers: headers, Rows: [][]string{}}
	for _, h := range history {
		for _, row := range h.Snapshots.Rows {
			out := make([]string, len(headers))
			out[0] = h.SurveyTitle
			for i, cell := range row {
				out[index[h.Snapshots.Headers[i]]] = cell
			}
			report.Rows = append(report.Rows, out)
		}
	}
	return report
}

func runExport(cmd *cobra.Command, name string, flags *reportFlags, build buildFunc) error {
	filter, err := flags.filter()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	e, err := setup(ctx)
	if err != nil {
		return err
	}
	defer e.pool.Close()

	logger := logging.WithFields(ctx,
		"export_id", uuid.NewString(),
		"report", name,
	)

	report, err := build(ctx, e.service, filter)
	if err != nil {
		logger.Error("report failed", "error", err)
		return fmt.Errorf("%s: %w", core.FormatUserError(err), err)
	}

	escape := e.cfg.Report.CSVEscape
	if cmd.Flags().Changed("escape") {
		escape = flags.escape
	}

	if err := writeReport(cmd.OutOrStdout(), flags.out, report, core.CsvOptions{Escape: escape}); err != nil {
		return err
	}

	logger.Info("export completed", "rows", len(report.Rows), "out", flags.out, "escaped", escape)
	return nil
}

// writeReport writes report to path, or to stdout when path is empty.
func writeReport(stdout io.Writer, path string, report core.Report, opts core.CsvOptions) error {
	if path == "" {
		return core.WriteCsv(stdout, report, opts)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := core.WriteCsv(f, report, opts); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
