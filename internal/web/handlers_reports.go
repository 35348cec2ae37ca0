package web

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/stoplight/internal/core"
	"github.com/JonMunkholm/stoplight/internal/logging"
)

// exportTimestampLayout stamps CSV download file names.
const exportTimestampLayout = "20060102_150405"

func (s *Server) handleFamiliesByOrganization(w http.ResponseWriter, r *http.Request) {
	filter, err := parseSnapshotFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	groups, err := s.service.ListFamiliesByOrganization(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeList(w, groups)
}

func (s *Server) handleFamilySnapshots(w http.ResponseWriter, r *http.Request) {
	familyID, err := parseIDParam(r, "familyId")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	filter, err := parseSnapshotFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	filter.FamilyID = &familyID

	history, err := s.service.ListSnapshotsByFamily(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	writeList(w, history)
}

func (s *Server) handleSnapshotsReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.familyListingReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSnapshotsCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := s.familyListingReport(w, r)
	if !ok {
		return
	}
	s.writeCSV(w, r, "snapshots", report)
}

func (s *Server) handleSurveyReport(w http.ResponseWriter, r *http.Request) {
	report, ok := s.surveyReport(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleSurveyCSV(w http.ResponseWriter, r *http.Request) {
	report, ok := s.surveyReport(w, r)
	if !ok {
		return
	}
	s.writeCSV(w, r, "survey_"+chi.URLParam(r, "surveyId"), report)
}

// familyListingReport builds the organization/family report, writing the
// error response itself when that fails.
func (s *Server) familyListingReport(w http.ResponseWriter, r *http.Request) (core.Report, bool) {
	filter, err := parseSnapshotFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return core.Report{}, false
	}
	report, err := s.service.BuildFamilyListingReport(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return core.Report{}, false
	}
	return report, true
}

// surveyReport builds the report of the survey named in the path.
func (s *Server) surveyReport(w http.ResponseWriter, r *http.Request) (core.Report, bool) {
	surveyID, err := parseIDParam(r, "surveyId")
	if err != nil {
		s.respondError(w, r, err)
		return core.Report{}, false
	}
	filter, err := parseSnapshotFilter(r)
	if err != nil {
		s.respondError(w, r, err)
		return core.Report{}, false
	}
	filter.SurveyID = &surveyID

	report, err := s.service.BuildSurveyCsvReport(r.Context(), filter)
	if err != nil {
		s.respondError(w, r, err)
		return core.Report{}, false
	}
	return report, true
}

// writeCSV sends report as a CSV download. The report is complete before
// the first byte goes out, so failures after that point can only be logged.
func (s *Server) writeCSV(w http.ResponseWriter, r *http.Request, name string, report core.Report) {
	exportID := uuid.NewString()
	logger := logging.WithFields(r.Context(),
		"export_id", exportID,
		"report", name,
	)

	filename := fmt.Sprintf("%s_%s.csv", name, time.Now().Format(exportTimestampLayout))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	w.Header().Set("X-Export-Id", exportID)
	w.WriteHeader(http.StatusOK)

	opts := core.CsvOptions{Escape: s.cfg.Report.CSVEscape}
	if err := core.WriteCsv(w, report, opts); err != nil {
		logger.Error("csv export failed", "error", err)
		return
	}

	logger.Info("csv export completed",
		"rows", len(report.Rows),
		"columns", len(report.Headers),
		"escaped", opts.Escape,
	)
}
