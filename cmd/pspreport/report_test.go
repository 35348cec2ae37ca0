package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/stoplight/internal/core"
)

func TestReportFlags_Filter(t *testing.T) {
	flags := reportFlags{from: "2024-01-01", to: "2024-01-31", org: 3, survey: 2}
	f, err := flags.filter()
	require.NoError(t, err)

	assert.Nil(t, f.ApplicationID)
	require.NotNil(t, f.OrganizationID)
	assert.Equal(t, int64(3), *f.OrganizationID)
	require.NotNil(t, f.SurveyID)
	assert.Equal(t, int64(2), *f.SurveyID)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *f.DateFrom)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999000, time.UTC), *f.DateTo)
}

func TestReportFlags_FilterErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags reportFlags
		want  error
	}{
		{"bad from", reportFlags{from: "2024/01/01", to: "2024-01-31"}, core.ErrInvalidArgument},
		{"bad to", reportFlags{from: "2024-01-01", to: "tomorrow"}, core.ErrInvalidArgument},
		{"reversed", reportFlags{from: "2024-02-01", to: "2024-01-31"}, core.ErrInvalidFilter},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.flags.filter()
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestFamiliesReport(t *testing.T) {
	groups := []core.OrganizationFamilies{
		{Name: "Alpha", Code: "A", Families: []core.Family{
			{Code: "PY.AA.19800101", Name: "Ana Acosta", Country: "PY", City: "Asuncion", Active: true},
			{Code: "PY.BB.19810101", Name: "Bea Baez", Country: "PY"},
		}},
		{Name: "Beta", Code: "B", Families: []core.Family{}},
	}

	report := familiesReport(groups)
	assert.Equal(t, familiesHeaders, report.Headers)
	assert.Equal(t, [][]string{
		{"Alpha", "A", "PY.AA.19800101", "Ana Acosta", "PY", "Asuncion", "true"},
		{"Alpha", "A", "PY.BB.19810101", "Bea Baez", "PY", "", "false"},
	}, report.Rows)
}

func TestHistoryReport(t *testing.T) {
	history := []core.FamilySnapshots{
		{FamilyID: 1, SurveyTitle: "Stoplight", Snapshots: core.Report{
			Headers: []string{"Created At", "Income"},
			Rows:    [][]string{{"2024-01-01", "1"}, {"2024-03-01", "3"}},
		}},
		{FamilyID: 1, SurveyTitle: "Health", Snapshots: core.Report{
			Headers: []string{"Created At", "Health Post"},
			Rows:    [][]string{{"2024-02-01", "2"}},
		}},
	}

	report := historyReport(history)
	assert.Equal(t, []string{"Survey", "Created At", "Income", "Health Post"}, report.Headers)
	assert.Equal(t, [][]string{
		{"Stoplight", "2024-01-01", "1", ""},
		{"Stoplight", "2024-03-01", "3", ""},
		{"Health", "2024-02-01", "", "2"},
	}, report.Rows)

	empty := historyReport(nil)
	assert.Equal(t, []string{"Survey"}, empty.Headers)
	assert.Empty(t, empty.Rows)
}

func TestWriteReport(t *testing.T) {
	report := core.Report{Headers: []string{"A", "B"}, Rows: [][]string{{"1", "x,y"}}}

	var stdout bytes.Buffer
	require.NoError(t, writeReport(&stdout, "", report, core.CsvOptions{}))
	assert.Equal(t, "A,B\n1,x,y\n", stdout.String())

	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, writeReport(&stdout, path, report, core.CsvOptions{Escape: true}))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A,B\n1,\"x,y\"\n", string(data))
}

func TestRootCmd(t *testing.T) {
	root := newRootCmd()

	for _, name := range []string{"snapshots", "survey", "families", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, cmd.Name())
	}

	survey, _, err := root.Find([]string{"survey"})
	require.NoError(t, err)
	for _, flag := range []string{"from", "to", "app", "org", "survey", "out", "escape"} {
		assert.NotNil(t, survey.Flags().Lookup(flag), flag)
	}
}

func TestRootCmd_RequiredFlags(t *testing.T) {
	root := newRootCmd()
	root.SetArgs([]string{"survey", "--from", "2024-01-01"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required flag")
}
