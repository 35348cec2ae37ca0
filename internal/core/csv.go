package core

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// CsvDelimiter separates cells in rendered reports.
const CsvDelimiter = ","

// CsvOptions controls report serialization.
type CsvOptions struct {
	// Escape quotes cells containing the delimiter, quotes or newlines
	// (RFC 4180). When false, cells are written verbatim, which is the
	// format existing report consumers read.
	Escape bool
}

// RenderCsv renders a report as delimited text: a header line followed by
// one line per row, each terminated by a newline. Cells are not escaped.
func RenderCsv(report Report) string {
	var b strings.Builder
	writeLine(&b, report.Headers)
	for _, row := range report.Rows {
		writeLine(&b, row)
	}
	return b.String()
}

func writeLine(b *strings.Builder, cells []string) {
	b.WriteString(strings.Join(cells, CsvDelimiter))
	b.WriteByte('\n')
}

// WriteCsv streams a report to w.
func WriteCsv(w io.Writer, report Report, opts CsvOptions) error {
	if opts.Escape {
		return writeEscaped(w, report)
	}

	bw := bufio.NewWriter(w)
	if err := writeRaw(bw, report.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, row := range report.Rows {
		if err := writeRaw(bw, row); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	return bw.Flush()
}

func writeRaw(w *bufio.Writer, cells []string) error {
	if _, err := w.WriteString(strings.Join(cells, CsvDelimiter)); err != nil {
		return err
	}
	return w.WriteByte('\n')
}

func writeEscaped(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.Headers); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(report.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
