package roi

// export.go serializes fetched rows to downloadable artifacts.
//
// Enumeration translation (internal value -> external code) happens
// here and only here, so the validator always sees internal
// representations. The exporter does not enforce validity: callers may
// export rows that failed validation.

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// exportNow is swappable in tests to pin the file-name date.
var exportNow = time.Now

// exportFileName derives the artifact name from the template ID and
// the current date, e.g. "B_02.02_20260825.csv".
func exportFileName(templateID, ext string) string {
	return fmt.Sprintf("%s_%s.%s", templateID, exportNow().Format("20060102"), ext)
}

// exportCell translates one cell for serialization.
func exportCell(m ColumnMapping, value string) string {
	if m.Enum == nil || value == "" {
		return value
	}
	if ext, ok := m.Enum.External(value); ok {
		return ext
	}
	// Untranslatable values pass through verbatim; the validator has
	// already flagged them.
	return value
}

// GenerateCSV serializes a fetch result to CSV. The header row equals
// the template's declared column order.
func GenerateCSV(templateID string, res FetchResult) (Artifact, error) {
	def, ok := Get(templateID)
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(def.Columns); err != nil {
		return Artifact{}, fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(def.Columns))
	for _, row := range res.Rows {
		for i, code := range def.Columns {
			record[i] = exportCell(def.Mapping[code], row[code])
		}
		if err := w.Write(record); err != nil {
			return Artifact{}, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return Artifact{}, fmt.Errorf("flush csv: %w", err)
	}

	return Artifact{
		Data:        buf.Bytes(),
		FileName:    exportFileName(def.Info.ID, "csv"),
		ContentType: "text/csv",
		RowCount:    len(res.Rows),
		ColumnCount: len(def.Columns),
	}, nil
}
