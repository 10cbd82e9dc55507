package roi

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// GenerateXLSX serializes a fetch result to an XLSX workbook with one
// sheet named after the template. Column order and enumeration
// translation match the CSV exporter.
func GenerateXLSX(templateID string, res FetchResult) (Artifact, error) {
	def, ok := Get(templateID)
	if !ok {
		return Artifact{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := def.Info.ID
	index, err := f.NewSheet(sheet)
	if err != nil {
		return Artifact{}, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return Artifact{}, fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]interface{}, len(def.Columns))
	for i, code := range def.Columns {
		header[i] = code
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return Artifact{}, fmt.Errorf("write header: %w", err)
	}

	for r, row := range res.Rows {
		record := make([]interface{}, len(def.Columns))
		for i, code := range def.Columns {
			record[i] = exportCell(def.Mapping[code], row[code])
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return Artifact{}, fmt.Errorf("cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &record); err != nil {
			return Artifact{}, fmt.Errorf("write row %d: %w", r, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return Artifact{}, fmt.Errorf("write workbook: %w", err)
	}

	return Artifact{
		Data:        buf.Bytes(),
		FileName:    exportFileName(def.Info.ID, "xlsx"),
		ContentType: xlsxContentType,
		RowCount:    len(res.Rows),
		ColumnCount: len(def.Columns),
	}, nil
}
