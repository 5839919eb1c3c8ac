package export

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/shipbill-extractor/constants"
	"github.com/joseph-ayodele/shipbill-extractor/internal/llm"
)

const (
	// DefaultFilename is the fixed download name for the exported workbook.
	DefaultFilename = "Shipping_Bill_Data.xlsx"
	// ContentType is the spreadsheet MIME type for the download response.
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	sheet = "Shipping Bills"
)

// Service produces XLSX bytes from a ResultSet.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// BuildXLSX writes one workbook: a header row of display labels in the fixed
// column order, then one row per FieldRecord in ResultSet order. The optional
// invoice column appears only when at least one record carries it.
func (s *Service) BuildXLSX(records llm.ResultSet) ([]byte, error) {
	start := time.Now()

	cols := make([]string, 0, len(constants.ExpectedFields)+1)
	cols = append(cols, constants.ExpectedFields...)
	for _, r := range records {
		if _, ok := r[constants.FieldInvoiceNo]; ok {
			cols = append(cols, constants.FieldInvoiceNo)
			break
		}
	}

	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	// drop the default sheet so the workbook only shows ours
	_ = f.DeleteSheet("Sheet1")

	for i, key := range cols {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, constants.DisplayLabel(key))
	}

	for rowIdx, rec := range records {
		for colIdx, key := range cols {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			v, ok := rec[key]
			if !ok {
				v = constants.NotFound
			}
			_ = f.SetCellValue(sheet, cell, fmt.Sprintf("%v", v))
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(sheet, "A", "B", 16) // bill number, date
	_ = f.SetColWidth(sheet, "C", "C", 12) // LUT flag
	_ = f.SetColWidth(sheet, "D", "E", 14) // amount, port code
	_ = f.SetColWidth(sheet, "F", "F", 40) // source filename

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"columns", len(cols),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}
