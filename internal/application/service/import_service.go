package service

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/sangkips/invoicer/internal/domain/entity"
	"github.com/sangkips/invoicer/pkg/apperror"
)

// ImportColumns is the expected header row of an import workbook.
var ImportColumns = []string{"Item", "Description", "Quantity", "Unit Price"}

// ImportResult contains the result of a line-item import
type ImportResult struct {
	TotalRows  int                  `json:"total_rows"`
	Successful int                  `json:"successful"`
	Failed     int                  `json:"failed"`
	Items      []entity.RawLineItem `json:"items"`
	Errors     []ImportRowError     `json:"errors,omitempty"`
}

// ImportRowError describes an error for a specific row during import
type ImportRowError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportService reads line items from spreadsheets.
type ImportService struct {
	layout *LayoutService
}

// NewImportService creates a new import service
func NewImportService(layout *LayoutService) *ImportService {
	return &ImportService{layout: layout}
}

// ImportLineItems reads the first sheet of an .xlsx workbook. Row 1 must be
// the header; columns are matched by name, case-insensitively. Rows that fail
// validation are reported and left out of Items.
func (s *ImportService) ImportLineItems(r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read spreadsheet: " + err.Error())
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperror.NewBadRequestError("Spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperror.NewBadRequestError("Could not read sheet " + sheets[0] + ": " + err.Error())
	}
	if len(rows) == 0 {
		return nil, apperror.NewBadRequestError("Spreadsheet is empty")
	}

	cols, err := mapImportColumns(rows[0])
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Items: []entity.RawLineItem{}}
	for i, cells := range rows[1:] {
		rowNum := i + 2 // +2 because row 1 is the header, data starts at row 2

		raw := entity.RawLineItem{
			Item:        cell(cells, cols[0]),
			Description: cell(cells, cols[1]),
			Quantity:    entity.RawNumber(cell(cells, cols[2])),
			UnitPrice:   entity.RawNumber(cell(cells, cols[3])),
		}
		if raw.IsBlank() {
			continue
		}
		result.TotalRows++

		if _, fieldErrs := s.layout.ParseLineItem(rowNum, raw); len(fieldErrs) > 0 {
			result.Failed++
			for _, fe := range fieldErrs {
				result.Errors = append(result.Errors, ImportRowError{
					Row:     rowNum,
					Field:   strings.TrimPrefix(fe.Field, fmt.Sprintf("items[%d].", rowNum)),
					Message: fe.Message,
				})
			}
			continue
		}

		result.Successful++
		result.Items = append(result.Items, raw)
	}

	return result, nil
}

// mapImportColumns returns the cell index of each ImportColumns entry.
func mapImportColumns(header []string) ([]int, error) {
	idx := make([]int, len(ImportColumns))
	for i, want := range ImportColumns {
		idx[i] = -1
		for j, got := range header {
			if strings.EqualFold(strings.TrimSpace(got), want) {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, apperror.NewValueError("header", fmt.Sprintf("missing column %q (expected %s)", want, strings.Join(ImportColumns, ", ")))
		}
	}
	return idx, nil
}

func cell(cells []string, i int) string {
	if i < len(cells) {
		return strings.TrimSpace(cells[i])
	}
	return ""
}
