package vsv

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WorkbookReader opens spreadsheet workbooks held in memory.
type WorkbookReader interface {
	// OpenWorkbook parses data as a workbook
	OpenWorkbook(data []byte) (Workbook, error)
}

// Workbook is an opened spreadsheet with named sheets.
type Workbook interface {
	// SheetNames returns the sheet names in workbook order
	SheetNames() []string
	// SheetCSV renders one sheet as comma-separated text
	SheetCSV(sheet string) ([]byte, error)
	// Close releases the workbook
	Close() error
}

// excelizeReader is the default WorkbookReader, backed by excelize
type excelizeReader struct{}

// newExcelizeReader returns the excelize backed WorkbookReader
func newExcelizeReader() WorkbookReader {
	return excelizeReader{}
}

// OpenWorkbook opens an XLSX workbook from memory
func (excelizeReader) OpenWorkbook(data []byte) (Workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return &excelizeWorkbook{file: f}, nil
}

// excelizeWorkbook adapts *excelize.File to Workbook
type excelizeWorkbook struct {
	file *excelize.File
}

func (w *excelizeWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

// SheetCSV renders every row of the sheet as CSV. Rows are padded to the
// widest row of the sheet so that each line has the same number of fields.
func (w *excelizeWorkbook) SheetCSV(sheet string) ([]byte, error) {
	rows, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, err
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)
	for _, row := range rows {
		record := make([]string, width)
		copy(record, row)
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write row of sheet %s: %w", sheet, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("failed to write sheet %s: %w", sheet, err)
	}
	return buf.Bytes(), nil
}

func (w *excelizeWorkbook) Close() error {
	return w.file.Close()
}

// NormalizeSpreadsheet converts every sheet of a workbook into a comma-separated
// dataset named filename+sheetName, using the default resolver.
func NormalizeSpreadsheet(data []byte, filename string) (*Result, error) {
	return defaultResolver.NormalizeSpreadsheet(data, filename)
}

// NormalizeSpreadsheet converts every sheet of a workbook into a comma-separated
// dataset named filename+sheetName. The separator is always comma. The header
// flag is decided once, from the first sheet that has any content. Errors from
// the WorkbookReader are returned unchanged.
func (r *Resolver) NormalizeSpreadsheet(data []byte, filename string) (*Result, error) {
	workbook, err := r.workbookReader.OpenWorkbook(data)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = workbook.Close() // Ignore close error
	}()

	sheets := workbook.SheetNames()
	datasets := make([]Dataset, 0, len(sheets))
	for _, sheet := range sheets {
		content, err := workbook.SheetCSV(sheet)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, Dataset{
			Data: content,
			Name: filename + sheet,
		})
	}

	header := false
	for _, d := range datasets {
		if len(d.Data) > 0 {
			header = r.headerRule.HasHeader(d.Data, SeparatorComma)
			break
		}
	}

	r.logger.WithField("file", filename).WithField("sheets", len(sheets)).Debug("normalized spreadsheet")

	return &Result{
		Datasets:  datasets,
		Separator: SeparatorComma,
		Header:    header,
		Format:    FormatSpreadsheet,
	}, nil
}
