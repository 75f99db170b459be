package vsv

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"

	"github.com/apache/arrow/go/v18/arrow"
	"github.com/apache/arrow/go/v18/arrow/array"
	pqfile "github.com/apache/arrow/go/v18/parquet/file"
	"github.com/apache/arrow/go/v18/parquet/pqarrow"
)

// parquetBatchRows is the number of rows read per record batch
const parquetBatchRows = 1024

// NormalizeParquet converts a Parquet file into a single comma-separated
// dataset whose first line holds the schema field names, using the default resolver.
func NormalizeParquet(data []byte, filename string) (*Result, error) {
	return defaultResolver.NormalizeParquet(data, filename)
}

// NormalizeParquet converts a Parquet file into a single comma-separated
// dataset whose first line holds the schema field names.
func (r *Resolver) NormalizeParquet(data []byte, filename string) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrEmptyData
	}

	content, rows, err := parquetToCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}

	r.logger.WithField("file", filename).WithField("rows", rows).Debug("normalized parquet")

	return &Result{
		Datasets:  []Dataset{{Data: content, Name: filename}},
		Separator: SeparatorComma,
		Header:    true,
		Format:    FormatParquet,
	}, nil
}

// parquetToCSV reads the whole Parquet file (it needs random access) and
// writes the schema names followed by every row as CSV.
func parquetToCSV(data []byte) ([]byte, int64, error) {
	pqReader, err := pqfile.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create parquet reader from bytes: %w", err)
	}
	defer pqReader.Close()

	arrowReader, err := pqarrow.NewFileReader(pqReader, pqarrow.ArrowReadProperties{}, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create arrow reader: %w", err)
	}

	table, err := arrowReader.ReadTable(context.Background())
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read table: %w", err)
	}
	defer table.Release()

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	schema := table.Schema()
	header := make([]string, schema.NumFields())
	for i, field := range schema.Fields() {
		header[i] = field.Name
	}
	if err := writer.Write(header); err != nil {
		return nil, 0, err
	}

	tableReader := array.NewTableReader(table, parquetBatchRows)
	defer tableReader.Release()

	var rows int64
	for tableReader.Next() {
		batch := tableReader.Record()
		for i := range int(batch.NumRows()) {
			row := make([]string, batch.NumCols())
			for j, col := range batch.Columns() {
				row[j] = arrowValueString(col, i)
			}
			if err := writer.Write(row); err != nil {
				return nil, 0, err
			}
			rows++
		}
	}
	if err := tableReader.Err(); err != nil {
		return nil, 0, fmt.Errorf("error reading table records: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, 0, err
	}
	return buf.Bytes(), rows, nil
}

// arrowValueString renders one cell as text; nulls become empty strings
func arrowValueString(col arrow.Array, i int) string {
	if col.IsNull(i) {
		return ""
	}
	switch a := col.(type) {
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	case *array.Binary:
		return string(a.Value(i))
	default:
		return col.ValueStr(i)
	}
}
