package vsv

import (
	"strings"
)

// Format is the route a file took through the resolver
type Format int

const (
	// FormatDelimited represents a plain delimited text file (CSV, TSV, PSV or sniffed)
	FormatDelimited Format = iota
	// FormatSpreadsheet represents a workbook normalized to one CSV dataset per sheet
	FormatSpreadsheet
	// FormatParquet represents a Parquet file normalized to a CSV dataset
	FormatParquet
)

// Spreadsheet and Parquet file name suffixes
var spreadsheetSuffixes = []string{"xls", "lsx"}

const extParquet = ".parquet"

// String returns the string representation of Format
func (f Format) String() string {
	switch f {
	case FormatDelimited:
		return "delimited"
	case FormatSpreadsheet:
		return "spreadsheet"
	case FormatParquet:
		return "parquet"
	default:
		return "delimited"
	}
}

// MarshalText renders the format by name
func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// detectFormat determines the route for a (decompressed) file name.
// Spreadsheets are recognized by the last 3 characters, case-sensitive, so
// both "xls" and "xlsx" qualify.
func detectFormat(filename string) Format {
	if len(filename) >= suffixLength {
		suffix := filename[len(filename)-suffixLength:]
		for _, s := range spreadsheetSuffixes {
			if suffix == s {
				return FormatSpreadsheet
			}
		}
	}
	if strings.HasSuffix(strings.ToLower(filename), extParquet) {
		return FormatParquet
	}
	return FormatDelimited
}

// Dataset is one independently loadable delimited buffer and the name of the table it becomes.
type Dataset struct {
	// Data is the delimited content
	Data []byte
	// Name is the file name, or file name plus sheet name for workbooks
	Name string
}

// Result is the outcome of resolving a file.
// Every dataset is parseable with Separator, and when Header is true the first
// line of each dataset holds column names rather than data.
type Result struct {
	// Datasets holds one entry for delimited and Parquet files and one per sheet for workbooks
	Datasets []Dataset
	// Separator is the field separator shared by every dataset
	Separator Separator
	// Header reports whether the first line of each dataset is a header row
	Header bool
	// Format is the route the file took
	Format Format
	// Compression is the compression removed before detection
	Compression CompressionType
}

// Names returns the dataset names in order
func (r *Result) Names() []string {
	names := make([]string, 0, len(r.Datasets))
	for _, d := range r.Datasets {
		names = append(names, d.Name)
	}
	return names
}
