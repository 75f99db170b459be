// Package vsv infers how an uploaded delimited file should be loaded into a
// table: which byte separates fields, whether the first line is a header, and
// how workbooks are split into independent comma-separated datasets.
//
// vsv works on bytes already in memory. It never touches the file system,
// parses rows into values, or builds SQL; those jobs belong to the table loader
// that consumes a Result.
//
// # Features
//
//   - Separator detection for comma, tab and pipe separated values
//   - Filename fast path for .csv, .tsv and .psv
//   - Quote-aware byte frequency sniffing for everything else
//   - Header row heuristics
//   - XLSX workbooks normalized to one CSV dataset per sheet
//   - Parquet files normalized to a CSV dataset
//   - Transparent handling of compressed files (gzip, bzip2, xz, zstandard)
//
// # Basic Usage
//
//	data, err := os.ReadFile("sales.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := vsv.Resolve(data, "sales.txt")
//	if errors.Is(err, vsv.ErrUndeterminedSeparator) {
//	    log.Fatal("can't determine a field delimiter")
//	}
//
//	for _, ds := range result.Datasets {
//	    r := csv.NewReader(bytes.NewReader(ds.Data))
//	    r.Comma = result.Separator.Rune()
//	    // skip the first record when result.Header is true
//	}
//
// # Separator Detection
//
// When the last three characters of the filename are "csv", "tsv" or "psv"
// (case-sensitive) the matching separator is used without looking at the
// content. Otherwise the first 10,000 bytes are scanned and, for each of
// comma, tab and pipe, occurrences are counted per line over the first
// min(newlines, 10) lines. Bytes between double quotes are skipped. A candidate
// qualifies when it occurs the same nonzero number of times on every line; the
// separator is found only when exactly one candidate qualifies.
//
// An undetermined separator is reported as SeparatorUndetermined together with
// ErrUndeterminedSeparator. Its String, Hex and Escaped forms are all "-1" and
// it must never be used as a delimiter.
//
// # Header Detection
//
// The first line is split on the separator without quote handling. It is not a
// header when two fields are equal or when more than one field consists only of
// digits, '-' and '.'. The numeric limit can be changed with HeaderRule.
//
// # Workbooks
//
// Files whose names end in "xls" or "lsx" are read with excelize. Each sheet
// becomes a dataset named filename+sheetName, the separator is always comma and
// the header flag is decided from the first sheet that has any content.
package vsv
