package vsv

import (
	"io"

	"github.com/sirupsen/logrus"
)

// Resolver turns raw file bytes into loadable datasets.
// A Resolver is immutable once built and safe for concurrent use.
type Resolver struct {
	logger              logrus.FieldLogger
	headerRule          HeaderRule
	workbookReader      WorkbookReader
	maxDecompressedSize int64
}

// DefaultMaxDecompressedSize is the largest decompressed content Resolve accepts (512 MiB)
const DefaultMaxDecompressedSize int64 = 512 << 20

// Option configures a Resolver
type Option func(*Resolver)

// WithLogger sets the logger used for debug output. Passing nil keeps the default, which discards everything.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithHeaderRule sets the header heuristic
func WithHeaderRule(rule HeaderRule) Option {
	return func(r *Resolver) {
		r.headerRule = rule
	}
}

// WithWorkbookReader replaces the excelize based spreadsheet reader
func WithWorkbookReader(reader WorkbookReader) Option {
	return func(r *Resolver) {
		if reader != nil {
			r.workbookReader = reader
		}
	}
}

// WithMaxDecompressedSize caps the size of decompressed content. Values below 1 are ignored.
func WithMaxDecompressedSize(size int64) Option {
	return func(r *Resolver) {
		if size > 0 {
			r.maxDecompressedSize = size
		}
	}
}

// defaultResolver backs the package level functions
var defaultResolver = NewResolver()

// NewResolver creates a Resolver. Without options it discards logs, uses
// DefaultHeaderRule, reads workbooks with excelize and accepts up to
// DefaultMaxDecompressedSize bytes of decompressed content.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		logger:              discardLogger(),
		headerRule:          DefaultHeaderRule(),
		workbookReader:      newExcelizeReader(),
		maxDecompressedSize: DefaultMaxDecompressedSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// discardLogger returns a logger that writes nowhere
func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// Resolve decides how a file should be loaded, using the default resolver.
func Resolve(data []byte, filename string) (*Result, error) {
	return defaultResolver.Resolve(data, filename)
}

// Resolve decides how a file should be loaded.
//
// Compressed input (.gz, .bz2, .xz, .zst or matching magic bytes) is
// decompressed first and the compression extension is dropped from the name.
// Decompressed content over the configured size limit fails with ErrInvalidData.
// Workbooks go through NormalizeSpreadsheet and Parquet files through
// NormalizeParquet. Anything else is a delimited file: the separator comes from
// DetectSeparator and the header flag from the HeaderRule, and the single
// dataset is the content under its file name.
//
// When no separator can be determined the returned error wraps
// ErrUndeterminedSeparator and no result is produced.
func (r *Resolver) Resolve(data []byte, filename string) (*Result, error) {
	content, name, compression, err := decompress(data, filename, r.maxDecompressedSize)
	if err != nil {
		return nil, NewErrorContext("decompression", filename).Error(err)
	}

	var result *Result
	switch detectFormat(name) {
	case FormatSpreadsheet:
		result, err = r.NormalizeSpreadsheet(content, name)
	case FormatParquet:
		result, err = r.NormalizeParquet(content, name)
	default:
		result, err = r.resolveDelimited(content, name)
	}
	if err != nil {
		return nil, err
	}
	result.Compression = compression

	r.logger.WithFields(logrus.Fields{
		"file":        filename,
		"format":      result.Format.String(),
		"compression": compression.String(),
		"separator":   result.Separator.Escaped(),
		"header":      result.Header,
		"datasets":    len(result.Datasets),
	}).Debug("resolved file")

	return result, nil
}

// resolveDelimited detects the separator and header of a plain delimited file
func (r *Resolver) resolveDelimited(data []byte, filename string) (*Result, error) {
	sep, err := DetectSeparator(filename, data)
	if err != nil {
		r.logger.WithField("file", filename).Debug("no separator found")
		return nil, NewErrorContext("separator detection", filename).Error(err)
	}

	return &Result{
		Datasets:  []Dataset{{Data: data, Name: filename}},
		Separator: sep,
		Header:    r.headerRule.HasHeader(data, sep),
		Format:    FormatDelimited,
	}, nil
}
