package vsv

import (
	"bytes"
	"compress/bzip2"
	"compress/gzip"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// CompressionType represents the compression type
type CompressionType int

const (
	// CompressionNone represents no compression
	CompressionNone CompressionType = iota
	// CompressionGZ represents gzip compression
	CompressionGZ
	// CompressionBZ2 represents bzip2 compression
	CompressionBZ2
	// CompressionXZ represents xz compression
	CompressionXZ
	// CompressionZSTD represents zstd compression
	CompressionZSTD
)

// Compression extensions
const (
	// extGZ is the gzip compression extension
	extGZ = ".gz"
	// extBZ2 is the bzip2 compression extension
	extBZ2 = ".bz2"
	// extXZ is the xz compression extension
	extXZ = ".xz"
	// extZSTD is the zstd compression extension
	extZSTD = ".zst"
)

// Magic byte signatures
var (
	gzipMagic  = []byte{0x1f, 0x8b}
	bzip2Magic = []byte{0x42, 0x5a, 0x68}
	xzMagic    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	zstdMagic  = []byte{0x28, 0xb5, 0x2f, 0xfd}

	// bzip2BlockMagic follows the "BZh" signature and level digit; "BZh" alone is plausible text.
	bzip2BlockMagic = []byte{0x31, 0x41, 0x59, 0x26, 0x53, 0x59}
)

// String returns the string representation of CompressionType
func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionGZ:
		return "gz"
	case CompressionBZ2:
		return "bz2"
	case CompressionXZ:
		return "xz"
	case CompressionZSTD:
		return "zstd"
	default:
		return "none"
	}
}

// Extension returns the file extension for the compression type
func (c CompressionType) Extension() string {
	switch c {
	case CompressionGZ:
		return extGZ
	case CompressionBZ2:
		return extBZ2
	case CompressionXZ:
		return extXZ
	case CompressionZSTD:
		return extZSTD
	default:
		return ""
	}
}

// MarshalText renders the compression type by name
func (c CompressionType) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// compressionHandler wraps compressed in-memory data with a decompressing reader
type compressionHandler interface {
	// CreateReader wraps an io.Reader with a decompression reader if needed
	CreateReader(reader io.Reader) (io.Reader, func() error, error)
}

// compressionHandlerImpl implements the compressionHandler interface
type compressionHandlerImpl struct {
	compressionType CompressionType
}

// newCompressionHandler creates a new compression handler for the given compression type
func newCompressionHandler(compressionType CompressionType) compressionHandler {
	return &compressionHandlerImpl{
		compressionType: compressionType,
	}
}

// CreateReader creates a decompression reader based on the compression type
func (h *compressionHandlerImpl) CreateReader(reader io.Reader) (io.Reader, func() error, error) {
	switch h.compressionType {
	case CompressionNone:
		return reader, func() error { return nil }, nil

	case CompressionGZ:
		gzReader, err := gzip.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		return gzReader, gzReader.Close, nil

	case CompressionBZ2:
		// bzip2.NewReader doesn't need closing
		return bzip2.NewReader(reader), func() error { return nil }, nil

	case CompressionXZ:
		xzReader, err := xz.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create xz reader: %w", err)
		}
		return xzReader, func() error { return nil }, nil

	case CompressionZSTD:
		decoder, err := zstd.NewReader(reader)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create zstd reader: %w", err)
		}
		return decoder, func() error {
			decoder.Close()
			return nil
		}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported compression type for reading: %v", h.compressionType)
	}
}

// detectCompressionType detects the compression type from the file name,
// falling back to the magic bytes at the start of data.
func detectCompressionType(filename string, data []byte) CompressionType {
	name := strings.ToLower(filename)

	switch {
	case strings.HasSuffix(name, extGZ):
		return CompressionGZ
	case strings.HasSuffix(name, extBZ2):
		return CompressionBZ2
	case strings.HasSuffix(name, extXZ):
		return CompressionXZ
	case strings.HasSuffix(name, extZSTD):
		return CompressionZSTD
	}

	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return CompressionGZ
	case isBzip2(data):
		return CompressionBZ2
	case bytes.HasPrefix(data, xzMagic):
		return CompressionXZ
	case bytes.HasPrefix(data, zstdMagic):
		return CompressionZSTD
	default:
		return CompressionNone
	}
}

// isBzip2 reports whether data starts with a bzip2 stream header and first block header
func isBzip2(data []byte) bool {
	if len(data) < len(bzip2Magic)+1+len(bzip2BlockMagic) || !bytes.HasPrefix(data, bzip2Magic) {
		return false
	}
	level := data[len(bzip2Magic)]
	if level < '1' || level > '9' {
		return false
	}
	return bytes.HasPrefix(data[len(bzip2Magic)+1:], bzip2BlockMagic)
}

// removeCompressionExtension removes the compression extension from a file name if present
func removeCompressionExtension(filename string) string {
	for _, ext := range []string{extGZ, extBZ2, extXZ, extZSTD} {
		if strings.HasSuffix(strings.ToLower(filename), ext) {
			return filename[:len(filename)-len(ext)]
		}
	}
	return filename
}

// decompress returns the plain content of data and the file name without its
// compression extension. Uncompressed input is returned unchanged. Output
// larger than limit bytes is rejected with ErrInvalidData.
func decompress(data []byte, filename string, limit int64) ([]byte, string, CompressionType, error) {
	compressionType := detectCompressionType(filename, data)
	if compressionType == CompressionNone {
		return data, filename, CompressionNone, nil
	}

	reader, cleanup, err := newCompressionHandler(compressionType).CreateReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", compressionType, fmt.Errorf("%w: %w", ErrInvalidData, err)
	}
	defer func() {
		_ = cleanup() // Ignore close error
	}()

	var buf bytes.Buffer
	n, err := io.Copy(&buf, io.LimitReader(reader, limit+1))
	if err != nil {
		return nil, "", compressionType, fmt.Errorf("%w: failed to decompress %s data: %w", ErrInvalidData, compressionType, err)
	}
	if n > limit {
		return nil, "", compressionType, fmt.Errorf("%w: decompressed %s data exceeds %d bytes", ErrInvalidData, compressionType, limit)
	}
	return buf.Bytes(), removeCompressionExtension(filename), compressionType, nil
}
