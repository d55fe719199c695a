package dataset

import (
	"errors"
	"fmt"
	"path"
	"strings"
)

// ErrUnknownFormat is returned when a format cannot be determined.
var ErrUnknownFormat = errors.New("dataset: unknown format")

// Format is a row serialization format.
type Format uint8

const (
	// FormatAuto detects the format from the blob name.
	FormatAuto Format = iota
	// FormatJSON is a single JSON array of objects.
	FormatJSON
	// FormatNDJSON is one JSON object per line.
	FormatNDJSON
	// FormatCSV is comma separated values with a header row.
	FormatCSV
	// FormatArrow is an Arrow IPC stream.
	FormatArrow
	// FormatParquet is a Parquet file.
	FormatParquet
)

var formatNames = map[Format]string{
	FormatAuto:    "auto",
	FormatJSON:    "json",
	FormatNDJSON:  "ndjson",
	FormatCSV:     "csv",
	FormatArrow:   "arrow",
	FormatParquet: "parquet",
}

// String returns the format name.
func (f Format) String() string {
	if s, ok := formatNames[f]; ok {
		return s
	}
	return fmt.Sprintf("format(%d)", uint8(f))
}

// ParseFormat parses a format name. The empty string yields FormatAuto.
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	for f, name := range formatNames {
		if strings.EqualFold(name, s) {
			return f, nil
		}
	}
	return FormatAuto, fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Compression is the byte-level compression wrapped around a format.
type Compression uint8

const (
	// CompressionNone stores plain bytes.
	CompressionNone Compression = iota
	// CompressionZstd wraps the stream in zstd.
	CompressionZstd
	// CompressionLZ4 wraps the stream in an LZ4 frame.
	CompressionLZ4
)

// String returns the compression name.
func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "none"
	case CompressionZstd:
		return "zstd"
	case CompressionLZ4:
		return "lz4"
	default:
		return fmt.Sprintf("compression(%d)", uint8(c))
	}
}

// ParseCompression parses a compression name. The empty string yields
// CompressionNone.
func ParseCompression(s string) (Compression, error) {
	switch strings.ToLower(s) {
	case "", "none":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "lz4":
		return CompressionLZ4, nil
	default:
		return CompressionNone, fmt.Errorf("dataset: unknown compression %q", s)
	}
}

// Detect derives format and compression from a blob name.
func Detect(name string) (Format, Compression, error) {
	base := strings.ToLower(path.Base(name))

	comp := CompressionNone
	switch ext := path.Ext(base); ext {
	case ".zst", ".zstd":
		comp = CompressionZstd
		base = strings.TrimSuffix(base, ext)
	case ".lz4":
		comp = CompressionLZ4
		base = strings.TrimSuffix(base, ext)
	}

	switch path.Ext(base) {
	case ".json":
		return FormatJSON, comp, nil
	case ".ndjson", ".jsonl":
		return FormatNDJSON, comp, nil
	case ".csv":
		return FormatCSV, comp, nil
	case ".arrow", ".arrows", ".ipc":
		return FormatArrow, comp, nil
	case ".parquet":
		return FormatParquet, comp, nil
	default:
		return FormatAuto, comp, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}
