package parquet

import (
	"fmt"
	"strings"

	"github.com/cobaltwing/parquet/format"
)

const (
	DefaultCreatedBy          = "github.com/cobaltwing/parquet"
	DefaultPageBufferSize     = 1 * 1024 * 1024
	DefaultRowGroupTargetSize = 128 * 1024 * 1024
	DefaultDataPageStatistics = false
	DefaultSkipPageIndex      = true // page indexes are out of scope; always skipped
	DefaultDictionaryEncoding = true
)

// FileConfig carries configuration options for OpenFile.
type FileConfig struct {
	SkipPageIndex bool
}

func DefaultFileConfig() *FileConfig {
	return &FileConfig{SkipPageIndex: DefaultSkipPageIndex}
}

func (c *FileConfig) ConfigureFile(config *FileConfig) { config.SkipPageIndex = c.SkipPageIndex }

func (c *FileConfig) Validate() error { return nil }

// Apply applies the given options to c.
func (c *FileConfig) Apply(options ...FileOption) {
	for _, opt := range options {
		opt.ConfigureFile(c)
	}
}

// ReaderConfig carries configuration options for NewReader.
type ReaderConfig struct {
	PageBufferSize int
}

func DefaultReaderConfig() *ReaderConfig {
	return &ReaderConfig{PageBufferSize: DefaultPageBufferSize}
}

func (c *ReaderConfig) ConfigureReader(config *ReaderConfig) {
	*config = ReaderConfig{PageBufferSize: coalesceInt(c.PageBufferSize, config.PageBufferSize)}
}

func (c *ReaderConfig) Validate() error {
	const baseName = "parquet.(*ReaderConfig)."
	return errorInvalidConfiguration(
		validatePositiveInt(baseName+"PageBufferSize", c.PageBufferSize),
	)
}

// Apply applies the given options to c.
func (c *ReaderConfig) Apply(options ...ReaderOption) {
	for _, opt := range options {
		opt.ConfigureReader(c)
	}
}

// WriterConfig carries configuration options for NewWriter.
type WriterConfig struct {
	CreatedBy          string
	PageBufferSize     int
	RowGroupTargetSize int64
	DataPageStatistics bool
	DictionaryEncoding bool
	Compression        format.CompressionCodec
	KeyValueMetadata   map[string]string
}

func DefaultWriterConfig() *WriterConfig {
	return &WriterConfig{
		CreatedBy:          DefaultCreatedBy,
		PageBufferSize:     DefaultPageBufferSize,
		RowGroupTargetSize: DefaultRowGroupTargetSize,
		DataPageStatistics: DefaultDataPageStatistics,
		DictionaryEncoding: DefaultDictionaryEncoding,
		Compression:        format.Uncompressed,
	}
}

func (c *WriterConfig) ConfigureWriter(config *WriterConfig) {
	keyValueMetadata := config.KeyValueMetadata
	if len(c.KeyValueMetadata) > 0 {
		if keyValueMetadata == nil {
			keyValueMetadata = make(map[string]string, len(c.KeyValueMetadata))
		}
		for k, v := range c.KeyValueMetadata {
			keyValueMetadata[k] = v
		}
	}
	*config = WriterConfig{
		CreatedBy:          coalesceString(c.CreatedBy, config.CreatedBy),
		PageBufferSize:     coalesceInt(c.PageBufferSize, config.PageBufferSize),
		RowGroupTargetSize: coalesceInt64(c.RowGroupTargetSize, config.RowGroupTargetSize),
		DataPageStatistics: config.DataPageStatistics || c.DataPageStatistics,
		DictionaryEncoding: config.DictionaryEncoding && c.DictionaryEncoding,
		Compression:        config.Compression,
		KeyValueMetadata:   keyValueMetadata,
	}
}

func (c *WriterConfig) Validate() error {
	const baseName = "parquet.(*WriterConfig)."
	return errorInvalidConfiguration(
		validatePositiveInt(baseName+"PageBufferSize", c.PageBufferSize),
		validatePositiveInt64(baseName+"RowGroupTargetSize", c.RowGroupTargetSize),
	)
}

// Apply applies the given options to c.
func (c *WriterConfig) Apply(options ...WriterOption) {
	for _, opt := range options {
		opt.ConfigureWriter(c)
	}
}

// FileOption configures a FileConfig.
type FileOption interface{ ConfigureFile(*FileConfig) }

// ReaderOption configures a ReaderConfig.
type ReaderOption interface{ ConfigureReader(*ReaderConfig) }

// WriterOption configures a WriterConfig.
type WriterOption interface{ ConfigureWriter(*WriterConfig) }

// SkipPageIndex is retained for API symmetry with the teacher and sets
// FileConfig.SkipPageIndex; this implementation never reads or writes page
// indexes (spec Non-goals), so the stored value has no effect.
func SkipPageIndex(skip bool) FileOption {
	return fileOption(func(c *FileConfig) { c.SkipPageIndex = skip })
}

// PageBufferSize configures the size of column page buffers on readers or
// writers. Defaults to 1 MiB.
type PageBufferSize int

func (size PageBufferSize) ConfigureReader(c *ReaderConfig) { c.PageBufferSize = int(size) }
func (size PageBufferSize) ConfigureWriter(c *WriterConfig) { c.PageBufferSize = int(size) }

// CreatedBy sets the writer-application string recorded in the footer.
func CreatedBy(createdBy string) WriterOption {
	return writerOption(func(c *WriterConfig) { c.CreatedBy = createdBy })
}

// RowGroupTargetSize defines the target uncompressed size of row groups.
// Defaults to 128 MiB.
func RowGroupTargetSize(size int64) WriterOption {
	return writerOption(func(c *WriterConfig) { c.RowGroupTargetSize = size })
}

// DataPageStatistics enables emitting min/max/null-count statistics on
// every data page, not just column chunks. Defaults to false.
func DataPageStatistics(enabled bool) WriterOption {
	return writerOption(func(c *WriterConfig) { c.DataPageStatistics = enabled })
}

// DictionaryEncoding enables dictionary encoding of column chunks.
// Defaults to true.
func DictionaryEncoding(enabled bool) WriterOption {
	return writerOption(func(c *WriterConfig) { c.DictionaryEncoding = enabled })
}

// Compression sets the codec used to compress column chunks written.
// Defaults to Uncompressed.
func Compression(codec format.CompressionCodec) WriterOption {
	return writerOption(func(c *WriterConfig) { c.Compression = codec })
}

// KeyValueMetadata adds a key/value pair to the footer's key_value_metadata
// list. Repeated keys overwrite the previous value.
func KeyValueMetadata(key, value string) WriterOption {
	return writerOption(func(c *WriterConfig) {
		if c.KeyValueMetadata == nil {
			c.KeyValueMetadata = map[string]string{key: value}
		} else {
			c.KeyValueMetadata[key] = value
		}
	})
}

type fileOption func(*FileConfig)

func (opt fileOption) ConfigureFile(c *FileConfig) { opt(c) }

type readerOption func(*ReaderConfig)

func (opt readerOption) ConfigureReader(c *ReaderConfig) { opt(c) }

type writerOption func(*WriterConfig)

func (opt writerOption) ConfigureWriter(c *WriterConfig) { opt(c) }

func coalesceInt(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}

func coalesceInt64(a, b int64) int64 {
	if a != 0 {
		return a
	}
	return b
}

func coalesceString(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func validatePositiveInt(name string, v int) error {
	if v > 0 {
		return nil
	}
	return errorInvalidOptionValue(name, v)
}

func validatePositiveInt64(name string, v int64) error {
	if v > 0 {
		return nil
	}
	return errorInvalidOptionValue(name, v)
}

func errorInvalidOptionValue(name string, value any) error {
	return fmt.Errorf("invalid option value: %s: %v", name, value)
}

func errorInvalidConfiguration(reasons ...error) error {
	var c *invalidConfiguration
	for _, r := range reasons {
		if r != nil {
			if c == nil {
				c = new(invalidConfiguration)
			}
			c.reasons = append(c.reasons, r)
		}
	}
	if c != nil {
		return c
	}
	return nil
}

type invalidConfiguration struct {
	reasons []error
}

func (err *invalidConfiguration) Error() string {
	var b strings.Builder
	for _, r := range err.reasons {
		b.WriteString(r.Error())
		b.WriteByte('\n')
	}
	s := b.String()
	if s != "" {
		s = s[:len(s)-1]
	}
	return s
}

var (
	_ FileOption   = (*FileConfig)(nil)
	_ ReaderOption = (*ReaderConfig)(nil)
	_ WriterOption = (*WriterConfig)(nil)
	_ ReaderOption = PageBufferSize(0)
	_ WriterOption = PageBufferSize(0)
)
