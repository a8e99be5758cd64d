// Package brotli implements the optional BROTLI parquet compression codec.
package brotli

import (
	"io"

	"github.com/andybalholm/brotli"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

const (
	DefaultQuality = 0
	DefaultLGWin   = 0
)

// Codec implements the optional BROTLI compression codec.
type Codec struct {
	// Quality controls the compression-speed vs compression-density
	// trade-off. Range 0 to 11.
	Quality int
	// LGWin is the base-2 logarithm of the sliding window size. Range 10
	// to 24; 0 picks a window automatically from Quality.
	LGWin int

	compress.Compressor
	compress.Decompressor
}

func (c *Codec) String() string { return "BROTLI" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Brotli }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return c.Compressor.Encode(dst, src, c.NewWriter)
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.Decompressor.Decode(dst, src, c.NewReader)
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return reader{brotli.NewReader(r)}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	opts := brotli.WriterOptions{Quality: c.Quality, LGWin: c.LGWin}
	return writer{brotli.NewWriterOptions(w, opts)}, nil
}

type reader struct{ *brotli.Reader }

func (r reader) Close() error { return nil }

func (r reader) Reset(rr io.Reader) error {
	r.Reader.Reset(rr)
	return nil
}

type writer struct{ *brotli.Writer }

func (w writer) Reset(ww io.Writer) { w.Writer.Reset(ww) }
