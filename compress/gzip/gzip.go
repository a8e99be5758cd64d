// Package gzip implements the GZIP parquet compression codec.
package gzip

import (
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

const (
	emptyGzip = "\x1f\x8b\b\x00\x00\x00\x00\x00\x02\xff\x01\x00\x00\xff\xff\x00\x00\x00\x00\x00\x00\x00\x00"
)

const (
	NoCompression      = gzip.NoCompression
	BestSpeed          = gzip.BestSpeed
	BestCompression    = gzip.BestCompression
	DefaultCompression = gzip.DefaultCompression
	HuffmanOnly        = gzip.HuffmanOnly
)

// Codec implements the required GZIP compression codec via
// klauspost/compress/gzip, a drop-in faster replacement for compress/gzip.
type Codec struct {
	Level int

	compress.Compressor
	compress.Decompressor
}

func (c *Codec) String() string { return "GZIP" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Gzip }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return c.Compressor.Encode(dst, src, c.NewWriter)
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return c.Decompressor.Decode(dst, src, c.NewReader)
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	if r == nil {
		r = strings.NewReader(emptyGzip)
	}
	z, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return reader{z}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	if w == nil {
		w = io.Discard
	}
	level := c.Level
	if level == 0 {
		level = DefaultCompression
	}
	z, err := gzip.NewWriterLevel(w, level)
	if err != nil {
		return nil, err
	}
	return writer{z}, nil
}

type reader struct{ *gzip.Reader }

func (r reader) Reset(rr io.Reader) error {
	if rr == nil {
		rr = strings.NewReader(emptyGzip)
	}
	return r.Reader.Reset(rr)
}

type writer struct{ *gzip.Writer }

func (w writer) Reset(ww io.Writer) {
	if ww == nil {
		ww = io.Discard
	}
	w.Writer.Reset(ww)
}
