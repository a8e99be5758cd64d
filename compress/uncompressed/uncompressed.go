// Package uncompressed implements the UNCOMPRESSED parquet codec: a
// pass-through that does no transformation at all.
package uncompressed

import (
	"io"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

type Codec struct{}

func (c *Codec) String() string { return "UNCOMPRESSED" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Uncompressed }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	return append(dst[:0], src...), nil
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) { return &reader{r}, nil }

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) { return &writer{w}, nil }

type reader struct{ io.Reader }

func (r *reader) Close() error             { return nil }
func (r *reader) Reset(rr io.Reader) error { r.Reader = rr; return nil }

type writer struct{ io.Writer }

func (w *writer) Close() error        { return nil }
func (w *writer) Reset(ww io.Writer)  { w.Writer = ww }
