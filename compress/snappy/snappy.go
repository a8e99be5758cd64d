// Package snappy implements the SNAPPY parquet compression codec.
//
// Parquet's SNAPPY codec uses the raw block encoding, not the framed
// streaming format that snappy.Reader/snappy.Writer implement elsewhere;
// this package calls snappy.Encode/snappy.Decode directly and buffers
// whole pages in memory, mirroring the way the teacher's codec handles it.
package snappy

import (
	"bytes"
	"io"

	"github.com/klauspost/compress/snappy"

	"github.com/cobaltwing/parquet/compress"
	"github.com/cobaltwing/parquet/format"
)

type Codec struct{}

func (c *Codec) String() string { return "SNAPPY" }

func (c *Codec) CompressionCodec() format.CompressionCodec { return format.Snappy }

func (c *Codec) Encode(dst, src []byte) ([]byte, error) {
	return snappy.Encode(dst[:0], src), nil
}

func (c *Codec) Decode(dst, src []byte) ([]byte, error) {
	n, err := snappy.DecodedLen(src)
	if err != nil {
		return dst, err
	}
	if cap(dst) < n {
		dst = make([]byte, n)
	} else {
		dst = dst[:n]
	}
	out, err := snappy.Decode(dst, src)
	if err != nil {
		return dst, err
	}
	return out, nil
}

func (c *Codec) NewReader(r io.Reader) (compress.Reader, error) {
	return &reader{input: r, offset: -1}, nil
}

func (c *Codec) NewWriter(w io.Writer) (compress.Writer, error) {
	return &writer{output: w}, nil
}

type reader struct {
	input  io.Reader
	buffer bytes.Buffer
	offset int
	data   []byte
}

func (r *reader) Close() error { return r.Reset(nil) }

func (r *reader) Reset(rr io.Reader) error {
	r.input = rr
	r.buffer.Reset()
	r.offset = -1
	r.data = r.data[:0]
	return nil
}

func (r *reader) Read(b []byte) (int, error) {
	if r.offset < 0 {
		if r.input == nil {
			return 0, io.EOF
		}
		if _, err := r.buffer.ReadFrom(r.input); err != nil {
			return 0, err
		}
		var err error
		r.data, err = snappy.Decode(r.data[:0], r.buffer.Bytes())
		if err != nil {
			return 0, err
		}
		r.offset = 0
	}
	n := copy(b, r.data[r.offset:])
	r.offset += n
	if r.offset == len(r.data) {
		return n, io.EOF
	}
	return n, nil
}

type writer struct {
	output io.Writer
	buffer []byte
	data   []byte
}

func (w *writer) Close() error {
	if w.output == nil {
		w.buffer = w.buffer[:0]
		return nil
	}
	if len(w.buffer) > 0 {
		w.data = snappy.Encode(w.data[:0], w.buffer)
		w.buffer = w.buffer[:0]
	}
	_, err := w.output.Write(w.data)
	w.data = w.data[:0]
	return err
}

func (w *writer) Reset(ww io.Writer) {
	w.output = ww
	w.buffer = w.buffer[:0]
	w.data = w.data[:0]
}

func (w *writer) Write(b []byte) (int, error) {
	w.buffer = append(w.buffer, b...)
	return len(b), nil
}
